// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package visibility implements the privacy-checking pass: it classifies every
// member-access site of a resolved compilation unit as an ordinary permitted access, an
// explicitly-overridden allowed access, or a privacy violation. The pass runs after
// name and type resolution and before code generation; it consumes the resolved tables
// of the program package and produces decisions for a diagnostics reporter.
package visibility

import (
	"github.com/awslabs/visor/analysis/program"
	"github.com/awslabs/visor/internal/funcutil"
)

// Checker classifies access sites against the resolved tables of one compilation unit.
// The tables are immutable, so a Checker is safe for concurrent use and Check is a pure
// function of its argument.
type Checker struct {
	prog *program.Program
}

// NewChecker returns a checker for the resolved program.
func NewChecker(prog *program.Program) *Checker {
	return &Checker{prog: prog}
}

// Check classifies one access site.
//
// A public member, or a private member accessed from within its defining module, is an
// ordinary allowed access. A private member accessed from a foreign scope is allowed
// only when the site lies lexically inside an impl block whose target type is exactly
// the member's defining type and whose override marker is present; the marker covers
// the whole block, and it never widens access for any other type, wrapped or not.
// Everything else is a privacy violation.
func (c *Checker) Check(site *program.AccessSite) Decision {
	member := site.Member
	if member.Visibility == program.Public {
		return AllowedOrdinary()
	}
	if c.prog.Contains(member.DefiningModule, site.Module) {
		return AllowedOrdinary()
	}
	if impl := site.Impl; impl != nil && impl.Target == member.DefiningType && impl.Override() {
		return AllowedOverride()
	}
	return DeniedPrivacy()
}

// Result pairs an access site with its decision.
type Result struct {
	Site     *program.AccessSite
	Decision Decision
}

// CheckAll classifies every access site of the unit. Sites are independent, so with
// numRoutines > 1 the classification runs in parallel; the result order always matches
// the source order of the sites.
func (c *Checker) CheckAll(numRoutines int) []Result {
	check := func(site *program.AccessSite) Result {
		return Result{Site: site, Decision: c.Check(site)}
	}
	if numRoutines > 1 {
		return funcutil.MapParallel(c.prog.Accesses, check, numRoutines)
	}
	return funcutil.Map(c.prog.Accesses, check)
}
