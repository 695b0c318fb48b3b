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

package visibility

import (
	"fmt"
	"sort"

	"github.com/awslabs/visor/analysis/config"
	"github.com/awslabs/visor/analysis/program"
	"github.com/awslabs/visor/internal/formatutil"
	"github.com/awslabs/visor/internal/funcutil"
)

// Diagnostic describes one denied access site. It names the private member, its
// defining type, and the enclosing impl block, so the user can either add the override
// marker (when the impl targets the defining type) or correct the access.
type Diagnostic struct {
	Site *program.AccessSite
}

func (d Diagnostic) String() string {
	member := d.Site.Member
	where := "outside any impl block"
	if d.Site.Impl != nil {
		where = "in " + formatutil.SanitizeRepr(d.Site.Impl)
	}
	return fmt.Sprintf("%s: %s: %s of private %s %s declared on type %s in module %s, %s",
		d.Site.Pos,
		formatutil.Red("privacy violation"),
		d.Site.Kind,
		member.Kind,
		formatutil.Yellow(formatutil.Sanitize(member.Name)),
		formatutil.Yellow(formatutil.Sanitize(member.DefiningType)),
		member.DefiningModule,
		where)
}

// Report is the outcome of checking one compilation unit.
type Report struct {
	// Unit is the compilation unit name
	Unit string

	// Prog is the program the report was computed from
	Prog *program.Program

	// Results holds the decision for every access site, in source order
	Results []Result

	// Diagnostics holds one entry per denied site, sorted by position
	Diagnostics []Diagnostic

	// UnusedOverrides lists the impl blocks whose override marker was never needed.
	// Only populated when the warn-unused-override option is set.
	UnusedOverrides []*program.ImplBlock
}

// Failed reports whether the unit should fail the build under the config policy.
// The checker itself never aborts; collecting further units is the driver's choice.
func (r Report) Failed(cfg *config.Config) bool {
	return cfg.FailOnViolation && len(r.Diagnostics) > 0
}

// RunUnit runs the privacy check over one resolved compilation unit and returns the
// report. Diagnostics are sorted by position regardless of the classification order.
func RunUnit(cfg *config.Config, logger *config.LogGroup, prog *program.Program) Report {
	checker := NewChecker(prog)
	results := checker.CheckAll(cfg.NumGoroutines)

	denied := funcutil.Filter(results, func(r Result) bool { return r.Decision.Verdict == Denied })
	diagnostics := funcutil.Map(denied, func(r Result) Diagnostic { return Diagnostic{Site: r.Site} })
	sort.SliceStable(diagnostics, func(i, j int) bool {
		pi, pj := diagnostics[i].Site.Pos, diagnostics[j].Site.Pos
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		return pi.Line < pj.Line
	})

	report := Report{
		Unit:        prog.Unit,
		Prog:        prog,
		Results:     results,
		Diagnostics: diagnostics,
	}
	if cfg.WarnUnusedOverride {
		report.UnusedOverrides = unusedOverrides(prog, results)
	}

	logger.Debugf("unit %s: %d access sites, %d denied", prog.Unit, len(results), len(diagnostics))
	return report
}

// PrintReport logs the diagnostics and warnings of a report, respecting the max-alarms
// cap. User-facing ordering is stable; it carries no correctness meaning.
func PrintReport(cfg *config.Config, logger *config.LogGroup, report Report) {
	count := 0
	for _, d := range report.Diagnostics {
		if cfg.MaxAlarms > 0 && count >= cfg.MaxAlarms {
			logger.Errorf("unit %s: too many privacy violations, %d not shown",
				report.Unit, len(report.Diagnostics)-count)
			break
		}
		logger.Errorf("%s", d)
		count++
	}
	if !cfg.SilenceWarn {
		for _, impl := range report.UnusedOverrides {
			logger.Warnf("unit %s: %s at %s carries %s but never needs it",
				report.Unit, formatutil.SanitizeRepr(impl), impl.Pos, cfg.OverrideAttribute)
		}
	}
}

// unusedOverrides returns the marked impl blocks in which no access site was allowed
// through the override, sorted by impl identity.
func unusedOverrides(prog *program.Program, results []Result) []*program.ImplBlock {
	needed := map[*program.ImplBlock]bool{}
	for _, r := range results {
		if r.Decision.Reason == Override && r.Site.Impl != nil {
			needed[r.Site.Impl] = true
		}
	}
	ids := map[string]bool{}
	for id, impl := range prog.Impls {
		if impl.Override() && !needed[impl] {
			ids[id] = true
		}
	}
	return funcutil.Map(funcutil.SetToOrderedSlice(ids), func(id string) *program.ImplBlock {
		return prog.Impls[id]
	})
}
