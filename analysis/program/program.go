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

// Package program defines the resolved symbol tables the visibility analysis consumes:
// members with their declared visibility, implementation blocks with their override
// marker, and the member-access sites found in a compilation unit. The tables arrive
// fully resolved from a front end; this package only loads and validates them.
package program

import (
	"fmt"
	"strconv"
	"strings"
)

// Visibility is the declared visibility qualifier of a member.
type Visibility int

const (
	// Private members are visible in their defining module and its descendants.
	Private Visibility = iota
	// Public members are visible everywhere.
	Public
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	default:
		return "private"
	}
}

// MemberKind distinguishes fields from methods. The visibility rules treat both
// uniformly; the kind only appears in diagnostics and statistics.
type MemberKind int

const (
	Field MemberKind = iota
	Method
)

func (k MemberKind) String() string {
	switch k {
	case Method:
		return "method"
	default:
		return "field"
	}
}

// AccessKind is the kind of a member access: a read, a write, or a call.
// The override grants all three uniformly.
type AccessKind int

const (
	Read AccessKind = iota
	Write
	Call
)

func (k AccessKind) String() string {
	switch k {
	case Write:
		return "write"
	case Call:
		return "call"
	default:
		return "read"
	}
}

// ModulePath identifies a module as a dot-separated path from the root of the unit,
// e.g. "collections.bitvec".
type ModulePath string

// ParentPath returns the dotted parent of the path, or "" for a root module.
func (m ModulePath) ParentPath() ModulePath {
	if i := strings.LastIndex(string(m), "."); i >= 0 {
		return m[:i]
	}
	return ""
}

// Module is a named lexical scope. Parent is usually the dotted parent of Path, but a
// front end may declare a different parent for scopes it synthesizes.
type Module struct {
	Path   ModulePath
	Parent ModulePath
}

// Position is a file:line location in the analyzed source, carried only for diagnostics.
type Position struct {
	File string
	Line int
}

func (p Position) String() string {
	if p.File == "" {
		return "-"
	}
	return p.File + ":" + strconv.Itoa(p.Line)
}

// ParsePosition parses a "file:line" string. The empty string is the unknown position.
func ParsePosition(s string) (Position, error) {
	if s == "" {
		return Position{}, nil
	}
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Position{File: s}, nil
	}
	line, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return Position{}, fmt.Errorf("invalid position %q: %v", s, err)
	}
	return Position{File: s[:i], Line: line}, nil
}

// Member is a field or method declared on a nominal type.
type Member struct {
	// Name of the field or method
	Name string

	// Kind is Field or Method
	Kind MemberKind

	// Visibility is the declared visibility qualifier
	Visibility Visibility

	// DefiningType is the nominal type the member is declared on
	DefiningType string

	// DefiningModule is the module that owns the declaration
	DefiningModule ModulePath
}

// ID returns the canonical "Type.name" identity of the member.
func (m *Member) ID() string {
	return m.DefiningType + "." + m.Name
}

func (m *Member) String() string {
	return fmt.Sprintf("%s %s %s", m.Visibility, m.Kind, m.ID())
}

// ImplBlock is the implementation of a trait for a concrete target type. The override
// marker is recorded at construction and cannot change afterwards.
type ImplBlock struct {
	// Trait being implemented
	Trait string

	// Target is the concrete type the trait is implemented for
	Target string

	// Module is the module the impl block is declared in
	Module ModulePath

	// Pos is the declaration position
	Pos Position

	override bool
}

// NewImplBlock returns an impl block of trait for target, declared in module at pos,
// with the override marker set to override.
func NewImplBlock(trait string, target string, module ModulePath, pos Position, override bool) *ImplBlock {
	return &ImplBlock{
		Trait:    trait,
		Target:   target,
		Module:   module,
		Pos:      pos,
		override: override,
	}
}

// Override reports whether the override marker is present on the block.
func (i *ImplBlock) Override() bool {
	return i.override
}

// ID returns the canonical "Trait for Target" identity of the impl block.
func (i *ImplBlock) ID() string {
	return i.Trait + " for " + i.Target
}

func (i *ImplBlock) String() string {
	return "impl " + i.ID()
}

// AccessSite is a single member read, write, or call at a lexical location in the
// analyzed source.
type AccessSite struct {
	// Member being accessed
	Member *Member

	// Kind of the access
	Kind AccessKind

	// Impl is the enclosing impl block, or nil when the site is in an ordinary
	// function body
	Impl *ImplBlock

	// Module is the ambient module of the enclosing function
	Module ModulePath

	// Pos is the location of the access expression
	Pos Position
}

func (a *AccessSite) String() string {
	return fmt.Sprintf("%s of %s at %s", a.Kind, a.Member.ID(), a.Pos)
}

// Program holds the resolved tables of one compilation unit. A Program is immutable
// once loaded; the visibility analysis only reads it.
type Program struct {
	// Unit is the compilation unit name
	Unit string

	// Modules maps module paths to their declarations
	Modules map[ModulePath]*Module

	// Members maps "Type.name" identities to member declarations
	Members map[string]*Member

	// Impls maps "Trait for Target" identities to impl blocks
	Impls map[string]*ImplBlock

	// Accesses is every member-access site of the unit, in source order
	Accesses []*AccessSite
}

// Contains reports whether the module anc contains the module desc, i.e. desc is anc or
// a descendant of anc along the declared parent chain. The chain is finite for any
// validated program (see Validate).
func (p *Program) Contains(anc ModulePath, desc ModulePath) bool {
	seen := map[ModulePath]bool{}
	for cur := desc; cur != ""; {
		if cur == anc {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		m, ok := p.Modules[cur]
		if !ok {
			cur = cur.ParentPath()
			continue
		}
		cur = m.Parent
	}
	return anc == ""
}
