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

package program

import (
	"fmt"
	"os"
	"strings"

	"github.com/awslabs/visor/analysis/annotations"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"
)

// The fact-file schema. A fact file is the yaml serialization of the resolved tables of
// one compilation unit, as emitted by a front end after name and type resolution.

type factFile struct {
	Unit     string       `yaml:"unit"`
	Modules  []factModule `yaml:"modules"`
	Members  []factMember `yaml:"members"`
	Impls    []factImpl   `yaml:"impls"`
	Accesses []factAccess `yaml:"accesses"`
}

type factModule struct {
	Path   string `yaml:"path"`
	Parent string `yaml:"parent"`
}

type factMember struct {
	Type       string `yaml:"type"`
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	Visibility string `yaml:"visibility"`
	Module     string `yaml:"module"`
}

type factImpl struct {
	Trait      string   `yaml:"trait"`
	Target     string   `yaml:"target"`
	Module     string   `yaml:"module"`
	Attributes []string `yaml:"attributes"`
	Pos        string   `yaml:"pos"`
}

type factAccess struct {
	Member string `yaml:"member"`
	Kind   string `yaml:"kind"`
	Impl   string `yaml:"impl"`
	Module string `yaml:"module"`
	Pos    string `yaml:"pos"`
}

// ParseFacts builds a Program from the yaml fact file contents of one compilation unit.
// The override marker of each impl block is recognized with rec. The returned program
// has been validated (see Validate).
func ParseFacts(contents []byte, unit string, rec annotations.Recognizer) (*Program, error) {
	var f factFile
	if err := yaml.Unmarshal(contents, &f); err != nil {
		return nil, fmt.Errorf("could not unmarshal fact file: %w", err)
	}
	if f.Unit != "" {
		unit = f.Unit
	}

	p := &Program{
		Unit:    unit,
		Modules: map[ModulePath]*Module{},
		Members: map[string]*Member{},
		Impls:   map[string]*ImplBlock{},
	}

	for _, m := range f.Modules {
		path := ModulePath(m.Path)
		if path == "" {
			return nil, fmt.Errorf("unit %s: module with empty path", unit)
		}
		if _, ok := p.Modules[path]; ok {
			return nil, fmt.Errorf("unit %s: duplicate module %s", unit, path)
		}
		parent := ModulePath(m.Parent)
		if m.Parent == "" {
			parent = path.ParentPath()
		}
		p.Modules[path] = &Module{Path: path, Parent: parent}
	}

	for _, m := range f.Members {
		vis, err := parseVisibility(m.Visibility)
		if err != nil {
			return nil, fmt.Errorf("unit %s: member %s.%s: %v", unit, m.Type, m.Name, err)
		}
		kind, err := parseMemberKind(m.Kind)
		if err != nil {
			return nil, fmt.Errorf("unit %s: member %s.%s: %v", unit, m.Type, m.Name, err)
		}
		member := &Member{
			Name:           m.Name,
			Kind:           kind,
			Visibility:     vis,
			DefiningType:   m.Type,
			DefiningModule: ModulePath(m.Module),
		}
		if _, ok := p.Members[member.ID()]; ok {
			return nil, fmt.Errorf("unit %s: duplicate member %s", unit, member.ID())
		}
		p.Members[member.ID()] = member
	}

	for _, im := range f.Impls {
		override, err := rec.OverridePresent(im.Attributes)
		if err != nil {
			return nil, fmt.Errorf("unit %s: impl %s for %s: %v", unit, im.Trait, im.Target, err)
		}
		pos, err := ParsePosition(im.Pos)
		if err != nil {
			return nil, fmt.Errorf("unit %s: impl %s for %s: %v", unit, im.Trait, im.Target, err)
		}
		impl := NewImplBlock(im.Trait, im.Target, ModulePath(im.Module), pos, override)
		if _, ok := p.Impls[impl.ID()]; ok {
			return nil, fmt.Errorf("unit %s: duplicate impl %s", unit, impl.ID())
		}
		p.Impls[impl.ID()] = impl
	}

	for _, a := range f.Accesses {
		member, ok := p.Members[a.Member]
		if !ok {
			return nil, fmt.Errorf("unit %s: access at %s references unknown member %s", unit, a.Pos, a.Member)
		}
		kind, err := parseAccessKind(a.Kind)
		if err != nil {
			return nil, fmt.Errorf("unit %s: access at %s: %v", unit, a.Pos, err)
		}
		pos, err := ParsePosition(a.Pos)
		if err != nil {
			return nil, fmt.Errorf("unit %s: access to %s: %v", unit, a.Member, err)
		}
		site := &AccessSite{
			Member: member,
			Kind:   kind,
			Pos:    pos,
			Module: ModulePath(a.Module),
		}
		if a.Impl != "" {
			impl, ok := p.Impls[a.Impl]
			if !ok {
				return nil, fmt.Errorf("unit %s: access at %s references unknown impl %q", unit, a.Pos, a.Impl)
			}
			site.Impl = impl
			if site.Module == "" {
				site.Module = impl.Module
			}
		}
		p.Accesses = append(p.Accesses, site)
	}

	if err := Validate(p); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFacts loads and validates the fact file at filename as a single compilation unit.
func LoadFacts(filename string, rec annotations.Recognizer) (*Program, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read fact file: %w", err)
	}
	return ParseFacts(b, unitName(filename), rec)
}

// LoadBundle loads a txtar archive whose files are individual yaml fact files, one
// compilation unit each. Units are independent: each is validated on its own, and the
// first failing unit aborts the load.
func LoadBundle(filename string, rec annotations.Recognizer) ([]*Program, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read bundle: %w", err)
	}
	return ParseBundle(b, filename, rec)
}

// ParseBundle parses the txtar archive contents of a bundle named filename.
func ParseBundle(contents []byte, filename string, rec annotations.Recognizer) ([]*Program, error) {
	archive := txtar.Parse(contents)
	if len(archive.Files) == 0 {
		return nil, fmt.Errorf("bundle %s contains no fact files", filename)
	}
	var progs []*Program
	for _, file := range archive.Files {
		p, err := ParseFacts(file.Data, unitName(file.Name), rec)
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", filename, err)
		}
		progs = append(progs, p)
	}
	return progs, nil
}

// unitName derives a unit name from a file name by stripping directories and the
// extension.
func unitName(filename string) string {
	name := filename
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}

func parseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(s) {
	case "private", "":
		return Private, nil
	case "public":
		return Public, nil
	default:
		return Private, fmt.Errorf("unknown visibility %q", s)
	}
}

func parseMemberKind(s string) (MemberKind, error) {
	switch strings.ToLower(s) {
	case "field", "":
		return Field, nil
	case "method":
		return Method, nil
	default:
		return Field, fmt.Errorf("unknown member kind %q", s)
	}
}

func parseAccessKind(s string) (AccessKind, error) {
	switch strings.ToLower(s) {
	case "read", "":
		return Read, nil
	case "write":
		return Write, nil
	case "call":
		return Call, nil
	default:
		return Read, fmt.Errorf("unknown access kind %q", s)
	}
}
