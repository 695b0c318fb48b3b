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
	"strings"

	"github.com/awslabs/visor/internal/funcutil"
	"github.com/awslabs/visor/internal/graphutil"
	"github.com/yourbasic/graph"
)

// Validate checks the internal consistency of a loaded program: every referenced module
// is declared, and the lexical containment relation (site -> impl -> module -> parent)
// forms a forest. Validation errors are load errors, distinct from privacy diagnostics.
func Validate(p *Program) error {
	for _, id := range memberIDs(p) {
		m := p.Members[id]
		if m.DefiningModule == "" {
			return fmt.Errorf("unit %s: member %s has no defining module", p.Unit, id)
		}
		if _, ok := p.Modules[m.DefiningModule]; !ok {
			return fmt.Errorf("unit %s: member %s declared in unknown module %s", p.Unit, id, m.DefiningModule)
		}
	}

	for _, id := range implIDs(p) {
		i := p.Impls[id]
		if _, ok := p.Modules[i.Module]; !ok {
			return fmt.Errorf("unit %s: impl %s declared in unknown module %s", p.Unit, id, i.Module)
		}
	}

	for _, a := range p.Accesses {
		if a.Module == "" {
			return fmt.Errorf("unit %s: access at %s has no ambient module", p.Unit, a.Pos)
		}
		if _, ok := p.Modules[a.Module]; !ok {
			return fmt.Errorf("unit %s: access at %s in unknown module %s", p.Unit, a.Pos, a.Module)
		}
	}

	sg := scopeGraph(p)
	if graph.Acyclic(sg) {
		return nil
	}
	cycles := graphutil.FindAllElementaryCycles(sg)
	descs := funcutil.Map(cycles, func(cycle []int64) string {
		labels := funcutil.Map(cycle, func(id int64) string { return sg.IDMap[id].Label })
		return strings.Join(labels, " -> ")
	})
	return fmt.Errorf("unit %s: scope containment is not a forest: %s", p.Unit, strings.Join(descs, "; "))
}

// scopeGraph builds the directed containment graph of the program: each scope points to
// the scope that lexically contains it. Node insertion order is deterministic so cycle
// reports are stable.
func scopeGraph(p *Program) graphutil.SGraph {
	b := graphutil.NewBuilder()

	for _, path := range modulePaths(p) {
		m := p.Modules[path]
		b.AddNode("module:" + string(m.Path))
		if m.Parent != "" {
			b.AddEdge("module:"+string(m.Path), "module:"+string(m.Parent))
		}
	}

	for _, id := range implIDs(p) {
		i := p.Impls[id]
		b.AddEdge("impl:"+id, "module:"+string(i.Module))
	}

	for _, a := range p.Accesses {
		site := "site:" + a.Pos.String()
		if a.Impl != nil {
			b.AddEdge(site, "impl:"+a.Impl.ID())
		} else {
			b.AddEdge(site, "module:"+string(a.Module))
		}
	}

	return b.Graph()
}

func modulePaths(p *Program) []ModulePath {
	set := map[ModulePath]bool{}
	for path := range p.Modules {
		set[path] = true
	}
	return funcutil.SetToOrderedSlice(set)
}

func memberIDs(p *Program) []string {
	set := map[string]bool{}
	for id := range p.Members {
		set[id] = true
	}
	return funcutil.SetToOrderedSlice(set)
}

func implIDs(p *Program) []string {
	set := map[string]bool{}
	for id := range p.Impls {
		set[id] = true
	}
	return funcutil.SetToOrderedSlice(set)
}
