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
	"strings"
	"testing"

	"github.com/awslabs/visor/analysis/config"
	"github.com/awslabs/visor/analysis/program"
)

func TestComputeStats(t *testing.T) {
	p := bitvecProgram(true)
	p.Accesses = []*program.AccessSite{
		site(p, "BitVec.storage", program.Read, "LowestBit for BitVec", "", 6),   // override
		site(p, "BitVec.storage", program.Write, "LowestBit for BitVec", "", 7),  // override
		site(p, "BitVec.storage", program.Read, "LowestBit for Wrapper", "", 22), // denied
		site(p, "BitVec.len", program.Call, "", "app", 3),                        // ordinary
	}
	cfg := testConfig()
	report := RunUnit(cfg, config.NewLogGroup(cfg), p)
	stats := ComputeStats([]Report{report})

	if stats.Units != 1 || stats.Sites != 4 {
		t.Errorf("expected 1 unit with 4 sites, got %d units with %d sites", stats.Units, stats.Sites)
	}
	if stats.AllowedOrdinary != 1 || stats.AllowedOverride != 2 || stats.Denied != 1 {
		t.Errorf("unexpected decision counts: %+v", stats)
	}
	if stats.Reads != 2 || stats.Writes != 1 || stats.Calls != 1 {
		t.Errorf("unexpected access kind counts: %+v", stats)
	}
	if stats.Impls != 2 || stats.MarkedImpls != 2 {
		t.Errorf("unexpected impl counts: %+v", stats)
	}
	if stats.MaxSitesPerImpl != 2 {
		t.Errorf("expected max 2 sites per impl, got %d", stats.MaxSitesPerImpl)
	}
	if stats.MeanSitesPerImpl != 1.5 {
		t.Errorf("expected mean 1.5 sites per impl, got %f", stats.MeanSitesPerImpl)
	}
}

func TestComputeStats_empty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.Units != 0 || stats.Sites != 0 || stats.MeanSitesPerImpl != 0 {
		t.Errorf("empty stats should be all zero, got %+v", stats)
	}
}

func TestStats_String(t *testing.T) {
	stats := Stats{Units: 2, Sites: 10, Denied: 3, Impls: 4, MarkedImpls: 1}
	s := stats.String()
	for _, want := range []string{"units: 2", "denied: 3", "impl blocks: 4 (1 marked)"} {
		if !strings.Contains(s, want) {
			t.Errorf("stats string %q should contain %q", s, want)
		}
	}
}
