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
	"strings"

	"github.com/awslabs/visor/analysis/program"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the decisions over one or more checked compilation units.
type Stats struct {
	Units int `json:"units"`
	Sites int `json:"sites"`

	AllowedOrdinary int `json:"allowed-ordinary"`
	AllowedOverride int `json:"allowed-override"`
	Denied          int `json:"denied"`

	Reads  int `json:"reads"`
	Writes int `json:"writes"`
	Calls  int `json:"calls"`

	Impls       int `json:"impls"`
	MarkedImpls int `json:"marked-impls"`

	MeanSitesPerImpl   float64 `json:"mean-sites-per-impl"`
	MedianSitesPerImpl float64 `json:"median-sites-per-impl"`
	MaxSitesPerImpl    int     `json:"max-sites-per-impl"`
}

// ComputeStats aggregates statistics over the reports of a run.
func ComputeStats(reports []Report) Stats {
	s := Stats{Units: len(reports)}
	var perImpl []float64

	for _, report := range reports {
		counts := map[*program.ImplBlock]int{}
		for _, r := range report.Results {
			s.Sites++
			switch r.Decision.Reason {
			case Ordinary:
				s.AllowedOrdinary++
			case Override:
				s.AllowedOverride++
			default:
				s.Denied++
			}
			switch r.Site.Kind {
			case program.Write:
				s.Writes++
			case program.Call:
				s.Calls++
			default:
				s.Reads++
			}
			if r.Site.Impl != nil {
				counts[r.Site.Impl]++
			}
		}
		if report.Prog == nil {
			continue
		}
		for _, impl := range report.Prog.Impls {
			s.Impls++
			if impl.Override() {
				s.MarkedImpls++
			}
			n := counts[impl]
			perImpl = append(perImpl, float64(n))
			if n > s.MaxSitesPerImpl {
				s.MaxSitesPerImpl = n
			}
		}
	}

	if len(perImpl) > 0 {
		sort.Float64s(perImpl)
		s.MeanSitesPerImpl = stat.Mean(perImpl, nil)
		s.MedianSitesPerImpl = stat.Quantile(0.5, stat.Empirical, perImpl, nil)
	}
	return s
}

func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "units: %d, access sites: %d\n", s.Units, s.Sites)
	fmt.Fprintf(&b, "allowed (ordinary): %d, allowed (override): %d, denied: %d\n",
		s.AllowedOrdinary, s.AllowedOverride, s.Denied)
	fmt.Fprintf(&b, "reads: %d, writes: %d, calls: %d\n", s.Reads, s.Writes, s.Calls)
	fmt.Fprintf(&b, "impl blocks: %d (%d marked)\n", s.Impls, s.MarkedImpls)
	fmt.Fprintf(&b, "sites per impl: mean %.2f, median %.2f, max %d",
		s.MeanSitesPerImpl, s.MedianSitesPerImpl, s.MaxSitesPerImpl)
	return b.String()
}
