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

// Package check implements the front-end for the visibility analysis.
package check

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/awslabs/visor/analysis"
	"github.com/awslabs/visor/analysis/config"
	"github.com/awslabs/visor/analysis/visibility"
	"github.com/awslabs/visor/cmd/visor/tools"
	"github.com/awslabs/visor/internal/formatutil"
)

// Usage is the usage message of the check sub-command.
const Usage = `Check the member-access sites of resolved compilation units for privacy violations.

Usage:
  visor check [options] facts.yaml ...
  visor check [options] units.txtar

A fact file holds the resolved tables of one compilation unit; a txtar bundle holds
one fact file per unit.

Examples:
% visor check -config=config.yaml bitvec.yaml
% visor check -json units.txtar
`

// Flags represents the flags for the check sub-tool.
type Flags struct {
	tools.CommonFlags
	outputJson bool
}

// NewFlags returns parsed flags for check.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("check")
	outputJson := flags.FlagSet.Bool("json", false, "output results as JSON")
	tools.SetUsage(flags.FlagSet, Usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command check with args %v: %v", args, err)
	}

	return Flags{
		CommonFlags: tools.CommonFlags{
			FlagSet:    flags.FlagSet,
			ConfigPath: *flags.ConfigPath,
			Verbose:    *flags.Verbose,
		},
		outputJson: *outputJson,
	}, nil
}

type jsonViolation struct {
	Pos    string `json:"pos"`
	Kind   string `json:"kind"`
	Member string `json:"member"`
	Module string `json:"module"`
	Impl   string `json:"impl,omitempty"`
}

type jsonReport struct {
	Unit       string          `json:"unit"`
	Sites      int             `json:"sites"`
	Violations []jsonViolation `json:"violations"`
}

// Run runs the visibility analysis on the fact files in args.
func Run(flags Flags) error {
	fmt.Fprintf(os.Stderr, formatutil.Faint("Reading facts")+"\n")

	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)

	progs, err := analysis.LoadPrograms(cfg, logger, flags.FlagSet.Args())
	if err != nil {
		return err
	}
	if len(progs) == 0 {
		return fmt.Errorf("no compilation units to check")
	}

	reports, failed := analysis.RunVisibility(cfg, logger, progs)

	if flags.outputJson {
		buf, err := json.Marshal(jsonReports(reports))
		if err != nil {
			return fmt.Errorf("failed to marshal reports: %v", err)
		}
		fmt.Println(string(buf))
	}

	if failed {
		return fmt.Errorf("privacy violations found")
	}
	return nil
}

func jsonReports(reports []visibility.Report) []jsonReport {
	out := make([]jsonReport, 0, len(reports))
	for _, report := range reports {
		jr := jsonReport{
			Unit:       report.Unit,
			Sites:      len(report.Results),
			Violations: []jsonViolation{},
		}
		for _, d := range report.Diagnostics {
			v := jsonViolation{
				Pos:    d.Site.Pos.String(),
				Kind:   d.Site.Kind.String(),
				Member: d.Site.Member.ID(),
				Module: string(d.Site.Member.DefiningModule),
			}
			if d.Site.Impl != nil {
				v.Impl = d.Site.Impl.ID()
			}
			jr.Violations = append(jr.Violations, v)
		}
		out = append(out, jr)
	}
	return out
}
