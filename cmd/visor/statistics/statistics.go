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

// Package statistics implements the front-end for the visibility statistics report.
package statistics

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

// Usage is the usage message of the statistics sub-command.
const Usage = `Compute decision statistics for resolved compilation units.

Usage:
  visor statistics [options] facts.yaml ...
  visor statistics [options] units.txtar

Examples:
% visor statistics units.txtar
% visor statistics -json bitvec.yaml
`

// Flags represents the flags for the statistics sub-tool.
type Flags struct {
	tools.CommonFlags
	outputJson bool
}

// NewFlags returns parsed flags for statistics.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("statistics")
	outputJson := flags.FlagSet.Bool("json", false, "output results as JSON")
	tools.SetUsage(flags.FlagSet, Usage)
	if err := flags.FlagSet.Parse(args); err != nil {
		return Flags{}, fmt.Errorf("failed to parse command statistics with args %v: %v", args, err)
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

// Run computes and prints the decision statistics for the fact files in args.
func Run(flags Flags) error {
	fmt.Fprintf(os.Stderr, formatutil.Faint("Reading facts")+"\n")

	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	// Statistics are a report, not a gate: violations are counted, never fatal.
	cfg.FailOnViolation = false
	logger := config.NewLogGroup(cfg)

	progs, err := analysis.LoadPrograms(cfg, logger, flags.FlagSet.Args())
	if err != nil {
		return err
	}
	if len(progs) == 0 {
		return fmt.Errorf("no compilation units to analyze")
	}

	reports, _ := analysis.RunVisibility(cfg, logger, progs)
	stats := visibility.ComputeStats(reports)

	if flags.outputJson {
		buf, err := json.Marshal(stats)
		if err != nil {
			return fmt.Errorf("failed to marshal statistics: %v", err)
		}
		fmt.Println(string(buf))
	} else {
		fmt.Println(stats)
	}
	return nil
}
