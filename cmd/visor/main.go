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

package main

import (
	"fmt"
	"os"

	"github.com/awslabs/visor/analysis"
	"github.com/awslabs/visor/cmd/visor/check"
	"github.com/awslabs/visor/cmd/visor/statistics"
)

const usage = `Visor: Visibility Override Tools
Usage:
  visor [tool] [options] <fact file path(s)>
Tools:
  - check: classifies every member-access site of the given units as allowed or a privacy violation
  - statistics: prints decision statistics for the given units
Examples:
  Run the privacy check: visor check --config=config.yaml bitvec.yaml
  Print statistics for a bundle: visor statistics units.txtar`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(analysis.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "check":
		flags, err := check.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := check.Run(flags); err != nil {
			errExit(err)
		}
	case "statistics":
		flags, err := statistics.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := statistics.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n%s\n", cmd, usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
