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

// Package analysis contains the driver functions for running the visibility analysis.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/awslabs/visor/analysis/annotations"
	"github.com/awslabs/visor/analysis/config"
	"github.com/awslabs/visor/analysis/program"
	"github.com/awslabs/visor/analysis/visibility"
)

// Version is the version of the visor tools.
const Version = "v0.1.0"

// LoadPrograms loads the resolved fact files at the given paths. A path ending in
// .txtar is a bundle of compilation units; any other path is a single-unit yaml fact
// file. Units whose name does not match the config's unit filter are skipped.
func LoadPrograms(cfg *config.Config, logger *config.LogGroup, filenames []string) ([]*program.Program, error) {
	rec := annotations.NewRecognizer(cfg.OverrideAttribute)
	var progs []*program.Program
	for _, filename := range filenames {
		if strings.HasSuffix(filename, ".txtar") {
			bundle, err := program.LoadBundle(filename, rec)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", filename, err)
			}
			progs = append(progs, bundle...)
		} else {
			p, err := program.LoadFacts(filename, rec)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", filename, err)
			}
			progs = append(progs, p)
		}
	}

	var kept []*program.Program
	for _, p := range progs {
		if cfg.MatchUnitFilter(p.Unit) {
			kept = append(kept, p)
		} else {
			logger.Debugf("skipping unit %s: does not match unit filter", p.Unit)
		}
	}
	return kept, nil
}

// RunVisibility runs the privacy check over every unit and prints the diagnostics.
// The returned boolean reports whether the run failed under the config policy.
// Diagnostics never abort the run: every unit is checked even when an earlier unit has
// violations.
func RunVisibility(cfg *config.Config, logger *config.LogGroup, progs []*program.Program) ([]visibility.Report, bool) {
	logger.Infof("Starting visibility analysis over %d unit(s) ...", len(progs))
	start := time.Now()

	failed := false
	var reports []visibility.Report
	for _, p := range progs {
		report := visibility.RunUnit(cfg, logger, p)
		visibility.PrintReport(cfg, logger, report)
		if report.Failed(cfg) {
			failed = true
		}
		reports = append(reports, report)
	}

	logger.Infof("Visibility analysis done in %.2f s", time.Since(start).Seconds())
	return reports, failed
}
