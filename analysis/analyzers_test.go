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

package analysis

import (
	"path/filepath"
	"testing"

	"github.com/awslabs/visor/analysis/config"
	"github.com/awslabs/visor/analysis/visibility"
)

func quietConfig() *config.Config {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return cfg
}

func TestLoadPrograms_mixedInputs(t *testing.T) {
	cfg := quietConfig()
	logger := config.NewLogGroup(cfg)
	progs, err := LoadPrograms(cfg, logger, []string{
		filepath.Join("testdata", "clean.yaml"),
		filepath.Join("testdata", "units.txtar"),
	})
	if err != nil {
		t.Fatalf("failed to load programs: %v", err)
	}
	// clean.yaml plus the two bundle units; the bundle's clean unit is distinct from
	// the standalone one.
	if len(progs) != 3 {
		t.Fatalf("expected 3 units, got %d", len(progs))
	}
}

func TestLoadPrograms_unitFilter(t *testing.T) {
	cfg := quietConfig()
	cfg.UnitFilter = "^other$"
	cfgFile := filepath.Join("testdata", "units.txtar")
	logger := config.NewLogGroup(cfg)

	progs, err := LoadPrograms(cfg, logger, []string{cfgFile})
	if err != nil {
		t.Fatalf("failed to load programs: %v", err)
	}
	if len(progs) != 1 || progs[0].Unit != "other" {
		t.Fatalf("expected only the other unit, got %d unit(s)", len(progs))
	}
}

func TestLoadPrograms_missingFile(t *testing.T) {
	cfg := quietConfig()
	logger := config.NewLogGroup(cfg)
	if _, err := LoadPrograms(cfg, logger, []string{"does-not-exist.yaml"}); err == nil {
		t.Errorf("expected an error for a missing fact file")
	}
}

func TestRunVisibility_cleanUnitPasses(t *testing.T) {
	cfg := quietConfig()
	logger := config.NewLogGroup(cfg)
	progs, err := LoadPrograms(cfg, logger, []string{filepath.Join("testdata", "clean.yaml")})
	if err != nil {
		t.Fatalf("failed to load programs: %v", err)
	}

	reports, failed := RunVisibility(cfg, logger, progs)
	if failed {
		t.Errorf("a unit with a marked impl should pass")
	}
	if len(reports) != 1 || len(reports[0].Diagnostics) != 0 {
		t.Errorf("expected a single report with no diagnostics")
	}
	stats := visibility.ComputeStats(reports)
	if stats.AllowedOverride != 1 {
		t.Errorf("expected one override-allowed site, got %d", stats.AllowedOverride)
	}
}

func TestRunVisibility_violationFailsPerPolicy(t *testing.T) {
	cfg := quietConfig()
	logger := config.NewLogGroup(cfg)
	progs, err := LoadPrograms(cfg, logger, []string{filepath.Join("testdata", "violation.yaml")})
	if err != nil {
		t.Fatalf("failed to load programs: %v", err)
	}

	reports, failed := RunVisibility(cfg, logger, progs)
	if !failed {
		t.Errorf("an unmarked impl accessing a foreign private member should fail")
	}
	if len(reports) != 1 || len(reports[0].Diagnostics) != 1 {
		t.Fatalf("expected a single report with one diagnostic")
	}

	cfg.FailOnViolation = false
	_, failed = RunVisibility(cfg, logger, progs)
	if failed {
		t.Errorf("diagnostics should not fail the run when fail-on-violation is unset")
	}
}
