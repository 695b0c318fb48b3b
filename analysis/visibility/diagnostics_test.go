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
	"bytes"
	"strings"
	"testing"

	"github.com/awslabs/visor/analysis/config"
	"github.com/awslabs/visor/analysis/program"
)

func testConfig() *config.Config {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return cfg
}

func TestDiagnostic_namesMemberTypeAndImpl(t *testing.T) {
	p := bitvecProgram(true)
	s := site(p, "BitVec.storage", program.Read, "LowestBit for Wrapper", "", 22)
	d := Diagnostic{Site: s}

	msg := d.String()
	for _, want := range []string{"storage", "BitVec", "LowestBit for Wrapper", "collections.bitvec", "privacy violation"} {
		if !strings.Contains(msg, want) {
			t.Errorf("diagnostic %q should mention %q", msg, want)
		}
	}
}

func TestDiagnostic_outsideImpl(t *testing.T) {
	p := bitvecProgram(true)
	s := site(p, "BitVec.storage", program.Write, "", "app", 3)
	msg := Diagnostic{Site: s}.String()
	if !strings.Contains(msg, "outside any impl block") {
		t.Errorf("diagnostic %q should mention the absence of an enclosing impl", msg)
	}
	if !strings.Contains(msg, "write") {
		t.Errorf("diagnostic %q should mention the access kind", msg)
	}
}

func TestRunUnit_sortsDiagnosticsByPosition(t *testing.T) {
	p := bitvecProgram(false)
	// Denied sites deliberately out of source order.
	p.Accesses = []*program.AccessSite{
		{Member: p.Members["BitVec.storage"], Kind: program.Read, Module: "app",
			Pos: program.Position{File: "b.av", Line: 9}},
		{Member: p.Members["BitVec.storage"], Kind: program.Read, Module: "app",
			Pos: program.Position{File: "a.av", Line: 4}},
		{Member: p.Members["BitVec.storage"], Kind: program.Read, Module: "app",
			Pos: program.Position{File: "a.av", Line: 2}},
	}

	report := RunUnit(testConfig(), config.NewLogGroup(testConfig()), p)
	if len(report.Diagnostics) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(report.Diagnostics))
	}
	got := []string{
		report.Diagnostics[0].Site.Pos.String(),
		report.Diagnostics[1].Site.Pos.String(),
		report.Diagnostics[2].Site.Pos.String(),
	}
	want := []string{"a.av:2", "a.av:4", "b.av:9"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("diagnostic %d at %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRunUnit_failurePolicy(t *testing.T) {
	p := bitvecProgram(false)
	p.Accesses = []*program.AccessSite{
		site(p, "BitVec.storage", program.Read, "LowestBit for BitVec", "", 6),
	}
	cfg := testConfig()
	report := RunUnit(cfg, config.NewLogGroup(cfg), p)
	if !report.Failed(cfg) {
		t.Errorf("a report with violations should fail when fail-on-violation is set")
	}

	cfg.FailOnViolation = false
	if report.Failed(cfg) {
		t.Errorf("a report with violations should not fail when fail-on-violation is unset")
	}

	clean := bitvecProgram(true)
	clean.Accesses = []*program.AccessSite{
		site(clean, "BitVec.storage", program.Read, "LowestBit for BitVec", "", 6),
	}
	cfg = testConfig()
	cleanReport := RunUnit(cfg, config.NewLogGroup(cfg), clean)
	if cleanReport.Failed(cfg) {
		t.Errorf("a report without violations should never fail")
	}
}

func TestRunUnit_unusedOverrideWarning(t *testing.T) {
	p := bitvecProgram(true)
	// The marked impl for Wrapper never gets an override-allowed access: its only
	// access is denied (target mismatch). The marked impl for BitVec uses its marker.
	p.Accesses = []*program.AccessSite{
		site(p, "BitVec.storage", program.Read, "LowestBit for BitVec", "", 6),
		site(p, "BitVec.storage", program.Read, "LowestBit for Wrapper", "", 22),
	}
	cfg := testConfig()
	cfg.WarnUnusedOverride = true
	report := RunUnit(cfg, config.NewLogGroup(cfg), p)

	if len(report.UnusedOverrides) != 1 {
		t.Fatalf("expected 1 unused override, got %d", len(report.UnusedOverrides))
	}
	if report.UnusedOverrides[0].ID() != "LowestBit for Wrapper" {
		t.Errorf("unexpected unused override %s", report.UnusedOverrides[0])
	}
}

// capturedLogger returns a log group whose output is collected in the returned buffer,
// with timestamps disabled so lines are easy to match.
func capturedLogger(cfg *config.Config) (*config.LogGroup, *bytes.Buffer) {
	logger := config.NewLogGroup(cfg)
	buf := &bytes.Buffer{}
	logger.SetAllOutput(buf)
	logger.SetAllFlags(0)
	return logger, buf
}

func TestPrintReport_maxAlarmsCap(t *testing.T) {
	p := bitvecProgram(false)
	for i := 1; i <= 5; i++ {
		p.Accesses = append(p.Accesses, site(p, "BitVec.storage", program.Read, "", "app", i))
	}
	cfg := testConfig()
	cfg.MaxAlarms = 2
	logger, buf := capturedLogger(cfg)

	report := RunUnit(cfg, logger, p)
	if len(report.Diagnostics) != 5 {
		t.Fatalf("expected 5 diagnostics, got %d", len(report.Diagnostics))
	}
	PrintReport(cfg, logger, report)

	out := buf.String()
	if got := strings.Count(out, "read of private"); got != 2 {
		t.Errorf("expected 2 printed diagnostics, got %d in %q", got, out)
	}
	if !strings.Contains(out, "3 not shown") {
		t.Errorf("output should mention the suppressed diagnostics, got %q", out)
	}
}

func TestPrintReport_noCapWhenMaxAlarmsUnset(t *testing.T) {
	p := bitvecProgram(false)
	for i := 1; i <= 5; i++ {
		p.Accesses = append(p.Accesses, site(p, "BitVec.storage", program.Read, "", "app", i))
	}
	cfg := testConfig()
	logger, buf := capturedLogger(cfg)

	PrintReport(cfg, logger, RunUnit(cfg, logger, p))
	out := buf.String()
	if got := strings.Count(out, "read of private"); got != 5 {
		t.Errorf("expected all 5 diagnostics, got %d in %q", got, out)
	}
	if strings.Contains(out, "not shown") {
		t.Errorf("nothing should be suppressed without a cap, got %q", out)
	}
}

func TestPrintReport_unusedOverrideWarning(t *testing.T) {
	p := bitvecProgram(true)
	p.Accesses = []*program.AccessSite{
		site(p, "BitVec.storage", program.Read, "LowestBit for Wrapper", "", 22),
	}
	cfg := config.NewDefault()
	cfg.WarnUnusedOverride = true
	logger, buf := capturedLogger(cfg)
	report := RunUnit(cfg, logger, p)

	PrintReport(cfg, logger, report)
	out := buf.String()
	if !strings.Contains(out, "never needs it") || !strings.Contains(out, "LowestBit for Wrapper") {
		t.Errorf("expected an unused-override warning, got %q", out)
	}

	buf.Reset()
	cfg.SilenceWarn = true
	PrintReport(cfg, logger, report)
	if strings.Contains(buf.String(), "never needs it") {
		t.Errorf("warnings should be suppressed by silence-warn, got %q", buf.String())
	}
}

func TestRunUnit_unusedOverrideNotComputedByDefault(t *testing.T) {
	p := bitvecProgram(true)
	cfg := testConfig()
	report := RunUnit(cfg, config.NewLogGroup(cfg), p)
	if report.UnusedOverrides != nil {
		t.Errorf("unused overrides should only be computed when the option is set")
	}
}
