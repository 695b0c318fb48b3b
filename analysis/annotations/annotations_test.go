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

package annotations

import (
	"testing"

	"github.com/awslabs/visor/analysis/config"
)

func TestParseAttribute(t *testing.T) {
	attr, err := ParseAttribute("#[visibility_override]")
	if err != nil {
		t.Fatalf("failed to parse attribute: %v", err)
	}
	if attr.Name != "visibility_override" || len(attr.Args) != 0 {
		t.Errorf("unexpected parse result: %+v", attr)
	}
}

func TestParseAttribute_withArgs(t *testing.T) {
	attr, err := ParseAttribute("#[derive(Clone, Debug)]")
	if err != nil {
		t.Fatalf("failed to parse attribute: %v", err)
	}
	if attr.Name != "derive" {
		t.Errorf("expected name derive, got %q", attr.Name)
	}
	if len(attr.Args) != 2 || attr.Args[0] != "Clone" || attr.Args[1] != "Debug" {
		t.Errorf("unexpected args: %v", attr.Args)
	}
}

func TestParseAttribute_bareName(t *testing.T) {
	attr, err := ParseAttribute("visibility_override")
	if err != nil {
		t.Fatalf("failed to parse bare attribute: %v", err)
	}
	if attr.Name != "visibility_override" {
		t.Errorf("expected bare name, got %q", attr.Name)
	}
}

func TestParseAttribute_malformed(t *testing.T) {
	for _, raw := range []string{"", "#[]", "#[1abc]", "#[unclosed", "a b"} {
		if _, err := ParseAttribute(raw); err == nil {
			t.Errorf("expected parse error for %q", raw)
		}
	}
}

func TestOverridePresent(t *testing.T) {
	r := NewRecognizer(config.DefaultOverrideAttribute)

	present, err := r.OverridePresent([]string{"#[derive(Clone)]", "#[visibility_override]"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !present {
		t.Errorf("expected override marker to be recognized")
	}

	present, err = r.OverridePresent([]string{"#[derive(Clone)]"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if present {
		t.Errorf("override marker should not be recognized when absent")
	}
}

func TestOverridePresent_rejectsArguments(t *testing.T) {
	r := NewRecognizer(config.DefaultOverrideAttribute)
	if _, err := r.OverridePresent([]string{"#[visibility_override(fields)]"}); err == nil {
		t.Errorf("expected an error for an override attribute with arguments")
	}
}

func TestOverridePresent_reportsMalformedMarker(t *testing.T) {
	r := NewRecognizer(config.DefaultOverrideAttribute)
	if _, err := r.OverridePresent([]string{"#[visibility_override"}); err == nil {
		t.Errorf("expected an error for a malformed override attribute")
	}
}

func TestOverridePresent_ignoresOtherMalformedAttributes(t *testing.T) {
	r := NewRecognizer(config.DefaultOverrideAttribute)
	present, err := r.OverridePresent([]string{"#[oops", "#[visibility_override]"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !present {
		t.Errorf("expected override marker to be recognized despite unrelated malformed attribute")
	}
}

func TestRecognizer_customName(t *testing.T) {
	r := NewRecognizer("unsafe_visibility_override")
	present, err := r.OverridePresent([]string{"#[visibility_override]"})
	if err != nil || present {
		t.Errorf("default marker should not match a custom recognizer (present=%v, err=%v)", present, err)
	}
	present, err = r.OverridePresent([]string{"#[unsafe_visibility_override]"})
	if err != nil || !present {
		t.Errorf("custom marker should match (present=%v, err=%v)", present, err)
	}
}
