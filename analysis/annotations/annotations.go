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

// Package annotations implements the recognition of the attributes attached to
// implementation-block declarations. The only attribute this analysis interprets is the
// override marker; every other attribute is ignored. This is not a general attribute
// parsing infrastructure: the front end owns attribute syntax, and the resolved fact
// files only carry the raw attribute strings.
package annotations

import (
	"fmt"
	"regexp"
	"strings"
)

// attributeRegex matches an attribute of the form #[name] or #[name(arg1, arg2)]
var attributeRegex = regexp.MustCompile(`^\s*#\[\s*([A-Za-z_][A-Za-z0-9_]*)\s*(?:\(([^)]*)\))?\s*\]\s*$`)

// Attribute is the parsed content of a single attribute string attached to an
// implementation block declaration.
type Attribute struct {
	// Name of the attribute
	Name string

	// Args of the attribute (parsed from a comma-separated list of strings)
	Args []string
}

// ParseAttribute parses a raw attribute string of the form "#[name]" or "#[name(args)]".
// The bare form "name" without brackets is also accepted, since some front ends strip the
// surrounding syntax before emitting facts.
func ParseAttribute(raw string) (Attribute, error) {
	m := attributeRegex.FindStringSubmatch(raw)
	if m == nil {
		bare := strings.TrimSpace(raw)
		if bare != "" && !strings.ContainsAny(bare, "#[]() \t") {
			return Attribute{Name: bare}, nil
		}
		return Attribute{}, fmt.Errorf("malformed attribute %q", raw)
	}
	attr := Attribute{Name: m[1]}
	if m[2] != "" {
		for _, arg := range strings.Split(m[2], ",") {
			attr.Args = append(attr.Args, strings.TrimSpace(arg))
		}
	}
	return attr, nil
}

// Recognizer recognizes the override marker among the attributes of an implementation
// block. The marker name is configurable; the default is config.DefaultOverrideAttribute.
type Recognizer struct {
	overrideName string
}

// NewRecognizer returns a recognizer for the override attribute named overrideName.
func NewRecognizer(overrideName string) Recognizer {
	return Recognizer{overrideName: overrideName}
}

// OverrideName returns the attribute name this recognizer treats as the override marker.
func (r Recognizer) OverrideName() string {
	return r.overrideName
}

// OverridePresent reports whether the override marker appears among attrs.
// The override attribute takes no arguments; an occurrence with arguments is an error.
// Attributes other than the override marker are ignored, malformed or not: they belong
// to other tools.
func (r Recognizer) OverridePresent(attrs []string) (bool, error) {
	present := false
	for _, raw := range attrs {
		attr, err := ParseAttribute(raw)
		if err != nil {
			// A malformed attribute that mentions the marker is reported so the user
			// does not silently lose the override they intended to grant.
			if strings.Contains(raw, r.overrideName) {
				return false, err
			}
			continue
		}
		if attr.Name != r.overrideName {
			continue
		}
		if len(attr.Args) > 0 {
			return false, fmt.Errorf("attribute %s takes no arguments, got %q", r.overrideName, raw)
		}
		present = true
	}
	return present, nil
}
