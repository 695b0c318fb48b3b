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

// Verdict is the outcome of classifying one access site.
type Verdict int

const (
	// Allowed accesses pass the privacy check
	Allowed Verdict = iota
	// Denied accesses are privacy violations
	Denied
)

// Reason explains a verdict.
type Reason int

const (
	// Ordinary means the access passes under the unmodified visibility rules
	Ordinary Reason = iota
	// Override means the access is private to a foreign scope but permitted by the
	// override marker on the enclosing impl block
	Override
	// PrivacyViolation means the access fails both the ordinary and the override test
	PrivacyViolation
)

func (r Reason) String() string {
	switch r {
	case Ordinary:
		return "ordinary"
	case Override:
		return "override"
	default:
		return "privacy violation"
	}
}

// Decision is the classification of a single access site. Decisions are values; the
// checker holds no state across calls.
type Decision struct {
	Verdict Verdict
	Reason  Reason
}

// AllowedOrdinary is the decision for accesses permitted by the ordinary rules.
func AllowedOrdinary() Decision {
	return Decision{Verdict: Allowed, Reason: Ordinary}
}

// AllowedOverride is the decision for accesses permitted by an override marker.
func AllowedOverride() Decision {
	return Decision{Verdict: Allowed, Reason: Override}
}

// DeniedPrivacy is the decision for privacy violations.
func DeniedPrivacy() Decision {
	return Decision{Verdict: Denied, Reason: PrivacyViolation}
}

func (d Decision) String() string {
	if d.Verdict == Allowed {
		return "allowed (" + d.Reason.String() + ")"
	}
	return "denied (" + d.Reason.String() + ")"
}
