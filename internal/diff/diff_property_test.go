//go:build property
// +build property

// Package diff_test contains property-based tests for the delta codec.
package diff_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"policy-registry/src/internal/diff"
)

// genDocument produces a document from generated lines. The lines themselves
// may contain newline characters, which exercises normalization.
func genDocument() gopter.Gen {
	return gen.SliceOf(gen.AnyString()).Map(func(lines []string) string {
		doc := ""
		for i, line := range lines {
			if i > 0 {
				doc += "\n"
			}
			doc += line
		}
		return doc
	})
}

// TestComputeApplyRoundTripProperty verifies the codec law.
// Property: Apply(old, Compute(old, new)) == Normalize(new)
func TestComputeApplyRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("applying a computed delta reproduces the new document", prop.ForAll(
		func(old, new string) bool {
			d := diff.Compute(old, new)

			raw, err := d.Marshal()
			if err != nil {
				return false
			}

			got, err := diff.Apply(old, raw)
			if err != nil {
				return false
			}
			return got == diff.Normalize(new)
		},
		genDocument(),
		genDocument(),
	))

	properties.TestingRun(t)
}

// TestComputeIdentityProperty verifies no changes are emitted for equal input.
// Property: Compute(doc, doc).Changes is empty
func TestComputeIdentityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("equal documents produce an empty change set", prop.ForAll(
		func(doc string) bool {
			return len(diff.Compute(doc, doc).Changes) == 0
		},
		genDocument(),
	))

	properties.TestingRun(t)
}

// TestApplyNeverFailsProperty verifies Apply tolerates arbitrary bytes.
// Property: Apply(base, garbage) returns base for non-delta input
func TestApplyNeverFailsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("arbitrary bytes leave the base unchanged", prop.ForAll(
		func(base, garbage string) bool {
			got, _ := diff.Apply(base, []byte(garbage))
			// Valid empty-ish payloads degrade to a normalized base; anything
			// uninterpretable must return the base verbatim.
			return got == base || got == diff.Normalize(base)
		},
		genDocument(),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
