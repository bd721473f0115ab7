// Package stats tests observed accent-match counts against the proportion
// expected by chance. A match count and its universe of opportunities form a
// binomial sample; the tester computes the probability of drawing a count at
// least as extreme under a reference proportion, so a canticum whose matches
// beat chance can be told apart from one that merely has many syllables.
package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/strophic/responsion/core/errors"
)

// DefaultReference is the corpus-wide proportion of positions at which
// accents coincide between strophes picked at random. Counts are tested
// against this rate unless a caller supplies its own.
const DefaultReference = 0.097

// SignificanceLevel is the p-value below which a result counts as
// significant.
const SignificanceLevel = 0.05

// Alternative selects the tail of the binomial test.
type Alternative string

const (
	// TwoSided tests for any deviation from the reference proportion.
	TwoSided Alternative = "two-sided"
	// Greater tests for more matches than chance predicts.
	Greater Alternative = "greater"
	// Less tests for fewer matches than chance predicts.
	Less Alternative = "less"
)

// IsValid reports whether the alternative is one of the known tails.
func (a Alternative) IsValid() bool {
	switch a {
	case TwoSided, Greater, Less:
		return true
	}
	return false
}

func (a Alternative) String() string {
	return string(a)
}

// Sample is one observed count against its universe of opportunities, for
// example the matched acutes of a canticum against all its accent records.
type Sample struct {
	Successes int `json:"successes"`
	Trials    int `json:"trials"`
}

// Result is the outcome of testing a single sample. A sample with no trials
// yields an inapplicable result rather than an error: a canticum without
// accent records is unremarkable, not malformed.
type Result struct {
	Successes   int     `json:"successes"`
	Trials      int     `json:"trials"`
	P           float64 `json:"p"`
	Applicable  bool    `json:"applicable"`
	Significant bool    `json:"significant"`
}

// Tester runs binomial significance tests against a reference proportion.
// The zero value tests against DefaultReference.
type Tester struct {
	// Reference is the chance proportion of successes. Values outside the
	// open interval (0, 1) fall back to DefaultReference.
	Reference float64
}

// NewTester creates a tester for the given reference proportion. A reference
// outside (0, 1) falls back to DefaultReference.
func NewTester(reference float64) *Tester {
	t := &Tester{Reference: reference}
	t.Reference = t.reference()
	return t
}

func (t *Tester) reference() float64 {
	if t.Reference <= 0 || t.Reference >= 1 {
		return DefaultReference
	}
	return t.Reference
}

// Test runs a binomial test on one sample. It returns a validation error for
// counts that cannot describe a sample (negative, or more successes than
// trials) and an inapplicable Result when there are no trials at all.
func (t *Tester) Test(successes, trials int, alt Alternative) (Result, error) {
	if !alt.IsValid() {
		return Result{}, errors.NewValidation("alternative", fmt.Sprintf("unknown alternative %q", alt))
	}
	if successes < 0 || trials < 0 {
		return Result{}, errors.NewValidation("sample", fmt.Sprintf("negative count: %d of %d", successes, trials))
	}
	if successes > trials {
		return Result{}, errors.NewValidation("sample", fmt.Sprintf("%d successes exceed %d trials", successes, trials))
	}
	if trials == 0 {
		return Result{P: 1, Applicable: false}, nil
	}

	p := t.pValue(successes, trials, alt)
	return Result{
		Successes:   successes,
		Trials:      trials,
		P:           p,
		Applicable:  true,
		Significant: IsSignificant(p),
	}, nil
}

func (t *Tester) pValue(successes, trials int, alt Alternative) float64 {
	bin := distuv.Binomial{N: float64(trials), P: t.reference()}
	switch alt {
	case Less:
		return bin.CDF(float64(successes))
	case Greater:
		if successes == 0 {
			return 1
		}
		return math.Min(1-bin.CDF(float64(successes-1)), 1)
	default:
		return twoSided(bin, successes, trials)
	}
}

// twoSided sums the probability of every outcome no more likely than the
// observed count, the minimum-likelihood form of the two-sided binomial
// test. The cutoff carries a small relative slack so outcomes tied with the
// observed one are not lost to rounding.
func twoSided(bin distuv.Binomial, successes, trials int) float64 {
	cutoff := bin.Prob(float64(successes)) * (1 + 1e-7)
	var p float64
	for i := 0; i <= trials; i++ {
		if pmf := bin.Prob(float64(i)); pmf <= cutoff {
			p += pmf
		}
	}
	return math.Min(p, 1)
}

// IsSignificant reports whether a p-value clears the significance level.
func IsSignificant(p float64) bool {
	return p < SignificanceLevel
}
