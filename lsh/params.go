package lsh

import (
	"errors"
	"fmt"
	"math"
)

// DefaultTolerance is the largest accepted distance between the crossover of
// the chosen parameters and the requested threshold.
const DefaultTolerance = 0.2

// integrationSteps is the resolution of the weighted parameter search.
const integrationSteps = 1000

var (
	// ErrInvalidParams is returned for band/row parameters that cannot index
	// signatures of the requested length.
	ErrInvalidParams = errors.New("lsh: invalid parameters")

	// ErrNoParams is returned when no (b, r) pair reaches the threshold within
	// the tolerance.
	ErrNoParams = errors.New("lsh: no band configuration within tolerance")
)

// Params are the banding parameters of an index.
type Params struct {
	Bands int `json:"bands"`
	Rows  int `json:"rows"`
}

// Validate checks that the parameters split signatures of length k exactly.
func (p Params) Validate(k int) error {
	if p.Bands <= 0 || p.Rows <= 0 {
		return fmt.Errorf("%w: bands=%d rows=%d must be positive", ErrInvalidParams, p.Bands, p.Rows)
	}
	if p.Bands*p.Rows != k {
		return fmt.Errorf("%w: bands*rows=%d does not equal k=%d", ErrInvalidParams, p.Bands*p.Rows, k)
	}
	return nil
}

// Crossover returns the similarity at which the candidate probability is 0.5.
func (p Params) Crossover() float64 {
	return Crossover(p.Bands, p.Rows)
}

// Probability returns the candidate probability for similarity s.
func (p Params) Probability(s float64) float64 {
	return Probability(s, p.Bands, p.Rows)
}

func (p Params) String() string {
	return fmt.Sprintf("b=%d r=%d crossover=%.4f", p.Bands, p.Rows, p.Crossover())
}

// Crossover returns (1 - 0.5^(1/b))^(1/r).
func Crossover(b, r int) float64 {
	return math.Pow(1-math.Pow(0.5, 1/float64(b)), 1/float64(r))
}

// Probability returns 1 - (1 - s^r)^b.
func Probability(s float64, b, r int) float64 {
	return 1 - math.Pow(1-math.Pow(s, float64(r)), float64(b))
}

// OptimalParams returns the (b, r) pair with b*r = k whose crossover is
// closest to t. Ties prefer more bands.
func OptimalParams(k int, t, tolerance float64) (Params, error) {
	if err := validateSearch(k, t); err != nil {
		return Params{}, err
	}
	if tolerance < 0 || math.IsNaN(tolerance) {
		return Params{}, fmt.Errorf("%w: tolerance %v must be non-negative", ErrInvalidParams, tolerance)
	}

	best := Params{}
	bestDist := math.Inf(1)

	for _, p := range divisorPairs(k) {
		d := math.Abs(Crossover(p.Bands, p.Rows) - t)
		if d < bestDist-1e-12 || (math.Abs(d-bestDist) <= 1e-12 && p.Bands > best.Bands) {
			best, bestDist = p, d
		}
	}

	if bestDist > tolerance {
		return Params{}, fmt.Errorf("%w: k=%d threshold=%v best %s is %.4f away (tolerance %v)",
			ErrNoParams, k, t, best, bestDist, tolerance)
	}

	return best, nil
}

// WeightedParams returns the (b, r) pair with b*r = k minimizing
//
//	fpWeight * ∫[0,t] P(s) ds + fnWeight * ∫[t,1] (1 - P(s)) ds
//
// the weighted areas of false positives and false negatives.
func WeightedParams(k int, t, fpWeight, fnWeight float64) (Params, error) {
	if err := validateSearch(k, t); err != nil {
		return Params{}, err
	}
	if fpWeight < 0 || fnWeight < 0 || fpWeight+fnWeight <= 0 {
		return Params{}, fmt.Errorf("%w: weights fp=%v fn=%v must be non-negative with a positive sum",
			ErrInvalidParams, fpWeight, fnWeight)
	}

	sum := fpWeight + fnWeight
	fpWeight, fnWeight = fpWeight/sum, fnWeight/sum

	best := Params{}
	bestErr := math.Inf(1)

	for _, p := range divisorPairs(k) {
		e := fpWeight*p.FalsePositiveArea(t) + fnWeight*p.FalseNegativeArea(t)
		if e < bestErr {
			best, bestErr = p, e
		}
	}

	return best, nil
}

// FalsePositiveArea returns ∫[0,t] P(s) ds.
func (p Params) FalsePositiveArea(t float64) float64 {
	return integrate(p.Probability, 0, t)
}

// FalseNegativeArea returns ∫[t,1] (1 - P(s)) ds.
func (p Params) FalseNegativeArea(t float64) float64 {
	return integrate(func(s float64) float64 { return 1 - p.Probability(s) }, t, 1)
}

func validateSearch(k int, t float64) error {
	if k <= 0 {
		return fmt.Errorf("%w: k=%d must be positive", ErrInvalidParams, k)
	}
	if !(t > 0 && t < 1) {
		return fmt.Errorf("%w: threshold %v must be in (0, 1)", ErrInvalidParams, t)
	}
	return nil
}

// divisorPairs returns every (b, r) with b*r = k, ascending by b.
func divisorPairs(k int) []Params {
	var pairs []Params
	for b := 1; b <= k; b++ {
		if k%b == 0 {
			pairs = append(pairs, Params{Bands: b, Rows: k / b})
		}
	}
	return pairs
}

// integrate applies the trapezoidal rule on [a, b].
func integrate(f func(float64) float64, a, b float64) float64 {
	if b <= a {
		return 0
	}
	h := (b - a) / integrationSteps
	sum := (f(a) + f(b)) / 2
	for i := 1; i < integrationSteps; i++ {
		sum += f(a + float64(i)*h)
	}
	return sum * h
}
