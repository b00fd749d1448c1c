package gen

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/syntactic/JSGFTools/jsgf"
)

// Probabilistic draws random strings from a grammar, one per invocation.
//
// Alternation branches are picked with probability proportional to their
// weights, and optional groups are included half the time. Because every draw
// is independent, a recursive grammar terminates with probability 1 as long
// as every cycle has some positive-weight branch that leaves it; grammar
// authors bias recursive rules toward termination by giving non-recursive
// alternatives higher weight. A cycle with no exit at all is a malformed
// grammar and will spin; that is the grammar author's responsibility, not
// something this generator detects.
//
// The generator itself does no locking. It is safe for concurrent use only to
// the degree its rand source is.
type Probabilistic struct {
	// Grammar is the grammar to sample from.
	Grammar jsgf.Grammar

	rng *rand.Rand
}

// NewProbabilistic creates a generator drawing randomness from rng. Callers
// that need reproducible output pass a source they seeded themselves; a nil
// rng gets a time-seeded one.
func NewProbabilistic(g jsgf.Grammar, rng *rand.Rand) *Probabilistic {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Probabilistic{Grammar: g, rng: rng}
}

// SampleRule returns one random string derived from the named rule. If name
// is empty, a public rule is first picked uniformly at random, matching the
// behavior of generating from a virtual alternation over all public rules.
func (p *Probabilistic) SampleRule(name string) (string, error) {
	if name == "" {
		pubs := p.Grammar.PublicRules()
		if len(pubs) == 0 {
			return "", fmt.Errorf("grammar has no public rules to sample from")
		}
		return p.Sample(pubs[p.rng.Intn(len(pubs))].RHS)
	}

	r, err := p.Grammar.Rule(name)
	if err != nil {
		return "", err
	}
	return p.Sample(r.RHS)
}

// SampleMany returns count strings from count independent draws of
// SampleRule.
func (p *Probabilistic) SampleMany(name string, count int) ([]string, error) {
	results := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, err := p.SampleRule(name)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	return results, nil
}

// Sample returns one random string derived from the given expansion node,
// resolving rule references through the generator's Grammar.
func (p *Probabilistic) Sample(node jsgf.Expansion) (string, error) {
	switch n := node.(type) {
	case jsgf.Token:
		return n.Text, nil
	case jsgf.Sequence:
		joined := ""
		for i := range n.Items {
			part, err := p.Sample(n.Items[i])
			if err != nil {
				return "", err
			}
			if part == "" {
				// omitted optionals contribute nothing, not even a space
				continue
			}
			if joined != "" {
				joined += " "
			}
			joined += part
		}
		return joined, nil
	case jsgf.Alternation:
		idx := WeightedIndex(p.rng, n.Weights())
		return p.Sample(n.Choices[idx].Item)
	case jsgf.OptionalGroup:
		if p.rng.Float64() < 0.5 {
			return "", nil
		}
		return p.Sample(n.Item)
	case jsgf.Group:
		return p.Sample(n.Item)
	case jsgf.RuleRef:
		r, err := p.Grammar.Rule(n.Name)
		if err != nil {
			return "", err
		}
		return p.Sample(r.RHS)
	default:
		return "", fmt.Errorf("cannot sample expansion of type %v", node.Type())
	}
}

// WeightedIndex picks an index of weights with probability proportional to
// its weight, by binary search over the cumulative distribution. Weights must
// be non-negative. If they sum to zero there is no distribution to honor, so
// the pick falls back to uniform.
func WeightedIndex(rng *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		panic("WeightedIndex called with no weights")
	}

	cum := make([]float64, len(weights))
	total := 0.0
	for i := range weights {
		total += weights[i]
		cum[i] = total
	}

	if total <= 0 {
		return rng.Intn(len(weights))
	}

	x := rng.Float64() * total
	idx := sort.Search(len(cum), func(i int) bool { return cum[i] > x })
	if idx == len(cum) {
		idx = len(cum) - 1
	}
	return idx
}
