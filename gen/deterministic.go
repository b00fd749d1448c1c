// Package gen contains the two string generators that walk a parsed grammar:
// Deterministic, which enumerates every string a non-recursive grammar can
// produce, and Probabilistic, which draws weighted random strings and is safe
// for recursive grammars.
package gen

import (
	"fmt"

	"github.com/syntactic/JSGFTools/jsgf"
)

// DefaultMaxDepth is the rule-expansion depth at which Deterministic gives up
// and reports a RecursionLimitError, unless configured otherwise.
const DefaultMaxDepth = 50

// RecursionLimitError is returned by Deterministic when expanding a single
// rule passes the configured depth limit. It almost always means the
// generator was handed a recursive grammar, which is outside its input
// contract; recursive grammars must be sampled with Probabilistic instead.
type RecursionLimitError struct {
	// RuleName is the rule whose expansion went over the limit.
	RuleName string

	// Depth is the limit that was exceeded.
	Depth int
}

func (rle RecursionLimitError) Error() string {
	return fmt.Sprintf("expansion of rule <%s> exceeded depth %d; grammar is likely recursive and needs probabilistic generation", rle.RuleName, rle.Depth)
}

// Deterministic exhaustively enumerates the strings a grammar can produce.
//
// It assumes the grammar is non-recursive: no rule's expansion may reach the
// rule itself, directly or through other rules. That is a documented caller
// responsibility, not a checked precondition; the only concession is the
// MaxDepth guard, which turns runaway expansion into a RecursionLimitError
// instead of unbounded recursion. Callers with recursive grammars must use
// Probabilistic.
//
// Enumeration cost is exponential in alternation branching and sequence
// length; MaxResults is the caller's ceiling on how much of the result it
// wants back.
type Deterministic struct {
	// Grammar is the grammar to enumerate from.
	Grammar jsgf.Grammar

	// MaxDepth is the per-rule expansion depth limit. Zero means
	// DefaultMaxDepth; a negative value disables the guard entirely.
	MaxDepth int

	// MaxResults caps the number of strings returned from EnumerateRule and
	// EnumerateAll. Zero means unlimited.
	MaxResults int
}

// EnumerateRule returns every string derivable from the named rule's RHS, in
// derivation order. Duplicate derivations are not suppressed.
func (d Deterministic) EnumerateRule(name string) ([]string, error) {
	r, err := d.Grammar.Rule(name)
	if err != nil {
		return nil, err
	}

	results, err := d.Enumerate(r.RHS)
	if err != nil {
		return nil, err
	}
	return d.capped(results), nil
}

// EnumerateAll returns every string derivable from every public rule, public
// rules taken in source order.
func (d Deterministic) EnumerateAll() ([]string, error) {
	pubs := d.Grammar.PublicRules()
	if len(pubs) == 0 {
		return nil, fmt.Errorf("grammar has no public rules to enumerate from")
	}

	var all []string
	for _, r := range pubs {
		results, err := d.Enumerate(r.RHS)
		if err != nil {
			return nil, fmt.Errorf("rule <%s>: %w", r.Name, err)
		}
		all = append(all, results...)
	}
	return d.capped(all), nil
}

// Enumerate returns every string derivable from the given expansion node,
// resolving rule references through the generator's Grammar. MaxResults does
// not apply; it caps only the top-level entry points.
func (d Deterministic) Enumerate(node jsgf.Expansion) ([]string, error) {
	w := &detWalker{
		g:        d.Grammar,
		maxDepth: d.effectiveMaxDepth(),
		memo:     map[string][]string{},
		depth:    map[string]int{},
	}
	return w.walk(node)
}

func (d Deterministic) effectiveMaxDepth() int {
	if d.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

func (d Deterministic) capped(results []string) []string {
	if d.MaxResults > 0 && len(results) > d.MaxResults {
		return results[:d.MaxResults]
	}
	return results
}

// detWalker is the state of one enumeration traversal. Rules already fully
// expanded during this traversal are memoized so shared references are not
// recomputed.
type detWalker struct {
	g        jsgf.Grammar
	maxDepth int
	memo     map[string][]string
	depth    map[string]int
}

func (w *detWalker) walk(node jsgf.Expansion) ([]string, error) {
	switch n := node.(type) {
	case jsgf.Token:
		return []string{n.Text}, nil
	case jsgf.Sequence:
		results := []string{""}
		for i := range n.Items {
			part, err := w.walk(n.Items[i])
			if err != nil {
				return nil, err
			}
			results = crossJoin(results, part)
		}
		return results, nil
	case jsgf.Alternation:
		var union []string
		for i := range n.Choices {
			// weights only matter to the probabilistic generator
			branch, err := w.walk(n.Choices[i].Item)
			if err != nil {
				return nil, err
			}
			union = append(union, branch...)
		}
		return union, nil
	case jsgf.OptionalGroup:
		included, err := w.walk(n.Item)
		if err != nil {
			return nil, err
		}
		// the empty string stands for omission; joining filters it out so it
		// never contributes a separator
		return append([]string{""}, included...), nil
	case jsgf.Group:
		return w.walk(n.Item)
	case jsgf.RuleRef:
		if memoized, ok := w.memo[n.Name]; ok {
			return memoized, nil
		}

		r, err := w.g.Rule(n.Name)
		if err != nil {
			return nil, err
		}

		w.depth[n.Name]++
		if w.maxDepth > 0 && w.depth[n.Name] > w.maxDepth {
			return nil, RecursionLimitError{RuleName: n.Name, Depth: w.maxDepth}
		}
		results, err := w.walk(r.RHS)
		w.depth[n.Name]--
		if err != nil {
			return nil, err
		}

		w.memo[n.Name] = results
		return results, nil
	default:
		return nil, fmt.Errorf("cannot enumerate expansion of type %v", node.Type())
	}
}

// crossJoin pairs every prefix with every suffix, space-separated. Empty
// strings join without producing a separator.
func crossJoin(prefixes []string, suffixes []string) []string {
	combined := make([]string, 0, len(prefixes)*len(suffixes))
	for _, p := range prefixes {
		for _, s := range suffixes {
			if p == "" {
				combined = append(combined, s)
			} else if s == "" {
				combined = append(combined, p)
			} else {
				combined = append(combined, p+" "+s)
			}
		}
	}
	return combined
}
