package jsgf

import (
	"fmt"

	"github.com/syntactic/JSGFTools/internal/util"
)

// Rule is one named rewrite rule of a grammar: a case-sensitive name, a
// visibility flag, and the right-hand-side expansion tree. A rule's RHS may
// reference its own name, directly or through other rules, which is what
// makes a grammar recursive.
type Rule struct {
	// Name is the rule's name, without angle brackets. Case-sensitive.
	Name string

	// Public is whether the rule was declared with the "public" keyword and
	// so may serve as a top-level generation target for external callers.
	Public bool

	// RHS is the rule's right-hand-side expansion.
	RHS Expansion
}

func (r Rule) String() string {
	prefix := ""
	if r.Public {
		prefix = "public "
	}
	return fmt.Sprintf("%s<%s> = %s;", prefix, r.Name, r.RHS.String())
}

// Equal returns whether Rule is equal to another value. It will not be equal
// if the other value cannot be cast to Rule or *Rule.
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return r.Name == other.Name && r.Public == other.Public && r.RHS.Equal(other.RHS)
}

// Grammar is the parse result: a set of rules indexed by name, with the
// public ones additionally kept in source order. The zero value is an empty
// grammar ready for AddRule.
//
// A Grammar is built once (normally by Parse) and must not be modified
// afterwards; generators and concurrent callers only ever read it.
type Grammar struct {
	rules  map[string]Rule
	public []string
}

// AddRule adds a rule to the grammar. It returns a DuplicateRuleError if a
// rule with the same name was already added.
func (g *Grammar) AddRule(r Rule) error {
	if g.rules == nil {
		g.rules = map[string]Rule{}
	}

	if _, exists := g.rules[r.Name]; exists {
		return DuplicateRuleError{Name: r.Name}
	}

	g.rules[r.Name] = r
	if r.Public {
		g.public = append(g.public, r.Name)
	}
	return nil
}

// Rule returns the rule with the given name (without angle brackets). If the
// grammar does not define the name, an error matching ErrRuleNotDefined is
// returned.
func (g Grammar) Rule(name string) (Rule, error) {
	r, ok := g.rules[name]
	if !ok {
		return Rule{}, fmt.Errorf("<%s>: %w", name, ErrRuleNotDefined)
	}
	return r, nil
}

// HasRule returns whether the grammar defines a rule with the given name.
func (g Grammar) HasRule(name string) bool {
	_, ok := g.rules[name]
	return ok
}

// Len returns the number of rules in the grammar.
func (g Grammar) Len() int {
	return len(g.rules)
}

// RuleNames returns the names of all rules. The order is guaranteed to be the
// same on every call.
func (g Grammar) RuleNames() []string {
	return util.OrderedKeys(g.rules)
}

// PublicRules returns the public rules in the order they appeared in source.
func (g Grammar) PublicRules() []Rule {
	rules := make([]Rule, len(g.public))
	for i := range g.public {
		rules[i] = g.rules[g.public[i]]
	}
	return rules
}

// Validate checks that every rule reference anywhere in the grammar resolves
// to a defined rule. It returns an UnresolvedReferenceError naming every
// undefined reference found, or nil if all references resolve.
func (g Grammar) Validate() error {
	missing := util.NewStringSet()

	for _, name := range util.OrderedKeys(g.rules) {
		refs := util.NewStringSet()
		collectRuleRefs(g.rules[name].RHS, refs)
		for _, ref := range refs.Slice() {
			if !g.HasRule(ref) {
				missing.Add(ref)
			}
		}
	}

	if !missing.Empty() {
		return UnresolvedReferenceError{Names: missing.Slice()}
	}
	return nil
}

// DetectCycles finds cycles in the rule-reference graph. Each returned cycle
// is the list of rule names along it, starting and ending with the same name.
// A grammar with no recursion returns an empty list.
func (g Grammar) DetectCycles() [][]string {
	graph := map[string][]string{}
	for name, r := range g.rules {
		deps := util.NewStringSet()
		collectRuleRefs(r.RHS, deps)
		graph[name] = deps.Slice()
	}

	var cycles [][]string
	visited := util.NewStringSet()

	var dfs func(node string, path []string, onPath util.StringSet)
	dfs = func(node string, path []string, onPath util.StringSet) {
		if onPath.Has(node) {
			// found a cycle; slice off the lead-in portion of the path
			start := 0
			for i := range path {
				if path[i] == node {
					start = i
					break
				}
			}
			cycle := make([]string, 0, len(path)-start+1)
			cycle = append(cycle, path[start:]...)
			cycle = append(cycle, node)
			cycles = append(cycles, cycle)
			return
		}
		if visited.Has(node) {
			return
		}
		visited.Add(node)
		onPath.Add(node)
		path = append(path, node)

		for _, dep := range graph[node] {
			if _, defined := g.rules[dep]; !defined {
				// dangling references belong to Validate, not here
				continue
			}
			dfs(dep, path, onPath)
		}

		onPath.Remove(node)
	}

	for _, name := range util.OrderedKeys(g.rules) {
		if !visited.Has(name) {
			dfs(name, nil, util.NewStringSet())
		}
	}

	return cycles
}

// IsRecursive returns whether the named rule participates in any
// rule-reference cycle. If name is empty, it returns whether any rule in the
// grammar does.
func (g Grammar) IsRecursive(name string) bool {
	cycles := g.DetectCycles()

	if name == "" {
		return len(cycles) > 0
	}

	for _, cycle := range cycles {
		if util.InSlice(name, cycle) {
			return true
		}
	}
	return false
}

// collectRuleRefs walks the expansion and adds the name of every rule
// reference in it to refs.
func collectRuleRefs(node Expansion, refs util.StringSet) {
	switch n := node.(type) {
	case RuleRef:
		refs.Add(n.Name)
	case Sequence:
		for i := range n.Items {
			collectRuleRefs(n.Items[i], refs)
		}
	case Alternation:
		for i := range n.Choices {
			collectRuleRefs(n.Choices[i].Item, refs)
		}
	case OptionalGroup:
		collectRuleRefs(n.Item, refs)
	case Group:
		collectRuleRefs(n.Item, refs)
	}
}
