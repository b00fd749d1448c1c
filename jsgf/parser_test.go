package jsgf

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse_ruleStructure(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		rule      string
		expect    Expansion
		expectPub bool
	}{
		{
			name:   "single word",
			input:  "<x> = hello;",
			rule:   "x",
			expect: Token{Text: "hello"},
		},
		{
			name:      "public rule",
			input:     "public <x> = hello;",
			rule:      "x",
			expect:    Token{Text: "hello"},
			expectPub: true,
		},
		{
			name:  "sequence of words",
			input: "<x> = hello there world;",
			rule:  "x",
			expect: Sequence{Items: []Expansion{
				Token{Text: "hello"},
				Token{Text: "there"},
				Token{Text: "world"},
			}},
		},
		{
			name:  "two-branch alternation gets default weights",
			input: "<x> = a | b;",
			rule:  "x",
			expect: Alternation{Choices: []Choice{
				{Weight: DefaultWeight, Item: Token{Text: "a"}},
				{Weight: DefaultWeight, Item: Token{Text: "b"}},
			}},
		},
		{
			name:  "explicit weights",
			input: "<x> = /3/ a | /1.5/ b c;",
			rule:  "x",
			expect: Alternation{Choices: []Choice{
				{Weight: 3, Item: Token{Text: "a"}},
				{Weight: 1.5, Item: Sequence{Items: []Expansion{
					Token{Text: "b"},
					Token{Text: "c"},
				}}},
			}},
		},
		{
			name:  "weight on only one branch fills the other with default",
			input: "<x> = /4/ a | b;",
			rule:  "x",
			expect: Alternation{Choices: []Choice{
				{Weight: 4, Item: Token{Text: "a"}},
				{Weight: DefaultWeight, Item: Token{Text: "b"}},
			}},
		},
		{
			name:  "single weighted branch stays an alternation",
			input: "<x> = /2/ a;",
			rule:  "x",
			expect: Alternation{Choices: []Choice{
				{Weight: 2, Item: Token{Text: "a"}},
			}},
		},
		{
			name:  "empty branch is an empty sequence",
			input: "<x> = a |;",
			rule:  "x",
			expect: Alternation{Choices: []Choice{
				{Weight: DefaultWeight, Item: Token{Text: "a"}},
				{Weight: DefaultWeight, Item: Sequence{}},
			}},
		},
		{
			name:   "optional group",
			input:  "<x> = [ polite ];",
			rule:   "x",
			expect: OptionalGroup{Item: Token{Text: "polite"}},
		},
		{
			name:  "group overrides binding",
			input: "<x> = a ( b | c );",
			rule:  "x",
			expect: Sequence{Items: []Expansion{
				Token{Text: "a"},
				Group{Item: Alternation{Choices: []Choice{
					{Weight: DefaultWeight, Item: Token{Text: "b"}},
					{Weight: DefaultWeight, Item: Token{Text: "c"}},
				}}},
			}},
		},
		{
			name:   "rule reference",
			input:  "<x> = <y>;\n<y> = hi;",
			rule:   "x",
			expect: RuleRef{Name: "y"},
		},
		{
			name:   "self reference is allowed",
			input:  "<x> = base | <x> more;",
			rule:   "x",
			expect: Alternation{Choices: []Choice{
				{Weight: DefaultWeight, Item: Token{Text: "base"}},
				{Weight: DefaultWeight, Item: Sequence{Items: []Expansion{
					RuleRef{Name: "x"},
					Token{Text: "more"},
				}}},
			}},
		},
		{
			name:  "nested optional inside alternation",
			input: "<x> = a [ b | c ] | d;",
			rule:  "x",
			expect: Alternation{Choices: []Choice{
				{Weight: DefaultWeight, Item: Sequence{Items: []Expansion{
					Token{Text: "a"},
					OptionalGroup{Item: Alternation{Choices: []Choice{
						{Weight: DefaultWeight, Item: Token{Text: "b"}},
						{Weight: DefaultWeight, Item: Token{Text: "c"}},
					}}},
				}}},
				{Weight: DefaultWeight, Item: Token{Text: "d"}},
			}},
		},
		{
			name:   "word public only keyword at start of definition",
			input:  "<x> = public;",
			rule:   "x",
			expect: Token{Text: "public"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := Parse(tc.input)
			if !assert.NoError(err) {
				return
			}

			r, err := g.Rule(tc.rule)
			if !assert.NoError(err) {
				return
			}

			assert.Equal(tc.expectPub, r.Public)
			assert.True(tc.expect.Equal(r.RHS), "expected %s but got %s", tc.expect.String(), r.RHS.String())
		})
	}
}

func Test_Parse_forwardAndMutualReferences(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse("<a> = use <b>;\n<b> = maybe <a> | stop;")
	if !assert.NoError(err) {
		return
	}

	assert.Equal(2, g.Len())
	assert.True(g.IsRecursive("a"))
	assert.True(g.IsRecursive("b"))
}

func Test_Parse_multiplePublicRules(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse("public <b> = bee;\n<m> = em;\npublic <a> = ay;")
	if !assert.NoError(err) {
		return
	}

	pubs := g.PublicRules()
	if !assert.Len(pubs, 2) {
		return
	}

	// source order, not name order
	assert.Equal("b", pubs[0].Name)
	assert.Equal("a", pubs[1].Name)
}

func Test_Parse_errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "comment-only input", input: "// nothing here\n/* or here */"},
		{name: "missing semicolon", input: "<x> = a"},
		{name: "missing equals", input: "<x> a;"},
		{name: "missing rule name", input: "= a;"},
		{name: "unclosed optional", input: "<x> = [ a;"},
		{name: "unclosed group", input: "<x> = ( a;"},
		{name: "mismatched closers", input: "<x> = [ a );"},
		{name: "bad weight value", input: "<x> = /1.2.3/ a;"},
		{name: "stray pipe before definition", input: "| <x> = a;"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Parse(tc.input)
			if !assert.Error(err) {
				return
			}

			var synErr SyntaxError
			assert.True(errors.As(err, &synErr), "expected a SyntaxError but got %T: %v", err, err)
		})
	}
}

func Test_Parse_duplicateRule(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("<x> = a;\n<x> = b;")
	if !assert.Error(err) {
		return
	}

	var dupErr DuplicateRuleError
	if !assert.True(errors.As(err, &dupErr)) {
		return
	}
	assert.Equal("x", dupErr.Name)
}

func Test_Parse_unresolvedReferences(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("<x> = <ghost> and <phantom>;\n<y> = <ghost>;")
	if !assert.Error(err) {
		return
	}

	var unresErr UnresolvedReferenceError
	if !assert.True(errors.As(err, &unresErr)) {
		return
	}

	// every missing name, reported once
	assert.Equal([]string{"ghost", "phantom"}, unresErr.Names)
}

func Test_Parse_syntaxErrorLocation(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("<a> = fine;\n<b> = ( broken;")
	if !assert.Error(err) {
		return
	}

	var synErr SyntaxError
	if !assert.True(errors.As(err, &synErr)) {
		return
	}

	assert.Equal(2, synErr.Line())
	assert.Contains(synErr.FullMessage(), "<b> = ( broken;")
	assert.Contains(synErr.SourceLineWithCursor(), "^")
}

func Test_Parse_stringRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "sequence", input: "<x> = a b c;"},
		{name: "weighted alternation", input: "public <x> = /3/ a | b | c d;"},
		{name: "optionals and groups", input: "<x> = [ a ( b | c ) ] d;"},
		{name: "references", input: "<x> = <y> [ <y> ];\n<y> = yes;"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g1, err := Parse(tc.input)
			if !assert.NoError(err) {
				return
			}

			// render the whole grammar back to notation and re-parse it
			var rendered []string
			for _, name := range g1.RuleNames() {
				r, err := g1.Rule(name)
				if !assert.NoError(err) {
					return
				}
				rendered = append(rendered, r.String())
			}

			g2, err := Parse(strings.Join(rendered, "\n"))
			if !assert.NoError(err) {
				return
			}

			for _, name := range g1.RuleNames() {
				r1, _ := g1.Rule(name)
				r2, err := g2.Rule(name)
				if !assert.NoError(err) {
					return
				}
				assert.True(r1.Equal(r2), "rule <%s> did not survive a round trip: %s", name, r1.String())
			}
		})
	}
}
