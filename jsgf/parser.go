package jsgf

import (
	"fmt"
	"strconv"
)

// Parse parses grammar source text into a Grammar.
//
// Rule definitions are parsed in order of appearance, then all rule
// references are resolved in a closing validation pass. Building first and
// validating after is what allows forward references and mutually-recursive
// rules.
//
// On malformed input the returned error is a SyntaxError; defining the same
// rule name twice returns a DuplicateRuleError; a reference to an undefined
// rule returns an UnresolvedReferenceError naming every such reference. In
// all cases no partial Grammar is returned.
func Parse(text string) (Grammar, error) {
	ts, err := Lex(text)
	if err != nil {
		return Grammar{}, err
	}

	var g Grammar
	for ts.Peek().class != tkEndOfText {
		r, err := parseRuleDef(&ts)
		if err != nil {
			return Grammar{}, err
		}
		if err := g.AddRule(r); err != nil {
			return Grammar{}, err
		}
	}

	if g.Len() == 0 {
		return Grammar{}, SyntaxError{message: "grammar contains no rule definitions"}
	}

	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}

	return g, nil
}

// parseRuleDef parses one ["public"] <name> = rhs ; definition.
func parseRuleDef(ts *tokenStream) (Rule, error) {
	var r Rule

	lx := ts.Next()
	if lx.class == tkWord && lx.value == "public" {
		r.Public = true
		lx = ts.Next()
	}

	if lx.class != tkRuleName {
		return Rule{}, syntaxErrorFromLexeme(fmt.Sprintf("expected a rule name like <name>, but found %s", describeLexeme(lx)), lx)
	}
	r.Name = lx.value

	if _, err := expect(ts, tkEquals); err != nil {
		return Rule{}, err
	}

	rhs, err := parseAlternation(ts)
	if err != nil {
		return Rule{}, err
	}
	r.RHS = rhs

	if _, err := expect(ts, tkSemi); err != nil {
		return Rule{}, err
	}

	return r, nil
}

// parseAlternation parses a |-separated list of weighted sequences. A single
// branch with no explicit weight is unwrapped and returned as-is rather than
// being put in a one-branch Alternation.
func parseAlternation(ts *tokenStream) (Expansion, error) {
	var choices []Choice
	sawWeight := false

	for {
		weight, explicit, item, err := parseSequence(ts)
		if err != nil {
			return nil, err
		}
		choices = append(choices, Choice{Weight: weight, Item: item})
		sawWeight = sawWeight || explicit

		if ts.Peek().class != tkPipe {
			break
		}
		ts.Next()
	}

	if len(choices) == 1 && !sawWeight {
		return choices[0].Item, nil
	}
	return Alternation{Choices: choices}, nil
}

// parseSequence parses an optional /weight/ prefix followed by a
// juxtaposition of atoms. It returns the branch weight, whether the weight
// was written explicitly, and the parsed expansion. Zero atoms is valid and
// yields an empty Sequence, the representation of the empty string; a single
// atom is unwrapped.
func parseSequence(ts *tokenStream) (float64, bool, Expansion, error) {
	weight := DefaultWeight
	explicitWeight := false

	if ts.Peek().class == tkWeight {
		lx := ts.Next()
		w, err := strconv.ParseFloat(lx.value, 64)
		if err != nil {
			return 0, false, nil, syntaxErrorFromLexeme(fmt.Sprintf("invalid weight /%s/", lx.value), lx)
		}
		weight = w
		explicitWeight = true
	}

	var items []Expansion

	for {
		done := false
		switch ts.Peek().class {
		case tkWord:
			lx := ts.Next()
			items = append(items, Token{Text: lx.value})
		case tkRuleName:
			lx := ts.Next()
			items = append(items, RuleRef{Name: lx.value})
		case tkLeftBracket:
			ts.Next()
			inner, err := parseAlternation(ts)
			if err != nil {
				return 0, false, nil, err
			}
			if _, err := expect(ts, tkRightBracket); err != nil {
				return 0, false, nil, err
			}
			items = append(items, OptionalGroup{Item: inner})
		case tkLeftParen:
			ts.Next()
			inner, err := parseAlternation(ts)
			if err != nil {
				return 0, false, nil, err
			}
			if _, err := expect(ts, tkRightParen); err != nil {
				return 0, false, nil, err
			}
			items = append(items, Group{Item: inner})
		default:
			done = true
		}
		if done {
			break
		}
	}

	if len(items) == 1 {
		return weight, explicitWeight, items[0], nil
	}
	return weight, explicitWeight, Sequence{Items: items}, nil
}

// expect consumes the next token and checks its class.
func expect(ts *tokenStream, class tokenClass) (lexeme, error) {
	lx := ts.Next()
	if lx.class != class {
		return lx, syntaxErrorFromLexeme(fmt.Sprintf("expected %s, but found %s", class.String(), describeLexeme(lx)), lx)
	}
	return lx, nil
}

func describeLexeme(lx lexeme) string {
	switch lx.class {
	case tkEndOfText:
		return "the end of input"
	case tkWord:
		return fmt.Sprintf("word %q", lx.value)
	case tkRuleName:
		return fmt.Sprintf("rule name <%s>", lx.value)
	case tkWeight:
		return fmt.Sprintf("weight /%s/", lx.value)
	default:
		return fmt.Sprintf("%q", lx.value)
	}
}
