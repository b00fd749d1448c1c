// Package jsgf contains the grammar model and parser for a JSGF-style
// speech-grammar notation: rule definitions with alternation, optional
// weights, optional groups, parenthesized groups, and rule references.
//
// A Grammar is built once by Parse and is read-only afterwards; it may be
// shared freely between concurrent readers.
package jsgf

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeType identifies which variant of expansion node a value is.
type NodeType int

const (
	NodeToken NodeType = iota
	NodeRuleRef
	NodeSequence
	NodeAlternation
	NodeOptional
	NodeGroup
)

func (nt NodeType) String() string {
	switch nt {
	case NodeToken:
		return "TOKEN"
	case NodeRuleRef:
		return "RULE-REF"
	case NodeSequence:
		return "SEQUENCE"
	case NodeAlternation:
		return "ALTERNATION"
	case NodeOptional:
		return "OPTIONAL"
	case NodeGroup:
		return "GROUP"
	default:
		return fmt.Sprintf("NodeType(%d)", int(nt))
	}
}

// Expansion is one node of a rule's right-hand side. The set of implementing
// types is closed: Token, RuleRef, Sequence, Alternation, OptionalGroup, and
// Group.
type Expansion interface {
	// Type returns the variant of node this is.
	Type() NodeType

	// String returns notation that would parse back to an equivalent node.
	String() string

	// Equal returns whether the node is structurally equal to another. It
	// returns false for anything that is not an Expansion of the same
	// variant.
	Equal(o any) bool
}

// Token is a literal word reproduced verbatim in generated strings.
type Token struct {
	Text string
}

func (t Token) Type() NodeType { return NodeToken }
func (t Token) String() string { return t.Text }

func (t Token) Equal(o any) bool {
	other, ok := o.(Token)
	if !ok {
		otherPtr, ok := o.(*Token)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return t.Text == other.Text
}

// RuleRef is a reference to another rule by name. It stores only the name;
// resolution happens by lookup through the owning Grammar at generation time,
// which is what allows forward references and recursive rules.
type RuleRef struct {
	Name string
}

func (r RuleRef) Type() NodeType { return NodeRuleRef }
func (r RuleRef) String() string { return "<" + r.Name + ">" }

func (r RuleRef) Equal(o any) bool {
	other, ok := o.(RuleRef)
	if !ok {
		otherPtr, ok := o.(*RuleRef)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return r.Name == other.Name
}

// Sequence is an ordered run of nodes, all of which are produced and joined
// with single spaces. An empty Sequence denotes the empty string, which is
// how an empty alternation branch is represented.
type Sequence struct {
	Items []Expansion
}

func (s Sequence) Type() NodeType { return NodeSequence }

func (s Sequence) String() string {
	parts := make([]string, len(s.Items))
	for i := range s.Items {
		parts[i] = s.Items[i].String()
	}
	return strings.Join(parts, " ")
}

func (s Sequence) Equal(o any) bool {
	other, ok := o.(Sequence)
	if !ok {
		otherPtr, ok := o.(*Sequence)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if len(s.Items) != len(other.Items) {
		return false
	}
	for i := range s.Items {
		if !s.Items[i].Equal(other.Items[i]) {
			return false
		}
	}
	return true
}

// Choice is one branch of an Alternation together with its selection weight.
// Weights are relative; a branch written without an explicit /weight/ gets
// DefaultWeight.
type Choice struct {
	Weight float64
	Item   Expansion
}

// DefaultWeight is the weight given to an alternation branch that does not
// carry an explicit /weight/ prefix.
const DefaultWeight = 1.0

func (c Choice) Equal(o any) bool {
	other, ok := o.(Choice)
	if !ok {
		otherPtr, ok := o.(*Choice)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return c.Weight == other.Weight && c.Item.Equal(other.Item)
}

// Alternation is an ordered, non-empty list of weighted branches, exactly one
// of which is produced. Selection among branches is governed by relative
// weight, not by position.
type Alternation struct {
	Choices []Choice
}

func (a Alternation) Type() NodeType { return NodeAlternation }

func (a Alternation) String() string {
	parts := make([]string, len(a.Choices))
	for i := range a.Choices {
		c := a.Choices[i]
		if c.Weight != DefaultWeight {
			parts[i] = "/" + strconv.FormatFloat(c.Weight, 'g', -1, 64) + "/ " + c.Item.String()
		} else {
			parts[i] = c.Item.String()
		}
	}
	return strings.Join(parts, " | ")
}

func (a Alternation) Equal(o any) bool {
	other, ok := o.(Alternation)
	if !ok {
		otherPtr, ok := o.(*Alternation)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if len(a.Choices) != len(other.Choices) {
		return false
	}
	for i := range a.Choices {
		if !a.Choices[i].Equal(other.Choices[i]) {
			return false
		}
	}
	return true
}

// Weights returns the weight of every branch, in branch order.
func (a Alternation) Weights() []float64 {
	ws := make([]float64, len(a.Choices))
	for i := range a.Choices {
		ws[i] = a.Choices[i].Weight
	}
	return ws
}

// OptionalGroup wraps a node that may be produced or omitted.
type OptionalGroup struct {
	Item Expansion
}

func (og OptionalGroup) Type() NodeType { return NodeOptional }
func (og OptionalGroup) String() string { return "[ " + og.Item.String() + " ]" }

func (og OptionalGroup) Equal(o any) bool {
	other, ok := o.(OptionalGroup)
	if !ok {
		otherPtr, ok := o.(*OptionalGroup)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return og.Item.Equal(other.Item)
}

// Group wraps a parenthesized node. It exists purely to override binding
// priority in source notation and produces exactly what its child produces.
type Group struct {
	Item Expansion
}

func (g Group) Type() NodeType { return NodeGroup }
func (g Group) String() string { return "( " + g.Item.String() + " )" }

func (g Group) Equal(o any) bool {
	other, ok := o.(Group)
	if !ok {
		otherPtr, ok := o.(*Group)
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}
	return g.Item.Equal(other.Item)
}
