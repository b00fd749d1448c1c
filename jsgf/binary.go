package jsgf

// file binary.go contains the binary encoding of grammars. A parsed Grammar
// can be written out and reloaded later without reparsing the source
// notation.

import (
	"fmt"
	"math"

	"github.com/dekarrin/rezi"
	"github.com/syntactic/JSGFTools/internal/util"
)

// MarshalBinary converts the grammar into a slice of bytes that can be
// decoded with UnmarshalBinary.
func (g Grammar) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.EncInt(len(g.rules))...)
	for _, name := range util.OrderedKeys(g.rules) {
		enc = append(enc, rezi.EncBinary(g.rules[name])...)
	}

	// public rule order is not recoverable from the sorted rule listing, so
	// it is stored explicitly
	enc = append(enc, rezi.EncInt(len(g.public))...)
	for _, name := range g.public {
		enc = append(enc, rezi.EncString(name)...)
	}

	return enc, nil
}

// UnmarshalBinary decodes a slice of bytes produced by MarshalBinary into the
// grammar, replacing any rules it currently holds.
func (g *Grammar) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	var numRules int
	numRules, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("rule count: %w", err)
	}
	data = data[n:]

	g.rules = map[string]Rule{}
	g.public = nil

	for i := 0; i < numRules; i++ {
		var r Rule
		n, err = rezi.DecBinary(data, &r)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		data = data[n:]
		g.rules[r.Name] = r
	}

	var numPublic int
	numPublic, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("public rule count: %w", err)
	}
	data = data[n:]

	for i := 0; i < numPublic; i++ {
		var name string
		name, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("public rule name %d: %w", i, err)
		}
		data = data[n:]
		g.public = append(g.public, name)
	}

	return nil
}

// MarshalBinary converts the rule into a slice of bytes that can be decoded
// with UnmarshalBinary.
func (r Rule) MarshalBinary() ([]byte, error) {
	var enc []byte

	enc = append(enc, rezi.EncString(r.Name)...)
	enc = append(enc, rezi.EncBool(r.Public)...)

	rhs, err := encExpansion(r.RHS)
	if err != nil {
		return nil, fmt.Errorf("RHS: %w", err)
	}
	enc = append(enc, rhs...)

	return enc, nil
}

// UnmarshalBinary decodes a slice of bytes produced by MarshalBinary into the
// rule.
func (r *Rule) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	r.Name, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	r.Public, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("public: %w", err)
	}
	data = data[n:]

	r.RHS, _, err = decExpansion(data)
	if err != nil {
		return fmt.Errorf("RHS: %w", err)
	}

	return nil
}

func encExpansion(node Expansion) ([]byte, error) {
	enc := rezi.EncInt(int(node.Type()))

	switch n := node.(type) {
	case Token:
		enc = append(enc, rezi.EncString(n.Text)...)
	case RuleRef:
		enc = append(enc, rezi.EncString(n.Name)...)
	case Sequence:
		enc = append(enc, rezi.EncInt(len(n.Items))...)
		for i := range n.Items {
			itemEnc, err := encExpansion(n.Items[i])
			if err != nil {
				return nil, err
			}
			enc = append(enc, itemEnc...)
		}
	case Alternation:
		enc = append(enc, rezi.EncInt(len(n.Choices))...)
		for i := range n.Choices {
			enc = append(enc, encWeight(n.Choices[i].Weight)...)
			itemEnc, err := encExpansion(n.Choices[i].Item)
			if err != nil {
				return nil, err
			}
			enc = append(enc, itemEnc...)
		}
	case OptionalGroup:
		itemEnc, err := encExpansion(n.Item)
		if err != nil {
			return nil, err
		}
		enc = append(enc, itemEnc...)
	case Group:
		itemEnc, err := encExpansion(n.Item)
		if err != nil {
			return nil, err
		}
		enc = append(enc, itemEnc...)
	default:
		return nil, fmt.Errorf("cannot encode expansion of type %v", node.Type())
	}

	return enc, nil
}

func decExpansion(data []byte) (Expansion, int, error) {
	var consumed int

	typeVal, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("node type: %w", err)
	}
	data = data[n:]
	consumed += n

	switch NodeType(typeVal) {
	case NodeToken:
		text, n, err := rezi.DecString(data)
		if err != nil {
			return nil, 0, fmt.Errorf("token text: %w", err)
		}
		return Token{Text: text}, consumed + n, nil
	case NodeRuleRef:
		name, n, err := rezi.DecString(data)
		if err != nil {
			return nil, 0, fmt.Errorf("referenced rule name: %w", err)
		}
		return RuleRef{Name: name}, consumed + n, nil
	case NodeSequence:
		count, n, err := rezi.DecInt(data)
		if err != nil {
			return nil, 0, fmt.Errorf("sequence length: %w", err)
		}
		data = data[n:]
		consumed += n

		var seq Sequence
		for i := 0; i < count; i++ {
			item, n, err := decExpansion(data)
			if err != nil {
				return nil, 0, fmt.Errorf("sequence item %d: %w", i, err)
			}
			data = data[n:]
			consumed += n
			seq.Items = append(seq.Items, item)
		}
		return seq, consumed, nil
	case NodeAlternation:
		count, n, err := rezi.DecInt(data)
		if err != nil {
			return nil, 0, fmt.Errorf("alternation length: %w", err)
		}
		data = data[n:]
		consumed += n

		var alt Alternation
		for i := 0; i < count; i++ {
			weight, n, err := decWeight(data)
			if err != nil {
				return nil, 0, fmt.Errorf("branch %d weight: %w", i, err)
			}
			data = data[n:]
			consumed += n

			item, n, err := decExpansion(data)
			if err != nil {
				return nil, 0, fmt.Errorf("branch %d: %w", i, err)
			}
			data = data[n:]
			consumed += n
			alt.Choices = append(alt.Choices, Choice{Weight: weight, Item: item})
		}
		return alt, consumed, nil
	case NodeOptional:
		item, n, err := decExpansion(data)
		if err != nil {
			return nil, 0, fmt.Errorf("optional item: %w", err)
		}
		return OptionalGroup{Item: item}, consumed + n, nil
	case NodeGroup:
		item, n, err := decExpansion(data)
		if err != nil {
			return nil, 0, fmt.Errorf("group item: %w", err)
		}
		return Group{Item: item}, consumed + n, nil
	default:
		return nil, 0, fmt.Errorf("unknown expansion node type %d", typeVal)
	}
}

// weights are stored as their IEEE-754 bit pattern so the round trip is
// exact.
func encWeight(w float64) []byte {
	return rezi.EncInt(int(int64(math.Float64bits(w))))
}

func decWeight(data []byte) (float64, int, error) {
	bits, n, err := rezi.DecInt(data)
	if err != nil {
		return 0, 0, err
	}
	return math.Float64frombits(uint64(int64(bits))), n, nil
}
