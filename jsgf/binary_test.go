package jsgf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Grammar_binaryRoundTrip(t *testing.T) {
	assert := assert.New(t)

	src := `
		public <order> = [ please ] give me <count> <thing>;
		public <cancel> = never mind;
		<count> = /3/ one | /1/ two | a ( few | couple );
		<thing> = fish | <thing> and chips;
	`

	g, err := Parse(src)
	if !assert.NoError(err) {
		return
	}

	data, err := g.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Grammar
	if !assert.NoError(decoded.UnmarshalBinary(data)) {
		return
	}

	assert.Equal(g.Len(), decoded.Len())
	for _, name := range g.RuleNames() {
		want, _ := g.Rule(name)
		got, err := decoded.Rule(name)
		if !assert.NoError(err, "rule <%s> missing after decode", name) {
			continue
		}
		assert.True(want.Equal(got), "rule <%s> changed across the round trip", name)
	}

	// source order of public rules survives
	wantPub := g.PublicRules()
	gotPub := decoded.PublicRules()
	if assert.Len(gotPub, len(wantPub)) {
		for i := range wantPub {
			assert.Equal(wantPub[i].Name, gotPub[i].Name)
		}
	}
}

func Test_Grammar_UnmarshalBinary_truncated(t *testing.T) {
	assert := assert.New(t)

	g, err := Parse("<x> = a b c;")
	if !assert.NoError(err) {
		return
	}

	data, err := g.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var decoded Grammar
	assert.Error(decoded.UnmarshalBinary(data[:len(data)/2]))
}
