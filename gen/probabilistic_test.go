package gen

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/syntactic/JSGFTools/jsgf"
)

func Test_Probabilistic_SampleRule_soundness(t *testing.T) {
	assert := assert.New(t)

	g, err := jsgf.Parse(`
		public <x> = <greet> [ big ] <who>;
		<greet> = hi | hello;
		<who> = there | world;
	`)
	if !assert.NoError(err) {
		return
	}

	d := Deterministic{Grammar: g}
	possible, err := d.EnumerateRule("x")
	if !assert.NoError(err) {
		return
	}

	p := NewProbabilistic(g, rand.New(rand.NewSource(413)))
	for i := 0; i < 1000; i++ {
		s, err := p.SampleRule("x")
		if !assert.NoError(err) {
			return
		}
		assert.Contains(possible, s, "draw %d produced a string the grammar cannot derive", i)
	}
}

func Test_Probabilistic_SampleRule_coverage(t *testing.T) {
	assert := assert.New(t)

	g, err := jsgf.Parse(`
		public <x> = <greet> [ big ] <who>;
		<greet> = hi | hello;
		<who> = there | world;
	`)
	if !assert.NoError(err) {
		return
	}

	d := Deterministic{Grammar: g}
	possible, err := d.EnumerateRule("x")
	if !assert.NoError(err) {
		return
	}

	// 8 derivable strings, each with probability 1/8 per draw; 5000 draws
	// miss any given one with probability under 1e-200
	p := NewProbabilistic(g, rand.New(rand.NewSource(1111)))
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		s, err := p.SampleRule("x")
		if !assert.NoError(err) {
			return
		}
		seen[s] = true
	}

	for _, want := range possible {
		assert.True(seen[want], "never drew %q", want)
	}
}

func Test_Probabilistic_SampleRule_weightedFrequencies(t *testing.T) {
	assert := assert.New(t)

	g, err := jsgf.Parse("<x> = /3/ heavy | /1/ light;")
	if !assert.NoError(err) {
		return
	}

	p := NewProbabilistic(g, rand.New(rand.NewSource(612)))

	const draws = 100000
	heavy := 0
	for i := 0; i < draws; i++ {
		s, err := p.SampleRule("x")
		if !assert.NoError(err) {
			return
		}
		if s == "heavy" {
			heavy++
		}
	}

	// expect about 3/4 of the draws; 100k draws put the observed rate well
	// within ±0.02 of it
	rate := float64(heavy) / draws
	assert.InDelta(0.75, rate, 0.02)
}

func Test_Probabilistic_SampleRule_optionalRoughlyHalf(t *testing.T) {
	assert := assert.New(t)

	g, err := jsgf.Parse("<x> = go [ fast ];")
	if !assert.NoError(err) {
		return
	}

	p := NewProbabilistic(g, rand.New(rand.NewSource(1025)))

	const draws = 100000
	included := 0
	for i := 0; i < draws; i++ {
		s, err := p.SampleRule("x")
		if !assert.NoError(err) {
			return
		}
		if s == "go fast" {
			included++
		} else if !assert.Equal("go", s) {
			return
		}
	}

	rate := float64(included) / draws
	assert.InDelta(0.5, rate, 0.02)
}

func Test_Probabilistic_SampleRule_recursiveGrammarTerminates(t *testing.T) {
	assert := assert.New(t)

	// every level has a weighted 3:1 bias toward leaving the cycle, so each
	// draw terminates with probability 1
	g, err := jsgf.Parse("<x> = /3/ base | /1/ <x> more;")
	if !assert.NoError(err) {
		return
	}

	p := NewProbabilistic(g, rand.New(rand.NewSource(8)))
	for i := 0; i < 10000; i++ {
		s, err := p.SampleRule("x")
		if !assert.NoError(err) {
			return
		}
		assert.Regexp(`^base( more)*$`, s)
	}
}

func Test_Probabilistic_SampleRule_emptyNamePicksPublicRule(t *testing.T) {
	assert := assert.New(t)

	g, err := jsgf.Parse(`
		public <a> = aye;
		public <b> = bee;
		<priv> = hidden;
	`)
	if !assert.NoError(err) {
		return
	}

	p := NewProbabilistic(g, rand.New(rand.NewSource(99)))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		s, err := p.SampleRule("")
		if !assert.NoError(err) {
			return
		}
		seen[s] = true
	}

	assert.True(seen["aye"])
	assert.True(seen["bee"])
	assert.False(seen["hidden"])
}

func Test_Probabilistic_SampleRule_noPublicRules(t *testing.T) {
	assert := assert.New(t)

	g, err := jsgf.Parse("<x> = a;")
	if !assert.NoError(err) {
		return
	}

	p := NewProbabilistic(g, nil)
	_, err = p.SampleRule("")
	assert.Error(err)
}

func Test_Probabilistic_SampleMany_seedReproducibility(t *testing.T) {
	assert := assert.New(t)

	g, err := jsgf.Parse("public <x> = [ very ] ( hot | cold ) [ soup | tea ];")
	if !assert.NoError(err) {
		return
	}

	p1 := NewProbabilistic(g, rand.New(rand.NewSource(7777)))
	p2 := NewProbabilistic(g, rand.New(rand.NewSource(7777)))

	run1, err := p1.SampleMany("x", 50)
	if !assert.NoError(err) {
		return
	}
	run2, err := p2.SampleMany("x", 50)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(run1, run2)
}

func Test_Probabilistic_SampleRule_unknownRule(t *testing.T) {
	assert := assert.New(t)

	g, err := jsgf.Parse("<x> = a;")
	if !assert.NoError(err) {
		return
	}

	p := NewProbabilistic(g, nil)
	_, err = p.SampleRule("nope")
	assert.ErrorIs(err, jsgf.ErrRuleNotDefined)
}

func Test_WeightedIndex(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(2020))

	t.Run("single weight always picked", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			assert.Equal(0, WeightedIndex(rng, []float64{5}))
		}
	})

	t.Run("zero-weight branch never picked", func(t *testing.T) {
		for i := 0; i < 10000; i++ {
			idx := WeightedIndex(rng, []float64{0, 1, 0})
			assert.Equal(1, idx)
		}
	})

	t.Run("all-zero weights fall back to uniform", func(t *testing.T) {
		counts := make([]int, 3)
		for i := 0; i < 30000; i++ {
			counts[WeightedIndex(rng, []float64{0, 0, 0})]++
		}
		for i := range counts {
			assert.InDelta(10000, counts[i], 1000, "index %d", i)
		}
	})

	t.Run("proportional to weight", func(t *testing.T) {
		counts := make([]int, 2)
		for i := 0; i < 100000; i++ {
			counts[WeightedIndex(rng, []float64{9, 1})]++
		}
		assert.InDelta(90000, counts[0], 2000)
	})

	t.Run("panics on no weights", func(t *testing.T) {
		assert.Panics(func() {
			WeightedIndex(rng, nil)
		})
	})
}
