/*
Jsgfprob generates random strings from a JSGF grammar.

It reads grammar source from the given file, parses it, and prints randomly
constructed strings, one per line. Alternatives carrying /weight/ prefixes are
chosen with probability proportional to their weight; unweighted alternatives
are equally likely, and optional groups are included half the time. Unlike
jsgfdet, jsgfprob is safe on recursive grammars as long as every cycle has
some alternative that leaves it.

Usage:

	jsgfprob [flags] GRAMMAR_FILE [COUNT]
	jsgfprob [flags] -f MANIFEST_FILE
	jsgfprob -i [flags] GRAMMAR_FILE

COUNT is the number of strings to generate and defaults to 1. GRAMMAR_FILE is
grammar source notation, or a compiled grammar written by jsgfdet --compile
(detected by the .jsgc extension).

The flags are:

	-v, --version
		Give the current version of JSGFTools and then exit.

	-r, --rule NAME
		Generate from the named rule. By default each draw picks one of the
		grammar's public rules uniformly at random.

	-s, --seed N
		Seed the random source with N so the run is reproducible. By default
		the source is seeded from the current time.

	-o, --output FILE
		Write generated strings to FILE instead of stdout.

	-f, --manifest FILE
		Take the grammar path and generation settings from the given TOML run
		manifest. Flags given explicitly override the manifest's settings.

	-i, --interactive
		Instead of printing COUNT strings, start an interactive session that
		reads rule names from stdin and answers each with one sample.

	-d, --direct
		With --interactive, force reading directly from stdin instead of going
		through GNU readline based routines even when attached to a tty.
*/
package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	jsgftools "github.com/syntactic/JSGFTools"
	"github.com/syntactic/JSGFTools/gen"
	"github.com/syntactic/JSGFTools/internal/manifest"
	"github.com/syntactic/JSGFTools/internal/version"
	"github.com/syntactic/JSGFTools/jsgf"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGenerationError indicates an unsuccessful program execution due to
	// a problem while generating strings.
	ExitGenerationError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue loading or parsing the grammar.
	ExitInitError
)

var (
	flagVersion     = pflag.BoolP("version", "v", false, "Give the current version of JSGFTools and then exit.")
	flagRule        = pflag.StringP("rule", "r", "", "Generate from the named rule instead of a random public rule.")
	flagSeed        = pflag.Int64P("seed", "s", 0, "Seed the random source for a reproducible run.")
	flagOutput      = pflag.StringP("output", "o", "", "Write generated strings to the given file instead of stdout.")
	flagManifest    = pflag.StringP("manifest", "f", "", "Take grammar path and settings from the given run manifest.")
	flagInteractive = pflag.BoolP("interactive", "i", false, "Start an interactive sampling session.")
	flagDirect      = pflag.BoolP("direct", "d", false, "Force reading interactive input directly from stdin.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()

	grammarPath := ""
	rule := *flagRule
	count := 1
	var rng *rand.Rand

	if pflag.Lookup("seed").Changed {
		rng = rand.New(rand.NewSource(*flagSeed))
	}

	if *flagManifest != "" {
		if len(args) > 0 {
			fmt.Fprintf(os.Stderr, "Cannot give both a manifest and a grammar file\nDo -h for help.\n")
			os.Exit(ExitInitError)
		}

		m, err := manifest.LoadFile(*flagManifest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(ExitInitError)
		}

		grammarPath = m.Grammar
		if !pflag.Lookup("rule").Changed {
			rule = m.Rule
		}
		if m.Count > 0 {
			count = m.Count
		}
		if rng == nil && m.Seed != nil {
			rng = rand.New(rand.NewSource(*m.Seed))
		}
	} else {
		if len(args) < 1 || len(args) > 2 {
			fmt.Fprintf(os.Stderr, "Need a grammar file and an optional count\nDo -h for help.\n")
			os.Exit(ExitInitError)
		}
		grammarPath = args[0]
		if len(args) == 2 {
			var err error
			count, err = strconv.Atoi(args[1])
			if err != nil || count < 0 {
				fmt.Fprintf(os.Stderr, "%q is not a valid count\nDo -h for help.\n", args[1])
				os.Exit(ExitInitError)
			}
		}
	}

	g, err := loadGrammar(grammarPath)
	if err != nil {
		reportGrammarError(err)
		os.Exit(ExitInitError)
	}

	if *flagInteractive {
		session, err := jsgftools.NewSession(g, rng, nil, nil, *flagDirect)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(ExitInitError)
		}
		defer session.Close()

		if err := session.RunUntilQuit(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(ExitGenerationError)
		}
		return
	}

	p := gen.NewProbabilistic(g, rng)

	name := strings.TrimSuffix(strings.TrimPrefix(rule, "<"), ">")
	results, err := p.SampleMany(name, count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitGenerationError)
	}

	if err := writeResults(results, *flagOutput); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitGenerationError)
	}
}

// loadGrammar reads either grammar source or a compiled grammar, chosen by
// file extension.
func loadGrammar(path string) (jsgf.Grammar, error) {
	if strings.HasSuffix(path, ".jsgc") {
		return jsgftools.LoadCompiledGrammar(path)
	}
	return jsgftools.LoadGrammarFile(path)
}

// reportGrammarError prints a load/parse failure, using the syntax error's
// source line and cursor rendering when there is one.
func reportGrammarError(err error) {
	var synErr jsgf.SyntaxError
	if errors.As(err, &synErr) {
		fmt.Fprintf(os.Stderr, "%s\n", synErr.FullMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
}

func writeResults(results []string, outputPath string) error {
	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	for _, s := range results {
		if _, err := fmt.Fprintln(out, s); err != nil {
			return err
		}
	}
	return nil
}
