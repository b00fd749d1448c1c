/*
Jsgfdet exhaustively generates the strings defined by a JSGF grammar.

It reads grammar source from the given file, parses it, and prints every
string derivable from the grammar's public rules, one per line. The grammar
must not be recursive: a rule whose expansion can reach itself never finishes
enumerating, and jsgfdet will stop with an error once the expansion depth
limit is hit. Recursive grammars should be run through jsgfprob instead.

Usage:

	jsgfdet [flags] GRAMMAR_FILE
	jsgfdet [flags] -f MANIFEST_FILE

GRAMMAR_FILE is grammar source notation, or a compiled grammar previously
written with --compile (detected by the .jsgc extension).

The flags are:

	-v, --version
		Give the current version of JSGFTools and then exit.

	-r, --rule NAME
		Generate from the named rule only, instead of from every public rule.

	-m, --max-results N
		Print at most N strings. 0, the default, means no limit.

	-d, --max-depth N
		Stop with an error once expanding any single rule passes depth N.
		Defaults to 50. A negative value disables the guard entirely.

	-u, --unique
		Drop duplicate derivations, keeping the first of each.

	-o, --output FILE
		Write generated strings to FILE instead of stdout.

	-f, --manifest FILE
		Take the grammar path and generation settings from the given TOML run
		manifest. Flags given explicitly override the manifest's settings.

	-c, --compile FILE
		Do not generate; instead write the parsed grammar to FILE in compiled
		binary form for later runs.
*/
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	jsgftools "github.com/syntactic/JSGFTools"
	"github.com/syntactic/JSGFTools/gen"
	"github.com/syntactic/JSGFTools/internal/manifest"
	"github.com/syntactic/JSGFTools/internal/util"
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
	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of JSGFTools and then exit.")
	flagRule       = pflag.StringP("rule", "r", "", "Generate from the named rule instead of every public rule.")
	flagMaxResults = pflag.IntP("max-results", "m", 0, "Print at most this many strings; 0 means no limit.")
	flagMaxDepth   = pflag.IntP("max-depth", "d", gen.DefaultMaxDepth, "Maximum expansion depth of any single rule.")
	flagUnique     = pflag.BoolP("unique", "u", false, "Drop duplicate derivations.")
	flagOutput     = pflag.StringP("output", "o", "", "Write generated strings to the given file instead of stdout.")
	flagManifest   = pflag.StringP("manifest", "f", "", "Take grammar path and settings from the given run manifest.")
	flagCompile    = pflag.StringP("compile", "c", "", "Write the parsed grammar in compiled form to the given file instead of generating.")
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
	maxResults := *flagMaxResults
	maxDepth := *flagMaxDepth
	unique := *flagUnique

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
		if !pflag.Lookup("max-results").Changed {
			maxResults = m.MaxResults
		}
		if !pflag.Lookup("max-depth").Changed && m.MaxDepth != 0 {
			maxDepth = m.MaxDepth
		}
		if !pflag.Lookup("unique").Changed {
			unique = m.Unique
		}
	} else {
		if len(args) != 1 {
			fmt.Fprintf(os.Stderr, "Need exactly one grammar file\nDo -h for help.\n")
			os.Exit(ExitInitError)
		}
		grammarPath = args[0]
	}

	rule = strings.TrimSuffix(strings.TrimPrefix(rule, "<"), ">")

	g, err := loadGrammar(grammarPath)
	if err != nil {
		reportGrammarError(err)
		os.Exit(ExitInitError)
	}

	if *flagCompile != "" {
		if err := jsgftools.SaveCompiledGrammar(g, *flagCompile); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(ExitInitError)
		}
		return
	}

	if g.IsRecursive(rule) {
		fmt.Fprintf(os.Stderr, "WARNING: grammar contains recursive rules; exhaustive generation may hit the depth limit. Consider jsgfprob instead.\n")
	}

	d := gen.Deterministic{Grammar: g, MaxDepth: maxDepth, MaxResults: maxResults}

	var results []string
	if rule == "" {
		results, err = d.EnumerateAll()
	} else {
		results, err = d.EnumerateRule(rule)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitGenerationError)
	}

	if unique {
		seen := util.NewStringSet()
		deduped := make([]string, 0, len(results))
		for _, s := range results {
			if seen.Has(s) {
				continue
			}
			seen.Add(s)
			deduped = append(deduped, s)
		}
		results = deduped
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

	w := bufio.NewWriter(out)
	for _, s := range results {
		if _, err := w.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
