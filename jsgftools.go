// Package jsgftools parses JSGF-style grammars and generates strings from
// them. It ties together the jsgf grammar model and parser with the two
// generators in gen, and provides the interactive sampling session used by
// the CLI tools.
package jsgftools

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/syntactic/JSGFTools/gen"
	"github.com/syntactic/JSGFTools/internal/input"
	"github.com/syntactic/JSGFTools/jsgf"
)

const consoleOutputWidth = 80

// compiledGrammarMagic starts every compiled grammar file so that grammar
// source handed to LoadCompiledGrammar by mistake fails fast.
var compiledGrammarMagic = []byte("JSGFC\x01")

// LoadGrammarFile reads grammar source notation from the file at path and
// parses it.
func LoadGrammarFile(path string) (jsgf.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jsgf.Grammar{}, err
	}

	g, err := jsgf.Parse(string(data))
	if err != nil {
		return jsgf.Grammar{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// SaveCompiledGrammar writes an already-parsed grammar to the file at path in
// a binary form that LoadCompiledGrammar can read back without reparsing
// source notation.
func SaveCompiledGrammar(g jsgf.Grammar, path string) error {
	enc, err := g.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode grammar: %w", err)
	}

	data := make([]byte, 0, len(compiledGrammarMagic)+len(enc))
	data = append(data, compiledGrammarMagic...)
	data = append(data, enc...)

	return os.WriteFile(path, data, 0644)
}

// LoadCompiledGrammar reads a grammar previously written with
// SaveCompiledGrammar.
func LoadCompiledGrammar(path string) (jsgf.Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jsgf.Grammar{}, err
	}

	if len(data) < len(compiledGrammarMagic) || string(data[:len(compiledGrammarMagic)]) != string(compiledGrammarMagic) {
		return jsgf.Grammar{}, fmt.Errorf("%s: not a compiled grammar file", path)
	}

	var g jsgf.Grammar
	if err := g.UnmarshalBinary(data[len(compiledGrammarMagic):]); err != nil {
		return jsgf.Grammar{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

var sessionHelp = [][2]string{
	{"<name> (or just name)", "Print one random string derived from rule <name>."},
	{"SAMPLE", "Print one random string derived from a public rule."},
	{"RULES", "List the public rules of the loaded grammar."},
	{"HELP", "Show this message."},
	{"QUIT", "End the session."},
}

// Session is an interactive sampling session attached to an input stream and
// an output stream: each line of input names a rule, and the session answers
// with one random string derived from it.
type Session struct {
	g       jsgf.Grammar
	sampler *gen.Probabilistic
	in      input.Reader
	out     *bufio.Writer
	running bool
}

// NewSession creates a session sampling from the given grammar, ready to
// operate on the given input and output streams.
//
// If nil is given for the input stream, stdin is used; if nil is given for
// the output stream, stdout is used. When attached directly to stdin and
// stdout, readline-based input editing is used unless forceDirect is set.
// Randomness comes from rng; passing nil gets a time-seeded source.
func NewSession(g jsgf.Grammar, rng *rand.Rand, inputStream io.Reader, outputStream io.Writer, forceDirect bool) (*Session, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	s := &Session{
		g:       g,
		sampler: gen.NewProbabilistic(g, rng),
		out:     bufio.NewWriter(outputStream),
	}

	useReadline := !forceDirect && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		s.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
		s.in.(*input.InteractiveReader).SetPrompt("sample> ")
	} else {
		s.in = input.NewDirectReader(inputStream)
	}

	return s, nil
}

// Close closes the session's input reader. It must be called before the
// session is disposed of.
func (s *Session) Close() error {
	return s.in.Close()
}

// RunUntilQuit starts the session and answers sampling requests until the
// QUIT command or end of input is reached.
func (s *Session) RunUntilQuit() error {
	pubs := s.g.PublicRules()

	intro := fmt.Sprintf("Loaded grammar with %d rule(s), %d public. Type a rule name for a sample, HELP for help, or QUIT to end.", s.g.Len(), len(pubs))
	if err := s.writeText(intro); err != nil {
		return err
	}

	s.running = true
	for s.running {
		line, err := s.in.ReadRequest()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read input: %w", err)
		}

		if err := s.handleRequest(line); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) handleRequest(line string) error {
	switch strings.ToUpper(line) {
	case "QUIT", "EXIT":
		s.running = false
		return nil
	case "HELP":
		help := rosed.
			Edit("Here are the commands you can use:\n").
			WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
			InsertDefinitionsTable(rosed.End, sessionHelp, consoleOutputWidth).
			String()
		return s.writeText(help)
	case "RULES":
		return s.writeRuleList()
	case "SAMPLE":
		return s.writeSample("")
	default:
		// anything else is a rule name, with or without its angle brackets
		name := strings.TrimSuffix(strings.TrimPrefix(line, "<"), ">")
		if !s.g.HasRule(name) {
			return s.writeText(fmt.Sprintf("There is no rule <%s> in the grammar. Type RULES to list the public rules.", name))
		}
		return s.writeSample(name)
	}
}

func (s *Session) writeSample(name string) error {
	out, err := s.sampler.SampleRule(name)
	if err != nil {
		return s.writeText(fmt.Sprintf("Could not sample: %s", err.Error()))
	}
	return s.writeText(out)
}

func (s *Session) writeRuleList() error {
	pubs := s.g.PublicRules()
	if len(pubs) == 0 {
		return s.writeText("The grammar has no public rules.")
	}

	names := make([]string, len(pubs))
	for i := range pubs {
		names[i] = "<" + pubs[i].Name + ">"
	}
	listing := rosed.
		Edit("Public rules, in source order:\n" + strings.Join(names, ", ")).
		Wrap(consoleOutputWidth).
		String()
	return s.writeText(listing)
}

func (s *Session) writeText(text string) error {
	if _, err := s.out.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
