// Package manifest has functions for loading generation run manifests, a
// TOML-based file format that bundles the path to a grammar with the
// generation settings to run against it, so a full generation run can be
// named by a single file.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// CurrentFormat is the format identifier a run manifest must declare.
const CurrentFormat = "jsgf-run"

var (
	// ErrBadFormat is the error returned when a manifest file does not
	// declare the jsgf-run format.
	ErrBadFormat = errors.New(`file does not set format = "jsgf-run"`)

	// ErrNoGrammar is the error returned when a manifest file names no
	// grammar source file.
	ErrNoGrammar = errors.New("manifest does not name a grammar file")
)

// Manifest contains the settings loaded from one run-manifest file. Numeric
// fields that the file leaves unset stay zero; callers apply their own
// defaults.
type Manifest struct {
	// Grammar is the path to the grammar source file. After LoadFile it is
	// already resolved relative to the manifest's own directory.
	Grammar string

	// Rule is the rule to generate from. Empty means the grammar's public
	// rules.
	Rule string

	// Count is how many strings a probabilistic run draws.
	Count int

	// Seed, when non-nil, seeds the probabilistic run's randomness so the run
	// is reproducible.
	Seed *int64

	// MaxResults caps how many strings a deterministic run returns.
	MaxResults int

	// MaxDepth overrides the deterministic run's recursion guard depth.
	MaxDepth int

	// Unique makes a deterministic run drop duplicate derivations.
	Unique bool
}

type marshaledManifest struct {
	Format     string `toml:"format"`
	Grammar    string `toml:"grammar"`
	Rule       string `toml:"rule"`
	Count      int    `toml:"count"`
	Seed       *int64 `toml:"seed"`
	MaxResults int    `toml:"max-results"`
	MaxDepth   int    `toml:"max-depth"`
	Unique     bool   `toml:"unique"`
}

// LoadFile loads a run manifest from a TOML file. The manifest's grammar path
// is resolved relative to the directory containing the manifest.
func LoadFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	m, err := Parse(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}

	if !filepath.IsAbs(m.Grammar) {
		m.Grammar = filepath.Join(filepath.Dir(path), m.Grammar)
	}

	return m, nil
}

// Parse decodes run-manifest TOML data and checks it for required fields.
func Parse(data []byte) (Manifest, error) {
	var decoded marshaledManifest
	if tomlErr := toml.Unmarshal(data, &decoded); tomlErr != nil {
		return Manifest{}, tomlErr
	}

	if decoded.Format != CurrentFormat {
		return Manifest{}, ErrBadFormat
	}
	if decoded.Grammar == "" {
		return Manifest{}, ErrNoGrammar
	}

	return Manifest{
		Grammar:    decoded.Grammar,
		Rule:       decoded.Rule,
		Count:      decoded.Count,
		Seed:       decoded.Seed,
		MaxResults: decoded.MaxResults,
		MaxDepth:   decoded.MaxDepth,
		Unique:     decoded.Unique,
	}, nil
}
