package language

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// profileFile is the on-disk TOML shape:
//
//	[languages.french]
//	term_characters = "a-zA-ZÀ-ÖØ-öø-ÿ"
//	sentence_terminators = ".!?"
//	no_native_spacing = false
type profileFile struct {
	Languages map[string]profileEntry `toml:"languages"`
}

type profileEntry struct {
	TermCharacters      string `toml:"term_characters"`
	SentenceTerminators string `toml:"sentence_terminators"`
	NoNativeSpacing     bool   `toml:"no_native_spacing"`
}

// LoadProfiles reads named language configs from a TOML file. Every entry
// is validated by compiling its character class, so a bad profile fails at
// load time rather than deep inside a tokenization call.
func LoadProfiles(path string) (map[string]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf profileFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse language profiles %s: %w", path, err)
	}
	if len(pf.Languages) == 0 {
		return nil, fmt.Errorf("language profiles %s: no [languages.*] entries", path)
	}

	out := make(map[string]Config, len(pf.Languages))
	for name, e := range pf.Languages {
		cfg := Config{
			TermCharacters:      e.TermCharacters,
			SentenceTerminators: e.SentenceTerminators,
			NoNativeSpacing:     e.NoNativeSpacing,
		}
		if _, err := cfg.Classifier(); err != nil {
			return nil, fmt.Errorf("language profile %q: %w", name, err)
		}
		out[name] = cfg
	}
	return out, nil
}

// DefaultProfiles returns the built-in language configs used when no
// profile file is supplied.
func DefaultProfiles() map[string]Config {
	return map[string]Config{
		"english": {
			TermCharacters:      "a-zA-Z'",
			SentenceTerminators: ".!?",
		},
		"french": {
			TermCharacters:      "a-zA-ZÀ-ÖØ-öø-ÿ'",
			SentenceTerminators: ".!?",
		},
		"japanese": {
			TermCharacters:      "\\u{3040}-\\u{30FF}\\u{4E00}-\\u{9FFF}\\u{FF66}-\\u{FF9D}ー",
			SentenceTerminators: "。！？",
			NoNativeSpacing:     true,
		},
		"chinese": {
			TermCharacters:      "\\u{3400}-\\u{4DBF}\\u{4E00}-\\u{9FFF}",
			SentenceTerminators: "。！？…",
			NoNativeSpacing:     true,
		},
	}
}

// ProfileNames returns the sorted names of a profile map, for CLI listings.
func ProfileNames(profiles map[string]Config) []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
