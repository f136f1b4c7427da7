package relevance

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary maps canonical topic keys to related keywords.
// It is immutable once built; lookups are case-insensitive.
type Vocabulary struct {
	entries map[string][]string
	keys    []string
}

// NewVocabulary builds a vocabulary from a raw table.
// Keys and keywords are normalized; empty strings are dropped.
func NewVocabulary(table map[string][]string) *Vocabulary {
	v := &Vocabulary{entries: make(map[string][]string, len(table))}

	for rawKey, rawKeywords := range table {
		key := NormalizeTag(rawKey)
		if key == "" {
			continue
		}

		seen := make(map[string]struct{}, len(rawKeywords))
		keywords := v.entries[key]
		for _, kw := range keywords {
			seen[kw] = struct{}{}
		}
		for _, raw := range rawKeywords {
			kw := NormalizeTag(raw)
			if kw == "" {
				continue
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
		v.entries[key] = keywords
	}

	v.keys = make([]string, 0, len(v.entries))
	for k := range v.entries {
		v.keys = append(v.keys, k)
	}
	sort.Strings(v.keys)

	return v
}

// Lookup returns the keywords mapped to key
func (v *Vocabulary) Lookup(key string) ([]string, bool) {
	kws, ok := v.entries[NormalizeTag(key)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(kws))
	copy(out, kws)
	return out, true
}

// Len returns the number of entries
func (v *Vocabulary) Len() int {
	return len(v.keys)
}

// ParseVocabulary decodes a YAML mapping of topic key to keyword list.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var table map[string][]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	return NewVocabulary(table), nil
}

// LoadVocabulary reads a YAML vocabulary file
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return ParseVocabulary(data)
}

// NormalizeTag lowercases s and joins its words with hyphens.
// "Prospect Theory" and "prospect-theory" normalize to the same tag.
func NormalizeTag(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// DefaultVocabulary returns the built-in topic table
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultTable)
}

var defaultTable = map[string][]string{
	"kahneman":                {"kahneman", "thinking-fast-slow", "prospect-theory", "cognitive-bias"},
	"tversky":                 {"tversky", "prospect-theory", "heuristics", "judgment-under-uncertainty"},
	"thaler":                  {"thaler", "nudge", "behavioral-economics", "mental-accounting"},
	"simon":                   {"bounded-rationality", "satisficing", "decision-making", "organizations"},
	"taleb":                   {"taleb", "antifragility", "black-swan", "uncertainty", "risk"},
	"meadows":                 {"meadows", "limits-to-growth", "leverage-points", "systems-thinking"},
	"ostrom":                  {"ostrom", "commons", "polycentric-governance", "collective-action"},
	"wiener":                  {"wiener", "cybernetics", "feedback", "control"},
	"beer":                    {"viable-system-model", "cybernetics", "management"},
	"arendt":                  {"arendt", "totalitarianism", "public-sphere", "political-theory"},
	"zuboff":                  {"zuboff", "surveillance-capitalism", "privacy", "data-extraction"},
	"harari":                  {"harari", "sapiens", "dataism", "future-of-humanity"},
	"systems-thinking":        {"systems-thinking", "feedback-loops", "complexity", "emergence"},
	"complexity":              {"complexity", "emergence", "complex-adaptive-systems", "self-organization"},
	"game-theory":             {"game-theory", "nash-equilibrium", "prisoners-dilemma", "cooperation"},
	"behavioral-economics":    {"behavioral-economics", "nudge", "cognitive-bias", "choice-architecture"},
	"cognitive-bias":          {"cognitive-bias", "heuristics", "anchoring", "loss-aversion"},
	"decision-making":         {"decision-making", "judgment", "uncertainty", "risk"},
	"ai-ethics":               {"ai-ethics", "algorithmic-bias", "fairness", "accountability", "alignment"},
	"privacy":                 {"privacy", "data-protection", "surveillance", "consent"},
	"democracy":               {"democracy", "deliberation", "participation", "governance"},
	"commons":                 {"commons", "tragedy-of-the-commons", "shared-resources", "stewardship"},
	"sustainability":          {"sustainability", "climate", "circular-economy", "planetary-boundaries"},
	"climate":                 {"climate", "emissions", "adaptation", "resilience"},
	"future-of-work":          {"future-of-work", "automation", "labor", "universal-basic-income"},
	"automation":              {"automation", "robotics", "productivity", "labor"},
	"education":               {"education", "learning", "pedagogy", "literacy"},
	"network-effects":         {"network-effects", "platforms", "scale", "metcalfe"},
	"open-source":             {"open-source", "collaboration", "peer-production", "free-software"},
	"collective-intelligence": {"collective-intelligence", "wisdom-of-crowds", "collaboration", "emergence"},
	"resilience":              {"resilience", "robustness", "adaptation", "antifragility"},
	"design-thinking":         {"design-thinking", "human-centered-design", "prototyping", "empathy"},
}
