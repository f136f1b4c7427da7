// Package relevance implements the tag-expansion relevance heuristic used to
// discover links between content collections.
//
// The flow is: ExtractTags derives seed tags from a source record, ExpandTags
// widens them through the vocabulary (one level, never transitive), and Score
// rates each target record from 0 to 10. Every function here is pure for a
// fixed vocabulary.
package relevance

import (
	"strings"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
)

// Score weights. One weighting is used for every record kind.
const (
	// TagMatchWeight is awarded when a tag is among the target's curated tags
	TagMatchWeight = 3
	// BodyMatchWeight is awarded when a tag is not curated but appears in title or body text
	BodyMatchWeight = 2
	// TitleMatchWeight is added on top when a tag appears in the title
	TitleMatchWeight = 3
)

// Analyzer runs extraction, expansion and scoring against one vocabulary
type Analyzer struct {
	vocab *Vocabulary
}

// NewAnalyzer creates an analyzer bound to vocab
func NewAnalyzer(vocab *Vocabulary) *Analyzer {
	if vocab == nil {
		vocab = NewVocabulary(nil)
	}
	return &Analyzer{vocab: vocab}
}

// ExtractTags derives the seed tag set for rec. Vocabulary keys found in the
// record text are added, and so is every related entity name as an ad-hoc tag.
func (a *Analyzer) ExtractTags(rec *domain.ContentRecord) TagSet {
	tags := make(TagSet)
	if rec == nil {
		return tags
	}

	parts := make([]string, 0, 1+len(rec.BodyFields)+len(rec.RelatedEntityNames))
	parts = append(parts, rec.Title)
	parts = append(parts, rec.BodyFields...)
	parts = append(parts, rec.RelatedEntityNames...)
	blob := strings.ToLower(strings.Join(parts, " "))

	if strings.TrimSpace(blob) != "" {
		for _, key := range a.vocab.keys {
			if containsTag(blob, key) {
				tags[key] = struct{}{}
			}
		}
	}

	for _, name := range rec.RelatedEntityNames {
		tags.Add(name)
	}

	return tags
}

// ExpandTags returns seed plus every keyword its members map to.
// Seeds that are not vocabulary keys are kept as they are.
func (a *Analyzer) ExpandTags(seed TagSet) TagSet {
	expanded := seed.Clone()
	for t := range seed {
		kws, _ := a.vocab.Lookup(t)
		for _, kw := range kws {
			expanded[kw] = struct{}{}
		}
	}
	return expanded
}

// Score rates target against an expanded tag set. The result is in [0, 10].
func (a *Analyzer) Score(expanded TagSet, target *domain.ContentRecord) int {
	if target == nil || len(expanded) == 0 {
		return 0
	}

	title := strings.ToLower(target.Title)
	text := strings.ToLower(strings.Join(append([]string{target.Title}, target.BodyFields...), " "))

	var curated TagSet
	if target.HasCuratedTags() {
		curated = NewTagSet(target.Tags...)
	}

	score := 0
	for t := range expanded {
		if curated.Has(t) {
			score += TagMatchWeight
		} else if containsTag(text, t) {
			score += BodyMatchWeight
		}
		if containsTag(title, t) {
			score += TitleMatchWeight
		}
		if score >= domain.MaxRelevanceScore {
			return domain.MaxRelevanceScore
		}
	}

	return domain.ClampScore(score)
}

// Rank scores targets against an already expanded tag set. The source record
// itself and nil entries are skipped.
func (a *Analyzer) Rank(source *domain.ContentRecord, expanded TagSet, targets []*domain.ContentRecord) []domain.Candidate {
	var candidates []domain.Candidate
	for _, target := range targets {
		if target == nil || (source != nil && target.ID == source.ID && target.Kind == source.Kind) {
			continue
		}
		score := a.Score(expanded, target)
		if score >= domain.LinkThreshold {
			candidates = append(candidates, domain.Candidate{Record: target, Score: score})
		}
	}
	return candidates
}

// containsTag reports whether the lowercased text mentions tag, either
// verbatim or with its hyphens read as spaces.
func containsTag(text, tag string) bool {
	if tag == "" {
		return false
	}
	if strings.Contains(text, tag) {
		return true
	}
	if strings.Contains(tag, "-") {
		return strings.Contains(text, strings.ReplaceAll(tag, "-", " "))
	}
	return false
}
