// Package predict is the core, turning the per-document frequency tables
// into ranked next-word candidates and holding the cycling session state.
package predict

import (
	"sort"
	"strings"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/model"
	"github.com/charmbracelet/log"
)

// Source tells which table a candidate was scored from.
type Source int

const (
	// SourceUnigram means the candidate was ranked by plain word frequency.
	SourceUnigram Source = iota
	// SourceBigram means the candidate was ranked as a continuation of the
	// previous word, with the configured weight applied.
	SourceBigram
)

func (s Source) String() string {
	switch s {
	case SourceUnigram:
		return "unigram"
	case SourceBigram:
		return "bigram"
	}
	return "unknown"
}

// Candidate is one scored word proposal.
type Candidate struct {
	Word      string
	Frequency int
	Source    Source
	Score     float64
}

// Engine ranks prefix continuations for a document. Scoring parameters come
// from the live config on every call, never cached, so runtime config
// changes apply to the next query.
type Engine struct {
	model *model.Model
	cfg   *config.Config
}

// NewEngine creates an engine over the given model and config.
func NewEngine(m *model.Model, cfg *config.Config) *Engine {
	return &Engine{
		model: m,
		cfg:   cfg,
	}
}

// Model exposes the underlying frequency model for collaborators that feed
// text in or read raw frequencies.
func (e *Engine) Model() *model.Model {
	return e.model
}

// Candidates returns up to limit candidates for prefix in the document,
// best first. When previousWord is non-empty its continuations are scored
// with the bigram weight and merged against the plain unigram matches; a
// word present in both sets keeps its bigram entry unless the raw unigram
// frequency strictly exceeds the weighted bigram score. The comparison is
// deliberately asymmetric: weighted bigram score against raw unigram count.
//
// Equal scores order lexicographically by word so results are deterministic.
// A limit <= 0 falls back to the configured max_candidates.
func (e *Engine) Candidates(id model.DocumentID, prefix, previousWord string, limit int) []Candidate {
	pc := e.cfg.Predict

	if prefix == "" || len(prefix) < pc.MinPrefix {
		return nil
	}
	if limit <= 0 {
		limit = pc.MaxCandidates
	}

	merged := make(map[string]Candidate)

	prev := strings.ToLower(strings.TrimSpace(previousWord))
	if prev != "" {
		for word, freq := range e.model.BigramsWithPrefix(id, prev, prefix) {
			merged[word] = Candidate{
				Word:      word,
				Frequency: freq,
				Source:    SourceBigram,
				Score:     float64(freq) * pc.BigramWeight,
			}
		}
	}

	for word, freq := range e.model.WordsWithPrefix(id, prefix) {
		if existing, ok := merged[word]; ok {
			if float64(freq) > existing.Score {
				merged[word] = Candidate{
					Word:      word,
					Frequency: freq,
					Source:    SourceUnigram,
					Score:     float64(freq),
				}
			}
			continue
		}
		merged[word] = Candidate{
			Word:      word,
			Frequency: freq,
			Source:    SourceUnigram,
			Score:     float64(freq),
		}
	}

	if len(merged) == 0 {
		return nil
	}

	candidates := make([]Candidate, 0, len(merged))
	for _, c := range merged {
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Word < candidates[j].Word
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	log.Debugf("predict: %d candidates for prefix %q (prev %q) in doc %q",
		len(candidates), prefix, prev, id)

	return candidates
}

// Predict returns the single best continuation for prefix, or "" when there
// is none.
func (e *Engine) Predict(id model.DocumentID, prefix, previousWord string) string {
	candidates := e.Candidates(id, prefix, previousWord, 1)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0].Word
}
