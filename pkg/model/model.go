// Package model owns the per-document frequency tables and their prefix
// indexes. Each editing buffer gets its own unigram and bigram counts,
// rebuilt wholesale from the buffer text and guarded by a change marker so
// repeated updates with identical content are free.
package model

import (
	"strings"
	"sync"

	"github.com/bastiangx/typeahead/pkg/token"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// DocumentID identifies one editing buffer. The empty string is never a
// valid id; passing it indicates a collaborator bug and panics.
type DocumentID string

// Stats summarizes one document's model.
type Stats struct {
	UniqueWords   int
	UniqueBigrams int
	Version       uint64
}

// document holds the rebuilt tables for a single buffer. The tries mirror
// the count maps so prefix queries are subtree walks instead of full scans.
type document struct {
	words       map[string]int
	wordTrie    *patricia.Trie
	bigrams     map[string]map[string]int
	bigramTries map[string]*patricia.Trie
	bigramCount int

	lastMarker int64
	hasMarker  bool
	version    uint64
}

func newDocument() *document {
	return &document{
		words:       make(map[string]int),
		wordTrie:    patricia.NewTrie(),
		bigrams:     make(map[string]map[string]int),
		bigramTries: make(map[string]*patricia.Trie),
	}
}

// Model is the arena of documents. Documents are created lazily on first
// update and removed explicitly via Forget when the host closes a buffer.
type Model struct {
	mu   sync.RWMutex
	docs map[DocumentID]*document
}

// New creates an empty model arena.
func New() *Model {
	return &Model{
		docs: make(map[DocumentID]*document),
	}
}

func mustID(id DocumentID) {
	if id == "" {
		panic("model: empty document id")
	}
}

// Update rebuilds the frequency tables for id from text. The whole buffer is
// treated as one token stream, so bigrams cross line boundaries. When marker
// matches the marker recorded at the last successful update the call is a
// no-op; callers pass the host's change counter here to skip redundant
// rebuilds.
func (m *Model) Update(id DocumentID, text string, marker int64) {
	mustID(id)

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		doc = newDocument()
		m.docs[id] = doc
	}

	if doc.hasMarker && doc.lastMarker == marker {
		log.Debugf("model: doc %q unchanged at marker %d, skipping rebuild", id, marker)
		return
	}

	tokens := token.Extract(text)

	words := make(map[string]int, len(tokens))
	wordTrie := patricia.NewTrie()
	bigrams := make(map[string]map[string]int)
	bigramTries := make(map[string]*patricia.Trie)
	bigramCount := 0

	for i, tok := range tokens {
		words[tok]++
		if i == 0 {
			continue
		}
		first := tokens[i-1]
		seconds, ok := bigrams[first]
		if !ok {
			seconds = make(map[string]int)
			bigrams[first] = seconds
			bigramTries[first] = patricia.NewTrie()
		}
		if seconds[tok] == 0 {
			bigramCount++
		}
		seconds[tok]++
	}

	for w, freq := range words {
		wordTrie.Insert(patricia.Prefix(w), freq)
	}
	for first, seconds := range bigrams {
		trie := bigramTries[first]
		for second, freq := range seconds {
			trie.Insert(patricia.Prefix(second), freq)
		}
	}

	doc.words = words
	doc.wordTrie = wordTrie
	doc.bigrams = bigrams
	doc.bigramTries = bigramTries
	doc.bigramCount = bigramCount
	doc.lastMarker = marker
	doc.hasMarker = true
	doc.version++

	log.Debugf("model: rebuilt doc %q: %d tokens, %d unique words, %d unique bigrams",
		id, len(tokens), len(words), bigramCount)
}

// WordFrequency returns how often word occurs in the document, 0 when the
// word or the document is unknown. Case-insensitive.
func (m *Model) WordFrequency(id DocumentID, word string) int {
	mustID(id)

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return 0
	}
	return doc.words[strings.ToLower(word)]
}

// BigramFrequency returns how often second was observed immediately after
// first, 0 when the pair or the document is unknown. Case-insensitive on
// both words.
func (m *Model) BigramFrequency(id DocumentID, first, second string) int {
	mustID(id)

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return 0
	}
	seconds, ok := doc.bigrams[strings.ToLower(first)]
	if !ok {
		return 0
	}
	return seconds[strings.ToLower(second)]
}

// WordsWithPrefix returns every known word sharing prefix case-insensitively
// together with its frequency. A word equal to the prefix itself is
// excluded: a prediction must add at least one character.
func (m *Model) WordsWithPrefix(id DocumentID, prefix string) map[string]int {
	mustID(id)

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return map[string]int{}
	}
	return collectSubtree(doc.wordTrie, strings.ToLower(prefix))
}

// BigramsWithPrefix returns the continuations of first sharing prefix,
// with their bigram frequencies. Same exact-match exclusion as
// WordsWithPrefix.
func (m *Model) BigramsWithPrefix(id DocumentID, first, prefix string) map[string]int {
	mustID(id)

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return map[string]int{}
	}
	trie, ok := doc.bigramTries[strings.ToLower(first)]
	if !ok {
		return map[string]int{}
	}
	return collectSubtree(trie, strings.ToLower(prefix))
}

// collectSubtree walks the subtree under lowerPrefix and gathers word
// frequencies, skipping the exact prefix entry.
func collectSubtree(trie *patricia.Trie, lowerPrefix string) map[string]int {
	results := make(map[string]int)

	err := trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		if word == lowerPrefix {
			return nil
		}
		freq, ok := item.(int)
		if !ok {
			log.Errorf("model: unexpected item type %T for word %s", item, word)
			return nil
		}
		results[word] = freq
		return nil
	})
	if err != nil {
		log.Errorf("model: visiting trie subtree: %v", err)
	}

	return results
}

// Clear discards the frequency tables for id. Stats report zero words and
// bigrams afterwards, and the recorded change marker is dropped so the next
// Update always rebuilds. Unlike Forget, the document entry itself stays in
// the arena and keeps its monotonic version counter.
func (m *Model) Clear(id DocumentID) {
	mustID(id)

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return
	}
	doc.words = make(map[string]int)
	doc.wordTrie = patricia.NewTrie()
	doc.bigrams = make(map[string]map[string]int)
	doc.bigramTries = make(map[string]*patricia.Trie)
	doc.bigramCount = 0
	doc.hasMarker = false
}

// Forget removes the document from the arena entirely. Lifecycle hook for
// buffer-close notifications; keeps long sessions with many buffers from
// growing without bound.
func (m *Model) Forget(id DocumentID) {
	mustID(id)

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, id)
}

// Stats reports the model size for id. Unknown documents report zeros.
func (m *Model) Stats(id DocumentID) Stats {
	mustID(id)

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return Stats{}
	}
	return Stats{
		UniqueWords:   len(doc.words),
		UniqueBigrams: doc.bigramCount,
		Version:       doc.version,
	}
}

// Documents returns how many documents the arena currently holds.
func (m *Model) Documents() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
