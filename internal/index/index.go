package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/siit-asr/faqserve/internal/faq"
)

// ErrNotFound is returned by GetEntry when no entry matches.
var ErrNotFound = errors.New("entry not found")

const maxResults = 10

// entryFields is the shape indexed per entry.
type entryFields struct {
	Question string `json:"question"`
	Heading  string `json:"heading"`
	Answer   string `json:"answer"`
}

// Index is a read-only keyword index over a store snapshot. It holds
// lookup references to entries, not ownership; rebuilding after a
// document change replaces the whole Index.
type Index struct {
	idx     bleve.Index
	entries map[string]faq.Entry // entry id -> entry
	byKey   map[string]string    // normalized topic+question -> entry id
	topics  []string
}

// Build aggregates all documents into a fresh in-memory index.
func Build(docs []*faq.Document) (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	i := &Index{
		idx:     idx,
		entries: make(map[string]faq.Entry),
		byKey:   make(map[string]string),
	}

	topicSeen := map[string]bool{}
	batch := idx.NewBatch()
	for _, doc := range docs {
		for _, sec := range doc.Sections {
			if key := normalize(sec.Heading); !topicSeen[key] {
				topicSeen[key] = true
				i.topics = append(i.topics, sec.Heading)
			}
			for _, e := range sec.Entries {
				if err := batch.Index(e.ID, entryFields{
					Question: e.Question,
					Heading:  sec.Heading,
					Answer:   e.Answer,
				}); err != nil {
					idx.Close()
					return nil, fmt.Errorf("index entry %s: %w", e.ID, err)
				}
				i.entries[e.ID] = e
				i.byKey[entryKey(sec.Heading, e.Question)] = e.ID
			}
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("apply index batch: %w", err)
	}

	return i, nil
}

// Search returns entries matching the keyword in relevance order.
// Ties break on entry id so repeated calls return identical results.
// An unknown keyword yields an empty slice, not an error.
func (i *Index) Search(keyword string) ([]faq.Entry, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}

	qq := bleve.NewMatchQuery(keyword)
	qq.SetField("question")
	qq.SetBoost(3.0)
	hq := bleve.NewMatchQuery(keyword)
	hq.SetField("heading")
	hq.SetBoost(2.0)
	aq := bleve.NewMatchQuery(keyword)
	aq.SetField("answer")

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qq, hq, aq), maxResults, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}

	out := make([]faq.Entry, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if e, ok := i.entries[hit.ID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetEntry looks up a single entry by topic heading and question text.
// Matching is case-insensitive.
func (i *Index) GetEntry(topic, question string) (faq.Entry, error) {
	id, ok := i.byKey[entryKey(topic, question)]
	if !ok {
		return faq.Entry{}, fmt.Errorf("%s / %s: %w", topic, question, ErrNotFound)
	}
	return i.entries[id], nil
}

// Topics returns distinct section headings in document order.
func (i *Index) Topics() []string {
	out := make([]string, len(i.topics))
	copy(out, i.topics)
	return out
}

// Count returns the number of indexed entries.
func (i *Index) Count() int {
	return len(i.entries)
}

// Close releases index resources.
func (i *Index) Close() error {
	return i.idx.Close()
}

func entryKey(topic, question string) string {
	return normalize(topic) + "\x00" + normalize(question)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
