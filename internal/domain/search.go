// Package domain defines the core value types for search relevance
// evaluation: queries, ranked search results, graded relevance judgments,
// per-query evaluation results, approach summaries, and comparison
// reports. All types are plain data; the package has no side effects.
package domain

// Query represents one evaluation probe against a search system.
// A Query is immutable once created.
type Query struct {
	// ID optionally identifies the query within a query set.
	// It is carried through results for reporting but plays no role
	// in query-set matching, which compares Text.
	ID string `json:"id,omitempty"`

	// Text is the free-text input sent to the search system and to
	// the relevance judge.
	Text string `json:"text"`
}

// SearchHit is a single retrieved item: an opaque identifier plus a set
// of named field values (text, title, metadata). Which fields a judge
// considers is decided per request via JudgeOptions, not by the hit.
type SearchHit struct {
	// ID is the opaque identifier assigned by the system under test.
	ID string `json:"id"`

	// Fields maps field names to their values. The evaluated field
	// list is passed explicitly with each judge request, so ordering
	// concerns live at the request boundary rather than here.
	Fields map[string]string `json:"fields"`
}

// Field returns the named field value, or "" when absent.
func (h SearchHit) Field(name string) string { return h.Fields[name] }

// SearchResult pairs a Query with the ordered hits a search system
// returned for it. Hit order is the ranking order produced by the
// system under test; index 0 is rank 1.
type SearchResult struct {
	Query Query       `json:"query"`
	Hits  []SearchHit `json:"hits"`
}
