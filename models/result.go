package models

import "encoding/json"

// Result is one search hit extracted from a results page.
type Result struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Keyword is the keyword variant whose session produced this result.
	Keyword string `json:"keyword"`

	// Site is the browser kind that produced this result.
	Site string `json:"site"`

	// Page is the 1-based results page the hit was found on.
	Page int `json:"page"`

	// Rank is the 1-based position of the hit within its session.
	Rank int `json:"rank"`
}

// Bundle is the output of one browser session.
//
// Counts always equal the length of their paired slice; Append is the
// only way results and related keywords are added.
type Bundle struct {
	Results              []Result `json:"results"`
	ResultsCount         int      `json:"results_count"`
	RelatedKeywords      []string `json:"related_keywords"`
	RelatedKeywordsCount int      `json:"related_keywords_count"`

	// NextURL is the next results page that was not fetched.
	// Empty means absent and is serialised as null.
	NextURL string `json:"-"`
}

// NewBundle returns an empty bundle with non-nil slices.
func NewBundle() *Bundle {
	return &Bundle{
		Results:         []Result{},
		RelatedKeywords: []string{},
	}
}

// Append adds results and related keywords, keeping counts in step.
func (b *Bundle) Append(results []Result, related []string) {
	b.Results = append(b.Results, results...)
	b.RelatedKeywords = append(b.RelatedKeywords, related...)
	b.ResultsCount = len(b.Results)
	b.RelatedKeywordsCount = len(b.RelatedKeywords)
}

// MarshalJSON renders the bundle with next_url as null when absent.
func (b Bundle) MarshalJSON() ([]byte, error) {
	type plain Bundle
	var next *string
	if b.NextURL != "" {
		next = &b.NextURL
	}
	return json.Marshal(struct {
		plain
		NextURL *string `json:"next_url"`
	}{plain: plain(b), NextURL: next})
}

// Aggregate accumulates every session of one trawl.
type Aggregate struct {
	Results              []Result `json:"results"`
	ResultsCount         int      `json:"results_count"`
	RelatedKeywords      []string `json:"related_keywords"`
	RelatedKeywordsCount int      `json:"related_keywords_count"`
	SearchKeyword        string   `json:"search_kw"`
	GeneratedKeywords    []string `json:"search_kw_generated"`
}

// NewAggregate returns an empty aggregate with non-nil slices.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Results:           []Result{},
		RelatedKeywords:   []string{},
		GeneratedKeywords: []string{},
	}
}

// Merge folds one session bundle into the aggregate: slices are
// concatenated in call order and counts are summed.
func (a *Aggregate) Merge(b *Bundle, seed string, generated []string) {
	a.Results = append(a.Results, b.Results...)
	a.RelatedKeywords = append(a.RelatedKeywords, b.RelatedKeywords...)
	a.ResultsCount += b.ResultsCount
	a.RelatedKeywordsCount += b.RelatedKeywordsCount
	a.SearchKeyword = seed
	a.GeneratedKeywords = append([]string(nil), generated...)
}

// Clone returns a deep copy so a run can merge into it without touching
// the committed aggregate.
func (a *Aggregate) Clone() *Aggregate {
	c := &Aggregate{
		Results:              append([]Result{}, a.Results...),
		ResultsCount:         a.ResultsCount,
		RelatedKeywords:      append([]string{}, a.RelatedKeywords...),
		RelatedKeywordsCount: a.RelatedKeywordsCount,
		SearchKeyword:        a.SearchKeyword,
		GeneratedKeywords:    append([]string{}, a.GeneratedKeywords...),
	}
	return c
}
