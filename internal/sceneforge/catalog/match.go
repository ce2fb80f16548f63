package catalog

import (
	"sort"
	"strings"

	"github.com/yungbote/sceneforge-backend/internal/sceneforge/analysis"
)

// Match is an Entry with its relevance score.
type Match struct {
	Entry
	Score int `json:"score"`
}

// Rank scores every entry against the analysis and returns the top
// maxResults, highest score first. Zero-score entries never appear.
// Ties keep catalog order.
func Rank(entries []Entry, a *analysis.ContentAnalysis, maxResults int) []Match {
	if maxResults <= 0 {
		maxResults = 5
	}
	terms := searchTerms(a)

	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		score := scoreEntry(e, terms, a.SubjectArea)
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Entry: e, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// searchTerms is the lower-cased union of suggested keywords, main
// topics, the subject area and every key-concept name.
func searchTerms(a *analysis.ContentAnalysis) map[string]bool {
	terms := make(map[string]bool)
	for _, k := range a.SuggestedModelKeywords {
		terms[strings.ToLower(k)] = true
	}
	for _, t := range a.MainTopics {
		terms[strings.ToLower(t)] = true
	}
	terms[strings.ToLower(a.SubjectArea)] = true
	for _, c := range a.KeyConcepts {
		terms[strings.ToLower(c.Name)] = true
	}
	return terms
}

func scoreEntry(e Entry, terms map[string]bool, subjectArea string) int {
	entryTerms := make(map[string]bool, len(e.Keywords)+1)
	for _, k := range e.Keywords {
		entryTerms[strings.ToLower(k)] = true
	}
	entryTerms[strings.ToLower(e.Category)] = true

	score := 3*overlap(terms, entryTerms) +
		2*overlap(terms, wordSet(e.Name)) +
		overlap(terms, wordSet(e.Description))
	if strings.EqualFold(e.Category, subjectArea) {
		score += 5
	}
	return score
}

func wordSet(s string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		words[w] = true
	}
	return words
}

func overlap(a, b map[string]bool) int {
	n := 0
	for t := range a {
		if b[t] {
			n++
		}
	}
	return n
}
