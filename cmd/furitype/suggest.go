package main

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

const minSuggestionScore = 0.75

// suggestTitles returns up to limit titles that look like query, closest
// first. Titles containing query always qualify.
func suggestTitles(query string, titles []string, limit int) []string {
	type scored struct {
		title string
		score float64
	}
	q := strings.ToLower(query)
	var candidates []scored
	for _, title := range titles {
		t := strings.ToLower(title)
		score := matchr.JaroWinkler(q, t, false)
		if q != "" && strings.Contains(t, q) {
			score = max(score, 1-float64(matchr.Levenshtein(q, t))/float64(len([]rune(t))+1))
			score = max(score, minSuggestionScore)
		}
		if score < minSuggestionScore {
			continue
		}
		candidates = append(candidates, scored{title: title, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.title
	}
	return out
}
