package utils

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeTitle lowercases a title and strips diacritics so that
// "Amélie" and "amelie" compare equal
func NormalizeTitle(title string) string {
	folded, _, err := transform.String(foldTransformer, title)
	if err != nil {
		folded = title
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// TitleDistance returns the edit distance between two normalized titles
func TitleDistance(a, b string) int {
	return levenshtein.ComputeDistance(NormalizeTitle(a), NormalizeTitle(b))
}

// Ranked pairs an item index with its relevance ordering keys
type Ranked struct {
	Index      int
	Distance   int
	Popularity float64
}

// RankByRelevance orders search results against the query:
// 1. Smaller edit distance between normalized titles wins
// 2. Equal distance: higher upstream popularity wins
// Returns the indexes of the input in ranked order.
func RankByRelevance(query string, titles []string, popularity []float64) []int {
	ranked := make([]Ranked, len(titles))
	for i, title := range titles {
		ranked[i] = Ranked{
			Index:    i,
			Distance: TitleDistance(query, title),
		}
		if i < len(popularity) {
			ranked[i].Popularity = popularity[i]
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Distance != ranked[j].Distance {
			return ranked[i].Distance < ranked[j].Distance
		}
		return ranked[i].Popularity > ranked[j].Popularity
	})

	indexes := make([]int, len(ranked))
	for i, r := range ranked {
		indexes[i] = r.Index
	}
	return indexes
}
