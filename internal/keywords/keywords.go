// Package keywords turns the keyword corpus into word frequencies for the word
// cloud.
package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// DefaultMaxWords caps the number of words placed in the cloud.
const DefaultMaxWords = 200

// WordCount is a word and the number of times it occurs in the corpus.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Options tunes Frequencies.
type Options struct {
	MaxWords int
	// Stopwords overrides the built-in English list when non-nil.
	Stopwords map[string]struct{}
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_][\p{L}\p{N}_']+`)

// Frequencies tokenizes corpus and returns word counts, most frequent first with
// ties ordered alphabetically. Stopwords and numbers are dropped and a plural is
// folded into its singular when both occur.
func Frequencies(corpus string, opts Options) []WordCount {
	maxWords := opts.MaxWords
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	stopwords := opts.Stopwords
	if stopwords == nil {
		stopwords = englishStopwords
	}

	counts := make(map[string]int)
	for _, token := range tokenPattern.FindAllString(corpus, -1) {
		word := strings.ToLower(token)
		word = strings.TrimSuffix(word, "'s")
		word = strings.Trim(word, "'")
		if word == "" || isNumber(word) {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		counts[word]++
	}

	foldPlurals(counts)

	result := make([]WordCount, 0, len(counts))
	for word, count := range counts {
		result = append(result, WordCount{Word: word, Count: count})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Word < result[j].Word
	})

	if len(result) > maxWords {
		result = result[:maxWords]
	}
	return result
}

// foldPlurals merges "xs" into "x" when "x" is also present. Words ending in
// "ss" are left alone.
func foldPlurals(counts map[string]int) {
	for word, count := range counts {
		if len(word) < 3 || !strings.HasSuffix(word, "s") || strings.HasSuffix(word, "ss") {
			continue
		}
		singular := strings.TrimSuffix(word, "s")
		if _, ok := counts[singular]; ok {
			counts[singular] += count
			delete(counts, word)
		}
	}
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '\'' && r != '_' {
			return false
		}
	}
	return true
}
