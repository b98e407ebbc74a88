package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// skipped elements never contribute visible text.
var skipped = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "svg": true, "head": true,
}

// FingerprintPage computes a SimHash of the visible text of an HTML page.
// Markup, attributes and script bodies are ignored, so two renderings of
// the same results page fingerprint the same even if their chrome differs
// slightly.
func FingerprintPage(htmlStr string) uint64 {
	words := extractWords(htmlStr)
	if len(words) == 0 {
		return 0
	}

	shingles := makeShingles(words, 2)
	if len(shingles) == 0 {
		return fingerprintTokens(words)
	}
	return fingerprintTokens(shingles)
}

// extractWords walks HTML with the tokenizer and collects lower-cased words
// of text nodes outside skipped elements.
func extractWords(htmlStr string) []string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	var words []string
	depth := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return words
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if skipped[string(tn)] {
				depth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if skipped[string(tn)] && depth > 0 {
				depth--
			}
		case html.TextToken:
			if depth == 0 {
				words = append(words, strings.Fields(strings.ToLower(string(tokenizer.Text())))...)
			}
		}
	}
}

// makeShingles creates n-gram shingles from a slice of tokens.
func makeShingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}

	shingles := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+n], "_"))
	}
	return shingles
}
