package browser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/trawler/cleaner"
)

func parseDocument(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// resolveURL makes href absolute against pageURL. Fragment-only, script
// and unparsable links resolve to "".
func resolveURL(pageURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// firstHref returns the resolved href of the first element matching m.
func firstHref(sel *goquery.Selection, m goquery.Matcher, pageURL string) string {
	var out string
	sel.FindMatcher(m).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok {
			out = resolveURL(pageURL, href)
		}
		return out == ""
	})
	return out
}

// texts collects the cleaned, non-empty text of every element matching m,
// dropping duplicates while keeping first-seen order.
func texts(sel *goquery.Selection, m goquery.Matcher) []string {
	out := []string{}
	seen := map[string]bool{}
	sel.FindMatcher(m).Each(func(_ int, s *goquery.Selection) {
		t := cleaner.Text(s.Text())
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
	})
	return out
}

// appendUnique appends the items of add not already in dst.
func appendUnique(dst []string, add ...string) []string {
	for _, a := range add {
		found := false
		for _, d := range dst {
			if d == a {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, a)
		}
	}
	return dst
}

func searchURL(base, path string, query url.Values) string {
	return strings.TrimRight(base, "/") + path + "?" + query.Encode()
}
