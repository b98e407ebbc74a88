package browser

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/trawler/cleaner"
	"github.com/use-agent/trawler/models"
)

var wordpress = struct {
	result, link, summary, tags, related, next cascadia.Selector
}{
	result:  cascadia.MustCompile("article"),
	link:    cascadia.MustCompile(".entry-title a[href], .wp-block-post-title a[href], h2 a[href]"),
	summary: cascadia.MustCompile(".entry-summary, .wp-block-post-excerpt, .entry-content"),
	tags:    cascadia.MustCompile("a[rel~=tag]"),
	related: cascadia.MustCompile(".tagcloud a, .wp-block-tag-cloud a"),
	next:    cascadia.MustCompile("a.next.page-numbers[href], .nav-previous a[href], .wp-block-query-pagination-next[href], link[rel=next][href]"),
}

// WordPress is self-hosted, so it has no default base URL.
func init() {
	register(Site{
		Kind:         KindWordPress,
		SearchURL:    wordPressSearchURL,
		Extract:      extractWordPress,
		WaitSelector: "article",
	})
}

func wordPressSearchURL(base, keyword string) string {
	return searchURL(base, "/", url.Values{"s": {keyword}})
}

func extractWordPress(html, keyword, pageURL string) (*Page, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	page := &Page{Results: []models.Result{}}
	doc.FindMatcher(wordpress.result).Each(func(_ int, s *goquery.Selection) {
		title := cleaner.Text(s.FindMatcher(wordpress.link).First().Text())
		link := firstHref(s, wordpress.link, pageURL)
		if title == "" || link == "" {
			return
		}
		page.Results = append(page.Results, models.Result{
			Title:       title,
			URL:         link,
			Description: cleaner.Snippet(s.FindMatcher(wordpress.summary).First(), pageURL),
			Tags:        texts(s, wordpress.tags),
		})
	})

	page.RelatedKeywords = texts(doc.Selection, wordpress.related)
	page.NextURL = firstHref(doc.Selection, wordpress.next, pageURL)
	return page, nil
}
