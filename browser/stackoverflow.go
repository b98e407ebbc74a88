package browser

import (
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/trawler/cleaner"
	"github.com/use-agent/trawler/models"
)

var stackoverflow = struct {
	result, link, excerpt, tags, related, next cascadia.Selector
}{
	result:  cascadia.MustCompile(".s-post-summary"),
	link:    cascadia.MustCompile(".s-post-summary--content-title a[href], h3 a[href]"),
	excerpt: cascadia.MustCompile(".s-post-summary--content-excerpt"),
	tags:    cascadia.MustCompile(".s-post-summary--meta-tags a.s-tag, .s-post-summary--meta-tags a.post-tag"),
	related: cascadia.MustCompile(".js-gps-related-tags a.post-tag, .js-gps-related-tags a.s-tag"),
	next:    cascadia.MustCompile(".s-pagination a[rel=next][href], a.s-pagination--item[rel=next][href]"),
}

// stackOverflowCookies dismiss the cookie consent banner, which otherwise
// covers the result list on first visit.
var stackOverflowCookies = []http.Cookie{
	{Name: "OptanonAlertBoxClosed", Value: "2024-01-01T00:00:00.000Z"},
}

func init() {
	register(Site{
		Kind:         KindStackOverflow,
		DefaultBase:  "https://stackoverflow.com",
		SearchURL:    stackOverflowSearchURL,
		Extract:      extractStackOverflow,
		WaitSelector: ".s-post-summary",
		Cookies:      stackOverflowCookies,
	})
}

func stackOverflowSearchURL(base, keyword string) string {
	return searchURL(base, "/search", url.Values{"q": {keyword}})
}

// extractStackOverflow reads question summaries. Related keywords are the
// sidebar's related tags, or the tags of the listed questions when the
// sidebar is missing.
func extractStackOverflow(html, keyword, pageURL string) (*Page, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	page := &Page{Results: []models.Result{}}
	var resultTags []string
	doc.FindMatcher(stackoverflow.result).Each(func(_ int, s *goquery.Selection) {
		a := s.FindMatcher(stackoverflow.link).First()
		title := cleaner.Text(a.Text())
		link := firstHref(s, stackoverflow.link, pageURL)
		if title == "" || link == "" {
			return
		}
		tags := texts(s, stackoverflow.tags)
		resultTags = appendUnique(resultTags, tags...)
		page.Results = append(page.Results, models.Result{
			Title:       title,
			URL:         link,
			Description: cleaner.Text(s.FindMatcher(stackoverflow.excerpt).First().Text()),
			Tags:        tags,
		})
	})

	page.RelatedKeywords = texts(doc.Selection, stackoverflow.related)
	if len(page.RelatedKeywords) == 0 && len(resultTags) > 0 {
		page.RelatedKeywords = resultTags
	}
	page.NextURL = firstHref(doc.Selection, stackoverflow.next, pageURL)
	return page, nil
}
