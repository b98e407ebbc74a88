package browser

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/trawler/cleaner"
	"github.com/use-agent/trawler/models"
)

// Stack Overflow's documentation lives on as community articles; the
// search is restricted to them and excerpts are kept as Markdown.
var stackoverflowDoc = struct {
	result, link, excerpt, tags, related, next cascadia.Selector
}{
	result:  cascadia.MustCompile(".s-post-summary"),
	link:    cascadia.MustCompile(".s-post-summary--content-title a[href], h3 a[href]"),
	excerpt: cascadia.MustCompile(".s-post-summary--content-excerpt"),
	tags:    cascadia.MustCompile(".s-post-summary--meta-tags a.s-tag, .s-post-summary--meta-tags a.post-tag"),
	related: cascadia.MustCompile(".js-gps-related-tags a.post-tag, .js-gps-related-tags a.s-tag, .s-sidebarwidget a.s-tag"),
	next:    cascadia.MustCompile(".s-pagination a[rel=next][href]"),
}

func init() {
	register(Site{
		Kind:         KindStackOverflowDoc,
		DefaultBase:  "https://stackoverflow.com",
		SearchURL:    stackOverflowDocSearchURL,
		Extract:      extractStackOverflowDoc,
		WaitSelector: ".s-post-summary",
		Cookies:      stackOverflowCookies,
	})
}

func stackOverflowDocSearchURL(base, keyword string) string {
	return searchURL(base, "/search", url.Values{"q": {keyword + " is:article"}})
}

func extractStackOverflowDoc(html, keyword, pageURL string) (*Page, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	page := &Page{Results: []models.Result{}}
	doc.FindMatcher(stackoverflowDoc.result).Each(func(_ int, s *goquery.Selection) {
		title := cleaner.Text(s.FindMatcher(stackoverflowDoc.link).First().Text())
		link := firstHref(s, stackoverflowDoc.link, pageURL)
		if title == "" || link == "" {
			return
		}
		page.Results = append(page.Results, models.Result{
			Title:       title,
			URL:         link,
			Description: cleaner.Snippet(s.FindMatcher(stackoverflowDoc.excerpt).First(), pageURL),
			Tags:        texts(s, stackoverflowDoc.tags),
		})
	})

	page.RelatedKeywords = texts(doc.Selection, stackoverflowDoc.related)
	page.NextURL = firstHref(doc.Selection, stackoverflowDoc.next, pageURL)
	return page, nil
}
