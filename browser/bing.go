package browser

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/trawler/cleaner"
	"github.com/use-agent/trawler/models"
)

var bing = struct {
	result, title, link, caption, related, next cascadia.Selector
}{
	result:  cascadia.MustCompile("#b_results > li.b_algo"),
	title:   cascadia.MustCompile("h2"),
	link:    cascadia.MustCompile("h2 a[href]"),
	caption: cascadia.MustCompile(".b_caption p, p.b_lineclamp2, p.b_lineclamp3, p.b_lineclamp4, p"),
	related: cascadia.MustCompile(".b_rs a, #brsv3 a"),
	next:    cascadia.MustCompile("a.sb_pagN[href]"),
}

func init() {
	register(Site{
		Kind:         KindBing,
		DefaultBase:  "https://www.bing.com",
		SearchURL:    bingSearchURL,
		Extract:      extractBing,
		WaitSelector: "#b_results",
		Cookies: []http.Cookie{
			{Name: "SRCHHPGUSR", Value: "SRCHLANG=en"},
		},
	})
}

func bingSearchURL(base, keyword string) string {
	return searchURL(base, "/search", url.Values{"q": {keyword}})
}

func extractBing(html, keyword, pageURL string) (*Page, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	page := &Page{Results: []models.Result{}}
	doc.FindMatcher(bing.result).Each(func(_ int, s *goquery.Selection) {
		title := cleaner.Text(s.FindMatcher(bing.title).First().Text())
		link := firstHref(s, bing.link, pageURL)
		if title == "" || link == "" {
			return
		}
		// Dated captions start with "<date> · ".
		caption := cleaner.Prune(s.FindMatcher(bing.caption).First().Clone(), ".news_dt", ".algoSlug_icon")
		page.Results = append(page.Results, models.Result{
			Title:       title,
			URL:         link,
			Description: strings.TrimLeft(cleaner.Text(caption.Text()), "· "),
		})
	})

	page.RelatedKeywords = texts(doc.Selection, bing.related)
	page.NextURL = firstHref(doc.Selection, bing.next, pageURL)
	return page, nil
}
