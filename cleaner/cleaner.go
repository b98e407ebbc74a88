// Package cleaner turns HTML fragments taken from result pages into the
// short plain-text or Markdown strings stored on a result.
package cleaner

import (
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
)

// noise lists elements that never belong in a result snippet.
var noise = []string{
	"script", "style", "noscript", "svg", "button", "form",
	".screen-reader-text", ".sr-only", ".more-link",
}

// Cleaner converts snippet HTML to Markdown. The converter is created once
// and is safe for concurrent use.
type Cleaner struct {
	conv *converter.Converter
}

// New creates a Cleaner rendering CommonMark.
func New() *Cleaner {
	return &Cleaner{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

var std = New()

// Snippet renders the inner HTML of sel as Markdown using the package
// Cleaner. See (*Cleaner).Snippet.
func Snippet(sel *goquery.Selection, baseURL string) string {
	return std.Snippet(sel, baseURL)
}

// Snippet renders the inner HTML of sel as Markdown. Relative links are
// resolved against baseURL, which may be any page URL of the site. On
// conversion failure the plain text of the selection is returned instead.
func (c *Cleaner) Snippet(sel *goquery.Selection, baseURL string) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	sel = Prune(sel.Clone(), noise...)

	absolutize(sel, baseURL)

	fragment, err := sel.Html()
	if err != nil {
		return Text(sel.Text())
	}
	md, err := c.conv.ConvertString(fragment)
	if err != nil {
		return Text(sel.Text())
	}
	return strings.TrimSpace(md)
}

// absolutize rewrites relative link and image targets against baseURL.
func absolutize(sel *goquery.Selection, baseURL string) {
	origin, err := url.Parse(baseURL)
	if err != nil || origin.Host == "" {
		return
	}
	rewrite := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, s *goquery.Selection) {
			v, _ := s.Attr(attr)
			ref, err := url.Parse(strings.TrimSpace(v))
			if err != nil || ref.IsAbs() {
				return
			}
			s.SetAttr(attr, origin.ResolveReference(ref).String())
		}
	}
	sel.Find("a[href]").Each(rewrite("href"))
	sel.Find("img[src]").Each(rewrite("src"))
}

// Text collapses runs of whitespace into single spaces and trims the result.
func Text(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Prune removes every element matching one of selectors from sel in place.
func Prune(sel *goquery.Selection, selectors ...string) *goquery.Selection {
	for _, s := range selectors {
		sel.Find(s).Remove()
	}
	return sel
}
