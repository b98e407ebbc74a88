package engine

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"
)

// CollyEngine fetches pages through a gocolly collector. Each fetch gets a
// fresh collector so visited-URL bookkeeping never leaks across pages.
type CollyEngine struct {
	agents *UserAgents
}

// NewCollyEngine creates a CollyEngine rotating through agents.
func NewCollyEngine(agents *UserAgents) *CollyEngine {
	if agents == nil {
		agents = NewUserAgents(nil)
	}
	return &CollyEngine{agents: agents}
}

func (e *CollyEngine) Name() string { return string(MethodColly) }

func (e *CollyEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	c := colly.NewCollector(
		colly.UserAgent(e.agents.Next()),
		colly.StdlibContext(ctx),
		colly.MaxBodySize(maxBody),
	)
	if req.Timeout > 0 {
		c.SetRequestTimeout(req.Timeout)
	}

	var (
		result   *FetchResult
		fetchErr error
	)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		for k, v := range req.Headers {
			r.Headers.Set(k, v)
		}
	})
	c.OnResponse(func(r *colly.Response) {
		ct := r.Headers.Get("Content-Type")
		if !isHTMLContentType(ct) {
			fetchErr = fmt.Errorf("colly_engine: non-html content-type %q", ct)
			return
		}
		body := string(r.Body)
		result = &FetchResult{
			HTML:       body,
			Title:      extractTitle(body),
			StatusCode: r.StatusCode,
			FinalURL:   r.Request.URL.String(),
			EngineName: e.Name(),
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("colly_engine: status %d: %w", r.StatusCode, err)
	})

	if len(req.Cookies) > 0 {
		cookies := make([]*http.Cookie, len(req.Cookies))
		for i := range req.Cookies {
			cookies[i] = &req.Cookies[i]
		}
		if err := c.SetCookies(req.URL, cookies); err != nil {
			return nil, fmt.Errorf("colly_engine: set cookies: %w", err)
		}
	}

	if err := c.Visit(req.URL); err != nil && fetchErr == nil {
		fetchErr = fmt.Errorf("colly_engine: visit: %w", err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if result == nil {
		return nil, fmt.Errorf("colly_engine: no response for %s", req.URL)
	}
	return result, nil
}
