package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/trawler/models"
)

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("unexpected content %T", res.Content[0])
	return ""
}

func fakeAPI(t *testing.T, got *models.TrawlRequest, resp models.TrawlResponse) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		switch r.URL.Path {
		case "/api/v1/trawl":
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
			_ = json.NewEncoder(w).Encode(resp)
		case "/api/v1/sites":
			_ = json.NewEncoder(w).Encode(models.SitesResponse{
				Browsers: []string{"bing", "stackoverflow"},
				Methods:  []string{"http", "rod"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleTrawl(t *testing.T) {
	agg := models.NewAggregate()
	agg.Merge(&models.Bundle{
		Results: []models.Result{
			{Title: "MongoDB Tutorial", URL: "https://www.w3schools.com/mongodb/", Description: "Learn MongoDB"},
			{Title: "MongoDB Docs", URL: "https://www.mongodb.com/docs/"},
		},
		ResultsCount:         2,
		RelatedKeywords:      []string{"mongodb atlas"},
		RelatedKeywordsCount: 1,
	}, "MongoDB", []string{"learning MongoDB", "MongoDB tutorials"})

	var got models.TrawlRequest
	srv := fakeAPI(t, &got, models.TrawlResponse{Success: true, ID: "run-1", Data: agg})
	c := newClient(srv.URL+"/", "secret")

	res, err := c.handleTrawl(context.Background(), callRequest(map[string]any{
		"keyword":      "MongoDB",
		"browser":      "stackoverflow",
		"max_pages":    float64(2),
		"generate_kws": true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	assert.Equal(t, "MongoDB", got.Keyword)
	assert.Equal(t, "stackoverflow", got.Browser)
	assert.Equal(t, 2, got.MaxPages)
	assert.True(t, got.GenerateKeywords)

	text := resultText(t, res)
	assert.Contains(t, text, "Results: 2")
	assert.Contains(t, text, "1. MongoDB Tutorial\n   https://www.w3schools.com/mongodb/\n   Learn MongoDB")
	assert.Contains(t, text, "Searched: learning MongoDB; MongoDB tutorials")
	assert.Contains(t, text, "Related: mongodb atlas")
}

func TestHandleTrawl_APIError(t *testing.T) {
	var got models.TrawlRequest
	srv := fakeAPI(t, &got, models.TrawlResponse{
		Success: false,
		Error:   &models.ErrorDetail{Code: models.ErrCodeFetch, Message: "failed to fetch"},
	})

	res, err := newClient(srv.URL, "secret").handleTrawl(context.Background(), callRequest(map[string]any{"keyword": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "[FETCH_FAILED] failed to fetch", resultText(t, res))
}

func TestHandleTrawl_MissingKeyword(t *testing.T) {
	res, err := newClient("http://127.0.0.1:0", "secret").handleTrawl(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "keyword is required", resultText(t, res))
}

func TestHandleListSites(t *testing.T) {
	var got models.TrawlRequest
	srv := fakeAPI(t, &got, models.TrawlResponse{})

	res, err := newClient(srv.URL, "secret").handleListSites(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, "Sites: bing, stackoverflow\nMethods: http, rod", resultText(t, res))
}

func TestFormatAggregate(t *testing.T) {
	assert.Equal(t, "No results found.", formatAggregate(nil))
	assert.Equal(t, "No results found.", formatAggregate(models.NewAggregate()))

	agg := models.NewAggregate()
	results := make([]models.Result, maxListed+5)
	for i := range results {
		results[i] = models.Result{Title: "t", URL: "u"}
	}
	agg.Merge(&models.Bundle{Results: results, ResultsCount: len(results)}, "k", []string{"k"})

	text := formatAggregate(agg)
	assert.Contains(t, text, "5 more results omitted")
	assert.NotContains(t, text, "Searched:")
	assert.Equal(t, maxListed, strings.Count(text, ". t\n"))
}

func TestTrawlTool(t *testing.T) {
	tool := trawlTool()
	assert.Equal(t, "trawl", tool.Name)
	assert.Contains(t, tool.InputSchema.Required, "keyword")
}
