package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/use-agent/trawler/models"
)

// maxListed caps how many results the trawl tool prints.
const maxListed = 50

// client proxies tool calls to the trawler HTTP API.
type client struct {
	apiURL string
	apiKey string
	http   *http.Client
}

func newClient(apiURL, apiKey string) *client {
	return &client{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		http:   &http.Client{Timeout: 600 * time.Second},
	}
}

// do sends a request to the API and returns the response body.
func (c *client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (c *client) handleTrawl(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keyword, err := request.RequireString("keyword")
	if err != nil || strings.TrimSpace(keyword) == "" {
		return mcp.NewToolResultError("keyword is required"), nil
	}

	req := models.TrawlRequest{
		Keyword:          keyword,
		Browser:          request.GetString("browser", ""),
		Method:           request.GetString("method", ""),
		BaseURL:          request.GetString("base_url", ""),
		MaxPages:         int(request.GetFloat("max_pages", 0)),
		GenerateKeywords: request.GetBool("generate_kws", false),
		MaxAge:           int(request.GetFloat("max_age", 0)),
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/trawl", req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var resp models.TrawlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
	}
	if !resp.Success {
		errMsg := "trawl failed"
		if resp.Error != nil {
			errMsg = fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)
		}
		return mcp.NewToolResultError(errMsg), nil
	}

	return mcp.NewToolResultText(formatAggregate(resp.Data)), nil
}

func (c *client) handleListSites(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/sites", nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var resp models.SitesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Sites: %s\nMethods: %s",
		strings.Join(resp.Browsers, ", "), strings.Join(resp.Methods, ", "))), nil
}

// formatAggregate renders results as a numbered list for the model to read.
func formatAggregate(a *models.Aggregate) string {
	if a == nil || a.ResultsCount == 0 {
		return "No results found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Keyword: %s\n", a.SearchKeyword)
	if len(a.GeneratedKeywords) > 1 {
		fmt.Fprintf(&sb, "Searched: %s\n", strings.Join(a.GeneratedKeywords, "; "))
	}
	fmt.Fprintf(&sb, "Results: %d\n", a.ResultsCount)

	for i, r := range a.Results {
		if i == maxListed {
			fmt.Fprintf(&sb, "\n... %d more results omitted\n", a.ResultsCount-maxListed)
			break
		}
		fmt.Fprintf(&sb, "\n%d. %s\n   %s\n", i+1, r.Title, r.URL)
		if r.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", r.Description)
		}
	}

	if a.RelatedKeywordsCount > 0 {
		fmt.Fprintf(&sb, "\nRelated: %s\n", strings.Join(a.RelatedKeywords, "; "))
	}
	return sb.String()
}
