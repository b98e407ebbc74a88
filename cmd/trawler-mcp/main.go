package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/use-agent/trawler/browser"
	"github.com/use-agent/trawler/engine"
)

func main() {
	apiURL := os.Getenv("TRAWLER_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("TRAWLER_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "TRAWLER_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"trawler",
		"1.0.0",
		server.WithToolCapabilities(false),
	)
	c := newClient(apiURL, apiKey)

	s.AddTool(trawlTool(), c.handleTrawl)
	s.AddTool(mcp.NewTool("list_sites",
		mcp.WithDescription("List the sites that can be searched and the scrape methods that can fetch them."),
	), c.handleListSites)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func trawlTool() mcp.Tool {
	kinds := browser.Kinds()
	sites := make([]string, len(kinds))
	for i, k := range kinds {
		sites[i] = string(k)
	}
	ms := engine.Methods()
	methods := make([]string, len(ms))
	for i, m := range ms {
		methods[i] = string(m)
	}

	return mcp.NewTool("trawl",
		mcp.WithDescription("Search a site for a keyword, optionally with generated variants such as 'learning <kw>' and '<kw> tutorials', and return every result found across the requested result pages."),
		mcp.WithString("keyword",
			mcp.Required(),
			mcp.Description("The seed keyword to search for"),
		),
		mcp.WithString("browser",
			mcp.Description("Site to search (default: server setting, usually 'bing')"),
			mcp.Enum(sites...),
		),
		mcp.WithString("method",
			mcp.Description("How pages are fetched: 'http' and 'colly' are fast direct requests, 'rod' and 'rod-stealth' render in a headless browser, 'auto' races them"),
			mcp.Enum(methods...),
		),
		mcp.WithNumber("max_pages",
			mcp.Description("Result pages to read per keyword variant (default: 3, max: 50)"),
		),
		mcp.WithBoolean("generate_kws",
			mcp.Description("Also search prefix and suffix variants of the keyword"),
		),
		mcp.WithString("base_url",
			mcp.Description("Site origin, required for 'wordpress'"),
		),
		mcp.WithNumber("max_age",
			mcp.Description("Accept a cached answer up to this many milliseconds old"),
		),
	)
}
