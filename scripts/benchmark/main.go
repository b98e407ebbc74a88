package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/use-agent/trawler/models"
)

// CLI flags
var (
	apiURL   = flag.String("api-url", "http://localhost:8080", "Trawler API base URL")
	apiKey   = flag.String("api-key", "", "API key for authenticated requests")
	runs     = flag.Int("runs", 3, "Number of runs per case for averaging")
	maxPages = flag.Int("max-pages", 1, "Result pages per keyword")
	output   = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// Cases cover each public site with a direct and a driven method.
var cases = []struct {
	Label   string
	Browser string
	Method  string
	Keyword string
}{
	{"Bing/http", "bing", "http", "golang context"},
	{"Bing/rod", "bing", "rod", "golang context"},
	{"SO/http", "stackoverflow", "http", "goroutine leak"},
	{"SO/rod-stealth", "stackoverflow", "rod-stealth", "goroutine leak"},
	{"SO-doc/auto", "stackoverflow-doc", "auto", "python"},
}

type runResult struct {
	Run          int    `json:"run"`
	TotalMs      int64  `json:"total_ms"`
	TrawlMs      int64  `json:"trawl_ms"`
	Results      int    `json:"results"`
	Related      int    `json:"related_keywords"`
	Success      bool   `json:"success"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}

type caseAverages struct {
	TotalMs float64 `json:"total_ms"`
	TrawlMs float64 `json:"trawl_ms"`
	Results float64 `json:"results"`
}

type caseResult struct {
	Label    string        `json:"label"`
	Browser  string        `json:"browser"`
	Method   string        `json:"method"`
	Keyword  string        `json:"keyword"`
	Runs     []runResult   `json:"runs"`
	Averages *caseAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp   string       `json:"timestamp"`
	APIURL      string       `json:"api_url"`
	RunsPerCase int          `json:"runs_per_case"`
	MaxPages    int          `json:"max_pages"`
	Results     []caseResult `json:"results"`
}

func main() {
	flag.Parse()

	fmt.Println("=== Trawler Benchmark Suite ===")
	fmt.Printf("API URL:    %s\n", *apiURL)
	fmt.Printf("Runs/case:  %d\n", *runs)
	fmt.Printf("Max pages:  %d\n", *maxPages)
	fmt.Printf("Output:     %s\n", *output)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure the server is running (trawler serve)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		APIURL:      *apiURL,
		RunsPerCase: *runs,
		MaxPages:    *maxPages,
	}

	client := &http.Client{Timeout: 10 * time.Minute}
	for _, c := range cases {
		fmt.Printf("Benchmarking [%s] %q ...\n", c.Label, c.Keyword)
		cr := caseResult{Label: c.Label, Browser: c.Browser, Method: c.Method, Keyword: c.Keyword}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkTrawl(client, &models.TrawlRequest{
				Keyword:  c.Keyword,
				Browser:  c.Browser,
				Method:   c.Method,
				MaxPages: *maxPages,
				Timeout:  300,
			}, i)
			if rr.Success {
				fmt.Printf("OK  %dms  %d results\n", rr.TotalMs, rr.Results)
			} else {
				fmt.Printf("FAILED: [%s] %s\n", rr.ErrorCode, rr.ErrorMessage)
			}
			cr.Runs = append(cr.Runs, rr)
		}

		cr.Averages = computeAverages(cr.Runs)
		report.Results = append(report.Results, cr)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkTrawl(client *http.Client, tr *models.TrawlRequest, run int) runResult {
	rr := runResult{Run: run}

	bodyBytes, err := json.Marshal(tr)
	if err != nil {
		rr.ErrorMessage = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL+"/api/v1/trawl", bytes.NewReader(bodyBytes))
	if err != nil {
		rr.ErrorMessage = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")
	if *apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+*apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		rr.ErrorMessage = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var tresp models.TrawlResponse
	if err := json.NewDecoder(resp.Body).Decode(&tresp); err != nil {
		rr.ErrorMessage = fmt.Sprintf("decode error: %v", err)
		return rr
	}
	return toRunResult(run, &tresp)
}

func toRunResult(run int, resp *models.TrawlResponse) runResult {
	rr := runResult{
		Run:     run,
		Success: resp.Success,
		TotalMs: resp.Timing.TotalMs,
		TrawlMs: resp.Timing.TrawlMs,
	}
	if resp.Data != nil {
		rr.Results = resp.Data.ResultsCount
		rr.Related = resp.Data.RelatedKeywordsCount
	}
	if resp.Error != nil {
		rr.ErrorCode = resp.Error.Code
		rr.ErrorMessage = resp.Error.Message
	}
	return rr
}

func computeAverages(runs []runResult) *caseAverages {
	var successCount int
	var avg caseAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.TotalMs += float64(r.TotalMs)
		avg.TrawlMs += float64(r.TrawlMs)
		avg.Results += float64(r.Results)
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.TotalMs /= n
	avg.TrawlMs /= n
	avg.Results /= n
	return &avg
}

func printTable(results []caseResult) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Case\tAvg Latency\tAvg Results\tSuccess\n")
	fmt.Fprintf(w, "────\t───────────\t───────────\t───────\n")

	for _, r := range results {
		ok := successRate(r.Runs)
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\tFAILED\t-\t%s\n", r.Label, ok)
			continue
		}
		fmt.Fprintf(w, "%s\t%dms\t%.1f\t%s\n",
			r.Label,
			int64(r.Averages.TotalMs),
			r.Averages.Results,
			ok,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func successRate(runs []runResult) string {
	n := 0
	for _, r := range runs {
		if r.Success {
			n++
		}
	}
	return fmt.Sprintf("%d/%d", n, len(runs))
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
