package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// apiError mirrors the error object of seotest API responses.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// scrapeResponse mirrors POST /api/v1/scrape.
type scrapeResponse struct {
	Success  bool            `json:"success"`
	FinalURL string          `json:"final_url"`
	Title    string          `json:"title"`
	Document json.RawMessage `json:"document"`
	Error    *apiError       `json:"error"`
}

// testDataResponse mirrors POST /api/v1/test-data.
type testDataResponse struct {
	Success  bool            `json:"success"`
	Count    int             `json:"count"`
	TestData json.RawMessage `json:"test_data"`
	Error    *apiError       `json:"error"`
}

type client struct {
	http   *http.Client
	apiURL string
	apiKey string
}

func main() {
	apiURL := os.Getenv("SEOTEST_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:6785"
	}
	cl := &client{
		http:   &http.Client{Timeout: 120 * time.Second},
		apiURL: apiURL,
		apiKey: os.Getenv("SEOTEST_API_KEY"),
	}

	s := server.NewMCPServer(
		"seotest",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	scrapePageTool := mcp.NewTool("scrape_page",
		mcp.WithDescription("Scrape a web page and return its meta tags, images, content blocks and internal/external links, each with a unique CSS selector."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to scrape"),
		),
	)
	s.AddTool(scrapePageTool, cl.handleScrapePage)

	buildTestDataTool := mcp.NewTool("build_test_data",
		mcp.WithDescription("Scrape a page and convert every element into an edit test case (old value, new value, selector) for the page edit script."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to scrape"),
		),
		mcp.WithString("id",
			mcp.Description("Identifier copied onto every test case (default: 'id')"),
		),
		mcp.WithString("id_page",
			mcp.Description("Page identifier copied onto every test case (default: 'id_page')"),
		),
	)
	s.AddTool(buildTestDataTool, cl.handleBuildTestData)

	getTestDataTool := mcp.NewTool("get_test_data",
		mcp.WithDescription("Return the test data currently served to the page edit script."),
	)
	s.AddTool(getTestDataTool, cl.handleGetTestData)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// do sends a request to the seotest API and returns the response body.
func (c *client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(method, path, resp.StatusCode, data)
	}
	return data, nil
}

// statusError turns a non-2xx reply into an error, carrying the API's error
// code and message when the body has them.
func statusError(method, path string, status int, body []byte) error {
	msg := fmt.Sprintf("%s %s: HTTP %d", method, path, status)

	var envelope struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil && envelope.Error.Code != "" {
		return apiFailure(msg, envelope.Error)
	}
	if text := bytes.TrimSpace(body); len(text) > 0 && len(text) <= 200 {
		return fmt.Errorf("%s: %s", msg, text)
	}
	return fmt.Errorf("%s", msg)
}

func (c *client) scrape(ctx context.Context, url string) (*scrapeResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/v1/scrape", map[string]any{"url": url})
	if err != nil {
		return nil, err
	}

	var resp scrapeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if !resp.Success {
		return nil, apiFailure("scrape failed", resp.Error)
	}
	return &resp, nil
}

func (c *client) handleScrapePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil
	}

	resp, err := c.scrape(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("# %s\n\nURL: %s\n\n```json\n%s\n```",
		resp.Title, resp.FinalURL, indent(resp.Document))), nil
}

func (c *client) handleBuildTestData(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url is required"), nil
	}

	scraped, err := c.scrape(ctx, url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload := map[string]any{
		"id":      request.GetString("id", "id"),
		"id_page": request.GetString("id_page", "id_page"),
		"scraped": scraped.Document,
	}
	body, err := c.do(ctx, http.MethodPost, "/api/v1/test-data", payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var resp testDataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
	}
	if !resp.Success {
		return mcp.NewToolResultError(apiFailure("conversion failed", resp.Error).Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%d test cases for %s\n\n```json\n%s\n```",
		resp.Count, scraped.FinalURL, indent(resp.TestData))), nil
}

func (c *client) handleGetTestData(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body, err := c.do(ctx, http.MethodGet, "/test_data", nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("```json\n%s\n```", indent(body))), nil
}

func apiFailure(msg string, e *apiError) error {
	if e == nil {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s: %s: %s", msg, e.Code, e.Message)
}

// indent pretty-prints raw JSON, returning it unchanged if it does not parse.
func indent(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
