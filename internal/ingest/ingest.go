// Package ingest turns a job posting URL into plain job-description text
// ready for the matching features. It fetches the page over HTTP, strips
// boilerplate with CSS selectors, and falls back to a headless browser
// when the page renders its content with JavaScript.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout bounds the plain HTTP fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies the fetcher to job boards.
	DefaultUserAgent = "Mozilla/5.0 (compatible; CVMatcher/1.0)"

	// minPostingLength is the shortest extracted text accepted from a
	// plain HTTP fetch. Anything shorter is treated as an unrendered
	// single-page app and retried through the browser.
	minPostingLength = 500
)

// Posting is the extracted content of a job posting page.
type Posting struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Text     string `json:"text"`
	Rendered bool   `json:"rendered"`
}

// FetchError reports a failure to retrieve or parse a posting URL.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingest error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingest error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Service fetches and extracts job postings.
type Service struct {
	client         *http.Client
	userAgent      string
	browserEnabled bool
	browserTimeout time.Duration
}

// Options configures a Service.
type Options struct {
	Timeout        time.Duration
	UserAgent      string
	EnableBrowser  bool
	BrowserTimeout time.Duration
}

// NewService creates an ingestion service. Zero-value options fall back
// to defaults; the browser fallback is off unless enabled.
func NewService(opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.BrowserTimeout <= 0 {
		opts.BrowserTimeout = DefaultTimeout
	}
	return &Service{
		client:         &http.Client{Timeout: opts.Timeout},
		userAgent:      opts.UserAgent,
		browserEnabled: opts.EnableBrowser,
		browserTimeout: opts.BrowserTimeout,
	}
}

// JobDescription fetches the page at urlStr and extracts its job
// description text. When the plain fetch yields too little text, the
// caller asked for the browser fallback, and the service has it
// enabled, the page is re-rendered headlessly.
func (s *Service) JobDescription(ctx context.Context, urlStr string, useBrowser bool) (*Posting, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &FetchError{URL: urlStr, Message: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)}
	}

	html, err := s.fetchHTML(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	title, text, err := extractPosting(html)
	if err != nil {
		return nil, &FetchError{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	posting := &Posting{URL: urlStr, Title: title, Text: text}
	if len(strings.TrimSpace(text)) >= minPostingLength || !useBrowser || !s.browserEnabled {
		return posting, nil
	}

	// Too little static content: likely a JavaScript-rendered page.
	rendered, err := renderWithBrowser(ctx, urlStr, s.browserTimeout)
	if err != nil {
		// Keep whatever the static fetch produced.
		return posting, nil
	}
	if renderedTitle, renderedText, err := extractPosting(rendered); err == nil && len(renderedText) > len(text) {
		posting.Title = renderedTitle
		posting.Text = renderedText
		posting.Rendered = true
	}
	return posting, nil
}

func (s *Service) fetchHTML(ctx context.Context, urlStr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

// postingSelectors are tried in order; the first match becomes the
// posting body. Job-board specific selectors come before generic ones.
var postingSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	".content",
	"#content",
}

// extractPosting pulls the page title and the job description text out
// of raw HTML. Falls back to the whole body when no selector matches.
func extractPosting(html string) (title, text string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", "", err
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	var content *goquery.Selection
	for _, selector := range postingSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	return title, collapseWhitespace(content.Text()), nil
}

// collapseWhitespace trims every line and drops blank ones.
func collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
