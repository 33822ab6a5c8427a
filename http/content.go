package http

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"

	"github.com/patternpress/patternpress"
)

// DefaultContentCharCap is the default per-document character cap for
// fetched context.
const DefaultContentCharCap = 8000

// regionSelectors locate the primary content region of a rendered
// pattern page, most specific first.
var regionSelectors = []string{
	"main .sl-markdown-content",
	"main article",
	"article",
	"main",
	"body",
}

// chromeSelector matches page chrome removed from the content region.
const chromeSelector = "nav, header, footer, aside, script, style"

// Ensure ContentClient implements patternpress.ContentFetcher at compile time.
var _ patternpress.ContentFetcher = (*ContentClient)(nil)

// ContentClient fetches a rendered pattern page, keeps only the primary
// content region, and returns it as markdown truncated to CharCap.
type ContentClient struct {
	// BaseURL is the site origin; fetched urls are resolved against it.
	BaseURL string

	// CharCap limits the returned text. Defaults to DefaultContentCharCap.
	CharCap int

	client *http.Client
	conv   *converter.Converter
}

// NewContentClient creates a new ContentClient for the given site origin.
func NewContentClient(baseURL string) *ContentClient {
	return &ContentClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		CharCap: DefaultContentCharCap,
		client:  &http.Client{Timeout: DefaultFetchTimeout},
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Fetch retrieves the page at url (a site-relative route or an absolute
// URL) and returns the primary content region as markdown.
func (c *ContentClient) Fetch(ctx context.Context, url string) (string, error) {
	if strings.HasPrefix(url, "/") {
		url = c.BaseURL + url
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", patternpress.Errorf(patternpress.EINTERNAL, "content fetch failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", patternpress.Errorf(patternpress.EINTERNAL, "content fetch failed: HTTP %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", patternpress.Errorf(patternpress.EINTERNAL, "content parse failed: %v", err)
	}

	region := primaryRegion(doc)
	region.Find(chromeSelector).Remove()

	html, err := goquery.OuterHtml(region)
	if err != nil {
		return "", patternpress.Errorf(patternpress.EINTERNAL, "content extraction failed: %v", err)
	}

	markdown, err := c.conv.ConvertString(html)
	if err != nil {
		return "", patternpress.Errorf(patternpress.EINTERNAL, "markdown conversion failed: %v", err)
	}

	cap := c.CharCap
	if cap <= 0 {
		cap = DefaultContentCharCap
	}
	return truncate(strings.TrimSpace(markdown), cap), nil
}

func primaryRegion(doc *goquery.Document) *goquery.Selection {
	for _, sel := range regionSelectors {
		if s := doc.Find(sel); s.Length() > 0 {
			return s.First()
		}
	}
	return doc.Selection
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
