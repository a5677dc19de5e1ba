// Package fetch pulls the next day's schedule document from the college
// site. The published page links each day's DOCX through an anchor whose
// visible text is just the day number; this package finds tomorrow's link,
// downloads the file and hands it to the ingestion service.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/weifxx/timetable/internal/ingest"
)

// DocumentIngester ingests a downloaded document from disk.
type DocumentIngester interface {
	IngestFile(ctx context.Context, path, originalName string) (*ingest.Report, error)
}

// Client downloads schedule documents from the configured page.
type Client struct {
	pageURL  string
	http     *http.Client
	ingester DocumentIngester
}

// NewClient creates a fetch client. timeout bounds each HTTP request.
func NewClient(pageURL string, timeout time.Duration, ingester DocumentIngester) *Client {
	return &Client{
		pageURL:  pageURL,
		http:     &http.Client{Timeout: timeout},
		ingester: ingester,
	}
}

// FetchTomorrow downloads and ingests the document linked under tomorrow's
// day number. Returns an error when the page is unreachable or the link is
// absent; absence typically just means the schedule is not published yet.
func (c *Client) FetchTomorrow(ctx context.Context) (*ingest.Report, error) {
	day := strconv.Itoa(time.Now().AddDate(0, 0, 1).Day())
	return c.FetchDay(ctx, day)
}

// FetchDay downloads and ingests the document whose link text equals day.
func (c *Client) FetchDay(ctx context.Context, day string) (*ingest.Report, error) {
	href, err := c.findLink(ctx, day)
	if err != nil {
		return nil, err
	}

	fileURL, err := resolveURL(c.pageURL, href)
	if err != nil {
		return nil, fmt.Errorf("resolve link %q: %w", href, err)
	}

	path, name, err := c.download(ctx, fileURL)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	return c.ingester.IngestFile(ctx, path, name)
}

// findLink fetches the schedule page and returns the href of the anchor
// whose visible text equals day.
func (c *Client) findLink(ctx context.Context, day string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch schedule page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch schedule page: unexpected status %d", resp.StatusCode)
	}

	href, ok := FindLinkByText(resp.Body, day)
	if !ok {
		return "", fmt.Errorf("no link with text %q on schedule page", day)
	}
	return href, nil
}

// download saves the document at fileURL to a temporary file and returns
// its path along with the URL's base name.
func (c *Client) download(ctx context.Context, fileURL string) (path, name string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("download %s: %w", fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("download %s: unexpected status %d", fileURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "timetable-fetch-*.docx")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("save download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", fmt.Errorf("close download: %w", err)
	}

	return tmp.Name(), baseName(fileURL), nil
}

// FindLinkByText parses an HTML page and returns the href of the first
// anchor whose concatenated text content, trimmed, equals text.
func FindLinkByText(r io.Reader, text string) (string, bool) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", false
	}

	var walk func(*html.Node) (string, bool)
	walk = func(n *html.Node) (string, bool) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if strings.TrimSpace(nodeText(n)) == text {
				if href, ok := attr(n, "href"); ok && href != "" {
					return href, true
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if href, ok := walk(child); ok {
				return href, true
			}
		}
		return "", false
	}

	return walk(doc)
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// resolveURL joins a possibly-relative href against the page URL.
func resolveURL(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func baseName(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return fileURL
	}
	parts := strings.Split(strings.TrimSuffix(u.Path, "/"), "/")
	return parts[len(parts)-1]
}
