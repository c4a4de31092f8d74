// Package draft reads a Markdown resume draft from a file, stdin, or an http(s) URL.
package draft

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
)

// Stdin is the input name that reads the draft from standard input.
const Stdin = "-"

const (
	fetchTimeout = 30 * time.Second
	maxDraftSize = 2 << 20
)

//nolint:gochecknoglobals // compiled once
var (
	headingOpen = regexp.MustCompile(`(?i)<h[1-6][^>]*>`)
	listItem    = regexp.MustCompile(`(?i)<li[^>]*>`)
	blockClose  = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|ul|ol|section|article|tr)>|<br\s*/?>`)
)

// Fetch retrieves a draft from file or URL.
func Fetch(input string) (content string, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	content, err = FetchWithContext(ctx, input)
	return content, err
}

// FetchWithContext retrieves a draft with context.
func FetchWithContext(ctx context.Context, input string) (content string, err error) {
	if input == Stdin {
		content, err = readAll(os.Stdin)
		if err != nil {
			err = errors.Wrap(err, "failed to read draft from stdin")
			return content, err
		}
		return content, err
	}

	// Check if input is a URL
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		content, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch draft from URL: %s", input)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch draft from file: %s", input)
		return content, err
	}

	return content, err
}

// fetchFromFile reads a draft from a file.
func fetchFromFile(path string) (content string, err error) {
	var f *os.File
	f, err = os.Open(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}
	defer f.Close()

	content, err = readAll(f)
	return content, err
}

func readAll(r io.Reader) (content string, err error) {
	var data []byte
	data, err = io.ReadAll(io.LimitReader(r, maxDraftSize+1))
	if err != nil {
		err = errors.Wrap(err, "read failed")
		return content, err
	}

	if len(data) > maxDraftSize {
		err = errors.Errorf("draft exceeds %d bytes", maxDraftSize)
		return content, err
	}

	content = string(data)
	if strings.TrimSpace(content) == "" {
		err = errors.New("draft is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL retrieves a draft from a URL. HTML pages are reduced to text.
func fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	req.Header.Set("User-Agent", "resume-builder/1.0")
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, text/html;q=0.8")

	client := &http.Client{
		Timeout: fetchTimeout,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	content, err = readAll(resp.Body)
	if err != nil {
		return content, err
	}

	if isHTML(resp.Header.Get("Content-Type"), content) {
		content = htmlToText(content)
		if content == "" {
			err = errors.New("fetched content is empty after processing")
			return content, err
		}
	}

	return content, err
}

func isHTML(contentType, body string) (ok bool) {
	if strings.Contains(strings.ToLower(contentType), "html") {
		ok = true
		return ok
	}
	trimmed := strings.ToLower(strings.TrimSpace(body))
	ok = strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html")
	return ok
}

// htmlToText strips markup, keeping headings as Markdown headings and list items as bullets.
func htmlToText(page string) (text string) {
	page = headingOpen.ReplaceAllString(page, "\n## ")
	page = listItem.ReplaceAllString(page, "\n- ")
	page = blockClose.ReplaceAllString(page, "\n")

	text = html.UnescapeString(bluemonday.StrictPolicy().Sanitize(page))

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" && (len(kept) == 0 || kept[len(kept)-1] == "") {
			continue
		}
		kept = append(kept, line)
	}

	text = strings.TrimSpace(strings.Join(kept, "\n"))
	return text
}
