package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/qaforge/qaforge/pkg/logging"
	"github.com/qaforge/qaforge/pkg/qa"
)

// Default selectors for answer containers on captured profile pages, tried
// in order. Scraped markup drifts, so the last resort is a whole-page text
// walk that yields a single blob for the splitter to segment.
var defaultBlobSelectors = []string{
	"div.q-click-wrapper",
	"div.qu-userSelect--text",
	"div.answer-content",
}

// HTMLExtractor turns a captured profile page into raw answer blobs. It does
// no segmentation itself; the blobs it produces feed the pipeline unchanged.
type HTMLExtractor struct {
	selectors []string
	now       func() time.Time
}

// NewHTMLExtractor creates an extractor. With no selectors the defaults are
// used.
func NewHTMLExtractor(selectors ...string) *HTMLExtractor {
	if len(selectors) == 0 {
		selectors = defaultBlobSelectors
	}
	return &HTMLExtractor{selectors: selectors, now: time.Now}
}

// ExtractBlobs parses the page and returns one raw answer per matched
// container, stamped with the capture time. When no selector matches, the
// whole page text comes back as a single blob.
func (e *HTMLExtractor) ExtractBlobs(r io.Reader) ([]qa.RawAnswer, error) {
	logger := logging.GetLogger("ingest")

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	capturedAt := e.now().UTC().Format(time.RFC3339)

	for _, selector := range e.selectors {
		var blobs []qa.RawAnswer
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			text := strings.TrimSpace(sel.Text())
			if text == "" {
				return
			}
			blobs = append(blobs, qa.RawAnswer{
				Question:    text,
				ExtractedAt: capturedAt,
			})
		})

		if len(blobs) > 0 {
			logger.Debug().
				Str("selector", selector).
				Int("blobs", len(blobs)).
				Msg("Extracted answer blobs")
			return blobs, nil
		}
	}

	// Selector miss: fall back to a plain text walk of the whole page.
	text, err := pageText(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("length", len(text)).
		Msg("No selector matched, using whole-page text")

	if text == "" {
		return []qa.RawAnswer{}, nil
	}

	return []qa.RawAnswer{{Question: text, ExtractedAt: capturedAt}}, nil
}

// pageText extracts visible text from an HTML document, skipping script,
// style, and chrome elements.
func pageText(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var b strings.Builder
	walkText(root, &b)

	return strings.Join(strings.Fields(b.String()), " "), nil
}

func walkText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "head", "nav", "footer", "aside":
			return
		}
	}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			b.WriteString(text)
			b.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, b)
	}
}
