package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// StripHTML extracts readable text from an HTML document. Script, style and
// other non-content elements are removed; remaining text nodes are joined
// with single spaces.
func StripHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", eris.Wrap(err, "ingest: parse html")
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		// Fragments without a body element still carry text.
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " "), nil
}
