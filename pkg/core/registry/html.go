package registry

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxErrorMessage = 300

// looksLikeHTML reports whether a response body is an HTML page, which the
// register's gateway returns instead of a SOAP fault on outages.
func looksLikeHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// htmlErrorMessage reduces a gateway error page to "title: body text".
func htmlErrorMessage(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return truncate(string(body))
	}
	doc.Find("script, style").Remove()

	title := collapse(doc.Find("title").First().Text())
	text := collapse(doc.Find("body").Text())
	switch {
	case title == "":
		return truncate(text)
	case text == "" || strings.HasPrefix(text, title):
		return truncate(firstNonEmpty(text, title))
	default:
		return truncate(title + ": " + text)
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string) string {
	s = collapse(s)
	if len(s) <= maxErrorMessage {
		return s
	}
	return s[:maxErrorMessage] + "..."
}
