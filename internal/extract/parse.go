// Package extract turns fetched HTML into structured articles. Every
// field is resolved through an ordered fallback chain so that
// inconsistent or partial markup degrades to a documented default
// instead of failing the whole record.
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Parse builds a queryable document from raw HTML bytes. The underlying
// parser tolerates malformed markup, so an error here means the input
// could not be read at all, not that the HTML was merely messy.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// normalizeWhitespace collapses whitespace runs to single spaces and
// trims the ends.
func normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
