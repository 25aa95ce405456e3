package extract

import (
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newsharvest/internal/harvester"
)

// ErrEmptyBody indicates that every body fallback produced no
// paragraphs. The record is discarded by the caller, never persisted.
var ErrEmptyBody = errors.New("no extractable paragraphs")

// Selector sets covering the markup variants observed on the
// publication. Order matters: earlier selectors are preferred.
const (
	bodyContainerSelector = ".article-body, .Article-content, [itemprop='articleBody'], .content, .article__content"
	bylineSelector        = ".author, .Article-author, .byline, [itemprop='author']"
	tagLinkSelector       = "a[rel='tag'], .tags a, .Article-tags a"
)

const snippetRunes = 200

// fieldRule is one step of a fallback chain: it either yields a value
// or an empty string, in which case the next rule is tried.
type fieldRule func(doc *goquery.Document) string

// Extractor resolves article fields from a parsed document.
type Extractor struct {
	source harvester.Source
	now    func() time.Time
}

// NewExtractor builds an Extractor for the given publication. The clock
// supplies the fallback publish time when no date can be parsed.
func NewExtractor(source harvester.Source, clock harvester.Clock) *Extractor {
	return &Extractor{
		source: source,
		now:    clock.Now,
	}
}

// Extract assembles an Article from the document. Missing fields fall
// back to their documented defaults; only an empty body is an error.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) (harvester.Article, error) {
	paragraphs := bodyParagraphs(doc)
	if len(paragraphs) == 0 {
		return harvester.Article{}, ErrEmptyBody
	}
	body := strings.Join(paragraphs, "\n\n")

	author := firstNonEmpty(doc, authorMeta, bylineText)
	if author == "" {
		author = e.source.DefaultAuthor
	}

	return harvester.Article{
		Title:   firstNonEmpty(doc, headingText, ogTitleMeta),
		URL:     pageURL,
		Date:    NormalizeDate(firstNonEmpty(doc, publishedTimeMeta, timeElement), e.source.Location, e.now),
		Author:  author,
		Source:  e.source.Name,
		Snippet: snippet(body),
		Body:    body,
		Tags:    explicitTags(doc),
	}, nil
}

func firstNonEmpty(doc *goquery.Document, rules ...fieldRule) string {
	for _, rule := range rules {
		if value := rule(doc); value != "" {
			return value
		}
	}
	return ""
}

func headingText(doc *goquery.Document) string {
	return normalizeWhitespace(doc.Find("h1").First().Text())
}

func ogTitleMeta(doc *goquery.Document) string {
	return metaContent(doc, "meta[property='og:title']")
}

func publishedTimeMeta(doc *goquery.Document) string {
	return metaContent(doc, "meta[property='article:published_time']")
}

func timeElement(doc *goquery.Document) string {
	el := doc.Find("time[datetime]").First()
	if el.Length() == 0 {
		return ""
	}
	if value := strings.TrimSpace(el.AttrOr("datetime", "")); value != "" {
		return value
	}
	return normalizeWhitespace(el.Text())
}

func authorMeta(doc *goquery.Document) string {
	return metaContent(doc, "meta[name='author']")
}

func bylineText(doc *goquery.Document) string {
	return normalizeWhitespace(doc.Find(bylineSelector).First().Text())
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}

// bodyParagraphs gathers paragraph text in document order from the
// first matching body container pattern, falling back to any paragraph
// inside an article element. Paragraphs with no visible text are
// dropped.
func bodyParagraphs(doc *goquery.Document) []string {
	var paragraphs []string
	collect := func(_ int, sel *goquery.Selection) {
		if text := normalizeWhitespace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	doc.Find(bodyContainerSelector).Each(func(_ int, container *goquery.Selection) {
		container.Find("p").Each(collect)
	})
	if len(paragraphs) == 0 {
		doc.Find("article p").Each(collect)
	}
	return paragraphs
}

// snippet returns the first 200 characters of the body, with an
// ellipsis appended only when truncation occurred. Counted in runes so
// accented text is not cut mid-character.
func snippet(body string) string {
	runes := []rune(body)
	if len(runes) <= snippetRunes {
		return body
	}
	return string(runes[:snippetRunes]) + "…"
}

// explicitTags reads tag links from the article markup, falling back to
// the comma-separated keywords meta.
func explicitTags(doc *goquery.Document) []string {
	var tags []string
	doc.Find(tagLinkSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := normalizeWhitespace(sel.Text()); text != "" {
			tags = append(tags, text)
		}
	})
	if len(tags) > 0 {
		return tags
	}
	for _, keyword := range strings.Split(metaContent(doc, "meta[name='keywords']"), ",") {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			tags = append(tags, keyword)
		}
	}
	return tags
}
