// Package classify derives additional article tags from pattern rules
// applied to the URL, title, and the opening of the body text.
package classify

import (
	"regexp"
	"strings"
)

// haystackRunes bounds how much body text the rules scan. Tags of
// interest show up in the opening paragraphs; scanning whole articles
// buys nothing.
const haystackRunes = 2000

// Rule maps a pattern to a tag. A Rule with an empty Tag is a capture
// rule: every match contributes its first capture group (or the whole
// match), lower-cased, as its own tag.
type Rule struct {
	Pattern *regexp.Regexp
	Tag     string
}

// Classifier applies an ordered rule list to article text.
type Classifier struct {
	rules []Rule
}

// New builds a Classifier from the given rules.
func New(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// DefaultRules returns the publication's built-in rule set: Czech
// politics and economy keyword rules plus an email-address capture
// rule for embedded contact addresses.
//
// The keyword rules spell out their word boundaries as Unicode letter
// classes because regexp's \b is ASCII-only and never fires next to
// accented edge characters (čnb, úrokové).
func DefaultRules() []Rule {
	return []Rule{
		{
			Pattern: regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(politika|premiér|prezident|vláda|poslanecká sněmovna|senát|ministr|koalice|opozice|evropská\s+(?:unie|komise)|nato)(?:[^\p{L}\p{N}_]|$)`),
			Tag:     "Politika",
		},
		{
			Pattern: regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(ekonomika|inflace|hdp|nezaměstnanost|rozpočet|deficit|mzdy|obchod|export|dovoz|investice|kurz|koruna|čnb|úrokové\s+sazby|trh)(?:[^\p{L}\p{N}_]|$)`),
			Tag:     "Ekonomika",
		},
		{
			Pattern: regexp.MustCompile(`\b([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`),
		},
	}
}

// Classify runs every rule over a haystack built from the URL, title,
// and the first part of the body, and returns the tags contributed by
// each match. Multiple matches of one rule each contribute.
func (c *Classifier) Classify(url, title, body string) []string {
	haystack := strings.Join([]string{url, title, truncateRunes(body, haystackRunes)}, "\n")

	var tags []string
	for _, rule := range c.rules {
		for _, match := range rule.Pattern.FindAllStringSubmatch(haystack, -1) {
			if rule.Tag != "" {
				tags = append(tags, rule.Tag)
				continue
			}
			captured := match[0]
			if len(match) > 1 && match[1] != "" {
				captured = match[1]
			}
			if captured != "" {
				tags = append(tags, strings.ToLower(captured))
			}
		}
	}
	return tags
}

// Dedupe removes case-insensitive duplicates, keeping the first-seen
// casing and order.
func Dedupe(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	deduped := make([]string, 0, len(tags))
	for _, tag := range tags {
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, tag)
	}
	return deduped
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
