package extract

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsharvest/internal/harvester"
)

// DiscoverArticleURLs collects candidate article links from the
// publication homepage document. Relative references are resolved
// against the homepage URL; only absolute http(s) URLs on the
// publication's domain whose path contains the article marker are
// kept. Fragments are stripped and the result is sorted and
// duplicate-free. This is deliberately not a crawler: nothing beyond
// the homepage is ever followed.
func DiscoverArticleURLs(doc *goquery.Document, source harvester.Source) ([]string, error) {
	base, err := url.Parse(source.Homepage)
	if err != nil {
		return nil, fmt.Errorf("parse homepage url: %w", err)
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if !hostOnDomain(resolved.Hostname(), source.Domain) {
			return
		}
		if !strings.Contains(resolved.Path, source.ArticlePathMarker) {
			return
		}
		resolved.Fragment = ""
		seen[resolved.String()] = struct{}{}
	})

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, nil
}

// hostOnDomain reports whether host is the publication domain itself or
// one of its subdomains.
func hostOnDomain(host, domain string) bool {
	if domain == "" {
		return false
	}
	host = strings.ToLower(host)
	domain = strings.ToLower(domain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
