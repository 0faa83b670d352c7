package discovery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/replidata/article"
	"github.com/pevans/replidata/scraper"
)

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ExtractListing extracts one record per card on the index page. Title,
// journal and detail URL are read from the same card element so the record
// and its URL can never fall out of step. Missing elements yield empty
// values.
func ExtractListing(doc *goquery.Document, config scraper.ListingConfig) []article.Record {
	records := []article.Record{}

	doc.Find(config.CardSelector).Each(func(i int, card *goquery.Selection) {
		title := firstText(card, config.TitleSelector)
		journal := firstText(card, config.JournalSelector)

		var detailURL string
		if config.LinkSelector != "" {
			if href, ok := card.Find(config.LinkSelector).First().Attr("href"); ok {
				detailURL = resolveHref(doc, href)
			}
		}

		records = append(records, article.NewRecord(title, journal, detailURL))
	})

	return records
}

// CollectLinks returns every anchor href inside the articles container in
// document order.
func CollectLinks(doc *goquery.Document, config scraper.ListingConfig) []string {
	return hrefs(doc, config.ContainerSelector+" a")
}

// ExtractDetailLinks returns the outbound links from a detail page with the
// detail URL itself first.
func ExtractDetailLinks(doc *goquery.Document, config scraper.DetailConfig, detailURL string) []string {
	links := []string{detailURL}
	if config.LinkSelector == "" {
		return links
	}
	return append(links, hrefs(doc, config.LinkSelector)...)
}

// ExtractCreationYear reads the creation date element of a metadata page and
// returns its year, or an empty string.
func ExtractCreationYear(doc *goquery.Document, config scraper.MetadataConfig) string {
	return ExtractYear(firstText(doc.Selection, config.DateSelector))
}

// ExtractYear returns the first standalone 19xx or 20xx year in text, or an
// empty string if there is none.
func ExtractYear(text string) string {
	return yearPattern.FindString(text)
}

// firstText returns the trimmed text of the first match of selector under s.
func firstText(s *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(s.Find(selector).First().Text())
}

// hrefs returns the resolved href of every element matching selector.
// Elements without an href are skipped.
func hrefs(doc *goquery.Document, selector string) []string {
	links := []string{}
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, resolveHref(doc, href))
		}
	})
	return links
}

// resolveHref resolves href against the document URL the way a browser
// reports anchor.href. Unparseable hrefs are returned trimmed but otherwise
// unchanged.
func resolveHref(doc *goquery.Document, href string) string {
	href = strings.TrimSpace(href)

	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if doc.Url == nil {
		return ref.String()
	}
	return doc.Url.ResolveReference(ref).String()
}
