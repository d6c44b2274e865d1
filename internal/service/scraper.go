package service

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/opencivic/councilvotes/internal/config"
)

// fullTextContainer is the element holding the expanded legislative text
// on a legislation detail page
const fullTextContainer = "#ctl00_ContentPlaceHolder1_divText"

// PageScraper extracts legislative full text from the Legistar public
// web UI. The detail pages are server-rendered, so plain GETs suffice.
// Like the API client it is fail-soft: any page that cannot be fetched
// or parsed yields an empty result.
type PageScraper struct {
	http      *resty.Client
	limiter   *rate.Limiter
	webBase   string
	errLogger *log.Logger
	errors    int
}

// NewPageScraper creates a new PageScraper
func NewPageScraper(cfg config.Web, timeoutCfg config.API) *PageScraper {
	client := resty.New()
	client.SetTimeout(timeoutCfg.Timeout())

	return &PageScraper{
		http:      client,
		limiter:   rate.NewLimiter(rate.Every(cfg.PageInterval()), 1),
		webBase:   cfg.BaseURL,
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Errors returns the number of failed page visits observed so far
func (s *PageScraper) Errors() int {
	return s.errors
}

// fetchDocument performs a rate-limited GET and parses the response body
func (s *PageScraper) fetchDocument(ctx context.Context, pageURL string) *goquery.Document {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil
	}

	res, err := s.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		s.errors++
		s.errLogger.Printf("Failed to fetch page %s: %v", pageURL, err)
		return nil
	}
	if res.StatusCode() != http.StatusOK {
		s.errors++
		s.errLogger.Printf("Failed to fetch page %s: unexpected status code %d", pageURL, res.StatusCode())
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		s.errors++
		s.errLogger.Printf("Failed to parse page %s: %v", pageURL, err)
		return nil
	}

	return doc
}

// LegislationURLs visits a meeting detail page and returns a mapping
// from matter file number (the link text) to the legislation detail URL
// it points at. Links without text are dropped.
func (s *PageScraper) LegislationURLs(ctx context.Context, meetingURL string) map[string]string {
	urls := make(map[string]string)

	doc := s.fetchDocument(ctx, meetingURL)
	if doc == nil {
		return urls
	}

	doc.Find(`a[href*="LegislationDetail"]`).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		fileNumber := strings.TrimSpace(link.Text())
		if fileNumber == "" {
			return
		}
		urls[fileNumber] = s.resolveURL(meetingURL, href)
	})

	return urls
}

// FullText visits a legislation detail page with the expanded text view
// requested and returns the text of the detail container, or "" when the
// page has none
func (s *PageScraper) FullText(ctx context.Context, legislationURL string) string {
	doc := s.fetchDocument(ctx, withFullText(legislationURL))
	if doc == nil {
		return ""
	}

	return strings.TrimSpace(doc.Find(fullTextContainer).Text())
}

// withFullText amends a legislation detail URL to request the full,
// expanded text view directly
func withFullText(legislationURL string) string {
	if strings.Contains(legislationURL, "FullText=1") {
		return legislationURL
	}

	if strings.Contains(legislationURL, "Options=") {
		legislationURL = strings.Replace(legislationURL, "Options=", "Options=ID|Text|", 1)
	} else if strings.Contains(legislationURL, "?") {
		legislationURL += "&Options=ID|Text|"
	} else {
		legislationURL += "?Options=ID|Text|"
	}

	return legislationURL + "&FullText=1"
}

// resolveURL resolves a possibly-relative href against the page it was
// found on, falling back to the configured web base URL
func (s *PageScraper) resolveURL(pageURL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}

	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		base, err = url.Parse(s.webBase)
		if err != nil {
			return href
		}
	}

	return base.ResolveReference(ref).String()
}
