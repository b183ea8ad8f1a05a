// Package kijiji scrapes used-car listings from kijiji.ca.
//
// Pagination depth is only visible on the rendered page, so a headless
// browser session detects the last page number first; the pages themselves
// are then fetched sequentially over plain HTTP and parsed from the static
// HTML.
package kijiji

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/scraper"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

const (
	baseURL   = "https://www.kijiji.ca"
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var lastPageRegexp = regexp.MustCompile(`/page-(\d+)/`)

// Scraper drives the Kijiji cars-and-trucks search for one brand.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	client  *resty.Client
	visited *utils.URLSet
}

// New creates a ready-to-use Kijiji scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTPTimeoutMs) * time.Millisecond).
		SetHeader("User-Agent", userAgent)

	return &Scraper{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		visited: utils.NewURLSet(),
	}
}

func (s *Scraper) Source() string { return models.SourceKijiji }

// Scrape detects the last result page with a browser session, then fetches
// and extracts every page in order. Listings whose selectors do not match
// are skipped; the run only fails when the browser cannot be started.
func (s *Scraper) Scrape(ctx context.Context, brand, location string) (*models.ScrapeResult, error) {
	brand = strings.ToLower(strings.TrimSpace(brand))
	if brand == "" {
		return nil, fmt.Errorf("kijiji: brand must not be empty")
	}
	if location == "" {
		location = "canada"
	}

	lastPage, err := s.detectLastPage(ctx, brand, location)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxPages > 0 && lastPage > s.cfg.MaxPages {
		lastPage = s.cfg.MaxPages
	}
	s.logger.Info("[kijiji] Last page detected: %d", lastPage)

	result := &models.ScrapeResult{
		Source:     s.Source(),
		Brand:      brand,
		Location:   location,
		TotalPages: lastPage,
		Listings:   make([]*models.RawListing, 0),
	}

	for page := 1; page <= lastPage; page++ {
		listings, err := s.scrapePage(ctx, brand, location, page)
		if err != nil {
			s.logger.Warn("[kijiji] Page %d failed, skipping: %v", page, err)
			continue
		}
		result.Listings = append(result.Listings, listings...)
		s.logger.Info("[kijiji] Page %d/%d — %d cars, %d total",
			page, lastPage, len(listings), len(result.Listings))

		if page < lastPage {
			time.Sleep(time.Duration(s.cfg.RateLimitMs) * time.Millisecond)
		}
	}

	result.Total = len(result.Listings)
	return result, nil
}

// detectLastPage renders the first search page in a scoped browser session
// and reads the highest pagination link. The session is released on every
// path. Any failure past browser startup degrades to a single page.
func (s *Scraper) detectLastPage(ctx context.Context, brand, location string) (int, error) {
	browser, err := scraper.StartBrowser(ctx, s.cfg.ChromeBin)
	if err != nil {
		return 0, fmt.Errorf("kijiji: start browser: %w", err)
	}
	defer browser.Close()

	var lastHref string
	err = browser.Run(
		chromedp.Navigate(s.searchURL(brand, location, 0)),
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(`
			(function() {
				var links = document.querySelectorAll(
					'li[data-testid="pagination-list-item"] a[data-testid="pagination-link-item"]');
				if (!links.length) return '';
				return links[links.length - 1].href || '';
			})()
		`, &lastHref),
	)
	if err != nil {
		s.logger.Warn("[kijiji] Pagination detection failed, defaulting to 1 page: %v", err)
		return 1, nil
	}

	m := lastPageRegexp.FindStringSubmatch(lastHref)
	if len(m) < 2 {
		return 1, nil
	}
	lastPage, err := strconv.Atoi(m[1])
	if err != nil || lastPage < 1 {
		return 1, nil
	}
	return lastPage, nil
}

func (s *Scraper) searchURL(brand, location string, page int) string {
	if page > 1 {
		return fmt.Sprintf("%s/b-cars-trucks/%s/%s/page-%d/c174l0a54?view=list",
			baseURL, location, brand, page)
	}
	return fmt.Sprintf("%s/b-cars-trucks/%s/%s/c174l0a54?view=list", baseURL, location, brand)
}

// scrapePage fetches one result page over HTTP and extracts its listing cards.
func (s *Scraper) scrapePage(ctx context.Context, brand, location string, page int) ([]*models.RawListing, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.searchURL(brand, location, page))
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch page %d: status %d", page, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse page %d: %w", page, err)
	}

	return s.extractPage(doc, page), nil
}

// extractPage pulls every listing card out of one parsed result page.
func (s *Scraper) extractPage(doc *goquery.Document, page int) []*models.RawListing {
	var listings []*models.RawListing
	doc.Find(`li[data-testid^="listing-card-list-item"]`).Each(func(_ int, card *goquery.Selection) {
		listing, ok := s.extractCard(card)
		if !ok {
			s.logger.Debug("[kijiji] Card with unmatched selectors skipped on page %d", page)
			return
		}
		if listing.Link != "" && !s.visited.Add(listing.Link) {
			s.logger.Debug("[kijiji] Duplicate link skipped: %s", listing.Link)
			return
		}
		listings = append(listings, listing)
	})

	return listings
}

// extractCard pulls the raw fields out of one listing card. A card without a
// title link is unusable and reported as not ok.
func (s *Scraper) extractCard(card *goquery.Selection) (*models.RawListing, bool) {
	titleTag := card.Find(`a[data-testid="listing-link"]`).First()
	if titleTag.Length() == 0 {
		return nil, false
	}

	link, _ := titleTag.Attr("href")
	if link != "" && !strings.HasPrefix(link, "http") {
		link = baseURL + link
	}

	listing := &models.RawListing{
		Title:     strings.TrimSpace(titleTag.Text()),
		RawPrice:  strings.TrimSpace(card.Find(`p[data-testid="autos-listing-price"]`).First().Text()),
		Link:      link,
		Source:    s.Source(),
		ScrapedAt: time.Now(),
	}

	// Detail rows carry mileage, transmission and fuel in unlabeled <p>
	// elements; classify each by content.
	card.Find("p").Each(func(_ int, d *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(d.Text()))
		switch {
		case strings.Contains(text, "km") && listing.RawMileage == "":
			listing.RawMileage = text
		case (strings.Contains(text, "automatic") || strings.Contains(text, "manual")) &&
			listing.Transmission == "":
			listing.Transmission = text
		case containsAny(text, "gas", "diesel", "electric", "hybrid") && listing.Fuel == "":
			listing.Fuel = text
		}
	})

	return listing, true
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
