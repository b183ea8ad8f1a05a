// Package autotrader scrapes used-car listings from autotrader.ca.
//
// AutoTrader serves fully rendered result pages, so no browser session is
// needed: the total result count is read from the first page and the rest
// are paged through by offset.
package autotrader

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

const (
	baseURL        = "https://www.autotrader.ca"
	resultsPerPage = 100
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Scraper drives the AutoTrader search for one brand.
type Scraper struct {
	cfg     *config.Config
	logger  *utils.Logger
	client  *resty.Client
	visited *utils.URLSet
}

// New creates a ready-to-use AutoTrader scraper.
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

func (s *Scraper) Source() string { return models.SourceAutotrader }

// Scrape reads the total result count from the first page, then fetches and
// extracts every page in order. The location filter is accepted but not part
// of the AutoTrader URL scheme.
func (s *Scraper) Scrape(ctx context.Context, brand, location string) (*models.ScrapeResult, error) {
	brand = strings.ToLower(strings.TrimSpace(brand))
	if brand == "" {
		return nil, fmt.Errorf("autotrader: brand must not be empty")
	}

	firstPage, err := s.fetchPage(ctx, brand, 1)
	if err != nil {
		return nil, fmt.Errorf("autotrader: fetch first page: %w", err)
	}

	total := s.totalResults(firstPage)
	pages := 1
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(resultsPerPage)))
	}
	if s.cfg.MaxPages > 0 && pages > s.cfg.MaxPages {
		pages = s.cfg.MaxPages
	}
	s.logger.Info("[autotrader] Total results detected: %d (%d pages)", total, pages)

	result := &models.ScrapeResult{
		Source:     s.Source(),
		Brand:      brand,
		Location:   location,
		TotalPages: pages,
		Listings:   s.extractPage(firstPage, 1),
	}

	for page := 2; page <= pages; page++ {
		time.Sleep(time.Duration(s.cfg.RateLimitMs) * time.Millisecond)

		doc, err := s.fetchPage(ctx, brand, page)
		if err != nil {
			s.logger.Warn("[autotrader] Page %d failed, skipping: %v", page, err)
			continue
		}
		listings := s.extractPage(doc, page)
		result.Listings = append(result.Listings, listings...)
		s.logger.Info("[autotrader] Page %d/%d — %d cars, %d total",
			page, pages, len(listings), len(result.Listings))
	}

	result.Total = len(result.Listings)
	return result, nil
}

func (s *Scraper) pageURL(brand string, page int) string {
	offset := (page - 1) * resultsPerPage
	return fmt.Sprintf("%s/cars/%s/?rcp=%d&rcs=%d", baseURL, brand, resultsPerPage, offset)
}

func (s *Scraper) fetchPage(ctx context.Context, brand string, page int) (*goquery.Document, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.pageURL(brand, page))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
}

func (s *Scraper) totalResults(doc *goquery.Document) int {
	text := strings.TrimSpace(doc.Find("span.title-count").First().Text())
	if text == "" {
		return 0
	}
	total, err := strconv.Atoi(strings.ReplaceAll(text, ",", ""))
	if err != nil {
		return 0
	}
	return total
}

// extractPage pulls every result card from one page. Cards whose selectors
// do not match are skipped, not fatal.
func (s *Scraper) extractPage(doc *goquery.Document, page int) []*models.RawListing {
	var listings []*models.RawListing

	doc.Find("div.result-item").Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(".title-with-trim").First().Text())
		if title == "" {
			s.logger.Debug("[autotrader] Card without title skipped on page %d", page)
			return
		}

		link := ""
		if href, ok := card.Find("a.inner-link").First().Attr("href"); ok {
			link = href
			if !strings.HasPrefix(link, "http") {
				link = baseURL + link
			}
		}
		if link != "" && !s.visited.Add(link) {
			s.logger.Debug("[autotrader] Duplicate link skipped: %s", link)
			return
		}

		listings = append(listings, &models.RawListing{
			Title:      title,
			RawPrice:   strings.TrimSpace(card.Find(".price-amount").First().Text()),
			RawMileage: strings.TrimSpace(card.Find(".kms").First().Text()),
			Location:   strings.TrimSpace(card.Find("div.proximity span.proximity-text").First().Text()),
			Link:       link,
			Source:     s.Source(),
			ScrapedAt:  time.Now(),
		})
	})

	return listings
}
