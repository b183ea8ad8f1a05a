package kijiji

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/config"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

const samplePage = `
<html><body><ul>
  <li data-testid="listing-card-list-item-0">
    <a data-testid="listing-link" href="/v-cars-trucks/saskatoon/2014-mini-cooper-s/1">2014 MINI Cooper S</a>
    <p data-testid="autos-listing-price">$12,999</p>
    <p>120,000 km</p>
    <p>Automatic</p>
    <p>Gas</p>
  </li>
  <li data-testid="listing-card-list-item-1">
    <a data-testid="listing-link" href="https://www.kijiji.ca/v-cars-trucks/regina/2016-mini-countryman/2">2016 MINI Countryman</a>
    <p data-testid="autos-listing-price">$18,500</p>
    <p>89 000 km</p>
    <p>Manual</p>
  </li>
  <li data-testid="listing-card-list-item-2">
    <div>card with no listing link</div>
    <p data-testid="autos-listing-price">$9,999</p>
  </li>
</ul></body></html>`

func newTestScraper() *Scraper {
	return New(&config.Config{HTTPTimeoutMs: 1000}, utils.NewLogger())
}

func TestExtractPage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("parse sample page: %v", err)
	}

	listings := newTestScraper().extractPage(doc, 1)
	if len(listings) != 2 {
		t.Fatalf("got %d listings; want 2 (card without link skipped)", len(listings))
	}

	first := listings[0]
	if first.Title != "2014 MINI Cooper S" {
		t.Errorf("title = %q", first.Title)
	}
	if first.RawPrice != "$12,999" {
		t.Errorf("price = %q", first.RawPrice)
	}
	if first.RawMileage != "120,000 km" {
		t.Errorf("mileage = %q", first.RawMileage)
	}
	if first.Transmission != "automatic" {
		t.Errorf("transmission = %q", first.Transmission)
	}
	if first.Fuel != "gas" {
		t.Errorf("fuel = %q", first.Fuel)
	}
	if !strings.HasPrefix(first.Link, "https://www.kijiji.ca/") {
		t.Errorf("relative link not made absolute: %q", first.Link)
	}

	second := listings[1]
	if second.Transmission != "manual" {
		t.Errorf("second transmission = %q", second.Transmission)
	}
	if second.Link != "https://www.kijiji.ca/v-cars-trucks/regina/2016-mini-countryman/2" {
		t.Errorf("absolute link mangled: %q", second.Link)
	}
}

func TestExtractPageSkipsDuplicateLinks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("parse sample page: %v", err)
	}

	s := newTestScraper()
	first := s.extractPage(doc, 1)
	again := s.extractPage(doc, 2)
	if len(first) != 2 || len(again) != 0 {
		t.Errorf("got %d then %d listings; want 2 then 0 across repeated pages", len(first), len(again))
	}
}

func TestSearchURL(t *testing.T) {
	s := newTestScraper()

	if got := s.searchURL("mini", "canada", 0); !strings.Contains(got, "/b-cars-trucks/canada/mini/c174l0a54") {
		t.Errorf("first page URL = %q", got)
	}
	if got := s.searchURL("mini", "canada", 3); !strings.Contains(got, "/page-3/") {
		t.Errorf("page 3 URL = %q", got)
	}
}
