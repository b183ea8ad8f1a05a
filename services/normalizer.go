package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/catalog"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/models"
	"github.com/GiaHuyTang/IWantToBuyACarWithGoodPrice/utils"
)

var (
	// digitsRegexp strips everything except digits from price/mileage strings
	digitsRegexp = regexp.MustCompile(`[^\d]`)
	// yearRegexp captures a 4-digit year at the start of a listing title
	yearRegexp = regexp.MustCompile(`^(\d{4})\b`)
)

// Normalizer maps site-specific RawListings into canonical records.
// A listing missing any critical field is dropped, never nulled.
type Normalizer struct {
	logger  *utils.Logger
	catalog *catalog.Catalog
}

// NewNormalizer creates a Normalizer with the given logger and model catalog.
func NewNormalizer(logger *utils.Logger, cat *catalog.Catalog) *Normalizer {
	return &Normalizer{logger: logger, catalog: cat}
}

// NormalizeAll processes raw listings for a brand and returns canonical records.
func (n *Normalizer) NormalizeAll(brand string, raw []*models.RawListing) []*models.CanonicalListing {
	result := make([]*models.CanonicalListing, 0, len(raw))

	for _, r := range raw {
		listing, ok := n.Normalize(brand, r)
		if !ok {
			n.logger.Debug("[normalizer] Dropped listing: %q", r.Title)
			continue
		}
		result = append(result, listing)
	}

	n.logger.Info("[normalizer] Normalized %d → %d listings (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

// Normalize converts one raw listing. The second return value is false when
// a critical field (model, year, mileage, price) could not be parsed.
func (n *Normalizer) Normalize(brand string, r *models.RawListing) (*models.CanonicalListing, bool) {
	brand = strings.ToLower(strings.TrimSpace(brand))
	if brand == "" {
		return nil, false
	}

	price, ok := parsePrice(r.RawPrice)
	if !ok {
		return nil, false
	}

	mileage, ok := parseMileage(r.RawMileage)
	if !ok {
		return nil, false
	}

	year, ok := parseYear(r.Title)
	if !ok {
		return nil, false
	}

	model := n.catalog.MatchModel(brand, r.Title)
	if model == "" {
		return nil, false
	}

	return &models.CanonicalListing{
		Brand:        brand,
		Model:        model,
		Year:         year,
		MileageKM:    mileage,
		Transmission: NormalizeTransmission(r.Transmission),
		Price:        price,
		Fuel:         normalizeText(r.Fuel),
		Location:     normalizeText(r.Location),
		Link:         strings.TrimSpace(r.Link),
		Source:       strings.ToLower(strings.TrimSpace(r.Source)),
	}, true
}

// parsePrice extracts a non-negative price from strings like "$12,999".
func parsePrice(raw string) (float64, bool) {
	digits := digitsRegexp.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(digits, 64)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// parseMileage extracts a non-negative kilometre count from strings like
// "120,000 km".
func parseMileage(raw string) (int, bool) {
	digits := digitsRegexp.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, false
	}
	val, err := strconv.Atoi(digits)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// parseYear pulls a leading 4-digit year out of the listing title and checks
// it against the plausible range 1980..current year+1.
func parseYear(title string) (int, bool) {
	m := yearRegexp.FindStringSubmatch(strings.TrimSpace(title))
	if len(m) < 2 {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if year < 1980 || year > time.Now().Year()+1 {
		return 0, false
	}
	return year, true
}

// NormalizeTransmission maps a raw transmission string onto the canonical
// set. Unrecognized values become TransmissionUnknown; already-canonical
// values pass through unchanged.
func NormalizeTransmission(raw string) models.Transmission {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch s {
	case "automatic", "auto":
		return models.TransmissionAutomatic
	case "manual", "standard", "stick":
		return models.TransmissionManual
	case "unknown", "":
		return models.TransmissionUnknown
	}

	// Site detail rows often bury the keyword in longer text
	// ("6-speed automatic", "manual | cuir").
	switch {
	case strings.Contains(s, "automatic") || strings.Contains(s, "auto"):
		return models.TransmissionAutomatic
	case strings.Contains(s, "manual") || strings.Contains(s, "standard"):
		return models.TransmissionManual
	}
	return models.TransmissionUnknown
}

// normalizeText strips leading/trailing whitespace and collapses internal
// whitespace.
func normalizeText(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
