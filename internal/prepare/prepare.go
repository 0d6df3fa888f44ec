// Package prepare converts a raw marketplace product-review export into
// the five processed source files the analysis engine consumes. The
// competitor and performance files are derived from the catalog and
// reviews so every source slot has analysis-compatible data.
package prepare

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options controls one preparation run.
type Options struct {
	RawPath string
	OutDir  string
	Limit   int
}

// Summary reports what a preparation run produced.
type Summary struct {
	RawSource          string   `json:"raw_source"`
	RowsRead           int      `json:"rows_read"`
	CatalogRecords     int      `json:"catalog_records"`
	ReviewRecords      int      `json:"review_records"`
	PricingRecords     int      `json:"pricing_records"`
	CompetitorRecords  int      `json:"competitor_records"`
	PerformanceRecords int      `json:"performance_records"`
	Notes              []string `json:"notes"`
}

type CatalogItem struct {
	SKU      string   `json:"sku"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
	Features []string `json:"features"`
}

type ReviewItem struct {
	SKU    string  `json:"sku"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
}

type PricingItem struct {
	SKU             string  `json:"sku"`
	OurPrice        float64 `json:"our_price"`
	Competitor      string  `json:"competitor"`
	CompetitorPrice float64 `json:"competitor_price"`
	Tier            string  `json:"tier"`
	DiscountPct     float64 `json:"discount_pct"`
}

type CompetitorItem struct {
	Competitor string   `json:"competitor"`
	SKU        string   `json:"sku"`
	Tier       string   `json:"tier"`
	Features   []string `json:"features"`
}

type PerformanceItem struct {
	SKU           string `json:"sku"`
	Views         int    `json:"views"`
	Conversions   int    `json:"conversions"`
	Returns       int    `json:"returns"`
	EstimatedFrom string `json:"estimated_from"`
}

const premiumPriceThreshold = 3000

// Run reads the raw export, derives the five processed datasets, and
// writes them plus a summary.json under opts.OutDir.
func Run(opts Options) (*Summary, error) {
	if opts.Limit <= 0 {
		opts.Limit = 5000
	}

	rows, err := readRawRows(opts.RawPath, opts.Limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.New("prepare: no rows found in raw export")
	}

	catalog := buildCatalog(rows)
	reviews := buildReviews(rows)
	pricing := buildPricing(rows)
	competitors := buildCompetitors(catalog)
	performance := buildPerformance(catalog, reviews)

	outputs := map[string]any{
		"catalog.json":             catalog,
		"reviews.json":             reviews,
		"pricing.json":             pricing,
		"competitors.json":         competitors,
		"performance_signals.json": performance,
	}
	for name, data := range outputs {
		if err := writeJSON(filepath.Join(opts.OutDir, name), data); err != nil {
			return nil, err
		}
	}

	summary := &Summary{
		RawSource:          opts.RawPath,
		RowsRead:           len(rows),
		CatalogRecords:     len(catalog),
		ReviewRecords:      len(reviews),
		PricingRecords:     len(pricing),
		CompetitorRecords:  len(competitors),
		PerformanceRecords: len(performance),
		Notes: []string{
			"competitors and performance_signals are derived for analysis compatibility.",
			"replace derived files with true marketplace feeds for production-grade accuracy.",
		},
	}
	if err := writeJSON(filepath.Join(opts.OutDir, "summary.json"), summary); err != nil {
		return nil, err
	}

	zap.L().Info("datasets prepared",
		zap.String("out_dir", opts.OutDir),
		zap.Int("rows_read", summary.RowsRead),
		zap.Int("catalog_records", summary.CatalogRecords),
	)
	return summary, nil
}

func buildCatalog(rows []rawRow) []CatalogItem {
	var catalog []CatalogItem
	seen := make(map[string]bool)

	for _, row := range rows {
		sku := strings.TrimSpace(row["product_id"])
		if sku == "" || seen[sku] {
			continue
		}

		price, ok := parsePriceINR(row["discounted_price"])
		if !ok {
			price, ok = parsePriceINR(row["actual_price"])
		}
		if !ok {
			continue
		}

		ratingCount, ok := parseRatingCount(row["rating_count"])
		if !ok {
			ratingCount = 100
		}
		stock := ratingCount / 2
		if stock < 25 {
			stock = 25
		}
		if stock > 450 {
			stock = 450
		}

		catalog = append(catalog, CatalogItem{
			SKU:      sku,
			Category: normalizeCategory(row["category"]),
			Price:    round2(price),
			Stock:    stock,
			Features: splitFeatures(row["about_product"]),
		})
		seen[sku] = true
	}
	return catalog
}

func buildReviews(rows []rawRow) []ReviewItem {
	var reviews []ReviewItem

	for _, row := range rows {
		sku := strings.TrimSpace(row["product_id"])
		if sku == "" {
			continue
		}

		rating, ok := parseFloat(strings.TrimSpace(row["rating"]))
		if !ok {
			continue
		}

		title := strings.TrimSpace(row["review_title"])
		content := strings.TrimSpace(row["review_content"])
		text := strings.TrimSpace(title + ". " + content)
		if text == "." || text == "" {
			continue
		}
		text = truncate(text, 1200)

		reviews = append(reviews, ReviewItem{
			SKU:    sku,
			Rating: round1(rating),
			Text:   text,
		})
	}
	return reviews
}

func buildPricing(rows []rawRow) []PricingItem {
	var pricing []PricingItem

	for _, row := range rows {
		sku := strings.TrimSpace(row["product_id"])
		if sku == "" {
			continue
		}

		ourPrice, okOur := parsePriceINR(row["discounted_price"])
		competitorPrice, okComp := parsePriceINR(row["actual_price"])
		if !okOur || !okComp || competitorPrice <= 0 {
			continue
		}

		discountPct := ((competitorPrice - ourPrice) / competitorPrice) * 100
		pricing = append(pricing, PricingItem{
			SKU:             sku,
			OurPrice:        round2(ourPrice),
			Competitor:      "Market Benchmark",
			CompetitorPrice: round2(competitorPrice),
			Tier:            tierFor(competitorPrice),
			DiscountPct:     round2(discountPct),
		})
	}
	return pricing
}

func buildCompetitors(catalog []CatalogItem) []CompetitorItem {
	grouped := make(map[string][]CatalogItem)
	var order []string
	for _, item := range catalog {
		if _, ok := grouped[item.Category]; !ok {
			order = append(order, item.Category)
		}
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	var competitors []CompetitorItem
	for _, category := range order {
		items := grouped[category]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Price > items[j].Price
		})
		if len(items) > 50 {
			items = items[:50]
		}

		label := truncate(category, 18)
		for idx, item := range items {
			skuPrefix := truncate(item.SKU, 8)
			features := item.Features
			if len(features) > 4 {
				features = features[:4]
			}
			competitors = append(competitors, CompetitorItem{
				Competitor: "Competitor " + label + " " + itoa(idx+1),
				SKU:        "CMP-" + skuPrefix + "-" + itoa(idx+1),
				Tier:       tierFor(item.Price),
				Features:   features,
			})
		}
	}
	return competitors
}

func buildPerformance(catalog []CatalogItem, reviews []ReviewItem) []PerformanceItem {
	rng := rand.New(rand.NewSource(42))

	ratingsBySKU := make(map[string][]float64)
	for _, review := range reviews {
		ratingsBySKU[review.SKU] = append(ratingsBySKU[review.SKU], review.Rating)
	}

	var perf []PerformanceItem
	for _, item := range catalog {
		avgRating := 3.8
		if ratings := ratingsBySKU[item.SKU]; len(ratings) > 0 {
			var sum float64
			for _, r := range ratings {
				sum += r
			}
			avgRating = sum / float64(len(ratings))
		}

		views := item.Stock * (rng.Intn(28) + 18)
		if views < 250 {
			views = 250
		}
		conversionPct := 1.2 + (avgRating-3.5)*0.8
		if conversionPct > 6.5 {
			conversionPct = 6.5
		}
		if conversionPct < 0.7 {
			conversionPct = 0.7
		}
		conversions := int(float64(views) * conversionPct / 100)
		if conversions < 8 {
			conversions = 8
		}
		returnRatePct := 16.0 - avgRating*2.4
		if returnRatePct < 2.0 {
			returnRatePct = 2.0
		}
		returns := int(float64(conversions) * returnRatePct / 100)
		if returns < 1 {
			returns = 1
		}

		perf = append(perf, PerformanceItem{
			SKU:           item.SKU,
			Views:         views,
			Conversions:   conversions,
			Returns:       returns,
			EstimatedFrom: "catalog+reviews",
		})
	}
	return perf
}

func tierFor(price float64) string {
	if price >= premiumPriceThreshold {
		return "premium"
	}
	return "mass"
}

func writeJSON(path string, data any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "prepare: create output dir for %s", path)
	}
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "prepare: encode %s", path)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return eris.Wrapf(err, "prepare: write %s", path)
	}
	return nil
}
