package prepare

import (
	"math"
	"strconv"
	"strings"
)

// parsePriceINR reads a rupee-formatted price like "₹1,099.00".
func parsePriceINR(value string) (float64, bool) {
	text := strings.TrimSpace(value)
	text = strings.ReplaceAll(text, "₹", "")
	text = strings.ReplaceAll(text, ",", "")
	if text == "" {
		return 0, false
	}
	return parseFloat(text)
}

// parseRatingCount reads counts like "24,269" or "1.2e3".
func parseRatingCount(value string) (int, bool) {
	text := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if text == "" {
		return 0, false
	}
	f, ok := parseFloat(text)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func parseFloat(text string) (float64, bool) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// splitFeatures breaks a pipe-delimited feature blob into at most six
// trimmed entries of at most 90 characters each.
func splitFeatures(aboutProduct string) []string {
	if aboutProduct == "" {
		return nil
	}
	var features []string
	for _, part := range strings.Split(aboutProduct, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		features = append(features, truncate(part, 90))
		if len(features) == 6 {
			break
		}
	}
	return features
}

// normalizeCategory keeps the top level of a pipe-delimited category path.
func normalizeCategory(rawCategory string) string {
	if rawCategory == "" {
		return "Unknown"
	}
	top := strings.TrimSpace(strings.SplitN(rawCategory, "|", 2)[0])
	if top == "" {
		return "Unknown"
	}
	return top
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
