package infer

import (
	"fmt"
	"regexp"
	"strconv"
)

// Quantity and duration share the same time-span patterns. Quantity
// normalizes spans to days (3 weeks → 21); duration keeps the user's own
// unit for display ("3 weeks"). Neither aggregates across patterns — the
// first hit wins.

var (
	timeSpanRe  = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(day|week|month)s?\b`)
	assetCountRe = regexp.MustCompile(`(?i)\b(\d{1,3})\s+(?:[a-z]+\s+){0,2}(?:posts?|images?|graphics?|assets?|pieces?|videos?|reels?|stor(?:y|ies)|carousels?|banners?|ads?|flyers?|posters?|thumbnails?|slides?)\b`)
)

const (
	timeSpanConfidence   = 0.9
	assetCountConfidence = 0.85
)

var daysPerUnit = map[string]int{
	"day":   1,
	"week":  7,
	"month": 30,
}

// extractQuantity returns a day-normalized integer quantity: time spans take
// priority over asset counts.
func extractQuantity(text string) FieldValue[int] {
	if m := timeSpanRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return NewFieldValue(n*daysPerUnit[lower(m[2])], timeSpanConfidence)
		}
	}
	if m := assetCountRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return NewFieldValue(n, assetCountConfidence)
		}
	}
	return Pending[int]()
}

// extractDuration returns a user-facing span string ("30 days", "3 weeks").
func extractDuration(text string) FieldValue[string] {
	m := timeSpanRe.FindStringSubmatch(text)
	if m == nil {
		return Pending[string]()
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Pending[string]()
	}
	return NewFieldValue(fmt.Sprintf("%d %ss", n, lower(m[2])), timeSpanConfidence)
}
