package usecase

import (
	"fmt"
	"strings"
	"time"

	"lawn-booking/internal/data/entity"
)

var thaliPrices = map[entity.ThaliType]float64{
	entity.ThaliNormal:  200,
	entity.ThaliSupreme: 500,
	entity.ThaliDeluxe:  800,
}

// ThaliPrice returns the per-person price of a catering tier.
func ThaliPrice(thali entity.ThaliType) (float64, bool) {
	price, ok := thaliPrices[thali]
	return price, ok
}

type Pricing struct {
	ThaliPrice     float64
	CateringTotal  float64
	ItemTotal      float64
	TotalPrice     float64
	DiscountAmount float64
	FinalPrice     float64
}

// CalculatePricing derives every monetary field of a booking. discount is a
// percentage in [0, 100].
func CalculatePricing(hallCharges float64, items []entity.BookingItem, thaliPrice float64, numberOfPeople int, discount float64) Pricing {
	var itemTotal float64
	for _, item := range items {
		itemTotal += item.Price * float64(item.Quantity)
	}

	cateringTotal := thaliPrice * float64(numberOfPeople)
	totalPrice := hallCharges + itemTotal + cateringTotal
	discountAmount := totalPrice * discount / 100

	return Pricing{
		ThaliPrice:     thaliPrice,
		CateringTotal:  cateringTotal,
		ItemTotal:      itemTotal,
		TotalPrice:     totalPrice,
		DiscountAmount: discountAmount,
		FinalPrice:     totalPrice - discountAmount,
	}
}

var dateLayouts = []string{time.DateOnly, time.RFC3339, time.RFC3339Nano}

// parseDate accepts a calendar date or an RFC 3339 timestamp and returns the
// calendar date at UTC midnight.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date format %q", ErrInvalidInput, raw)
}

// parseDateRange parses both ends of an inclusive range and checks end >= start.
func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := parseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := parseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end before start", ErrInvalidInput)
	}

	return start, end, nil
}
