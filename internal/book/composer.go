// Package book derives page counts and pricing for a book configuration.
// Everything here is a pure function over the configuration; callers
// recompute on every change rather than caching.
package book

import (
	"encoding/json"
	"fmt"

	"colormybook-backend/internal/models"
)

// Prices are integer cents. The display currency is chosen by the caller.
const (
	pricePerPageA5Cents = 50
	pricePerPageA4Cents = 75

	bindingPerfectCents   = 500
	bindingHardcoverCents = 1000

	// Front and back pages are reserved; images fill the rest.
	reservedPages = 2
	minPageCount  = 8
)

// PageCount returns the printed page count for a given number of images:
// always even and never below 8.
func PageCount(imageCount int) int {
	if imageCount < 0 {
		imageCount = 0
	}
	pages := imageCount
	if pages%2 != 0 {
		pages++
	}
	if pages < minPageCount {
		pages = minPageCount
	}
	return pages
}

// AvailableSlots returns how many image slots a page count offers.
func AvailableSlots(pageCount int) int {
	return pageCount - reservedPages
}

// SlotOverflow reports whether imageCount exceeds the available slots.
// Overflow is a user-visible warning, not a rejection: the session may
// temporarily hold more images than fit while the user edits.
func SlotOverflow(imageCount int) (bool, string) {
	slots := AvailableSlots(PageCount(imageCount))
	if imageCount <= slots {
		return false, ""
	}
	return true, fmt.Sprintf("%d images exceed the %d available slots; remove %d or add more pages",
		imageCount, slots, imageCount-slots)
}

// PricePerPageCents returns the per-page price for a book size.
func PricePerPageCents(size models.BookSize) int64 {
	if size == models.SizeA4 {
		return pricePerPageA4Cents
	}
	return pricePerPageA5Cents
}

// BindingSurchargeCents returns the flat per-copy surcharge for a binding.
func BindingSurchargeCents(binding models.Binding) int64 {
	switch binding {
	case models.BindingHardcover:
		return bindingHardcoverCents
	case models.BindingPerfect:
		return bindingPerfectCents
	}
	return 0
}

// TotalPriceCents computes the full order price:
// (pageCount * pricePerPage(size) + bindingSurcharge) * quantity.
// Monotonically non-decreasing in quantity and pageCount.
func TotalPriceCents(size models.BookSize, binding models.Binding, quantity, pageCount int) int64 {
	if quantity < 1 {
		quantity = 1
	}
	perCopy := int64(pageCount)*PricePerPageCents(size) + BindingSurchargeCents(binding)
	return perCopy * int64(quantity)
}

// FormatPrice renders cents with two decimal places, currency-agnostic.
func FormatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// QuoteOrder derives the current quote from an order's persisted state.
// A stored customization (recognized by its required binding) wins even
// when its image list is empty; only uncustomized orders fall back to the
// raw image list with default options.
func QuoteOrder(order *models.Order) models.QuoteResponse {
	var cfg models.BookConfiguration
	if len(order.Customization) > 0 {
		if err := json.Unmarshal(order.Customization, &cfg); err == nil && cfg.Binding != "" {
			return Quote(cfg)
		}
	}

	var images []string
	if len(order.Images) > 0 {
		_ = json.Unmarshal(order.Images, &images)
	}
	return Quote(models.BookConfiguration{
		Images:   images,
		Size:     models.SizeA5,
		Binding:  models.BindingSpiral,
		Quantity: 1,
	})
}

// Quote computes the derived state for a configuration.
func Quote(cfg models.BookConfiguration) models.QuoteResponse {
	imageCount := len(cfg.Images)
	pages := PageCount(imageCount)
	size := cfg.Size
	if size == "" {
		size = models.SizeForFormat(cfg.Format)
	}
	_, warning := SlotOverflow(imageCount)
	return models.QuoteResponse{
		PageCount:      pages,
		AvailableSlots: AvailableSlots(pages),
		TotalPrice:     FormatPrice(TotalPriceCents(size, cfg.Binding, cfg.Quantity, pages)),
		Warning:        warning,
	}
}
