package book_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"colormybook-backend/internal/book"
	"colormybook-backend/internal/models"
)

func TestPageCount_EvenAndAtLeastEight(t *testing.T) {
	for imageCount := 0; imageCount <= 60; imageCount++ {
		pages := book.PageCount(imageCount)
		assert.Equal(t, 0, pages%2, "page count must be even for %d images", imageCount)
		assert.GreaterOrEqual(t, pages, 8, "page count must be at least 8 for %d images", imageCount)
		assert.GreaterOrEqual(t, pages, imageCount, "pages must hold all images for %d images", imageCount)
	}
}

func TestPageCount_Scenarios(t *testing.T) {
	assert.Equal(t, 8, book.PageCount(0))
	assert.Equal(t, 8, book.PageCount(5))
	assert.Equal(t, 8, book.PageCount(7))
	assert.Equal(t, 8, book.PageCount(8))
	assert.Equal(t, 10, book.PageCount(9))
	assert.Equal(t, 20, book.PageCount(19))
	assert.Equal(t, 8, book.PageCount(-3))
}

func TestAvailableSlots(t *testing.T) {
	assert.Equal(t, 6, book.AvailableSlots(book.PageCount(0)))
	assert.Equal(t, 6, book.AvailableSlots(book.PageCount(5)))
	assert.Equal(t, 8, book.AvailableSlots(book.PageCount(10)))
}

func TestSlotOverflow(t *testing.T) {
	overflow, warning := book.SlotOverflow(5)
	assert.False(t, overflow)
	assert.Empty(t, warning)

	// 7 images yields 8 pages but only 6 slots
	overflow, warning = book.SlotOverflow(7)
	assert.True(t, overflow)
	assert.NotEmpty(t, warning)

	overflow, _ = book.SlotOverflow(6)
	assert.False(t, overflow)
}

func TestTotalPriceCents(t *testing.T) {
	// 8 pages * 50c = 400c for a spiral A5 single copy
	assert.Equal(t, int64(400), book.TotalPriceCents(models.SizeA5, models.BindingSpiral, 1, 8))

	// A4 pages cost more
	assert.Equal(t, int64(600), book.TotalPriceCents(models.SizeA4, models.BindingSpiral, 1, 8))

	// Binding surcharges are flat per copy
	assert.Equal(t, int64(900), book.TotalPriceCents(models.SizeA5, models.BindingPerfect, 1, 8))
	assert.Equal(t, int64(1400), book.TotalPriceCents(models.SizeA5, models.BindingHardcover, 1, 8))

	// Quantity multiplies the whole per-copy price
	assert.Equal(t, int64(2800), book.TotalPriceCents(models.SizeA5, models.BindingHardcover, 2, 8))

	// Zero quantity is clamped to one copy
	assert.Equal(t, int64(400), book.TotalPriceCents(models.SizeA5, models.BindingSpiral, 0, 8))
}

func TestTotalPriceCents_Monotonic(t *testing.T) {
	sizes := []models.BookSize{models.SizeA5, models.SizeA4}
	bindings := []models.Binding{models.BindingSpiral, models.BindingPerfect, models.BindingHardcover}

	for _, size := range sizes {
		for _, binding := range bindings {
			prev := int64(0)
			for qty := 1; qty <= 5; qty++ {
				total := book.TotalPriceCents(size, binding, qty, 10)
				assert.Greater(t, total, prev, "price must grow with quantity (%s/%s qty=%d)", size, binding, qty)
				prev = total
			}

			prev = 0
			for pages := 8; pages <= 20; pages += 2 {
				total := book.TotalPriceCents(size, binding, 1, pages)
				assert.Greater(t, total, prev, "price must grow with page count (%s/%s pages=%d)", size, binding, pages)
				prev = total
			}
		}
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "4.00", book.FormatPrice(400))
	assert.Equal(t, "14.05", book.FormatPrice(1405))
	assert.Equal(t, "0.50", book.FormatPrice(50))
	assert.Equal(t, "0.05", book.FormatPrice(5))
}

func TestQuote(t *testing.T) {
	cfg := models.BookConfiguration{
		Images:   []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"},
		Size:     models.SizeA5,
		Binding:  models.BindingSpiral,
		Quantity: 1,
	}

	quote := book.Quote(cfg)
	assert.Equal(t, 8, quote.PageCount)
	assert.Equal(t, 6, quote.AvailableSlots)
	assert.Equal(t, "4.00", quote.TotalPrice)
	assert.Empty(t, quote.Warning)
}

func TestQuote_OverflowWarning(t *testing.T) {
	cfg := models.BookConfiguration{
		Images:   []string{"1", "2", "3", "4", "5", "6", "7"},
		Size:     models.SizeA5,
		Binding:  models.BindingSpiral,
		Quantity: 1,
	}

	quote := book.Quote(cfg)
	assert.Equal(t, 8, quote.PageCount)
	assert.NotEmpty(t, quote.Warning)
}

func TestQuote_SizeFromFormat(t *testing.T) {
	cfg := models.BookConfiguration{
		Images:   []string{"a", "b"},
		Format:   models.FormatLarge,
		Binding:  models.BindingSpiral,
		Quantity: 1,
	}

	quote := book.Quote(cfg)
	// A4 band: 8 pages * 75c
	assert.Equal(t, "6.00", quote.TotalPrice)
}

func TestQuoteOrder_UsesStoredCustomization(t *testing.T) {
	order := &models.Order{
		Images:        json.RawMessage(`["a.jpg","b.jpg"]`),
		Customization: json.RawMessage(`{"images":["a.jpg","b.jpg"],"size":"A4","format":"large","binding":"hardcover","cover":"Summer","quantity":2}`),
		Status:        models.OrderCustomized,
	}

	quote := book.QuoteOrder(order)
	assert.Equal(t, 8, quote.PageCount)
	// (8 pages * 75c + 1000c hardcover) * 2 copies
	assert.Equal(t, "32.00", quote.TotalPrice)
}

func TestQuoteOrder_StoredCustomizationWinsWithEmptyImages(t *testing.T) {
	// A persisted customization must not be discarded just because its
	// image list is empty; the stored binding and quantity still apply.
	order := &models.Order{
		Images:        json.RawMessage(`[]`),
		Customization: json.RawMessage(`{"images":[],"size":"A4","format":"large","binding":"hardcover","cover":"","quantity":2}`),
		Status:        models.OrderCustomized,
	}

	quote := book.QuoteOrder(order)
	assert.Equal(t, "32.00", quote.TotalPrice)
}

func TestQuoteOrder_UncustomizedFallsBackToDefaults(t *testing.T) {
	order := &models.Order{
		Images: json.RawMessage(`["a.jpg","b.jpg","c.jpg"]`),
		Status: models.OrderPendingCustomization,
	}

	quote := book.QuoteOrder(order)
	assert.Equal(t, 8, quote.PageCount)
	assert.Equal(t, 6, quote.AvailableSlots)
	// spiral A5 single copy: 8 * 50c
	assert.Equal(t, "4.00", quote.TotalPrice)
}

func TestQuoteOrder_MalformedCustomizationFallsBack(t *testing.T) {
	order := &models.Order{
		Images:        json.RawMessage(`["a.jpg"]`),
		Customization: json.RawMessage(`{"binding":`),
		Status:        models.OrderCustomized,
	}

	quote := book.QuoteOrder(order)
	assert.Equal(t, "4.00", quote.TotalPrice)
}

func TestBookConfiguration_JSONRoundTrip(t *testing.T) {
	cfg := models.BookConfiguration{
		Images:   []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
		Size:     models.SizeA4,
		Format:   models.FormatSquare,
		Binding:  models.BindingHardcover,
		Cover:    "My Summer",
		Quantity: 3,
	}

	raw, err := json.Marshal(cfg)
	assert.NoError(t, err)

	var decoded models.BookConfiguration
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, cfg, decoded)
}
