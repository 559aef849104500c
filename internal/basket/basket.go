// Package basket implements the mutable selection basket: a mapping
// from envase code to requested quantity with enforced bounds.
package basket

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// MaxQuantity is the hard per-item ceiling; inputs above it clamp.
	MaxQuantity = 60
	// WarnThreshold is the soft limit past which a display-only
	// approaching-limit signal fires.
	WarnThreshold = 20
)

// Warning identifies a non-fatal condition raised by a quantity change.
type Warning string

const (
	WarnNone        Warning = ""
	WarnClamped     Warning = "clamped"     // input exceeded MaxQuantity
	WarnApproaching Warning = "approaching" // quantity above WarnThreshold
)

// Basket maps envase codes to non-negative quantities. Zero-valued
// entries may remain in the map; they are absent from the review
// projection. Basket itself is not goroutine safe; the owning session
// serializes access.
type Basket struct {
	items map[string]int
}

// New returns an empty basket.
func New() *Basket {
	return &Basket{items: make(map[string]int)}
}

// SetQuantity parses raw as a whole number of units and stores it for
// code. Malformed or negative input degrades to 0, fractional values
// truncate toward zero, and values above MaxQuantity clamp. The stored
// value and any warning are returned; the caller never sees an error.
func (b *Basket) SetQuantity(code, raw string) (int, Warning) {
	n := parseUnits(raw)

	warning := WarnNone
	if n > MaxQuantity {
		n = MaxQuantity
		warning = WarnClamped
	} else if n > WarnThreshold {
		warning = WarnApproaching
	}

	b.items[code] = n
	return n, warning
}

// parseUnits interprets user input as an integer unit count. Garbage
// and negatives map to 0.
func parseUnits(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0
		}
		n = int(f)
	}
	if n < 0 {
		return 0
	}
	return n
}

// Increment raises the quantity by one, saturating silently at
// MaxQuantity.
func (b *Basket) Increment(code string) int {
	n := b.items[code] + 1
	if n > MaxQuantity {
		n = MaxQuantity
	}
	b.items[code] = n
	return n
}

// Decrement lowers the quantity by one, flooring at 0.
func (b *Basket) Decrement(code string) int {
	n := b.items[code] - 1
	if n < 0 {
		n = 0
	}
	b.items[code] = n
	return n
}

// Remove deletes the entry outright. Removing a missing code is a
// no-op.
func (b *Basket) Remove(code string) {
	delete(b.items, code)
}

// Clear wipes the whole selection. The confirmed flag is the explicit
// confirmation step; without it, or on an already-empty basket,
// nothing happens. Reports whether anything was cleared.
func (b *Basket) Clear(confirmed bool) bool {
	if !confirmed || b.Total() == 0 {
		return false
	}
	b.items = make(map[string]int)
	return true
}

// Quantity returns the stored quantity for code, 0 when absent.
func (b *Basket) Quantity(code string) int {
	return b.items[code]
}

// Total is the sum of all quantities, recomputed on every call.
func (b *Basket) Total() int {
	total := 0
	for _, n := range b.items {
		total += n
	}
	return total
}

// Selection returns the review projection: codes with positive
// quantity, as a fresh map.
func (b *Basket) Selection() map[string]int {
	out := make(map[string]int)
	for code, n := range b.items {
		if n > 0 {
			out[code] = n
		}
	}
	return out
}

// Codes returns the positive entry codes in stable order.
func (b *Basket) Codes() []string {
	var codes []string
	for code, n := range b.items {
		if n > 0 {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}
