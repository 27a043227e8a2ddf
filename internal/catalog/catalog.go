// Package catalog models the painting service price list: a fixed set of
// categories, each holding an ordered list of services. Order is significant
// because positions are the selection and edit/delete targets everywhere else.
package catalog

import (
	"errors"
	"fmt"
)

const (
	CategoryCar        = "car"
	CategoryMoto       = "moto"
	CategoryAdditional = "additional"
)

// Categories lists the fixed category keys in display order.
var Categories = []string{CategoryCar, CategoryMoto, CategoryAdditional}

var (
	// ErrUnknownCategory reports a category key outside the fixed set.
	ErrUnknownCategory = errors.New("catalog: unknown category")
	// ErrIndexOutOfRange reports a positional index that no longer resolves.
	ErrIndexOutOfRange = errors.New("catalog: index out of range")
)

// Service is one orderable catalog entry. Price is in MDL.
type Service struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Catalog maps category keys to ordered service lists.
type Catalog map[string][]Service

// IsCategory reports whether key belongs to the fixed category set.
func IsCategory(key string) bool {
	for _, c := range Categories {
		if c == key {
			return true
		}
	}
	return false
}

// Normalize guarantees every fixed category key is present, with an empty
// list when the persisted file lacks it.
func (c Catalog) Normalize() {
	for _, key := range Categories {
		if _, ok := c[key]; !ok {
			c[key] = []Service{}
		}
	}
}

// At resolves a positional index within a category. The second return is
// false for unknown categories and stale indices.
func (c Catalog) At(category string, index int) (Service, bool) {
	list, ok := c[category]
	if !ok || index < 0 || index >= len(list) {
		return Service{}, false
	}
	return list[index], true
}

// Append adds a service to the end of a category's list.
func (c Catalog) Append(category string, svc Service) error {
	if !IsCategory(category) {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	c[category] = append(c[category], svc)
	return nil
}

// Update applies a new name and/or price to the entry at index.
// Nil fields keep the current value.
func (c Catalog) Update(category string, index int, name *string, price *int) error {
	list, ok := c[category]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	if index < 0 || index >= len(list) {
		return fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, category, index)
	}
	if name != nil {
		list[index].Name = *name
	}
	if price != nil {
		list[index].Price = *price
	}
	return nil
}

// Remove splices out the entry at index, shifting later entries down by one,
// and returns the removed service.
func (c Catalog) Remove(category string, index int) (Service, error) {
	list, ok := c[category]
	if !ok {
		return Service{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}
	if index < 0 || index >= len(list) {
		return Service{}, fmt.Errorf("%w: %s[%d]", ErrIndexOutOfRange, category, index)
	}
	removed := list[index]
	c[category] = append(list[:index], list[index+1:]...)
	return removed, nil
}

// Clone returns a deep copy, used by tests and in-memory stores.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for key, list := range c {
		cp := make([]Service, len(list))
		copy(cp, list)
		out[key] = cp
	}
	return out
}
