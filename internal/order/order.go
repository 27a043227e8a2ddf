// Package order turns a user's selections into a priced summary. Quantities
// live in the session; prices are resolved against the current catalog only
// when the order is finished, so admin price edits made mid-selection are
// reflected in the final total.
package order

import (
	"context"
	"sort"

	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/session"
)

// Line is one priced row of the summary.
type Line struct {
	Name      string
	Qty       int
	Price     int
	LineTotal int
}

// Section groups the lines of one category, in catalog order.
type Section struct {
	Category string
	Lines    []Line
}

// Summary is the finished order: non-empty sections in fixed category order
// plus the grand total.
type Summary struct {
	Sections []Section
	Total    int
}

// Empty reports whether nothing priceable was selected.
func (s Summary) Empty() bool {
	return len(s.Sections) == 0
}

// Accumulator applies selection operations to a session against the catalog.
type Accumulator struct {
	catalog catalog.Store
}

// New builds an accumulator over the given catalog store.
func New(store catalog.Store) *Accumulator {
	return &Accumulator{catalog: store}
}

// SelectCategory switches the browsing position. Selections made in other
// categories stay in place.
func (a *Accumulator) SelectCategory(sess *session.Session, category string) {
	sess.CurrentCategory = category
}

// SelectService increments the quantity of the service at index within
// category by one and returns the service with its new quantity. A stale
// index (service removed since the keyboard was shown) returns ok=false and
// changes nothing.
func (a *Accumulator) SelectService(ctx context.Context, sess *session.Session, category string, index int) (catalog.Service, int, bool, error) {
	c, err := a.catalog.Load(ctx)
	if err != nil {
		return catalog.Service{}, 0, false, err
	}
	svc, ok := c.At(category, index)
	if !ok {
		return catalog.Service{}, 0, false, nil
	}
	qty := sess.Bump(category, index)
	return svc, qty, true, nil
}

// Clear empties the selection across all categories, keeping the browsing
// position so the user stays on the list they were viewing.
func (a *Accumulator) Clear(sess *session.Session) {
	sess.ClearSelections()
}

// Finish prices the selection against the current catalog. Positions that no
// longer resolve and zero quantities are skipped; categories end up in fixed
// catalog order, lines in list order.
func (a *Accumulator) Finish(ctx context.Context, sess *session.Session) (Summary, error) {
	c, err := a.catalog.Load(ctx)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, category := range catalog.Categories {
		picked := sess.Selections[category]
		if len(picked) == 0 {
			continue
		}
		indices := make([]int, 0, len(picked))
		for idx := range picked {
			indices = append(indices, idx)
		}
		sort.Ints(indices)

		var lines []Line
		for _, idx := range indices {
			qty := picked[idx]
			if qty <= 0 {
				continue
			}
			svc, ok := c.At(category, idx)
			if !ok {
				continue
			}
			line := Line{
				Name:      svc.Name,
				Qty:       qty,
				Price:     svc.Price,
				LineTotal: svc.Price * qty,
			}
			lines = append(lines, line)
			summary.Total += line.LineTotal
		}
		if len(lines) > 0 {
			summary.Sections = append(summary.Sections, Section{Category: category, Lines: lines})
		}
	}
	return summary, nil
}
