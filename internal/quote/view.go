package quote

import (
	"github.com/amplen/quotation-builder/internal/catalog"
)

// LineItem is one product-quantity pairing inside a view. The product is
// snapshotted by value so a later catalog reload cannot mutate a frozen view.
type LineItem struct {
	Product   catalog.Product `json:"product"`
	Qty       int             `json:"qty"`
	LineTotal float64         `json:"lineTotal"`
}

// SectionGroup is one catalog section with at least one selected item.
type SectionGroup struct {
	Section      catalog.Section `json:"section"`
	Items        []LineItem      `json:"items"`
	SectionTotal float64         `json:"sectionTotal"`
}

// View is the grouped, totaled projection of a selection over the catalog.
// It backs both the on-screen preview and the PDF export.
type View struct {
	Sections   []SectionGroup `json:"sections"`
	GrandQty   int            `json:"grandQty"`
	GrandTotal float64        `json:"grandTotal"`
	ItemCount  int            `json:"itemCount"`
}

// Empty reports whether there is nothing to quote. Callers treat this as
// "nothing to export" and refuse before doing any work.
func (v *View) Empty() bool { return v.ItemCount == 0 }

// BuildView aggregates a selection into a View. Pure function of its inputs:
// sections appear in catalog order and only when they have at least one
// selected product; within a section, items follow catalog product order
// regardless of the order quantities were entered. Totals accumulate at full
// float precision; rounding to two decimals happens at render time only.
func BuildView(selection map[int]int, cat *catalog.Catalog) *View {
	v := &View{}
	for _, sec := range cat.Sections {
		var group SectionGroup
		for _, p := range cat.SectionProducts(sec.ID) {
			qty := selection[p.ID]
			if qty <= 0 {
				continue
			}
			line := LineItem{
				Product:   p,
				Qty:       qty,
				LineTotal: p.Pricing.USD * float64(qty),
			}
			group.Items = append(group.Items, line)
			group.SectionTotal += line.LineTotal
			v.GrandQty += qty
			v.GrandTotal += line.LineTotal
			v.ItemCount++
		}
		if len(group.Items) == 0 {
			continue
		}
		group.Section = sec
		v.Sections = append(v.Sections, group)
	}
	return v
}
