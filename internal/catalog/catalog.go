package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Section groups related products. Declaration order in the catalog file
// defines grouping order everywhere (tabs, preview, PDF).
type Section struct {
	ID      string `json:"id"`
	Num     string `json:"num"`
	Title   string `json:"title"`
	TitleRu string `json:"titleRu,omitempty"`
	TitleKr string `json:"titleKr,omitempty"`
}

type Pricing struct {
	USD float64 `json:"usd"`
}

type Product struct {
	ID        int     `json:"id"`
	SectionID string  `json:"sectionId"`
	NameRu    string  `json:"nameRu"`
	NameEn    string  `json:"nameEn"`
	NameKr    string  `json:"nameKr"`
	Volume    string  `json:"volume"`
	Image     string  `json:"image"`
	Pricing   Pricing `json:"pricing"`
}

// Catalog is the read-only product catalog, loaded once at startup.
type Catalog struct {
	Sections []Section `json:"sections"`
	Products []Product `json:"products"`

	byID        map[int]*Product
	sectionByID map[string]*Section
}

// Load reads the catalog from a JSON file. Absence or a parse failure is a
// hard startup error with no retry.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes catalog JSON and builds the id indexes.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c.index()
	return &c, nil
}

func (c *Catalog) index() {
	c.byID = make(map[int]*Product, len(c.Products))
	c.sectionByID = make(map[string]*Section, len(c.Sections))
	for i := range c.Sections {
		c.sectionByID[c.Sections[i].ID] = &c.Sections[i]
	}
	for i := range c.Products {
		p := &c.Products[i]
		c.byID[p.ID] = p
		if _, ok := c.sectionByID[p.SectionID]; !ok {
			// Orphaned products stay addressable by id but never appear in
			// section-scoped views.
			log.Warn().Int("product_id", p.ID).Str("section_id", p.SectionID).
				Msg("product references unknown section")
		}
	}
}

// Product returns the product with the given id, or nil.
func (c *Catalog) Product(id int) *Product {
	return c.byID[id]
}

// Section returns the section with the given id, or nil.
func (c *Catalog) Section(id string) *Section {
	return c.sectionByID[id]
}

// SectionProducts returns the products of a section in catalog declaration
// order. Products pointing at an undeclared section are excluded.
func (c *Catalog) SectionProducts(sectionID string) []Product {
	if _, ok := c.sectionByID[sectionID]; !ok {
		return nil
	}
	var out []Product
	for _, p := range c.Products {
		if p.SectionID == sectionID {
			out = append(out, p)
		}
	}
	return out
}
