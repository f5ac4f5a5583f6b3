package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
	"sections": [
		{"id": "s1", "num": "01", "title": "Cleansing", "titleRu": "Очищение", "titleKr": "클렌징"},
		{"id": "s2", "num": "02", "title": "Toner", "titleRu": "Тонер"}
	],
	"products": [
		{"id": 1, "sectionId": "s1", "nameRu": "Пенка", "nameEn": "Foam", "nameKr": "폼", "volume": "150ml", "image": "http://img/1.jpg", "pricing": {"usd": 10.5}},
		{"id": 2, "sectionId": "s2", "nameRu": "Тонер", "nameEn": "Toner", "nameKr": "토너", "volume": "200ml", "pricing": {"usd": 5}},
		{"id": 3, "sectionId": "s1", "nameRu": "Гель", "nameEn": "Gel", "nameKr": "젤", "volume": "100ml", "pricing": {"usd": 7}},
		{"id": 4, "sectionId": "missing", "nameRu": "Сирота", "nameEn": "Orphan", "nameKr": "고아", "volume": "10ml", "pricing": {"usd": 1}}
	]
}`

func TestParseAndLookups(t *testing.T) {
	cat, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(cat.Sections) != 2 || len(cat.Products) != 4 {
		t.Fatalf("unexpected sizes: %d sections %d products", len(cat.Sections), len(cat.Products))
	}
	if p := cat.Product(1); p == nil || p.NameEn != "Foam" {
		t.Fatalf("product lookup failed: %#v", p)
	}
	if p := cat.Product(99); p != nil {
		t.Fatalf("expected nil for unknown product")
	}
	if s := cat.Section("s2"); s == nil || s.Title != "Toner" {
		t.Fatalf("section lookup failed: %#v", s)
	}
	if cat.Product(1).Pricing.USD != 10.5 {
		t.Fatalf("pricing lost in parse")
	}
}

func TestSectionProductsPreserveOrder(t *testing.T) {
	cat, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	prods := cat.SectionProducts("s1")
	if len(prods) != 2 {
		t.Fatalf("expected 2 products in s1, got %d", len(prods))
	}
	if prods[0].ID != 1 || prods[1].ID != 3 {
		t.Fatalf("declaration order not preserved: %d, %d", prods[0].ID, prods[1].ID)
	}
}

func TestOrphanedProductsExcludedFromSections(t *testing.T) {
	cat, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got := cat.SectionProducts("missing"); got != nil {
		t.Fatalf("undeclared section must yield nil, got %v", got)
	}
	// the orphan stays addressable by id
	if cat.Product(4) == nil {
		t.Fatalf("orphan should remain in the id index")
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}

func TestLoadInvalidJSONFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cat.Products) != 4 {
		t.Fatalf("unexpected product count: %d", len(cat.Products))
	}
}
