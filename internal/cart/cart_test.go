package cart

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/amplen/quotation-builder/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(`{
		"sections": [{"id": "s1", "num": "01", "title": "A"},
		             {"id": "s2", "num": "02", "title": "B"}],
		"products": [
			{"id": 1, "sectionId": "s1", "nameRu": "x", "nameEn": "x", "nameKr": "x", "volume": "1ml", "pricing": {"usd": 1}},
			{"id": 2, "sectionId": "s1", "nameRu": "y", "nameEn": "y", "nameKr": "y", "volume": "1ml", "pricing": {"usd": 2}},
			{"id": 3, "sectionId": "s2", "nameRu": "z", "nameEn": "z", "nameKr": "z", "volume": "1ml", "pricing": {"usd": 3}}
		]
	}`))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	return cat
}

func TestSetQtyZeroRemovesEntry(t *testing.T) {
	c := New()
	c.SetQty(1, 5)
	if c.Qty(1) != 5 {
		t.Fatalf("expected 5, got %d", c.Qty(1))
	}
	c.SetQty(1, 0)
	if _, ok := c.Items()[1]; ok {
		t.Fatalf("zero quantity must remove the key")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d entries", c.Len())
	}
}

func TestSetQtyClamps(t *testing.T) {
	c := New()
	c.SetQty(1, 1500)
	if c.Qty(1) != MaxQty {
		t.Fatalf("expected clamp to %d, got %d", MaxQty, c.Qty(1))
	}
	c.SetQty(1, -3)
	if c.Qty(1) != 0 {
		t.Fatalf("negative quantity should clear the entry, got %d", c.Qty(1))
	}
}

func TestAddSectionAndAll(t *testing.T) {
	cat := testCatalog(t)
	c := New()

	c.AddSection(cat, "s1", 3)
	if c.Qty(1) != 3 || c.Qty(2) != 3 || c.Qty(3) != 0 {
		t.Fatalf("AddSection touched wrong products: %v", c.Items())
	}

	c.AddAll(cat, 1)
	if c.Qty(1) != 4 || c.Qty(3) != 1 {
		t.Fatalf("AddAll increments wrong: %v", c.Items())
	}

	c.Reset()
	if c.Len() != 0 {
		t.Fatalf("Reset left entries: %v", c.Items())
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	store := NewFileStore(path)

	c := Restore(store)
	c.SetQty(1, 2)
	c.SetQty(7, 999)

	restored := Restore(NewFileStore(path))
	if restored.Qty(1) != 2 || restored.Qty(7) != 999 {
		t.Fatalf("restore mismatch: %v", restored.Items())
	}
}

func TestRestoreMissingFileYieldsEmptyCart(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope", "cart.json"))
	c := Restore(store)
	if c.Len() != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestConcurrentMutatorsAndReaders(t *testing.T) {
	cat := testCatalog(t)
	c := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(n int) {
			defer wg.Done()
			c.Replace(map[int]int{1: n + 1, 2: n + 1})
		}(i)
		go func(n int) {
			defer wg.Done()
			c.SetQty(3, n)
			c.Add(1, 1)
			c.AddSection(cat, "s1", 1)
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Items()
			_ = c.Qty(1)
			_ = c.Len()
		}()
	}
	wg.Wait()

	for pid, qty := range c.Items() {
		if qty < MinQty || qty > MaxQty {
			t.Fatalf("product %d out of bounds after concurrent use: %d", pid, qty)
		}
	}
}

func TestReplaceDropsZeroEntries(t *testing.T) {
	c := New()
	c.Replace(map[int]int{1: 5, 2: 0, 3: -1, 4: 2000})
	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 entries, got %v", items)
	}
	if items[1] != 5 || items[4] != MaxQty {
		t.Fatalf("unexpected items: %v", items)
	}
}
