package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func sample() Catalog {
	return Catalog{
		CategoryCar: {
			{Name: "Покраска бампера", Price: 1500},
			{Name: "Покраска крыла", Price: 1000},
		},
		CategoryMoto: {
			{Name: "Покраска бака", Price: 1200},
		},
		CategoryAdditional: {},
	}
}

func TestNormalizeFillsMissingCategories(t *testing.T) {
	c := Catalog{CategoryCar: {{Name: "x", Price: 1}}}
	c.Normalize()
	for _, key := range Categories {
		if _, ok := c[key]; !ok {
			t.Errorf("category %q missing after normalize", key)
		}
	}
	if len(c[CategoryCar]) != 1 {
		t.Errorf("normalize touched existing category: %v", c[CategoryCar])
	}
}

func TestAtResolvesByPosition(t *testing.T) {
	c := sample()
	svc, ok := c.At(CategoryCar, 1)
	if !ok || svc.Name != "Покраска крыла" || svc.Price != 1000 {
		t.Fatalf("At(car, 1) = %v, %v", svc, ok)
	}
	if _, ok := c.At(CategoryCar, 2); ok {
		t.Error("At past end of list should miss")
	}
	if _, ok := c.At(CategoryCar, -1); ok {
		t.Error("At negative index should miss")
	}
	if _, ok := c.At("boat", 0); ok {
		t.Error("At unknown category should miss")
	}
}

func TestAppendKeepsOrder(t *testing.T) {
	c := sample()
	if err := c.Append(CategoryMoto, Service{Name: "Покраска рамы", Price: 2000}); err != nil {
		t.Fatalf("append: %v", err)
	}
	list := c[CategoryMoto]
	if len(list) != 2 || list[1].Name != "Покраска рамы" {
		t.Fatalf("appended entry not at end: %v", list)
	}
	if err := c.Append("boat", Service{Name: "x", Price: 1}); err == nil {
		t.Error("append to unknown category should fail")
	}
}

func TestUpdatePartialFields(t *testing.T) {
	c := sample()
	price := 1800
	if err := c.Update(CategoryCar, 0, nil, &price); err != nil {
		t.Fatalf("update price: %v", err)
	}
	if got := c[CategoryCar][0]; got.Name != "Покраска бампера" || got.Price != 1800 {
		t.Fatalf("price-only update changed name: %v", got)
	}

	name := "Покраска бампера (матовая)"
	if err := c.Update(CategoryCar, 0, &name, nil); err != nil {
		t.Fatalf("update name: %v", err)
	}
	if got := c[CategoryCar][0]; got.Name != name || got.Price != 1800 {
		t.Fatalf("name-only update changed price: %v", got)
	}

	if err := c.Update(CategoryCar, 5, &name, nil); err == nil {
		t.Error("update past end should fail")
	}
}

func TestRemoveShiftsIndices(t *testing.T) {
	c := sample()
	removed, err := c.Remove(CategoryCar, 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed.Name != "Покраска бампера" {
		t.Fatalf("removed wrong entry: %v", removed)
	}
	if svc, ok := c.At(CategoryCar, 0); !ok || svc.Name != "Покраска крыла" {
		t.Fatalf("later entry did not shift down: %v", svc)
	}
	if _, err := c.Remove(CategoryCar, 1); err == nil {
		t.Error("remove stale index should fail")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "services.json")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := store.Save(ctx, sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got[CategoryCar]) != 2 || got[CategoryCar][1].Price != 1000 {
		t.Fatalf("round trip lost data: %v", got)
	}

	// File content stays valid standalone JSON with all category keys.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var onDisk map[string][]Service
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("file is not valid JSON: %v", err)
	}
	for _, key := range Categories {
		if _, ok := onDisk[key]; !ok {
			t.Errorf("category %q missing on disk", key)
		}
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load missing file: %v", err)
	}
	for _, key := range Categories {
		list, ok := got[key]
		if !ok || len(list) != 0 {
			t.Errorf("expected empty %q, got %v", key, list)
		}
	}
}
