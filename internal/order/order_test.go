package order

import (
	"context"
	"testing"

	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/session"
)

func testStore() *catalog.MemoryStore {
	return catalog.NewMemoryStore(catalog.Catalog{
		catalog.CategoryCar: {
			{Name: "Покраска бампера", Price: 1500},
			{Name: "Покраска крыла", Price: 1000},
		},
		catalog.CategoryMoto: {
			{Name: "Покраска бака", Price: 1200},
		},
	})
}

func TestSelectServiceIncrementsQuantity(t *testing.T) {
	acc := New(testStore())
	ctx := context.Background()
	var sess session.Session

	for i := 1; i <= 3; i++ {
		svc, qty, ok, err := acc.SelectService(ctx, &sess, catalog.CategoryCar, 1)
		if err != nil || !ok {
			t.Fatalf("select #%d: ok=%v err=%v", i, ok, err)
		}
		if svc.Name != "Покраска крыла" || qty != i {
			t.Fatalf("select #%d: got %q qty=%d", i, svc.Name, qty)
		}
	}

	sum, err := acc.Finish(ctx, &sess)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if sum.Total != 3000 {
		t.Errorf("total = %d, want 3000", sum.Total)
	}
	if len(sum.Sections) != 1 || len(sum.Sections[0].Lines) != 1 {
		t.Fatalf("summary shape: %+v", sum)
	}
	line := sum.Sections[0].Lines[0]
	if line.Qty != 3 || line.LineTotal != 3000 {
		t.Errorf("line = %+v", line)
	}
}

func TestSelectServiceStaleIndexIsNoOp(t *testing.T) {
	acc := New(testStore())
	var sess session.Session
	_, _, ok, err := acc.SelectService(context.Background(), &sess, catalog.CategoryCar, 9)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if ok {
		t.Fatal("stale index should not resolve")
	}
	if sess.Quantity(catalog.CategoryCar, 9) != 0 {
		t.Error("stale selection must not change quantities")
	}
}

func TestFinishAggregatesAcrossCategories(t *testing.T) {
	acc := New(testStore())
	ctx := context.Background()
	var sess session.Session

	acc.SelectCategory(&sess, catalog.CategoryCar)
	acc.SelectService(ctx, &sess, catalog.CategoryCar, 0) // 1500
	acc.SelectService(ctx, &sess, catalog.CategoryCar, 1) // 1000
	acc.SelectService(ctx, &sess, catalog.CategoryCar, 1) // 1000
	acc.SelectCategory(&sess, catalog.CategoryMoto)
	acc.SelectService(ctx, &sess, catalog.CategoryMoto, 0) // 1200

	sum, err := acc.Finish(ctx, &sess)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if sum.Total != 1500+2000+1200 {
		t.Errorf("total = %d, want 4700", sum.Total)
	}
	if len(sum.Sections) != 2 {
		t.Fatalf("sections = %+v", sum.Sections)
	}
	if sum.Sections[0].Category != catalog.CategoryCar || sum.Sections[1].Category != catalog.CategoryMoto {
		t.Errorf("section order wrong: %+v", sum.Sections)
	}
	if got := sum.Sections[0].Lines[1]; got.Name != "Покраска крыла" || got.LineTotal != 2000 {
		t.Errorf("line = %+v", got)
	}
}

func TestFinishResolvesPricesAtFinishTime(t *testing.T) {
	store := testStore()
	acc := New(store)
	ctx := context.Background()
	var sess session.Session

	acc.SelectService(ctx, &sess, catalog.CategoryCar, 0)

	// Price changes after selection but before finish.
	c, _ := store.Load(ctx)
	price := 1800
	if err := c.Update(catalog.CategoryCar, 0, nil, &price); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	sum, err := acc.Finish(ctx, &sess)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if sum.Total != 1800 {
		t.Errorf("total = %d, want current price 1800", sum.Total)
	}
}

func TestFinishSkipsRemovedServices(t *testing.T) {
	store := testStore()
	acc := New(store)
	ctx := context.Background()
	var sess session.Session

	acc.SelectService(ctx, &sess, catalog.CategoryMoto, 0)

	c, _ := store.Load(ctx)
	if _, err := c.Remove(catalog.CategoryMoto, 0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Save(ctx, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	sum, err := acc.Finish(ctx, &sess)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !sum.Empty() || sum.Total != 0 {
		t.Errorf("summary should be empty after removal: %+v", sum)
	}
}

func TestClearEmptiesSelectionKeepsCategory(t *testing.T) {
	acc := New(testStore())
	ctx := context.Background()
	var sess session.Session

	acc.SelectCategory(&sess, catalog.CategoryCar)
	acc.SelectService(ctx, &sess, catalog.CategoryCar, 0)
	acc.Clear(&sess)

	if sess.CurrentCategory != catalog.CategoryCar {
		t.Error("clear must keep browsing position")
	}
	sum, err := acc.Finish(ctx, &sess)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !sum.Empty() || sum.Total != 0 {
		t.Errorf("cleared order should be empty: %+v", sum)
	}
}
