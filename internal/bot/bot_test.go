package bot

import (
	"strconv"
	"strings"
	"testing"

	tg "github.com/izimoto/paintbot/core/telegram"
	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/flow"
	"github.com/izimoto/paintbot/internal/invoice"
	"github.com/izimoto/paintbot/internal/order"
	"github.com/izimoto/paintbot/internal/session"
)

func testCatalog() catalog.Catalog {
	c := catalog.Catalog{
		catalog.CategoryCar: {
			{Name: "Покраска бампера", Price: 1500},
			{Name: "Покраска крыла", Price: 1000},
		},
		catalog.CategoryMoto: {
			{Name: "Покраска бака", Price: 1200},
		},
	}
	c.Normalize()
	return c
}

func testBot(t *testing.T) *Bot {
	t.Helper()
	store := catalog.NewMemoryStore(testCatalog())
	return New(
		session.NewMemoryStore(),
		store,
		flow.New(store, "secret"),
		order.New(store),
		invoice.New(t.TempDir(), ""),
	)
}

func TestRegisterBindsAllHandlers(t *testing.T) {
	reg := tg.NewRegistry()
	testBot(t).Register(reg)

	for _, cmd := range []string{"/start", "/admin", "/logout", "/cancel"} {
		if _, _, ok := reg.LookupCommand(cmd); !ok {
			t.Errorf("command %s not registered", cmd)
		}
	}

	wantCallbacks := []string{
		cbCategory, cbService, cbClear, cbFinish, cbPDF,
		cbAdminMenu, cbAdminView, cbAdminAdd, cbAdminEdit, cbAdminDelete, cbAdminExport,
		cbAddCategory, cbEditCategory, cbDeleteCategory,
		cbEditService, cbDeleteService, cbDeleteConfirm, cbDeleteCancel,
	}
	for _, key := range wantCallbacks {
		if _, ok := reg.GetCallback(key); !ok {
			t.Errorf("callback %q not registered", key)
		}
	}
	if got := len(reg.ListCallbacks()); got != len(wantCallbacks) {
		t.Errorf("registered %d callbacks, want %d", got, len(wantCallbacks))
	}

	if reg.TextFallback() == nil {
		t.Error("text fallback not set")
	}
	if reg.CallbackNotFound() == nil {
		t.Error("callback fallback not set")
	}
}

func TestCategoryMenuFollowsCatalogOrder(t *testing.T) {
	rows := categoryMenu().InlineKeyboard
	if len(rows) != len(catalog.Categories) {
		t.Fatalf("rows = %d, want %d", len(rows), len(catalog.Categories))
	}
	for i, category := range catalog.Categories {
		btn := rows[i][0]
		if btn.Text != categoryTitles[category] {
			t.Errorf("row %d text = %q, want %q", i, btn.Text, categoryTitles[category])
		}
		if !strings.HasSuffix(btn.Data, category) {
			t.Errorf("row %d payload = %q, want category %q", i, btn.Data, category)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	sum := order.Summary{
		Sections: []order.Section{
			{
				Category: catalog.CategoryCar,
				Lines: []order.Line{
					{Name: "Покраска крыла", Qty: 2, Price: 1000, LineTotal: 2000},
				},
			},
		},
		Total: 2000,
	}
	text := renderSummary(sum)
	if !strings.HasPrefix(text, msgOrderSummary) {
		t.Errorf("summary must open with %q: %q", msgOrderSummary, text)
	}
	if !strings.Contains(text, "– Покраска крыла × 2 – 2000 MDL") {
		t.Errorf("line missing: %q", text)
	}
	if !strings.Contains(text, "💰 Общая сумма: 2000 MDL") {
		t.Errorf("total missing: %q", text)
	}
}

func TestRenderServiceList(t *testing.T) {
	text := renderServiceList(testCatalog())
	for _, want := range []string{
		"🔹 CAR:", "🔹 MOTO:", "🔹 ADDITIONAL:",
		"- Покраска бампера: 1500 MDL",
		"- Покраска бака: 1200 MDL",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("listing missing %q:\n%s", want, text)
		}
	}
	// Category order is fixed.
	if strings.Index(text, "CAR") > strings.Index(text, "MOTO") {
		t.Error("categories out of order")
	}
}

func TestServiceMenuAnnotatesSelection(t *testing.T) {
	var sess session.Session
	sess.Bump(catalog.CategoryCar, 1)
	sess.Bump(catalog.CategoryCar, 1)

	markup := serviceMenu(testCatalog(), &sess, catalog.CategoryCar)
	rows := markup.InlineKeyboard
	// Two services plus the clear/finish row.
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if got := rows[0][0].Text; strings.Contains(got, "✔️") {
		t.Errorf("unselected entry annotated: %q", got)
	}
	if got := rows[1][0].Text; !strings.Contains(got, "✔️") || !strings.Contains(got, "× 2") {
		t.Errorf("selected entry missing annotation: %q", got)
	}
	last := rows[len(rows)-1]
	if len(last) != 2 || last[0].Text != btnClear || last[1].Text != btnFinish {
		t.Errorf("control row wrong: %+v", last)
	}
}

func TestServicePickUsesPositionalPayload(t *testing.T) {
	markup := servicePick(testCatalog(), catalog.CategoryCar, cbEditService)
	rows := markup.InlineKeyboard
	// Two services plus the back row.
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i := 0; i < 2; i++ {
		data := rows[i][0].Data
		if !strings.HasSuffix(data, strconv.Itoa(i)) {
			t.Errorf("row %d payload = %q", i, data)
		}
	}
	if back := rows[2][0]; back.Text != btnBack {
		t.Errorf("last row should be the back button: %+v", back)
	}
}
