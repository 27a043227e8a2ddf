package invoice

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/order"
)

func TestInvoiceWritesPDF(t *testing.T) {
	gen := New(filepath.Join(t.TempDir(), "out"), "")
	summary := order.Summary{
		Sections: []order.Section{
			{
				Category: catalog.CategoryCar,
				Lines: []order.Line{
					{Name: "wing paint", Qty: 2, Price: 1000, LineTotal: 2000},
				},
			},
		},
		Total: 2000,
	}

	path, err := gen.Invoice(summary)
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if filepath.Dir(path) != gen.Dir {
		t.Errorf("invoice written outside output dir: %s", path)
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "invoice_") || !strings.HasSuffix(base, ".pdf") {
		t.Errorf("unexpected file name %s", base)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output is not a PDF, starts with %q", data[:min(8, len(data))])
	}
}

func TestExportCatalogRoundTrip(t *testing.T) {
	gen := New(t.TempDir(), "")
	c := catalog.Catalog{
		catalog.CategoryCar:  {{Name: "Покраска крыла", Price: 1000}},
		catalog.CategoryMoto: {},
	}
	c.Normalize()

	path, err := gen.ExportCatalog(c)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "services_") || !strings.HasSuffix(base, ".json") {
		t.Errorf("unexpected file name %s", base)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got catalog.Catalog
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(got[catalog.CategoryCar]) != 1 || got[catalog.CategoryCar][0].Price != 1000 {
		t.Errorf("export content wrong: %v", got)
	}
}
