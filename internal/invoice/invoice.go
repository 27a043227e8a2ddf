// Package invoice renders the finished order into a PDF and handles the
// admin catalog export. Generated files land in a transient output
// directory; callers send them to the user and may remove them afterwards.
package invoice

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/izimoto/paintbot/core/logger"
	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/order"
)

const (
	pdfTitle    = `Малярная студия "Izimoto"`
	pdfServices = "Выбранные услуги:"
	pdfTotal    = "Итого:"
	pdfThanks   = "Спасибо за обращение!"
	pdfCurrency = "MDL"
	pdfDateTag  = "Дата:"

	invoiceFont = "invoice"
)

// Generator writes invoices and catalog exports under Dir. FontPath must
// point at a Cyrillic-capable TTF; without one the built-in Helvetica is
// used and non-Latin text will not render.
type Generator struct {
	Dir      string
	FontPath string
}

// New builds a generator writing into dir.
func New(dir, fontPath string) *Generator {
	return &Generator{Dir: dir, FontPath: fontPath}
}

// Invoice renders the summary into a timestamped PDF and returns its path.
func (g *Generator) Invoice(summary order.Summary) (string, error) {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create invoice dir %s: %w", g.Dir, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	font := "Helvetica"
	if g.FontPath != "" {
		pdf.AddUTF8Font(invoiceFont, "", g.FontPath)
		font = invoiceFont
	}
	pdf.AddPage()

	pdf.SetFont(font, "", 20)
	pdf.CellFormat(0, 12, pdfTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(font, "", 12)
	date := time.Now().Format("02.01.2006")
	pdf.CellFormat(0, 8, fmt.Sprintf("%s %s", pdfDateTag, date), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(font, "", 14)
	pdf.CellFormat(0, 8, pdfServices, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, section := range summary.Sections {
		pdf.SetFont(font, "", 12)
		pdf.CellFormat(0, 7, strings.ToUpper(section.Category)+":", "", 1, "L", false, 0, "")
		pdf.SetFont(font, "", 10)
		for _, line := range section.Lines {
			text := fmt.Sprintf("– %s × %d – %d %s", line.Name, line.Qty, line.LineTotal, pdfCurrency)
			pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	pdf.SetFont(font, "", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s %d %s", pdfTotal, summary.Total, pdfCurrency), "", 1, "R", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont(font, "", 10)
	pdf.CellFormat(0, 6, pdfThanks, "", 1, "C", false, 0, "")

	path := filepath.Join(g.Dir, fmt.Sprintf("invoice_%d.pdf", time.Now().UnixMilli()))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write invoice %s: %w", path, err)
	}
	logger.Debug(logger.Background(), "invoice", "invoice.generated",
		slog.String("status", "ok"),
		slog.String("path", path),
		slog.Int("total", summary.Total),
	)
	return path, nil
}

// ExportCatalog writes the catalog as a timestamped pretty-printed JSON file
// and returns its path.
func (g *Generator) ExportCatalog(c catalog.Catalog) (string, error) {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir %s: %w", g.Dir, err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode catalog export: %w", err)
	}
	path := filepath.Join(g.Dir, fmt.Sprintf("services_%d.json", time.Now().UnixMilli()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write catalog export %s: %w", path, err)
	}
	return path, nil
}
