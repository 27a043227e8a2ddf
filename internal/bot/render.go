package bot

import (
	"fmt"
	"strings"

	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/order"
)

// renderSummary formats the finished order for the chat message.
func renderSummary(summary order.Summary) string {
	var sb strings.Builder
	sb.WriteString(msgOrderSummary + "\n")
	for _, section := range summary.Sections {
		for _, line := range section.Lines {
			fmt.Fprintf(&sb, "– %s × %d – %d MDL\n", line.Name, line.Qty, line.LineTotal)
		}
	}
	fmt.Fprintf(&sb, "\n💰 Общая сумма: %d MDL", summary.Total)
	return sb.String()
}

// renderServiceList formats the full catalog for the admin view.
func renderServiceList(c catalog.Catalog) string {
	var sb strings.Builder
	sb.WriteString(msgServicesHeader)
	for _, category := range catalog.Categories {
		fmt.Fprintf(&sb, "🔹 %s:\n", strings.ToUpper(category))
		for _, svc := range c[category] {
			fmt.Fprintf(&sb, "- %s: %d MDL\n", svc.Name, svc.Price)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
