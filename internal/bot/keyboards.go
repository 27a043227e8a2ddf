package bot

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/izimoto/paintbot/core/telegram/keyboard"
	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/session"
)

// Callback uniques. Payloads carry the category key and/or positional index.
const (
	cbCategory = "category"
	cbService  = "service"
	cbClear    = "order_clear"
	cbFinish   = "order_finish"
	cbPDF      = "order_pdf"

	cbAdminMenu   = "admin_menu"
	cbAdminView   = "admin_view"
	cbAdminAdd    = "admin_add"
	cbAdminEdit   = "admin_edit"
	cbAdminDelete = "admin_delete"
	cbAdminExport = "admin_export"

	cbAddCategory    = "add_cat"
	cbEditCategory   = "edit_cat"
	cbDeleteCategory = "del_cat"
	cbEditService    = "edit_svc"
	cbDeleteService  = "del_svc"
	cbDeleteConfirm  = "del_confirm"
	cbDeleteCancel   = "del_cancel"
)

// categoryMenu is the top-level category picker shown on /start.
func categoryMenu() *tele.ReplyMarkup {
	btns := make([]keyboard.InlineBtn, 0, len(catalog.Categories))
	for _, category := range catalog.Categories {
		btns = append(btns, keyboard.InlineBtn{
			Text:   categoryTitles[category],
			Unique: cbCategory,
			Data:   category,
		})
	}
	return keyboard.InlineButtons(btns)
}

// serviceMenu lists a category's services, annotating already-selected
// entries with a check mark and the picked quantity, plus the clear/finish
// row at the bottom.
func serviceMenu(c catalog.Catalog, sess *session.Session, category string) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn
	for idx, svc := range c[category] {
		label := fmt.Sprintf("%s – %d MDL", svc.Name, svc.Price)
		if qty := sess.Quantity(category, idx); qty > 0 {
			label = fmt.Sprintf("✔️ %s – %d MDL × %d", svc.Name, svc.Price, qty)
		}
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   label,
			Unique: cbService,
			Data:   category + "|" + strconv.Itoa(idx),
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{
		{Text: btnClear, Unique: cbClear},
		{Text: btnFinish, Unique: cbFinish},
	})
	return keyboard.InlineButtonsRows(rows...)
}

// pdfOffer is attached to the order summary.
func pdfOffer() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnGetPDF, Unique: cbPDF},
	})
}

// adminMenu is the root admin action list.
func adminMenu() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: btnViewServices, Unique: cbAdminView},
		{Text: btnAddService, Unique: cbAdminAdd},
		{Text: btnEditService, Unique: cbAdminEdit},
		{Text: btnDeleteService, Unique: cbAdminDelete},
		{Text: btnExportJSON, Unique: cbAdminExport},
	})
}

// adminCategoryPick builds the category chooser for an admin flow, where
// unique selects the flow kind.
func adminCategoryPick(unique string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: categoryTitles[catalog.CategoryCar], Unique: unique, Data: catalog.CategoryCar},
			{Text: categoryTitles[catalog.CategoryMoto], Unique: unique, Data: catalog.CategoryMoto},
		},
		[]keyboard.InlineBtn{
			{Text: categoryTitles[catalog.CategoryAdditional], Unique: unique, Data: catalog.CategoryAdditional},
		},
		[]keyboard.InlineBtn{
			{Text: btnBack, Unique: cbAdminMenu},
		},
	)
}

// servicePick lists a category's services for edit/delete targeting, one
// positional index per row.
func servicePick(c catalog.Catalog, category, unique string) *tele.ReplyMarkup {
	var rows [][]keyboard.InlineBtn
	for idx, svc := range c[category] {
		rows = append(rows, []keyboard.InlineBtn{{
			Text:   fmt.Sprintf("%s – %d MDL", svc.Name, svc.Price),
			Unique: unique,
			Data:   strconv.Itoa(idx),
		}})
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: btnBack, Unique: cbAdminMenu}})
	return keyboard.InlineButtonsRows(rows...)
}

// deleteConfirm asks for the final yes/no before removal.
func deleteConfirm() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnCancelDelete, Unique: cbDeleteCancel},
		{Text: btnConfirmDelete, Unique: cbDeleteConfirm},
	})
}
