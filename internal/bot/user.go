package bot

import (
	"log/slog"
	"path/filepath"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/izimoto/paintbot/core/logger"
	"github.com/izimoto/paintbot/core/telegram/callbacks"
	"github.com/izimoto/paintbot/core/telegram/helpers"
	"github.com/izimoto/paintbot/internal/catalog"
)

// handleStart greets the user with the category menu. Any active flow is
// dropped; the admin flag and accumulated selections survive.
func (b *Bot) handleStart(c tele.Context) error {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "start.failed", err)
	}
	sess.ClearFlow()
	if err := b.save(ctx, userID, sess); err != nil {
		return b.fail(ctx, c, "start.failed", err)
	}
	return helpers.SendText(c, msgStart, categoryMenu())
}

// handleCategory switches the browsing category and shows its service list.
func (b *Bot) handleCategory(c tele.Context) error {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "category.failed", err)
	}
	category := callbacks.CallbackPayload(c)
	if !catalog.IsCategory(category) {
		return nil
	}
	b.orders.SelectCategory(&sess, category)
	if err := b.save(ctx, userID, sess); err != nil {
		return b.fail(ctx, c, "category.failed", err)
	}
	cat, err := b.catalog.Load(ctx)
	if err != nil {
		return b.fail(ctx, c, "category.failed", err)
	}
	return helpers.EditOrSendText(c, msgSelectServices, serviceMenu(cat, &sess, category))
}

// handleService bumps the picked service's quantity and refreshes the
// keyboard so the new count shows on the button.
func (b *Bot) handleService(c tele.Context) error {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "service.failed", err)
	}
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 2 {
		return nil
	}
	category := parts[0]
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil
	}

	_, _, ok, err := b.orders.SelectService(ctx, &sess, category, index)
	if err != nil {
		return b.fail(ctx, c, "service.failed", err)
	}
	if !ok {
		// The entry vanished since the keyboard was rendered.
		return nil
	}
	if err := b.save(ctx, userID, sess); err != nil {
		return b.fail(ctx, c, "service.failed", err)
	}
	cat, err := b.catalog.Load(ctx)
	if err != nil {
		return b.fail(ctx, c, "service.failed", err)
	}
	return helpers.EditOrSendText(c, msgSelectServices, serviceMenu(cat, &sess, category))
}

// handleClear empties the order and re-renders the current category.
func (b *Bot) handleClear(c tele.Context) error {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "clear.failed", err)
	}
	b.orders.Clear(&sess)
	if err := b.save(ctx, userID, sess); err != nil {
		return b.fail(ctx, c, "clear.failed", err)
	}
	if err := helpers.EditOrSendText(c, msgCleared); err != nil {
		return err
	}
	if sess.CurrentCategory == "" {
		return helpers.SendText(c, msgStart, categoryMenu())
	}
	cat, err := b.catalog.Load(ctx)
	if err != nil {
		return b.fail(ctx, c, "clear.failed", err)
	}
	return helpers.SendText(c, msgSelectServices, serviceMenu(cat, &sess, sess.CurrentCategory))
}

// handleFinish prices the order and shows the summary with the PDF offer.
func (b *Bot) handleFinish(c tele.Context) error {
	ctx, _, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "finish.failed", err)
	}
	summary, err := b.orders.Finish(ctx, &sess)
	if err != nil {
		return b.fail(ctx, c, "finish.failed", err)
	}
	if summary.Empty() {
		return helpers.SendText(c, msgError)
	}
	return helpers.EditOrSendText(c, renderSummary(summary), pdfOffer())
}

// handlePDF generates the invoice, sends it, and starts the user over with
// an empty order.
func (b *Bot) handlePDF(c tele.Context) error {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "pdf.failed", err)
	}
	summary, err := b.orders.Finish(ctx, &sess)
	if err != nil {
		return b.fail(ctx, c, "pdf.failed", err)
	}
	if summary.Empty() {
		return helpers.SendText(c, msgError)
	}
	if err := helpers.EditOrSendText(c, msgPDFGenerating); err != nil {
		return err
	}

	path, err := b.invoices.Invoice(summary)
	if err != nil {
		logger.Error(ctx, "bot", "pdf.failed", slog.String("err", err.Error()))
		return helpers.SendText(c, msgPDFError)
	}
	if err := helpers.SendDocument(c, path, filepath.Base(path)); err != nil {
		logger.Error(ctx, "bot", "pdf.send.failed", slog.String("err", err.Error()))
		return helpers.SendText(c, msgPDFError)
	}

	b.orders.Clear(&sess)
	if err := b.save(ctx, userID, sess); err != nil {
		return b.fail(ctx, c, "pdf.failed", err)
	}
	return helpers.SendText(c, msgStart, categoryMenu())
}
