package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	tele "gopkg.in/telebot.v4"

	"github.com/izimoto/paintbot/core/logger"
	"github.com/izimoto/paintbot/core/telegram/callbacks"
	"github.com/izimoto/paintbot/core/telegram/helpers"
	"github.com/izimoto/paintbot/internal/flow"
	"github.com/izimoto/paintbot/internal/session"
)

// handleAdmin opens the admin menu for an authenticated operator, or starts
// password entry otherwise.
func (b *Bot) handleAdmin(c tele.Context) error {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "admin.failed", err)
	}
	if sess.IsAdmin {
		return helpers.SendText(c, msgAdminMenu, adminMenu())
	}
	b.flows.BeginPassword(&sess)
	if err := b.save(ctx, userID, sess); err != nil {
		return b.fail(ctx, c, "admin.failed", err)
	}
	return helpers.SendText(c, msgEnterPassword)
}

// handleLogout wipes the whole session: admin flag, flows, and selections.
func (b *Bot) handleLogout(c tele.Context) error {
	ctx, userID, _, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "logout.failed", err)
	}
	if err := b.sessions.Delete(ctx, userID); err != nil {
		return b.fail(ctx, c, "logout.failed", err)
	}
	logger.Info(ctx, "bot", "admin.logout", slog.Int64("user_id", userID))
	return helpers.SendText(c, msgLogout)
}

// handleCancel aborts the active flow, names what was cancelled, and
// re-shows the menu matching the user's role.
func (b *Bot) handleCancel(c tele.Context) error {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "cancel.failed", err)
	}
	cancelled := b.flows.Cancel(&sess)
	if cancelled == session.FlowNone {
		return helpers.SendText(c, msgNothingToCancel)
	}
	if err := b.save(ctx, userID, sess); err != nil {
		return b.fail(ctx, c, "cancel.failed", err)
	}

	var text string
	switch cancelled {
	case session.FlowAdd:
		text = msgCancelledAdd
	case session.FlowEdit:
		text = msgCancelledEdit
	case session.FlowDelete:
		text = msgCancelledDelete
	case session.FlowPassword:
		text = msgCancelledPassword
	}
	if err := helpers.SendText(c, text); err != nil {
		return err
	}
	if sess.IsAdmin {
		return helpers.SendText(c, msgAdminMenu, adminMenu())
	}
	return helpers.SendText(c, msgStart, categoryMenu())
}

// admin gates a callback handler on the session's admin flag. Presses from
// anonymous users are silently dropped, matching stale-button behaviour.
func (b *Bot) admin(c tele.Context) (adminCtx, bool, error) {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return adminCtx{}, false, b.fail(ctx, c, "admin.failed", err)
	}
	if !sess.IsAdmin {
		return adminCtx{}, false, nil
	}
	return adminCtx{ctx: ctx, userID: userID, sess: sess}, true, nil
}

type adminCtx struct {
	ctx    context.Context
	userID int64
	sess   session.Session
}

// handleAdminMenu is the back button target.
func (b *Bot) handleAdminMenu(c tele.Context) error {
	_, ok, err := b.admin(c)
	if !ok {
		return err
	}
	return helpers.EditOrSendText(c, msgAdminMenu, adminMenu())
}

// handleAdminView lists every category's services as text.
func (b *Bot) handleAdminView(c tele.Context) error {
	a, ok, err := b.admin(c)
	if !ok {
		return err
	}
	cat, err := b.catalog.Load(a.ctx)
	if err != nil {
		return b.fail(a.ctx, c, "admin.view.failed", err)
	}
	return helpers.EditOrSendText(c, renderServiceList(cat), adminMenu())
}

// handleAdminAdd / handleAdminEdit / handleAdminDelete show the category
// picker for the corresponding flow.
func (b *Bot) handleAdminAdd(c tele.Context) error {
	_, ok, err := b.admin(c)
	if !ok {
		return err
	}
	return helpers.EditOrSendText(c, msgAddCategory, adminCategoryPick(cbAddCategory))
}

func (b *Bot) handleAdminEdit(c tele.Context) error {
	_, ok, err := b.admin(c)
	if !ok {
		return err
	}
	return helpers.EditOrSendText(c, msgEditCategory, adminCategoryPick(cbEditCategory))
}

func (b *Bot) handleAdminDelete(c tele.Context) error {
	_, ok, err := b.admin(c)
	if !ok {
		return err
	}
	return helpers.EditOrSendText(c, msgDeleteCategory, adminCategoryPick(cbDeleteCategory))
}

// handleAdminExport sends the catalog file as a JSON document.
func (b *Bot) handleAdminExport(c tele.Context) error {
	a, ok, err := b.admin(c)
	if !ok {
		return err
	}
	cat, err := b.catalog.Load(a.ctx)
	if err != nil {
		return b.fail(a.ctx, c, "admin.export.failed", err)
	}
	path, err := b.invoices.ExportCatalog(cat)
	if err != nil {
		return b.fail(a.ctx, c, "admin.export.failed", err)
	}
	if err := helpers.SendDocument(c, path, filepath.Base(path)); err != nil {
		return b.fail(a.ctx, c, "admin.export.failed", err)
	}
	return helpers.SendText(c, msgExportDone)
}

// handleAddCategory starts the add flow; the next text is the new name.
func (b *Bot) handleAddCategory(c tele.Context) error {
	a, ok, err := b.admin(c)
	if !ok {
		return err
	}
	category := callbacks.CallbackPayload(c)
	if err := b.flows.BeginAdd(&a.sess, category); err != nil {
		return nil
	}
	if err := b.save(a.ctx, a.userID, a.sess); err != nil {
		return b.fail(a.ctx, c, "admin.add.failed", err)
	}
	return helpers.EditOrSendText(c, msgEnterName)
}

// handleEditCategory lists the category's services for index targeting.
func (b *Bot) handleEditCategory(c tele.Context) error {
	return b.pickTarget(c, cbEditService, msgEditPick, b.flows.BeginEdit, "admin.edit.failed")
}

// handleDeleteCategory mirrors handleEditCategory for the delete flow.
func (b *Bot) handleDeleteCategory(c tele.Context) error {
	return b.pickTarget(c, cbDeleteService, msgDeletePick, b.flows.BeginDelete, "admin.delete.failed")
}

// pickTarget factors the shared category stage of the edit and delete
// flows: start the flow, then list the category's entries by position.
func (b *Bot) pickTarget(c tele.Context, unique, prompt string, begin func(*session.Session, string) error, failEvent string) error {
	a, ok, err := b.admin(c)
	if !ok {
		return err
	}
	category := callbacks.CallbackPayload(c)
	if err := begin(&a.sess, category); err != nil {
		return nil
	}
	cat, err := b.catalog.Load(a.ctx)
	if err != nil {
		return b.fail(a.ctx, c, failEvent, err)
	}
	if len(cat[category]) == 0 {
		a.sess.ClearFlow()
		if err := b.save(a.ctx, a.userID, a.sess); err != nil {
			return b.fail(a.ctx, c, failEvent, err)
		}
		return helpers.EditOrSendText(c, msgNoServices, adminMenu())
	}
	if err := b.save(a.ctx, a.userID, a.sess); err != nil {
		return b.fail(a.ctx, c, failEvent, err)
	}
	return helpers.EditOrSendText(c, prompt, servicePick(cat, category, unique))
}

// handleEditService records the target index and prompts for the new name.
func (b *Bot) handleEditService(c tele.Context) error {
	a, ok, err := b.admin(c)
	if !ok {
		return err
	}
	index, err := callbacks.PayloadInt(c)
	if err != nil {
		return nil
	}
	if err := b.flows.SetEditIndex(&a.sess, index); err != nil {
		// A stale or out-of-order button press.
		return nil
	}
	if err := b.save(a.ctx, a.userID, a.sess); err != nil {
		return b.fail(a.ctx, c, "admin.edit.failed", err)
	}
	return helpers.EditOrSendText(c, msgEnterNewName)
}

// handleDeleteService records the target and asks for confirmation.
func (b *Bot) handleDeleteService(c tele.Context) error {
	a, ok, err := b.admin(c)
	if !ok {
		return err
	}
	index, err := callbacks.PayloadInt(c)
	if err != nil {
		return nil
	}
	if err := b.flows.SetDeleteIndex(&a.sess, index); err != nil {
		return nil
	}
	cat, err := b.catalog.Load(a.ctx)
	if err != nil {
		return b.fail(a.ctx, c, "admin.delete.failed", err)
	}
	svc, found := cat.At(a.sess.Delete.Category, index)
	if !found {
		a.sess.ClearFlow()
		if err := b.save(a.ctx, a.userID, a.sess); err != nil {
			return b.fail(a.ctx, c, "admin.delete.failed", err)
		}
		return helpers.EditOrSendText(c, msgNoServices, adminMenu())
	}
	if err := b.save(a.ctx, a.userID, a.sess); err != nil {
		return b.fail(a.ctx, c, "admin.delete.failed", err)
	}
	prompt := fmt.Sprintf("Вы уверены, что хотите удалить услугу \"%s\" (%d MDL)?", svc.Name, svc.Price)
	return helpers.EditOrSendText(c, prompt, deleteConfirm())
}

// handleDeleteConfirm removes the pending entry and persists the catalog.
func (b *Bot) handleDeleteConfirm(c tele.Context) error {
	a, ok, err := b.admin(c)
	if !ok {
		return err
	}
	removed, err := b.flows.ConfirmDelete(a.ctx, &a.sess)
	if err != nil {
		if errors.Is(err, flow.ErrNoPrerequisite) {
			return nil
		}
		if saveErr := b.save(a.ctx, a.userID, a.sess); saveErr != nil {
			err = saveErr
		}
		return b.fail(a.ctx, c, "admin.delete.failed", err)
	}
	if err := b.save(a.ctx, a.userID, a.sess); err != nil {
		return b.fail(a.ctx, c, "admin.delete.failed", err)
	}
	logger.Info(a.ctx, "bot", "catalog.service.deleted",
		slog.String("service", removed.Name),
		slog.Int("price", removed.Price),
	)
	if err := helpers.EditOrSendText(c, fmt.Sprintf("✅ Услуга \"%s\" удалена!", removed.Name)); err != nil {
		return err
	}
	return helpers.SendText(c, msgAdminMenu, adminMenu())
}

// handleDeleteCancel aborts the pending delete.
func (b *Bot) handleDeleteCancel(c tele.Context) error {
	a, ok, err := b.admin(c)
	if !ok {
		return err
	}
	b.flows.CancelDelete(&a.sess)
	if err := b.save(a.ctx, a.userID, a.sess); err != nil {
		return b.fail(a.ctx, c, "admin.delete.failed", err)
	}
	if err := helpers.EditOrSendText(c, msgDeleteCancelled); err != nil {
		return err
	}
	return helpers.SendText(c, msgAdminMenu, adminMenu())
}
