// Package bot wires the ordering and admin conversations onto the Telegram
// transport: command and callback handlers, keyboards, and the free-text
// dispatch into the active flow.
package bot

import (
	"context"
	"errors"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/izimoto/paintbot/core/logger"
	tg "github.com/izimoto/paintbot/core/telegram"
	"github.com/izimoto/paintbot/core/telegram/callbacks"
	"github.com/izimoto/paintbot/core/telegram/commands"
	"github.com/izimoto/paintbot/core/telegram/helpers"
	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/flow"
	"github.com/izimoto/paintbot/internal/invoice"
	"github.com/izimoto/paintbot/internal/order"
	"github.com/izimoto/paintbot/internal/session"
)

var errNoSender = errors.New("bot: update has no sender")

// Bot holds the handler dependencies. One instance serves all users; all
// per-user state lives in the session store.
type Bot struct {
	sessions session.Store
	catalog  catalog.Store
	flows    *flow.Machine
	orders   *order.Accumulator
	invoices *invoice.Generator
}

// New assembles the bot over its stores and engines.
func New(sessions session.Store, catalogStore catalog.Store, flows *flow.Machine, orders *order.Accumulator, invoices *invoice.Generator) *Bot {
	return &Bot{
		sessions: sessions,
		catalog:  catalogStore,
		flows:    flows,
		orders:   orders,
		invoices: invoices,
	}
}

// Register binds every command and callback onto the registry.
func (b *Bot) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{Handler: b.handleStart, Description: descStart})
	reg.RegisterCommand("/admin", commands.Command{Handler: b.handleAdmin, Description: descAdmin})
	reg.RegisterCommand("/logout", commands.Command{Handler: b.handleLogout, Description: descLogout})
	reg.RegisterCommand("/cancel", commands.Command{Handler: b.handleCancel, Description: descCancel})

	reg.RegisterCallback(cbCategory, b.handleCategory)
	reg.RegisterCallback(cbService, b.handleService)
	reg.RegisterCallback(cbClear, b.handleClear)
	reg.RegisterCallback(cbFinish, b.handleFinish)
	reg.RegisterCallback(cbPDF, b.handlePDF)

	reg.RegisterCallback(cbAdminMenu, b.handleAdminMenu)
	reg.RegisterCallback(cbAdminView, b.handleAdminView)
	reg.RegisterCallback(cbAdminAdd, b.handleAdminAdd)
	reg.RegisterCallback(cbAdminEdit, b.handleAdminEdit)
	reg.RegisterCallback(cbAdminDelete, b.handleAdminDelete)
	reg.RegisterCallback(cbAdminExport, b.handleAdminExport)

	reg.RegisterCallback(cbAddCategory, b.handleAddCategory)
	reg.RegisterCallback(cbEditCategory, b.handleEditCategory)
	reg.RegisterCallback(cbDeleteCategory, b.handleDeleteCategory)
	reg.RegisterCallback(cbEditService, b.handleEditService)
	reg.RegisterCallback(cbDeleteService, b.handleDeleteService)
	reg.RegisterCallback(cbDeleteConfirm, b.handleDeleteConfirm)
	reg.RegisterCallback(cbDeleteCancel, b.handleDeleteCancel)

	reg.SetCallbackNotFound(b.handleUnknownCallback)
	reg.SetTextFallback(b.handleUnknownText)
}

// handleUnknownCallback answers buttons from messages that outlived their
// handlers, so the client spinner stops.
func (b *Bot) handleUnknownCallback(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	logger.Debug(ctx, "bot", "callback.unknown",
		slog.String("key", callbacks.CallbackKey(c)),
	)
	return helpers.Respond(c, msgUnknownAction)
}

// handleUnknownText re-shows the menu matching the sender's role when free
// text arrives outside any command or flow.
func (b *Bot) handleUnknownText(c tele.Context) error {
	ctx, _, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "text.unknown.failed", err)
	}
	if sess.IsAdmin {
		return helpers.SendText(c, msgAdminMenu, adminMenu())
	}
	return helpers.SendText(c, msgStart, categoryMenu())
}

// load fetches the sender's session along with the request context.
func (b *Bot) load(c tele.Context) (context.Context, int64, session.Session, error) {
	ctx := helpers.BuildContext(c)
	sender := c.Sender()
	if sender == nil {
		return ctx, 0, session.Session{}, errNoSender
	}
	sess, err := b.sessions.Get(ctx, sender.ID)
	return ctx, sender.ID, sess, err
}

// save persists the session, logging failures with the user attached.
func (b *Bot) save(ctx context.Context, userID int64, sess session.Session) error {
	if err := b.sessions.Set(ctx, userID, sess); err != nil {
		logger.Error(ctx, "bot", "session.save.failed",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}

// fail logs the error and sends the generic failure reply. Per-event errors
// stop here; they never propagate past the handler.
func (b *Bot) fail(ctx context.Context, c tele.Context, event string, err error) error {
	logger.Error(ctx, "bot", event, slog.String("err", err.Error()))
	return helpers.SendText(c, msgError)
}

// InProgress reports whether the sender is inside a multi-step flow, making
// free text theirs to consume.
func (b *Bot) InProgress(c tele.Context) bool {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		if !errors.Is(err, errNoSender) {
			logger.Error(ctx, "bot", "session.load.failed",
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()),
			)
		}
		return false
	}
	return sess.InFlow()
}

// HandleText feeds a free-text message into the sender's active flow and
// renders the resulting reply.
func (b *Bot) HandleText(c tele.Context) error {
	ctx, userID, sess, err := b.load(c)
	if err != nil {
		return b.fail(ctx, c, "flow.text.failed", err)
	}

	res, err := b.flows.HandleText(ctx, &sess, c.Text())
	if err != nil {
		// Catalog failure: the durable state is unchanged, keep whatever
		// flow state survived so the user can retry or cancel.
		if saveErr := b.save(ctx, userID, sess); saveErr != nil {
			err = saveErr
		}
		return b.fail(ctx, c, "flow.text.failed", err)
	}
	if err := b.save(ctx, userID, sess); err != nil {
		return b.fail(ctx, c, "flow.text.failed", err)
	}

	logger.Debug(ctx, "bot", "flow.text.handled",
		slog.String("flow", string(sess.Flow)),
		slog.Int("outcome", int(res.Event)),
	)

	switch res.Event {
	case flow.EventLoggedIn:
		if err := helpers.SendText(c, msgLoginSuccess); err != nil {
			return err
		}
		return helpers.SendText(c, msgAdminMenu, adminMenu())
	case flow.EventWrongPassword:
		return helpers.SendText(c, msgWrongPassword)
	case flow.EventAddNameStored:
		return helpers.SendText(c, msgEnterPrice)
	case flow.EventAddPriceInvalid:
		return helpers.SendText(c, msgBadPrice)
	case flow.EventServiceAdded:
		if err := helpers.SendText(c, msgServiceAdded); err != nil {
			return err
		}
		return helpers.SendText(c, msgAdminMenu, adminMenu())
	case flow.EventEditPriceWanted:
		return helpers.SendText(c, msgEnterNewPrice)
	case flow.EventEditPriceInvalid:
		return helpers.SendText(c, msgBadPriceEdit)
	case flow.EventServiceEdited:
		if err := helpers.SendText(c, msgServiceEdited); err != nil {
			return err
		}
		return helpers.SendText(c, msgAdminMenu, adminMenu())
	default:
		return nil
	}
}
