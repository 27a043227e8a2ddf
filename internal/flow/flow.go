// Package flow drives the multi-step admin conversations: password entry,
// add-service, edit-service, delete-service. Each flow is a tagged variant
// on the session; free text is interpreted against the active step and the
// catalog is loaded fresh for every mutating action.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/izimoto/paintbot/internal/catalog"
	"github.com/izimoto/paintbot/internal/session"
)

// ErrNoPrerequisite reports a flow action whose preceding step is missing
// from the session, e.g. a stale or out-of-order button press.
var ErrNoPrerequisite = errors.New("flow: missing prerequisite step")

// sentinelKeep is the edit-flow input that leaves a field unchanged.
const sentinelKeep = "-"

// Event tells the caller how a text message advanced the active flow.
type Event int

const (
	// EventNone: no flow consumed the input.
	EventNone Event = iota
	EventLoggedIn
	EventWrongPassword
	EventAddNameStored
	EventAddPriceInvalid
	EventServiceAdded
	EventEditPriceWanted
	EventEditPriceInvalid
	EventServiceEdited
)

// Result carries the event plus the data the reply needs.
type Result struct {
	Event    Event
	Category string
	Service  catalog.Service
}

// Machine advances flows against the catalog store. It holds no per-user
// state of its own; everything lives in the session record.
type Machine struct {
	catalog  catalog.Store
	password string
}

// New builds a machine with the configured admin password.
func New(store catalog.Store, password string) *Machine {
	return &Machine{catalog: store, password: password}
}

// BeginPassword puts the session into password entry. Retries are unlimited
// until the password matches or the flow is cancelled.
func (m *Machine) BeginPassword(sess *session.Session) {
	sess.ClearFlow()
	sess.Flow = session.FlowPassword
}

// BeginAdd starts the add flow for a category; the next text message is
// taken as the new service name.
func (m *Machine) BeginAdd(sess *session.Session, category string) error {
	if !catalog.IsCategory(category) {
		return fmt.Errorf("%w: %s", catalog.ErrUnknownCategory, category)
	}
	sess.ClearFlow()
	sess.Flow = session.FlowAdd
	sess.Add = &session.AddState{Category: category}
	return nil
}

// BeginEdit starts the edit flow at the category stage; an index pick must
// follow before any text is interpreted.
func (m *Machine) BeginEdit(sess *session.Session, category string) error {
	if !catalog.IsCategory(category) {
		return fmt.Errorf("%w: %s", catalog.ErrUnknownCategory, category)
	}
	sess.ClearFlow()
	sess.Flow = session.FlowEdit
	sess.Edit = &session.EditState{Category: category, Index: -1}
	return nil
}

// SetEditIndex records the picked entry and moves the flow to the name step.
func (m *Machine) SetEditIndex(sess *session.Session, index int) error {
	if sess.Flow != session.FlowEdit || sess.Edit == nil {
		return ErrNoPrerequisite
	}
	sess.Edit.Index = index
	sess.Edit.Step = session.EditStepName
	sess.Edit.NewName = ""
	return nil
}

// BeginDelete starts the delete flow at the category stage.
func (m *Machine) BeginDelete(sess *session.Session, category string) error {
	if !catalog.IsCategory(category) {
		return fmt.Errorf("%w: %s", catalog.ErrUnknownCategory, category)
	}
	sess.ClearFlow()
	sess.Flow = session.FlowDelete
	sess.Delete = &session.DeleteState{Category: category, Index: -1}
	return nil
}

// SetDeleteIndex records the entry awaiting confirmation.
func (m *Machine) SetDeleteIndex(sess *session.Session, index int) error {
	if sess.Flow != session.FlowDelete || sess.Delete == nil {
		return ErrNoPrerequisite
	}
	sess.Delete.Index = index
	return nil
}

// ConfirmDelete removes the pending entry from the catalog and persists it.
// The index is resolved against a catalog loaded now, not at pick time; a
// stale index fails with catalog.ErrIndexOutOfRange. The flow clears on
// success and on stale references, but stays active on persistence failures
// so the durable catalog is untouched.
func (m *Machine) ConfirmDelete(ctx context.Context, sess *session.Session) (catalog.Service, error) {
	if sess.Flow != session.FlowDelete || sess.Delete == nil || sess.Delete.Index < 0 {
		return catalog.Service{}, ErrNoPrerequisite
	}
	c, err := m.catalog.Load(ctx)
	if err != nil {
		return catalog.Service{}, err
	}
	removed, err := c.Remove(sess.Delete.Category, sess.Delete.Index)
	if err != nil {
		sess.ClearFlow()
		return catalog.Service{}, err
	}
	if err := m.catalog.Save(ctx, c); err != nil {
		return catalog.Service{}, err
	}
	sess.ClearFlow()
	return removed, nil
}

// CancelDelete aborts the pending delete without touching the catalog.
func (m *Machine) CancelDelete(sess *session.Session) {
	if sess.Flow == session.FlowDelete {
		sess.ClearFlow()
	}
}

// Cancel aborts whichever flow is active and returns it, FlowNone when the
// session was already idle. Selections and the admin flag survive.
func (m *Machine) Cancel(sess *session.Session) session.Flow {
	return sess.ClearFlow()
}

// HandleText interprets a free-text message against the active flow. The
// returned error is a persistence failure; the flow state is kept so the
// user may retry or cancel.
func (m *Machine) HandleText(ctx context.Context, sess *session.Session, text string) (Result, error) {
	text = strings.TrimSpace(text)
	switch sess.Flow {
	case session.FlowPassword:
		return m.handlePassword(sess, text), nil
	case session.FlowAdd:
		return m.handleAdd(ctx, sess, text)
	case session.FlowEdit:
		return m.handleEdit(ctx, sess, text)
	default:
		return Result{}, nil
	}
}

func (m *Machine) handlePassword(sess *session.Session, text string) Result {
	if text != m.password {
		return Result{Event: EventWrongPassword}
	}
	sess.ClearFlow()
	sess.IsAdmin = true
	return Result{Event: EventLoggedIn}
}

func (m *Machine) handleAdd(ctx context.Context, sess *session.Session, text string) (Result, error) {
	st := sess.Add
	if st == nil {
		sess.ClearFlow()
		return Result{}, nil
	}
	if st.Name == "" {
		if text == "" {
			return Result{}, nil
		}
		st.Name = text
		return Result{Event: EventAddNameStored, Category: st.Category}, nil
	}

	price, err := strconv.Atoi(text)
	if err != nil {
		// Re-prompt for the price; the captured name stays.
		return Result{Event: EventAddPriceInvalid, Category: st.Category}, nil
	}
	c, err := m.catalog.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	svc := catalog.Service{Name: st.Name, Price: price}
	if err := c.Append(st.Category, svc); err != nil {
		sess.ClearFlow()
		return Result{}, err
	}
	if err := m.catalog.Save(ctx, c); err != nil {
		return Result{}, err
	}
	category := st.Category
	sess.ClearFlow()
	return Result{Event: EventServiceAdded, Category: category, Service: svc}, nil
}

func (m *Machine) handleEdit(ctx context.Context, sess *session.Session, text string) (Result, error) {
	st := sess.Edit
	if st == nil || st.Index < 0 {
		return Result{}, nil
	}
	switch st.Step {
	case session.EditStepName:
		st.NewName = text
		st.Step = session.EditStepPrice
		return Result{Event: EventEditPriceWanted, Category: st.Category}, nil

	case session.EditStepPrice:
		var newName *string
		if st.NewName != "" && st.NewName != sentinelKeep {
			name := st.NewName
			newName = &name
		}
		var newPrice *int
		if text != sentinelKeep {
			price, err := strconv.Atoi(text)
			if err != nil {
				// Stay on the price step; the pending name is kept.
				return Result{Event: EventEditPriceInvalid, Category: st.Category}, nil
			}
			newPrice = &price
		}

		c, err := m.catalog.Load(ctx)
		if err != nil {
			return Result{}, err
		}
		if err := c.Update(st.Category, st.Index, newName, newPrice); err != nil {
			sess.ClearFlow()
			return Result{}, err
		}
		if err := m.catalog.Save(ctx, c); err != nil {
			return Result{}, err
		}
		svc, _ := c.At(st.Category, st.Index)
		category := st.Category
		sess.ClearFlow()
		return Result{Event: EventServiceEdited, Category: category, Service: svc}, nil

	default:
		return Result{}, nil
	}
}
