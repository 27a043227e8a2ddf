// Package session holds the per-user conversation state: admin flag, the
// active multi-step flow with its partial input, and the order selections.
// One record per Telegram user, keyed by user ID.
package session

// Flow names the multi-step conversation a user is currently inside.
// The zero value means no flow is active and free text is ignored.
type Flow string

const (
	FlowNone     Flow = ""
	FlowPassword Flow = "password"
	FlowAdd      Flow = "add"
	FlowEdit     Flow = "edit"
	FlowDelete   Flow = "delete"
)

// EditStep tracks which field of the edit flow is awaited next.
type EditStep string

const (
	EditStepName  EditStep = "name"
	EditStepPrice EditStep = "price"
)

// AddState carries the partial input of an add flow. Name stays empty until
// the first text message arrives, then the flow waits for a price.
type AddState struct {
	Category string `json:"category"`
	Name     string `json:"name,omitempty"`
}

// EditState carries the edit flow position: the target entry plus the new
// name captured on the first step. Sentinel input keeps fields unchanged,
// which NewName records verbatim until the price step resolves it.
type EditState struct {
	Category string   `json:"category"`
	Index    int      `json:"index"`
	Step     EditStep `json:"step"`
	NewName  string   `json:"new_name,omitempty"`
}

// DeleteState points at the entry awaiting delete confirmation.
type DeleteState struct {
	Category string `json:"category"`
	Index    int    `json:"index"`
}

// Session is the full per-user record. The zero value is a valid fresh
// session: anonymous, idle, nothing selected.
type Session struct {
	IsAdmin bool `json:"is_admin,omitempty"`
	Flow    Flow `json:"flow,omitempty"`

	Add    *AddState    `json:"add,omitempty"`
	Edit   *EditState   `json:"edit,omitempty"`
	Delete *DeleteState `json:"delete,omitempty"`

	// Selections maps category -> service index -> quantity. Entries for
	// every browsed category are kept so switching categories loses nothing.
	Selections map[string]map[int]int `json:"selections,omitempty"`

	// CurrentCategory is the list the user is browsing right now.
	CurrentCategory string `json:"current_category,omitempty"`
}

// InFlow reports whether a multi-step flow is waiting for input.
func (s *Session) InFlow() bool {
	return s.Flow != FlowNone
}

// ClearFlow drops the active flow and all of its partial input, leaving the
// admin flag and selections untouched. Returns the flow that was active.
func (s *Session) ClearFlow() Flow {
	active := s.Flow
	s.Flow = FlowNone
	s.Add = nil
	s.Edit = nil
	s.Delete = nil
	return active
}

// Quantity returns the selected quantity for a service position, zero when
// never selected.
func (s *Session) Quantity(category string, index int) int {
	if s.Selections == nil {
		return 0
	}
	return s.Selections[category][index]
}

// Bump increments a service position's quantity by one and returns the new
// value, allocating the nested maps on first use.
func (s *Session) Bump(category string, index int) int {
	if s.Selections == nil {
		s.Selections = map[string]map[int]int{}
	}
	if s.Selections[category] == nil {
		s.Selections[category] = map[int]int{}
	}
	s.Selections[category][index]++
	return s.Selections[category][index]
}

// ClearSelections empties the order across all categories but keeps the
// browsing position.
func (s *Session) ClearSelections() {
	s.Selections = nil
}

// Reset wipes the whole record back to a fresh anonymous session.
func (s *Session) Reset() {
	*s = Session{}
}
