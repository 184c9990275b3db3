// Package statusflow implements the document status machine shared by every
// task and document type. Transition rules are declarative data: a lookup
// from (kind, action) to the required predecessor state and the resulting
// state. Services never compare status strings directly; they ask the table.
package statusflow

import (
	"stockyard/internal/core/apperror"
)

// Kind identifies a document type with its own transition table.
type Kind string

const (
	KindASN        Kind = "asn"
	KindDN         Kind = "dn"
	KindSorting    Kind = "sorting"
	KindPicking    Kind = "picking"
	KindPacking    Kind = "packing"
	KindDelivery   Kind = "delivery"
	KindCycleCount Kind = "cycle_count"
	KindAdjustment Kind = "adjustment"
)

// State is a document status value. Not every state applies to every kind.
type State string

const (
	StatePending    State = "pending"
	StateReceived   State = "received"
	StateProgress   State = "progress" // DN only
	StateInProgress State = "in_progress"
	StateApproved   State = "approved"
	StateShipping   State = "shipping"
	StateSigned     State = "signed"
	StateCompleted  State = "completed"
	StateClosed     State = "closed"
)

// Action is a named transition trigger.
type Action string

const (
	ActionReceive  Action = "receive"
	ActionProcess  Action = "process"
	ActionApprove  Action = "approve"
	ActionShip     Action = "ship"
	ActionSign     Action = "sign"
	ActionComplete Action = "complete"
	ActionClose    Action = "close"
)

// rule describes one guarded transition: from is the exact required
// predecessor state, to is the resulting state.
type rule struct {
	from State
	to   State
}

// transitions is the complete machine. Transitions are forward-only; the
// only early exits are the explicit close paths listed here.
var transitions = map[Kind]map[Action]rule{
	KindASN: {
		ActionReceive:  {StatePending, StateReceived},
		ActionComplete: {StateReceived, StateCompleted},
		ActionClose:    {StatePending, StateClosed},
	},
	KindDN: {
		ActionProcess: {StatePending, StateProgress},
		ActionClose:   {StateProgress, StateClosed},
	},
	KindSorting: {
		ActionProcess:  {StatePending, StateInProgress},
		ActionComplete: {StateInProgress, StateCompleted},
	},
	KindPicking: {
		ActionProcess:  {StatePending, StateInProgress},
		ActionComplete: {StateInProgress, StateCompleted},
	},
	KindPacking: {
		ActionProcess:  {StatePending, StateInProgress},
		ActionComplete: {StateInProgress, StateCompleted},
	},
	KindDelivery: {
		ActionProcess: {StatePending, StateInProgress},
		ActionShip:    {StateInProgress, StateShipping},
		ActionSign:    {StateShipping, StateSigned},
	},
	KindCycleCount: {
		ActionProcess:  {StatePending, StateInProgress},
		ActionComplete: {StateInProgress, StateCompleted},
	},
	KindAdjustment: {
		ActionApprove:  {StatePending, StateApproved},
		ActionComplete: {StateApproved, StateCompleted},
	},
}

// terminal states admit no further transitions or field mutation.
var terminal = map[State]bool{
	StateCompleted: true,
	StateClosed:    true,
	StateSigned:    true,
}

// Next returns the state reached by applying action to a document of the
// given kind in state from. Unknown actions and wrong predecessor states
// fail with an invalid-transition error carrying the stable business code.
func Next(kind Kind, from State, action Action) (State, error) {
	table, ok := transitions[kind]
	if !ok {
		return "", apperror.NewValidation("unknown document kind").
			WithDetail("kind", string(kind))
	}

	r, ok := table[action]
	if !ok {
		return "", apperror.NewInvalidTransition(string(kind), string(from), string(action))
	}

	if from != r.from {
		return "", apperror.NewInvalidTransition(string(kind), string(from), string(action))
	}

	return r.to, nil
}

// IsTerminal reports whether state admits no further mutation.
func IsTerminal(state State) bool {
	return terminal[state]
}

// Known reports whether state is a valid status value for the given kind.
func Known(kind Kind, state State) bool {
	table, ok := transitions[kind]
	if !ok {
		return false
	}
	if state == StatePending {
		return true
	}
	for _, r := range table {
		if r.from == state || r.to == state {
			return true
		}
	}
	return false
}

// Parse validates a raw status string against the kind's state set.
func Parse(kind Kind, raw string) (State, error) {
	s := State(raw)
	if !Known(kind, s) {
		return "", apperror.NewValidation("invalid status value").
			WithBusinessCode(apperror.BizInvalidStatusValue).
			WithField("status").
			WithDetail("kind", string(kind)).
			WithDetail("status", raw)
	}
	return s, nil
}
