// Package lifecycle holds the onboarding state machine. A user's status
// column is the single source of truth; the boolean flags and the form
// review status exposed over the API are projections of it.
package lifecycle

import (
	lifecycleerrors "github.com/Jstali/employee-onboarding-sub000/internal/lifecycle/errors"
)

type Status string

const (
	StatusPending       Status = "pending"
	StatusFormSubmitted Status = "form_submitted"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusDeleted       Status = "deleted"
)

var Statuses = []Status{
	StatusPending,
	StatusFormSubmitted,
	StatusApproved,
	StatusRejected,
	StatusDeleted,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

type State string

const (
	StateNewAccount     State = "NEW_ACCOUNT"
	StateFormSubmitted  State = "FORM_SUBMITTED"
	StateHRApproved     State = "HR_APPROVED"
	StateHRRejected     State = "HR_REJECTED"
	StateInMasterRoster State = "IN_MASTER_ROSTER"
	StateDeleted        State = "DELETED"
)

type Trigger string

const (
	TriggerSubmitForm     Trigger = "submit_form"
	TriggerApprove        Trigger = "approve"
	TriggerReject         Trigger = "reject"
	TriggerAddToMaster    Trigger = "add_to_master"
	TriggerDelete         Trigger = "delete"
	TriggerMarkAttendance Trigger = "mark_attendance"
)

// Flags are the legacy boolean projections of a status.
type Flags struct {
	FormSubmitted bool `json:"form_submitted"`
	HRApproved    bool `json:"hr_approved"`
	Onboarded     bool `json:"onboarded"`
}

// FlagsOf mirrors the generated columns on the users table.
func FlagsOf(s Status) Flags {
	switch s {
	case StatusFormSubmitted, StatusRejected:
		return Flags{FormSubmitted: true}
	case StatusApproved:
		return Flags{FormSubmitted: true, HRApproved: true, Onboarded: true}
	default:
		return Flags{}
	}
}

// Derive combines a user's status with roster membership.
func Derive(s Status, inRoster bool) State {
	switch s {
	case StatusFormSubmitted:
		return StateFormSubmitted
	case StatusApproved:
		if inRoster {
			return StateInMasterRoster
		}
		return StateHRApproved
	case StatusRejected:
		return StateHRRejected
	case StatusDeleted:
		return StateDeleted
	default:
		return StateNewAccount
	}
}

// Check reports whether trigger may fire from state, returning the typed
// guard error when it may not.
func Check(state State, t Trigger) error {
	if state == StateDeleted {
		return lifecycleerrors.ErrAccountDeleted
	}
	if t == TriggerDelete {
		return nil
	}
	if state == StateHRRejected {
		return lifecycleerrors.ErrApplicationRejected
	}

	switch t {
	case TriggerSubmitForm:
		switch state {
		case StateNewAccount, StateFormSubmitted:
			return nil
		default:
			return lifecycleerrors.ErrAlreadyOnboarded
		}

	case TriggerApprove, TriggerReject:
		switch state {
		case StateFormSubmitted:
			return nil
		case StateNewAccount:
			return lifecycleerrors.ErrFormNotSubmitted
		default:
			return lifecycleerrors.ErrAlreadyOnboarded
		}

	case TriggerAddToMaster:
		switch state {
		case StateHRApproved:
			return nil
		case StateInMasterRoster:
			return lifecycleerrors.ErrAlreadyInRoster
		default:
			return lifecycleerrors.ErrNotOnboarded
		}

	case TriggerMarkAttendance:
		switch state {
		case StateHRApproved, StateInMasterRoster:
			return nil
		default:
			return lifecycleerrors.ErrNotOnboarded
		}
	}

	return lifecycleerrors.ErrUnknownTransition
}

// AllowedFrom lists the statuses a conditional update for t may match.
func AllowedFrom(t Trigger) []Status {
	switch t {
	case TriggerSubmitForm:
		return []Status{StatusPending, StatusFormSubmitted}
	case TriggerApprove, TriggerReject:
		return []Status{StatusFormSubmitted}
	case TriggerAddToMaster, TriggerMarkAttendance:
		return []Status{StatusApproved}
	case TriggerDelete:
		return []Status{StatusPending, StatusFormSubmitted, StatusApproved, StatusRejected}
	default:
		return nil
	}
}

// Target is the status a status-changing trigger moves the user to.
func Target(t Trigger) (Status, bool) {
	switch t {
	case TriggerSubmitForm:
		return StatusFormSubmitted, true
	case TriggerApprove:
		return StatusApproved, true
	case TriggerReject:
		return StatusRejected, true
	case TriggerDelete:
		return StatusDeleted, true
	default:
		return "", false
	}
}

const (
	ReviewPending  = "pending"
	ReviewApproved = "approved"
	ReviewRejected = "rejected"
)

// ReviewStatus is the onboarding form's review status as seen by clients.
func ReviewStatus(s Status) string {
	switch s {
	case StatusApproved:
		return ReviewApproved
	case StatusRejected:
		return ReviewRejected
	default:
		return ReviewPending
	}
}

// StatusesForReview maps a review status filter back to user statuses.
func StatusesForReview(review string) []Status {
	switch review {
	case ReviewApproved:
		return []Status{StatusApproved}
	case ReviewRejected:
		return []Status{StatusRejected}
	case ReviewPending:
		return []Status{StatusFormSubmitted}
	default:
		return []Status{StatusFormSubmitted, StatusApproved, StatusRejected}
	}
}
