package lifecycle_test

import (
	"testing"

	"github.com/Jstali/employee-onboarding-sub000/internal/lifecycle"
	lifecycleerrors "github.com/Jstali/employee-onboarding-sub000/internal/lifecycle/errors"

	"github.com/stretchr/testify/assert"
)

func TestFlagsOf_OnboardedImpliesApprovedAndSubmitted(t *testing.T) {
	for _, s := range lifecycle.Statuses {
		f := lifecycle.FlagsOf(s)
		if f.Onboarded {
			assert.True(t, f.HRApproved, "status %s", s)
			assert.True(t, f.FormSubmitted, "status %s", s)
		}
		if f.HRApproved {
			assert.True(t, f.Onboarded, "status %s", s)
		}
	}
}

func TestDerive(t *testing.T) {
	cases := []struct {
		status   lifecycle.Status
		inRoster bool
		want     lifecycle.State
	}{
		{lifecycle.StatusPending, false, lifecycle.StateNewAccount},
		{lifecycle.StatusFormSubmitted, false, lifecycle.StateFormSubmitted},
		{lifecycle.StatusApproved, false, lifecycle.StateHRApproved},
		{lifecycle.StatusApproved, true, lifecycle.StateInMasterRoster},
		{lifecycle.StatusRejected, false, lifecycle.StateHRRejected},
		{lifecycle.StatusDeleted, true, lifecycle.StateDeleted},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, lifecycle.Derive(tc.status, tc.inRoster), string(tc.status))
	}
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name    string
		state   lifecycle.State
		trigger lifecycle.Trigger
		wantErr error
	}{
		{"new account submits", lifecycle.StateNewAccount, lifecycle.TriggerSubmitForm, nil},
		{"resubmit while pending review", lifecycle.StateFormSubmitted, lifecycle.TriggerSubmitForm, nil},
		{"submit after approval", lifecycle.StateHRApproved, lifecycle.TriggerSubmitForm, lifecycleerrors.ErrAlreadyOnboarded},
		{"approve submitted", lifecycle.StateFormSubmitted, lifecycle.TriggerApprove, nil},
		{"reject submitted", lifecycle.StateFormSubmitted, lifecycle.TriggerReject, nil},
		{"approve without form", lifecycle.StateNewAccount, lifecycle.TriggerApprove, lifecycleerrors.ErrFormNotSubmitted},
		{"re-approve onboarded", lifecycle.StateHRApproved, lifecycle.TriggerApprove, lifecycleerrors.ErrAlreadyOnboarded},
		{"re-approve roster member", lifecycle.StateInMasterRoster, lifecycle.TriggerApprove, lifecycleerrors.ErrAlreadyOnboarded},
		{"reject onboarded", lifecycle.StateHRApproved, lifecycle.TriggerReject, lifecycleerrors.ErrAlreadyOnboarded},
		{"approve rejected", lifecycle.StateHRRejected, lifecycle.TriggerApprove, lifecycleerrors.ErrApplicationRejected},
		{"add approved to master", lifecycle.StateHRApproved, lifecycle.TriggerAddToMaster, nil},
		{"add twice to master", lifecycle.StateInMasterRoster, lifecycle.TriggerAddToMaster, lifecycleerrors.ErrAlreadyInRoster},
		{"add submitted to master", lifecycle.StateFormSubmitted, lifecycle.TriggerAddToMaster, lifecycleerrors.ErrNotOnboarded},
		{"mark attendance onboarded", lifecycle.StateHRApproved, lifecycle.TriggerMarkAttendance, nil},
		{"mark attendance in roster", lifecycle.StateInMasterRoster, lifecycle.TriggerMarkAttendance, nil},
		{"mark attendance new", lifecycle.StateNewAccount, lifecycle.TriggerMarkAttendance, lifecycleerrors.ErrNotOnboarded},
		{"delete rejected", lifecycle.StateHRRejected, lifecycle.TriggerDelete, nil},
		{"anything on deleted", lifecycle.StateDeleted, lifecycle.TriggerDelete, lifecycleerrors.ErrAccountDeleted},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := lifecycle.Check(tc.state, tc.trigger)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

// Every status a conditional update accepts must also pass the guard,
// otherwise the SQL and the in-memory rules disagree.
func TestAllowedFromAgreesWithCheck(t *testing.T) {
	triggers := []lifecycle.Trigger{
		lifecycle.TriggerSubmitForm,
		lifecycle.TriggerApprove,
		lifecycle.TriggerReject,
		lifecycle.TriggerMarkAttendance,
		lifecycle.TriggerDelete,
	}
	for _, tr := range triggers {
		allowed := map[lifecycle.Status]bool{}
		for _, s := range lifecycle.AllowedFrom(tr) {
			allowed[s] = true
		}
		for _, s := range lifecycle.Statuses {
			err := lifecycle.Check(lifecycle.Derive(s, false), tr)
			assert.Equal(t, allowed[s], err == nil, "trigger %s status %s", tr, s)
		}
	}
}

func TestTargetKeepsInvariant(t *testing.T) {
	for _, tr := range []lifecycle.Trigger{lifecycle.TriggerSubmitForm, lifecycle.TriggerApprove, lifecycle.TriggerReject} {
		to, ok := lifecycle.Target(tr)
		assert.True(t, ok)
		f := lifecycle.FlagsOf(to)
		assert.True(t, f.FormSubmitted, "trigger %s", tr)
	}

	approved, _ := lifecycle.Target(lifecycle.TriggerApprove)
	assert.Equal(t, lifecycle.Flags{FormSubmitted: true, HRApproved: true, Onboarded: true}, lifecycle.FlagsOf(approved))
}

func TestReviewStatus(t *testing.T) {
	assert.Equal(t, lifecycle.ReviewPending, lifecycle.ReviewStatus(lifecycle.StatusFormSubmitted))
	assert.Equal(t, lifecycle.ReviewApproved, lifecycle.ReviewStatus(lifecycle.StatusApproved))
	assert.Equal(t, lifecycle.ReviewRejected, lifecycle.ReviewStatus(lifecycle.StatusRejected))
}
