package statusflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
)

func TestNext_HappyPaths(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		from   State
		action Action
		want   State
	}{
		{"asn receive", KindASN, StatePending, ActionReceive, StateReceived},
		{"asn complete", KindASN, StateReceived, ActionComplete, StateCompleted},
		{"asn close", KindASN, StatePending, ActionClose, StateClosed},
		{"dn process", KindDN, StatePending, ActionProcess, StateProgress},
		{"dn close", KindDN, StateProgress, ActionClose, StateClosed},
		{"sorting process", KindSorting, StatePending, ActionProcess, StateInProgress},
		{"picking complete", KindPicking, StateInProgress, ActionComplete, StateCompleted},
		{"packing complete", KindPacking, StateInProgress, ActionComplete, StateCompleted},
		{"delivery ship", KindDelivery, StateInProgress, ActionShip, StateShipping},
		{"delivery sign", KindDelivery, StateShipping, ActionSign, StateSigned},
		{"cycle count process", KindCycleCount, StatePending, ActionProcess, StateInProgress},
		{"adjustment approve", KindAdjustment, StatePending, ActionApprove, StateApproved},
		{"adjustment complete", KindAdjustment, StateApproved, ActionComplete, StateCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.kind, tt.from, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_WrongPredecessor(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		from   State
		action Action
	}{
		{"asn complete from pending", KindASN, StatePending, ActionComplete},
		{"asn close after receive", KindASN, StateReceived, ActionClose},
		{"asn receive twice", KindASN, StateReceived, ActionReceive},
		{"adjustment complete unapproved", KindAdjustment, StatePending, ActionComplete},
		{"adjustment approve twice", KindAdjustment, StateApproved, ActionApprove},
		{"picking complete from pending", KindPicking, StatePending, ActionComplete},
		{"delivery sign before shipping", KindDelivery, StateInProgress, ActionSign},
		{"no transition out of completed", KindSorting, StateCompleted, ActionComplete},
		{"no transition out of closed", KindASN, StateClosed, ActionReceive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Next(tt.kind, tt.from, tt.action)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
			assert.Equal(t, apperror.BizInvalidTransition, appErr.BusinessCode)
		})
	}
}

func TestNext_UnknownAction(t *testing.T) {
	_, err := Next(KindSorting, StatePending, ActionSign)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StateCompleted))
	assert.True(t, IsTerminal(StateClosed))
	assert.True(t, IsTerminal(StateSigned))
	assert.False(t, IsTerminal(StatePending))
	assert.False(t, IsTerminal(StateInProgress))
	assert.False(t, IsTerminal(StateApproved))
}

func TestParse(t *testing.T) {
	s, err := Parse(KindASN, "received")
	require.NoError(t, err)
	assert.Equal(t, StateReceived, s)

	_, err = Parse(KindASN, "in_progress")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizInvalidStatusValue, appErr.BusinessCode)

	_, err = Parse(KindDelivery, "bogus")
	require.Error(t, err)
}
