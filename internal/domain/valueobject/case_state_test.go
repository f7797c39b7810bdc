package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/collections/internal/domain/valueobject"
)

func TestNewCaseState(t *testing.T) {
	tests := []struct {
		in      string
		want    valueobject.CaseState
		wantErr bool
	}{
		{in: "NOTICE_DUE", want: valueobject.CaseStateNoticeDue},
		{in: "seizure", want: valueobject.CaseStateSeizure},
		{in: " Completed ", want: valueobject.CaseStateCompleted},
		{in: "", wantErr: true},
		{in: "CLOSED", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := valueobject.NewCaseState(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want))
		})
	}
}

func TestCaseState_IsTerminal(t *testing.T) {
	for _, s := range valueobject.AllCaseStates() {
		assert.Equal(t, s.Equal(valueobject.CaseStateCompleted), s.IsTerminal(), s.String())
	}
}

func TestAllCaseStates_LifecycleOrder(t *testing.T) {
	states := valueobject.AllCaseStates()
	require.Len(t, states, 9)
	assert.Equal(t, valueobject.CaseStateNoticeDue, states[0])
	assert.Equal(t, valueobject.CaseStateCompleted, states[8])

	states[0] = valueobject.CaseStateSeizure
	assert.Equal(t, valueobject.CaseStateNoticeDue, valueobject.AllCaseStates()[0], "returned slice must be a copy")
}

func TestCaseState_Next(t *testing.T) {
	next, ok := valueobject.CaseStateNoticeDue.Next()
	require.True(t, ok)
	assert.Equal(t, valueobject.CaseStateNoticeSent, next)

	next, ok = valueobject.CaseStateWritOfExecution.Next()
	require.True(t, ok)
	assert.Equal(t, valueobject.CaseStateCompleted, next)

	_, ok = valueobject.CaseStateCompleted.Next()
	assert.False(t, ok)

	_, ok = valueobject.CaseState{}.Next()
	assert.False(t, ok)
}

func TestMustCaseState_Panics(t *testing.T) {
	assert.Panics(t, func() { valueobject.MustCaseState("bogus") })
}
