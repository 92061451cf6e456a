package checkout

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		Name:    "Jan Kowalski",
		Email:   "jan@example.com",
		Address: "ul. Klawiszowa 7, Warszawa",
		Card:    "4111 1111 1111 1111",
	}
}

func TestSubmitValidation(t *testing.T) {
	m := NewMachine(nil, time.Hour, time.Hour)

	cases := []struct {
		name string
		form Form
	}{
		{"missing name", Form{Email: "a@b", Address: "c", Card: "d"}},
		{"missing email", Form{Name: "a", Address: "c", Card: "d"}},
		{"missing address", Form{Name: "a", Email: "a@b", Card: "d"}},
		{"missing card", Form{Name: "a", Email: "a@b", Address: "c"}},
		{"whitespace only", Form{Name: "  ", Email: "a@b", Address: "c", Card: "d"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := m.Submit(tc.form)
			assert.ErrorIs(t, err, ErrFieldRequired)
			assert.Equal(t, StageCollecting, m.Stage())
		})
	}
}

func TestSubmitTransitionsWithinOneTick(t *testing.T) {
	m := NewMachine(nil, time.Hour, time.Hour)

	require.NoError(t, m.Submit(validForm()))
	assert.Equal(t, StageSubmitting, m.Stage())

	// Double submit while in flight is rejected.
	assert.ErrorIs(t, m.Submit(validForm()), ErrInvalidStage)
}

func TestFullFlowFiresCompletionAndResets(t *testing.T) {
	var completed atomic.Int32
	m := NewMachine(func() { completed.Add(1) }, 10*time.Millisecond, 10*time.Millisecond)

	require.NoError(t, m.Submit(validForm()))

	require.Eventually(t, func() bool {
		return m.Stage() == StageConfirmed || completed.Load() > 0
	}, time.Second, time.Millisecond)

	require.Eventually(t, func() bool { return completed.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, StageCollecting, m.Stage())
	assert.Equal(t, Form{}, m.Form(), "form fields are blanked after completion")
}

func TestCancelDuringSubmittingFiresNoGhostCompletion(t *testing.T) {
	var completed atomic.Int32
	m := NewMachine(func() { completed.Add(1) }, 20*time.Millisecond, 10*time.Millisecond)

	require.NoError(t, m.Submit(validForm()))
	m.Cancel()

	assert.Equal(t, StageCollecting, m.Stage())
	assert.Equal(t, Form{}, m.Form())

	// Wait past both delays: the stale timers must not advance anything.
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), completed.Load())
	assert.Equal(t, StageCollecting, m.Stage())
}

func TestCancelDuringConfirmedFiresNoGhostCompletion(t *testing.T) {
	var completed atomic.Int32
	m := NewMachine(func() { completed.Add(1) }, 5*time.Millisecond, 50*time.Millisecond)

	require.NoError(t, m.Submit(validForm()))
	require.Eventually(t, func() bool { return m.Stage() == StageConfirmed },
		time.Second, time.Millisecond)

	m.Cancel()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), completed.Load())
}

func TestFlowReusableAfterCompletion(t *testing.T) {
	var completed atomic.Int32
	m := NewMachine(func() { completed.Add(1) }, 5*time.Millisecond, 5*time.Millisecond)

	require.NoError(t, m.Submit(validForm()))
	require.Eventually(t, func() bool { return completed.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, m.Submit(validForm()))
	require.Eventually(t, func() bool { return completed.Load() == 2 }, time.Second, time.Millisecond)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "collecting", StageCollecting.String())
	assert.Equal(t, "submitting", StageSubmitting.String())
	assert.Equal(t, "confirmed", StageConfirmed.String())
}
