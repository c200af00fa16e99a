package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Status
		wantErr  bool
	}{
		{name: "todo", input: "TODO", expected: StatusTodo},
		{name: "in progress", input: "IN_PROGRESS", expected: StatusInProgress},
		{name: "done", input: "DONE", expected: StatusDone},
		{name: "lower case is normalised", input: "done", expected: StatusDone},
		{name: "mixed case is normalised", input: "In_Progress", expected: StatusInProgress},
		{name: "unknown", input: "BLOCKED", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := ParseStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestValidateTransition(t *testing.T) {
	all := []Status{StatusTodo, StatusInProgress, StatusDone}
	allowed := map[[2]Status]bool{
		{StatusTodo, StatusInProgress}: true,
		{StatusInProgress, StatusDone}: true,
		{StatusInProgress, StatusTodo}: true,
		{StatusDone, StatusTodo}:       true,
	}

	// Every pair, including self-transitions, so nothing slips through when
	// the table changes.
	for _, from := range all {
		for _, to := range all {
			from, to := from, to
			t.Run(string(from)+" to "+string(to), func(t *testing.T) {
				err := ValidateTransition(from, to)
				if allowed[[2]Status{from, to}] {
					assert.NoError(t, err)
					return
				}
				require.Error(t, err)
				assert.True(t, cerr.IsCode(err, cerr.FailedPrecondition))
			})
		}
	}
}

func TestValidateTransitionMessage(t *testing.T) {
	err := ValidateTransition(StatusTodo, StatusDone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot transition from TODO to DONE")
	assert.Contains(t, err.Error(), "IN_PROGRESS")
}
