package suggest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BhanuIITMandi/SprintSync/internal/task"
)

func TestStubDraftDescription(t *testing.T) {
	got := StubDraftDescription("Login page")

	assert.True(t, strings.HasPrefix(got, "## Login page\n"))
	assert.Contains(t, got, "**Objective**: Implement the 'Login page' feature.")
	assert.Contains(t, got, "**Acceptance Criteria**:")
	assert.Contains(t, got, "- [ ] Core functionality is implemented and tested")
	assert.Contains(t, got, "**Estimated effort**")

	// Same input, same output.
	assert.Equal(t, got, StubDraftDescription("Login page"))
}

func TestStubDailyPlan(t *testing.T) {
	today := time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)

	newTask := func(title string, status task.Status, minutes int) *task.Task {
		return &task.Task{Title: title, Status: status, TotalMinutes: minutes}
	}

	t.Run("no pending tasks", func(t *testing.T) {
		got := StubDailyPlan(nil, today)
		assert.Contains(t, got, "# Daily Plan — 2026-03-09")
		assert.Contains(t, got, "All caught up! No pending tasks.")
		assert.NotContains(t, got, "Continue In-Progress")
		assert.NotContains(t, got, "Pick Up Next")
	})

	t.Run("done tasks count as nothing pending", func(t *testing.T) {
		got := StubDailyPlan([]*task.Task{newTask("Shipped", task.StatusDone, 120)}, today)
		assert.Contains(t, got, "All caught up! No pending tasks.")
		assert.NotContains(t, got, "Shipped")
	})

	t.Run("in progress listed with minutes", func(t *testing.T) {
		got := StubDailyPlan([]*task.Task{
			newTask("Set up CI", task.StatusInProgress, 45),
			newTask("Review PRs", task.StatusTodo, 0),
		}, today)
		assert.Contains(t, got, "Continue In-Progress")
		assert.Contains(t, got, "- **Set up CI** (45 min logged)")
		assert.Contains(t, got, "Pick Up Next")
		assert.Contains(t, got, "- Review PRs")
		assert.NotContains(t, got, "All caught up")
	})

	t.Run("at most three todo pickups in order", func(t *testing.T) {
		got := StubDailyPlan([]*task.Task{
			newTask("first", task.StatusTodo, 0),
			newTask("second", task.StatusTodo, 0),
			newTask("third", task.StatusTodo, 0),
			newTask("fourth", task.StatusTodo, 0),
			newTask("fifth", task.StatusTodo, 0),
		}, today)
		require.Contains(t, got, "- first")
		assert.Contains(t, got, "- second")
		assert.Contains(t, got, "- third")
		assert.NotContains(t, got, "- fourth")
		assert.NotContains(t, got, "- fifth")
		assert.Less(t, strings.Index(got, "- first"), strings.Index(got, "- second"))
		assert.Less(t, strings.Index(got, "- second"), strings.Index(got, "- third"))
	})
}
