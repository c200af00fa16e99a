package suggest

import (
	"fmt"
	"strings"
	"time"

	"github.com/BhanuIITMandi/SprintSync/internal/task"
)

// maxPlanPickups caps how many TODO tasks a stubbed daily plan lists.
const maxPlanPickups = 3

// StubDraftDescription renders a canned task description. The output depends
// only on the title, so identical inputs always produce identical text.
func StubDraftDescription(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "**Objective**: Implement the '%s' feature.\n\n", title)
	b.WriteString("**Acceptance Criteria**:\n")
	b.WriteString("- [ ] Core functionality is implemented and tested\n")
	b.WriteString("- [ ] Edge cases are handled gracefully\n")
	b.WriteString("- [ ] Code reviewed and documented\n\n")
	b.WriteString("**Estimated effort**: 2–4 hours")
	return b.String()
}

// StubDailyPlan renders a canned daily plan from the given tasks. In-progress
// work comes first with logged minutes, then up to three TODO items in the
// order given. The date is a parameter so the output stays reproducible.
func StubDailyPlan(tasks []*task.Task, today time.Time) string {
	var todo, inProgress []*task.Task
	for _, t := range tasks {
		switch t.Status {
		case task.StatusTodo:
			todo = append(todo, t)
		case task.StatusInProgress:
			inProgress = append(inProgress, t)
		}
	}

	lines := []string{fmt.Sprintf("# Daily Plan — %s\n", today.Format(time.DateOnly))}

	if len(inProgress) > 0 {
		lines = append(lines, "## 🔄 Continue In-Progress")
		for _, t := range inProgress {
			lines = append(lines, fmt.Sprintf("- **%s** (%d min logged)", t.Title, t.TotalMinutes))
		}
	}

	if len(todo) > 0 {
		lines = append(lines, "\n## 📋 Pick Up Next")
		for i, t := range todo {
			if i >= maxPlanPickups {
				break
			}
			lines = append(lines, fmt.Sprintf("- %s", t.Title))
		}
	}

	if len(todo) == 0 && len(inProgress) == 0 {
		lines = append(lines, "🎉 All caught up! No pending tasks.")
	}

	return strings.Join(lines, "\n")
}
