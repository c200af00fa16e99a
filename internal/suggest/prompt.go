package suggest

import (
	"fmt"
	"strings"

	"github.com/BhanuIITMandi/SprintSync/internal/task"
)

const (
	draftSystemPrompt = "You are a concise project-management assistant. " +
		"Given a short task title, produce a clear task description " +
		"with objective, acceptance criteria, and estimated effort."

	planSystemPrompt = "You are a concise project-management assistant. " +
		"Given a list of tasks, create a focused daily plan " +
		"prioritising in-progress work, then TODO items."
)

func draftUserPrompt(title string) string {
	return fmt.Sprintf("Draft a task description for: %s", title)
}

func planUserPrompt(tasks []*task.Task) string {
	summaries := make([]string, len(tasks))
	for i, t := range tasks {
		summaries[i] = fmt.Sprintf("- %s [status=%s, minutes=%d]", t.Title, t.Status, t.TotalMinutes)
	}
	return fmt.Sprintf("Create a daily plan for these tasks:\n%s", strings.Join(summaries, "\n"))
}
