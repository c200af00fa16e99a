package task

import (
	"fmt"
	"strings"

	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
)

type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Transitions is the directed table of allowed status changes. Anything not
// listed here, including a self-transition, is rejected.
var Transitions = map[Status][]Status{
	StatusTodo:       {StatusInProgress},
	StatusInProgress: {StatusDone, StatusTodo},
	StatusDone:       {StatusTodo},
}

// ParseStatus upper-cases the input and checks it against the known statuses.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(s))
	switch status {
	case StatusTodo, StatusInProgress, StatusDone:
		return status, nil
	default:
		return "", cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("unknown status %q", s), nil)
	}
}

// ValidateTransition reports whether a task may move from one status to
// another. It is a pure lookup with no side effects; the rejection message
// names the attempted target and the targets the current status allows.
func ValidateTransition(from, to Status) error {
	allowed := Transitions[from]
	for _, target := range allowed {
		if target == to {
			return nil
		}
	}
	return cerr.NewError(
		cerr.FailedPrecondition,
		fmt.Sprintf("cannot transition from %s to %s, allowed: %s", from, to, formatTargets(allowed)),
		nil,
	)
}

func formatTargets(targets []Status) string {
	if len(targets) == 0 {
		return "none"
	}
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
