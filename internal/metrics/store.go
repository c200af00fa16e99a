package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BhanuIITMandi/SprintSync/internal/task"
	"github.com/BhanuIITMandi/SprintSync/internal/user"
)

// StoreCollector exposes store-level gauges, computed at scrape time so the
// numbers are never stale.
type StoreCollector struct {
	taskRepo task.Repository
	userRepo user.Repository

	tasksByStatus *prometheus.Desc
	usersTotal    *prometheus.Desc
}

func NewStoreCollector(taskRepo task.Repository, userRepo user.Repository) *StoreCollector {
	return &StoreCollector{
		taskRepo: taskRepo,
		userRepo: userRepo,
		tasksByStatus: prometheus.NewDesc(
			"sprintsync_tasks_by_status",
			"Number of tasks in each status.",
			[]string{"status"}, nil,
		),
		usersTotal: prometheus.NewDesc(
			"sprintsync_users_total",
			"Number of registered users.",
			nil, nil,
		),
	}
}

func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.tasksByStatus
	ch <- c.usersTotal
}

func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := c.taskRepo.CountByStatus(ctx)
	if err != nil {
		slog.Warn("failed to count tasks for metrics", slog.String("error", err.Error()))
	} else {
		for _, status := range []task.Status{task.StatusTodo, task.StatusInProgress, task.StatusDone} {
			ch <- prometheus.MustNewConstMetric(
				c.tasksByStatus, prometheus.GaugeValue, float64(counts[status]), string(status),
			)
		}
	}

	users, err := c.userRepo.Count(ctx)
	if err != nil {
		slog.Warn("failed to count users for metrics", slog.String("error", err.Error()))
		return
	}
	ch <- prometheus.MustNewConstMetric(c.usersTotal, prometheus.GaugeValue, float64(users))
}
