package suggest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/BhanuIITMandi/SprintSync/internal/auth"
	"github.com/BhanuIITMandi/SprintSync/internal/task"
	"github.com/BhanuIITMandi/SprintSync/pkg/cerr"
)

const (
	draftMaxTokens = 300
	planMaxTokens  = 400
)

// Generator produces text from a chat-style prompt pair.
type Generator interface {
	Complete(ctx context.Context, settings Settings, system, user string, maxTokens int) (string, error)
}

// Service routes suggestion requests to the live generator or the stub and
// guarantees the caller always gets text back for a valid request.
type Service struct {
	taskRepo task.Repository
	settings *SettingsSource
	live     Generator
	now      func() time.Time
}

func NewService(taskRepo task.Repository, settings *SettingsSource, live Generator) *Service {
	return &Service{
		taskRepo: taskRepo,
		settings: settings,
		live:     live,
		now:      time.Now,
	}
}

// Suggest validates the request and produces a suggestion. Validation errors
// are returned as-is; generation failures never are. Once a request passes
// validation the only remaining outcome is a live result or a stub fallback.
func (s *Service) Suggest(ctx context.Context, ident auth.Identity, req Request) (*Result, error) {
	settings := s.settings.Current()

	switch req.Mode {
	case ModeDraftDescription:
		if strings.TrimSpace(req.Title) == "" {
			return nil, cerr.NewError(cerr.InvalidArgument, "title is required for draft_description mode", nil)
		}
		return s.draftDescription(ctx, settings, req.Title), nil

	case ModeDailyPlan:
		var (
			tasks []*task.Task
			err   error
		)
		if ident.IsAdmin {
			tasks, err = s.taskRepo.ListAll(ctx)
		} else {
			tasks, err = s.taskRepo.ListByOwner(ctx, ident.UserID)
		}
		if err != nil {
			return nil, err
		}
		return s.dailyPlan(ctx, settings, tasks), nil

	default:
		return nil, cerr.NewError(cerr.InvalidArgument, "invalid mode", nil)
	}
}

func (s *Service) draftDescription(ctx context.Context, settings Settings, title string) *Result {
	if useStub(settings) {
		return &Result{Mode: ModeDraftDescription, Suggestion: StubDraftDescription(title), Source: SourceStub}
	}
	text, err := s.live.Complete(ctx, settings, draftSystemPrompt, draftUserPrompt(title), draftMaxTokens)
	if err != nil {
		s.logFallback(ctx, ModeDraftDescription, err)
		return &Result{Mode: ModeDraftDescription, Suggestion: StubDraftDescription(title), Source: SourceStub}
	}
	return &Result{Mode: ModeDraftDescription, Suggestion: text, Source: SourceLive}
}

func (s *Service) dailyPlan(ctx context.Context, settings Settings, tasks []*task.Task) *Result {
	if useStub(settings) {
		return &Result{Mode: ModeDailyPlan, Suggestion: StubDailyPlan(tasks, s.now()), Source: SourceStub}
	}
	text, err := s.live.Complete(ctx, settings, planSystemPrompt, planUserPrompt(tasks), planMaxTokens)
	if err != nil {
		s.logFallback(ctx, ModeDailyPlan, err)
		return &Result{Mode: ModeDailyPlan, Suggestion: StubDailyPlan(tasks, s.now()), Source: SourceStub}
	}
	return &Result{Mode: ModeDailyPlan, Suggestion: text, Source: SourceLive}
}

// logFallback emits the single warning that records a degraded response.
func (s *Service) logFallback(ctx context.Context, mode Mode, err error) {
	slog.WarnContext(ctx, "generation failed, falling back to stub",
		slog.String("event", "generation_failed"),
		slog.String("mode", string(mode)),
		slog.String("detail", err.Error()),
	)
}
