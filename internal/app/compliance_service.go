package app

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jsamuelsen/startup-toolkit/internal/domain"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// ComplianceTaskInput is the editable part of a compliance task.
type ComplianceTaskInput struct {
	Title       string
	Description string
	Category    string
	Status      domain.TaskStatus
	Priority    domain.Level
	DueDate     time.Time
	Recurring   bool
}

// TaskView is a task with its urgency against the current clock.
type TaskView struct {
	domain.ComplianceTask
	Urgency domain.TaskUrgency `json:"urgency"`
}

// ComplianceService backs the compliance tracker.
type ComplianceService struct {
	deps   Deps
	feed   ports.RegulatoryFeed
	state  stateSlot[domain.ComplianceHub]
	window time.Duration
	logger *slog.Logger
}

// NewComplianceService creates a compliance service. A non-positive window
// uses domain.DefaultUpcomingWindow.
func NewComplianceService(deps Deps, feed ports.RegulatoryFeed, window time.Duration) *ComplianceService {
	if window <= 0 {
		window = domain.DefaultUpcomingWindow
	}

	return &ComplianceService{
		deps:   deps,
		feed:   feed,
		state:  newSlot[domain.ComplianceHub](deps.Store, deps.Metrics, KeyCompliance),
		window: window,
		logger: deps.logger("app.ComplianceService"),
	}
}

// Tasks returns tasks matching f, ordered by due date.
func (s *ComplianceService) Tasks(ctx context.Context, workspace string, f domain.TaskFilter) ([]TaskView, error) {
	hub, err := s.state.Load(ctx, workspace)
	if err != nil {
		return nil, err
	}

	now := s.deps.now()
	tasks := domain.FilterTasks(hub.Tasks, f, now, s.window)

	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, TaskView{ComplianceTask: t, Urgency: domain.Classify(t, now, s.window)})
	}

	return out, nil
}

// CreateTask adds a task.
func (s *ComplianceService) CreateTask(ctx context.Context, workspace string, in ComplianceTaskInput) (domain.ComplianceTask, error) {
	task, err := newComplianceTask(newID(), in)
	if err != nil {
		return domain.ComplianceTask{}, err
	}

	_, err = s.state.Update(ctx, workspace, func(hub *domain.ComplianceHub) error {
		hub.Tasks = append(hub.Tasks, task)
		return nil
	})
	if err != nil {
		return domain.ComplianceTask{}, err
	}

	return task, nil
}

// UpdateTask replaces the editable fields of task id.
func (s *ComplianceService) UpdateTask(ctx context.Context, workspace, id string, in ComplianceTaskInput) (domain.ComplianceTask, error) {
	task, err := newComplianceTask(id, in)
	if err != nil {
		return domain.ComplianceTask{}, err
	}

	_, err = s.state.Update(ctx, workspace, func(hub *domain.ComplianceHub) error {
		i := slices.IndexFunc(hub.Tasks, func(t domain.ComplianceTask) bool { return t.ID == id })
		if i < 0 {
			return domain.NewNotFoundError("compliance task", id)
		}
		hub.Tasks[i] = task

		return nil
	})
	if err != nil {
		return domain.ComplianceTask{}, err
	}

	return task, nil
}

// SetStatus moves task id to status.
func (s *ComplianceService) SetStatus(ctx context.Context, workspace, id string, status domain.TaskStatus) (domain.ComplianceTask, error) {
	if !status.Valid() {
		return domain.ComplianceTask{}, domain.NewValidationErrorWithValue("status",
			"must be pending, in-progress or completed", string(status))
	}

	var task domain.ComplianceTask
	_, err := s.state.Update(ctx, workspace, func(hub *domain.ComplianceHub) error {
		i := slices.IndexFunc(hub.Tasks, func(t domain.ComplianceTask) bool { return t.ID == id })
		if i < 0 {
			return domain.NewNotFoundError("compliance task", id)
		}
		hub.Tasks[i].Status = status
		task = hub.Tasks[i]

		return nil
	})

	return task, err
}

// DeleteTask removes task id.
func (s *ComplianceService) DeleteTask(ctx context.Context, workspace, id string) error {
	_, err := s.state.Update(ctx, workspace, func(hub *domain.ComplianceHub) error {
		n := len(hub.Tasks)
		hub.Tasks = slices.DeleteFunc(hub.Tasks, func(t domain.ComplianceTask) bool { return t.ID == id })
		if len(hub.Tasks) == n {
			return domain.NewNotFoundError("compliance task", id)
		}

		return nil
	})

	return err
}

// Updates returns regulatory notices, newest first, with their acknowledgement state.
func (s *ComplianceService) Updates(ctx context.Context, workspace string) ([]domain.RegulatoryUpdate, error) {
	hub, err := s.state.Load(ctx, workspace)
	if err != nil {
		return nil, err
	}

	updates, err := s.feed.Updates(ctx)
	if err != nil {
		return nil, err
	}

	return domain.MarkAcknowledged(updates, hub), nil
}

// Acknowledge marks update id as read. Acknowledging twice is a no-op.
func (s *ComplianceService) Acknowledge(ctx context.Context, workspace, id string) error {
	updates, err := s.feed.Updates(ctx)
	if err != nil {
		return err
	}

	if _, err := findByID(updates, id, "regulatory update",
		func(u domain.RegulatoryUpdate) string { return u.ID }); err != nil {
		return err
	}

	_, err = s.state.Update(ctx, workspace, func(hub *domain.ComplianceHub) error {
		if !slices.Contains(hub.Acknowledged, id) {
			hub.Acknowledged = append(hub.Acknowledged, id)
		}

		return nil
	})

	return err
}

// Stats summarizes the tracker. A feed failure only drops the
// unacknowledged count.
func (s *ComplianceService) Stats(ctx context.Context, workspace string) (domain.ComplianceStats, error) {
	hub, err := s.state.Load(ctx, workspace)
	if err != nil {
		return domain.ComplianceStats{}, err
	}

	updates, err := s.feed.Updates(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "regulatory feed unavailable for stats", slog.Any("error", err))
		updates = nil
	}

	return domain.SummarizeCompliance(hub, updates, s.deps.now(), s.window), nil
}

func newComplianceTask(id string, in ComplianceTaskInput) (domain.ComplianceTask, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.ComplianceTask{}, domain.NewValidationError("title", "is required")
	}
	if in.DueDate.IsZero() {
		return domain.ComplianceTask{}, domain.NewValidationError("dueDate", "is required")
	}

	status := in.Status
	if status == "" {
		status = domain.TaskPending
	}
	if !status.Valid() {
		return domain.ComplianceTask{}, domain.NewValidationErrorWithValue("status",
			"must be pending, in-progress or completed", string(status))
	}

	priority, err := levelOrDefault("priority", in.Priority)
	if err != nil {
		return domain.ComplianceTask{}, err
	}

	return domain.ComplianceTask{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
		Recurring:   in.Recurring,
	}, nil
}
