package domain

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

// DefaultUpcomingWindow is how far ahead a due date counts as upcoming.
const DefaultUpcomingWindow = 30 * 24 * time.Hour

// TaskStatus is the progress state of a compliance task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	default:
		return false
	}
}

// ComplianceTask is a filing, renewal or other obligation with a due date.
type ComplianceTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Status      TaskStatus `json:"status"`
	Priority    Level      `json:"priority"`
	DueDate     time.Time  `json:"dueDate"`
	Recurring   bool       `json:"recurring,omitempty"`
}

// RegulatoryUpdate is a notice about a rule change that may affect the business.
type RegulatoryUpdate struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Summary      string    `json:"summary" yaml:"summary"`
	Source       string    `json:"source" yaml:"source"`
	Category     string    `json:"category" yaml:"category"`
	Impact       Level     `json:"impact" yaml:"impact"`
	PublishedAt  time.Time `json:"publishedAt" yaml:"publishedAt"`
	URL          string    `json:"url" yaml:"url"`
	Acknowledged bool      `json:"acknowledged" yaml:"-"`
}

// ComplianceHub is the persisted state of the compliance tracker.
type ComplianceHub struct {
	Tasks        []ComplianceTask `json:"tasks"`
	Acknowledged []string         `json:"acknowledgedUpdates"`
}

// TaskUrgency classifies a task against the clock.
type TaskUrgency string

const (
	UrgencyDone     TaskUrgency = "done"
	UrgencyOverdue  TaskUrgency = "overdue"
	UrgencyUpcoming TaskUrgency = "upcoming"
	UrgencyLater    TaskUrgency = "later"
)

// Classify places task relative to now. Completed tasks are never overdue.
// A task due within window of now (inclusive) is upcoming.
func Classify(task ComplianceTask, now time.Time, window time.Duration) TaskUrgency {
	switch {
	case task.Status == TaskCompleted:
		return UrgencyDone
	case task.DueDate.Before(now):
		return UrgencyOverdue
	case !task.DueDate.After(now.Add(window)):
		return UrgencyUpcoming
	default:
		return UrgencyLater
	}
}

// TaskFilter selects compliance tasks.
type TaskFilter struct {
	Search   string
	Status   TaskStatus
	Category string
	Urgency  TaskUrgency
}

// FilterTasks returns matching tasks ordered by due date, then title.
func FilterTasks(tasks []ComplianceTask, f TaskFilter, now time.Time, window time.Duration) []ComplianceTask {
	out := filter(tasks, func(t ComplianceTask) bool {
		return matchesSearch(f.Search, nil, t.Title, t.Description) &&
			(f.Status == "" || t.Status == f.Status) &&
			(f.Category == "" || strings.EqualFold(t.Category, f.Category)) &&
			(f.Urgency == "" || Classify(t, now, window) == f.Urgency)
	})
	slices.SortStableFunc(out, func(a, b ComplianceTask) int {
		return cmp.Or(a.DueDate.Compare(b.DueDate), cmp.Compare(a.Title, b.Title))
	})

	return out
}

// ComplianceStats summarizes the tracker.
type ComplianceStats struct {
	Total          int                `json:"total"`
	ByStatus       map[TaskStatus]int `json:"byStatus"`
	Overdue        int                `json:"overdue"`
	Upcoming       int                `json:"upcoming"`
	CompletionRate int                `json:"completionRate"`
	Unacknowledged int                `json:"unacknowledgedUpdates"`
}

// SummarizeCompliance counts tasks per status and urgency. CompletionRate is a
// rounded percentage, 0 when there are no tasks.
func SummarizeCompliance(hub ComplianceHub, updates []RegulatoryUpdate, now time.Time, window time.Duration) ComplianceStats {
	s := ComplianceStats{Total: len(hub.Tasks), ByStatus: make(map[TaskStatus]int)}

	for _, t := range hub.Tasks {
		s.ByStatus[t.Status]++
		switch Classify(t, now, window) {
		case UrgencyOverdue:
			s.Overdue++
		case UrgencyUpcoming:
			s.Upcoming++
		}
	}

	if s.Total > 0 {
		s.CompletionRate = int(math.Round(float64(s.ByStatus[TaskCompleted]) * 100 / float64(s.Total)))
	}

	ack := NewSavedSet(hub.Acknowledged)
	for _, u := range updates {
		if !ack.Has(u.ID) {
			s.Unacknowledged++
		}
	}

	return s
}

// MarkAcknowledged sets Acknowledged on each update the hub has seen and
// returns the updates newest first.
func MarkAcknowledged(updates []RegulatoryUpdate, hub ComplianceHub) []RegulatoryUpdate {
	ack := NewSavedSet(hub.Acknowledged)
	out := slices.Clone(updates)
	for i := range out {
		out[i].Acknowledged = ack.Has(out[i].ID)
	}
	slices.SortStableFunc(out, func(a, b RegulatoryUpdate) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})

	return out
}
