package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var complianceNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func sampleTasks() []ComplianceTask {
	return []ComplianceTask{
		{ID: "1", Title: "Annual return", Category: "filing", Status: TaskPending, DueDate: complianceNow.AddDate(0, 0, -2)},
		{ID: "2", Title: "VAT return", Category: "tax", Status: TaskInProgress, DueDate: complianceNow.AddDate(0, 0, 10)},
		{ID: "3", Title: "Trademark renewal", Category: "ip", Status: TaskPending, DueDate: complianceNow.AddDate(0, 3, 0)},
		{ID: "4", Title: "Payroll filing", Category: "tax", Status: TaskCompleted, DueDate: complianceNow.AddDate(0, 0, -20)},
	}
}

func TestClassify(t *testing.T) {
	tasks := sampleTasks()

	assert.Equal(t, UrgencyOverdue, Classify(tasks[0], complianceNow, DefaultUpcomingWindow))
	assert.Equal(t, UrgencyUpcoming, Classify(tasks[1], complianceNow, DefaultUpcomingWindow))
	assert.Equal(t, UrgencyLater, Classify(tasks[2], complianceNow, DefaultUpcomingWindow))
	assert.Equal(t, UrgencyDone, Classify(tasks[3], complianceNow, DefaultUpcomingWindow))

	edge := ComplianceTask{Status: TaskPending, DueDate: complianceNow.Add(DefaultUpcomingWindow)}
	assert.Equal(t, UrgencyUpcoming, Classify(edge, complianceNow, DefaultUpcomingWindow))

	assert.Equal(t, UrgencyLater, Classify(tasks[1], complianceNow, 24*time.Hour))
}

func TestFilterTasks(t *testing.T) {
	tasks := sampleTasks()

	tax := FilterTasks(tasks, TaskFilter{Category: "TAX"}, complianceNow, DefaultUpcomingWindow)
	assert.Equal(t, []string{"4", "2"}, ids(tax, func(t ComplianceTask) string { return t.ID }))

	overdue := FilterTasks(tasks, TaskFilter{Urgency: UrgencyOverdue}, complianceNow, DefaultUpcomingWindow)
	assert.Equal(t, []string{"1"}, ids(overdue, func(t ComplianceTask) string { return t.ID }))

	search := FilterTasks(tasks, TaskFilter{Search: "return", Status: TaskPending}, complianceNow, DefaultUpcomingWindow)
	assert.Equal(t, []string{"1"}, ids(search, func(t ComplianceTask) string { return t.ID }))
}

func TestSummarizeCompliance(t *testing.T) {
	hub := ComplianceHub{Tasks: sampleTasks(), Acknowledged: []string{"u1"}}
	updates := []RegulatoryUpdate{{ID: "u1"}, {ID: "u2"}}

	s := SummarizeCompliance(hub, updates, complianceNow, DefaultUpcomingWindow)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, 1, s.Upcoming)
	assert.Equal(t, 25, s.CompletionRate)
	assert.Equal(t, 1, s.Unacknowledged)

	assert.Zero(t, SummarizeCompliance(ComplianceHub{}, nil, complianceNow, DefaultUpcomingWindow).CompletionRate)
}

func TestMarkAcknowledged(t *testing.T) {
	updates := []RegulatoryUpdate{
		{ID: "old", PublishedAt: complianceNow.AddDate(0, -2, 0)},
		{ID: "new", PublishedAt: complianceNow.AddDate(0, 0, -1)},
	}

	got := MarkAcknowledged(updates, ComplianceHub{Acknowledged: []string{"old"}})

	assert.Equal(t, "new", got[0].ID)
	assert.False(t, got[0].Acknowledged)
	assert.True(t, got[1].Acknowledged)
	assert.False(t, updates[0].Acknowledged)
}
