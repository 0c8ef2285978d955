package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knkapps/followup/internal/models"
)

func TestFilterTasksSearchReachesFollowUpFields(t *testing.T) {
	tasks := []models.Task{
		{
			ID:   1,
			Name: "Renew contract",
			FollowUps: []models.FollowUp{
				{ID: "a", Title: "ping", Notes: "waiting on the VENDOR reply"},
			},
		},
		{ID: 2, Name: "Unrelated"},
	}

	got := FilterTasks(tasks, Options{Search: "vendor"}, now)

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFilterTasksSearchFields(t *testing.T) {
	base := models.Task{ID: 1, Name: "n"}

	tests := []struct {
		name   string
		mutate func(*models.Task)
		term   string
	}{
		{"task name", func(t *models.Task) { t.Name = "Quarterly audit" }, "audit"},
		{"project", func(t *models.Task) { t.Project = "Greenland" }, "green"},
		{"department", func(t *models.Task) { t.Department = "Accounts" }, "accounts"},
		{"task notes", func(t *models.Task) { t.Notes = "budget draft" }, "draft"},
		{"follow-up title", func(t *models.Task) {
			t.FollowUps = []models.FollowUp{{ID: "a", Title: "escalate"}}
		}, "escalate"},
		{"follow-up contact", func(t *models.Task) {
			t.FollowUps = []models.FollowUp{{ID: "a", Contact: &models.Contact{Name: "Priya"}}}
		}, "priya"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := base
			tt.mutate(&task)
			got := FilterTasks([]models.Task{task}, Options{Search: tt.term}, now)
			assert.Len(t, got, 1)
		})
	}
}

func TestFilterTasksSearchNoMatch(t *testing.T) {
	tasks := []models.Task{{ID: 1, Name: "alpha"}}
	assert.Empty(t, FilterTasks(tasks, Options{Search: "omega"}, now))
}

func TestFilterTasksTabs(t *testing.T) {
	today := models.Task{ID: 1, Name: "today", CreatedAt: at(2024, time.June, 10, 9, 0),
		Status: models.StatusCompleted}
	thisWeek := models.Task{ID: 2, Name: "week", CreatedAt: at(2024, time.June, 1, 9, 0),
		Status: models.StatusCompleted,
		FollowUps: []models.FollowUp{
			{ID: "a", Date: at(2024, time.June, 14, 9, 0), Status: models.StatusCompleted},
		}}
	pendingOld := models.Task{ID: 3, Name: "pending", CreatedAt: at(2024, time.May, 1, 9, 0),
		Status: models.StatusPending}

	tasks := []models.Task{today, thisWeek, pendingOld}

	ids := func(ts []models.Task) []int64 {
		var out []int64
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2, 3}, ids(FilterTasks(tasks, Options{Tab: TabAll}, now)))
	assert.Equal(t, []int64{1}, ids(FilterTasks(tasks, Options{Tab: TabToday}, now)))
	assert.Equal(t, []int64{1, 2}, ids(FilterTasks(tasks, Options{Tab: TabWeek}, now)))
	assert.Equal(t, []int64{3}, ids(FilterTasks(tasks, Options{Tab: TabPending}, now)))
	assert.Equal(t, []int64{1, 2}, ids(FilterTasks(tasks, Options{Tab: TabCompleted}, now)))
	assert.Equal(t, []int64{2}, ids(FilterTasks(tasks, Options{Tab: TabFollowUps}, now)))
}

func TestFilterTasksNewestFirst(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Name: "older", CreatedAt: at(2024, time.June, 1, 9, 0)},
		{ID: 2, Name: "newer", CreatedAt: at(2024, time.June, 9, 9, 0)},
	}

	got := FilterTasks(tasks, Options{}, now)

	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestNextFollowUp(t *testing.T) {
	task := models.Task{
		ID:           1,
		FollowUpDate: at(2024, time.June, 25, 9, 0),
		FollowUps: []models.FollowUp{
			{ID: "a", Date: at(2024, time.June, 20, 9, 0)},
			{ID: "b", Date: at(2024, time.June, 15, 9, 0)},
		},
	}

	next, ok := NextFollowUp(task, now)

	require.True(t, ok)
	assert.True(t, next.Equal(at(2024, time.June, 15, 9, 0).Time))
}

func TestNextFollowUpSkipsPastDates(t *testing.T) {
	task := models.Task{
		ID: 1,
		FollowUps: []models.FollowUp{
			{ID: "a", Date: at(2024, time.June, 1, 9, 0)},
			{ID: "b", Date: at(2024, time.June, 18, 9, 0)},
		},
	}

	next, ok := NextFollowUp(task, now)

	require.True(t, ok)
	assert.True(t, next.Equal(at(2024, time.June, 18, 9, 0).Time))
}

func TestNextFollowUpNone(t *testing.T) {
	task := models.Task{
		ID: 1,
		FollowUps: []models.FollowUp{
			{ID: "a", Date: at(2024, time.June, 1, 9, 0)}, // past
			{ID: "b"}, // undated
		},
	}

	_, ok := NextFollowUp(task, now)
	assert.False(t, ok)
}
