package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knkapps/followup/internal/models"
)

func at(year int, month time.Month, day, hour, min int) models.When {
	return models.NewWhen(time.Date(year, month, day, hour, min, 0, 0, time.Local))
}

var now = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.Local)

func TestComputeStatsCountsAndUpcoming(t *testing.T) {
	tasks := []models.Task{{
		ID:        1,
		Name:      "Call vendor",
		CreatedAt: at(2024, time.June, 10, 9, 0),
		FollowUps: []models.FollowUp{{
			ID:     "fu-1",
			Title:  "Send quote",
			Date:   at(2024, time.June, 12, 10, 0),
			Status: models.StatusPending,
		}},
	}}

	s := ComputeStats(tasks, now)

	assert.Equal(t, 1, s.Todays)
	assert.Equal(t, 1, s.Week)
	assert.Equal(t, 1, s.TotalFollowUps)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 0, s.Completed)
	assert.Equal(t, 0, s.Overdue)
	require.Len(t, s.Upcoming, 1)
	assert.Equal(t, "Send quote", s.Upcoming[0].Title)
	assert.Equal(t, "Call vendor", s.Upcoming[0].TaskName)
}

func TestComputeStatsOverdue(t *testing.T) {
	tasks := []models.Task{{
		ID:        1,
		Name:      "x",
		CreatedAt: at(2024, time.June, 1, 9, 0),
		FollowUps: []models.FollowUp{
			{ID: "a", Date: at(2024, time.June, 9, 10, 0), Status: models.StatusPending},
			{ID: "b", Date: at(2024, time.June, 9, 10, 0), Status: models.StatusCompleted},
			{ID: "c", Status: models.StatusPending}, // no date, never overdue
		},
	}}

	s := ComputeStats(tasks, now)

	assert.Equal(t, 1, s.Overdue, "only pending dated follow-ups in the past count")
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 1, s.Completed)
	assert.Empty(t, s.Upcoming)
}

func TestComputeStatsUpcomingSortedAscending(t *testing.T) {
	tasks := []models.Task{{
		ID:   1,
		Name: "x",
		FollowUps: []models.FollowUp{
			{ID: "later", Title: "later", Date: at(2024, time.June, 15, 9, 0), Status: models.StatusPending},
			{ID: "sooner", Title: "sooner", Date: at(2024, time.June, 11, 9, 0), Status: models.StatusPending},
		},
	}}

	s := ComputeStats(tasks, now)

	require.Len(t, s.Upcoming, 2)
	assert.Equal(t, "sooner", s.Upcoming[0].Title)
	assert.Equal(t, "later", s.Upcoming[1].Title)
}

func TestComputeStatsTaskDateContributesEntry(t *testing.T) {
	tasks := []models.Task{{
		ID:           1,
		Name:         "x",
		FollowUpDate: at(2024, time.June, 13, 9, 0),
	}}

	s := ComputeStats(tasks, now)

	require.Len(t, s.Upcoming, 1)
	assert.Equal(t, int64(1), s.Upcoming[0].TaskID)
	assert.Equal(t, 0, s.TotalFollowUps)
}

func TestComputeStatsWindowEdges(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, CreatedAt: at(2024, time.June, 9, 23, 59)},  // yesterday
		{ID: 2, CreatedAt: at(2024, time.June, 10, 0, 0)},   // midnight, inclusive
		{ID: 3, CreatedAt: at(2024, time.June, 11, 0, 0)},   // tomorrow
		{ID: 4, CreatedAt: at(2024, time.June, 17, 12, 0)},  // exactly now+7d
		{ID: 5, CreatedAt: at(2024, time.June, 17, 12, 1)},  // past the week window
	}

	s := ComputeStats(tasks, now)

	assert.Equal(t, 1, s.Todays)
	assert.Equal(t, 3, s.Week)
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil, now)
	assert.Zero(t, s.Todays)
	assert.Zero(t, s.TotalFollowUps)
	assert.Empty(t, s.Upcoming)
}
