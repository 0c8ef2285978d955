// Package query computes derived views over a task collection snapshot:
// dashboard statistics, list filtering and search, and next-follow-up
// resolution. Everything here is pure; the passed-in collection is never
// mutated.
package query

import (
	"sort"
	"time"

	"github.com/knkapps/followup/internal/models"
)

// UpcomingEntry is a follow-up-like row on the dashboard: either a real
// follow-up or a task's own next-follow-up date, annotated with the owning
// task's name.
type UpcomingEntry struct {
	TaskID   int64
	TaskName string
	Title    string
	Notes    string
	Status   models.Status
	When     time.Time
}

// Stats are the dashboard counters.
type Stats struct {
	Todays         int
	Week           int
	TotalFollowUps int
	Pending        int
	Completed      int
	Overdue        int
	Upcoming       []UpcomingEntry
}

// startOfDay returns local calendar midnight for t.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ComputeStats walks the task collection once and fills every dashboard
// counter. Today and week windows start at local midnight, not now-24h.
// A follow-up with no date is never upcoming and never overdue.
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	var s Stats

	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekEnd := now.AddDate(0, 0, 7)

	for _, t := range tasks {
		if !t.CreatedAt.IsZero() {
			created := t.CreatedAt.Time
			if !created.Before(dayStart) && created.Before(dayEnd) {
				s.Todays++
			}
			if !created.Before(dayStart) && !created.After(weekEnd) {
				s.Week++
			}
		}

		s.TotalFollowUps += len(t.FollowUps)
		for _, fu := range t.FollowUps {
			if fu.Status.Normalize() == models.StatusPending {
				s.Pending++
			} else {
				s.Completed++
			}
			if fu.Date.IsZero() {
				continue
			}
			d := fu.Date.Time
			if d.Before(now) && fu.Status.Normalize() == models.StatusPending {
				s.Overdue++
			}
			if !d.Before(now) && !d.After(weekEnd) {
				s.Upcoming = append(s.Upcoming, UpcomingEntry{
					TaskID:   t.ID,
					TaskName: t.Name,
					Title:    fu.Title,
					Notes:    fu.Notes,
					Status:   fu.Status.Normalize(),
					When:     d,
				})
			}
		}

		// The task's own next-follow-up date contributes a second entry even
		// when a list follow-up shares the same date. Accepted duplication.
		if !t.FollowUpDate.IsZero() {
			d := t.FollowUpDate.Time
			if !d.Before(now) && !d.After(weekEnd) {
				s.Upcoming = append(s.Upcoming, UpcomingEntry{
					TaskID:   t.ID,
					TaskName: t.Name,
					Title:    "Next (task)",
					Notes:    t.Notes,
					Status:   models.StatusPending,
					When:     d,
				})
			}
		}
	}

	sort.SliceStable(s.Upcoming, func(i, j int) bool {
		return s.Upcoming[i].When.Before(s.Upcoming[j].When)
	})

	return s
}
