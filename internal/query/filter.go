package query

import (
	"sort"
	"strings"
	"time"

	"github.com/knkapps/followup/internal/models"
)

// Tab is a task-list filter tab.
type Tab string

const (
	TabAll       Tab = "all"
	TabToday     Tab = "today"
	TabWeek      Tab = "week"
	TabPending   Tab = "pending"
	TabCompleted Tab = "completed"
	TabFollowUps Tab = "followups"
)

// Tabs lists the filter tabs in display order.
var Tabs = []Tab{TabAll, TabToday, TabWeek, TabPending, TabCompleted, TabFollowUps}

// Options select and narrow the task list.
type Options struct {
	Search string
	Tab    Tab
}

// FilterTasks returns the tasks matching the search term and filter tab,
// newest-created first. The input slice is left untouched.
func FilterTasks(tasks []models.Task, opts Options, now time.Time) []models.Task {
	term := strings.ToLower(strings.TrimSpace(opts.Search))

	var out []models.Task
	for _, t := range tasks {
		if term != "" && !matchesSearch(t, term) {
			continue
		}
		if !matchesTab(t, opts.Tab, now) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out
}

// matchesSearch is a case-insensitive OR across the task's own fields and
// every field of every follow-up.
func matchesSearch(t models.Task, term string) bool {
	if containsFold(term, t.Name, t.Project, t.Department, t.Notes) {
		return true
	}
	for _, fu := range t.FollowUps {
		if containsFold(term, fu.Title, fu.Notes, string(fu.Status)) {
			return true
		}
		if fu.Contact != nil && containsFold(term, fu.Contact.Name, fu.Contact.Phone) {
			return true
		}
	}
	return false
}

func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func matchesTab(t models.Task, tab Tab, now time.Time) bool {
	switch tab {
	case TabToday:
		dayStart := startOfDay(now)
		return anyDateIn(t, now, dayStart, dayStart.AddDate(0, 0, 1))
	case TabWeek:
		return anyDateIn(t, now, startOfDay(now), now.AddDate(0, 0, 7).Add(time.Nanosecond))
	case TabPending:
		return hasStatus(t, models.StatusPending)
	case TabCompleted:
		return hasStatus(t, models.StatusCompleted)
	case TabFollowUps:
		return len(t.FollowUps) > 0 || !t.FollowUpDate.IsZero()
	default:
		return true
	}
}

// anyDateIn reports whether the task's creation, any follow-up date, or its
// resolved next-follow-up date falls in [from, to).
func anyDateIn(t models.Task, now, from, to time.Time) bool {
	in := func(d time.Time) bool {
		return !d.Before(from) && d.Before(to)
	}
	if !t.CreatedAt.IsZero() && in(t.CreatedAt.Time) {
		return true
	}
	for _, fu := range t.FollowUps {
		if !fu.Date.IsZero() && in(fu.Date.Time) {
			return true
		}
	}
	if next, ok := NextFollowUp(t, now); ok && in(next) {
		return true
	}
	return false
}

// hasStatus reports whether the task or any of its follow-ups is in the
// given state.
func hasStatus(t models.Task, status models.Status) bool {
	if t.Status.Normalize() == status {
		return true
	}
	for _, fu := range t.FollowUps {
		if fu.Status.Normalize() == status {
			return true
		}
	}
	return false
}

// NextFollowUp resolves the earliest scheduled date at or after now among
// the task's follow-up dates and its own next-follow-up date. ok is false
// when nothing qualifies; falling back to a past followUpDate for display is
// the caller's choice.
func NextFollowUp(t models.Task, now time.Time) (time.Time, bool) {
	var best time.Time
	consider := func(d models.When) {
		if d.IsZero() || d.Before(now) {
			return
		}
		if best.IsZero() || d.Before(best) {
			best = d.Time
		}
	}
	for _, fu := range t.FollowUps {
		consider(fu.Date)
	}
	consider(t.FollowUpDate)
	return best, !best.IsZero()
}
