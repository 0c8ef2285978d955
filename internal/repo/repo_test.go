package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/knkapps/followup/internal/models"
)

// memStore records saves so tests can assert the save-after-every-change
// contract.
type memStore struct {
	snap    *models.Snapshot
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load() (*models.Snapshot, error) { return m.snap, m.loadErr }

func (m *memStore) Save(s *models.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = s
	m.saves++
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)

func newTestRepo(t *testing.T) (*Repo, *memStore) {
	t.Helper()
	st := &memStore{}
	return New(st, zap.NewNop(), WithClock(fixedClock(testNow))), st
}

func TestCreateTask(t *testing.T) {
	r, st := newTestRepo(t)

	task, err := r.CreateTask(TaskFields{Name: "Call vendor"})
	require.NoError(t, err)

	assert.Equal(t, "Call vendor", task.Name)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Empty(t, task.FollowUps)
	assert.NotZero(t, task.ID)
	assert.True(t, task.CreatedAt.Equal(testNow))
	assert.Equal(t, 1, st.saves)
}

func TestCreateTaskBlankName(t *testing.T) {
	r, st := newTestRepo(t)

	_, err := r.CreateTask(TaskFields{Name: "   "})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Empty(t, r.Tasks())
	assert.Equal(t, 0, st.saves)
}

func TestCreateTaskTrimsName(t *testing.T) {
	r, _ := newTestRepo(t)

	task, err := r.CreateTask(TaskFields{Name: "  Call vendor  "})
	require.NoError(t, err)
	assert.Equal(t, "Call vendor", task.Name)
}

func TestTaskIDsUnique(t *testing.T) {
	r, _ := newTestRepo(t)

	a, err := r.CreateTask(TaskFields{Name: "one"})
	require.NoError(t, err)
	b, err := r.CreateTask(TaskFields{Name: "two"})
	require.NoError(t, err)

	// Same frozen clock, ids must still differ
	assert.NotEqual(t, a.ID, b.ID)

	// Deleting the newest task must not free its id for reuse
	require.NoError(t, r.DeleteTask(b.ID))
	c, err := r.CreateTask(TaskFields{Name: "three"})
	require.NoError(t, err)
	assert.NotEqual(t, b.ID, c.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestTasksNewestFirst(t *testing.T) {
	r, _ := newTestRepo(t)

	first, _ := r.CreateTask(TaskFields{Name: "first"})
	second, _ := r.CreateTask(TaskFields{Name: "second"})

	tasks := r.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestUpdateTaskStatus(t *testing.T) {
	r, _ := newTestRepo(t)
	task, _ := r.CreateTask(TaskFields{Name: "x"})

	require.NoError(t, r.UpdateTaskStatus(task.ID, models.StatusCompleted))

	got, err := r.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)

	assert.ErrorIs(t, r.UpdateTaskStatus(99999, models.StatusCompleted), ErrNotFound)
}

func TestDeleteTaskCascades(t *testing.T) {
	r, _ := newTestRepo(t)
	task, _ := r.CreateTask(TaskFields{Name: "with followups"})

	fu1, err := r.AddFollowUp(task.ID, FollowUpFields{Title: "first"})
	require.NoError(t, err)
	_, err = r.AddFollowUp(task.ID, FollowUpFields{Title: "second"})
	require.NoError(t, err)

	require.NoError(t, r.DeleteTask(task.ID))
	assert.Empty(t, r.Tasks())

	// Follow-up deletion against the gone task is a no-op
	assert.NoError(t, r.DeleteFollowUp(task.ID, fu1.ID))
}

func TestDeleteTaskIdempotent(t *testing.T) {
	r, st := newTestRepo(t)
	task, _ := r.CreateTask(TaskFields{Name: "x"})

	require.NoError(t, r.DeleteTask(task.ID))
	savesAfterFirst := st.saves
	require.NoError(t, r.DeleteTask(task.ID))

	assert.Empty(t, r.Tasks())
	// Second delete changed nothing and saved nothing
	assert.Equal(t, savesAfterFirst, st.saves)
}

func TestAddFollowUp(t *testing.T) {
	r, _ := newTestRepo(t)
	task, _ := r.CreateTask(TaskFields{Name: "x"})

	fu, err := r.AddFollowUp(task.ID, FollowUpFields{Title: "call back"})
	require.NoError(t, err)

	assert.NotEmpty(t, fu.ID)
	assert.Equal(t, task.ID, fu.TaskID)
	assert.Equal(t, models.StatusPending, fu.Status)
	assert.True(t, fu.CreatedAt.Equal(testNow))

	got, _ := r.GetTask(task.ID)
	require.Len(t, got.FollowUps, 1)
	assert.Equal(t, fu.ID, got.FollowUps[0].ID)
}

func TestAddFollowUpUnknownTask(t *testing.T) {
	r, st := newTestRepo(t)

	_, err := r.AddFollowUp(12345, FollowUpFields{Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, st.saves)
}

func TestDeleteFollowUp(t *testing.T) {
	r, _ := newTestRepo(t)
	task, _ := r.CreateTask(TaskFields{Name: "x"})
	fu1, _ := r.AddFollowUp(task.ID, FollowUpFields{Title: "one"})
	fu2, _ := r.AddFollowUp(task.ID, FollowUpFields{Title: "two"})

	require.NoError(t, r.DeleteFollowUp(task.ID, fu1.ID))

	got, _ := r.GetTask(task.ID)
	require.Len(t, got.FollowUps, 1)
	assert.Equal(t, fu2.ID, got.FollowUps[0].ID)

	// Unknown follow-up id is a silent no-op
	assert.NoError(t, r.DeleteFollowUp(task.ID, "nope"))
}

func TestUpdateFollowUpStatus(t *testing.T) {
	r, _ := newTestRepo(t)
	task, _ := r.CreateTask(TaskFields{Name: "x"})
	fu, _ := r.AddFollowUp(task.ID, FollowUpFields{Title: "one"})

	require.NoError(t, r.UpdateFollowUpStatus(task.ID, fu.ID, models.StatusCompleted))

	got, _ := r.GetTask(task.ID)
	assert.Equal(t, models.StatusCompleted, got.FollowUps[0].Status)

	assert.ErrorIs(t, r.UpdateFollowUpStatus(task.ID, "nope", models.StatusPending), ErrNotFound)
	assert.ErrorIs(t, r.UpdateFollowUpStatus(999, fu.ID, models.StatusPending), ErrNotFound)
}

func TestDeleteProjectOrphansTasks(t *testing.T) {
	r, _ := newTestRepo(t)
	require.NoError(t, r.SetProjects([]string{"Sales", "Greenland"}))

	inSales, _ := r.CreateTask(TaskFields{Name: "a", Project: "Sales"})
	other, _ := r.CreateTask(TaskFields{Name: "b", Project: "Greenland"})

	require.NoError(t, r.DeleteProject("Sales"))

	assert.Equal(t, []string{"Greenland"}, r.Projects())

	got, err := r.GetTask(inSales.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Project, "reference cleared, task kept")

	got, err = r.GetTask(other.ID)
	require.NoError(t, err)
	assert.Equal(t, "Greenland", got.Project)
}

func TestDeleteDepartmentOrphansTasks(t *testing.T) {
	r, _ := newTestRepo(t)
	require.NoError(t, r.SetDepartments([]string{"Legal"}))
	task, _ := r.CreateTask(TaskFields{Name: "a", Department: "Legal"})

	require.NoError(t, r.DeleteDepartment("Legal"))

	assert.Empty(t, r.Departments())
	got, _ := r.GetTask(task.ID)
	assert.Empty(t, got.Department)
}

func TestAddProject(t *testing.T) {
	r, _ := newTestRepo(t)
	require.NoError(t, r.SetProjects(nil))

	require.NoError(t, r.AddProject("  Sales  "))
	assert.Equal(t, []string{"Sales"}, r.Projects())

	assert.ErrorIs(t, r.AddProject("Sales"), ErrDuplicate)

	var verr *ValidationError
	assert.ErrorAs(t, r.AddProject("   "), &verr)
}

func TestNewSeedsDefaultsWhenEmpty(t *testing.T) {
	r, _ := newTestRepo(t)
	assert.Equal(t, DefaultProjects, r.Projects())
	assert.Equal(t, DefaultDepartments, r.Departments())
}

func TestNewTreatsLoadErrorAsEmpty(t *testing.T) {
	st := &memStore{loadErr: errors.New("disk on fire")}
	r := New(st, zap.NewNop(), WithClock(fixedClock(testNow)))

	assert.Empty(t, r.Tasks())
	assert.Equal(t, DefaultProjects, r.Projects())
}

func TestNewNormalizesLegacyState(t *testing.T) {
	st := &memStore{snap: &models.Snapshot{
		Tasks: []models.Task{{
			ID:   42,
			Name: "legacy",
			FollowUps: []models.FollowUp{
				{Title: "no id, no status"},
			},
		}},
	}}
	r := New(st, zap.NewNop(), WithClock(fixedClock(testNow)))

	tasks := r.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, models.StatusPending, tasks[0].Status)
	require.Len(t, tasks[0].FollowUps, 1)
	assert.NotEmpty(t, tasks[0].FollowUps[0].ID, "missing follow-up id backfilled")
	assert.Equal(t, models.StatusPending, tasks[0].FollowUps[0].Status)
	assert.Equal(t, int64(42), tasks[0].FollowUps[0].TaskID)

	// New ids must land past the loaded ones
	created, err := r.CreateTask(TaskFields{Name: "fresh"})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(42))
}

func TestReplaceAll(t *testing.T) {
	r, st := newTestRepo(t)
	r.CreateTask(TaskFields{Name: "old"})

	err := r.ReplaceAll(&models.Snapshot{
		Tasks:       []models.Task{{ID: 7, Name: "imported"}},
		Projects:    []string{"P"},
		Departments: []string{"D"},
	})
	require.NoError(t, err)

	tasks := r.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "imported", tasks[0].Name)
	assert.Equal(t, []string{"P"}, r.Projects())
	assert.Equal(t, []string{"D"}, r.Departments())
	assert.Equal(t, st.snap.Tasks[0].Name, "imported")
}

func TestReplaceAllNilSlices(t *testing.T) {
	r, _ := newTestRepo(t)
	r.CreateTask(TaskFields{Name: "old"})

	require.NoError(t, r.ReplaceAll(&models.Snapshot{}))

	assert.Empty(t, r.Tasks())
	assert.Empty(t, r.Projects())
	assert.Empty(t, r.Departments())
}

func TestEveryMutationSaves(t *testing.T) {
	r, st := newTestRepo(t)

	task, _ := r.CreateTask(TaskFields{Name: "x"})
	fu, _ := r.AddFollowUp(task.ID, FollowUpFields{Title: "y"})
	r.UpdateTaskStatus(task.ID, models.StatusCompleted)
	r.UpdateFollowUpStatus(task.ID, fu.ID, models.StatusCompleted)
	r.DeleteFollowUp(task.ID, fu.ID)
	r.AddProject("Z")
	r.DeleteProject("Z")
	r.DeleteTask(task.ID)

	assert.Equal(t, 8, st.saves)
}

func TestSaveFailureSurfaces(t *testing.T) {
	r, st := newTestRepo(t)
	st.saveErr = errors.New("disk full")

	_, err := r.CreateTask(TaskFields{Name: "x"})
	assert.Error(t, err)
}

func TestSnapshotIsACopy(t *testing.T) {
	r, _ := newTestRepo(t)
	r.CreateTask(TaskFields{Name: "x"})

	snap := r.Snapshot()
	snap.Tasks[0].Name = "mutated"

	assert.Equal(t, "x", r.Tasks()[0].Name)
}
