package repo

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/knkapps/followup/internal/models"
)

// Store persists the full snapshot. Load returning a nil snapshot means no
// prior state.
type Store interface {
	Load() (*models.Snapshot, error)
	Save(*models.Snapshot) error
}

// Seed name sets applied when there is no prior state.
var (
	DefaultProjects    = []string{"Greenland", "Sriniketan"}
	DefaultDepartments = []string{"Marketing", "Sales", "Admin", "Legal", "Accounts", "Liaisoning"}
)

// Repo owns the canonical in-memory task collection. All mutation goes
// through it so that the cascade/orphan rules and the save-after-every-change
// contract are applied in one place.
type Repo struct {
	store Store
	log   *zap.Logger
	now   func() time.Time

	tasks       []models.Task
	projects    []string
	departments []string
	lastID      int64
}

// Option configures a Repo.
type Option func(*Repo)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.now = now }
}

// New loads prior state from the store. A load error is treated as no prior
// state, not as fatal.
func New(store Store, log *zap.Logger, opts ...Option) *Repo {
	r := &Repo{
		store: store,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	snap, err := store.Load()
	if err != nil {
		r.log.Warn("loading saved state failed, starting empty", zap.Error(err))
		snap = nil
	}
	if snap == nil {
		r.projects = append([]string(nil), DefaultProjects...)
		r.departments = append([]string(nil), DefaultDepartments...)
		return r
	}
	r.adopt(snap)
	return r
}

// adopt installs a snapshot as the current state, normalizing what legacy
// documents leave out: missing statuses, missing follow-up ids, and stale
// task back-references.
func (r *Repo) adopt(snap *models.Snapshot) {
	r.tasks = snap.Tasks
	r.projects = snap.Projects
	r.departments = snap.Departments
	if r.tasks == nil {
		r.tasks = []models.Task{}
	}
	if r.projects == nil {
		r.projects = []string{}
	}
	if r.departments == nil {
		r.departments = []string{}
	}

	r.lastID = 0
	for i := range r.tasks {
		t := &r.tasks[i]
		t.Status = t.Status.Normalize()
		if t.ID > r.lastID {
			r.lastID = t.ID
		}
		if t.FollowUps == nil {
			t.FollowUps = []models.FollowUp{}
		}
		for j := range t.FollowUps {
			fu := &t.FollowUps[j]
			fu.Status = fu.Status.Normalize()
			fu.TaskID = t.ID
			if fu.ID == "" {
				fu.ID = uuid.NewString()
			}
		}
	}
}

// ReplaceAll wholesale replaces tasks, projects and departments. Used by
// import; the caller is expected to have run the permissive shape validation
// already, but nil slices are still tolerated here.
func (r *Repo) ReplaceAll(snap *models.Snapshot) error {
	if snap == nil {
		snap = &models.Snapshot{}
	}
	r.adopt(snap.Clone())
	return r.persist()
}

// Snapshot returns a deep copy of the current state.
func (r *Repo) Snapshot() *models.Snapshot {
	s := models.Snapshot{
		Tasks:       r.tasks,
		Projects:    r.projects,
		Departments: r.departments,
	}
	return s.Clone()
}

// Tasks returns a copy of the task collection.
func (r *Repo) Tasks() []models.Task {
	return r.Snapshot().Tasks
}

// Projects returns a copy of the known project names.
func (r *Repo) Projects() []string {
	return append([]string(nil), r.projects...)
}

// Departments returns a copy of the known department names.
func (r *Repo) Departments() []string {
	return append([]string(nil), r.departments...)
}

// persist saves the full snapshot after a mutation. The in-memory change
// stands even if the save fails; the error is logged and returned so the
// caller can surface it.
func (r *Repo) persist() error {
	if err := r.store.Save(r.Snapshot()); err != nil {
		r.log.Error("saving state failed", zap.Error(err))
		return err
	}
	return nil
}

// nextID assigns a fresh unique task id. IDs are Unix milliseconds like the
// web version used, bumped past the previous id so two creations in the same
// millisecond never collide and deleted ids are never reused.
func (r *Repo) nextID() int64 {
	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}
