package repo

import (
	"strings"

	"go.uber.org/zap"

	"github.com/knkapps/followup/internal/models"
)

// TaskFields are the user-supplied fields for a new task.
type TaskFields struct {
	Name         string
	Project      string
	Department   string
	Notes        string
	Status       models.Status
	FollowUpDate models.When
	Contact      *models.Contact
}

// CreateTask creates a new task. The name must be non-empty after trimming.
func (r *Repo) CreateTask(fields TaskFields) (*models.Task, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be blank"}
	}

	t := models.Task{
		ID:           r.nextID(),
		Name:         name,
		Project:      fields.Project,
		Department:   fields.Department,
		Notes:        fields.Notes,
		Status:       fields.Status.Normalize(),
		FollowUpDate: fields.FollowUpDate,
		Contact:      fields.Contact,
		CreatedAt:    models.NewWhen(r.now()),
		FollowUps:    []models.FollowUp{},
	}

	// Newest first, matching the order the views expect.
	r.tasks = append([]models.Task{t}, r.tasks...)

	if err := r.persist(); err != nil {
		return nil, err
	}
	r.log.Info("task created", zap.Int64("id", t.ID), zap.String("name", t.Name))
	out := t
	return &out, nil
}

// GetTask returns the task with the given id.
func (r *Repo) GetTask(id int64) (*models.Task, error) {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			t := r.tasks[i]
			t.FollowUps = append([]models.FollowUp(nil), t.FollowUps...)
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateTaskStatus sets the status of the task with the given id.
func (r *Repo) UpdateTaskStatus(id int64, status models.Status) error {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Status = status.Normalize()
			return r.persist()
		}
	}
	return ErrNotFound
}

// DeleteTask removes the task and all its follow-ups. Deleting an absent id
// is a no-op.
func (r *Repo) DeleteTask(id int64) error {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			r.log.Info("task deleted", zap.Int64("id", id))
			return r.persist()
		}
	}
	return nil
}
