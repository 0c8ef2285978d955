package repo

import (
	"github.com/google/uuid"

	"github.com/knkapps/followup/internal/models"
)

// FollowUpFields are the user-supplied fields for a new follow-up.
type FollowUpFields struct {
	Title   string
	Date    models.When
	Notes   string
	Status  models.Status
	Contact *models.Contact
}

// AddFollowUp appends a follow-up to the task with the given id.
func (r *Repo) AddFollowUp(taskID int64, fields FollowUpFields) (*models.FollowUp, error) {
	for i := range r.tasks {
		if r.tasks[i].ID != taskID {
			continue
		}
		fu := models.FollowUp{
			ID:        uuid.NewString(),
			TaskID:    taskID,
			Title:     fields.Title,
			Date:      fields.Date,
			Notes:     fields.Notes,
			Status:    fields.Status.Normalize(),
			Contact:   fields.Contact,
			CreatedAt: models.NewWhen(r.now()),
		}
		r.tasks[i].FollowUps = append(r.tasks[i].FollowUps, fu)
		if err := r.persist(); err != nil {
			return nil, err
		}
		out := fu
		return &out, nil
	}
	return nil, ErrNotFound
}

// DeleteFollowUp removes the follow-up with the given id from the task.
// Deleting an absent task or follow-up is a no-op.
func (r *Repo) DeleteFollowUp(taskID int64, followUpID string) error {
	for i := range r.tasks {
		if r.tasks[i].ID != taskID {
			continue
		}
		fus := r.tasks[i].FollowUps
		for j := range fus {
			if fus[j].ID == followUpID {
				r.tasks[i].FollowUps = append(fus[:j], fus[j+1:]...)
				return r.persist()
			}
		}
		return nil
	}
	return nil
}

// UpdateFollowUpStatus sets the status of a single follow-up.
func (r *Repo) UpdateFollowUpStatus(taskID int64, followUpID string, status models.Status) error {
	for i := range r.tasks {
		if r.tasks[i].ID != taskID {
			continue
		}
		fus := r.tasks[i].FollowUps
		for j := range fus {
			if fus[j].ID == followUpID {
				fus[j].Status = status.Normalize()
				return r.persist()
			}
		}
		return ErrNotFound
	}
	return ErrNotFound
}
