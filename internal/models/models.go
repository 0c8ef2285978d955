package models

// Status of a task or follow-up.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Normalize maps a missing status to Pending. Legacy exports sometimes omit
// the field entirely.
func (s Status) Normalize() Status {
	if s == "" {
		return StatusPending
	}
	return s
}

// Contact is an optional person attached to a task or follow-up
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// FollowUp is a scheduled or logged interaction owned by exactly one task
type FollowUp struct {
	ID        string   `json:"id"`
	TaskID    int64    `json:"taskId"`
	Title     string   `json:"title,omitempty"`
	Date      When     `json:"date,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Status    Status   `json:"status"`
	Contact   *Contact `json:"contact,omitempty"`
	CreatedAt When     `json:"createdAt"`
}

// Task is a unit of work, optionally tagged with a project and department
// and carrying zero or more follow-ups.
type Task struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Project      string     `json:"project,omitempty"`
	Department   string     `json:"department,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Status       Status     `json:"status"`
	FollowUpDate When       `json:"followUpDate,omitempty"`
	Contact      *Contact   `json:"contact,omitempty"`
	CreatedAt    When       `json:"createdAt"`
	FollowUps    []FollowUp `json:"followUps"`
}

// Snapshot is the full serializable state: all tasks plus the known
// project and department name sets.
type Snapshot struct {
	Tasks       []Task   `json:"tasks"`
	Projects    []string `json:"projects"`
	Departments []string `json:"departments"`
}

// Clone returns a deep copy of the snapshot so callers can hand it out
// without exposing repository-owned slices.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Tasks:       make([]Task, len(s.Tasks)),
		Projects:    append([]string(nil), s.Projects...),
		Departments: append([]string(nil), s.Departments...),
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = t
		out.Tasks[i].FollowUps = append([]FollowUp(nil), t.FollowUps...)
	}
	return out
}
