package repo

import "strings"

// Project and department names are flat sets of unique strings. Deleting a
// name orphans the tasks referencing it (the reference is cleared, the task
// stays) rather than cascading.

// AddProject adds a project name to the known set.
func (r *Repo) AddProject(name string) error {
	return r.addName(&r.projects, "project", name)
}

// AddDepartment adds a department name to the known set.
func (r *Repo) AddDepartment(name string) error {
	return r.addName(&r.departments, "department", name)
}

// SetProjects replaces the known project name set.
func (r *Repo) SetProjects(names []string) error {
	r.projects = append([]string(nil), names...)
	return r.persist()
}

// SetDepartments replaces the known department name set.
func (r *Repo) SetDepartments(names []string) error {
	r.departments = append([]string(nil), names...)
	return r.persist()
}

// DeleteProject removes the name from the set and clears the project field
// on every task referencing it.
func (r *Repo) DeleteProject(name string) error {
	if !removeName(&r.projects, name) {
		return nil
	}
	for i := range r.tasks {
		if r.tasks[i].Project == name {
			r.tasks[i].Project = ""
		}
	}
	return r.persist()
}

// DeleteDepartment removes the name from the set and clears the department
// field on every task referencing it.
func (r *Repo) DeleteDepartment(name string) error {
	if !removeName(&r.departments, name) {
		return nil
	}
	for i := range r.tasks {
		if r.tasks[i].Department == name {
			r.tasks[i].Department = ""
		}
	}
	return r.persist()
}

func (r *Repo) addName(set *[]string, field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Field: field, Reason: "must not be blank"}
	}
	for _, existing := range *set {
		if existing == name {
			return ErrDuplicate
		}
	}
	*set = append(*set, name)
	return r.persist()
}

func removeName(set *[]string, name string) bool {
	for i, existing := range *set {
		if existing == name {
			*set = append((*set)[:i], (*set)[i+1:]...)
			return true
		}
	}
	return false
}
