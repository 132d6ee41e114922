// Package board derives the column view a kanban client renders from
// the flat task collection.
package board

import "github.com/prodpush/prodpush/internal/models"

// Column is one rendered board column.
type Column struct {
	Status models.TaskStatus
	Tasks  []models.Task
}

// Partition groups tasks by status, preserving the relative order of
// tasks within each group. Tasks whose status is not one of the board
// columns are placed nowhere.
func Partition(tasks []models.Task) map[models.TaskStatus][]models.Task {
	groups := make(map[models.TaskStatus][]models.Task, len(models.TaskColumns))
	for _, s := range models.TaskColumns {
		groups[s] = nil
	}
	for _, t := range tasks {
		if !t.Status.Valid() {
			continue
		}
		groups[t.Status] = append(groups[t.Status], t)
	}
	return groups
}

// Columns returns the partitioned tasks in the fixed board order
// TODO, IN_PROGRESS, COMPLETED.
func Columns(tasks []models.Task) []Column {
	groups := Partition(tasks)
	cols := make([]Column, 0, len(models.TaskColumns))
	for _, s := range models.TaskColumns {
		cols = append(cols, Column{Status: s, Tasks: groups[s]})
	}
	return cols
}
