package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodpush/prodpush/internal/models"
)

func task(id int64, status models.TaskStatus) models.Task {
	return models.Task{ID: id, Title: "t", Status: status}
}

func TestPartition_GroupsByStatusPreservingOrder(t *testing.T) {
	tasks := []models.Task{
		task(1, models.StatusTodo),
		task(2, models.StatusCompleted),
		task(3, models.StatusTodo),
		task(4, models.StatusInProgress),
		task(5, models.StatusTodo),
	}

	groups := Partition(tasks)

	ids := func(list []models.Task) []int64 {
		out := make([]int64, len(list))
		for i, tk := range list {
			out[i] = tk.ID
		}
		return out
	}

	assert.Equal(t, []int64{1, 3, 5}, ids(groups[models.StatusTodo]))
	assert.Equal(t, []int64{4}, ids(groups[models.StatusInProgress]))
	assert.Equal(t, []int64{2}, ids(groups[models.StatusCompleted]))
}

func TestPartition_ExcludesUnrecognizedStatus(t *testing.T) {
	tasks := []models.Task{
		task(1, models.StatusTodo),
		task(2, models.TaskStatus("ARCHIVED")),
		task(3, models.TaskStatus("")),
	}

	groups := Partition(tasks)

	total := 0
	for _, list := range groups {
		total += len(list)
	}
	assert.Equal(t, 1, total, "tasks with an unrecognized status belong to no column")
}

func TestPartition_UnionEqualsRecognizedSubset(t *testing.T) {
	tasks := []models.Task{
		task(1, models.StatusInProgress),
		task(2, models.TaskStatus("BOGUS")),
		task(3, models.StatusCompleted),
		task(4, models.StatusTodo),
		task(5, models.StatusCompleted),
	}

	groups := Partition(tasks)

	seen := map[int64]int{}
	for _, list := range groups {
		for _, tk := range list {
			seen[tk.ID]++
		}
	}

	for _, tk := range tasks {
		if tk.Status.Valid() {
			assert.Equal(t, 1, seen[tk.ID], "recognized task %d must appear exactly once", tk.ID)
		} else {
			assert.Zero(t, seen[tk.ID], "unrecognized task %d must appear nowhere", tk.ID)
		}
	}
}

func TestPartition_EmptyInput(t *testing.T) {
	groups := Partition(nil)
	require.Len(t, groups, len(models.TaskColumns))
	for _, s := range models.TaskColumns {
		assert.Empty(t, groups[s])
	}
}

func TestColumns_FixedOrder(t *testing.T) {
	cols := Columns([]models.Task{task(1, models.StatusCompleted)})
	require.Len(t, cols, 3)
	assert.Equal(t, models.StatusTodo, cols[0].Status)
	assert.Equal(t, models.StatusInProgress, cols[1].Status)
	assert.Equal(t, models.StatusCompleted, cols[2].Status)
	assert.Len(t, cols[2].Tasks, 1)
}
