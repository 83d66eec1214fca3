// Package tree assembles flat task rows into a nested forest.
package tree

import "github.com/zulandar/gantry/internal/models"

// Node is a task with its resolved children. Input ordering (level,
// sort_order, task_id) is preserved within each children list.
type Node struct {
	models.Task
	Children []*Node `json:"children"`
}

// Build assembles a forest from a flat task list using each task's parent
// reference. A task whose parent is absent from the input set is promoted
// to the root list rather than dropped, so partial result sets still render.
// Pure transformation, O(n).
func Build(tasks []models.Task) []*Node {
	nodes := make(map[uint]*Node, len(tasks))
	for i := range tasks {
		nodes[tasks[i].TaskID] = &Node{Task: tasks[i], Children: []*Node{}}
	}

	roots := []*Node{}
	for i := range tasks {
		node := nodes[tasks[i].TaskID]
		if tasks[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*tasks[i].ParentID]
		if !ok {
			// Orphaned parent reference, e.g. a truncated query.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}
