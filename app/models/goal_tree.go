package models

import (
	"sort"

	"github.com/google/uuid"
)

// GoalRef is the minimal projection used for hierarchy traversal.
type GoalRef struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
}

// AssembleForest wires a flat slice of goals into trees of arbitrary depth.
// Archived and inactive goals are excluded no matter what the caller passes
// in, so the listing invariant does not depend on the query's WHERE clause.
// A child whose parent is excluded or missing from the input is dropped
// rather than promoted to a root, hiding the whole subtree. Roots come back
// newest-created-first, children within a parent oldest-first.
func AssembleForest(goals []Goal) []*Goal {
	nodes := make(map[uuid.UUID]*Goal, len(goals))
	for i := range goals {
		g := goals[i]
		if g.IsArchived || !g.IsActive {
			continue
		}
		g.Subgoals = nil
		nodes[g.ID] = &g
	}

	var roots []*Goal
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if parent, ok := nodes[*n.ParentID]; ok {
			parent.Subgoals = append(parent.Subgoals, n)
		}
	}

	// Equal Created stamps (batch-created goals) tie-break on id so the
	// tree renders the same way on every request.
	sort.Slice(roots, func(i, j int) bool {
		if !roots[i].Created.Equal(roots[j].Created) {
			return roots[i].Created.After(roots[j].Created)
		}
		return roots[i].ID.String() < roots[j].ID.String()
	})
	for _, n := range nodes {
		children := n.Subgoals
		sort.Slice(children, func(i, j int) bool {
			if !children[i].Created.Equal(children[j].Created) {
				return children[i].Created.Before(children[j].Created)
			}
			return children[i].ID.String() < children[j].ID.String()
		})
	}
	return roots
}

// CollectSubtreeIDs returns rootID plus every transitive descendant reachable
// through the given edges. A node encountered twice means the stored
// hierarchy is not a forest; that is reported as ErrHierarchyCycle instead
// of looping.
func CollectSubtreeIDs(rootID uuid.UUID, refs []GoalRef) ([]uuid.UUID, error) {
	children := make(map[uuid.UUID][]uuid.UUID, len(refs))
	for _, r := range refs {
		if r.ParentID != nil {
			children[*r.ParentID] = append(children[*r.ParentID], r.ID)
		}
	}

	visited := make(map[uuid.UUID]bool)
	ids := []uuid.UUID{}
	stack := []uuid.UUID{rootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			return nil, ErrHierarchyCycle
		}
		visited[id] = true
		ids = append(ids, id)
		stack = append(stack, children[id]...)
	}
	return ids, nil
}
