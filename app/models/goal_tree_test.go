package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatGoal(name string, parent *uuid.UUID, created time.Time) Goal {
	return Goal{
		ID:       uuid.New(),
		UserID:   uuid.Nil,
		ParentID: parent,
		Name:     name,
		IsActive: true,
		Created:  created,
	}
}

func TestAssembleForestArbitraryDepth(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rootOld := flatGoal("root-old", nil, base)
	rootNew := flatGoal("root-new", nil, base.Add(time.Hour))
	childA := flatGoal("child-a", &rootOld.ID, base.Add(2*time.Hour))
	childB := flatGoal("child-b", &rootOld.ID, base.Add(time.Hour))
	grandchild := flatGoal("grandchild", &childA.ID, base.Add(3*time.Hour))
	greatGrandchild := flatGoal("great-grandchild", &grandchild.ID, base.Add(4*time.Hour))

	forest := AssembleForest([]Goal{rootOld, rootNew, childA, childB, grandchild, greatGrandchild})

	require.Len(t, forest, 2)
	// Roots newest-created-first.
	assert.Equal(t, "root-new", forest[0].Name)
	assert.Equal(t, "root-old", forest[1].Name)

	// Children oldest-created-first.
	children := forest[1].Subgoals
	require.Len(t, children, 2)
	assert.Equal(t, "child-b", children[0].Name)
	assert.Equal(t, "child-a", children[1].Name)

	// Depth is unbounded: child-a -> grandchild -> great-grandchild.
	require.Len(t, children[1].Subgoals, 1)
	require.Len(t, children[1].Subgoals[0].Subgoals, 1)
	assert.Equal(t, "great-grandchild", children[1].Subgoals[0].Subgoals[0].Name)
}

func TestAssembleForestExcludesArchivedAndInactiveAtDepth(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	root := flatGoal("root", nil, base)
	archivedChild := flatGoal("archived-child", &root.ID, base.Add(time.Hour))
	archivedChild.IsArchived = true
	childOfArchived := flatGoal("child-of-archived", &archivedChild.ID, base.Add(2*time.Hour))
	keptChild := flatGoal("kept-child", &root.ID, base.Add(3*time.Hour))
	inactiveGrandchild := flatGoal("inactive-grandchild", &keptChild.ID, base.Add(4*time.Hour))
	inactiveGrandchild.IsActive = false
	archivedRoot := flatGoal("archived-root", nil, base.Add(5*time.Hour))
	archivedRoot.IsArchived = true

	forest := AssembleForest([]Goal{
		root, archivedChild, childOfArchived, keptChild, inactiveGrandchild, archivedRoot,
	})

	// Flagged goals never surface, even when the input was not pre-filtered.
	require.Len(t, forest, 1)
	assert.Equal(t, "root", forest[0].Name)
	require.Len(t, forest[0].Subgoals, 1)
	assert.Equal(t, "kept-child", forest[0].Subgoals[0].Name)
	assert.Empty(t, forest[0].Subgoals[0].Subgoals)
}

func TestAssembleForestOrderStableOnEqualCreated(t *testing.T) {
	// Batch-created goals share one Created stamp; order must still be
	// deterministic.
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	root := flatGoal("root", nil, base)
	childA := flatGoal("child-a", &root.ID, base)
	childB := flatGoal("child-b", &root.ID, base)
	childC := flatGoal("child-c", &root.ID, base)
	goals := []Goal{root, childA, childB, childC}

	first := AssembleForest(goals)
	require.Len(t, first, 1)
	require.Len(t, first[0].Subgoals, 3)

	for i := 0; i < 10; i++ {
		again := AssembleForest(goals)
		require.Len(t, again, 1)
		for j, child := range again[0].Subgoals {
			assert.Equal(t, first[0].Subgoals[j].ID, child.ID)
		}
	}
}

func TestAssembleForestDropsOrphans(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	missingParent := uuid.New()

	root := flatGoal("root", nil, base)
	orphan := flatGoal("orphan", &missingParent, base)

	forest := AssembleForest([]Goal{root, orphan})
	require.Len(t, forest, 1)
	assert.Equal(t, "root", forest[0].Name)
	assert.Empty(t, forest[0].Subgoals)
}

func TestCollectSubtreeIDs(t *testing.T) {
	// A (root) has children B, C; B has child D.
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	refs := []GoalRef{
		{ID: a},
		{ID: b, ParentID: &a},
		{ID: c, ParentID: &a},
		{ID: d, ParentID: &b},
	}

	all, err := CollectSubtreeIDs(a, refs)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b, c, d}, all)

	sub, err := CollectSubtreeIDs(b, refs)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{b, d}, sub)
}

func TestCollectSubtreeIDsLeafOnly(t *testing.T) {
	leaf := uuid.New()
	ids, err := CollectSubtreeIDs(leaf, []GoalRef{{ID: leaf}})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{leaf}, ids)
}

func TestCollectSubtreeIDsDetectsCycle(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	refs := []GoalRef{
		{ID: a, ParentID: &b},
		{ID: b, ParentID: &a},
	}
	_, err := CollectSubtreeIDs(a, refs)
	assert.ErrorIs(t, err, ErrHierarchyCycle)
}
