package queries

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goaltracker/goaltracker-backend/app/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type GoalQueries struct {
	DB *sql.DB
}

// GoalFilter narrows GetGoalsByUser listings.
type GoalFilter struct {
	IncludeArchived bool
	Timeframe       string
	GoalDirection   string
}

const goalColumns = `id, user_id, parent_id, name, description, unit, target, progress, timeframe, current_period_start, reset_frequency, current_reset_progress, reset_target, resets_completed, last_reset, reset_logs, goal_direction, scale_percent, scale_up_enabled, scale_down_enabled, round_up, min_target, max_target, is_active, is_archived, history, created, updated`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var g models.Goal
	var parentID uuid.NullUUID
	var resetTarget sql.NullFloat64
	var resetLogsBytes, historyBytes []byte

	err := row.Scan(
		&g.ID,
		&g.UserID,
		&parentID,
		&g.Name,
		&g.Description,
		&g.Unit,
		&g.Target,
		&g.Progress,
		&g.Timeframe,
		&g.CurrentPeriodStart,
		&g.ResetFrequency,
		&g.CurrentResetProgress,
		&resetTarget,
		&g.ResetsCompleted,
		&g.LastReset,
		&resetLogsBytes,
		&g.GoalDirection,
		&g.ScalePercent,
		&g.ScaleUpEnabled,
		&g.ScaleDownEnabled,
		&g.RoundUp,
		&g.MinTarget,
		&g.MaxTarget,
		&g.IsActive,
		&g.IsArchived,
		&historyBytes,
		&g.Created,
		&g.Updated,
	)
	if err != nil {
		return g, err
	}

	if parentID.Valid {
		pid := parentID.UUID
		g.ParentID = &pid
	}
	if resetTarget.Valid {
		rt := resetTarget.Float64
		g.ResetTarget = &rt
	}
	if len(resetLogsBytes) > 0 {
		if err := json.Unmarshal(resetLogsBytes, &g.ResetLogs); err != nil {
			return g, fmt.Errorf("unable to decode reset logs: %w", err)
		}
	}
	if len(historyBytes) > 0 {
		if err := json.Unmarshal(historyBytes, &g.History); err != nil {
			return g, fmt.Errorf("unable to decode history: %w", err)
		}
	}
	return g, nil
}

func marshalGoalBlobs(g *models.Goal) (resetLogs, history []byte, err error) {
	resetLogs, err = json.Marshal(g.ResetLogs)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to encode reset logs: %w", err)
	}
	history, err = json.Marshal(g.History)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to encode history: %w", err)
	}
	return resetLogs, history, nil
}

func nullableUUID(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func (q *GoalQueries) CreateGoal(g *models.Goal) error {
	resetLogs, history, err := marshalGoalBlobs(g)
	if err != nil {
		return err
	}
	query := `INSERT INTO goals (` + goalColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)`
	_, err = q.DB.Exec(query,
		g.ID, g.UserID, nullableUUID(g.ParentID), g.Name, g.Description, g.Unit,
		g.Target, g.Progress, g.Timeframe, g.CurrentPeriodStart,
		g.ResetFrequency, g.CurrentResetProgress, nullableFloat(g.ResetTarget),
		g.ResetsCompleted, g.LastReset, resetLogs,
		g.GoalDirection, g.ScalePercent, g.ScaleUpEnabled, g.ScaleDownEnabled,
		g.RoundUp, g.MinTarget, g.MaxTarget, g.IsActive, g.IsArchived,
		history, g.Created, g.Updated,
	)
	if err != nil {
		return fmt.Errorf("unable to create goal: %w", err)
	}
	return nil
}

func (q *GoalQueries) GetGoalByID(id uuid.UUID) (models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`
	g, err := scanGoal(q.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return g, models.ErrGoalNotFound
		}
		return g, fmt.Errorf("unable to get goal: %w", err)
	}
	return g, nil
}

func (q *GoalQueries) queryGoals(query string, args ...interface{}) ([]models.Goal, error) {
	rows, err := q.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (q *GoalQueries) GetGoalsByUser(userID uuid.UUID, filter GoalFilter) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1`
	args := []interface{}{userID}
	if !filter.IncludeArchived {
		query += ` AND is_archived = FALSE`
	}
	if filter.Timeframe != "" {
		args = append(args, filter.Timeframe)
		query += fmt.Sprintf(` AND timeframe = $%d`, len(args))
	}
	if filter.GoalDirection != "" {
		args = append(args, filter.GoalDirection)
		query += fmt.Sprintf(` AND goal_direction = $%d`, len(args))
	}
	query += ` ORDER BY created DESC`
	return q.queryGoals(query, args...)
}

// FindRootGoals lists the owner's active, unarchived top-level goals,
// newest first.
func (q *GoalQueries) FindRootGoals(userID uuid.UUID) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals
			  WHERE user_id = $1 AND parent_id IS NULL AND is_active = TRUE AND is_archived = FALSE
			  ORDER BY created DESC`
	return q.queryGoals(query, userID)
}

// FindSubgoals lists a goal's active, unarchived children, oldest first.
func (q *GoalQueries) FindSubgoals(parentID uuid.UUID) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals
			  WHERE parent_id = $1 AND is_active = TRUE AND is_archived = FALSE
			  ORDER BY created ASC`
	return q.queryGoals(query, parentID)
}

// GetActiveGoalsByUser fetches every active, unarchived goal of the owner in
// one read; FindGoalTree assembles the forest in memory from this.
func (q *GoalQueries) GetActiveGoalsByUser(userID uuid.UUID) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals
			  WHERE user_id = $1 AND is_active = TRUE AND is_archived = FALSE`
	return q.queryGoals(query, userID)
}

// UpdateGoal writes the goal back conditioned on the updated stamp the
// caller read, so two concurrent read-modify-write flows cannot silently
// overwrite each other. On success g.Updated carries the new stamp.
func (q *GoalQueries) UpdateGoal(g *models.Goal, prevUpdated time.Time) error {
	resetLogs, history, err := marshalGoalBlobs(g)
	if err != nil {
		return err
	}
	g.Updated = time.Now()

	query := `UPDATE goals SET
				parent_id = $1, name = $2, description = $3, unit = $4,
				target = $5, progress = $6, timeframe = $7, current_period_start = $8,
				reset_frequency = $9, current_reset_progress = $10, reset_target = $11,
				resets_completed = $12, last_reset = $13, reset_logs = $14,
				goal_direction = $15, scale_percent = $16, scale_up_enabled = $17,
				scale_down_enabled = $18, round_up = $19, min_target = $20, max_target = $21,
				is_active = $22, is_archived = $23, history = $24, updated = $25
			  WHERE id = $26 AND updated = $27`
	res, err := q.DB.Exec(query,
		nullableUUID(g.ParentID), g.Name, g.Description, g.Unit,
		g.Target, g.Progress, g.Timeframe, g.CurrentPeriodStart,
		g.ResetFrequency, g.CurrentResetProgress, nullableFloat(g.ResetTarget),
		g.ResetsCompleted, g.LastReset, resetLogs,
		g.GoalDirection, g.ScalePercent, g.ScaleUpEnabled,
		g.ScaleDownEnabled, g.RoundUp, g.MinTarget, g.MaxTarget,
		g.IsActive, g.IsArchived, history, g.Updated,
		g.ID, prevUpdated,
	)
	if err != nil {
		return fmt.Errorf("unable to update goal: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := q.DB.QueryRow(`SELECT EXISTS (SELECT 1 FROM goals WHERE id = $1)`, g.ID).Scan(&exists); err != nil {
			return fmt.Errorf("unable to update goal: %w", err)
		}
		if !exists {
			return models.ErrGoalNotFound
		}
		return models.ErrConflict
	}
	return nil
}

// ListGoalRefs returns the (id, parent_id) edge list of every goal owned by
// the user, regardless of active/archived state. Cascading delete traverses
// this in memory.
func (q *GoalQueries) ListGoalRefs(userID uuid.UUID) ([]models.GoalRef, error) {
	rows, err := q.DB.Query(`SELECT id, parent_id FROM goals WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to query goal refs: %w", err)
	}
	defer rows.Close()

	var refs []models.GoalRef
	for rows.Next() {
		var r models.GoalRef
		var parentID uuid.NullUUID
		if err := rows.Scan(&r.ID, &parentID); err != nil {
			return nil, err
		}
		if parentID.Valid {
			pid := parentID.UUID
			r.ParentID = &pid
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// DeleteGoalsByIDs removes the given goals in one batch and returns how many
// rows went away.
func (q *GoalQueries) DeleteGoalsByIDs(ids []uuid.UUID) (int64, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	res, err := q.DB.Exec(`DELETE FROM goals WHERE id = ANY($1::uuid[])`, pq.Array(strIDs))
	if err != nil {
		return 0, fmt.Errorf("unable to delete goals: %w", err)
	}
	return res.RowsAffected()
}

// DeleteGoalAndSubgoals removes a goal and every transitive descendant,
// returning the number of records deleted. Descendants are deleted
// unconditionally, archived or not.
func (q *GoalQueries) DeleteGoalAndSubgoals(goalID uuid.UUID) (int64, error) {
	goal, err := q.GetGoalByID(goalID)
	if err != nil {
		return 0, err
	}
	refs, err := q.ListGoalRefs(goal.UserID)
	if err != nil {
		return 0, err
	}
	ids, err := models.CollectSubtreeIDs(goalID, refs)
	if err != nil {
		return 0, err
	}
	return q.DeleteGoalsByIDs(ids)
}

func (q *GoalQueries) DeleteGoalsByUser(userID uuid.UUID) error {
	_, err := q.DB.Exec(`DELETE FROM goals WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("unable to delete goals for user: %w", err)
	}
	return nil
}

func (q *GoalQueries) CountGoalsByUser(userID uuid.UUID) (int, error) {
	var cnt int
	if err := q.DB.QueryRow(`SELECT count(*) FROM goals WHERE user_id = $1`, userID).Scan(&cnt); err != nil {
		return 0, fmt.Errorf("unable to count goals: %w", err)
	}
	return cnt, nil
}
