package models

import (
	"time"

	"github.com/google/uuid"
)

type Timeframe string

const (
	TimeframeDaily    Timeframe = "daily"
	TimeframeWeekly   Timeframe = "weekly"
	TimeframeMonthly  Timeframe = "monthly"
	TimeframeAnnually Timeframe = "annually"
)

func (t Timeframe) IsValid() bool {
	switch t {
	case TimeframeDaily, TimeframeWeekly, TimeframeMonthly, TimeframeAnnually:
		return true
	default:
		return false
	}
}

type ResetFrequency string

const (
	ResetNever   ResetFrequency = "never"
	ResetDaily   ResetFrequency = "daily"
	ResetWeekly  ResetFrequency = "weekly"
	ResetMonthly ResetFrequency = "monthly"
)

func (r ResetFrequency) IsValid() bool {
	switch r {
	case ResetNever, ResetDaily, ResetWeekly, ResetMonthly:
		return true
	default:
		return false
	}
}

type GoalDirection string

const (
	DirectionIncrease GoalDirection = "increase"
	DirectionDecrease GoalDirection = "decrease"
)

// ResetLogEntry records the outcome of one elapsed sub-period.
type ResetLogEntry struct {
	Date      time.Time `json:"date"`
	Progress  float64   `json:"progress"`
	TargetMet bool      `json:"target_met"`
}

// HistoryEntry records the outcome of one closed scaling period. Entries are
// append-only and never mutated after the period closes.
type HistoryEntry struct {
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Target      float64         `json:"target"`
	Achieved    float64         `json:"achieved"`
	Success     bool            `json:"success"`
	ScaledTo    float64         `json:"scaled_to"`
	Manual      bool            `json:"manual"`
	ResetLogs   []ResetLogEntry `json:"reset_logs,omitempty"`
	ResetTarget *float64        `json:"reset_target,omitempty"`
}

// Goal is a numeric goal whose target rescales at period boundaries. Goals
// nest through ParentID into per-user forests. Reset bookkeeping fields
// (CurrentResetProgress, ResetTarget, ResetsCompleted, LastReset, ResetLogs)
// only carry meaning when ResetFrequency is not "never".
type Goal struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	UserID               uuid.UUID       `json:"user_id" db:"user_id"`
	ParentID             *uuid.UUID      `json:"parent_id" db:"parent_id"`
	Name                 string          `json:"name" db:"name"`
	Description          string          `json:"description" db:"description"`
	Unit                 string          `json:"unit" db:"unit"`
	Target               float64         `json:"target" db:"target"`
	Progress             float64         `json:"progress" db:"progress"`
	Timeframe            Timeframe       `json:"timeframe" db:"timeframe"`
	CurrentPeriodStart   time.Time       `json:"current_period_start" db:"current_period_start"`
	ResetFrequency       ResetFrequency  `json:"reset_frequency" db:"reset_frequency"`
	CurrentResetProgress float64         `json:"current_reset_progress" db:"current_reset_progress"`
	ResetTarget          *float64        `json:"reset_target,omitempty" db:"reset_target"`
	ResetsCompleted      int             `json:"resets_completed" db:"resets_completed"`
	LastReset            time.Time       `json:"last_reset" db:"last_reset"`
	ResetLogs            []ResetLogEntry `json:"reset_logs" db:"reset_logs"`
	GoalDirection        GoalDirection   `json:"goal_direction" db:"goal_direction"`
	ScalePercent         float64         `json:"scale_percent" db:"scale_percent"`
	ScaleUpEnabled       bool            `json:"scale_up_enabled" db:"scale_up_enabled"`
	ScaleDownEnabled     bool            `json:"scale_down_enabled" db:"scale_down_enabled"`
	RoundUp              bool            `json:"round_up" db:"round_up"`
	MinTarget            float64         `json:"min_target" db:"min_target"`
	MaxTarget            float64         `json:"max_target" db:"max_target"`
	IsActive             bool            `json:"is_active" db:"is_active"`
	IsArchived           bool            `json:"is_archived" db:"is_archived"`
	History              []HistoryEntry  `json:"history" db:"history"`
	Subgoals             []*Goal         `json:"subgoals,omitempty"`
	Created              time.Time       `json:"created" db:"created"`
	Updated              time.Time       `json:"updated" db:"updated"`
}

type CreateGoalRequest struct {
	Name             string   `json:"name" validate:"required,lte=200"`
	Description      string   `json:"description" validate:"omitempty,lte=1000"`
	Unit             string   `json:"unit" validate:"required,lte=50"`
	Target           float64  `json:"target" validate:"gte=0"`
	Timeframe        string   `json:"timeframe" validate:"required,oneof=daily weekly monthly annually"`
	ResetFrequency   string   `json:"reset_frequency" validate:"omitempty,oneof=never daily weekly monthly"`
	ResetTarget      *float64 `json:"reset_target" validate:"omitempty,gte=0"`
	GoalDirection    string   `json:"goal_direction" validate:"omitempty,oneof=increase decrease"`
	ScalePercent     *float64 `json:"scale_percent" validate:"omitempty,gte=0.1,lte=100"`
	ScaleUpEnabled   *bool    `json:"scale_up_enabled"`
	ScaleDownEnabled *bool    `json:"scale_down_enabled"`
	RoundUp          *bool    `json:"round_up"`
	MinTarget        *float64 `json:"min_target" validate:"omitempty,gte=0"`
	MaxTarget        *float64 `json:"max_target" validate:"omitempty,gte=1"`
	ParentID         string   `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateGoalRequest carries partial edits. The owner is immutable, so there
// is deliberately no user_id field here.
type UpdateGoalRequest struct {
	Name             *string  `json:"name" validate:"omitempty,lte=200"`
	Description      *string  `json:"description" validate:"omitempty,lte=1000"`
	Unit             *string  `json:"unit" validate:"omitempty,lte=50"`
	Target           *float64 `json:"target" validate:"omitempty,gte=0"`
	Timeframe        *string  `json:"timeframe" validate:"omitempty,oneof=daily weekly monthly annually"`
	ResetFrequency   *string  `json:"reset_frequency" validate:"omitempty,oneof=never daily weekly monthly"`
	ResetTarget      *float64 `json:"reset_target" validate:"omitempty,gte=0"`
	GoalDirection    *string  `json:"goal_direction" validate:"omitempty,oneof=increase decrease"`
	ScalePercent     *float64 `json:"scale_percent" validate:"omitempty,gte=0.1,lte=100"`
	ScaleUpEnabled   *bool    `json:"scale_up_enabled"`
	ScaleDownEnabled *bool    `json:"scale_down_enabled"`
	RoundUp          *bool    `json:"round_up"`
	MinTarget        *float64 `json:"min_target" validate:"omitempty,gte=0"`
	MaxTarget        *float64 `json:"max_target" validate:"omitempty,gte=1"`
	IsActive         *bool    `json:"is_active"`
}

type LogProgressRequest struct {
	Increment *float64 `json:"increment" validate:"omitempty,gt=0"`
}

type ManualScaleRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// NewGoal builds a goal for an owner from a validated create request,
// filling the documented defaults for everything the request leaves unset.
func NewGoal(userID uuid.UUID, req *CreateGoalRequest, now time.Time) *Goal {
	g := &Goal{
		ID:                 uuid.New(),
		UserID:             userID,
		Name:               req.Name,
		Description:        req.Description,
		Unit:               req.Unit,
		Target:             req.Target,
		Timeframe:          Timeframe(req.Timeframe),
		CurrentPeriodStart: now,
		ResetFrequency:     ResetNever,
		ResetTarget:        req.ResetTarget,
		LastReset:          now,
		GoalDirection:      DirectionIncrease,
		ScalePercent:       5,
		ScaleUpEnabled:     true,
		ScaleDownEnabled:   true,
		RoundUp:            true,
		MinTarget:          1,
		MaxTarget:          100,
		IsActive:           true,
		Created:            now,
		Updated:            now,
	}
	if req.ResetFrequency != "" {
		g.ResetFrequency = ResetFrequency(req.ResetFrequency)
	}
	if req.GoalDirection != "" {
		g.GoalDirection = GoalDirection(req.GoalDirection)
	}
	if req.ScalePercent != nil {
		g.ScalePercent = *req.ScalePercent
	}
	if req.ScaleUpEnabled != nil {
		g.ScaleUpEnabled = *req.ScaleUpEnabled
	}
	if req.ScaleDownEnabled != nil {
		g.ScaleDownEnabled = *req.ScaleDownEnabled
	}
	if req.RoundUp != nil {
		g.RoundUp = *req.RoundUp
	}
	if req.MinTarget != nil {
		g.MinTarget = *req.MinTarget
	}
	if req.MaxTarget != nil {
		g.MaxTarget = *req.MaxTarget
	}
	return g
}

// ApplyUpdate copies the set fields of an update request onto the goal.
func (g *Goal) ApplyUpdate(req *UpdateGoalRequest) {
	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.Description != nil {
		g.Description = *req.Description
	}
	if req.Unit != nil {
		g.Unit = *req.Unit
	}
	if req.Target != nil {
		g.Target = *req.Target
	}
	if req.Timeframe != nil {
		g.Timeframe = Timeframe(*req.Timeframe)
	}
	if req.ResetFrequency != nil {
		g.ResetFrequency = ResetFrequency(*req.ResetFrequency)
	}
	if req.ResetTarget != nil {
		g.ResetTarget = req.ResetTarget
	}
	if req.GoalDirection != nil {
		g.GoalDirection = GoalDirection(*req.GoalDirection)
	}
	if req.ScalePercent != nil {
		g.ScalePercent = *req.ScalePercent
	}
	if req.ScaleUpEnabled != nil {
		g.ScaleUpEnabled = *req.ScaleUpEnabled
	}
	if req.ScaleDownEnabled != nil {
		g.ScaleDownEnabled = *req.ScaleDownEnabled
	}
	if req.RoundUp != nil {
		g.RoundUp = *req.RoundUp
	}
	if req.MinTarget != nil {
		g.MinTarget = *req.MinTarget
	}
	if req.MaxTarget != nil {
		g.MaxTarget = *req.MaxTarget
	}
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}
}
