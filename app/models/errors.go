package models

import "errors"

var (
	ErrGoalNotFound     = errors.New("goal not found")
	ErrParentNotFound   = errors.New("parent goal not found")
	ErrParentOwnership  = errors.New("parent goal belongs to another user")
	ErrNotOwner         = errors.New("goal belongs to another user")
	ErrUserNotFound     = errors.New("user not found")
	ErrConflict         = errors.New("goal was modified concurrently")
	ErrInvalidDirection = errors.New("direction must be \"up\" or \"down\"")
	ErrHierarchyCycle   = errors.New("goal hierarchy contains a cycle")
	ErrInvalidRange     = errors.New("min_target must not exceed max_target")
)
