package models

import (
	"math"
	"time"
)

// CalculateProgress returns percentage completion of the current period.
// Goals with a reset frequency count succeeded sub-periods, everything else
// counts raw progress.
func (g *Goal) CalculateProgress() float64 {
	if g.Target <= 0 {
		return 0
	}
	if g.ResetFrequency != ResetNever {
		return float64(g.ResetsCompleted) / g.Target * 100
	}
	return g.Progress / g.Target * 100
}

// IsGoalAchieved reports whether the current period counts as a success.
func (g *Goal) IsGoalAchieved() bool {
	achieved := g.Progress
	if g.ResetFrequency != ResetNever {
		achieved = float64(g.ResetsCompleted)
	}
	if g.GoalDirection == DirectionDecrease {
		return achieved <= g.Target
	}
	return achieved >= g.Target
}

// ShouldScalePeriod reports whether the current scaling period has elapsed.
// Period length is calendar arithmetic: a monthly period started Jan 31 ends
// at the calendar month boundary, not 30 fixed days later.
func (g *Goal) ShouldScalePeriod(now time.Time) bool {
	var periodEnd time.Time
	switch g.Timeframe {
	case TimeframeDaily:
		periodEnd = g.CurrentPeriodStart.AddDate(0, 0, 1)
	case TimeframeWeekly:
		periodEnd = g.CurrentPeriodStart.AddDate(0, 0, 7)
	case TimeframeMonthly:
		periodEnd = g.CurrentPeriodStart.AddDate(0, 1, 0)
	case TimeframeAnnually:
		periodEnd = g.CurrentPeriodStart.AddDate(1, 0, 0)
	default:
		return false
	}
	return !now.Before(periodEnd)
}

// ApplyAutoScaling computes the next target from a period outcome. For
// increase goals success grows the target and failure shrinks it; for
// decrease goals the mapping inverts, success tightens (lowers) the target
// and failure relaxes it. The result is clamped to [MinTarget, MaxTarget].
// Pure: the goal is not mutated.
func (g *Goal) ApplyAutoScaling(achieved bool) float64 {
	round := math.Floor
	if g.RoundUp {
		round = math.Ceil
	}
	delta := g.Target * (g.ScalePercent / 100)

	newTarget := g.Target
	switch {
	case achieved && g.ScaleUpEnabled:
		if g.GoalDirection == DirectionDecrease {
			newTarget = round(g.Target - delta)
		} else {
			newTarget = round(g.Target + delta)
		}
	case !achieved && g.ScaleDownEnabled:
		if g.GoalDirection == DirectionDecrease {
			newTarget = round(g.Target + delta)
		} else {
			newTarget = round(g.Target - delta)
		}
	}

	return math.Max(g.MinTarget, math.Min(newTarget, g.MaxTarget))
}

// CheckReset closes an elapsed sub-period for goals with a reset frequency.
// It returns true if a sub-period elapsed; the caller must persist the goal
// in that case. Sub-periods with no recorded activity are not logged.
func (g *Goal) CheckReset(now time.Time) bool {
	if g.ResetFrequency == ResetNever {
		return false
	}

	elapsed := false
	switch g.ResetFrequency {
	case ResetDaily:
		y1, m1, d1 := g.LastReset.Date()
		y2, m2, d2 := now.Date()
		elapsed = y1 != y2 || m1 != m2 || d1 != d2
	case ResetWeekly:
		elapsed = now.Sub(g.LastReset) >= 7*24*time.Hour
	case ResetMonthly:
		months := (now.Year()*12 + int(now.Month())) - (g.LastReset.Year()*12 + int(g.LastReset.Month()))
		elapsed = months >= 1
	}
	if !elapsed {
		return false
	}

	resetTarget := 0.0
	if g.ResetTarget != nil {
		resetTarget = *g.ResetTarget
	}
	targetMet := g.CurrentResetProgress >= resetTarget

	if g.CurrentResetProgress > 0 || len(g.ResetLogs) > 0 {
		g.ResetLogs = append(g.ResetLogs, ResetLogEntry{
			Date:      g.LastReset,
			Progress:  g.CurrentResetProgress,
			TargetMet: targetMet,
		})
		if targetMet {
			g.ResetsCompleted++
		}
	}

	g.CurrentResetProgress = 0
	g.LastReset = now
	return true
}

// closePeriod records the outcome of the current scaling period, rescales
// the target and starts a fresh period at now.
func (g *Goal) closePeriod(now time.Time, achieved, manual bool) {
	newTarget := g.ApplyAutoScaling(achieved)

	entry := HistoryEntry{
		PeriodStart: g.CurrentPeriodStart,
		PeriodEnd:   now,
		Target:      g.Target,
		Success:     achieved,
		ScaledTo:    newTarget,
		Manual:      manual,
	}
	if g.ResetFrequency == ResetNever {
		entry.Achieved = g.Progress
		g.Progress = 0
	} else {
		entry.Achieved = float64(g.ResetsCompleted)
		entry.ResetLogs = append([]ResetLogEntry(nil), g.ResetLogs...)
		if g.ResetTarget != nil {
			rt := *g.ResetTarget
			entry.ResetTarget = &rt
		}
		g.CurrentResetProgress = 0
		g.ResetsCompleted = 0
		g.ResetLogs = nil
	}

	g.History = append(g.History, entry)
	g.Target = newTarget
	g.CurrentPeriodStart = now
}

// LogProgress applies one progress increment. Sub-period and period
// transitions are settled first, so the increment always lands in the fresh
// period and is never counted toward one that already closed.
func (g *Goal) LogProgress(increment float64, now time.Time) {
	g.CheckReset(now)
	if g.ShouldScalePeriod(now) {
		g.closePeriod(now, g.IsGoalAchieved(), false)
	}
	if g.ResetFrequency == ResetNever {
		g.Progress += increment
	} else {
		g.CurrentResetProgress += increment
	}
}

// ManualScale closes the current period immediately, treating direction "up"
// as a success and "down" as a failure.
func (g *Goal) ManualScale(direction string, now time.Time) error {
	if direction != "up" && direction != "down" {
		return ErrInvalidDirection
	}
	g.closePeriod(now, direction == "up", true)
	return nil
}

// Refresh settles any sub-period or period transition that elapsed while the
// goal was untouched. Reads call this before returning data so that lazily
// evaluated transitions stay bounded by time-since-last-access. Returns true
// if the goal changed and must be persisted.
func (g *Goal) Refresh(now time.Time) bool {
	changed := g.CheckReset(now)
	if g.ShouldScalePeriod(now) {
		g.closePeriod(now, g.IsGoalAchieved(), false)
		changed = true
	}
	return changed
}
