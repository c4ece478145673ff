package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGoal() *Goal {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Goal{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		Name:               "Weekly Workouts",
		Unit:               "times",
		Target:             10,
		Timeframe:          TimeframeWeekly,
		CurrentPeriodStart: now,
		ResetFrequency:     ResetNever,
		LastReset:          now,
		GoalDirection:      DirectionIncrease,
		ScalePercent:       10,
		ScaleUpEnabled:     true,
		ScaleDownEnabled:   true,
		RoundUp:            true,
		MinTarget:          1,
		MaxTarget:          100,
		IsActive:           true,
		Created:            now,
		Updated:            now,
	}
}

func TestApplyAutoScalingIsPure(t *testing.T) {
	g := testGoal()
	before := *g

	first := g.ApplyAutoScaling(true)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, g.ApplyAutoScaling(true))
	}
	assert.Equal(t, before, *g, "ApplyAutoScaling must not mutate the goal")
}

func TestApplyAutoScalingIncrease(t *testing.T) {
	g := testGoal()

	// target=10, scalePercent=10, roundUp: success grows to ceil(10+1)=11
	assert.Equal(t, 11.0, g.ApplyAutoScaling(true))
	// failure shrinks to ceil(10-1)=9
	assert.Equal(t, 9.0, g.ApplyAutoScaling(false))

	g.RoundUp = false
	g.ScalePercent = 7
	assert.Equal(t, 10.0, g.ApplyAutoScaling(true))  // floor(10.7)
	assert.Equal(t, 9.0, g.ApplyAutoScaling(false))  // floor(9.3)
}

func TestApplyAutoScalingDecreaseInvertsMapping(t *testing.T) {
	g := testGoal()
	g.GoalDirection = DirectionDecrease
	g.Target = 50
	g.Progress = 60
	g.ScalePercent = 5

	// 60 > 50 on a decrease goal means the period failed.
	assert.False(t, g.IsGoalAchieved())
	// Failure with scaleDownEnabled relaxes the target upward.
	assert.Equal(t, 53.0, g.ApplyAutoScaling(false)) // ceil(50 + 2.5)
	// Success tightens it downward.
	assert.Equal(t, 48.0, g.ApplyAutoScaling(true)) // ceil(50 - 2.5)
}

func TestApplyAutoScalingDisabledLeavesTarget(t *testing.T) {
	g := testGoal()
	g.ScaleUpEnabled = false
	assert.Equal(t, 10.0, g.ApplyAutoScaling(true))

	g = testGoal()
	g.ScaleDownEnabled = false
	assert.Equal(t, 10.0, g.ApplyAutoScaling(false))
}

func TestApplyAutoScalingClamps(t *testing.T) {
	g := testGoal()
	g.MaxTarget = 10
	assert.Equal(t, 10.0, g.ApplyAutoScaling(true), "clamped to maxTarget")

	g = testGoal()
	g.Target = 2
	g.ScalePercent = 100
	g.MinTarget = 1
	assert.Equal(t, 1.0, g.ApplyAutoScaling(false), "clamped to minTarget")

	for _, achieved := range []bool{true, false} {
		got := g.ApplyAutoScaling(achieved)
		assert.GreaterOrEqual(t, got, g.MinTarget)
		assert.LessOrEqual(t, got, g.MaxTarget)
	}
}

func TestShouldScalePeriod(t *testing.T) {
	start := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		timeframe Timeframe
		now       time.Time
		want      bool
	}{
		{TimeframeDaily, start.Add(23 * time.Hour), false},
		{TimeframeDaily, start.AddDate(0, 0, 1), true},
		{TimeframeWeekly, start.AddDate(0, 0, 6), false},
		{TimeframeWeekly, start.AddDate(0, 0, 7), true},
		{TimeframeMonthly, start.AddDate(0, 0, 27), false},
		{TimeframeMonthly, start.AddDate(0, 1, 0), true},
		{TimeframeAnnually, start.AddDate(0, 11, 0), false},
		{TimeframeAnnually, start.AddDate(1, 0, 0), true},
	}
	for _, tc := range cases {
		g := testGoal()
		g.Timeframe = tc.timeframe
		g.CurrentPeriodStart = start
		assert.Equal(t, tc.want, g.ShouldScalePeriod(tc.now), "%s at %s", tc.timeframe, tc.now)
	}
}

func TestCheckResetDailyCalendarDate(t *testing.T) {
	g := testGoal()
	g.ResetFrequency = ResetDaily
	g.LastReset = time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)

	// Two minutes later but a new calendar date.
	now := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)
	assert.True(t, g.CheckReset(now))
	assert.Equal(t, now, g.LastReset)

	// Same date, no reset.
	assert.False(t, g.CheckReset(now.Add(5*time.Hour)))
}

func TestCheckResetWeeklyFixedInterval(t *testing.T) {
	g := testGoal()
	g.ResetFrequency = ResetWeekly
	g.LastReset = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) // a Wednesday

	// Crossing a calendar week boundary is not enough.
	assert.False(t, g.CheckReset(g.LastReset.Add(5*24*time.Hour)))
	assert.False(t, g.CheckReset(g.LastReset.Add(7*24*time.Hour-time.Minute)))
	assert.True(t, g.CheckReset(g.LastReset.Add(7*24*time.Hour)))
}

func TestCheckResetMonthlyIgnoresDayOfMonth(t *testing.T) {
	g := testGoal()
	g.ResetFrequency = ResetMonthly
	g.LastReset = time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)

	assert.True(t, g.CheckReset(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))

	g.LastReset = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, g.CheckReset(time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC)))
}

func TestCheckResetBookkeeping(t *testing.T) {
	rt := 3.0
	g := testGoal()
	g.ResetFrequency = ResetDaily
	g.ResetTarget = &rt
	g.LastReset = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	// No prior activity: counters roll but nothing is logged.
	day2 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	require.True(t, g.CheckReset(day2))
	assert.Empty(t, g.ResetLogs)
	assert.Equal(t, 0, g.ResetsCompleted)

	// Met sub-period.
	g.CurrentResetProgress = 4
	day3 := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	require.True(t, g.CheckReset(day3))
	require.Len(t, g.ResetLogs, 1)
	assert.Equal(t, day2, g.ResetLogs[0].Date)
	assert.Equal(t, 4.0, g.ResetLogs[0].Progress)
	assert.True(t, g.ResetLogs[0].TargetMet)
	assert.Equal(t, 1, g.ResetsCompleted)
	assert.Zero(t, g.CurrentResetProgress)

	// Missed sub-period: logged, counter unchanged.
	g.CurrentResetProgress = 2
	day4 := time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)
	require.True(t, g.CheckReset(day4))
	require.Len(t, g.ResetLogs, 2)
	assert.False(t, g.ResetLogs[1].TargetMet)
	assert.Equal(t, 1, g.ResetsCompleted, "resetsCompleted never decrements")

	// Empty sub-period after prior logs is still recorded.
	day5 := time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC)
	require.True(t, g.CheckReset(day5))
	require.Len(t, g.ResetLogs, 3)
	assert.False(t, g.ResetLogs[2].TargetMet)
}

func TestLogProgressClosesPeriodBeforeIncrement(t *testing.T) {
	g := testGoal()
	g.Progress = 10 // exactly at target
	start := g.CurrentPeriodStart
	now := start.AddDate(0, 0, 7)

	g.LogProgress(1, now)

	require.Len(t, g.History, 1)
	entry := g.History[0]
	assert.Equal(t, start, entry.PeriodStart)
	assert.Equal(t, now, entry.PeriodEnd)
	assert.Equal(t, 10.0, entry.Target)
	assert.Equal(t, 10.0, entry.Achieved)
	assert.True(t, entry.Success)
	assert.Equal(t, 11.0, entry.ScaledTo)
	assert.False(t, entry.Manual)

	// The increment landed in the new period, not the closed one.
	assert.Equal(t, 11.0, g.Target)
	assert.Equal(t, 1.0, g.Progress)
	assert.Equal(t, now, g.CurrentPeriodStart)
}

func TestLogProgressMidPeriodJustAccumulates(t *testing.T) {
	g := testGoal()
	g.LogProgress(2, g.CurrentPeriodStart.Add(time.Hour))
	g.LogProgress(3, g.CurrentPeriodStart.Add(2*time.Hour))
	assert.Equal(t, 5.0, g.Progress)
	assert.Empty(t, g.History)
	assert.Equal(t, 10.0, g.Target)
}

func TestLogProgressResetModeOrdering(t *testing.T) {
	rt := 3.0
	g := testGoal()
	g.Timeframe = TimeframeMonthly
	g.ResetFrequency = ResetDaily
	g.ResetTarget = &rt
	g.Target = 1 // one successful sub-period closes the month as achieved
	g.CurrentPeriodStart = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	g.LastReset = time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC)
	g.CurrentResetProgress = 5

	// A sub-period elapsing exactly at the period boundary is logged before
	// the period closes.
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	g.LogProgress(1, now)

	require.Len(t, g.History, 1)
	entry := g.History[0]
	assert.True(t, entry.Success)
	assert.Equal(t, 1.0, entry.Achieved, "the met sub-period counted toward the closing period")
	require.Len(t, entry.ResetLogs, 1)
	assert.True(t, entry.ResetLogs[0].TargetMet)
	require.NotNil(t, entry.ResetTarget)
	assert.Equal(t, 3.0, *entry.ResetTarget)

	// Fresh period: counters zeroed, increment applied to the new sub-period.
	assert.Zero(t, g.ResetsCompleted)
	assert.Empty(t, g.ResetLogs)
	assert.Equal(t, 1.0, g.CurrentResetProgress)
	assert.Zero(t, g.Progress)
}

func TestManualScale(t *testing.T) {
	g := testGoal()
	g.Progress = 4
	now := g.CurrentPeriodStart.Add(time.Hour)

	require.NoError(t, g.ManualScale("up", now))
	require.Len(t, g.History, 1)
	assert.True(t, g.History[0].Manual)
	assert.True(t, g.History[0].Success)
	assert.Equal(t, 11.0, g.Target)
	assert.Zero(t, g.Progress)

	require.NoError(t, g.ManualScale("down", now.Add(time.Minute)))
	require.Len(t, g.History, 2)
	assert.False(t, g.History[1].Success)
	assert.Equal(t, 10.0, g.Target) // ceil(11 - 1.1)
}

func TestManualScaleRejectsBadDirection(t *testing.T) {
	g := testGoal()
	err := g.ManualScale("sideways", time.Now())
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Empty(t, g.History)
}

func TestIsGoalAchieved(t *testing.T) {
	g := testGoal()
	g.Progress = 10
	assert.True(t, g.IsGoalAchieved())
	g.Progress = 9.5
	assert.False(t, g.IsGoalAchieved())

	g.GoalDirection = DirectionDecrease
	assert.True(t, g.IsGoalAchieved()) // 9.5 <= 10

	g = testGoal()
	g.ResetFrequency = ResetWeekly
	g.Target = 3
	g.ResetsCompleted = 3
	g.Progress = 0
	assert.True(t, g.IsGoalAchieved(), "reset goals compare resetsCompleted")
}

func TestCalculateProgress(t *testing.T) {
	g := testGoal()
	g.Progress = 5
	assert.InDelta(t, 50.0, g.CalculateProgress(), 1e-9)

	g.Target = 0
	assert.Zero(t, g.CalculateProgress(), "zero target never divides")

	g = testGoal()
	g.ResetFrequency = ResetDaily
	g.Target = 4
	g.ResetsCompleted = 1
	assert.InDelta(t, 25.0, g.CalculateProgress(), 1e-9)
}

func TestRefreshSettlesLazyTransitions(t *testing.T) {
	g := testGoal()
	g.Progress = 10

	assert.False(t, g.Refresh(g.CurrentPeriodStart.Add(time.Hour)), "nothing due")

	now := g.CurrentPeriodStart.AddDate(0, 0, 14)
	assert.True(t, g.Refresh(now))
	require.Len(t, g.History, 1)
	assert.Zero(t, g.Progress, "no increment on a read-path refresh")
	assert.Equal(t, now, g.CurrentPeriodStart)
}

func TestHistoryJSONRoundTrip(t *testing.T) {
	rt := 2.0
	g := testGoal()
	g.ResetFrequency = ResetDaily
	g.ResetTarget = &rt
	g.CurrentResetProgress = 3
	g.LastReset = time.Date(2026, 2, 27, 6, 0, 0, 0, time.UTC)
	g.CurrentPeriodStart = time.Date(2026, 2, 22, 6, 0, 0, 0, time.UTC)

	// Build a couple of real periods worth of history.
	g.LogProgress(4, time.Date(2026, 2, 28, 6, 0, 0, 0, time.UTC))
	g.LogProgress(1, time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC))
	require.NotEmpty(t, g.History)

	encoded, err := json.Marshal(g)
	require.NoError(t, err)

	var decoded Goal
	require.NoError(t, json.Unmarshal(encoded, &decoded))

	reencoded, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(encoded), string(reencoded))

	require.Equal(t, len(g.History), len(decoded.History))
	for i := range g.History {
		assert.True(t, g.History[i].PeriodStart.Equal(decoded.History[i].PeriodStart))
		assert.True(t, g.History[i].PeriodEnd.Equal(decoded.History[i].PeriodEnd))
		assert.Equal(t, g.History[i].Target, decoded.History[i].Target)
		assert.Equal(t, g.History[i].Achieved, decoded.History[i].Achieved)
		assert.Equal(t, g.History[i].Success, decoded.History[i].Success)
		assert.Equal(t, g.History[i].ScaledTo, decoded.History[i].ScaledTo)
	}
}
