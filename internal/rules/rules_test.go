package rules

import (
	"errors"
	"testing"
)

func newStats() CharacterStats {
	return CharacterStats{
		Might:     NewPool(10, 1),
		Speed:     NewPool(9, 0),
		Intellect: NewPool(7, 3),
		Tier:      1,
	}
}

func TestTargetNumberClamps(t *testing.T) {
	tests := []struct {
		difficulty int
		want       int
	}{
		{-3, 0},
		{0, 0},
		{1, 3},
		{4, 12},
		{10, 30},
		{14, 30},
	}
	for _, tt := range tests {
		if got := TargetNumber(tt.difficulty); got != tt.want {
			t.Fatalf("TargetNumber(%d) = %d, want %d", tt.difficulty, got, tt.want)
		}
	}
}

func TestEffectiveDifficultyScenario(t *testing.T) {
	if got := EffectiveDifficulty(4, 1, 1, 1); got != 1 {
		t.Fatalf("EffectiveDifficulty(4,1,1,1) = %d, want 1", got)
	}
	if got := TargetNumber(1); got != 3 {
		t.Fatalf("TargetNumber(1) = %d, want 3", got)
	}
}

func TestEffectiveDifficultyClampsOnlyAtEnd(t *testing.T) {
	// 12 - 2 - 2 - 0 = 8; clamping 12 to 10 first would give 6.
	if got := EffectiveDifficulty(12, 2, 5, 0); got != 8 {
		t.Fatalf("EffectiveDifficulty(12,2,5,0) = %d, want 8", got)
	}
	if got := EffectiveDifficulty(2, 2, 2, 3); got != 0 {
		t.Fatalf("EffectiveDifficulty floor = %d, want 0", got)
	}
}

func TestEffectiveDifficultyMonotonic(t *testing.T) {
	for base := 0; base <= 12; base++ {
		prev := EffectiveDifficulty(base, 0, 0, 0)
		for skill := 0; skill <= MaxSkill; skill++ {
			for assets := 0; assets <= 4; assets++ {
				for effort := 0; effort <= MaxEffort; effort++ {
					got := EffectiveDifficulty(base, skill, assets, effort)
					if got < MinDifficulty || got > MaxDifficulty {
						t.Fatalf("EffectiveDifficulty(%d,%d,%d,%d) = %d out of range", base, skill, assets, effort, got)
					}
					if got > prev && (skill|assets|effort) != 0 {
						t.Fatalf("not monotonic at base=%d skill=%d assets=%d effort=%d", base, skill, assets, effort)
					}
				}
			}
		}
		if EffectiveDifficulty(base, 0, 3, 0) != EffectiveDifficulty(base, 0, 2, 0) {
			t.Fatalf("assets above two should not count, base=%d", base)
		}
	}
}

func TestEffortCost(t *testing.T) {
	tests := []struct {
		effort, edge, want int
	}{
		{0, 0, 0},
		{1, 0, 3},
		{2, 0, 6},
		{1, 1, 2},
		{3, 2, 3},
		{1, 3, 1},
		{2, 5, 2},
	}
	for _, tt := range tests {
		if got := EffortCost(tt.effort, tt.edge); got != tt.want {
			t.Fatalf("EffortCost(%d,%d) = %d, want %d", tt.effort, tt.edge, got, tt.want)
		}
	}
}

func TestResolveTaskCriticalAlwaysSucceeds(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(20))
	stats := newStats()

	res, err := eng.ResolveTask(TaskRequest{BaseDifficulty: 10, Pool: PoolSpeed}, &stats)
	if err != nil {
		t.Fatalf("ResolveTask: %v", err)
	}
	if !res.Success || !res.Critical || res.Fumble {
		t.Fatalf("roll 20 should be critical success: %+v", res)
	}
	if res.Target != 30 || res.Margin != -10 {
		t.Fatalf("unexpected target/margin: %+v", res)
	}
}

func TestResolveTaskNineteenIsCritical(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(19))
	stats := newStats()

	res, err := eng.ResolveTask(TaskRequest{BaseDifficulty: 9, Pool: PoolMight}, &stats)
	if err != nil {
		t.Fatalf("ResolveTask: %v", err)
	}
	if !res.Success || !res.Critical {
		t.Fatalf("roll 19 against 27 should still succeed: %+v", res)
	}
}

func TestResolveTaskFumble(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(1))
	stats := newStats()

	res, err := eng.ResolveTask(TaskRequest{BaseDifficulty: 3, Pool: PoolSpeed}, &stats)
	if err != nil {
		t.Fatalf("ResolveTask: %v", err)
	}
	if res.Success || !res.Fumble || res.Critical {
		t.Fatalf("roll 1 should be a fumble: %+v", res)
	}
	if res.Margin != 8 {
		t.Fatalf("failure margin = %d, want 8", res.Margin)
	}
}

func TestResolveTaskFumbleOnRoutineTaskStillSucceeds(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(1))
	stats := newStats()

	res, err := eng.ResolveTask(TaskRequest{BaseDifficulty: 0, Pool: PoolSpeed}, &stats)
	if err != nil {
		t.Fatalf("ResolveTask: %v", err)
	}
	if !res.Success || !res.Fumble {
		t.Fatalf("roll 1 against target 0 succeeds but is still flagged: %+v", res)
	}
}

func TestResolveTaskExactTargetSucceeds(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(9))
	stats := newStats()

	res, err := eng.ResolveTask(TaskRequest{BaseDifficulty: 3, Pool: PoolSpeed}, &stats)
	if err != nil {
		t.Fatalf("ResolveTask: %v", err)
	}
	if !res.Success || res.Margin != 0 {
		t.Fatalf("roll equal to target should succeed with margin 0: %+v", res)
	}
}

func TestResolveTaskSpendsEffortBeforeFailedRoll(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(2))
	stats := newStats()

	res, err := eng.ResolveTask(TaskRequest{BaseDifficulty: 6, Pool: PoolSpeed, Effort: 2}, &stats)
	if err != nil {
		t.Fatalf("ResolveTask: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure: %+v", res)
	}
	if res.EffortCost != 6 || res.PoolSpent != 6 || stats.Speed.Current != 3 || res.PoolRemaining != 3 {
		t.Fatalf("effort should be charged on failure: %+v speed=%+v", res, stats.Speed)
	}
	if res.EffectiveDifficulty != 4 {
		t.Fatalf("EffectiveDifficulty = %d, want 4", res.EffectiveDifficulty)
	}
}

func TestResolveTaskEdgeAbsorbsEffort(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(10))
	stats := newStats()

	res, err := eng.ResolveTask(TaskRequest{BaseDifficulty: 4, Pool: PoolIntellect, Effort: 1}, &stats)
	if err != nil {
		t.Fatalf("ResolveTask: %v", err)
	}
	if res.PoolSpent != 0 || stats.Intellect.Current != 7 {
		t.Fatalf("edge 3 should fully cover one effort level: %+v intellect=%+v", res, stats.Intellect)
	}
}

func TestResolveTaskUnknownPool(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(10))
	stats := newStats()

	_, err := eng.ResolveTask(TaskRequest{BaseDifficulty: 4, Pool: "luck", Effort: 1}, &stats)
	if !errors.Is(err, ErrUnknownPool) {
		t.Fatalf("err = %v, want ErrUnknownPool", err)
	}
	if stats != newStats() {
		t.Fatalf("stats mutated on unknown pool: %+v", stats)
	}
}

func TestRecoveryRoll(t *testing.T) {
	eng := NewEngine(NewSequenceRoller(4))
	if got := eng.RecoveryRoll(2); got != 6 {
		t.Fatalf("RecoveryRoll(2) = %d, want 6", got)
	}
}

func TestApplyDamage(t *testing.T) {
	eng := NewEngine(nil)
	stats := newStats()

	res, err := eng.ApplyDamage(&stats, 4, PoolMight)
	if err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}
	if res.Remaining != 6 || res.Depleted {
		t.Fatalf("unexpected damage result: %+v", res)
	}
	res, err = eng.ApplyDamage(&stats, 40, PoolMight)
	if err != nil {
		t.Fatalf("ApplyDamage: %v", err)
	}
	if res.Remaining != 0 || !res.Depleted || stats.Might.Current != 0 {
		t.Fatalf("pool should floor at zero: %+v", res)
	}
	if _, err := eng.ApplyDamage(&stats, 1, "luck"); !errors.Is(err, ErrUnknownPool) {
		t.Fatalf("err = %v, want ErrUnknownPool", err)
	}
}

func TestValidators(t *testing.T) {
	if ValidateDifficulty(11) == nil || ValidateDifficulty(-1) == nil || ValidateDifficulty(10) != nil {
		t.Fatal("difficulty validation")
	}
	if ValidateEffort(4) == nil || ValidateEffort(3) != nil {
		t.Fatal("effort validation")
	}
	if ValidateSkill(3) == nil || ValidateSkill(0) != nil {
		t.Fatal("skill validation")
	}
}

func TestRandomRollerRange(t *testing.T) {
	r := NewRandomRoller()
	for i := 0; i < 500; i++ {
		if v := r.Roll(20); v < 1 || v > 20 {
			t.Fatalf("Roll(20) = %d out of range", v)
		}
	}
}
