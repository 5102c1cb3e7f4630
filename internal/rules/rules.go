// Package rules implements Cypher System task resolution over stat pools.
package rules

const (
	MinDifficulty = 0
	MaxDifficulty = 10
	MaxSkill      = 2
	MaxAssets     = 2
	MaxEffort     = 3

	baseEffortCost  = 3
	gmIntrusionCost = 2
)

// Engine resolves tasks. It is stateless apart from the pools passed in and
// its own dice source.
type Engine struct {
	dice Roller
}

func NewEngine(dice Roller) *Engine {
	if dice == nil {
		dice = NewRandomRoller()
	}
	return &Engine{dice: dice}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// TargetNumber converts a difficulty to the d20 threshold.
func TargetNumber(difficulty int) int {
	return clamp(difficulty, MinDifficulty, MaxDifficulty) * 3
}

// EffectiveDifficulty applies skill, assets (at most two count) and effort.
// Only the final value is clamped.
func EffectiveDifficulty(base, skill, assets, effort int) int {
	effective := base - skill - min(assets, MaxAssets) - effort
	return clamp(effective, MinDifficulty, MaxDifficulty)
}

// EffortCost is the nominal pool cost of applying effort levels.
func EffortCost(effort, edge int) int {
	if effort <= 0 {
		return 0
	}
	return effort * max(1, baseEffortCost-edge)
}

func ValidateDifficulty(d int) error {
	if d < MinDifficulty || d > MaxDifficulty {
		return ErrOutOfRange
	}
	return nil
}

func ValidateEffort(e int) error {
	if e < 0 || e > MaxEffort {
		return ErrOutOfRange
	}
	return nil
}

func ValidateSkill(s int) error {
	if s < 0 || s > MaxSkill {
		return ErrOutOfRange
	}
	return nil
}

type TaskRequest struct {
	BaseDifficulty int
	Pool           PoolName
	Skill          int
	Assets         int
	Effort         int
}

type TaskResult struct {
	Success             bool     `json:"success"`
	Roll                int      `json:"roll"`
	Target              int      `json:"target"`
	EffectiveDifficulty int      `json:"effective_difficulty"`
	BaseDifficulty      int      `json:"base_difficulty"`
	Pool                PoolName `json:"pool_used"`
	PoolRemaining       int      `json:"pool_remaining"`
	EffortApplied       int      `json:"effort_applied"`
	EffortCost          int      `json:"effort_cost"`
	PoolSpent           int      `json:"pool_spent"`
	Critical            bool     `json:"is_critical"`
	Fumble              bool     `json:"is_fumble"`
	Margin              int      `json:"margin"`
}

// ResolveTask spends effort from the chosen pool, then rolls a d20. A 19 or
// 20 always succeeds; a 1 is flagged as a fumble. The pool is charged even
// when the roll fails.
func (e *Engine) ResolveTask(req TaskRequest, stats *CharacterStats) (TaskResult, error) {
	pool, err := stats.Pool(req.Pool)
	if err != nil {
		return TaskResult{}, err
	}

	effective := EffectiveDifficulty(req.BaseDifficulty, req.Skill, req.Assets, req.Effort)
	cost := EffortCost(req.Effort, pool.Edge)
	spent := 0
	if cost > 0 {
		spent = pool.Spend(cost)
	}

	target := TargetNumber(effective)
	roll := e.dice.Roll(20)
	critical := roll == 19 || roll == 20
	fumble := roll == 1
	success := roll >= target || critical

	margin := target - roll
	if success {
		margin = roll - target
	}

	return TaskResult{
		Success:             success,
		Roll:                roll,
		Target:              target,
		EffectiveDifficulty: effective,
		BaseDifficulty:      req.BaseDifficulty,
		Pool:                req.Pool,
		PoolRemaining:       pool.Current,
		EffortApplied:       req.Effort,
		EffortCost:          cost,
		PoolSpent:           spent,
		Critical:            critical,
		Fumble:              fumble,
		Margin:              margin,
	}, nil
}

// RecoveryRoll is 1d6 + tier. The caller decides which pool to restore.
func (e *Engine) RecoveryRoll(tier int) int {
	return e.dice.Roll(6) + tier
}

type DamageResult struct {
	Dealt     int      `json:"damage_dealt"`
	Pool      PoolName `json:"pool"`
	Remaining int      `json:"remaining"`
	Depleted  bool     `json:"depleted"`
}

func (e *Engine) ApplyDamage(stats *CharacterStats, amount int, name PoolName) (DamageResult, error) {
	pool, err := stats.Pool(name)
	if err != nil {
		return DamageResult{}, err
	}
	pool.Damage(amount)
	return DamageResult{
		Dealt:     amount,
		Pool:      name,
		Remaining: pool.Current,
		Depleted:  pool.Depleted(),
	}, nil
}

// GMIntrusionCost is the XP offered for accepting a GM intrusion.
func (e *Engine) GMIntrusionCost() int {
	return gmIntrusionCost
}
