package gm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/character"
	"nexus-gm/internal/rules"
)

// ResolveRoll runs a task roll against the user's character and records a
// roll event with the outcome.
func (e *Engine) ResolveRoll(ctx context.Context, id, user string, in RollInput) (RollOutcome, error) {
	pool, err := rules.ParsePool(in.Pool)
	if err != nil {
		return RollOutcome{}, err
	}
	if err := rules.ValidateDifficulty(in.Difficulty); err != nil {
		return RollOutcome{}, fmt.Errorf("difficulty: %w", err)
	}
	if err := rules.ValidateEffort(in.Effort); err != nil {
		return RollOutcome{}, fmt.Errorf("effort: %w", err)
	}
	if err := rules.ValidateSkill(in.Skill); err != nil {
		return RollOutcome{}, fmt.Errorf("skill: %w", err)
	}
	if in.Assets < 0 {
		return RollOutcome{}, fmt.Errorf("assets: %w", rules.ErrOutOfRange)
	}
	if _, err := e.activeMember(id, user); err != nil {
		return RollOutcome{}, err
	}

	var result rules.TaskResult
	err = e.store.UpdateCharacter(id, user, func(c *character.Character) error {
		skill := in.Skill
		if skill == 0 && in.SkillName != "" {
			skill = c.SkillLevel(in.SkillName)
		}
		r, err := e.rules.ResolveTask(rules.TaskRequest{
			BaseDifficulty: in.Difficulty,
			Pool:           pool,
			Skill:          skill,
			Assets:         in.Assets,
			Effort:         in.Effort,
		}, &c.Stats)
		result = r
		return err
	})
	if err != nil {
		return RollOutcome{}, err
	}

	out := RollOutcome{TaskResult: result, Narrative: rollNarrative(result)}
	if _, err := e.store.AddEvent(id, "roll", fmt.Sprintf("%s roll: %s", pool, out.Narrative), rollMetadata(out)); err != nil {
		return RollOutcome{}, err
	}
	metricRollTotal.Add(1)
	log.Info().Str("session_id", id).Str("user_id", user).Str("pool", string(pool)).Int("roll", result.Roll).Int("target", result.Target).Bool("success", result.Success).Msg("task resolved")
	return out, nil
}

func rollNarrative(r rules.TaskResult) string {
	switch {
	case r.Success && r.Critical:
		return fmt.Sprintf("**Critical Success!** You roll a %d, achieving an exceptional result!", r.Roll)
	case r.Success:
		return fmt.Sprintf("You roll a %d (target: %d) and succeed!", r.Roll, r.Target)
	case r.Fumble:
		return "**Fumble!** You roll a 1, something goes wrong!"
	default:
		return fmt.Sprintf("You roll a %d (target: %d) and fail.", r.Roll, r.Target)
	}
}

func rollMetadata(o RollOutcome) map[string]any {
	return map[string]any{
		"success":              o.Success,
		"roll":                 o.Roll,
		"target":               o.Target,
		"effective_difficulty": o.EffectiveDifficulty,
		"base_difficulty":      o.BaseDifficulty,
		"pool_used":            string(o.Pool),
		"pool_remaining":       o.PoolRemaining,
		"effort_applied":       o.EffortApplied,
		"effort_cost":          o.EffortCost,
		"is_critical":          o.Critical,
		"is_fumble":            o.Fumble,
		"margin":               o.Margin,
		"narrative":            o.Narrative,
	}
}

// Recover rolls 1d6 + tier and restores it to the named pool.
func (e *Engine) Recover(ctx context.Context, id, user, poolName string) (RecoverResult, error) {
	pool, err := rules.ParsePool(poolName)
	if err != nil {
		return RecoverResult{}, err
	}
	if _, err := e.activeMember(id, user); err != nil {
		return RecoverResult{}, err
	}
	var out RecoverResult
	err = e.store.UpdateCharacter(id, user, func(c *character.Character) error {
		p, err := c.Stats.Pool(pool)
		if err != nil {
			return err
		}
		roll := e.rules.RecoveryRoll(c.Stats.Tier)
		before := p.Current
		p.Restore(roll)
		out = RecoverResult{Pool: pool, Roll: roll, Restored: p.Current - before, Current: p.Current, Maximum: p.Maximum}
		return nil
	})
	if err != nil {
		return RecoverResult{}, err
	}
	desc := fmt.Sprintf("Recovery roll: %d, restored %d %s", out.Roll, out.Restored, pool)
	if _, err := e.store.AddEvent(id, "recovery", desc, map[string]any{
		"pool":     string(pool),
		"roll":     out.Roll,
		"restored": out.Restored,
		"current":  out.Current,
	}); err != nil {
		return RecoverResult{}, err
	}
	return out, nil
}

func (e *Engine) Damage(ctx context.Context, id, user, poolName string, amount int) (rules.DamageResult, error) {
	pool, err := rules.ParsePool(poolName)
	if err != nil {
		return rules.DamageResult{}, err
	}
	if amount < 0 {
		return rules.DamageResult{}, ErrInvalidAmount
	}
	if _, err := e.activeMember(id, user); err != nil {
		return rules.DamageResult{}, err
	}
	var out rules.DamageResult
	err = e.store.UpdateCharacter(id, user, func(c *character.Character) error {
		r, err := e.rules.ApplyDamage(&c.Stats, amount, pool)
		out = r
		return err
	})
	if err != nil {
		return rules.DamageResult{}, err
	}
	desc := fmt.Sprintf("Took %d %s damage", amount, pool)
	if out.Depleted {
		desc += " (" + string(pool) + " depleted)"
	}
	if _, err := e.store.AddEvent(id, "damage", desc, map[string]any{
		"pool":      string(pool),
		"amount":    amount,
		"remaining": out.Remaining,
		"depleted":  out.Depleted,
	}); err != nil {
		return rules.DamageResult{}, err
	}
	if out.Depleted {
		log.Warn().Str("session_id", id).Str("user_id", user).Str("pool", string(pool)).Msg("pool depleted")
	}
	return out, nil
}

// GMIntrusion records a complication offer. xp <= 0 uses the standard
// intrusion award.
func (e *Engine) GMIntrusion(ctx context.Context, id, description string, xp int) (Intrusion, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Intrusion{}, ErrMissingField
	}
	if xp <= 0 {
		xp = e.rules.GMIntrusionCost()
	}
	in := Intrusion{Description: description, XPOffered: xp}
	if _, err := e.store.AddEvent(id, "gm_intrusion", description, map[string]any{
		"description": in.Description,
		"xp_offered":  in.XPOffered,
		"accepted":    in.Accepted,
	}); err != nil {
		return Intrusion{}, err
	}
	log.Info().Str("session_id", id).Int("xp_offered", xp).Msg("gm intrusion offered")
	return in, nil
}

// AcceptIntrusion awards the intrusion XP to the user's character.
func (e *Engine) AcceptIntrusion(ctx context.Context, id, user string, xp int) (int, error) {
	if xp <= 0 {
		xp = e.rules.GMIntrusionCost()
	}
	if _, err := e.member(id, user); err != nil {
		return 0, err
	}
	total := 0
	err := e.store.UpdateCharacter(id, user, func(c *character.Character) error {
		c.Stats.AwardXP(xp)
		total = c.Stats.XP
		return nil
	})
	if err != nil {
		return 0, err
	}
	if _, err := e.store.AddEvent(id, "gm_intrusion_accepted", fmt.Sprintf("GM intrusion accepted: +%d XP", xp), map[string]any{
		"user_id":  user,
		"xp":       xp,
		"total_xp": total,
	}); err != nil {
		return 0, err
	}
	return total, nil
}
