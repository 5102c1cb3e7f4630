package gm

import (
	"time"

	"nexus-gm/internal/character"
	"nexus-gm/internal/narrative"
	"nexus-gm/internal/rules"
	"nexus-gm/internal/session"
)

// TurnResult is what a player sees after a scene is generated.
type TurnResult struct {
	SessionID string              `json:"session_id"`
	SceneID   string              `json:"scene_id"`
	Scene     string              `json:"scene"`
	Choices   []string            `json:"choices"`
	KeyMoment narrative.KeyMoment `json:"key_moment,omitempty"`
	// Illustrated reports that an illustration request was queued.
	Illustrated bool `json:"illustration_queued"`
	// Failed is set when the narrator errored and nothing was committed.
	Failed bool `json:"failed"`
	// Fallback is set when the opening scene came from the built-in text.
	Fallback bool `json:"fallback,omitempty"`
}

type RollInput struct {
	Pool       string `json:"pool"`
	Difficulty int    `json:"difficulty"`
	Effort     int    `json:"effort"`
	Skill      int    `json:"skill"`
	Assets     int    `json:"assets"`
	// SkillName looks the skill level up on the character when Skill is 0.
	SkillName string `json:"skill_name,omitempty"`
}

type RollOutcome struct {
	rules.TaskResult
	Narrative string `json:"narrative"`
}

type RecoverResult struct {
	Pool     rules.PoolName `json:"pool"`
	Roll     int            `json:"roll"`
	Restored int            `json:"restored"`
	Current  int            `json:"current"`
	Maximum  int            `json:"maximum"`
}

type Intrusion struct {
	Description string `json:"description"`
	XPOffered   int    `json:"xp_offered"`
	Accepted    bool   `json:"accepted"`
}

// Status is a read-only view of a session for one user.
type Status struct {
	Session   session.SessionInfo `json:"session"`
	State     session.GameState   `json:"state"`
	Character *character.Summary  `json:"character,omitempty"`
	Sheet     string              `json:"sheet,omitempty"`
}

const (
	defaultNarratorTimeout = 60 * time.Second
	defaultJanitorInterval = 10 * time.Minute
	recentEventsForContext = 5

	fallbackOpeningScene = "You find yourself in the ruins of Melbourne, the Nexus Weave shimmering around you..."
	narratorErrorPrefix  = "Something went wrong processing your action: "
)

var fallbackOpeningChoices = []string{
	"Explore the ruins",
	"Seek other survivors",
	"Investigate the Nexus energy",
	"Take a moment to rest",
}
