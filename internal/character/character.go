// Package character models Cypher System player characters:
// "I am a <descriptor> <type> who <focus>".
package character

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/rules"
)

const (
	MaxCyphers    = 2
	maxSkillLevel = 2
)

var skillLevelNames = [...]string{"Untrained", "Trained", "Specialized"}

// Cypher is a single-use ability.
type Cypher struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	Used        bool   `json:"used"`
}

type Character struct {
	Name       string
	Descriptor string
	Type       string
	Focus      string
	Stats      rules.CharacterStats
	Inventory  []string
	Cyphers    []Cypher
	Skills     map[string]int
	Abilities  []string
}

// Clone returns a deep copy.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Inventory = append([]string(nil), c.Inventory...)
	out.Cyphers = append([]Cypher(nil), c.Cyphers...)
	out.Abilities = append([]string(nil), c.Abilities...)
	out.Skills = make(map[string]int, len(c.Skills))
	for k, v := range c.Skills {
		out.Skills[k] = v
	}
	return &out
}

func (c *Character) String() string {
	return fmt.Sprintf("I am a %s %s who %s", c.Descriptor, c.Type, c.Focus)
}

// AddSkill sets a skill level, lowercasing the name and clamping to [0,2].
func (c *Character) AddSkill(name string, level int) {
	if c.Skills == nil {
		c.Skills = make(map[string]int)
	}
	c.Skills[strings.ToLower(strings.TrimSpace(name))] = max(0, min(maxSkillLevel, level))
}

// SkillLevel returns 0 for skills the character does not have.
func (c *Character) SkillLevel(name string) int {
	return c.Skills[strings.ToLower(strings.TrimSpace(name))]
}

// AddCypher appends a cypher, evicting the oldest when already holding
// MaxCyphers.
func (c *Character) AddCypher(cy Cypher) {
	if cy.Level < 1 {
		cy.Level = 1
	}
	if len(c.Cyphers) >= MaxCyphers {
		log.Warn().Str("character", c.Name).Str("evicted", c.Cyphers[0].Name).Msg("cypher limit reached, replacing oldest")
		c.Cyphers = append(c.Cyphers[1:len(c.Cyphers):len(c.Cyphers)], cy)
		return
	}
	c.Cyphers = append(c.Cyphers, cy)
}

// UseCypher marks the first unused cypher with a matching name as used.
func (c *Character) UseCypher(name string) (Cypher, bool) {
	for i := range c.Cyphers {
		if strings.EqualFold(c.Cyphers[i].Name, name) && !c.Cyphers[i].Used {
			c.Cyphers[i].Used = true
			return c.Cyphers[i], true
		}
	}
	return Cypher{}, false
}

func (c *Character) AddItem(item string) {
	item = strings.TrimSpace(item)
	if item == "" {
		return
	}
	c.Inventory = append(c.Inventory, item)
}

// Describe renders the full character sheet as markdown.
func (c *Character) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n%s\n\n", c.Name, c.String())
	fmt.Fprintf(&b, "**Tier:** %d | **XP:** %d\n\n", c.Stats.Tier, c.Stats.XP)
	b.WriteString("**Stat Pools:**\n")
	writePool(&b, "Might", c.Stats.Might)
	writePool(&b, "Speed", c.Stats.Speed)
	writePool(&b, "Intellect", c.Stats.Intellect)

	if len(c.Skills) > 0 {
		b.WriteString("\n**Skills:**\n")
		names := make([]string, 0, len(c.Skills))
		for name := range c.Skills {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "  %s: %s\n", name, skillLevelNames[c.Skills[name]])
		}
	}

	if len(c.Abilities) > 0 {
		b.WriteString("\n**Abilities:**\n")
		for _, a := range c.Abilities {
			fmt.Fprintf(&b, "  %s\n", a)
		}
	}

	var ready []Cypher
	for _, cy := range c.Cyphers {
		if !cy.Used {
			ready = append(ready, cy)
		}
	}
	if len(ready) > 0 {
		b.WriteString("\n**Cyphers:**\n")
		for _, cy := range ready {
			fmt.Fprintf(&b, "  %s (Level %d)\n", cy.Name, cy.Level)
		}
	}

	if len(c.Inventory) > 0 {
		fmt.Fprintf(&b, "\n**Inventory:** %s\n", strings.Join(c.Inventory, ", "))
	}
	return b.String()
}

func writePool(b *strings.Builder, label string, p rules.StatPool) {
	fmt.Fprintf(b, "  %s: %d/%d (Edge: %d)\n", label, p.Current, p.Maximum, p.Edge)
}

// PoolLine is a compact one-line pool readout used in narrator context.
func (c *Character) PoolLine() string {
	s := c.Stats
	return fmt.Sprintf("Might: %d/%d, Speed: %d/%d, Intellect: %d/%d",
		s.Might.Current, s.Might.Maximum,
		s.Speed.Current, s.Speed.Maximum,
		s.Intellect.Current, s.Intellect.Maximum)
}
