package character

import "nexus-gm/internal/rules"

type PoolSummary struct {
	Current int `json:"current"`
	Max     int `json:"max"`
	Edge    int `json:"edge"`
}

// Summary is the exported form of a character.
type Summary struct {
	Name       string         `json:"name"`
	Descriptor string         `json:"descriptor"`
	Type       string         `json:"type"`
	Focus      string         `json:"focus"`
	Tier       int            `json:"tier"`
	XP         int            `json:"xp"`
	Might      PoolSummary    `json:"might"`
	Speed      PoolSummary    `json:"speed"`
	Intellect  PoolSummary    `json:"intellect"`
	Inventory  []string       `json:"inventory"`
	Skills     map[string]int `json:"skills"`
	Cyphers    []Cypher       `json:"cyphers,omitempty"`
	Abilities  []string       `json:"special_abilities,omitempty"`
}

func (c *Character) Summary() Summary {
	cp := c.Clone()
	inv := cp.Inventory
	if inv == nil {
		inv = []string{}
	}
	return Summary{
		Name:       cp.Name,
		Descriptor: cp.Descriptor,
		Type:       cp.Type,
		Focus:      cp.Focus,
		Tier:       cp.Stats.Tier,
		XP:         cp.Stats.XP,
		Might:      poolSummary(cp.Stats.Might),
		Speed:      poolSummary(cp.Stats.Speed),
		Intellect:  poolSummary(cp.Stats.Intellect),
		Inventory:  inv,
		Skills:     cp.Skills,
		Cyphers:    cp.Cyphers,
		Abilities:  cp.Abilities,
	}
}

// FromSummary rebuilds a character without consulting the type tables, so
// characters built permissively survive a round trip.
func FromSummary(s Summary) *Character {
	c := &Character{
		Name:       s.Name,
		Descriptor: s.Descriptor,
		Type:       s.Type,
		Focus:      s.Focus,
		Stats: rules.CharacterStats{
			Might:     restorePool(s.Might),
			Speed:     restorePool(s.Speed),
			Intellect: restorePool(s.Intellect),
			Tier:      max(1, s.Tier),
			XP:        max(0, s.XP),
		},
		Inventory: append([]string(nil), s.Inventory...),
		Abilities: append([]string(nil), s.Abilities...),
		Skills:    make(map[string]int, len(s.Skills)),
	}
	for name, lvl := range s.Skills {
		c.AddSkill(name, lvl)
	}
	c.Cyphers = append([]Cypher(nil), s.Cyphers...)
	return c
}

func poolSummary(p rules.StatPool) PoolSummary {
	return PoolSummary{Current: p.Current, Max: p.Maximum, Edge: p.Edge}
}

func restorePool(p PoolSummary) rules.StatPool {
	pool := rules.NewPool(p.Max, p.Edge)
	pool.Current = max(0, min(pool.Maximum, p.Current))
	return pool
}
