package rules

import "strings"

type PoolName string

const (
	PoolMight     PoolName = "might"
	PoolSpeed     PoolName = "speed"
	PoolIntellect PoolName = "intellect"
)

// ParsePool normalises a user-supplied pool name.
func ParsePool(name string) (PoolName, error) {
	switch p := PoolName(strings.ToLower(strings.TrimSpace(name))); p {
	case PoolMight, PoolSpeed, PoolIntellect:
		return p, nil
	default:
		return "", ErrUnknownPool
	}
}

// StatPool is a depletable resource. Current stays within [0, Maximum].
type StatPool struct {
	Current int `json:"current"`
	Maximum int `json:"maximum"`
	Edge    int `json:"edge"`
}

func NewPool(maximum, edge int) StatPool {
	if maximum < 0 {
		maximum = 0
	}
	if edge < 0 {
		edge = 0
	}
	return StatPool{Current: maximum, Maximum: maximum, Edge: edge}
}

// Spend deducts amount less edge. An amount covered by edge costs nothing.
// Returns the points actually owed after edge.
func (p *StatPool) Spend(amount int) int {
	if amount <= p.Edge {
		return 0
	}
	cost := amount - p.Edge
	p.Current = max(0, p.Current-cost)
	return cost
}

func (p *StatPool) Restore(amount int) {
	if amount <= 0 {
		return
	}
	p.Current = min(p.Maximum, p.Current+amount)
}

func (p *StatPool) Damage(amount int) {
	if amount <= 0 {
		return
	}
	p.Current = max(0, p.Current-amount)
}

func (p StatPool) Depleted() bool {
	return p.Current <= 0
}

type CharacterStats struct {
	Might     StatPool `json:"might"`
	Speed     StatPool `json:"speed"`
	Intellect StatPool `json:"intellect"`
	Tier      int      `json:"tier"`
	XP        int      `json:"xp"`
}

// Pool returns the named pool for mutation.
func (s *CharacterStats) Pool(name PoolName) (*StatPool, error) {
	switch name {
	case PoolMight:
		return &s.Might, nil
	case PoolSpeed:
		return &s.Speed, nil
	case PoolIntellect:
		return &s.Intellect, nil
	default:
		return nil, ErrUnknownPool
	}
}

// PoolByName is Pool with case-insensitive string lookup.
func (s *CharacterStats) PoolByName(name string) (*StatPool, PoolName, error) {
	p, err := ParsePool(name)
	if err != nil {
		return nil, "", err
	}
	pool, err := s.Pool(p)
	return pool, p, err
}

func (s *CharacterStats) AwardXP(n int) {
	if n <= 0 {
		return
	}
	s.XP += n
}
