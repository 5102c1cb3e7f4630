package character

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"nexus-gm/internal/rules"
)

const tierPoolBonus = 4

type BuildInput struct {
	Name       string `json:"name"`
	Descriptor string `json:"descriptor"`
	Type       string `json:"type"`
	Focus      string `json:"focus"`
	Tier       int    `json:"tier"`
}

// Builder creates characters from the type, descriptor and focus tables.
// With Permissive set, unknown descriptors and foci are accepted with a
// warning; unknown types are always rejected.
type Builder struct {
	Permissive bool
}

func (b Builder) Build(in BuildInput) (*Character, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	info, ok := LookupType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, in.Type)
	}
	tier := in.Tier
	if tier == 0 {
		tier = 1
	}
	if tier < 1 {
		return nil, ErrInvalidTier
	}

	descriptor := strings.ToLower(strings.TrimSpace(in.Descriptor))
	if _, ok := LookupDescriptor(descriptor); !ok {
		if !b.Permissive {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDescriptor, in.Descriptor)
		}
		log.Warn().Str("descriptor", in.Descriptor).Msg("unknown descriptor, continuing")
	}

	focus := focusKey(in.Focus)
	focusInfo, ok := LookupFocus(focus)
	if !ok {
		if !b.Permissive {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFocus, in.Focus)
		}
		log.Warn().Str("focus", in.Focus).Msg("unknown focus, continuing")
	}

	bonus := (tier - 1) * tierPoolBonus
	edge := func(p rules.PoolName) int {
		if info.EdgePool == p {
			return 1
		}
		return 0
	}
	c := &Character{
		Name:       name,
		Descriptor: descriptor,
		Type:       string(info.Type),
		Focus:      focus,
		Stats: rules.CharacterStats{
			Might:     rules.NewPool(info.Might+bonus, edge(rules.PoolMight)),
			Speed:     rules.NewPool(info.Speed+bonus, edge(rules.PoolSpeed)),
			Intellect: rules.NewPool(info.Intellect+bonus, edge(rules.PoolIntellect)),
			Tier:      tier,
		},
		Skills:    make(map[string]int, len(info.Skills)),
		Abilities: append([]string(nil), focusInfo.Abilities...),
	}
	for _, s := range info.Skills {
		c.AddSkill(s, 1)
	}

	log.Info().Str("character", c.Name).Str("sheet", c.String()).Int("tier", tier).Msg("character created")
	return c, nil
}
