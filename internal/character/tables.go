package character

import (
	"sort"
	"strings"

	"nexus-gm/internal/rules"
)

// Type is a character type key.
type Type string

const (
	TypeWarrior  Type = "warrior"
	TypeAdept    Type = "adept"
	TypeExplorer Type = "explorer"
	TypeSpeaker  Type = "speaker"
)

// TypeInfo is the starting package for a character type.
type TypeInfo struct {
	Type        Type
	Description string
	Might       int
	Speed       int
	Intellect   int
	EdgePool    rules.PoolName
	Skills      []string
}

var types = map[Type]TypeInfo{
	TypeWarrior: {
		Type:        TypeWarrior,
		Description: "A fighter who excels in physical combat",
		Might:       10, Speed: 9, Intellect: 7,
		EdgePool: rules.PoolMight,
		Skills:   []string{"attacking", "defending"},
	},
	TypeAdept: {
		Type:        TypeAdept,
		Description: "A Weaver who channels the Nexus Weave",
		Might:       7, Speed: 9, Intellect: 10,
		EdgePool: rules.PoolIntellect,
		Skills:   []string{"weavecrafting", "understanding the nexus"},
	},
	TypeExplorer: {
		Type:        TypeExplorer,
		Description: "A wanderer who adapts to any situation",
		Might:       9, Speed: 10, Intellect: 7,
		EdgePool: rules.PoolSpeed,
		Skills:   []string{"climbing", "navigation"},
	},
	TypeSpeaker: {
		Type:        TypeSpeaker,
		Description: "A diplomat and leader who uses words and influence",
		Might:       7, Speed: 7, Intellect: 12,
		EdgePool: rules.PoolIntellect,
		Skills:   []string{"persuasion", "social interaction"},
	},
}

var descriptors = map[string]string{
	"awakened":       "Recently discovered their Nexus Affinity",
	"scarred":        "Bears physical and emotional scars from the Nexus Awakening",
	"luminous":       "Has a connection to the Luminari",
	"shadow-touched": "Has encountered the Umbralari",
	"wild":           "Raised in the transformed wilderness",
	"urban":          "Survived in the ruins of Melbourne",
	"scholar":        "Studies the Nexus Weave and its mysteries",
	"scavenger":      "Expert at finding resources in the ruins",
}

// FocusInfo describes a focus and the abilities it grants.
type FocusInfo struct {
	Key         string
	Description string
	Abilities   []string
}

var foci = map[string]FocusInfo{
	"weaves_the_nexus": {
		Key:         "weaves_the_nexus",
		Description: "Masters multiple Nexus Affinities",
		Abilities:   []string{"Can use multiple elemental affinities", "Stronger Weavecrafting"},
	},
	"commands_fire": {
		Key:         "commands_fire",
		Description: "Specializes in Fire Affinity",
		Abilities:   []string{"Enhanced fire attacks", "Fire resistance"},
	},
	"speaks_for_the_land": {
		Key:         "speaks_for_the_land",
		Description: "Communicates with transformed nature",
		Abilities:   []string{"Talk to plants and animals", "Nature-based abilities"},
	},
	"shapes_the_weave": {
		Key:         "shapes_the_weave",
		Description: "Manipulates the Nexus Weave directly",
		Abilities:   []string{"Create magical effects", "Sense Nexus energy"},
	},
	"bears_a_heavy_weapon": {
		Key:         "bears_a_heavy_weapon",
		Description: "Expert with powerful weapons",
		Abilities:   []string{"Proficiency with heavy weapons", "Increased damage"},
	},
	"moves_like_a_ghost": {
		Key:         "moves_like_a_ghost",
		Description: "Extremely stealthy and agile",
		Abilities:   []string{"Enhanced stealth", "Difficult to hit"},
	},
}

func LookupType(name string) (TypeInfo, bool) {
	info, ok := types[Type(strings.ToLower(strings.TrimSpace(name)))]
	return info, ok
}

func LookupDescriptor(name string) (string, bool) {
	d, ok := descriptors[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

func LookupFocus(name string) (FocusInfo, bool) {
	f, ok := foci[focusKey(name)]
	return f, ok
}

func focusKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func Types() []string {
	return sortedKeys(types)
}

func Descriptors() []string {
	return sortedKeys(descriptors)
}

func Foci() []string {
	return sortedKeys(foci)
}

func sortedKeys[K ~string, V any](m map[K]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}
