package narrative

import "strings"

type KeyMoment string

const (
	MomentCombat       KeyMoment = "combat"
	MomentDiscovery    KeyMoment = "discovery"
	MomentBoss         KeyMoment = "boss"
	MomentLuminari     KeyMoment = "luminari"
	MomentUmbralari    KeyMoment = "umbralari"
	MomentWeaveAbility KeyMoment = "weave_ability"
)

// momentKeywords is checked in order; the first category with a matching
// keyword wins.
var momentKeywords = []struct {
	moment   KeyMoment
	keywords []string
}{
	{MomentCombat, []string{"attack", "fight", "battle", "combat", "strike", "enemy", "foe", "assailant"}},
	{MomentDiscovery, []string{"discover", "find", "reveal", "uncover", "treasure", "artifact", "relic"}},
	{MomentBoss, []string{"boss", "boss fight", "final", "champion", "leader", "master"}},
	{MomentLuminari, []string{"luminari", "light being", "radiant", "emissary"}},
	{MomentUmbralari, []string{"umbralari", "shadow", "corrupted", "darkness"}},
	{MomentWeaveAbility, []string{"weave", "affinity", "magic", "nexus", "cast", "channel"}},
}

// Classify tags scene text with a key moment by substring match.
func Classify(scene string) (KeyMoment, bool) {
	lower := strings.ToLower(scene)
	for _, row := range momentKeywords {
		for _, kw := range row.keywords {
			if strings.Contains(lower, kw) {
				return row.moment, true
			}
		}
	}
	return "", false
}

func ShouldIllustrate(m KeyMoment) bool {
	switch m {
	case MomentCombat, MomentDiscovery, MomentBoss, MomentLuminari, MomentUmbralari, MomentWeaveAbility:
		return true
	default:
		return false
	}
}

// IllustrationPrompt builds the image prompt for a key moment.
func IllustrationPrompt(m KeyMoment, scene, characterName string) string {
	var p string
	switch m {
	case MomentCombat:
		p = "Epic combat scene in post-apocalyptic Melbourne: " + scene + ". Dynamic action, dramatic lighting, Nexus Arcanum aesthetic."
	case MomentDiscovery:
		p = "Discovery moment in Nexus Arcanum world: " + scene + ". Sense of wonder, magical elements, detailed environment."
	case MomentBoss:
		p = "Boss encounter in Nexus Arcanum: " + scene + ". Intense, dramatic, high stakes, cinematic composition."
	case MomentLuminari:
		p = "Luminari encounter - ethereal light beings in Nexus Arcanum: " + scene + ". Radiant, mystical, otherworldly."
	case MomentUmbralari:
		p = "Umbralari encounter - corrupted shadow beings in Nexus Arcanum: " + scene + ". Dark, menacing, corrupted energy."
	case MomentWeaveAbility:
		p = "Nexus Weave magic in action: " + scene + ". Magical energy, Nexus threads visible, powerful moment."
	default:
		p = "Scene from Nexus Arcanum: " + scene + ". Post-apocalyptic Melbourne, urban fantasy, atmospheric."
	}
	if characterName != "" {
		p += " Featuring " + characterName + "."
	}
	return p
}
