package narrative

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are the Game Master for a Nexus Arcanum tabletop RPG session using the Cypher System.

NEXUS ARCANUM WORLD:
- Post-apocalyptic urban fantasy set in Melbourne, Australia
- The Nexus Awakening released magic into the world
- Weavers (10% of survivors) can use Nexus Affinities (Fire, Water, Earth, Air, Ethereal abilities)
- The Nexus Weave connects all living things through magical threads
- Luminari: Ethereal light beings, guardians (revealed Year 10)
- Umbralari: Corrupted Luminari, antagonists (emerged Year 15)
- WyldePhyre communities: Built on voluntary cooperation and mutual aid

CYPHER SYSTEM RULES:
- Characters have 3 stat pools: Might, Speed, Intellect
- Tasks have difficulty 0-10 (target number = difficulty x 3)
- Players roll d20, need to meet or exceed target number
- Effort can reduce difficulty (costs pool points)
- Skills reduce difficulty (Trained: -1, Specialized: -2)
- GM Intrusions: Offer complications for 2 XP

YOUR ROLE:
- Generate vivid, immersive scenes in the Nexus Arcanum world
- Present 2-4 clear choices for players (numbered 1-4)
- Allow free-form actions - players can type anything
- Apply Cypher System rules when appropriate
- Trigger GM Intrusions at dramatic moments
- Maintain consistency with established lore
- Remember NPCs, locations, and events from earlier in the session
- Use descriptive, engaging prose that captures the post-apocalyptic Melbourne setting

TONE:
- Mystical but grounded
- Hope despite hardship
- Epic and engaging
- Respect the Nexus Arcanum world bible`

const responseFormat = `Format your response as:
SCENE: [vivid scene description]

CHOICES:
1. [First option]
2. [Second option]
3. [Third option]
4. [Optional fourth option]`

func SystemPrompt() string {
	return systemPrompt
}

// OpeningPrompt asks for the first scene. characterLine is the character's
// "I am a ..." sentence, or empty when none exists yet.
func OpeningPrompt(characterLine, theme string) string {
	charDesc := "No character created yet"
	if characterLine != "" {
		charDesc = "Character: " + characterLine
	}
	themeText := ""
	if theme != "" {
		themeText = "Theme: " + theme
	}
	return fmt.Sprintf(`Generate an opening scene for a Nexus Arcanum adventure.

%s
%s

Create a vivid opening scene that:
1. Sets the scene in post-apocalyptic Melbourne
2. Introduces an immediate situation or challenge
3. Presents 3-4 clear choices for what the player can do next

%s

Make it engaging and true to the Nexus Arcanum world.`, charDesc, themeText, responseFormat)
}

func ActionPrompt(action, sceneContext string) string {
	return fmt.Sprintf(`The player takes this action: "%s"

%s

Generate the next scene based on this action:
1. Describe what happens as a result of this action
2. Show consequences (good or bad)
3. Present 3-4 new choices for what to do next
4. If this is combat, describe the encounter vividly
5. If this is a discovery, make it exciting
6. Maintain consistency with previous events

%s

If this triggers a GM Intrusion, mention it and offer 2 XP.`, action, sceneContext, responseFormat)
}

type NPCLine struct {
	Name        string
	Description string
}

type SceneInput struct {
	Summary      string
	RecentEvents []string
	NPCs         []NPCLine
	// Character is the "I am a ..." line; empty when there is no character.
	Character string
	Pools     string
}

// SceneContext renders session history for an action prompt.
func SceneContext(in SceneInput) string {
	var b strings.Builder
	if in.Summary != "" {
		fmt.Fprintf(&b, "Session Summary: %s\n\n", in.Summary)
	}
	if len(in.RecentEvents) > 0 {
		b.WriteString("Recent Events:\n")
		for _, ev := range in.RecentEvents {
			fmt.Fprintf(&b, "- %s\n", ev)
		}
		b.WriteString("\n")
	}
	if len(in.NPCs) > 0 {
		b.WriteString("Known NPCs:\n")
		for _, n := range in.NPCs {
			desc := n.Description
			if desc == "" {
				desc = "Unknown"
			}
			fmt.Fprintf(&b, "- %s: %s\n", n.Name, desc)
		}
		b.WriteString("\n")
	}
	if in.Character != "" {
		fmt.Fprintf(&b, "Player Character: %s\n", in.Character)
		if in.Pools != "" {
			fmt.Fprintf(&b, "Current Pools - %s\n", in.Pools)
		}
		b.WriteString("\n")
	}
	return b.String()
}
