package narrative

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestUpdateSummary(t *testing.T) {
	got := UpdateSummary("", "Search the cars", "You find a rusted key.")
	if got != "Player Search the cars. You find a rusted key...." {
		t.Fatalf("summary = %q", got)
	}
	got = UpdateSummary(got, "Take it", strings.Repeat("x", 150))
	if !strings.HasSuffix(got, "Player Take it. "+strings.Repeat("x", 100)+"...") {
		t.Fatalf("scene should be cut at 100 chars: %q", got)
	}
	if !strings.Contains(got, "key.... Player Take it") {
		t.Fatalf("entries should be space separated: %q", got)
	}
}

func TestUpdateSummaryKeepsTail(t *testing.T) {
	s := ""
	for i := 0; i < 30; i++ {
		s = UpdateSummary(s, "walk", "the long road ✦ goes on and on")
		if n := utf8.RuneCountInString(s); n > 500 {
			t.Fatalf("summary length %d exceeds 500", n)
		}
	}
	if !strings.HasSuffix(s, "Player walk. the long road ✦ goes on and on...") {
		t.Fatalf("latest entry should be kept: %q", s)
	}
	if !utf8.ValidString(s) {
		t.Fatal("summary cut inside a rune")
	}
}

func TestOpeningPrompt(t *testing.T) {
	p := OpeningPrompt("", "")
	if !strings.Contains(p, "No character created yet") || strings.Contains(p, "Theme:") {
		t.Fatalf("prompt = %q", p)
	}
	p = OpeningPrompt("I am a wild explorer who speaks_for_the_land", "floods")
	if !strings.Contains(p, "Character: I am a wild explorer") || !strings.Contains(p, "Theme: floods") || !strings.Contains(p, "CHOICES:") {
		t.Fatalf("prompt = %q", p)
	}
}

func TestActionPromptAndSceneContext(t *testing.T) {
	ctx := SceneContext(SceneInput{
		Summary:      "Player looked.",
		RecentEvents: []string{"Opening scene generated", "Player action: look"},
		NPCs:         []NPCLine{{Name: "Mara"}, {Name: "Tok", Description: "a trader"}},
		Character:    "I am a wild explorer who speaks_for_the_land",
		Pools:        "Might: 9/9, Speed: 10/10, Intellect: 7/7",
	})
	for _, want := range []string{
		"Session Summary: Player looked.",
		"Recent Events:\n- Opening scene generated\n- Player action: look",
		"- Mara: Unknown",
		"- Tok: a trader",
		"Player Character: I am a wild explorer",
		"Current Pools - Might: 9/9",
	} {
		if !strings.Contains(ctx, want) {
			t.Fatalf("context missing %q:\n%s", want, ctx)
		}
	}
	p := ActionPrompt("look around", ctx)
	if !strings.HasPrefix(p, `The player takes this action: "look around"`) || !strings.Contains(p, "offer 2 XP") {
		t.Fatalf("prompt = %q", p)
	}
	if SceneContext(SceneInput{}) != "" {
		t.Fatal("empty input should render nothing")
	}
	if !strings.Contains(SystemPrompt(), "Cypher System") {
		t.Fatal("system prompt")
	}
}
