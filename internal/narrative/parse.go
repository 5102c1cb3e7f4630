// Package narrative turns narrator text into scenes and choices and builds
// the prompts sent to the narrator.
package narrative

import (
	"bufio"
	"strings"
)

const MaxChoices = 4

const (
	sceneMarker   = "scene:"
	choicesMarker = "choices:"
)

var defaultChoices = []string{
	"Continue exploring",
	"Investigate further",
	"Take a different approach",
	"Rest and recover",
}

// DefaultChoices returns the generic choices offered when the narrator
// gives none.
func DefaultChoices() []string {
	return append([]string(nil), defaultChoices...)
}

type Parsed struct {
	Scene   string
	Choices []string
}

// ParseResponse splits "SCENE: ... CHOICES: 1. ..." text. Markers are
// case-insensitive. Without a SCENE: marker the whole response is the scene.
func ParseResponse(text string) Parsed {
	var out Parsed

	sceneAt := indexFold(text, sceneMarker)
	choicesAt := -1
	if sceneAt >= 0 {
		body := text[sceneAt+len(sceneMarker):]
		if i := indexFold(body, choicesMarker); i >= 0 {
			choicesAt = sceneAt + len(sceneMarker) + i
			body = body[:i]
		}
		out.Scene = strings.TrimSpace(body)
	}
	if choicesAt < 0 {
		choicesAt = indexFold(text, choicesMarker)
	}
	if out.Scene == "" {
		out.Scene = strings.TrimSpace(text)
	}

	if choicesAt >= 0 {
		out.Choices = scanChoices(text[choicesAt+len(choicesMarker):])
	}
	if len(out.Choices) == 0 {
		out.Choices = DefaultChoices()
	}
	if len(out.Choices) > MaxChoices {
		out.Choices = out.Choices[:MaxChoices]
	}
	return out
}

// scanChoices collects "<digits>. <text>" lines.
func scanChoices(section string) []string {
	var choices []string
	sc := bufio.NewScanner(strings.NewReader(section))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		if c, ok := numberedLine(sc.Text()); ok {
			choices = append(choices, c)
		}
	}
	return choices
}

func numberedLine(line string) (string, bool) {
	line = strings.TrimLeft(line, " \t")
	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits == 0 || digits >= len(line) || line[digits] != '.' {
		return "", false
	}
	rest := strings.TrimSpace(line[digits+1:])
	if rest == "" {
		return "", false
	}
	return rest, true
}

// indexFold is a case-insensitive strings.Index for ASCII needles.
func indexFold(s, needle string) int {
	n := len(needle)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], needle) {
			return i
		}
	}
	return -1
}

// maxChoiceIndex caps parsed indexes; anything larger is out of range anyway.
const maxChoiceIndex = 1 << 30

// ParseChoiceIndex reports whether raw is a pure integer and returns it.
// Values that do not fit saturate at maxChoiceIndex.
func ParseChoiceIndex(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
		if n < maxChoiceIndex {
			n = min(n*10+int(raw[i]-'0'), maxChoiceIndex)
		}
	}
	return n, true
}
