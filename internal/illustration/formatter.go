package illustration

import (
	"strings"
	"time"

	"nexus-gm/internal/illustration/platforms"
)

const maxSceneField = 1000

var momentColors = map[string]int{
	"combat":        0xC0392B,
	"discovery":     0xF1C40F,
	"boss":          0x8E44AD,
	"luminari":      0xF5F5DC,
	"umbralari":     0x2C3E50,
	"weave_ability": 0x1ABC9C,
}

func FormatMessage(req Request) platforms.Message {
	title := "Key moment: " + strings.ReplaceAll(req.Moment, "_", " ")
	fields := []platforms.Field{
		{Name: "session", Value: req.SessionID, Inline: true},
		{Name: "moment", Value: req.Moment, Inline: true},
	}
	if req.CharacterName != "" {
		fields = append(fields, platforms.Field{Name: "character", Value: req.CharacterName, Inline: true})
	}
	if req.Scene != "" {
		fields = append(fields, platforms.Field{Name: "scene", Value: clip(req.Scene, maxSceneField)})
	}
	return platforms.Message{
		Title:       title,
		Description: req.Prompt,
		Color:       momentColors[req.Moment],
		Timestamp:   req.CreatedAt.UTC().Format(time.RFC3339),
		Footer:      "Nexus Arcanum",
		Fields:      fields,
		Data: map[string]any{
			"session_id":     req.SessionID,
			"user_id":        req.UserID,
			"key_moment":     req.Moment,
			"prompt":         req.Prompt,
			"scene":          req.Scene,
			"character_name": req.CharacterName,
		},
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
