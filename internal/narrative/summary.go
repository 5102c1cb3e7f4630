package narrative

const (
	summaryScenePrefix = 100
	summaryMaxLen      = 500
)

// UpdateSummary appends the latest action and the start of its scene,
// keeping the trailing summaryMaxLen characters.
func UpdateSummary(current, action, scene string) string {
	summary := current
	if summary != "" {
		summary += " "
	}
	summary += "Player " + action + ". " + truncateRunes(scene, summaryScenePrefix) + "..."
	return tailRunes(summary, summaryMaxLen)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
