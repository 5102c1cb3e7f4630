package httptransport

import (
	"errors"
	"net/http"

	"nexus-gm/internal/gm"
	"nexus-gm/internal/store"
)

// MapError adds transport-only errors to the engine mapping.
func MapError(err error) (int, string) {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, "snapshot_not_found"
	}
	return gm.MapError(err)
}

func writeDomainError(w http.ResponseWriter, err error) {
	metricRequestErrors.Add(1)
	var ce *gm.ChoiceError
	if errors.As(err, &ce) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "invalid_choice",
			"message": ce.Error(),
			"max":     ce.Max,
		})
		return
	}
	status, code := MapError(err)
	WriteHTTPError(w, status, code)
}
