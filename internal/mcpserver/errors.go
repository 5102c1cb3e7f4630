package mcpserver

import (
	"errors"
	"fmt"

	"nexus-gm/internal/gm"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	if err == nil {
		return toolError("internal_error", "unknown error")
	}
	var ce *gm.ChoiceError
	if errors.As(err, &ce) {
		return toolError("invalid_choice", ce.Error())
	}
	_, code := gm.MapError(err)
	return toolError(code, err.Error())
}
