package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	logs, err := h.store.GetWorkoutLogs(ctx)
	if err != nil {
		return nil, err
	}

	end := time.Now()
	recent := filterByDate(logs, end.AddDate(0, 0, -30), end)

	return textResource(req.Params.URI, recent)
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.store.GetExercises(ctx)
	if err != nil {
		return nil, err
	}
	return textResource(req.Params.URI, exercises)
}

func textResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
