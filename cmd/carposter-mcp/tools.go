package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/carposter/models"
	"github.com/use-agent/carposter/report"
)

// apiClient talks to a carposter server.
type apiClient struct {
	http *resty.Client
}

func newAPIClient(baseURL, apiKey string) *apiClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(5*time.Minute).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		c.SetHeader("X-API-Key", apiKey)
	}
	return &apiClient{http: c}
}

// post sends payload and decodes the reply into out whatever the status,
// since error replies share the success envelope.
func (a *apiClient) post(ctx context.Context, path string, payload, out any) error {
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(out).
		SetError(out).
		Post(path)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	if resp.StatusCode() == 0 {
		return fmt.Errorf("API request failed: no response")
	}
	return nil
}

func failure(op string, detail *models.ErrorDetail) *mcp.CallToolResult {
	msg := op + " failed"
	if detail != nil {
		msg = fmt.Sprintf("%s: %s", detail.Code, detail.Message)
	}
	return mcp.NewToolResultError(msg)
}

func handleVehicleSpecs(api *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		make, err := request.RequireString("make")
		if err != nil {
			return mcp.NewToolResultError("make is required"), nil
		}

		var out models.SpecsResponse
		req := models.SpecsRequest{Make: make, Model: request.GetString("model", "")}
		if err := api.post(ctx, "/api/v1/specs", req, &out); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !out.Success || out.Specification == nil {
			return failure("lookup", out.Error), nil
		}

		md, err := report.Markdown(*out.Specification)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to format specification: %v", err)), nil
		}
		return mcp.NewToolResultText(md), nil
	}
}

func handleGeneratePoster(api *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		make, err := request.RequireString("make")
		if err != nil {
			return mcp.NewToolResultError("make is required"), nil
		}

		var out models.PosterResponse
		req := models.PosterRequest{
			Make:      make,
			Model:     request.GetString("model", ""),
			SkipPhoto: request.GetBool("skip_photo", false),
			Sheet:     request.GetBool("sheet", false),
		}
		if err := api.post(ctx, "/api/v1/posters", req, &out); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !out.Success {
			return failure("poster", out.Error), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Poster written to %s\n", out.OutputPath)
		if out.SheetPath != "" {
			fmt.Fprintf(&sb, "Spec sheet: %s\n", out.SheetPath)
		}
		if out.PhotoSource != "" {
			fmt.Fprintf(&sb, "Photo source: %s\n", out.PhotoSource)
		} else {
			sb.WriteString("No photo; text-only layout\n")
		}
		if out.Specification != nil {
			fmt.Fprintf(&sb, "Vehicle: %s (%d specification rows)\n",
				out.Specification.DisplayName, len(out.Specification.Attributes))
		}
		fmt.Fprintf(&sb, "Took %d ms\n", out.Timing.TotalMs)
		return mcp.NewToolResultText(sb.String()), nil
	}
}
