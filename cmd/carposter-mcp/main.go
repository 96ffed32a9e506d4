package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	_ = godotenv.Load()

	apiURL := os.Getenv("CARPOSTER_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	api := newAPIClient(apiURL, os.Getenv("CARPOSTER_API_KEY"))

	s := server.NewMCPServer(
		"carposter",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	specsTool := mcp.NewTool("vehicle_specs",
		mcp.WithDescription("Look up a vehicle's technical specifications (engine, power, torque, acceleration, top speed, weight). Falls back to built-in data for well-known cars when the catalog is unreachable."),
		mcp.WithString("make",
			mcp.Required(),
			mcp.Description("Manufacturer, e.g. 'Audi' or 'Porsche'"),
		),
		mcp.WithString("model",
			mcp.Description("Model, e.g. 'TT RS' or '911 Turbo'. Omit to use the first listed model."),
		),
	)
	s.AddTool(specsTool, handleVehicleSpecs(api))

	posterTool := mcp.NewTool("generate_poster",
		mcp.WithDescription("Render a specification poster for a vehicle and return where it was written on the server."),
		mcp.WithString("make",
			mcp.Required(),
			mcp.Description("Manufacturer, e.g. 'BMW'"),
		),
		mcp.WithString("model",
			mcp.Description("Model, e.g. 'M3'"),
		),
		mcp.WithBoolean("skip_photo",
			mcp.Description("Render the text-only layout without searching for a photo"),
		),
		mcp.WithBoolean("sheet",
			mcp.Description("Also write a Markdown spec sheet next to the poster"),
		),
	)
	s.AddTool(posterTool, handleGeneratePoster(api))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
