package server

import "copilot-mcp/internal/tools"

type health struct {
	Status  string `json:"status"`
	Server  string `json:"server"`
	Version string `json:"version"`
}

var healthPayload = health{Status: "healthy", Server: "pydantic-mcp-server", Version: "1.0.0"}

type serviceInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Version     string            `json:"version"`
	Endpoints   map[string]string `json:"endpoints"`
}

var servicePayload = serviceInfo{
	Name:        "Pydantic MCP Server",
	Description: "HTTP-based MCP server for GitHub Copilot integration",
	Version:     "1.0.0",
	Endpoints: map[string]string{
		"mcp":    "/mcp - MCP protocol endpoint",
		"health": "/health - Health check",
		"tools":  "/tools - List available tools",
	},
}

type toolsPayload struct {
	Tools []tools.Descriptor `json:"tools"`
}

type errorPayload struct {
	Error string `json:"error"`
}
