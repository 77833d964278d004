// Package mcpsrv exposes the Persistence Adapter's report queries as MCP tools over stdio, for
// external agent tooling that wants read access to underwriting reports without going through
// the HTTP surface.
package mcpsrv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"underwriting-engine/internal/persist"
)

type Server struct {
	store *persist.Store
	serv  *server.MCPServer
}

func NewServer(store *persist.Store) *Server {
	s := server.NewMCPServer("Underwriting Report Context Server", "1.0.0")

	m := &Server{store: store, serv: s}
	m.registerTools()
	return m
}

func (m *Server) registerTools() {
	getReportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Fetch the most recent underwriting report for an application ID"),
		mcp.WithString("application_id", mcp.Required()),
	)
	m.serv.AddTool(getReportTool, m.handleGetReport)

	listReportsTool := mcp.NewTool("list_reports",
		mcp.WithDescription("List the most recent underwriting report per application, across the whole store"),
	)
	m.serv.AddTool(listReportsTool, m.handleListReports)
}

func (m *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	argData, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal arguments: %v", err)), nil
	}

	var input struct {
		ApplicationID string `json:"application_id"`
	}
	if err := json.Unmarshal(argData, &input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
	}

	report, err := m.store.GetReport(input.ApplicationID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("No report found for application %s: %v", input.ApplicationID, err)), nil
	}

	body, err := json.Marshal(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (m *Server) handleListReports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reports, err := m.store.GetAllReports(0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list reports: %v", err)), nil
	}

	body, err := json.Marshal(reports)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to serialize reports: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (m *Server) Serve() error {
	return server.ServeStdio(m.serv)
}
