// Package mcpserver exposes the statistics query interface as MCP tools.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/perf-stats/internal/service"
	"github.com/perf-stats/internal/statistics"
	"github.com/perf-stats/pkg/utils"
)

// ServerName is the MCP implementation name.
const ServerName = "perf-stats"

// Server is an MCP server backed by a Service.
type Server struct {
	svc    *service.Service
	mcp    *server.MCPServer
	logger utils.Logger
}

// New creates the MCP server and registers its tools.
func New(svc *service.Service, version string, logger utils.Logger) *Server {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	s := &Server{
		svc:    svc,
		logger: logger,
		mcp: server.NewMCPServer(
			ServerName,
			version,
			server.WithLogging(),
		),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves MCP over stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("list_formats",
		mcp.WithDescription("List the profiler report formats that can be loaded"),
	), s.handleListFormats)

	s.mcp.AddTool(mcp.NewTool("load_report",
		mcp.WithDescription("Load a profiler report and make it the current snapshot. Accepts local paths and cos://<key>; gzip and zstd reports are decompressed."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Report location: local file path or cos://<key>"),
		),
		mcp.WithString("format",
			mcp.Description("Format key from list_formats (default: configured default format)"),
		),
	), s.handleLoadReport)

	s.mcp.AddTool(mcp.NewTool("get_time_records",
		mcp.WithDescription("Get the time records of one method in the current snapshot. Falls back to the short class name when the qualified name has no match."),
		mcp.WithString("class",
			mcp.Required(),
			mcp.Description("Qualified class name, e.g. com.example.Matrix"),
		),
		mcp.WithString("method",
			mcp.Required(),
			mcp.Description("Method name; <init> for constructors"),
		),
	), s.handleGetTimeRecords)

	s.mcp.AddTool(mcp.NewTool("top_methods",
		mcp.WithDescription("List the methods with the highest share of profiled time in the current snapshot"),
		mcp.WithNumber("top_n",
			mcp.Description("Number of methods to return (default: configured top_n)"),
		),
	), s.handleTopMethods)
}

func (s *Server) handleListFormats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString("Supported formats:\n")
	for _, f := range s.svc.ListFormats() {
		sb.WriteString(fmt.Sprintf("  %s - %s\n", f.Key, f.DisplayName))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleLoadReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := request.GetString("format", "")
	s.logger.Debug("load_report path=%s format=%s", path, format)

	info, err := s.svc.Load(ctx, path, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load report: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Loaded %s\n", info.Source))
	sb.WriteString(fmt.Sprintf("Snapshot: %s (generation %d)\n", info.ID, info.Generation))
	sb.WriteString(fmt.Sprintf("Format: %s\n", info.FormatKey))
	sb.WriteString(fmt.Sprintf("Records: %d (%d methods)\n", info.Records, info.References))
	sb.WriteString(fmt.Sprintf("Parse time: %dms\n", info.ParseMillis))
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetTimeRecords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	class, err := request.RequireString("class")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	method, err := request.RequireString("method")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := s.svc.GetTimeRecords(ctx, class, method)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No time records for %s.%s\n", class, method)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Time records for %s.%s (%d):\n", class, method, len(records)))
	for i, rec := range records {
		sb.WriteString(fmt.Sprintf("%2d. %s  %d ns  [%s]  %s\n",
			i+1, statistics.Summary(rec), rec.AbsoluteTimeNanos,
			statistics.ClassifyImpact(rec.RelativeTime), rec.Reference))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleTopMethods(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := int(request.GetFloat("top_n", 0))
	if n < 0 {
		return mcp.NewToolResultError("top_n must not be negative"), nil
	}

	snap := s.svc.Snapshot()
	if snap.IsEmpty() {
		return mcp.NewToolResultError("No report loaded. Use load_report first"), nil
	}

	entries := s.svc.Top(n)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top %d methods in %s:\n", len(entries), snap.Source))
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%2d. %s.%s  %s  [%s]\n",
			i+1, e.Reference.QualifiedName(), e.Reference.MemberName(), e.Summary, e.Impact))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
