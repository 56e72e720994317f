package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perf-stats/internal/parser"
	"github.com/perf-stats/internal/parser/asyncflat"
	"github.com/perf-stats/internal/service"
	"github.com/perf-stats/internal/statistics"
	"github.com/perf-stats/internal/storage"
	"github.com/perf-stats/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flat.txt"),
		testutil.LoadFixture(t, testutil.SampleReport), 0o644))

	registry := parser.NewRegistry()
	asyncflat.RegisterWithRegistry(registry)
	svc := service.New(statistics.NewStore(registry),
		storage.NewSourcesWith(storage.NewLocalStorage(dir), nil))
	return New(svc, "test", nil)
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content type %T", result.Content[0])
	return text.Text
}

func TestServer_ListFormats(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleListFormats(context.Background(), callRequest("list_formats", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "async-flat - Async Profiler flat snapshot")
}

func TestServer_LoadAndQuery(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleLoadReport(ctx, callRequest("load_report", map[string]interface{}{"path": "flat.txt"}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))
	assert.Contains(t, resultText(t, result), "Records: 8 (7 methods)")

	result, err = s.handleGetTimeRecords(ctx, callRequest("get_time_records", map[string]interface{}{
		"class":  "org.other.Matrix",
		"method": "multiply",
	}))
	require.NoError(t, err)
	text := resultText(t, result)
	assert.Contains(t, text, "Time records for org.other.Matrix.multiply (2):")
	assert.Contains(t, text, "7.14% (623 samples)")
	assert.Contains(t, text, "0.11% (10 samples)")

	result, err = s.handleTopMethods(ctx, callRequest("top_methods", map[string]interface{}{"top_n": float64(2)}))
	require.NoError(t, err)
	text = resultText(t, result)
	assert.Contains(t, text, "Top 2 methods")
	assert.Contains(t, text, " 1. com.comitative.pt.MainKt.main  9.65% (842 samples)  [low]")
}

func TestServer_GetTimeRecords_NoMatch(t *testing.T) {
	s := newTestServer(t)
	result, err := s.handleGetTimeRecords(context.Background(), callRequest("get_time_records", map[string]interface{}{
		"class":  "Matrix",
		"method": "multiply",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No time records for Matrix.multiply")
}

func TestServer_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
		want    string
	}{
		{"load without path", s.handleLoadReport, nil, "path"},
		{"unknown format", s.handleLoadReport, map[string]interface{}{"path": "flat.txt", "format": "jfr"}, "UNKNOWN_FORMAT"},
		{"missing report", s.handleLoadReport, map[string]interface{}{"path": "missing.txt"}, "SOURCE_NOT_FOUND"},
		{"records without method", s.handleGetTimeRecords, map[string]interface{}{"class": "Matrix"}, "method"},
		{"top before load", s.handleTopMethods, nil, "No report loaded"},
		{"negative top", s.handleTopMethods, map[string]interface{}{"top_n": float64(-1)}, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, callRequest("tool", tt.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.want)
		})
	}
}

func TestNew_DefaultsLogger(t *testing.T) {
	s := newTestServer(t)
	assert.NotNil(t, s.MCPServer())
	assert.NotNil(t, s.logger)
}
