package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perf-stats/internal/mock"
	"github.com/perf-stats/internal/parser"
)

func newMockParser(key, name string) *mock.MockParser {
	p := &mock.MockParser{}
	p.ExpectFormat(key, name)
	return p
}

func TestRegistry_GetUnknown(t *testing.T) {
	registry := parser.NewRegistry()
	p, ok := registry.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, p)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := parser.NewRegistry()
	flat := newMockParser("flat", "Flat report")
	registry.Register(flat)

	p, ok := registry.Get("flat")
	require.True(t, ok)
	assert.Same(t, flat, p)
}

func TestRegistry_RegisterReplacesSameKey(t *testing.T) {
	registry := parser.NewRegistry()
	registry.Register(newMockParser("flat", "Old"))
	replacement := newMockParser("flat", "New")
	registry.Register(replacement)

	p, ok := registry.Get("flat")
	require.True(t, ok)
	assert.Same(t, replacement, p)
	assert.Len(t, registry.Parsers(), 1)
}

func TestRegistry_ParsersSortedByDisplayName(t *testing.T) {
	registry := parser.NewRegistry()
	registry.Register(newMockParser("z", "Collapsed stacks"))
	registry.Register(newMockParser("b", "Async Profiler flat snapshot"))
	registry.Register(newMockParser("a", "Async Profiler flat snapshot"))
	registry.Register(newMockParser("m", "JFR summary"))

	formats := registry.Formats()
	require.Len(t, formats, 4)
	assert.Equal(t, []parser.FormatInfo{
		{Key: "a", DisplayName: "Async Profiler flat snapshot"},
		{Key: "b", DisplayName: "Async Profiler flat snapshot"},
		{Key: "z", DisplayName: "Collapsed stacks"},
		{Key: "m", DisplayName: "JFR summary"},
	}, formats)

	// Ordering is stable across calls.
	assert.Equal(t, formats, registry.Formats())
}

func TestRegistry_Empty(t *testing.T) {
	registry := parser.NewRegistry()
	assert.Empty(t, registry.Parsers())
	assert.Empty(t, registry.Formats())
}
