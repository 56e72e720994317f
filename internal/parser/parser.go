// Package parser defines the interfaces for parsing profiler snapshot reports.
package parser

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/perf-stats/pkg/model"
)

// SnapshotParser turns a profiler report into an ordered sequence of time records.
type SnapshotParser interface {
	// FormatKey returns the stable identifier of the report format.
	FormatKey() string

	// DisplayName returns a human-readable format name.
	DisplayName() string

	// ParseStream reads the report to the end and returns one record per
	// resolvable line, in input order. Unparsable lines are skipped; only a
	// failure of the underlying stream is returned as an error.
	ParseStream(ctx context.Context, reader io.Reader) ([]model.TimeRecord, error)
}

// ParserOption is a function that configures a parser's options value.
type ParserOption func(interface{})

// FormatInfo is the (key, display name) pair presented to format choosers.
type FormatInfo struct {
	Key         string `json:"key" yaml:"key"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// Registry holds registered snapshot parsers keyed by format.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]SnapshotParser
}

// NewRegistry creates a new parser Registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]SnapshotParser),
	}
}

// Register registers a parser under its own format key, replacing any parser
// previously registered with the same key.
func (r *Registry) Register(p SnapshotParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.FormatKey()] = p
}

// Get returns the parser for the given format key.
func (r *Registry) Get(formatKey string) (SnapshotParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[formatKey]
	return p, ok
}

// Parsers returns all registered parsers ordered by display name, then key.
func (r *Registry) Parsers() []SnapshotParser {
	r.mu.RLock()
	list := make([]SnapshotParser, 0, len(r.parsers))
	for _, p := range r.parsers {
		list = append(list, p)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].DisplayName() != list[j].DisplayName() {
			return list[i].DisplayName() < list[j].DisplayName()
		}
		return list[i].FormatKey() < list[j].FormatKey()
	})
	return list
}

// Formats lists the registered formats ordered by display name.
func (r *Registry) Formats() []FormatInfo {
	parsers := r.Parsers()
	formats := make([]FormatInfo, len(parsers))
	for i, p := range parsers {
		formats[i] = FormatInfo{Key: p.FormatKey(), DisplayName: p.DisplayName()}
	}
	return formats
}
