// Package asyncflat parses the flat report format generated by async-profiler
// (`-o flat` / `-o summary`).
//
// Only the summary block is used: every line of the shape
//
//	<total ns> <percent>% <samples> <frame name>
//
// produces at most one record. Stack trace sections in the same report are
// skipped line by line.
package asyncflat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/perf-stats/internal/parser"
	"github.com/perf-stats/pkg/model"
	"github.com/perf-stats/pkg/utils"
)

const (
	// FormatKey identifies the async-profiler flat report format.
	FormatKey = "async-flat"

	// DisplayName is the human-readable format name.
	DisplayName = "Async Profiler flat snapshot"

	// DefaultMaxLineBytes is the longest line considered; longer lines are skipped.
	DefaultMaxLineBytes = 1 << 20

	instrumentationName = "github.com/perf-stats/internal/parser/asyncflat"
)

var summaryLinePattern = regexp.MustCompile(`^\s*(\d+)\s+(\d+\.\d+)%\s+(\d+)\s+(.+?)\s*$`)

// ParserOptions holds configuration options for the flat report parser.
type ParserOptions struct {
	// MaxLineBytes bounds the length of a single line.
	MaxLineBytes int

	// Logger receives per-line diagnostics.
	Logger utils.Logger
}

// DefaultParserOptions returns default parser options.
func DefaultParserOptions() *ParserOptions {
	return &ParserOptions{
		MaxLineBytes: DefaultMaxLineBytes,
		Logger:       &utils.NullLogger{},
	}
}

// Stats counts what happened to the lines of one report.
type Stats struct {
	Lines          int `json:"lines"`
	Records        int `json:"records"`
	Mismatched     int `json:"mismatched"`
	InvalidNumbers int `json:"invalid_numbers"`
	Unresolved     int `json:"unresolved"`
	TooLong        int `json:"too_long"`
}

// Skipped returns the number of lines that produced no record.
func (s Stats) Skipped() int {
	return s.Lines - s.Records
}

// Result holds the records of one report along with line statistics.
type Result struct {
	Records []model.TimeRecord
	Stats   Stats
}

// Parser implements parser.SnapshotParser for the flat report format.
type Parser struct {
	opts         *ParserOptions
	skippedLines metric.Int64Counter
}

var _ parser.SnapshotParser = (*Parser)(nil)

// NewParser creates a new flat report parser.
func NewParser(opts *ParserOptions) *Parser {
	if opts == nil {
		opts = DefaultParserOptions()
	}
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = DefaultMaxLineBytes
	}
	if opts.Logger == nil {
		opts.Logger = &utils.NullLogger{}
	}

	p := &Parser{opts: opts}
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"perfstats_lines_skipped_total",
		metric.WithDescription("Report lines that produced no time record"),
	)
	if err != nil {
		opts.Logger.Warn("Failed to create skipped lines counter: %v", err)
	} else {
		p.skippedLines = counter
	}
	return p
}

// FormatKey returns the format identifier.
func (p *Parser) FormatKey() string {
	return FormatKey
}

// DisplayName returns the human-readable format name.
func (p *Parser) DisplayName() string {
	return DisplayName
}

// String returns the display name so the parser renders well in format lists.
func (p *Parser) String() string {
	return DisplayName
}

// ParseStream reads the report and returns its records in input order.
func (p *Parser) ParseStream(ctx context.Context, reader io.Reader) ([]model.TimeRecord, error) {
	result, err := p.Parse(ctx, reader)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// Parse reads the report line by line and collects records and line statistics.
// It fails only when reading the stream fails or the context is canceled.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) (*Result, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "parser.parse_stream")
	defer span.End()

	result := &Result{Records: make([]model.TimeRecord, 0, 64)}
	br := bufio.NewReaderSize(reader, 64*1024)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, tooLong, err := p.readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to read report: %w", err)
		}

		result.Stats.Lines++
		if tooLong {
			result.Stats.TooLong++
			p.skip(ctx, "too_long")
			p.opts.Logger.Warn("line %d: longer than %d bytes, skipped", result.Stats.Lines, p.opts.MaxLineBytes)
			continue
		}

		record, err := ParseLine(line)
		switch {
		case err == nil:
			result.Records = append(result.Records, record)
			result.Stats.Records++
		case errors.Is(err, parser.ErrInvalidNumber):
			result.Stats.InvalidNumbers++
			p.skip(ctx, "invalid_number")
			p.opts.Logger.Warn("line %d: %v", result.Stats.Lines, err)
		case errors.Is(err, parser.ErrUnresolvableName):
			result.Stats.Unresolved++
			p.skip(ctx, "unresolved_name")
		default:
			result.Stats.Mismatched++
			p.skip(ctx, "mismatch")
		}
	}

	span.SetAttributes(
		attribute.Int("report.lines", result.Stats.Lines),
		attribute.Int("report.records", result.Stats.Records),
	)
	p.opts.Logger.Debug("Parsed %d lines: %d records, %d skipped",
		result.Stats.Lines, result.Stats.Records, result.Stats.Skipped())
	return result, nil
}

// readLine returns the next line without its terminator. Lines longer than
// MaxLineBytes are drained and reported as tooLong.
func (p *Parser) readLine(br *bufio.Reader) (string, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > p.opts.MaxLineBytes {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

func (p *Parser) skip(ctx context.Context, reason string) {
	if p.skippedLines != nil {
		p.skippedLines.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// ParseLine turns one summary line into a time record.
//
// It returns parser.ErrLineMismatch for lines without the summary shape,
// parser.ErrInvalidNumber when a numeric field overflows, and
// parser.ErrUnresolvableName when the frame name is not a managed method.
func ParseLine(line string) (model.TimeRecord, error) {
	m := summaryLinePattern.FindStringSubmatch(line)
	if m == nil {
		return model.TimeRecord{}, parser.ErrLineMismatch
	}

	absolute, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return model.TimeRecord{}, fmt.Errorf("%w: absolute time %q: %v", parser.ErrInvalidNumber, m[1], err)
	}
	percent, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return model.TimeRecord{}, fmt.Errorf("%w: relative time %q: %v", parser.ErrInvalidNumber, m[2], err)
	}
	samples, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return model.TimeRecord{}, fmt.Errorf("%w: sample count %q: %v", parser.ErrInvalidNumber, m[3], err)
	}

	ref, ok := ParseName(m[4])
	if !ok {
		return model.TimeRecord{}, fmt.Errorf("%w: %q", parser.ErrUnresolvableName, m[4])
	}
	return model.NewTimeRecord(ref, percent, absolute, samples), nil
}
