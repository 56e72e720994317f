package statistics

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/perf-stats/internal/parser"
	apperrors "github.com/perf-stats/pkg/errors"
	"github.com/perf-stats/pkg/model"
	"github.com/perf-stats/pkg/utils"
)

const instrumentationName = "github.com/perf-stats/internal/statistics"

// snapshot pairs an index with the metadata of the load that built it.
type snapshot struct {
	index *Index
	info  model.SnapshotInfo
}

// Store holds the current snapshot and the parser registry.
//
// One goroutine may load while any number of goroutines read. Readers never
// lock: they load the current snapshot pointer and query it. A load builds
// its index off to the side and publishes it with a single compare-and-swap.
// When loads race, the one that started last wins; an older load that
// finishes later is reported as superseded and not installed.
type Store struct {
	registry *parser.Registry
	current  atomic.Pointer[snapshot]
	tickets  atomic.Uint64
	logger   utils.Logger
	clock    utils.Clock

	loads   metric.Int64Counter
	loaded  metric.Int64Counter
	lookups metric.Int64Counter
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger utils.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock used for load timestamps.
func WithClock(clock utils.Clock) StoreOption {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewStore creates a store with an empty snapshot installed.
// A nil registry is replaced by an empty one.
func NewStore(registry *parser.Registry, opts ...StoreOption) *Store {
	if registry == nil {
		registry = parser.NewRegistry()
	}
	s := &Store{
		registry: registry,
		logger:   &utils.NullLogger{},
		clock:    utils.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&snapshot{index: emptyIndex()})
	s.initMetrics()
	return s
}

func (s *Store) initMetrics() {
	meter := otel.Meter(instrumentationName)
	var err error
	if s.loads, err = meter.Int64Counter("perfstats_loads_total",
		metric.WithDescription("Snapshot load attempts by outcome")); err != nil {
		s.logger.Warn("Failed to create loads counter: %v", err)
	}
	if s.loaded, err = meter.Int64Counter("perfstats_records_loaded_total",
		metric.WithDescription("Time records installed by successful loads")); err != nil {
		s.logger.Warn("Failed to create loaded records counter: %v", err)
	}
	if s.lookups, err = meter.Int64Counter("perfstats_lookups_total",
		metric.WithDescription("Time record lookups by resolving tier")); err != nil {
		s.logger.Warn("Failed to create lookups counter: %v", err)
	}
}

// RegisterParsers returns all known parsers ordered by display name.
func (s *Store) RegisterParsers() []parser.SnapshotParser {
	return s.registry.Parsers()
}

// Formats lists the known formats ordered by display name.
func (s *Store) Formats() []parser.FormatInfo {
	return s.registry.Formats()
}

// FindParser returns the parser registered for formatKey.
func (s *Store) FindParser(formatKey string) (parser.SnapshotParser, bool) {
	return s.registry.Get(formatKey)
}

// LoadFormat resolves formatKey and loads the report from r. An unknown key
// fails with UNKNOWN_FORMAT before r is read.
func (s *Store) LoadFormat(ctx context.Context, source string, r io.Reader, formatKey string) (model.SnapshotInfo, error) {
	p, ok := s.FindParser(formatKey)
	if !ok {
		s.countLoad(ctx, model.LoadStatusRejected)
		return model.SnapshotInfo{}, apperrors.Newf(apperrors.CodeUnknownFormat, "unknown report format %q", formatKey)
	}
	return s.Load(ctx, source, r, p)
}

// Load parses r with p, builds a new index and installs it.
//
// The installed snapshot is replaced only when parsing succeeds and no load
// that started later has been installed meanwhile. On failure the previous
// snapshot stays installed and queryable.
func (s *Store) Load(ctx context.Context, source string, r io.Reader, p parser.SnapshotParser) (model.SnapshotInfo, error) {
	if p == nil {
		s.countLoad(ctx, model.LoadStatusRejected)
		return model.SnapshotInfo{}, apperrors.New(apperrors.CodeInvalidInput, "no parser given")
	}

	ticket := s.tickets.Add(1)
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "statistics.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("report.source", source),
		attribute.String("report.format", p.FormatKey()),
		attribute.Int64("snapshot.generation", int64(ticket)),
	)

	start := s.clock.Now()
	records, err := p.ParseStream(ctx, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		s.countLoad(ctx, model.LoadStatusFailed)
		s.logger.Error("Failed to load %s: %v", source, err)
		return model.SnapshotInfo{}, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("failed to read %s", source), err)
	}

	next := &snapshot{
		index: BuildIndex(records),
		info: model.SnapshotInfo{
			ID:         uuid.NewString(),
			Generation: ticket,
			Source:     source,
			FormatKey:  p.FormatKey(),
			Records:    len(records),
			LoadedAt:   s.clock.Now(),
		},
	}
	next.info.References = len(next.index.order)
	next.info.ParseMillis = s.clock.Since(start).Milliseconds()

	if installed := s.publish(next); installed != nil {
		span.SetAttributes(attribute.Int64("snapshot.installed_generation", int64(installed.info.Generation)))
		s.countLoad(ctx, model.LoadStatusSuperseded)
		s.logger.Warn("Load of %s (generation %d) superseded by generation %d",
			source, ticket, installed.info.Generation)
		return next.info, apperrors.Newf(apperrors.CodeSuperseded,
			"load of %s superseded by generation %d", source, installed.info.Generation)
	}

	s.countLoad(ctx, model.LoadStatusInstalled)
	if s.loaded != nil {
		s.loaded.Add(ctx, int64(len(records)))
	}
	span.SetAttributes(attribute.Int("report.records", len(records)))
	s.logger.WithFields(map[string]interface{}{
		"snapshot":   next.info.ID,
		"generation": ticket,
	}).Info("Installed %d records (%d references) from %s in %dms",
		next.info.Records, next.info.References, source, next.info.ParseMillis)
	return next.info, nil
}

// publish installs next unless a snapshot with a newer generation is already
// installed, in which case that snapshot is returned.
func (s *Store) publish(next *snapshot) *snapshot {
	for {
		cur := s.current.Load()
		if cur.info.Generation > next.info.Generation {
			return cur
		}
		if s.current.CompareAndSwap(cur, next) {
			return nil
		}
	}
}

func (s *Store) countLoad(ctx context.Context, status model.LoadStatus) {
	if s.loads != nil {
		s.loads.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status.String())))
	}
}

// GetTimeRecords returns the records for ref from the current snapshot.
// The result is never nil and always comes from a single snapshot.
func (s *Store) GetTimeRecords(ref model.CodeReference) []model.TimeRecord {
	return s.GetTimeRecordsContext(context.Background(), ref)
}

// GetTimeRecordsContext is GetTimeRecords with a context for metrics.
func (s *Store) GetTimeRecordsContext(ctx context.Context, ref model.CodeReference) []model.TimeRecord {
	records, tier := s.current.Load().index.lookup(ref)
	if s.lookups != nil {
		s.lookups.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", tier.String())))
	}
	return records
}

// Snapshot returns the metadata of the installed snapshot.
func (s *Store) Snapshot() model.SnapshotInfo {
	return s.current.Load().info
}

// Index returns the installed index.
func (s *Store) Index() *Index {
	return s.current.Load().index
}

// Top returns the n hottest references of the installed snapshot.
func (s *Store) Top(n int) []TopEntry {
	return NewTopCalculator(WithTopN(n)).Calculate(s.Index())
}
