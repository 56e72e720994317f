// Package service wires report sources, the statistics store and the load
// history into the operations exposed by the CLI, HTTP API and MCP server.
package service

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/perf-stats/internal/parser"
	"github.com/perf-stats/internal/parser/asyncflat"
	"github.com/perf-stats/internal/repository"
	"github.com/perf-stats/internal/statistics"
	"github.com/perf-stats/internal/storage"
	"github.com/perf-stats/pkg/compression"
	"github.com/perf-stats/pkg/config"
	apperrors "github.com/perf-stats/pkg/errors"
	"github.com/perf-stats/pkg/model"
	"github.com/perf-stats/pkg/telemetry"
	"github.com/perf-stats/pkg/utils"
)

const tracerName = "github.com/perf-stats/internal/service"

// ReportSource opens report locations. storage.Sources implements it.
type ReportSource interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
	Describe(location string) string
}

// Service is the main application service.
//
// It is constructed empty (no snapshot installed) and owns nothing global:
// dropping the Service drops its statistics.
type Service struct {
	store         *statistics.Store
	sources       ReportSource
	history       repository.HistoryRepository
	repos         *repository.Repositories
	telemetry     *telemetry.Telemetry
	logger        utils.Logger
	defaultFormat string
	topN          int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger utils.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHistory records every load attempt in repo.
func WithHistory(repo repository.HistoryRepository) Option {
	return func(s *Service) {
		s.history = repo
	}
}

// WithTelemetry exposes the counters collected by t.
func WithTelemetry(t *telemetry.Telemetry) Option {
	return func(s *Service) {
		s.telemetry = t
	}
}

// WithDefaultFormat sets the format used when a load names none.
func WithDefaultFormat(formatKey string) Option {
	return func(s *Service) {
		if formatKey != "" {
			s.defaultFormat = formatKey
		}
	}
}

// WithTopN sets the default size of Top results.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// New creates a Service over an existing store and report source.
func New(store *statistics.Store, sources ReportSource, opts ...Option) *Service {
	s := &Service{
		store:         store,
		sources:       sources,
		logger:        &utils.NullLogger{},
		defaultFormat: asyncflat.FormatKey,
		topN:          statistics.DefaultTopN,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromConfig builds the parser registry, store, report sources and,
// when enabled, the history database described by cfg.
func NewFromConfig(cfg *config.Config, logger utils.Logger, tel *telemetry.Telemetry) (*Service, error) {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}

	registry := parser.NewRegistry()
	asyncflat.RegisterWithRegistry(registry,
		asyncflat.WithLoggerOption(logger.WithField("component", "parser")),
		asyncflat.WithMaxLineBytesOption(cfg.Statistics.MaxLineBytes),
	)
	store := statistics.NewStore(registry, statistics.WithLogger(logger.WithField("component", "store")))

	sources, err := storage.NewSources(&cfg.Storage)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to initialize storage", err)
	}

	svc := New(store, sources,
		WithLogger(logger),
		WithTelemetry(tel),
		WithDefaultFormat(cfg.Statistics.DefaultFormat),
		WithTopN(cfg.Statistics.TopN),
	)

	if cfg.History.Enabled {
		logger.Info("Connecting to history database (%s)...", cfg.History.Type)
		repos, err := repository.Open(&cfg.History)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to initialize history", err)
		}
		svc.repos = repos
		svc.history = repos.History
	}

	return svc, nil
}

// Close releases the history database connection.
func (s *Service) Close() error {
	if s.repos != nil {
		return s.repos.Close()
	}
	return nil
}

// HealthCheck verifies the history database when one is configured.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.repos != nil {
		if err := s.repos.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
	}
	return nil
}

// Store returns the underlying statistics store.
func (s *Service) Store() *statistics.Store {
	return s.store
}

// ListFormats lists the supported report formats ordered by display name.
func (s *Service) ListFormats() []parser.FormatInfo {
	return s.store.Formats()
}

// LoadFile loads the report at location and reports whether a new snapshot
// was installed. Failures are logged.
func (s *Service) LoadFile(ctx context.Context, location, formatKey string) bool {
	_, err := s.Load(ctx, location, formatKey)
	return err == nil
}

// Load opens location, decompresses it when needed and installs the parsed
// report. An empty formatKey selects the default format. An unknown format
// fails before the source is opened.
func (s *Service) Load(ctx context.Context, location, formatKey string) (model.SnapshotInfo, error) {
	if formatKey == "" {
		formatKey = s.defaultFormat
	}
	source := s.sources.Describe(location)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "service.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("report.location", location),
		attribute.String("report.format", formatKey),
	)

	event := model.NewLoadEvent("", source, formatKey)
	info, err := s.load(ctx, location, source, formatKey)
	event.SnapshotID = info.ID
	event.Finish(loadStatus(err), info.Records, err)
	s.recordEvent(ctx, event)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperrors.GetErrorCode(err))
		s.logger.Error("Load of %s failed: %v", source, err)
		return info, err
	}
	return info, nil
}

func (s *Service) load(ctx context.Context, location, source, formatKey string) (model.SnapshotInfo, error) {
	p, ok := s.store.FindParser(formatKey)
	if !ok {
		// The store rejects unknown keys without reading.
		return s.store.LoadFormat(ctx, source, nil, formatKey)
	}

	rc, err := s.sources.Open(ctx, location)
	if err != nil {
		return model.SnapshotInfo{}, err
	}
	defer rc.Close()

	r, ctype, err := compression.NewReader(rc)
	if err != nil {
		return model.SnapshotInfo{}, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("failed to decompress %s", source), err)
	}
	defer r.Close()

	if ctype != compression.TypeNone {
		s.logger.Debug("Decompressing %s report %s", ctype, source)
	}
	return s.store.Load(ctx, source, r, p)
}

func loadStatus(err error) model.LoadStatus {
	switch {
	case err == nil:
		return model.LoadStatusInstalled
	case apperrors.IsSuperseded(err):
		return model.LoadStatusSuperseded
	case apperrors.IsUnknownFormat(err), apperrors.GetErrorCode(err) == apperrors.CodeInvalidInput:
		return model.LoadStatusRejected
	default:
		return model.LoadStatusFailed
	}
}

func (s *Service) recordEvent(ctx context.Context, event *model.LoadEvent) {
	if s.history == nil {
		return
	}
	// History is an audit trail; the load outcome stands regardless.
	if err := s.history.SaveEvent(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("Failed to record load event for %s: %v", event.Source, err)
	}
}

// GetTimeRecords returns the records of className.methodName in the current
// snapshot, falling back to the short class name. The result is never nil.
func (s *Service) GetTimeRecords(ctx context.Context, className, methodName string) ([]model.TimeRecord, error) {
	ref, err := model.NewCodeReference(className, methodName)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid code reference", err)
	}
	return s.store.GetTimeRecordsContext(ctx, ref), nil
}

// Top returns the n hottest references; n <= 0 uses the configured default.
func (s *Service) Top(n int) []statistics.TopEntry {
	if n <= 0 {
		n = s.topN
	}
	return s.store.Top(n)
}

// Snapshot describes the installed snapshot.
func (s *Service) Snapshot() model.SnapshotInfo {
	return s.store.Snapshot()
}

// History returns the most recent load attempts, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]model.LoadEvent, error) {
	if s.history == nil {
		return nil, apperrors.New(apperrors.CodeConfigError, "load history is disabled")
	}
	return s.history.RecentEvents(ctx, limit)
}

// Counters returns the load and lookup counters recorded in this process.
func (s *Service) Counters(ctx context.Context) ([]telemetry.CounterPoint, error) {
	points, err := s.telemetry.Counters(ctx)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []telemetry.CounterPoint{}
	}
	return points, nil
}
