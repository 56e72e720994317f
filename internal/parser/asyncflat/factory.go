package asyncflat

import (
	"github.com/perf-stats/internal/parser"
	"github.com/perf-stats/pkg/utils"
)

// Factory creates flat report parsers.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a new flat report parser with the given options.
func (f *Factory) Create(opts ...parser.ParserOption) (parser.SnapshotParser, error) {
	parserOpts := DefaultParserOptions()
	for _, opt := range opts {
		opt(parserOpts)
	}
	return NewParser(parserOpts), nil
}

// RegisterWithRegistry registers the flat report parser with the given registry.
func RegisterWithRegistry(registry *parser.Registry, opts ...parser.ParserOption) {
	p, _ := NewFactory().Create(opts...)
	registry.Register(p)
}

// WithLoggerOption returns a parser option that sets the diagnostics logger.
func WithLoggerOption(logger utils.Logger) parser.ParserOption {
	return func(opts interface{}) {
		if o, ok := opts.(*ParserOptions); ok && logger != nil {
			o.Logger = logger
		}
	}
}

// WithMaxLineBytesOption returns a parser option that bounds line length.
func WithMaxLineBytesOption(n int) parser.ParserOption {
	return func(opts interface{}) {
		if o, ok := opts.(*ParserOptions); ok && n > 0 {
			o.MaxLineBytes = n
		}
	}
}
