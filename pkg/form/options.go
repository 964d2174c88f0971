package form

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-formclient/pkg/errorbag"
	"github.com/goliatone/go-formclient/pkg/routes"
	"github.com/goliatone/go-formclient/pkg/transport"
)

// DefaultReserved lists the attribute names that never count as fields.
var DefaultReserved = []string{"busy", "successful", "errors", "forms"}

// Config is the shared, read-mostly context many forms are built from.
type Config struct {
	Transport transport.Transport
	Routes    *routes.Table
	// Reserved overrides DefaultReserved when non-empty.
	Reserved []string
	Logger   *slog.Logger
}

// Option configures a Form at construction.
type Option func(*settings)

type settings struct {
	Config
	merge Fields
	bag   *errorbag.Bag
}

// WithConfig applies every non-zero field of cfg.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		if cfg.Transport != nil {
			s.Transport = cfg.Transport
		}
		if cfg.Routes != nil {
			s.Routes = cfg.Routes
		}
		if len(cfg.Reserved) > 0 {
			s.Reserved = cfg.Reserved
		}
		if cfg.Logger != nil {
			s.Logger = cfg.Logger
		}
	}
}

// WithTransport sets the transport submissions dispatch through.
func WithTransport(t transport.Transport) Option {
	return func(s *settings) {
		s.Transport = t
	}
}

// WithRoutes sets the route table used to resolve route names.
func WithRoutes(table *routes.Table) Option {
	return func(s *settings) {
		s.Routes = table
	}
}

// WithReserved replaces the reserved attribute names.
func WithReserved(names ...string) Option {
	return func(s *settings) {
		s.Reserved = append([]string(nil), names...)
	}
}

// WithLogger routes form logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.Logger = logger
	}
}

// WithErrorBag supplies the bag the form writes errors into.
func WithErrorBag(bag *errorbag.Bag) Option {
	return func(s *settings) {
		s.bag = bag
	}
}

// WithMerge overlays fields on top of the initial data; merged values win
// on collision.
func WithMerge(fields Fields) Option {
	return func(s *settings) {
		if s.merge == nil {
			s.merge = make(Fields, len(fields))
		}
		for name, value := range fields {
			s.merge[name] = value
		}
	}
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if len(s.Reserved) == 0 {
		s.Reserved = DefaultReserved
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.bag == nil {
		s.bag = errorbag.New()
	}
	return s
}
