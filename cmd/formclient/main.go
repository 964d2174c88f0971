package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	formclient "github.com/goliatone/go-formclient"
	"github.com/goliatone/go-formclient/pkg/errorbag"
	"github.com/goliatone/go-formclient/pkg/form"
	"github.com/goliatone/go-formclient/pkg/orchestrator"
	"github.com/goliatone/go-formclient/pkg/payload"
	"github.com/goliatone/go-formclient/pkg/prompt"
	"github.com/goliatone/go-formclient/pkg/routes"
	"github.com/goliatone/go-formclient/pkg/source"
	"github.com/goliatone/go-formclient/pkg/transport"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// pairs collects repeatable key=value flags in order.
type pairs []pair

type pair struct {
	key   string
	value string
}

func (p *pairs) String() string {
	parts := make([]string, 0, len(*p))
	for _, kv := range *p {
		parts = append(parts, kv.key+"="+kv.value)
	}
	return strings.Join(parts, ",")
}

func (p *pairs) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", raw)
	}
	*p = append(*p, pair{key: key, value: value})
	return nil
}

type config struct {
	routes        string
	openapi       string
	baseURL       string
	method        string
	route         string
	params        pairs
	fields        pairs
	files         pairs
	headers       pairs
	sourceHeaders pairs
	interactive   bool
	timeout       time.Duration
	verbose       bool
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("formclient", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.routes, "routes", "", "YAML route table path, fs:name or URL")
	fs.StringVar(&cfg.openapi, "openapi", "", "OpenAPI document path or URL; operationIds become routes")
	fs.StringVar(&cfg.baseURL, "base", "", "base URL prepended to relative routes")
	fs.StringVar(&cfg.method, "method", "", "get, post, patch or put (defaults to the operation method, else post)")
	fs.StringVar(&cfg.route, "route", "", "route name or literal URL")
	fs.Var(&cfg.params, "param", "route parameter key=value (repeatable)")
	fs.Var(&cfg.fields, "field", "form field key=value (repeatable)")
	fs.Var(&cfg.files, "file", "file field key=path (repeatable; repeated keys build a list)")
	fs.Var(&cfg.headers, "header", "request header key=value (repeatable)")
	fs.Var(&cfg.sourceHeaders, "source-header", "header sent when fetching -routes or -openapi URLs, key=value (repeatable)")
	fs.BoolVar(&cfg.interactive, "interactive", false, "prompt for field values")
	fs.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "request timeout")
	fs.BoolVar(&cfg.verbose, "verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.route == "" {
		return config{}, errors.New("-route is required")
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "formclient: %v\n", err)
		return 2
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	f, method, err := buildForm(ctx, cfg, logger)
	if err != nil {
		logger.Error("build form", "error", err)
		return 1
	}

	if cfg.interactive {
		if err := prompt.Fill(ctx, prompt.NewSurveyDriver(stderr), f); err != nil {
			logger.Error("interactive input", "error", err)
			return 1
		}
	}

	resp, err := f.Submit(ctx, method, cfg.route, routeParams(cfg.params))
	if err != nil {
		logger.Debug("submit failed", "route", cfg.route, "error", err)
		printErrors(stderr, f.Errors())
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp.Data); err != nil {
		logger.Error("encode response", "error", err)
		return 1
	}
	return 0
}

func buildForm(ctx context.Context, cfg config, logger *slog.Logger) (*form.Form, transport.Method, error) {
	httpOpts := []transport.HTTPOption{
		transport.WithBaseURL(cfg.baseURL),
		transport.WithTimeout(cfg.timeout),
		transport.WithLogger(logger),
	}
	for _, h := range cfg.headers {
		httpOpts = append(httpOpts, transport.WithHeader(h.key, h.value))
	}
	client, err := transport.NewHTTP(httpOpts...)
	if err != nil {
		return nil, "", err
	}

	loaderOpts := []source.Option{source.WithRemote(cfg.timeout)}
	for _, h := range cfg.sourceHeaders {
		loaderOpts = append(loaderOpts, source.WithHeader(h.key, h.value))
	}
	loader := formclient.NewLoader(loaderOpts...)

	table := routes.New(nil)
	if cfg.routes != "" {
		src, err := source.Parse(cfg.routes)
		if err != nil {
			return nil, "", fmt.Errorf("-routes: %w", err)
		}
		loaded, err := routes.Load(ctx, loader, src)
		if err != nil {
			return nil, "", err
		}
		table.Merge(loaded)
	}

	values, err := collectValues(cfg)
	if err != nil {
		return nil, "", err
	}

	// Server messages end up on a terminal; strip any markup they carry.
	strip := errorbag.StrictSanitizer()
	bag := errorbag.New(errorbag.WithSanitizer(func(msg string) string {
		return html.UnescapeString(strip(msg))
	}))

	method := cfg.method
	var f *form.Form
	if cfg.openapi != "" {
		doc, err := source.Parse(cfg.openapi)
		if err != nil {
			return nil, "", fmt.Errorf("-openapi: %w", err)
		}
		orch := formclient.NewOrchestrator(
			orchestrator.WithLoader(loader),
			orchestrator.WithTransport(client),
			orchestrator.WithRoutes(table),
			orchestrator.WithLogger(logger),
			orchestrator.WithFormOptions(form.WithErrorBag(bag)),
		)
		built, op, err := orch.Form(ctx, orchestrator.Request{
			Source:      doc,
			OperationID: cfg.route,
			Values:      values,
		})
		switch {
		case err == nil:
			f = built
			if method == "" {
				method = op.Method
			}
		case errors.Is(err, orchestrator.ErrOperationNotFound):
			documented, err := orch.Routes(ctx, orchestrator.Request{Source: doc})
			if err != nil {
				return nil, "", err
			}
			table = documented
		default:
			return nil, "", err
		}
	}
	if f == nil {
		f = form.New(values,
			form.WithTransport(client),
			form.WithRoutes(table),
			form.WithLogger(logger),
			form.WithErrorBag(bag),
		)
	}

	if method == "" {
		method = string(transport.MethodPost)
	}
	parsed, err := transport.ParseMethod(method)
	if err != nil {
		return nil, "", err
	}
	return f, parsed, nil
}

func collectValues(cfg config) (form.Fields, error) {
	values := make(form.Fields, len(cfg.fields)+len(cfg.files))
	for _, kv := range cfg.fields {
		values[kv.key] = form.String(kv.value)
	}

	files := make(map[string][]payload.File)
	var order []string
	for _, kv := range cfg.files {
		content, err := os.ReadFile(kv.value)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", kv.value, err)
		}
		if _, seen := files[kv.key]; !seen {
			order = append(order, kv.key)
		}
		files[kv.key] = append(files[kv.key], payload.File{
			Name:        filepath.Base(kv.value),
			ContentType: mime.TypeByExtension(filepath.Ext(kv.value)),
			Content:     content,
		})
	}
	for _, key := range order {
		list := files[key]
		if len(list) == 1 {
			values[key] = form.File(list[0])
			continue
		}
		values[key] = form.Files(list...)
	}
	return values, nil
}

func routeParams(params pairs) routes.Params {
	if len(params) == 0 {
		return nil
	}
	out := make(routes.Params, len(params))
	for _, kv := range params {
		out[kv.key] = kv.value
	}
	return out
}

func printErrors(w io.Writer, bag *errorbag.Bag) {
	for _, field := range bag.Fields() {
		for _, msg := range bag.Messages(field) {
			fmt.Fprintf(w, "%s: %s\n", field, msg)
		}
	}
}
