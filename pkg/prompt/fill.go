package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formclient/pkg/form"
)

// Option configures Fill.
type Option func(*fillOptions)

type fillOptions struct {
	skip    map[string]struct{}
	secrets func(name string) bool
}

// WithSkip leaves the named fields untouched.
func WithSkip(names ...string) Option {
	return func(o *fillOptions) {
		for _, name := range names {
			o.skip[name] = struct{}{}
		}
	}
}

// WithSecret overrides which fields are read with a masked prompt. By default
// any field whose name contains "password" or "secret" is masked.
func WithSecret(fn func(name string) bool) Option {
	return func(o *fillOptions) {
		if fn != nil {
			o.secrets = fn
		}
	}
}

func isSecretName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "password") || strings.Contains(lower, "secret")
}

// Fill prompts for every string, number and boolean field of f in field
// order, writing each answer back into the form. File fields are skipped.
// Messages already held in the form's error bag are shown as prompt help.
func Fill(ctx context.Context, driver Driver, f *form.Form, opts ...Option) error {
	if driver == nil {
		return ErrNoDriver
	}
	cfg := fillOptions{skip: make(map[string]struct{}), secrets: isSecretName}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	for _, name := range f.Names() {
		if _, skip := cfg.skip[name]; skip {
			continue
		}
		current, _ := f.Value(name)
		help := strings.Join(f.Errors().Messages(name), "\n")

		next, ok, err := ask(ctx, driver, name, current, help, cfg.secrets(name))
		if err != nil {
			return fmt.Errorf("prompt %q: %w", name, err)
		}
		if ok {
			f.SetValue(name, next)
		}
	}
	return nil
}

func ask(ctx context.Context, driver Driver, name string, current form.Value, help string, secret bool) (form.Value, bool, error) {
	switch current.Kind() {
	case form.KindBool:
		answer, err := driver.Confirm(ctx, ConfirmConfig{Message: name, Default: current.Boolean(), Help: help})
		if err != nil {
			return form.Value{}, false, err
		}
		return form.Bool(answer), true, nil

	case form.KindNumber:
		answer, err := driver.Input(ctx, InputConfig{
			Message:   name,
			Default:   current.String(),
			Help:      help,
			Validator: validateNumber,
		})
		if err != nil {
			return form.Value{}, false, err
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
		if err != nil {
			return form.Value{}, false, fmt.Errorf("invalid number %q: %w", answer, err)
		}
		return form.Number(n), true, nil

	case form.KindString:
		in := InputConfig{Message: name, Default: current.Text(), Help: help}
		read := driver.Input
		if secret {
			read = driver.Password
		}
		answer, err := read(ctx, in)
		if err != nil {
			return form.Value{}, false, err
		}
		return form.String(answer), true, nil

	default:
		return form.Value{}, false, nil
	}
}

func validateNumber(s string) error {
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	return nil
}
