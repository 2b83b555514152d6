// Package provider exposes several text-generation vendors behind one
// Generate contract.
//
// A provider resolves in one of two states. Configured providers hold a live
// vendor client. Unconfigured providers have no credential and fail on first
// Generate with ErrAuthentication, which lets the registry list every backend
// without requiring all of them to be set up.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// Options tunes a single generation call. A nil Temperature or a
// non-positive MaxTokens takes the default; Float(0) is a valid temperature.
type Options struct {
	Temperature *float64
	MaxTokens   int
}

// Float returns a pointer to v, for Options.Temperature.
func Float(v float64) *float64 {
	return &v
}

func (o Options) withDefaults() Options {
	if o.Temperature == nil {
		o.Temperature = Float(DefaultTemperature)
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// State is the lifecycle phase of a resolved provider.
type State int

const (
	StateUnconfigured State = iota
	StateConfigured
)

func (s State) String() string {
	if s == StateConfigured {
		return "configured"
	}
	return "unconfigured"
}

// backend is implemented by each vendor variant.
type backend interface {
	generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Provider is a resolved backend.
type Provider struct {
	spec    Spec
	model   string
	state   State
	backend backend
}

// Name returns the logical provider name.
func (p *Provider) Name() string { return string(p.spec.Kind) }

// Model returns the model the provider will call.
func (p *Provider) Model() string { return p.model }

// State returns whether the provider has a credential.
func (p *Provider) State() State { return p.state }

// Spec returns the provider's static description.
func (p *Provider) Spec() Spec { return p.spec }

// Generate sends prompt as a single user message and returns the first
// completion's text. Vendor failures are wrapped as ErrGeneration.
func (p *Provider) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if p.state != StateConfigured {
		return "", newError(ErrAuthentication, p.Name(), fmt.Errorf("%s not set", p.spec.CredentialEnv))
	}

	opts = opts.withDefaults()
	start := time.Now()

	text, err := p.backend.generate(ctx, prompt, opts)
	if err != nil {
		return "", newError(ErrGeneration, p.Name(), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", newError(ErrGeneration, p.Name(), fmt.Errorf("empty response from API"))
	}

	slog.DebugContext(ctx, "generation completed",
		"provider", p.Name(),
		"model", p.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", len(text),
	)

	return text, nil
}
