package provider

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// Registry resolves logical provider names to providers.
type Registry struct {
	specs      map[Kind]Spec
	getenv     func(string) string
	httpClient *http.Client
	models     map[Kind]string
}

// RegistryConfig holds registry configuration. All fields are optional.
type RegistryConfig struct {
	// Specs replaces the built-in table.
	Specs map[Kind]Spec
	// Getenv reads credentials; defaults to os.Getenv.
	Getenv func(string) string
	// HTTPClient is shared by every vendor client.
	HTTPClient *http.Client
	// Models overrides the default model per backend.
	Models map[Kind]string
}

// NewRegistry creates a new registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	specs := cfg.Specs
	if specs == nil {
		specs = DefaultSpecs()
	}
	getenv := cfg.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 120 * time.Second,
		}
	}

	return &Registry{
		specs:      specs,
		getenv:     getenv,
		httpClient: httpClient,
		models:     cfg.Models,
	}
}

// Resolve returns the provider for name. Unknown names fail with
// ErrConfiguration; there is no fallback to another backend.
func (r *Registry) Resolve(name string) (*Provider, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	spec, ok := r.specs[kind]
	if !ok {
		return nil, newError(ErrConfiguration, string(kind), fmt.Errorf("provider not registered"))
	}

	model := spec.DefaultModel
	if m := r.models[kind]; m != "" {
		model = m
	}

	p := &Provider{spec: spec, model: model, state: StateUnconfigured}

	apiKey := r.getenv(spec.CredentialEnv)
	if apiKey == "" {
		return p, nil
	}

	b, err := r.newBackend(spec, model, apiKey)
	if err != nil {
		return nil, newError(ErrDependency, string(kind), err)
	}

	p.backend = b
	p.state = StateConfigured
	return p, nil
}

func (r *Registry) newBackend(spec Spec, model, apiKey string) (backend, error) {
	switch spec.Kind {
	case KindGroq, KindOpenAI:
		return newOpenAIBackend(apiKey, spec.BaseURL, model, r.httpClient), nil
	case KindAnthropic:
		return newAnthropicBackend(apiKey, spec.BaseURL, model, r.httpClient), nil
	case KindGemini:
		return newGeminiBackend(apiKey, spec.BaseURL, model, r.httpClient)
	case KindCohere:
		return newCohereBackend(apiKey, spec.BaseURL, model, r.httpClient), nil
	default:
		return nil, fmt.Errorf("no client for backend %q", spec.Kind)
	}
}

// Status describes one backend for listing.
type Status struct {
	Name          string `json:"name"`
	Tier          string `json:"tier"`
	Model         string `json:"model"`
	CredentialEnv string `json:"credential_env"`
	Configured    bool   `json:"configured"`
}

// List reports every registered backend without constructing clients.
func (r *Registry) List() []Status {
	statuses := make([]Status, 0, len(r.specs))
	for _, kind := range Kinds {
		spec, ok := r.specs[kind]
		if !ok {
			continue
		}
		model := spec.DefaultModel
		if m := r.models[kind]; m != "" {
			model = m
		}
		statuses = append(statuses, Status{
			Name:          string(kind),
			Tier:          spec.Tier,
			Model:         model,
			CredentialEnv: spec.CredentialEnv,
			Configured:    r.getenv(spec.CredentialEnv) != "",
		})
	}
	return statuses
}
