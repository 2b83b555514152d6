package provider

import (
	"fmt"
	"strings"
)

// Kind is the closed set of supported generation backends.
type Kind string

const (
	KindGroq      Kind = "groq"
	KindOpenAI    Kind = "openai"
	KindAnthropic Kind = "anthropic"
	KindGemini    Kind = "gemini"
	KindCohere    Kind = "cohere"
)

// Kinds lists every backend in display order.
var Kinds = []Kind{KindGroq, KindCohere, KindAnthropic, KindGemini, KindOpenAI}

// ParseKind resolves a logical provider name, ignoring case and surrounding space.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", newError(ErrConfiguration, "", fmt.Errorf("unknown provider %q", name))
}

// Spec is the static description of one backend.
type Spec struct {
	Kind          Kind
	Tier          string
	Backend       string // vendor API the variant speaks
	CredentialEnv string
	DefaultModel  string
	// BaseURL overrides the vendor endpoint; empty uses the vendor default.
	BaseURL string
}

const groqBaseURL = "https://api.groq.com/openai/v1/"

// DefaultSpecs returns the built-in backend table.
func DefaultSpecs() map[Kind]Spec {
	return map[Kind]Spec{
		KindGroq: {
			Kind:          KindGroq,
			Tier:          "fast/free tier",
			Backend:       "openai-compatible",
			CredentialEnv: "GROQ_API_KEY",
			DefaultModel:  "llama-3.3-70b-versatile",
			BaseURL:       groqBaseURL,
		},
		KindCohere: {
			Kind:          KindCohere,
			Tier:          "low-cost general purpose",
			Backend:       "cohere-chat",
			CredentialEnv: "COHERE_API_KEY",
			DefaultModel:  "command-r",
		},
		KindAnthropic: {
			Kind:          KindAnthropic,
			Tier:          "quality-focused",
			Backend:       "anthropic-messages",
			CredentialEnv: "ANTHROPIC_API_KEY",
			DefaultModel:  "claude-3-haiku-20240307",
		},
		KindGemini: {
			Kind:          KindGemini,
			Tier:          "limited free tier",
			Backend:       "gemini-generate-content",
			CredentialEnv: "GOOGLE_API_KEY",
			DefaultModel:  "gemini-1.5-flash",
		},
		KindOpenAI: {
			Kind:          KindOpenAI,
			Tier:          "paid/reliable",
			Backend:       "openai-compatible",
			CredentialEnv: "OPENAI_API_KEY",
			DefaultModel:  "gpt-3.5-turbo",
		},
	}
}
