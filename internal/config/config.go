// Package config loads service configuration from a YAML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, INTERVIEWFLOW_*
// variables, provider key variables (only when no key is configured), and
// finally command-line flags applied by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/embld/interviewflow/internal/llmimpl"
	"github.com/embld/interviewflow/internal/runtime"
	"github.com/embld/interviewflow/pkg/domain"
	"github.com/embld/interviewflow/pkg/llm/middleware"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	MCP      MCPConfig      `yaml:"mcp"`
	LLM      LLMConfig      `yaml:"llm"`
	Workflow WorkflowConfig `yaml:"workflow"`
	Store    StoreConfig    `yaml:"store"`
	Credits  CreditsConfig  `yaml:"credits"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Addr            string            `yaml:"addr"`
	AllowedOrigins  []string          `yaml:"allowed_origins"`
	AuthTokens      map[string]string `yaml:"auth_tokens"` // bearer token -> user id
	ShutdownTimeout time.Duration     `yaml:"shutdown_timeout"`
}

type MCPConfig struct {
	Addr    string `yaml:"addr"`
	BaseURL string `yaml:"base_url"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

type WorkflowConfig struct {
	PlanFile            string        `yaml:"plan_file"`
	Language            string        `yaml:"language"`
	MaxFollowupRounds   int           `yaml:"max_followup_rounds"`
	Gate                string        `yaml:"gate"`
	ChunkDelay          time.Duration `yaml:"chunk_delay"`
	QuestionsPerPersona int           `yaml:"questions_per_persona"`
	MaxInputSize        int           `yaml:"max_input_size"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is the directory of the file store or the database of the sqlite store.
	Path     string        `yaml:"path"`
	RedisURL string        `yaml:"redis_url"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
	// EncryptionKey enables at-rest encryption of session state.
	EncryptionKey string   `yaml:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys"`
}

type CreditsConfig struct {
	SessionCost  int `yaml:"session_cost"`
	InitialGrant int `yaml:"initial_grant"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "text" or "json". Empty picks per command: JSON for the
	// servers, text for the interactive runner.
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		MCP: MCPConfig{
			Addr:    ":8081",
			BaseURL: "http://localhost:8081",
		},
		LLM: LLMConfig{
			Provider:    llmimpl.ProviderOpenAI,
			Model:       "gpt-4o-mini",
			Timeout:     middleware.DefaultTimeout,
			MaxAttempts: middleware.DefaultRetryConfig.MaxAttempts,
		},
		Workflow: WorkflowConfig{
			Language:            runtime.DefaultLanguage,
			MaxFollowupRounds:   runtime.DefaultMaxFollowupRounds,
			Gate:                runtime.DefaultGateExpression,
			QuestionsPerPersona: runtime.DefaultQuestionsPerPersona,
			MaxInputSize:        domain.DefaultMaxInputSize,
		},
		Store: StoreConfig{
			Driver: StoreFile,
			Path:   ".interviewflow/sessions",
			Prefix: "interviewflow:",
		},
		Credits: CreditsConfig{
			SessionCost: domain.SessionCost,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies the environment.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if !validProvider(c.LLM.Provider) {
		errs = append(errs, fmt.Errorf("llm.provider %q is not one of %s", c.LLM.Provider, strings.Join(llmimpl.Providers(), ", ")))
	}
	if c.LLM.Timeout < 0 {
		errs = append(errs, fmt.Errorf("llm.timeout must not be negative"))
	}
	if c.Workflow.MaxFollowupRounds < 0 {
		errs = append(errs, fmt.Errorf("workflow.max_followup_rounds must not be negative"))
	}
	if c.Workflow.QuestionsPerPersona < 1 {
		errs = append(errs, fmt.Errorf("workflow.questions_per_persona must be positive"))
	}
	if c.Workflow.MaxInputSize < 1 {
		errs = append(errs, fmt.Errorf("workflow.max_input_size must be positive"))
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StoreFile, StoreSQLite:
		if c.Store.Path == "" {
			errs = append(errs, fmt.Errorf("store.path is required for the %s store", c.Store.Driver))
		}
	case StoreRedis:
		if c.Store.RedisURL == "" {
			errs = append(errs, fmt.Errorf("store.redis_url is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver %q is not one of memory, file, redis, sqlite", c.Store.Driver))
	}
	if c.Credits.SessionCost < 0 || c.Credits.InitialGrant < 0 {
		errs = append(errs, fmt.Errorf("credits must not be negative"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

func validProvider(name string) bool {
	for _, p := range llmimpl.Providers() {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level %q: %w", l.Level, err)
	}
	return level, nil
}

// Client converts the LLM section for llmimpl.
func (c LLMConfig) Client() llmimpl.Config {
	retry := middleware.DefaultRetryConfig
	if c.MaxAttempts > 0 {
		retry.MaxAttempts = c.MaxAttempts
	}
	return llmimpl.Config{
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Timeout:  c.Timeout,
		Retry:    retry,
	}
}
