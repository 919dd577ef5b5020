package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/embld/interviewflow/internal/llmimpl"
)

// EnvPrefix prefixes every override variable.
const EnvPrefix = "INTERVIEWFLOW_"

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type binding struct {
	key string
	set func(c *Config, v string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error { *dst(c) = v; return nil }
}

func integer(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func duration(dst func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*dst(c) = d
		return nil
	}
}

func list(dst func(*Config) *[]string) func(*Config, string) error {
	return func(c *Config, v string) error {
		var out []string
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		*dst(c) = out
		return nil
	}
}

var bindings = []binding{
	{"SERVER_ADDR", str(func(c *Config) *string { return &c.Server.Addr })},
	{"ALLOWED_ORIGINS", list(func(c *Config) *[]string { return &c.Server.AllowedOrigins })},
	{"SHUTDOWN_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.Server.ShutdownTimeout })},
	{"MCP_ADDR", str(func(c *Config) *string { return &c.MCP.Addr })},
	{"MCP_BASE_URL", str(func(c *Config) *string { return &c.MCP.BaseURL })},
	{"LLM_PROVIDER", str(func(c *Config) *string { return &c.LLM.Provider })},
	{"LLM_MODEL", str(func(c *Config) *string { return &c.LLM.Model })},
	{"LLM_API_KEY", str(func(c *Config) *string { return &c.LLM.APIKey })},
	{"LLM_BASE_URL", str(func(c *Config) *string { return &c.LLM.BaseURL })},
	{"LLM_TIMEOUT", duration(func(c *Config) *time.Duration { return &c.LLM.Timeout })},
	{"LLM_MAX_ATTEMPTS", integer(func(c *Config) *int { return &c.LLM.MaxAttempts })},
	{"PLAN_FILE", str(func(c *Config) *string { return &c.Workflow.PlanFile })},
	{"LANGUAGE", str(func(c *Config) *string { return &c.Workflow.Language })},
	{"MAX_FOLLOWUP_ROUNDS", integer(func(c *Config) *int { return &c.Workflow.MaxFollowupRounds })},
	{"GATE", str(func(c *Config) *string { return &c.Workflow.Gate })},
	{"CHUNK_DELAY", duration(func(c *Config) *time.Duration { return &c.Workflow.ChunkDelay })},
	{"QUESTIONS_PER_PERSONA", integer(func(c *Config) *int { return &c.Workflow.QuestionsPerPersona })},
	{"MAX_INPUT_SIZE", integer(func(c *Config) *int { return &c.Workflow.MaxInputSize })},
	{"STORE_DRIVER", str(func(c *Config) *string { return &c.Store.Driver })},
	{"STORE_PATH", str(func(c *Config) *string { return &c.Store.Path })},
	{"REDIS_URL", str(func(c *Config) *string { return &c.Store.RedisURL })},
	{"STORE_TTL", duration(func(c *Config) *time.Duration { return &c.Store.TTL })},
	{"ENCRYPTION_KEY", str(func(c *Config) *string { return &c.Store.EncryptionKey })},
	{"SESSION_COST", integer(func(c *Config) *int { return &c.Credits.SessionCost })},
	{"INITIAL_GRANT", integer(func(c *Config) *int { return &c.Credits.InitialGrant })},
	{"LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FORMAT", str(func(c *Config) *string { return &c.Log.Format })},
}

// providerKeys are consulted when no API key is configured.
var providerKeys = map[string]string{
	llmimpl.ProviderOpenAI:    "OPENAI_API_KEY",
	llmimpl.ProviderAnthropic: "ANTHROPIC_API_KEY",
	llmimpl.ProviderGoogle:    "GEMINI_API_KEY",
}

// ApplyEnv overrides c from the environment.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	for _, b := range bindings {
		v, ok := lookup(EnvPrefix + b.key)
		if !ok || v == "" {
			continue
		}
		if err := b.set(c, v); err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, b.key, err)
		}
	}

	provider := strings.ToLower(c.LLM.Provider)
	if c.LLM.APIKey == "" {
		if name, ok := providerKeys[provider]; ok {
			c.LLM.APIKey, _ = lookup(name)
		}
	}
	if provider == llmimpl.ProviderOllama && c.LLM.BaseURL == "" {
		if host, ok := lookup("OLLAMA_HOST"); ok {
			c.LLM.BaseURL = host
		}
	}
	return nil
}
