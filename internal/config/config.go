// Package config loads the TalentScout configuration from defaults, an optional
// YAML file, and TALENTSCOUT_<SECTION>_<KEY> environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/talentscout/pkg/persistence/middleware"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TALENTSCOUT_"

// DefaultModelName is the Ollama model used when none is configured.
const DefaultModelName = "llama3.2"

// DefaultFile is read when no path is given and it exists.
const DefaultFile = "talentscout.yaml"

type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type Model struct {
	Provider        string  `mapstructure:"provider" yaml:"provider"`
	Name            string  `mapstructure:"name" yaml:"name"`
	BaseURL         string  `mapstructure:"base_url" yaml:"base_url"`
	APIKey          string  `mapstructure:"api_key" yaml:"api_key"`
	Temperature     float64 `mapstructure:"temperature" yaml:"temperature"`
	StripCodeFences bool    `mapstructure:"strip_code_fences" yaml:"strip_code_fences"`
	CannedFile      string  `mapstructure:"canned_file" yaml:"canned_file"`
}

type Storage struct {
	Backend                string        `mapstructure:"backend" yaml:"backend"`
	Dir                    string        `mapstructure:"dir" yaml:"dir"`
	RedisAddr              string        `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword          string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB                int           `mapstructure:"redis_db" yaml:"redis_db"`
	TTL                    time.Duration `mapstructure:"ttl" yaml:"ttl"`
	LockTTL                time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
	EncryptionKey          string        `mapstructure:"encryption_key" yaml:"encryption_key"`
	EncryptionFallbackKeys []string      `mapstructure:"encryption_fallback_keys" yaml:"encryption_fallback_keys"`
}

type Report struct {
	Dir           string   `mapstructure:"dir" yaml:"dir"`
	Filename      string   `mapstructure:"filename" yaml:"filename"`
	QuestionsFile string   `mapstructure:"questions_file" yaml:"questions_file"`
	S3Bucket      string   `mapstructure:"s3_bucket" yaml:"s3_bucket"`
	S3Region      string   `mapstructure:"s3_region" yaml:"s3_region"`
	S3Endpoint    string   `mapstructure:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKey   string   `mapstructure:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey   string   `mapstructure:"s3_secret_key" yaml:"s3_secret_key"`
	PostgresURL   string   `mapstructure:"postgres_url" yaml:"postgres_url"`
	RedactFields  []string `mapstructure:"redact_fields" yaml:"redact_fields"`
}

type Events struct {
	AMQPURL  string `mapstructure:"amqp_url" yaml:"amqp_url"`
	Exchange string `mapstructure:"exchange" yaml:"exchange"`
}

type Server struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Config is the full application configuration.
type Config struct {
	Log     Log     `mapstructure:"log" yaml:"log"`
	Model   Model   `mapstructure:"model" yaml:"model"`
	Storage Storage `mapstructure:"storage" yaml:"storage"`
	Report  Report  `mapstructure:"report" yaml:"report"`
	Events  Events  `mapstructure:"events" yaml:"events"`
	Server  Server  `mapstructure:"server" yaml:"server"`
}

func defaults() map[string]any {
	return map[string]any{
		"log": map[string]any{"level": "info", "format": "text"},
		"model": map[string]any{
			"provider":    "ollama",
			"name":        DefaultModelName,
			"temperature": 0.2,
		},
		"storage": map[string]any{
			"backend":    "file",
			"dir":        ".talentscout/sessions",
			"redis_addr": "localhost:6379",
			"lock_ttl":   "30s",
		},
		"report": map[string]any{
			"dir":            ".",
			"filename":       "{session}-responses.txt",
			"questions_file": "{session}-questions.json",
			"s3_region":      "auto",
		},
		"events": map[string]any{"exchange": "session_updates"},
		"server": map[string]any{"port": 8080, "shutdown_timeout": "5s"},
	}
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg, err := decode(defaults())
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads path (or DefaultFile when path is empty and the file exists),
// then applies environment overrides from environ (os.Environ() form).
func Load(path string, environ []string) (*Config, error) {
	raw := defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merge(raw, file)
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(raw, environ)

	cfg, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(raw map[string]any) (*Config, error) {
	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// merge copies src into dst, descending into nested sections.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

// applyEnv overlays TALENTSCOUT_<SECTION>_<KEY> variables on known sections.
func applyEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || key == "" {
			continue
		}
		sub, known := raw[section].(map[string]any)
		if !known {
			continue
		}
		sub[key] = value
	}
}

// Validate checks enumerations and provider requirements.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	switch c.Model.Provider {
	case "ollama", "canned":
	case "openai", "gemini":
		if c.Model.APIKey == "" {
			errs = append(errs, fmt.Errorf("model.api_key is required for provider %s", c.Model.Provider))
		}
	default:
		errs = append(errs, fmt.Errorf("model.provider must be ollama, openai, gemini or canned, got %q", c.Model.Provider))
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, fmt.Errorf("model.temperature must be within [0, 2], got %v", c.Model.Temperature))
	}

	switch c.Storage.Backend {
	case "file", "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be file, memory or redis, got %q", c.Storage.Backend))
	}
	if c.Storage.EncryptionKey != "" {
		if _, err := middleware.ParseKey(c.Storage.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("storage.encryption_key: %w", err))
		}
	}
	if c.Storage.LockTTL <= 0 {
		errs = append(errs, fmt.Errorf("storage.lock_ttl must be positive, got %s", c.Storage.LockTTL))
	}
	if c.Report.Filename == "" {
		errs = append(errs, errors.New("report.filename must not be empty"))
	}
	for _, pattern := range c.Report.RedactFields {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, fmt.Errorf("report.redact_fields: %w", err))
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}

	return errors.Join(errs...)
}

// SlogLevel parses log.level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// EncryptionConfig returns the store encryption keys, or nil when encryption is off.
func (c *Config) EncryptionConfig() (*middleware.EncryptionConfig, error) {
	if c.Storage.EncryptionKey == "" {
		return nil, nil
	}
	active, err := middleware.ParseKey(c.Storage.EncryptionKey)
	if err != nil {
		return nil, err
	}
	enc := &middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range c.Storage.EncryptionFallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("storage.encryption_fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	for _, s := range []*string{
		&out.Model.APIKey,
		&out.Storage.RedisPassword,
		&out.Storage.EncryptionKey,
		&out.Report.S3SecretKey,
		&out.Report.PostgresURL,
		&out.Events.AMQPURL,
	} {
		if *s != "" {
			*s = middleware.Mask
		}
	}
	out.Storage.EncryptionFallbackKeys = nil
	return &out
}

// YAML renders the configuration.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
