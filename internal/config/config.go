package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envPrefix = "MOUSE_WEB_"

	defaultEnvFile             = ".env"
	defaultPort                = "8080"
	defaultReadHeaderTimeout   = 10 * time.Second
	defaultReadTimeout         = 15 * time.Second
	defaultWriteTimeout        = 30 * time.Second
	defaultIdleTimeout         = 60 * time.Second
	defaultShutdownTimeout     = 10 * time.Second
	defaultEnvironment         = "local"
	defaultTemplatesDir        = "templates"
	defaultPublicDir           = "public"
	defaultLocalesDir          = "locales"
	defaultContentDir          = "content"
	defaultAPITimeout          = 10 * time.Second
	defaultRetryAttempts       = 3
	defaultRetryInitial        = 250 * time.Millisecond
	defaultRetryMax            = 2 * time.Second
	defaultOptionsCacheTTL     = 5 * time.Minute
	defaultImagesDir           = "public/img"
	defaultImagesURLBase       = "img/"
	defaultImagesPlaceholder   = "default-mouse.png"
	defaultImagesExtension     = ".jpeg"
	defaultProbeMode           = ProbeModeStore
	defaultProbeTimeout        = 3 * time.Second
	defaultProbeConcurrency    = 4
	defaultProbeCacheTTL       = time.Minute
	defaultLang                = "id"
	defaultTheme               = "light"
	defaultPriceStep           = 10000
	defaultDPIMin              = 800
	defaultDPIStep             = 100
	defaultButtonsMin          = 2
	defaultButtonsMax          = 20
	defaultGenerationIdleTTL   = 30 * time.Minute
	defaultLogLevel            = "info"
	defaultSupportedLangsValue = "id,en"
)

// Probe modes accepted by Images.ProbeMode.
const (
	ProbeModeStore = "store"
	ProbeModeHTTP  = "http"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server      ServerConfig
	Environment string
	DevMode     bool
	LogLevel    string
	Paths       PathsConfig
	API         APIConfig
	Images      ImagesConfig
	Validation  ValidationConfig
	UI          UIConfig
	Session     SessionConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// PathsConfig lists on-disk locations of templates and static content.
type PathsConfig struct {
	Templates string
	Public    string
	Locales   string
	Content   string
}

// APIConfig points at the recommendation backend.
type APIConfig struct {
	// BaseURL is the backend origin. Empty means the built-in fixture data is served.
	BaseURL         string
	Timeout         time.Duration
	RetryAttempts   int
	RetryInitial    time.Duration
	RetryMax        time.Duration
	OptionsCacheTTL time.Duration
}

// ImagesConfig controls where product images live and how candidates are probed.
type ImagesConfig struct {
	Dir              string
	Bucket           string
	BucketPrefix     string
	URLBase          string
	Placeholder      string
	Extension        string
	ProbeMode        string
	ProbeOrigin      string
	ProbeTimeout     time.Duration
	ProbeConcurrency int
	ProbeCacheTTL    time.Duration
}

// Bound describes the accepted range of a numeric form field. A zero Max means unbounded.
type Bound struct {
	Min  int
	Max  int
	Step int
}

// ValidationConfig holds the numeric form field bounds.
type ValidationConfig struct {
	PriceMax Bound
	DPIMin   Bound
	Buttons  Bound
}

// UIConfig holds presentation defaults.
type UIConfig struct {
	DefaultLang       string
	SupportedLangs    []string
	DefaultTheme      string
	GenerationIdleTTL time.Duration
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	SigningKey    string
	SecureCookies bool
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv, relying only on provided maps and .env files.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles the application configuration by combining defaults, .env overrides
// and environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}
	key := func(name string) string { return envPrefix + name }

	// Port resolution: prefer MOUSE_WEB_PORT, then the platform's PORT.
	port := stringWithDefault(lookup, key("PORT"), "")
	if port == "" {
		port = stringWithDefault(lookup, "PORT", defaultPort)
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:              stringWithDefault(lookup, key("ADDR"), ":"+port),
			ReadHeaderTimeout: durationWithDefault(lookup, key("READ_HEADER_TIMEOUT"), defaultReadHeaderTimeout),
			ReadTimeout:       durationWithDefault(lookup, key("READ_TIMEOUT"), defaultReadTimeout),
			WriteTimeout:      durationWithDefault(lookup, key("WRITE_TIMEOUT"), defaultWriteTimeout),
			IdleTimeout:       durationWithDefault(lookup, key("IDLE_TIMEOUT"), defaultIdleTimeout),
			ShutdownTimeout:   durationWithDefault(lookup, key("SHUTDOWN_TIMEOUT"), defaultShutdownTimeout),
		},
		Environment: strings.ToLower(stringWithDefault(lookup, key("ENV"), defaultEnvironment)),
		DevMode:     boolWithDefault(lookup, key("DEV"), false),
		LogLevel:    strings.ToLower(stringWithDefault(lookup, key("LOG_LEVEL"), defaultLogLevel)),
		Paths: PathsConfig{
			Templates: stringWithDefault(lookup, key("TEMPLATES_DIR"), defaultTemplatesDir),
			Public:    stringWithDefault(lookup, key("PUBLIC_DIR"), defaultPublicDir),
			Locales:   stringWithDefault(lookup, key("LOCALES_DIR"), defaultLocalesDir),
			Content:   stringWithDefault(lookup, key("CONTENT_DIR"), defaultContentDir),
		},
		API: APIConfig{
			BaseURL:         strings.TrimRight(strings.TrimSpace(stringWithDefault(lookup, key("API_BASE_URL"), "")), "/"),
			Timeout:         durationWithDefault(lookup, key("API_TIMEOUT"), defaultAPITimeout),
			RetryAttempts:   intWithDefault(lookup, key("API_RETRY_ATTEMPTS"), defaultRetryAttempts),
			RetryInitial:    durationWithDefault(lookup, key("API_RETRY_INITIAL_INTERVAL"), defaultRetryInitial),
			RetryMax:        durationWithDefault(lookup, key("API_RETRY_MAX_INTERVAL"), defaultRetryMax),
			OptionsCacheTTL: durationWithDefault(lookup, key("API_OPTIONS_CACHE_TTL"), defaultOptionsCacheTTL),
		},
		Images: ImagesConfig{
			Dir:              stringWithDefault(lookup, key("IMAGES_DIR"), defaultImagesDir),
			Bucket:           stringWithDefault(lookup, key("IMAGES_BUCKET"), ""),
			BucketPrefix:     stringWithDefault(lookup, key("IMAGES_BUCKET_PREFIX"), ""),
			URLBase:          stringWithDefault(lookup, key("IMAGES_URL_BASE"), defaultImagesURLBase),
			Placeholder:      stringWithDefault(lookup, key("IMAGES_PLACEHOLDER"), defaultImagesPlaceholder),
			Extension:        stringWithDefault(lookup, key("IMAGES_EXTENSION"), defaultImagesExtension),
			ProbeMode:        strings.ToLower(stringWithDefault(lookup, key("IMAGES_PROBE_MODE"), defaultProbeMode)),
			ProbeOrigin:      strings.TrimRight(stringWithDefault(lookup, key("IMAGES_PROBE_ORIGIN"), ""), "/"),
			ProbeTimeout:     durationWithDefault(lookup, key("IMAGES_PROBE_TIMEOUT"), defaultProbeTimeout),
			ProbeConcurrency: intWithDefault(lookup, key("IMAGES_PROBE_CONCURRENCY"), defaultProbeConcurrency),
			ProbeCacheTTL:    durationWithDefault(lookup, key("IMAGES_PROBE_CACHE_TTL"), defaultProbeCacheTTL),
		},
		Validation: ValidationConfig{
			PriceMax: Bound{
				Min:  intWithDefault(lookup, key("VALIDATION_PRICE_MAX_MIN"), 0),
				Max:  intWithDefault(lookup, key("VALIDATION_PRICE_MAX_MAX"), 0),
				Step: intWithDefault(lookup, key("VALIDATION_PRICE_MAX_STEP"), defaultPriceStep),
			},
			DPIMin: Bound{
				Min:  intWithDefault(lookup, key("VALIDATION_DPI_MIN_MIN"), defaultDPIMin),
				Max:  intWithDefault(lookup, key("VALIDATION_DPI_MIN_MAX"), 0),
				Step: intWithDefault(lookup, key("VALIDATION_DPI_MIN_STEP"), defaultDPIStep),
			},
			Buttons: Bound{
				Min:  intWithDefault(lookup, key("VALIDATION_BUTTONS_MIN"), defaultButtonsMin),
				Max:  intWithDefault(lookup, key("VALIDATION_BUTTONS_MAX"), defaultButtonsMax),
				Step: 1,
			},
		},
		UI: UIConfig{
			DefaultLang:       strings.ToLower(stringWithDefault(lookup, key("DEFAULT_LANG"), defaultLang)),
			SupportedLangs:    csvWithDefault(lookup, key("SUPPORTED_LANGS"), defaultSupportedLangsValue),
			DefaultTheme:      strings.ToLower(stringWithDefault(lookup, key("DEFAULT_THEME"), defaultTheme)),
			GenerationIdleTTL: durationWithDefault(lookup, key("GENERATION_IDLE_TTL"), defaultGenerationIdleTTL),
		},
		Session: SessionConfig{
			SigningKey: stringWithDefault(lookup, key("SESSION_SIGNING_KEY"), ""),
		},
	}
	cfg.Session.SecureCookies = boolWithDefault(lookup, key("SESSION_SECURE"), cfg.Environment == "prod")

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UsesFixtures reports whether the backend client should serve built-in data.
func (c Config) UsesFixtures() bool {
	return c.API.BaseURL == ""
}

func validateConfig(cfg Config) error {
	var missing []string

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		missing = append(missing, "Server.Addr")
	}
	if cfg.API.Timeout <= 0 {
		missing = append(missing, "API.Timeout")
	}
	if cfg.API.RetryAttempts < 1 {
		missing = append(missing, "API.RetryAttempts")
	}
	if cfg.API.RetryInitial <= 0 || cfg.API.RetryMax < cfg.API.RetryInitial {
		missing = append(missing, "API.RetryInterval")
	}
	if strings.TrimSpace(cfg.Images.Placeholder) == "" {
		missing = append(missing, "Images.Placeholder")
	}
	switch cfg.Images.ProbeMode {
	case ProbeModeStore:
	case ProbeModeHTTP:
		if cfg.Images.ProbeOrigin == "" {
			missing = append(missing, "Images.ProbeOrigin")
		}
	default:
		missing = append(missing, "Images.ProbeMode")
	}
	if cfg.Images.ProbeConcurrency < 1 {
		missing = append(missing, "Images.ProbeConcurrency")
	}
	if cfg.Images.ProbeTimeout <= 0 {
		missing = append(missing, "Images.ProbeTimeout")
	}
	for name, b := range map[string]Bound{
		"Validation.PriceMax": cfg.Validation.PriceMax,
		"Validation.DPIMin":   cfg.Validation.DPIMin,
		"Validation.Buttons":  cfg.Validation.Buttons,
	} {
		if b.Max != 0 && b.Max < b.Min {
			missing = append(missing, name)
		}
	}
	if cfg.UI.DefaultTheme != "light" && cfg.UI.DefaultTheme != "dark" {
		missing = append(missing, "UI.DefaultTheme")
	}
	if len(cfg.UI.SupportedLangs) == 0 {
		missing = append(missing, "UI.SupportedLangs")
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	values, err := godotenv.Read(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key, fallback string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		raw = fallback
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(part))
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
