// Package config loads drivepicker settings from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/jun/drivepicker/internal/schema"
)

// Config holds every setting shared by the API, the local server and the CLI.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DevMode     bool   `env:"DEV_MODE" envDefault:"false"`

	GoogleClientID string `env:"GOOGLE_CLIENT_ID"`
	GoogleAppID    string `env:"GOOGLE_APP_ID"`

	// Secret parameter names, resolved through internal/secret.
	DeveloperKeyParam string `env:"GOOGLE_DEVELOPER_KEY_PARAM" envDefault:"/drivepicker/google-developer-key"`
	ClientSecretParam string `env:"GOOGLE_CLIENT_SECRET_PARAM" envDefault:"/drivepicker/google-client-secret"`

	ViewID        string   `env:"PICKER_VIEW_ID"`
	Scopes        []string `env:"PICKER_SCOPES" envSeparator:","`
	MimeTypes     []string `env:"PICKER_VIEW_MIME_TYPES" envSeparator:","`
	CustomViews   []string `env:"PICKER_CUSTOM_VIEWS" envSeparator:","`
	Multiselect   bool     `env:"PICKER_MULTISELECT" envDefault:"false"`
	UploadView    bool     `env:"PICKER_UPLOAD_VIEW" envDefault:"false"`
	SupportDrives bool     `env:"PICKER_SUPPORT_DRIVES" envDefault:"false"`

	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	StaticDir   string `env:"STATIC_DIR"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// OriginVerifyParam names the secret CloudFront sends in X-Origin-Verify.
	// Empty disables the check.
	OriginVerifyParam string `env:"ORIGIN_VERIFY_PARAM"`
	OAuthRedirectAddr string `env:"OAUTH_REDIRECT_ADDR" envDefault:"localhost:0"`
}

// Load reads a .env file when present, then parses and validates the
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Scopes = compact(cfg.Scopes)
	cfg.MimeTypes = compact(cfg.MimeTypes)
	cfg.CustomViews = compact(cfg.CustomViews)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GoogleClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.GoogleAppID == "" {
		return fmt.Errorf("GOOGLE_APP_ID is required")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.ViewID != "" && !schema.ViewID(c.ViewID).Valid() {
		return fmt.Errorf("PICKER_VIEW_ID %q is not a known view", c.ViewID)
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// PickerConfig returns the picker settings described by the environment.
// Scope and mime type values are checked later by schema.ParseConfig.
func (c *Config) PickerConfig() *schema.Config {
	return &schema.Config{
		ShowUploadView: c.UploadView,
		Multiselect:    c.Multiselect,
		CustomViews:    c.CustomViews,
		SupportDrives:  c.SupportDrives,
		ViewMimeTypes:  c.MimeTypes,
		Scopes:         c.Scopes,
		ViewID:         schema.ViewID(c.ViewID),
	}
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
