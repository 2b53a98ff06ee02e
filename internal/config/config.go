package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"pdfmark/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Version    int              `toml:"version"`
	Annotation AnnotationConfig `toml:"annotation"`
	View       ViewConfig       `toml:"view"`
	Sidecar    SidecarConfig    `toml:"sidecar"`
	Tools      ToolsConfig      `toml:"tools"`
	Log        LogConfig        `toml:"log"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

// AnnotationConfig controls how drags become markups
type AnnotationConfig struct {
	DefaultKind string            `toml:"default_kind"`
	Colors      map[string]string `toml:"colors"` // kind name -> #RRGGBBAA
	MinSize     float64           `toml:"min_size"`
	SnapToText  bool              `toml:"snap_to_text"`
}

// ViewConfig controls zoom and layout
type ViewConfig struct {
	ZoomStep float64 `toml:"zoom_step"`
	MinZoom  float64 `toml:"min_zoom"`
	MaxZoom  float64 `toml:"max_zoom"`
	FitMode  string  `toml:"fit_mode"` // fit-width, fit-page or custom
	Layout   string  `toml:"layout"`   // single or continuous
	PageGap  float64 `toml:"page_gap"`
}

// SidecarConfig controls where markups are persisted
type SidecarConfig struct {
	Dir            string `toml:"dir"` // empty stores next to the document
	AutosaveCommit bool   `toml:"autosave_on_commit"`
	AutosaveQuit   bool   `toml:"autosave_on_quit"`
}

// ToolsConfig locates the external page tool
type ToolsConfig struct {
	Qpdf           string `toml:"qpdf"`
	PdfcpuFallback bool   `toml:"pdfcpu_fallback"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Pretty bool   `toml:"pretty"`
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Addr string `toml:"addr"` // empty disables the endpoint
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// DefaultPath is config.toml in the user's config directory
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "pdfmark", "config.toml")
}

// NewConfigService creates a config service for the default path
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceAt creates a config service for a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration, returning defaults when the file is absent
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys absent from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			keys := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return nil, errors.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
		return nil, errors.Wrapf(err, "failed to parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Annotation: AnnotationConfig{
			DefaultKind: domain.KindHighlight.String(),
			Colors: map[string]string{
				domain.KindHighlight.String(): domain.DefaultColor.HexRGBA(),
				domain.KindUnderline.String(): "#0050ffc0",
				domain.KindStrikeOut.String(): "#e00000c0",
			},
			MinSize: 2,
		},
		View: ViewConfig{
			ZoomStep: 1.2,
			MinZoom:  0.25,
			MaxZoom:  4,
			FitMode:  "fit-width",
			Layout:   "single",
			PageGap:  2,
		},
		Sidecar: SidecarConfig{
			AutosaveQuit: true,
		},
		Tools: ToolsConfig{
			Qpdf:           "qpdf",
			PdfcpuFallback: true,
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(os.TempDir(), "pdfmark.log"),
		},
	}
}

// Validate checks every field that has a restricted domain
func (c *Config) Validate() error {
	if _, ok := domain.ParseMarkupKind(c.Annotation.DefaultKind); !ok {
		return errors.Errorf("annotation.default_kind: unknown kind %q", c.Annotation.DefaultKind)
	}
	for name, hex := range c.Annotation.Colors {
		if _, ok := domain.ParseMarkupKind(name); !ok {
			return errors.Errorf("annotation.colors: unknown kind %q", name)
		}
		if _, err := domain.ParseColor(hex); err != nil {
			return errors.Wrapf(err, "annotation.colors.%s", name)
		}
	}
	if c.Annotation.MinSize <= 0 {
		return errors.Errorf("annotation.min_size must be positive, got %g", c.Annotation.MinSize)
	}
	if c.View.ZoomStep <= 1 {
		return errors.Errorf("view.zoom_step must be greater than 1, got %g", c.View.ZoomStep)
	}
	if c.View.MinZoom <= 0 || c.View.MaxZoom < c.View.MinZoom {
		return errors.Errorf("view zoom bounds [%g, %g] are invalid", c.View.MinZoom, c.View.MaxZoom)
	}
	switch c.View.FitMode {
	case "fit-width", "fit-page", "custom":
	default:
		return errors.Errorf("view.fit_mode: unknown mode %q", c.View.FitMode)
	}
	switch c.View.Layout {
	case "single", "continuous":
	default:
		return errors.Errorf("view.layout: unknown layout %q", c.View.Layout)
	}
	if c.View.PageGap < 0 {
		return errors.New("view.page_gap must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return errors.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	return nil
}

// DefaultKind returns the configured default markup kind
func (c *Config) DefaultKind() domain.MarkupKind {
	k, _ := domain.ParseMarkupKind(c.Annotation.DefaultKind)
	return k
}

// Colors returns the configured colour of every kind that has one
func (c *Config) Colors() map[domain.MarkupKind]domain.Color {
	out := make(map[domain.MarkupKind]domain.Color)
	for _, k := range domain.Kinds() {
		if col, ok := c.ColorFor(k); ok {
			out[k] = col
		}
	}
	return out
}

// ColorFor returns the configured colour of a kind
func (c *Config) ColorFor(kind domain.MarkupKind) (domain.Color, bool) {
	for name, hex := range c.Annotation.Colors {
		k, ok := domain.ParseMarkupKind(name)
		if !ok || k != kind {
			continue
		}
		col, err := domain.ParseColor(hex)
		if err != nil {
			return domain.Color{}, false
		}
		return col, true
	}
	return domain.Color{}, false
}
