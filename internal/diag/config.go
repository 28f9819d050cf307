package diag

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SymbolicationMode selects how stack frames are resolved to names.
type SymbolicationMode string

const (
	// SymbolicationNative resolves frames with runtime.CallersFrames and
	// demangles the result. It is the only mode implemented today.
	SymbolicationNative SymbolicationMode = "native"
	// SymbolicationManifest is reserved for a future mode that resolves
	// frames against a serialized symbol manifest shipped alongside the
	// binary instead of live runtime introspection. See DESIGN.md.
	SymbolicationManifest SymbolicationMode = "manifest"
)

// RuntimeConfig holds the settings the runtime reads once at init.
type RuntimeConfig struct {
	MaxFrames      int                `yaml:"maxFrames"`
	DiagnosticPath string             `yaml:"diagnosticPath"`
	SkipPatterns   []string           `yaml:"skipPatterns"`
	TraceEnabled   bool               `yaml:"traceEnabled"`
	Symbolication  SymbolicationMode  `yaml:"symbolication"`
}

func defaultConfig() RuntimeConfig {
	return RuntimeConfig{
		MaxFrames:     256,
		Symbolication: SymbolicationNative,
	}
}

// Config is the process-wide, immutable-after-init runtime configuration.
var Config = defaultConfig()

// LoadConfig reads TRILL_RUNTIME_CONFIG, if set, and merges it over the
// compiled-in defaults. A missing or unset path is not an error: the
// runtime falls back to defaultConfig().
func LoadConfig() {
	path := os.Getenv("TRILL_RUNTIME_CONFIG")
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	cfg := defaultConfig()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return
	}
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = defaultConfig().MaxFrames
	}
	if cfg.DiagnosticPath != "" {
		if w, err := os.OpenFile(cfg.DiagnosticPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			SetDiagnosticWriter(w)
		}
	}
	Config = cfg
}
