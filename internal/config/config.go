// Package config loads apidrift configuration from .apidrift/config.yml
// with environment variable overrides.
package config

// Config represents the complete apidrift configuration.
type Config struct {
	Project   ProjectConfig   `yaml:"project" mapstructure:"project"`
	Snapshots SnapshotsConfig `yaml:"snapshots" mapstructure:"snapshots"`
	Resolve   ResolveConfig   `yaml:"resolve" mapstructure:"resolve"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
}

// ProjectConfig locates the analyzed project.
type ProjectConfig struct {
	TSConfig string `yaml:"tsconfig" mapstructure:"tsconfig"` // tsconfig path relative to the project root
}

// SnapshotsConfig defines where snapshots and their history index live.
type SnapshotsConfig struct {
	Dir     string `yaml:"dir" mapstructure:"dir"`         // snapshot output directory
	History string `yaml:"history" mapstructure:"history"` // SQLite history index path
}

// ResolveConfig controls isolated-checkout resolution.
type ResolveConfig struct {
	InstallDeps bool `yaml:"install_deps" mapstructure:"install_deps"` // run npm install in the ephemeral checkout
}

// ReportConfig sets rendering and CI gating defaults.
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"`   // "json", "text", or "markdown"
	FailOn string `yaml:"fail_on" mapstructure:"fail_on"` // "fail-on-any" or "fail-on-breaking"
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Project: ProjectConfig{
			TSConfig: "tsconfig.json",
		},
		Snapshots: SnapshotsConfig{
			Dir:     ".apidrift/snapshots",
			History: ".apidrift/history.db",
		},
		Resolve: ResolveConfig{
			InstallDeps: false,
		},
		Report: ReportConfig{
			Format: "text",
			FailOn: "fail-on-breaking",
		},
	}
}
