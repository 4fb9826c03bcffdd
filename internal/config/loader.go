package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration for the project rooted at rootDir with the
// following priority (highest to lowest):
//  1. Environment variables (APIDRIFT_*)
//  2. Config file (.apidrift/config.yml or .apidrift/config.yaml)
//  3. Default values
func Load(rootDir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(rootDir, ".apidrift"))

	v.SetEnvPrefix("APIDRIFT")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g. APIDRIFT_REPORT_FORMAT).
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("project.tsconfig")
	v.BindEnv("snapshots.dir")
	v.BindEnv("snapshots.history")
	v.BindEnv("resolve.install_deps")
	v.BindEnv("report.format")
	v.BindEnv("report.fail_on")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine - defaults plus env vars apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("project.tsconfig", defaults.Project.TSConfig)
	v.SetDefault("snapshots.dir", defaults.Snapshots.Dir)
	v.SetDefault("snapshots.history", defaults.Snapshots.History)
	v.SetDefault("resolve.install_deps", defaults.Resolve.InstallDeps)
	v.SetDefault("report.format", defaults.Report.Format)
	v.SetDefault("report.fail_on", defaults.Report.FailOn)
}
