package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Equilibrium Coach Configuration

[journal]
# Path to the SQLite journal database. Empty means <config dir>/journal.db
database_path = ""
# Account id preselected by the "trade new" command
default_account = ""

[coach]
# OpenAI model used for coaching feedback
model = "gpt-4o-mini"
# How many past chat messages are sent with each coach request
max_history = 40

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
# Time format
time_format = "15:04:05"

[logging]
# Log level: trace, debug, info, warn, error
level = "info"
# Log file path. Empty means <config dir>/equilibrium.log
file = ""
max_size_mb = 10
max_backups = 3
max_age_days = 30
`

const credentialsTemplate = `# Equilibrium Coach Credentials
# Keep this file private (chmod 600). The OPENAI_API_KEY environment
# variable overrides the value below.

[openai]
api_key = ""
`

// createTemplateConfig writes a starter config and lets the caller
// continue on defaults. A missing config file is a first run, not an
// error.
func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Restricted permissions, the file may hold an API key later
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return nil
}
