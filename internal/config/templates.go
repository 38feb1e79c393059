package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# BioTrial Analyzer Configuration

[analyzer]
# Minimum Phase 1 enrollment; strictly below this triggers the
# underpowered flag
underpowered_min_enrollment = 20
# Cash runway floor in months; strictly below this triggers the
# dilution flag (unknown runway never triggers)
dilution_runway_months = 4.0
# Maximum number of upcoming catalysts shown by "biotrial scan"
scan_limit = 10

[market_data]
# Yahoo Finance chart API endpoint
base_url = "https://query1.finance.yahoo.com"
# HTTP request timeout
timeout = "10s"
# How long fetched quotes stay fresh
cache_ttl = "1h"

[ui]
# Enable colored output
color_enabled = true
# Date format for event dates
date_format = "2006-01-02"

[notifications]
# Enable notifications for high-risk catalysts
enabled = false

[notifications.webhook]
enabled = false
url = ""

[notifications.telegram]
enabled = false
bot_token = ""
chat_id = 0
`

const credentialsTemplate = `# BioTrial Analyzer Credentials
# Keep this file private (chmod 600)

[openai]
# Used by "biotrial explain" for risk narratives
api_key = ""
model = "gpt-4o-mini"
`

func createTemplateConfig(configDir string) error {
	return writeTemplate(configDir, "config.toml", configTemplate, 0644)
}

func createTemplateCredentials(configDir string) error {
	return writeTemplate(configDir, "credentials.toml", credentialsTemplate, 0600)
}

func writeTemplate(configDir, name, content string, perm os.FileMode) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(configDir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(content), perm)
}
