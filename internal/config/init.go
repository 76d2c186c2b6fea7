package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# Metasprint gateway builder configuration.
# Every key is optional; the defaults cover the recognized project files.

scan:
  directory: .
  output: index.html
  # exclude:
  #   - scratch.html

page:
  title: "META-SPRINT Project Gateway"
  subtitle: "Reports, models and supporting material in one place"
  # notes_file: MAJOR_IMPROVEMENTS.md
  # git_dates: true

tables:
  # page_titles:
  #   meta-sprint-nma-v3.html: "Meta-sprint: Network Meta-Analysis"
  # file_titles:
  #   test_metasprint.py: "Meta-sprint Tests"
  # tag_classes:
  #   csv: { class: tag-csv, label: CSV }
  # priority:
  #   - meta-sprint-nma-v3.html
  # convention_prefix: "meta-sprint-"
  # convention_label: "Meta-sprint: "
  # category_tag: Report

# manifest:
#   path: gateway-manifest.db

# daemon:
#   addr: ":8787"
#   watch: true
#   debounce: 2s
#   rebuild_interval: 1h

# notify:
#   enabled: true
#   url: nats://localhost:4222
#   subject: metasprint.gateway.builds
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
