package config

// Recognized classification keys. These cover the Metasprint project layout
// out of the box; a config file only needs to list overrides or additions.
const (
	DefaultOutput           = "index.html"
	DefaultTitle            = "META-SPRINT Project Gateway"
	DefaultSubtitle         = "Reports, models and supporting material in one place"
	DefaultConventionPrefix = "meta-sprint-"
	DefaultConventionLabel  = "Meta-sprint: "
	DefaultCategoryTag      = "Report"
	DefaultDaemonAddr       = ":8787"
	DefaultNotifySubject    = "metasprint.gateway.builds"
)

func defaultPageTitles() map[string]string {
	return map[string]string{
		"meta-sprint-nma-v3.html": "Meta-sprint: Network Meta-Analysis",
	}
}

func defaultFileTitles() map[string]string {
	return map[string]string{
		"test_metasprint.py": "Meta-sprint Tests",
		"compare_methods.py": "Method Comparison Model",
		"debug_test.py":      "Simulation Debug Checks",
	}
}

func defaultTagClasses() map[string]TagClass {
	return map[string]TagClass{
		"md":  {Class: "tag-md", Label: "MD"},
		"py":  {Class: "tag-py", Label: "PY"},
		"png": {Class: "tag-png", Label: "PNG"},
	}
}

func defaultPriority() []string {
	return []string{"meta-sprint-nma-v3.html"}
}

// applyDefaults fills every unset field. Maps are merged so user entries
// override the recognized keys without discarding the rest.
func applyDefaults(cfg *Config) {
	if cfg.Scan.Directory == "" {
		cfg.Scan.Directory = "."
	}
	if cfg.Scan.Output == "" {
		cfg.Scan.Output = DefaultOutput
	}
	if cfg.Page.Title == "" {
		cfg.Page.Title = DefaultTitle
	}
	if cfg.Page.Subtitle == "" {
		cfg.Page.Subtitle = DefaultSubtitle
	}
	if cfg.Tables.ConventionPrefix == "" {
		cfg.Tables.ConventionPrefix = DefaultConventionPrefix
	}
	if cfg.Tables.ConventionLabel == "" {
		cfg.Tables.ConventionLabel = DefaultConventionLabel
	}
	if cfg.Tables.CategoryTag == "" {
		cfg.Tables.CategoryTag = DefaultCategoryTag
	}
	cfg.Tables.PageTitles = mergeStringMap(defaultPageTitles(), cfg.Tables.PageTitles)
	cfg.Tables.FileTitles = mergeStringMap(defaultFileTitles(), cfg.Tables.FileTitles)
	cfg.Tables.TagClasses = mergeTagMap(defaultTagClasses(), cfg.Tables.TagClasses)
	if len(cfg.Tables.Priority) == 0 {
		cfg.Tables.Priority = defaultPriority()
	}
	if cfg.Daemon.Addr == "" {
		cfg.Daemon.Addr = DefaultDaemonAddr
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
}

func mergeStringMap(base, overrides map[string]string) map[string]string {
	for k, v := range overrides {
		base[k] = v
	}
	return base
}

func mergeTagMap(base, overrides map[string]TagClass) map[string]TagClass {
	for k, v := range overrides {
		base[k] = v
	}
	return base
}
