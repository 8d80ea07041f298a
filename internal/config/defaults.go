// Package config provides configuration loading and defaults for studywatch.
package config

import "time"

// DefaultConfigDir is the default location for studywatch configuration.
const DefaultConfigDir = "~/.config/studywatch"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "studywatch.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes every environment override, e.g. STUDYWATCH_PREMIUM.
const EnvPrefix = "STUDYWATCH"

// DefaultRange is the reporting window used when --range is not given.
const DefaultRange = "week"

// DefaultDisplayCeilingMinutes is the minimum bar chart axis (16 hours).
const DefaultDisplayCeilingMinutes = 960.0

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultWatch holds the default watcher settings.
var DefaultWatch = Watch{
	Interval: 5 * time.Minute,
	Notify:   false,
}
