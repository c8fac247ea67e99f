package config

// FeedConfig describes one static GTFS feed the tooling can load.
type FeedConfig struct {
	Name string `yaml:"name" validate:"required"`
	Path string `yaml:"path" validate:"required"`
}

// WarningsConfig controls how load diagnostics are reported.
type WarningsConfig struct {
	// MaxPrinted caps how many warnings the CLI prints; 0 means all.
	MaxPrinted int `yaml:"maxPrinted" validate:"gte=0"`
}

// AppConfig is the root configuration structure.
type AppConfig struct {
	Feeds    []FeedConfig   `yaml:"feeds"`
	Warnings WarningsConfig `yaml:"warnings"`
}
