package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent kisanq configuration stored as
// config.toml in the .kisanq/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	API         APIConfig         `toml:"api"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	Embedding   EmbeddingConfig   `toml:"embedding"`
	Generation  GenerationConfig  `toml:"generation"`
	Retrieval   RetrievalConfig   `toml:"retrieval"`
	WebSearch   WebSearchConfig   `toml:"websearch"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// StorageConfig holds document store settings.
type StorageConfig struct {
	Provider    string `toml:"provider,omitempty"`
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresURL string `toml:"postgres_url,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// VectorStoreConfig holds vector store settings. Path is used by the
// sqlite provider, Target by the qdrant provider.
type VectorStoreConfig struct {
	Provider string `toml:"provider,omitempty"`
	Path     string `toml:"path,omitempty"`
	Target   string `toml:"target,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions uint   `toml:"dimensions,omitempty"`
}

// GenerationConfig holds local LLM settings.
type GenerationConfig struct {
	Provider       string `toml:"provider,omitempty"`
	Target         string `toml:"target,omitempty"`
	Model          string `toml:"model,omitempty"`
	TimeoutSeconds uint   `toml:"timeout_seconds,omitempty"`
}

// RetrievalConfig holds relevance gate settings. Threshold is the
// minimum similarity in (0,1]; TopK caps the grounding passages.
type RetrievalConfig struct {
	Threshold float64 `toml:"threshold,omitempty"`
	TopK      uint    `toml:"top_k,omitempty"`
}

// WebSearchConfig holds fallback web search settings. The "chain"
// provider tries serpapi first, then duckduckgo.
type WebSearchConfig struct {
	Provider       string `toml:"provider,omitempty"`
	APIKey         string `toml:"api_key,omitempty"`
	MaxResults     uint   `toml:"max_results,omitempty"`
	TimeoutSeconds uint   `toml:"timeout_seconds,omitempty"`
}

// EventStreamConfig holds Kafka analytics settings.
type EventStreamConfig struct {
	Enabled bool     `toml:"enabled,omitempty"`
	Brokers []string `toml:"brokers,omitempty"`
	Topic   string   `toml:"topic,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func uintKey(get func(c *Config) uint, set func(c *Config, n uint)) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string {
			if get(c) == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(get(c)), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid unsigned integer %q: %w", v, err)
			}
			set(c, uint(n))
			return nil
		},
	}
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.provider": {
		get: func(c *Config) string { return c.Storage.Provider },
		set: func(c *Config, v string) error { c.Storage.Provider = v; return nil },
	},
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"storage.postgres_url": {
		get: func(c *Config) string { return c.Storage.PostgresURL },
		set: func(c *Config, v string) error { c.Storage.PostgresURL = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"vector_store.provider": {
		get: func(c *Config) string { return c.VectorStore.Provider },
		set: func(c *Config, v string) error { c.VectorStore.Provider = v; return nil },
	},
	"vector_store.path": {
		get: func(c *Config) string { return c.VectorStore.Path },
		set: func(c *Config, v string) error { c.VectorStore.Path = v; return nil },
	},
	"vector_store.target": {
		get: func(c *Config) string { return c.VectorStore.Target },
		set: func(c *Config, v string) error { c.VectorStore.Target = v; return nil },
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.dimensions": uintKey(
		func(c *Config) uint { return c.Embedding.Dimensions },
		func(c *Config, n uint) { c.Embedding.Dimensions = n },
	),
	"generation.provider": {
		get: func(c *Config) string { return c.Generation.Provider },
		set: func(c *Config, v string) error { c.Generation.Provider = v; return nil },
	},
	"generation.target": {
		get: func(c *Config) string { return c.Generation.Target },
		set: func(c *Config, v string) error { c.Generation.Target = v; return nil },
	},
	"generation.model": {
		get: func(c *Config) string { return c.Generation.Model },
		set: func(c *Config, v string) error { c.Generation.Model = v; return nil },
	},
	"generation.timeout_seconds": uintKey(
		func(c *Config) uint { return c.Generation.TimeoutSeconds },
		func(c *Config, n uint) { c.Generation.TimeoutSeconds = n },
	),
	"retrieval.threshold": {
		get: func(c *Config) string {
			if c.Retrieval.Threshold == 0 {
				return ""
			}
			return strconv.FormatFloat(c.Retrieval.Threshold, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for retrieval.threshold: %w", err)
			}
			if f <= 0 || f > 1 {
				return fmt.Errorf("retrieval.threshold must be in (0,1], got %v", f)
			}
			c.Retrieval.Threshold = f
			return nil
		},
	},
	"retrieval.top_k": uintKey(
		func(c *Config) uint { return c.Retrieval.TopK },
		func(c *Config, n uint) { c.Retrieval.TopK = n },
	),
	"websearch.provider": {
		get: func(c *Config) string { return c.WebSearch.Provider },
		set: func(c *Config, v string) error { c.WebSearch.Provider = v; return nil },
	},
	"websearch.api_key": {
		get: func(c *Config) string { return c.WebSearch.APIKey },
		set: func(c *Config, v string) error { c.WebSearch.APIKey = v; return nil },
	},
	"websearch.max_results": uintKey(
		func(c *Config) uint { return c.WebSearch.MaxResults },
		func(c *Config, n uint) { c.WebSearch.MaxResults = n },
	),
	"websearch.timeout_seconds": uintKey(
		func(c *Config) uint { return c.WebSearch.TimeoutSeconds },
		func(c *Config, n uint) { c.WebSearch.TimeoutSeconds = n },
	),
	"eventstream.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.EventStream.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for eventstream.enabled: %w", err)
			}
			c.EventStream.Enabled = b
			return nil
		},
	},
	"eventstream.brokers": {
		get: func(c *Config) string { return strings.Join(c.EventStream.Brokers, ",") },
		set: func(c *Config, v string) error {
			var brokers []string
			for _, b := range strings.Split(v, ",") {
				if b = strings.TrimSpace(b); b != "" {
					brokers = append(brokers, b)
				}
			}
			c.EventStream.Brokers = brokers
			return nil
		},
	},
	"eventstream.topic": {
		get: func(c *Config) string { return c.EventStream.Topic },
		set: func(c *Config, v string) error { c.EventStream.Topic = v; return nil },
	},
}
