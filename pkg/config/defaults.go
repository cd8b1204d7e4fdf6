package config

const (
	defaultStorageProvider = "sqlite"
	defaultSQLitePath      = "kisanq.db"

	defaultAPIListen = ":8080"

	defaultVectorProvider = "sqlite"
	defaultVectorPath     = "kisanq-vectors.db"

	defaultOllamaTarget = "http://localhost:11434"

	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultGenerationModel   = "gemma:2b"
	defaultGenerationTimeout = 300

	defaultThreshold = 0.5
	defaultTopK      = 3

	defaultWebSearchProvider = "chain"
	defaultMaxResults        = 3
	defaultWebSearchTimeout  = 15

	defaultEventTopic = "kisanq.query.answered"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			Provider:   defaultStorageProvider,
			SQLitePath: defaultSQLitePath,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
			Path:     defaultVectorPath,
		},
		Embedding: EmbeddingConfig{
			Provider:   "ollama",
			Target:     defaultOllamaTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Generation: GenerationConfig{
			Provider:       "ollama",
			Target:         defaultOllamaTarget,
			Model:          defaultGenerationModel,
			TimeoutSeconds: defaultGenerationTimeout,
		},
		Retrieval: RetrievalConfig{
			Threshold: defaultThreshold,
			TopK:      defaultTopK,
		},
		WebSearch: WebSearchConfig{
			Provider:       defaultWebSearchProvider,
			MaxResults:     defaultMaxResults,
			TimeoutSeconds: defaultWebSearchTimeout,
		},
		EventStream: EventStreamConfig{
			Topic: defaultEventTopic,
		},
	}
}
