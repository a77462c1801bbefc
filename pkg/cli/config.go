package cli

import (
	"context"
	"os"

	"github.com/jscott-dev/meetmebot/pkg/adapter"
	"github.com/jscott-dev/meetmebot/pkg/repository"
	"github.com/jscott-dev/meetmebot/pkg/service/botconfig"
	"github.com/jscott-dev/meetmebot/pkg/service/knowledge"
	"github.com/jscott-dev/meetmebot/pkg/tool"
	"github.com/jscott-dev/meetmebot/pkg/tool/portfolio"
	"github.com/jscott-dev/meetmebot/pkg/usecase/chat"
	portfolioUC "github.com/jscott-dev/meetmebot/pkg/usecase/portfolio"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	logLevel string

	// Repository
	project  string
	database string

	// Adapters
	geminiProject   string
	geminiLocation  string
	generativeModel string
	embeddingModel  string
	bucket          string

	// Blob object keys
	settingsKey  string
	knowledgeKey string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("MEETMEBOT_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for bot settings and the knowledge base",
			Sources:     cli.EnvVars("MEETMEBOT_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Generative model name",
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.generativeModel,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Embedding model name",
			Sources:     cli.EnvVars("GEMINI_EMBEDDING_MODEL"),
			Destination: &cfg.embeddingModel,
		},
	}
}

// knowledgeFlags returns flags for the blob object keys
func knowledgeFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "settings-key",
			Usage:       "Object key of the bot settings JSON",
			Value:       botconfig.DefaultObjectKey,
			Sources:     cli.EnvVars("MEETMEBOT_SETTINGS_KEY"),
			Destination: &cfg.settingsKey,
		},
		&cli.StringFlag{
			Name:        "knowledge-key",
			Usage:       "Object key of the knowledge base embeddings JSON",
			Value:       knowledge.DefaultObjectKey,
			Sources:     cli.EnvVars("MEETMEBOT_KNOWLEDGE_KEY"),
			Destination: &cfg.knowledgeKey,
		},
	}
}

// setupLogger installs the global logger at the configured level
func (cfg *config) setupLogger() {
	logging.SetDefault(logging.New(cfg.logLevel, os.Stderr))
}

// fileConfig mirrors the flag values that may come from a YAML file. Flag
// and environment values win over the file.
type fileConfig struct {
	Project         string `yaml:"project"`
	Database        string `yaml:"database"`
	Bucket          string `yaml:"bucket"`
	GeminiProject   string `yaml:"geminiProject"`
	GeminiLocation  string `yaml:"geminiLocation"`
	GenerativeModel string `yaml:"generativeModel"`
	EmbeddingModel  string `yaml:"embeddingModel"`
	SettingsKey     string `yaml:"settingsKey"`
	KnowledgeKey    string `yaml:"knowledgeKey"`
}

// applyFile fills unset config values from a YAML file
func (cfg *config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}

	merge := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
		}
	}
	merge(&cfg.project, fc.Project)
	merge(&cfg.database, fc.Database)
	merge(&cfg.bucket, fc.Bucket)
	merge(&cfg.geminiProject, fc.GeminiProject)
	merge(&cfg.geminiLocation, fc.GeminiLocation)
	merge(&cfg.generativeModel, fc.GenerativeModel)
	merge(&cfg.embeddingModel, fc.EmbeddingModel)
	merge(&cfg.settingsKey, fc.SettingsKey)
	merge(&cfg.knowledgeKey, fc.KnowledgeKey)

	return nil
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		logging.Default().Warn("no project configured, using in-memory repository")
		return repository.NewMemory(), nil
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	var opts []adapter.GeminiOption
	if cfg.generativeModel != "" {
		opts = append(opts, adapter.WithGenerativeModel(cfg.generativeModel))
	}
	if cfg.embeddingModel != "" {
		opts = append(opts, adapter.WithEmbeddingModel(cfg.embeddingModel))
	}

	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
}

// newStorage creates a new Storage adapter instance. The bucket is optional:
// without one the bot falls back to its built-in settings and an empty
// knowledge base.
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, nil
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// newChatUseCase wires the full chat stack: settings loader, knowledge
// search, portfolio tools, and the orchestrator
func (cfg *config) newChatUseCase(ctx context.Context, repo repository.Repository) (*chat.UseCase, *tool.Registry, error) {
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, nil, err
	}

	storage, err := cfg.newStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	loader := botconfig.New(storage, botconfig.WithObjectKey(cfg.settingsKey))
	cache := knowledge.NewCache(storage, knowledge.WithObjectKey(cfg.knowledgeKey))
	search := knowledge.NewService(cache, gemini)

	registry := tool.New(
		portfolio.NewSearchKnowledge(search),
		portfolio.NewAboutMe(),
		portfolio.NewListProjects(repo),
	)

	return chat.New(gemini, loader, registry), registry, nil
}

// newPortfolioUseCase wires the project and visit management use case
func (cfg *config) newPortfolioUseCase(repo repository.Repository) *portfolioUC.UseCase {
	return portfolioUC.New(repo)
}
