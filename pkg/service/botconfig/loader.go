package botconfig

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jscott-dev/meetmebot/pkg/adapter"
	"github.com/jscott-dev/meetmebot/pkg/model"
	"github.com/jscott-dev/meetmebot/pkg/utils/logging"
)

// DefaultObjectKey is the well-known settings object in the knowledge-base
// namespace. A separate admin surface writes it; this loader only reads.
const DefaultObjectKey = "knowledge-base/bot-settings.json"

const defaultFetchTimeout = 30 * time.Second

// Loader fetches the bot persona settings from blob storage. Any failure is
// absorbed: Load always returns a usable BotSettings.
type Loader struct {
	storage      adapter.Storage
	key          string
	fetchTimeout time.Duration
}

type Option func(*Loader)

// WithObjectKey overrides the settings object key
func WithObjectKey(key string) Option {
	return func(l *Loader) {
		l.key = key
	}
}

// WithFetchTimeout bounds the settings fetch
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.fetchTimeout = d
	}
}

// New creates a settings loader. storage may be nil when no bucket is
// configured; Load then falls back to defaults.
func New(storage adapter.Storage, opts ...Option) *Loader {
	l := &Loader{
		storage:      storage,
		key:          DefaultObjectKey,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the bot settings: the static defaults overlaid with whatever
// fields the remote settings object provides. Missing bucket, missing object,
// fetch timeout, and decode errors all degrade to the defaults with a warning
// log.
func (l *Loader) Load(ctx context.Context) model.BotSettings {
	logger := logging.From(ctx)
	settings := model.DefaultBotSettings()

	if l.storage == nil {
		logger.Warn("bot settings bucket is not configured, using defaults")
		return settings
	}

	ctx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	reader, err := l.storage.Get(ctx, l.key)
	if err != nil {
		logger.Warn("failed to fetch bot settings, using defaults", "key", l.key, "error", err)
		return settings
	}
	defer reader.Close()

	var patch model.BotSettingsPatch
	if err := json.NewDecoder(reader).Decode(&patch); err != nil {
		logger.Warn("failed to decode bot settings, using defaults", "key", l.key, "error", err)
		return settings
	}

	return settings.Merge(patch)
}
