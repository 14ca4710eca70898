package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"LineBridge/bot/line"
	"LineBridge/entity"
	"LineBridge/internal/lib/sl"
	"LineBridge/internal/service/approval"
)

type Repository interface {
	LoadEntry(ctx context.Context) (*entity.ConfigEntry, error)
	SaveEntry(ctx context.Context, entry *entity.ConfigEntry) error
	CheckApiKey(ctx context.Context, key string) (string, error)
	GenerateApiKey(ctx context.Context, username string) (string, error)
}

// EventSink receives every bus event published by the webhook.
type EventSink interface {
	Publish(ctx context.Context, event *entity.BusEvent) error
}

// Notifier tells the operator about chats waiting for approval.
type Notifier interface {
	NotifyPending(chat entity.PendingChat)
}

// ApiFactory builds a LINE API client for an access token.
type ApiFactory func(accessToken string) (line.API, error)

type Core struct {
	repo     Repository
	sinks    []EventSink
	notifier Notifier
	queue    *approval.Queue
	newApi   ApiFactory

	// entry is replaced as a whole, never mutated in place
	entry  *entity.ConfigEntry
	mu     sync.RWMutex
	update sync.Mutex

	api      line.API
	apiToken string
	apiMu    sync.Mutex

	authKey string
	keys    map[string]string
	keysMu  sync.RWMutex
	log     *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		queue: approval.NewQueue(),
		keys:  make(map[string]string),
		log:   log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

func (c *Core) SetNotifier(n Notifier) {
	c.notifier = n
}

func (c *Core) AddEventSink(sink EventSink) {
	c.sinks = append(c.sinks, sink)
}

func (c *Core) SetApiFactory(f ApiFactory) {
	c.newApi = f
}

// UseLineClient makes the core talk to the real Messaging API.
func (c *Core) UseLineClient(timeout time.Duration) {
	c.newApi = func(accessToken string) (line.API, error) {
		return line.NewClient(accessToken, timeout, c.log)
	}
}

// Init loads the stored config entry. When the store has none, the given
// credentials seed a new entry.
func (c *Core) Init(ctx context.Context, accessToken, channelSecret string) error {
	if c.repo == nil {
		return fmt.Errorf("repository is not set")
	}

	entry, err := c.repo.LoadEntry(ctx)
	if err != nil {
		return fmt.Errorf("load config entry: %w", err)
	}

	if entry == nil {
		entry = entity.NewConfigEntry(accessToken, channelSecret)
		if entry.Configured() {
			entry.UpdatedAt = time.Now()
			if err = c.repo.SaveEntry(ctx, entry); err != nil {
				return fmt.Errorf("seed config entry: %w", err)
			}
			c.log.Info("config entry seeded from config file")
		} else {
			c.log.Warn("integration is not configured, waiting for setup")
		}
	}
	if entry.AllowedChatIDs == nil {
		entry.AllowedChatIDs = entity.AllowList{}
	}

	c.setEntry(entry)
	c.log.With(
		slog.Int("allowed_chats", len(entry.AllowedChatIDs)),
		sl.Secret("access_token", entry.AccessToken),
	).Info("config entry loaded")
	return nil
}

func (c *Core) snapshot() *entity.ConfigEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entry
}

func (c *Core) setEntry(entry *entity.ConfigEntry) {
	c.mu.Lock()
	c.entry = entry
	c.mu.Unlock()
}

func (c *Core) allowList() entity.AllowList {
	entry := c.snapshot()
	if entry == nil {
		return nil
	}
	return entry.AllowedChatIDs
}

// updateEntry applies fn to a copy of the current entry, saves the copy and
// swaps it in. Nothing changes in memory when fn or the save fails.
func (c *Core) updateEntry(ctx context.Context, fn func(entry *entity.ConfigEntry) error) error {
	c.update.Lock()
	defer c.update.Unlock()

	current := c.snapshot()
	if !current.Configured() {
		return entity.ErrNotConfigured
	}

	next := current.Copy()
	if err := fn(next); err != nil {
		return err
	}
	next.UpdatedAt = time.Now()

	if err := c.repo.SaveEntry(ctx, next); err != nil {
		return fmt.Errorf("save config entry: %w", err)
	}
	c.setEntry(next)
	return nil
}
