package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"LineBridge/entity"
	"LineBridge/internal/lib/sl"
)

func (c *Core) ChannelSecret() string {
	entry := c.snapshot()
	if entry == nil {
		return ""
	}
	return entry.ChannelSecret
}

func (c *Core) IsAllowed(chatID string) bool {
	return c.allowList().Contains(chatID)
}

// RecordPending queues a chat for approval and notifies the operator the first time it shows up.
func (c *Core) RecordPending(chat entity.PendingChat) {
	if !c.queue.Record(chat) {
		return
	}
	c.log.With(
		slog.String("chat_id", chat.ChatID),
		slog.String("source", chat.SourceType),
	).Info("chat waiting for approval")

	if c.notifier != nil {
		go c.notifier.NotifyPending(chat)
	}
}

func (c *Core) ListChats() []entity.ChatEntry {
	return c.allowList().Entries()
}

func (c *Core) ListPending() []entity.PendingChat {
	return c.queue.List()
}

// ApproveChat adds a pending chat to the allow-list under name.
func (c *Core) ApproveChat(ctx context.Context, chatID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.ErrNameRequired
	}
	if _, ok := c.queue.Get(chatID); !ok {
		return entity.ErrNotPending
	}

	err := c.updateEntry(ctx, func(entry *entity.ConfigEntry) error {
		if _, exists := entry.AllowedChatIDs[name]; exists {
			return fmt.Errorf("%w: '%s'", entity.ErrDuplicateName, name)
		}
		entry.AllowedChatIDs[name] = entity.AllowedChat{ChatID: chatID}
		return nil
	})
	if err != nil {
		return err
	}

	c.queue.Remove(chatID)
	c.log.With(
		slog.String("chat_id", chatID),
		slog.String("name", name),
	).Info("chat approved")
	return nil
}

// RemoveChats drops the named allow-list entries. Unknown names are ignored.
func (c *Core) RemoveChats(ctx context.Context, names []string) error {
	present := make([]string, 0, len(names))
	allowed := c.allowList()
	for _, name := range names {
		if _, ok := allowed[name]; ok {
			present = append(present, name)
		}
	}
	if len(present) == 0 {
		return nil
	}

	err := c.updateEntry(ctx, func(entry *entity.ConfigEntry) error {
		entry.AllowedChatIDs = entry.AllowedChatIDs.Without(names)
		return nil
	})
	if err != nil {
		return err
	}

	c.log.With(slog.Any("names", present)).Info("chats removed")
	return nil
}

// Setup validates new credentials against the Messaging API and stores them.
// The allow-list survives a credential change.
func (c *Core) Setup(ctx context.Context, accessToken, channelSecret string) error {
	if c.newApi == nil {
		return fmt.Errorf("line api factory is not set")
	}

	api, err := c.newApi(accessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidAuth, err)
	}
	if _, err = api.QuotaConsumption(ctx); err != nil {
		c.log.With(sl.Err(err)).Warn("access token validation failed")
		return fmt.Errorf("%w: %v", entity.ErrInvalidAuth, err)
	}

	c.update.Lock()
	defer c.update.Unlock()

	var next *entity.ConfigEntry
	if current := c.snapshot(); current != nil {
		next = current.Copy()
		next.AccessToken = accessToken
		next.ChannelSecret = channelSecret
	} else {
		next = entity.NewConfigEntry(accessToken, channelSecret)
	}
	if next.AllowedChatIDs == nil {
		next.AllowedChatIDs = entity.AllowList{}
	}
	next.UpdatedAt = time.Now()

	if err = c.repo.SaveEntry(ctx, next); err != nil {
		return fmt.Errorf("save config entry: %w", err)
	}
	c.setEntry(next)
	c.cacheApi(accessToken, api)

	c.log.With(sl.Secret("access_token", accessToken)).Info("integration configured")
	return nil
}

// Reload rereads the entry from the store and forgets pending chats.
func (c *Core) Reload(ctx context.Context) error {
	c.update.Lock()
	defer c.update.Unlock()

	entry, err := c.repo.LoadEntry(ctx)
	if err != nil {
		return fmt.Errorf("load config entry: %w", err)
	}
	if entry != nil && entry.AllowedChatIDs == nil {
		entry.AllowedChatIDs = entity.AllowList{}
	}

	c.setEntry(entry)
	c.cacheApi("", nil)
	c.queue.Clear()

	c.log.Info("config entry reloaded")
	return nil
}
