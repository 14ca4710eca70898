package chats

import (
	"context"

	"LineBridge/entity"
)

type Core interface {
	ListChats() []entity.ChatEntry
	ListPending() []entity.PendingChat
	ApproveChat(ctx context.Context, chatID, name string) error
	RemoveChats(ctx context.Context, names []string) error
}
