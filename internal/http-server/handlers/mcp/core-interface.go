package mcp

import (
	"context"

	"LineBridge/entity"
)

type Core interface {
	SendText(ctx context.Context, to, text string) error
	ListChats() []entity.ChatEntry
}
