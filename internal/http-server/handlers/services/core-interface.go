package services

import (
	"context"

	"LineBridge/entity"
)

type Core interface {
	SendMessage(ctx context.Context, req *entity.SendMessageRequest) error
	SendButtonMessage(ctx context.Context, req *entity.ButtonMessageRequest) error
	SendConfirmMessage(ctx context.Context, req *entity.ConfirmMessageRequest) error
	Quota(ctx context.Context) (int64, error)
}
