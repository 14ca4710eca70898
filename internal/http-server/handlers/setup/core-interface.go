package setup

import "context"

type Core interface {
	Setup(ctx context.Context, accessToken, channelSecret string) error
	Reload(ctx context.Context) error
}
