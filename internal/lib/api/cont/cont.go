package cont

import (
	"context"

	"LineBridge/entity"
)

type ctxKey string

const userKey ctxKey = "user"

func PutUser(c context.Context, user *entity.UserAuth) context.Context {
	return context.WithValue(c, userKey, user)
}

func GetUser(c context.Context) *entity.UserAuth {
	user, ok := c.Value(userKey).(*entity.UserAuth)
	if !ok {
		return nil
	}
	return user
}
