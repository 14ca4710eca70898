package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrParseFailure       = errors.New("webhook body could not be parsed")
	ErrNotConfigured      = errors.New("integration is not configured")
	ErrInvalidAuth        = errors.New("access token rejected by LINE")
	ErrDuplicateName      = errors.New("display name already in use")
	ErrNameRequired       = errors.New("display name is required")
	ErrNotPending         = errors.New("chat is not waiting for approval")
	ErrUnsupportedMessage = errors.New("unsupported message")
)

// UnknownSender is returned when a webhook event comes from a chat outside the allow-list.
type UnknownSender struct {
	ChatID string
}

func (e *UnknownSender) Error() string {
	return fmt.Sprintf("chat '%s' is not allowed", e.ChatID)
}

// ChatIdNotFound is returned when a display name has no allow-list entry.
type ChatIdNotFound struct {
	Name         string
	AllowedNames []string
}

func (e *ChatIdNotFound) Error() string {
	return fmt.Sprintf("chat_id not found for '%s', allowed names are: [%s]", e.Name, strings.Join(e.AllowedNames, ", "))
}
