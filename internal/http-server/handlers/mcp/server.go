package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"LineBridge/entity"
	"LineBridge/internal/lib/sl"
)

type SendTextInput struct {
	To   string `json:"to" jsonschema:"display name of an allowed chat"`
	Text string `json:"text" jsonschema:"message text"`
}

type SendTextOutput struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type ListChatsInput struct{}

type ListChatsOutput struct {
	Chats []entity.ChatEntry `json:"chats"`
}

// NewServer exposes the bridge to MCP clients.
func NewServer(log *slog.Logger, handler Core) *mcp.Server {
	logger := log.With(sl.Module("mcp"))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "line-bridge",
		Version: "v1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "line_send_text",
		Description: "Send a text message to an allowed LINE chat by its display name.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SendTextInput) (*mcp.CallToolResult, SendTextOutput, error) {
		if err := handler.SendText(ctx, input.To, input.Text); err != nil {
			logger.With(slog.String("to", input.To), sl.Err(err)).Warn("line_send_text")
			return nil, SendTextOutput{Success: false, Error: err.Error()}, nil
		}
		return nil, SendTextOutput{Success: true}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "line_list_chats",
		Description: "List the LINE chats messages can be sent to, with their display names.",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ ListChatsInput) (*mcp.CallToolResult, ListChatsOutput, error) {
		return nil, ListChatsOutput{Chats: handler.ListChats()}, nil
	})

	return server
}

// Handler serves the MCP server over streamable HTTP.
func Handler(log *slog.Logger, handler Core) http.Handler {
	server := NewServer(log, handler)
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
