// Command slackbridge is an MCP server bridging an AI agent to Slack:
// nine tools over JSON-RPC on stdio, each wrapping a Slack Web API call,
// plus a blocking wait-for-reply loop for synchronous human input.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"slackbridge/internal/config"
	"slackbridge/internal/logging"
	"slackbridge/internal/mcp"
	"slackbridge/internal/replywait"
	"slackbridge/internal/slack"
	"slackbridge/internal/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "slackbridge: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	client := slack.NewClient(cfg.BotToken, slack.WithLogger(logger))
	engine := replywait.New(client, replywait.WithEngineLogger(logger))

	registry := tools.NewRegistry(logger)
	for _, t := range []tools.Tool{
		tools.NewReadMessagesTool(client, cfg.ChannelID),
		tools.NewPostMessageTool(client, cfg.ChannelID),
		tools.NewPostToThreadTool(client, cfg.ChannelID),
		tools.NewReadThreadTool(client, cfg.ChannelID),
		tools.NewWaitForReplyTool(engine, cfg.ChannelID),
		tools.NewGetFileTool(client),
		tools.NewDownloadFileTool(client),
		tools.NewListChannelsTool(client),
		tools.NewSearchMessagesTool(client, cfg.ChannelID),
	} {
		if err := registry.Register(t); err != nil {
			fmt.Fprintf(os.Stderr, "slackbridge: %v\n", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(registry, mcp.WithServerLogger(logger))
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
