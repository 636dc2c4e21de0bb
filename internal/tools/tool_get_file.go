package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// GetFileTool fetches metadata for a file shared in Slack.
type GetFileTool struct {
	api SlackAPI
}

// NewGetFileTool creates a GetFileTool.
func NewGetFileTool(api SlackAPI) *GetFileTool {
	return &GetFileTool{api: api}
}

type getFileArgs struct {
	FileID string `json:"file_id"`
}

type getFileResult struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Title              string `json:"title"`
	Mimetype           string `json:"mimetype"`
	Size               int    `json:"size"`
	URLPrivate         string `json:"url_private"`
	URLPrivateDownload string `json:"url_private_download"`
	Created            string `json:"created"`
	User               string `json:"user"`
}

func (t *GetFileTool) Name() string { return "get_file" }

func (t *GetFileTool) Description() string {
	return "Get metadata for a file shared in Slack"
}

func (t *GetFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_id": {
				"type": "string",
				"description": "Slack file ID (e.g. F12345678)"
			}
		},
		"required": ["file_id"]
	}`)
}

func (t *GetFileTool) Execute(ctx context.Context, call ToolCall) (ToolResult, error) {
	var args getFileArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return ToolResult{Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}, nil
	}

	if args.FileID == "" {
		return ToolResult{Content: "file_id is required", IsError: true}, nil
	}

	file, err := t.api.FileInfo(ctx, args.FileID)
	if err != nil {
		return ToolResult{}, err
	}

	return textResult(getFileResult{
		ID:                 file.ID,
		Name:               file.Name,
		Title:              file.Title,
		Mimetype:           file.Mimetype,
		Size:               file.Size,
		URLPrivate:         file.URLPrivate,
		URLPrivateDownload: file.URLPrivateDownload,
		Created:            file.Created.Time().UTC().Format(time.RFC3339),
		User:               file.User,
	})
}
