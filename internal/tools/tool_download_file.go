package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DownloadFileTool downloads a Slack file to the local filesystem,
// authorizing with the bridge's bot token.
type DownloadFileTool struct {
	api SlackAPI
}

// NewDownloadFileTool creates a DownloadFileTool.
func NewDownloadFileTool(api SlackAPI) *DownloadFileTool {
	return &DownloadFileTool{api: api}
}

type downloadFileArgs struct {
	FileID   string `json:"file_id"`
	SavePath string `json:"save_path"`
}

type downloadFileResult struct {
	Success  bool   `json:"success"`
	Name     string `json:"name"`
	SavePath string `json:"save_path"`
	Size     int64  `json:"size"`
}

func (t *DownloadFileTool) Name() string { return "download_file" }

func (t *DownloadFileTool) Description() string {
	return "Download a Slack file to a local path"
}

func (t *DownloadFileTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"file_id": {
				"type": "string",
				"description": "Slack file ID (e.g. F12345678)"
			},
			"save_path": {
				"type": "string",
				"description": "Local path to write the file to; missing directories are created"
			}
		},
		"required": ["file_id", "save_path"]
	}`)
}

func (t *DownloadFileTool) Execute(ctx context.Context, call ToolCall) (ToolResult, error) {
	var args downloadFileArgs
	if err := json.Unmarshal(call.Arguments, &args); err != nil {
		return ToolResult{Content: fmt.Sprintf("invalid arguments: %v", err), IsError: true}, nil
	}

	if args.FileID == "" {
		return ToolResult{Content: "file_id is required", IsError: true}, nil
	}
	if args.SavePath == "" {
		return ToolResult{Content: "save_path is required", IsError: true}, nil
	}

	file, err := t.api.FileInfo(ctx, args.FileID)
	if err != nil {
		return ToolResult{}, err
	}

	url := file.URLPrivateDownload
	if url == "" {
		url = file.URLPrivate
	}
	if url == "" {
		return ToolResult{Content: fmt.Sprintf("File %s has no downloadable URL.", args.FileID)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(args.SavePath), 0o755); err != nil {
		return ToolResult{}, fmt.Errorf("create directories for %s: %w", args.SavePath, err)
	}

	out, err := os.Create(args.SavePath)
	if err != nil {
		return ToolResult{}, fmt.Errorf("create %s: %w", args.SavePath, err)
	}
	defer out.Close()

	if err := t.api.Download(ctx, url, out); err != nil {
		return ToolResult{}, err
	}

	info, err := out.Stat()
	if err != nil {
		return ToolResult{}, fmt.Errorf("stat %s: %w", args.SavePath, err)
	}

	return textResult(downloadFileResult{
		Success:  true,
		Name:     file.Name,
		SavePath: args.SavePath,
		Size:     info.Size(),
	})
}
