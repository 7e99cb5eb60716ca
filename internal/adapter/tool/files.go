package tool

import (
	"context"
	"fmt"
	"strings"

	"pagepilot/internal/domain"
)

type uploadParams struct {
	elementParams
	Paths []string `json:"paths"`
}

// NewUploadFileTool sets local file paths on a file input element.
func NewUploadFileTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "upload_file",
		Description: "Attach local files to a file input element from the page snapshot",
		Kind:        domain.ToolKindDestructive,
		Parameters: elementSchema(`
		"paths": {"type": "array", "items": {"type": "string"}, "description": "Absolute paths of the files to attach"}`),
	}, func(ctx context.Context, exec *Executor, p uploadParams) (*domain.ToolResult, error) {
		if err := RequireField("ref", p.Ref); err != nil {
			return nil, domain.NewDomainError("tool.upload_file", domain.ErrInvalidInput, err.Error())
		}
		if len(p.Paths) == 0 {
			return nil, domain.NewDomainError("tool.upload_file", domain.ErrInvalidInput, "'paths' is required")
		}
		loc, err := exec.ResolveRef(p.Ref)
		if err != nil {
			return nil, err
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Upload %s to %q (%s)", strings.Join(p.Paths, ", "), p.Element, loc)},
			Effect: &domain.Effect{
				Op: "upload",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					return nil, d.SetFiles(ctx, loc, p.Paths)
				},
			},
			CaptureSnapshot: true,
		}, nil
	})
}
