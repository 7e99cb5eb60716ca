package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"pagepilot/internal/domain"
)

type pdfParams struct {
	Path string `json:"path"`
}

// NewSavePDFTool prints the current page to a PDF file.
func NewSavePDFTool() Tool {
	return NewTool(domain.ToolSchema{
		Name:        "save_pdf",
		Description: "Print the current page to a PDF file",
		Kind:        domain.ToolKindReadOnly,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {"type": "string", "description": "File path to write the PDF to"}
			},
			"required": ["path"]
		}`),
	}, func(ctx context.Context, exec *Executor, p pdfParams) (*domain.ToolResult, error) {
		if err := RequireField("path", p.Path); err != nil {
			return nil, domain.NewDomainError("tool.save_pdf", domain.ErrInvalidInput, err.Error())
		}

		return &domain.ToolResult{
			Code: []string{fmt.Sprintf("# Save page as PDF to %s", p.Path)},
			Effect: &domain.Effect{
				Op: "print_pdf",
				Run: func(ctx context.Context) (any, error) {
					d, err := exec.Driver(ctx)
					if err != nil {
						return nil, err
					}
					data, err := d.PrintPDF(ctx)
					if err != nil {
						return nil, err
					}
					if err := os.WriteFile(p.Path, data, 0600); err != nil {
						return nil, domain.WrapOp("pdf write", err)
					}
					return fmt.Sprintf("PDF saved to %s (%d bytes)", p.Path, len(data)), nil
				},
			},
		}, nil
	})
}
