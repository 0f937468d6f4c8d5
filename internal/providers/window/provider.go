// Package window exposes popup window control and the OS file dialog.
package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/VladislavRudakoff/PromptTool/internal/shared/types"
	"github.com/VladislavRudakoff/PromptTool/internal/system"
)

// Engine is the slice of the engine surface this provider needs.
type Engine interface {
	MinimizeWindow()
	OpenPromptFileDialog(ctx context.Context) (string, error)
}

// Provider implements the window.* tools.
type Provider struct {
	engine Engine
}

// NewProvider creates a window provider.
func NewProvider(engine Engine) *Provider {
	return &Provider{engine: engine}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "window",
		Name:         "Window Service",
		Description:  "Popup window visibility and OS file dialogs",
		Category:     types.CategoryWindow,
		Capabilities: []string{"minimize", "open_file_dialog"},
		Tools: []types.Tool{
			{
				ID:          "window.minimize",
				Name:        "Minimize Window",
				Description: "Hide the popup; no-op when already hidden",
				Parameters:  []types.Parameter{},
				Returns:     "boolean",
			},
			{
				ID:          "window.open_file_dialog",
				Name:        "Open Prompt File Dialog",
				Description: "OS picker for a TOML prompt file",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a window operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "window.minimize":
		p.engine.MinimizeWindow()
		return types.Success(map[string]interface{}{"hidden": true}), nil

	case "window.open_file_dialog":
		path, err := p.engine.OpenPromptFileDialog(ctx)
		if err != nil {
			if errors.Is(err, system.ErrCancelled) {
				return types.Success(map[string]interface{}{"cancelled": true}), nil
			}
			return types.Failure(err.Error()), nil
		}
		return types.Success(map[string]interface{}{"path": path}), nil

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}
