// Package settings exposes persisted user settings to the UI.
package settings

import (
	"context"
	"fmt"

	"github.com/VladislavRudakoff/PromptTool/internal/config"
	"github.com/VladislavRudakoff/PromptTool/internal/shared/types"
)

// Engine is the slice of the engine surface this provider needs.
type Engine interface {
	Settings() config.Settings
	SetPromptFilePath(path string) error
	SetHotkey(binding string) error
}

// Provider implements the config.* tools.
type Provider struct {
	engine Engine
}

// NewProvider creates a settings provider.
func NewProvider(engine Engine) *Provider {
	return &Provider{engine: engine}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "config",
		Name:         "Settings Service",
		Description:  "Persisted launcher settings: prompt file path and global hotkey",
		Category:     types.CategoryConfig,
		Capabilities: []string{"get", "set_prompt_file", "set_hotkey"},
		Tools: []types.Tool{
			{
				ID:          "config.get",
				Name:        "Get Settings",
				Description: "Current persisted settings",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "config.set_prompt_file",
				Name:        "Set Prompt File",
				Description: "Change the prompt file path; triggers a store reload",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Path to a readable prompt file", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "config.set_hotkey",
				Name:        "Set Hotkey",
				Description: "Change the global hotkey; triggers re-registration",
				Parameters: []types.Parameter{
					{Name: "binding", Type: "string", Description: "Binding descriptor, e.g. ctrl+shift+p", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a settings operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "config.get":
		s := p.engine.Settings()
		return types.Success(map[string]interface{}{
			"prompt_file_path": s.PromptFilePath,
			"hotkey":           s.Hotkey,
		}), nil

	case "config.set_prompt_file":
		path, ok := params["path"].(string)
		if !ok || path == "" {
			return types.Failure("path parameter required"), nil
		}
		if err := p.engine.SetPromptFilePath(path); err != nil {
			return types.Failure(err.Error()), nil
		}
		return types.Success(map[string]interface{}{"updated": true}), nil

	case "config.set_hotkey":
		binding, ok := params["binding"].(string)
		if !ok {
			return types.Failure("binding parameter required"), nil
		}
		if err := p.engine.SetHotkey(binding); err != nil {
			return types.Failure(err.Error()), nil
		}
		return types.Success(map[string]interface{}{"updated": true}), nil

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}
