// Package prompts exposes the prompt snapshot, search and delivery to the
// UI.
package prompts

import (
	"context"
	"fmt"

	"github.com/VladislavRudakoff/PromptTool/internal/shared/types"
	"github.com/VladislavRudakoff/PromptTool/internal/store"
)

// Engine is the slice of the engine surface this provider needs.
type Engine interface {
	Prompts(path string) ([]store.Prompt, error)
	Search(query string) []store.Prompt
	PromptFiles() ([]string, error)
	SavePrompts(path string, prompts []store.Prompt) error
	Deliver(ctx context.Context, name string) error
}

// Provider implements the prompts.* tools.
type Provider struct {
	engine Engine
}

// NewProvider creates a prompts provider.
func NewProvider(engine Engine) *Provider {
	return &Provider{engine: engine}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "prompts",
		Name:         "Prompt Service",
		Description:  "Prompt snapshot access, interactive search and paste delivery",
		Category:     types.CategoryPrompts,
		Capabilities: []string{"list", "search", "files", "save", "deliver"},
		Tools: []types.Tool{
			{
				ID:          "prompts.list",
				Name:        "List Prompts",
				Description: "Prompts of the current snapshot, or a fresh parse of another file",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Optional path confirming or previewing a file", Required: false},
				},
				Returns: "array",
			},
			{
				ID:          "prompts.search",
				Name:        "Search Prompts",
				Description: "Ranked matches for an interactive query",
				Parameters: []types.Parameter{
					{Name: "query", Type: "string", Description: "Query text; empty yields no results", Required: true},
				},
				Returns: "array",
			},
			{
				ID:          "prompts.files",
				Name:        "List Prompt Files",
				Description: "Candidate prompt files for the picker",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "prompts.save",
				Name:        "Save Prompts",
				Description: "Write prompts back to the prompt file",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Target file (default: configured file)", Required: false},
					{Name: "prompts", Type: "array", Description: "Prompts to write", Required: true},
				},
				Returns: "boolean",
			},
			{
				ID:          "prompts.deliver",
				Name:        "Deliver Prompt",
				Description: "Copy the named prompt and paste it into the prior-focus window",
				Parameters: []types.Parameter{
					{Name: "name", Type: "string", Description: "Prompt name", Required: true},
				},
				Returns: "boolean",
			},
		},
	}
}

// Execute runs a prompts operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "prompts.list":
		path, _ := params["path"].(string)
		prompts, err := p.engine.Prompts(path)
		if err != nil {
			return types.Failure(err.Error()), nil
		}
		return types.Success(map[string]interface{}{
			"prompts": promptMaps(prompts),
			"count":   len(prompts),
		}), nil

	case "prompts.search":
		query, ok := params["query"].(string)
		if !ok {
			return types.Failure("query parameter required"), nil
		}
		matches := p.engine.Search(query)
		return types.Success(map[string]interface{}{
			"prompts": promptMaps(matches),
			"count":   len(matches),
		}), nil

	case "prompts.files":
		files, err := p.engine.PromptFiles()
		if err != nil {
			return types.Failure(err.Error()), nil
		}
		return types.Success(map[string]interface{}{"files": files}), nil

	case "prompts.save":
		path, _ := params["path"].(string)
		raw, ok := params["prompts"].([]interface{})
		if !ok {
			return types.Failure("prompts parameter required"), nil
		}
		prompts, err := parsePrompts(raw)
		if err != nil {
			return types.Failure(err.Error()), nil
		}
		if err := p.engine.SavePrompts(path, prompts); err != nil {
			return types.Failure(err.Error()), nil
		}
		return types.Success(map[string]interface{}{"saved": true}), nil

	case "prompts.deliver":
		name, ok := params["name"].(string)
		if !ok || name == "" {
			return types.Failure("name parameter required"), nil
		}
		if err := p.engine.Deliver(ctx, name); err != nil {
			return types.Failure(err.Error()), nil
		}
		return types.Success(map[string]interface{}{"delivered": true}), nil

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}
}

func promptMaps(prompts []store.Prompt) []map[string]interface{} {
	out := make([]map[string]interface{}, len(prompts))
	for i, p := range prompts {
		out[i] = map[string]interface{}{
			"name":       p.Name,
			"content":    p.Content,
			"parameters": p.Parameters,
			"tags":       p.Tags,
		}
	}
	return out
}

func parsePrompts(raw []interface{}) ([]store.Prompt, error) {
	prompts := make([]store.Prompt, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("prompt #%d is not an object", i+1)
		}
		name, _ := entry["name"].(string)
		content, _ := entry["content"].(string)
		if name == "" || content == "" {
			return nil, fmt.Errorf("prompt #%d needs name and content", i+1)
		}
		var tags []string
		if rawTags, ok := entry["tags"].([]interface{}); ok {
			for _, t := range rawTags {
				if s, ok := t.(string); ok {
					tags = append(tags, s)
				}
			}
		}
		prompts = append(prompts, store.Prompt{
			Name:       name,
			Content:    content,
			Parameters: store.ExtractParameters(content),
			Tags:       tags,
		})
	}
	return prompts, nil
}
