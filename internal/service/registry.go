// Package service exposes the engine to the presentation layer as a set of
// discoverable providers, each publishing tools invoked by ID.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/VladislavRudakoff/PromptTool/internal/shared/types"
)

// Provider interface for tool implementations.
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error)
}

// Registry manages provider discovery and tool dispatch.
type Registry struct {
	services sync.Map
}

// NewRegistry creates a new service registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a provider.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	r.services.Store(def.ID, provider)
	return nil
}

// Get retrieves a provider by service ID.
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all registered service definitions.
func (r *Registry) List() []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		services = append(services, value.(Provider).Definition())
		return true
	})
	return services
}

// Execute routes a tool invocation to the owning provider. Tool IDs are
// "<service>.<operation>", e.g. "prompts.search".
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}) (*types.Result, error) {
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok {
		return types.Failure(fmt.Sprintf("malformed tool ID: %s", toolID)), nil
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return types.Failure(fmt.Sprintf("unknown service: %s", serviceID)), nil
	}

	return provider.Execute(ctx, toolID, params)
}
