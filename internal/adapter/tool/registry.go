package tool

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"pagepilot/internal/domain"
)

type registryEntry struct {
	tool     Tool
	compiled *jsonschema.Schema
}

// Registry holds named tools with their compiled parameter schemas.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
		logger:  logger,
	}
}

// Register adds a tool. Duplicate names are a configuration error. The
// parameter schema is compiled here; a schema that fails to compile disables
// validation for that tool rather than blocking registration.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Schema().Name
	if _, exists := r.entries[name]; exists {
		return domain.NewDomainError("registry.register", domain.ErrDuplicateTool, name)
	}

	entry := registryEntry{tool: t}
	if params := t.Schema().Parameters; len(params) > 0 && string(params) != "null" {
		compiled, err := jsonschema.NewCompiler().Compile([]byte(params))
		if err != nil {
			r.logger.Warn("schema validation disabled for tool", "tool", name, "error", err)
		} else {
			entry.compiled = compiled
		}
	}

	r.entries[name] = entry
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, domain.NewDomainError("registry.get", domain.ErrToolNotFound, name)
	}
	return e.tool, nil
}

// Validate checks raw arguments against the tool's compiled schema.
func (r *Registry) Validate(name string, raw json.RawMessage) error {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return domain.NewDomainError("registry.validate", domain.ErrToolNotFound, name)
	}
	if e.compiled == nil {
		return nil
	}

	var data any = map[string]any{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &data); err != nil {
			return domain.NewDomainError("registry.validate", domain.ErrInvalidInput, err.Error())
		}
	}
	if result := e.compiled.Validate(data); !result.IsValid() {
		return domain.NewDomainError("registry.validate", domain.ErrInvalidInput, result.Error())
	}
	return nil
}

// Schemas returns every registered tool schema, sorted by name so transports
// expose a stable listing.
func (r *Registry) Schemas() []domain.ToolSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]domain.ToolSchema, 0, len(r.entries))
	for _, e := range r.entries {
		schemas = append(schemas, e.tool.Schema())
	}
	sort.Slice(schemas, func(i, j int) bool { return schemas[i].Name < schemas[j].Name })
	return schemas
}
