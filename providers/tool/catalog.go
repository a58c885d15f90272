package tool

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrToolNotFound is returned by Catalog.Call for an unknown tool name.
var ErrToolNotFound = errors.New("tool not found")

// Catalog is a thread-safe registry of tools keyed by case-insensitive name.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]GenericTool
}

// NewCatalog returns a catalog holding tools. A later tool replaces an
// earlier one with the same name.
func NewCatalog(tools ...GenericTool) *Catalog {
	c := &Catalog{tools: make(map[string]GenericTool, len(tools))}
	c.AddTools(tools...)
	return c
}

// AddTools registers tools under their lowercased ToolInfo().Name.
func (c *Catalog) AddTools(tools ...GenericTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		c.tools[strings.ToLower(t.ToolInfo().Name)] = t
	}
}

// Get returns the tool registered under name.
func (c *Catalog) Get(name string) (GenericTool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[strings.ToLower(name)]
	return t, ok
}

// Has reports whether a tool is registered under name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Remove unregisters name and reports whether it was present.
func (c *Catalog) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := strings.ToLower(name)
	if _, ok := c.tools[key]; !ok {
		return false
	}
	delete(c.tools, key)
	return true
}

// Size returns the number of registered tools.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Infos returns the metadata of every tool, sorted by name.
func (c *Catalog) Infos() []Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]Info, 0, len(c.tools))
	for _, key := range slices.Sorted(maps.Keys(c.tools)) {
		infos = append(infos, c.tools[key].ToolInfo())
	}
	return infos
}

// Call runs the named tool with inputJSON.
func (c *Catalog) Call(ctx context.Context, name, inputJSON string) (string, error) {
	t, ok := c.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrToolNotFound, name)
	}
	return t.Call(ctx, inputJSON)
}
