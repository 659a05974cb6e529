package fixer

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/yaklabco/gophpfix/pkg/config"
)

// Registry holds all registered fixers.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Fixer
	byName  map[string]Fixer
	aliases map[string]string // alias -> canonical ID
}

// NewRegistry creates an empty fixer registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]Fixer),
		byName:  make(map[string]Fixer),
		aliases: make(map[string]string),
	}
}

// Register adds a fixer to the registry.
// A fixer with the same ID is replaced.
func (r *Registry) Register(f Fixer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[f.ID()] = f
	r.byName[f.Name()] = f
}

// RegisterAlias maps an alias to a canonical fixer ID, for instance the
// snake_case names used in PHP-CS-Fixer configurations.
func (r *Registry) RegisterAlias(alias, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = id
}

// Get retrieves a fixer by ID, then by name.
func (r *Registry) Get(key string) (Fixer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.byID[key]; ok {
		return f, true
	}
	f, ok := r.byName[key]
	return f, ok
}

// GetByID retrieves a fixer by its ID only.
func (r *Registry) GetByID(id string) (Fixer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[id]
	return f, ok
}

// Resolve returns the canonical ID and fixer for a key, which may be an ID,
// a name or an alias. IDs match case-insensitively.
func (r *Registry) Resolve(key string) (string, Fixer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.byID[strings.ToUpper(key)]; ok {
		return f.ID(), f, true
	}
	if f, ok := r.byName[key]; ok {
		return f.ID(), f, true
	}
	if id, ok := r.aliases[key]; ok {
		if f, ok := r.byID[id]; ok {
			return f.ID(), f, true
		}
	}
	return "", nil, false
}

// Aliases returns the aliases registered for id in sorted order.
func (r *Registry) Aliases(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []string
	for alias, target := range r.aliases {
		if target == id {
			result = append(result, alias)
		}
	}
	slices.Sort(result)
	return result
}

// Fixers returns all registered fixers sorted by ID.
func (r *Registry) Fixers() []Fixer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Fixer, 0, len(r.byID))
	for _, f := range r.byID {
		result = append(result, f)
	}
	slices.SortFunc(result, func(a, b Fixer) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return result
}

// IDs returns all registered fixer IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]string, 0, len(r.byID))
	for id := range r.byID {
		result = append(result, id)
	}
	slices.Sort(result)
	return result
}

// RuleInfos describes every fixer for configuration templates.
func (r *Registry) RuleInfos() []config.RuleInfo {
	fixers := r.Fixers()
	infos := make([]config.RuleInfo, 0, len(fixers))
	for _, f := range fixers {
		infos = append(infos, config.RuleInfo{
			ID:          f.ID(),
			Name:        f.Name(),
			Description: f.Description(),
			Enabled:     f.DefaultEnabled(),
			Severity:    f.DefaultSeverity(),
			Tags:        f.Tags(),
			Risky:       f.IsRisky(),
		})
	}
	return infos
}

// DefaultRegistry is the global registry for built-in fixers.
// Fixers register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for fixer registration
var DefaultRegistry = NewRegistry()

//nolint:gochecknoinits // Wires the template generator to the built-in fixers.
func init() {
	config.DefaultRuleInfoProvider = DefaultRegistry.RuleInfos
}
