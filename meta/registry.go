package meta

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/anybox/errors"
)

// Registry maps qualified type names to their metadata. Types can also be
// found by the short name reflect prints for them ("meta.Account") while
// that name is unambiguous.
type Registry struct {
	types  map[string]*Type
	short  map[string][]*Type
	byType map[reflect.Type]*Type
	mu     sync.RWMutex
}

var defaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[string]*Type),
		short:  make(map[string][]*Type),
		byType: make(map[reflect.Type]*Type),
	}
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds the type of v to the default registry.
func Register(v any) (*Type, error) {
	return defaultRegistry.Register(v)
}

// Lookup finds a type in the default registry.
func Lookup(name string) (*Type, error) {
	return defaultRegistry.Lookup(name)
}

// MustLookup is like Lookup but panics when the type is missing.
func MustLookup(name string) *Type {
	return defaultRegistry.MustLookup(name)
}

// Names lists the default registry.
func Names() []string {
	return defaultRegistry.Names()
}

// Register adds the struct type of v, which may be a T or *T. Registering
// the same type again returns the existing entry.
func (r *Registry) Register(v any) (*Type, error) {
	if v == nil {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "cannot register nil")
	}
	rt := reflect.TypeOf(v)
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return r.RegisterType(rt)
}

// RegisterType adds rt, which must be a named struct type.
func (r *Registry) RegisterType(rt reflect.Type) (*Type, error) {
	if rt.Kind() != reflect.Struct {
		return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
			Stored(rt.String()).
			Detail("only struct types can be registered").
			Build()
	}
	if rt.Name() == "" {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "anonymous struct types cannot be registered")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.byType[rt]; ok {
		return t, nil
	}

	name := QualifiedName(rt)
	if _, ok := r.types[name]; ok {
		return nil, errors.Duplicate(errors.PhaseRegistry, "type", name)
	}

	t := newType(name, rt)
	r.types[name] = t
	r.byType[rt] = t
	if short := rt.String(); short != name {
		r.short[short] = append(r.short[short], t)
	}

	Logger().Debug("registered type",
		zap.String("name", name),
		zap.Int("fields", len(t.Fields)),
		zap.Int("methods", len(t.Methods)))
	return t, nil
}

// Lookup finds a type by qualified name, or by short name when exactly one
// registered type answers to it.
func (r *Registry) Lookup(name string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.types[name]; ok {
		return t, nil
	}

	switch matches := r.short[name]; len(matches) {
	case 0:
		return nil, errors.NotFound(errors.PhaseRegistry, "type", name)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, t := range matches {
			names[i] = t.Name
		}
		sort.Strings(names)
		return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidInput).
			Detail("type %q is ambiguous: %s", name, strings.Join(names, ", ")).
			Build()
	}
}

// MustLookup is like Lookup but panics when the type is missing.
func (r *Registry) MustLookup(name string) *Type {
	t, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}

// TypeOf returns the entry for rt, if registered.
func (r *Registry) TypeOf(rt reflect.Type) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byType[rt]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
