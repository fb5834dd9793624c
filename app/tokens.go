package app

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"translink/theme"
)

// TokenTable mirrors the active theme as named design tokens, the way a
// style sheet would expose custom properties. UI entries publish as
// --color-<key>, 3D entries as --color-3d-<key>, and the theme's name as
// data-theme. Overlay widgets read from here instead of holding their own
// copy of the theme.
type TokenTable struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewTokenTable() *TokenTable {
	return &TokenTable{values: make(map[string]string)}
}

// Apply replaces the table's contents with tokens derived from t. All
// writes land before Apply returns, so a reader never observes a theme
// half applied.
func (tt *TokenTable) Apply(t *theme.Theme) {
	next := make(map[string]string, len(t.UI)+len(t.ThreeD)+1)
	next["data-theme"] = t.Name
	for key, value := range t.UI {
		next["--color-"+key] = value
	}
	for key, value := range t.ThreeD {
		next["--color-3d-"+key] = value
	}

	tt.mu.Lock()
	tt.values = next
	tt.mu.Unlock()
}

// Get returns the token's value, or "" when absent.
func (tt *TokenTable) Get(name string) string {
	tt.mu.RLock()
	defer tt.mu.RUnlock()
	return tt.values[name]
}

// Names returns every token name in sorted order.
func (tt *TokenTable) Names() []string {
	tt.mu.RLock()
	names := make([]string, 0, len(tt.values))
	for name := range tt.values {
		names = append(names, name)
	}
	tt.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Dump renders the table as name: value lines, for the debug overlay.
func (tt *TokenTable) Dump() string {
	var b strings.Builder
	for _, name := range tt.Names() {
		fmt.Fprintf(&b, "%s: %s\n", name, tt.Get(name))
	}
	return b.String()
}
