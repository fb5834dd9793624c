package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"translink/core"
	"translink/event"
)

// StorageKey names the persisted document; the on-disk file is
// "<StorageKey>.json" under the store's directory.
const StorageKey = "translink-theme"

// Store owns the theme registry and the current record. Every mutation
// persists the current record and publishes event.TopicThemeChanged with
// the new *Theme as payload. Persistence failures degrade to in-memory
// operation with a warning; they never abort initialization.
type Store struct {
	bus     *event.Bus
	dir     string // persistence directory; "" disables persistence
	order   []string
	themes  map[string]*Theme
	current *Theme
}

// NewStore builds a store with the preset library registered and the
// default preset current. dir is where the current record is persisted;
// pass "" to keep the store memory-only (tests, storage-less systems).
func NewStore(bus *event.Bus, dir string) *Store {
	s := &Store{
		bus:    bus,
		dir:    dir,
		themes: make(map[string]*Theme),
	}
	for _, t := range Presets() {
		if err := s.Register(t); err != nil {
			core.Logger().Warn("theme: preset rejected", "name", t.Name, "error", err)
		}
	}
	s.current = s.themes[DefaultThemeName].Clone()
	return s
}

// LoadPersisted restores the persisted record, if any. Incompatible or
// malformed documents are discarded with a warning and the default stays
// current. Call once at startup, before the first frame.
func (s *Store) LoadPersisted() {
	if s.dir == "" {
		return
	}
	data, err := os.ReadFile(s.path())
	if err != nil {
		if !os.IsNotExist(err) {
			core.Logger().Warn("theme: reading persisted record", "error", err)
		}
		return
	}
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		core.Logger().Warn("theme: persisted record malformed, using default", "error", err)
		return
	}
	if err := Validate(&t); err != nil {
		core.Logger().Warn("theme: persisted record invalid, using default", "error", err)
		return
	}
	s.themes[t.Name] = t.Clone()
	if !contains(s.order, t.Name) {
		s.order = append(s.order, t.Name)
	}
	s.current = &t
}

// Current returns the active record. Callers must treat it as read-only;
// edits go through UpdateColor or SetCurrent.
func (s *Store) Current() *Theme { return s.current }

// Names lists registered themes in registration order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Get returns a registered theme by name, or nil.
func (s *Store) Get(name string) *Theme { return s.themes[name] }

// Register validates and adds a theme to the registry. Re-registering a
// name replaces the stored record.
func (s *Store) Register(t *Theme) error {
	if err := Validate(t); err != nil {
		return err
	}
	if _, exists := s.themes[t.Name]; !exists {
		s.order = append(s.order, t.Name)
	}
	s.themes[t.Name] = t.Clone()
	return nil
}

// SetCurrent makes the named registered theme current, persists it, and
// publishes theme:changed. Setting a record equal to the current one is a
// no-op: no persistence write, no publication.
func (s *Store) SetCurrent(name string) error {
	t, ok := s.themes[name]
	if !ok {
		return fmt.Errorf("theme: unknown theme %q", name)
	}
	return s.apply(t.Clone())
}

// SetCurrentRecord registers the given record (validating it) and makes it
// current. This is the themeOrName overload of SetCurrent.
func (s *Store) SetCurrentRecord(t *Theme) error {
	if err := s.Register(t); err != nil {
		return err
	}
	return s.apply(t.Clone())
}

func (s *Store) apply(t *Theme) error {
	if t.Equal(s.current) {
		return nil
	}
	s.current = t
	s.persist()
	s.bus.Publish(event.TopicThemeChanged, s.current)
	return nil
}

// UpdateColor edits a single token of the current record in place, then
// persists and publishes. Unknown sections or keys return an error without
// mutating anything; malformed color literals likewise.
func (s *Store) UpdateColor(section, key, value string) error {
	if !core.IsColorLiteral(value) {
		return fmt.Errorf("theme: invalid color literal %q", value)
	}
	var m map[string]string
	switch section {
	case SectionUI:
		m = s.current.UI
	case SectionThreeD:
		m = s.current.ThreeD
	default:
		return fmt.Errorf("theme: unknown section %q", section)
	}
	if _, ok := m[key]; !ok {
		return fmt.Errorf("theme: unknown %s token %q", section, key)
	}
	if m[key] == value {
		return nil
	}
	m[key] = value
	s.persist()
	s.bus.Publish(event.TopicThemeChanged, s.current)
	return nil
}

// ResetToDefault restores the factory preset.
func (s *Store) ResetToDefault() {
	s.apply(Default())
}

// Export serializes the current record as indented UTF-8 JSON.
func (s *Store) Export() ([]byte, error) {
	return json.MarshalIndent(s.current, "", "  ")
}

// Import parses a user-supplied theme document, revalidates it, registers
// it, and makes it current. Rejections leave the current theme unchanged
// and publish a theme:error diagnostic.
func (s *Store) Import(data []byte) error {
	var t Theme
	if err := json.Unmarshal(data, &t); err != nil {
		err = fmt.Errorf("theme: import parse: %w", err)
		s.bus.Publish(event.TopicThemeError, err.Error())
		return err
	}
	if err := Validate(&t); err != nil {
		err = fmt.Errorf("theme: import rejected: %w", err)
		s.bus.Publish(event.TopicThemeError, err.Error())
		return err
	}
	if err := s.Register(&t); err != nil {
		return err
	}
	return s.apply(t.Clone())
}

func (s *Store) path() string {
	return filepath.Join(s.dir, StorageKey+".json")
}

// persist writes the current record. Quota/permission failures are warn
// level only: the showcase keeps running with the in-memory theme.
func (s *Store) persist() {
	if s.dir == "" {
		return
	}
	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		core.Logger().Warn("theme: serialize for persistence", "error", err)
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		core.Logger().Warn("theme: create persistence dir", "error", err)
		return
	}
	if err := os.WriteFile(s.path(), data, 0o644); err != nil {
		core.Logger().Warn("theme: persist current record", "error", err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
