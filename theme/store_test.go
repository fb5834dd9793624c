package theme

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"translink/event"
)

func newTestStore(t *testing.T) (*Store, *event.Bus, string) {
	t.Helper()
	bus := event.NewBus()
	dir := t.TempDir()
	return NewStore(bus, dir), bus, dir
}

func TestDefaultCurrentAtStartup(t *testing.T) {
	s, _, _ := newTestStore(t)
	cur := s.Current()
	if cur.Name != DefaultThemeName {
		t.Fatalf("current = %q, want %q", cur.Name, DefaultThemeName)
	}
	if cur.UI["background"] != "#050D15" {
		t.Errorf("default background = %q, want #050D15", cur.UI["background"])
	}
}

func TestValidateRejectsIncompleteRecords(t *testing.T) {
	cases := []struct {
		name  string
		theme *Theme
	}{
		{"nil", nil},
		{"no name", &Theme{Version: 1, UI: map[string]string{"background": "#000", "text": "#fff", "accent": "#123456"}}},
		{"no version", &Theme{Name: "x", UI: map[string]string{"background": "#000", "text": "#fff", "accent": "#123456"}}},
		{"no ui", &Theme{Name: "x", Version: 1}},
		{"missing accent", &Theme{Name: "x", Version: 1, UI: map[string]string{"background": "#000", "text": "#fff"}}},
		{"bad literal", &Theme{Name: "x", Version: 1, UI: map[string]string{"background": "navy", "text": "#fff", "accent": "#123456"}}},
	}
	for _, tc := range cases {
		if err := Validate(tc.theme); err == nil {
			t.Errorf("%s: Validate accepted an invalid record", tc.name)
		}
	}
}

func TestUpdateColorPersistsAndPublishesOnce(t *testing.T) {
	s, bus, dir := newTestStore(t)
	published := 0
	bus.Subscribe(event.TopicThemeChanged, func(any) { published++ })

	if err := s.UpdateColor("ui", "accent", "#ff00aa"); err != nil {
		t.Fatalf("UpdateColor: %v", err)
	}
	if got := s.Current().UI["accent"]; got != "#ff00aa" {
		t.Errorf("accent = %q, want #ff00aa", got)
	}
	if published != 1 {
		t.Errorf("theme:changed fired %d times, want 1", published)
	}

	data, err := os.ReadFile(filepath.Join(dir, StorageKey+".json"))
	if err != nil {
		t.Fatalf("persisted record not written: %v", err)
	}
	var persisted Theme
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted record malformed: %v", err)
	}
	if persisted.UI["accent"] != "#ff00aa" {
		t.Errorf("persisted accent = %q, want #ff00aa", persisted.UI["accent"])
	}
}

func TestUpdateColorUnknownSectionOrKey(t *testing.T) {
	s, bus, _ := newTestStore(t)
	published := 0
	bus.Subscribe(event.TopicThemeChanged, func(any) { published++ })

	if err := s.UpdateColor("nope", "background", "#112233"); err == nil {
		t.Error("unknown section accepted")
	}
	if err := s.UpdateColor("ui", "nope", "#112233"); err == nil {
		t.Error("unknown key accepted")
	}
	if err := s.UpdateColor("ui", "background", "not-a-color"); err == nil {
		t.Error("malformed literal accepted")
	}
	if published != 0 {
		t.Errorf("failed edits published %d events, want 0", published)
	}
}

func TestSetCurrentEqualRecordIsNoOp(t *testing.T) {
	s, bus, _ := newTestStore(t)
	published := 0
	bus.Subscribe(event.TopicThemeChanged, func(any) { published++ })

	if err := s.SetCurrent(DefaultThemeName); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if published != 0 {
		t.Errorf("setting the already-current theme published %d events, want 0", published)
	}

	if err := s.SetCurrent("Ember"); err != nil {
		t.Fatalf("SetCurrent(Ember): %v", err)
	}
	if published != 1 {
		t.Errorf("published %d events after a real switch, want 1", published)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _, _ := newTestStore(t)
	if err := s.UpdateColor("threeD", KeyFresnel, "#123456"); err != nil {
		t.Fatalf("UpdateColor: %v", err)
	}
	before := s.Current().Clone()

	data, err := s.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	s2, _, _ := newTestStore(t)
	if err := s2.Import(data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !s2.Current().Equal(before) {
		t.Error("round-tripped record differs from the exported one")
	}
}

func TestImportInvalidDocumentRejected(t *testing.T) {
	s, bus, _ := newTestStore(t)
	diagnostics := 0
	bus.Subscribe(event.TopicThemeError, func(any) { diagnostics++ })
	before := s.Current().Clone()

	if err := s.Import([]byte(`{"name":"x"}`)); err == nil {
		t.Fatal("Import accepted an invalid document")
	}
	if !s.Current().Equal(before) {
		t.Error("current theme changed after a rejected import")
	}
	if diagnostics != 1 {
		t.Errorf("published %d validation diagnostics, want 1", diagnostics)
	}
}

func TestLoadPersistedRestoresRecord(t *testing.T) {
	bus := event.NewBus()
	dir := t.TempDir()

	s := NewStore(bus, dir)
	if err := s.SetCurrent("Moss"); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	s2 := NewStore(bus, dir)
	s2.LoadPersisted()
	if s2.Current().Name != "Moss" {
		t.Errorf("restored current = %q, want Moss", s2.Current().Name)
	}
}

func TestLoadPersistedDiscardsMalformed(t *testing.T) {
	bus := event.NewBus()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, StorageKey+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(bus, dir)
	s.LoadPersisted()
	if s.Current().Name != DefaultThemeName {
		t.Errorf("current = %q after malformed storage, want default", s.Current().Name)
	}
}

func TestExportFilename(t *testing.T) {
	cases := map[string]string{
		"Translink Dark": "translink-dark-theme.json",
		"  Moss  ":       "moss-theme.json",
		"":               "untitled-theme.json",
	}
	for name, want := range cases {
		tm := &Theme{Name: name}
		if got := tm.ExportFilename(); got != want {
			t.Errorf("ExportFilename(%q) = %q, want %q", name, got, want)
		}
	}
}
