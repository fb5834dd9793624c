package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"translink/event"
)

// writeTestPNG writes a 2x2 image whose top-left pixel is red and the rest
// black, for orientation checks.
func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadPublishesProgressAndLoaded(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "textures", "a.png"))
	writeTestPNG(t, filepath.Join(dir, "textures", "b.png"))

	bus := event.NewBus()
	var loaded []string
	var fractions []float64
	bus.Subscribe(event.TopicAssetLoaded, func(p any) {
		loaded = append(loaded, p.(*Asset).Name)
	})
	bus.Subscribe(event.TopicAssetsProgress, func(p any) {
		fractions = append(fractions, p.(Progress).Fraction)
	})
	initialized := false
	bus.Subscribe(event.TopicAssetsInitialized, func(any) { initialized = true })

	pipe := NewPipeline(bus, dir)
	res := pipe.Load([]ManifestEntry{
		{Kind: KindTexture, Name: "a", Path: "textures/a.png"},
		{Kind: KindTexture, Name: "b", Path: "textures/b.png"},
	})

	if !res.OK {
		t.Fatalf("Load failed: %s (%v)", res.Reason, res.Err)
	}
	if !initialized {
		t.Error("assets:initialized not published")
	}
	if len(loaded) != 2 {
		t.Errorf("asset:loaded fired %d times, want 2", len(loaded))
	}
	if len(fractions) != 2 || fractions[len(fractions)-1] != 1.0 {
		t.Errorf("progress fractions = %v, want final 1.0", fractions)
	}
	if !pipe.Has(KindTexture, "a") || !pipe.Has(KindTexture, "b") {
		t.Error("loaded textures missing from registry")
	}
}

func TestLoadMandatoryFailureIsFatal(t *testing.T) {
	bus := event.NewBus()
	diagnostic := false
	bus.Subscribe(event.TopicAssetsError, func(any) { diagnostic = true })
	initialized := false
	bus.Subscribe(event.TopicAssetsInitialized, func(any) { initialized = true })

	pipe := NewPipeline(bus, t.TempDir())
	res := pipe.Load([]ManifestEntry{
		{Kind: KindTexture, Name: "missing", Path: "textures/missing.png"},
	})

	if res.OK {
		t.Fatal("Load succeeded with a missing mandatory asset")
	}
	if !diagnostic {
		t.Error("assets:error diagnostic not published")
	}
	if initialized {
		t.Error("assets:initialized published despite fatal failure")
	}
}

func TestLoadOptionalFailureDegrades(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "textures", "a.png"))

	bus := event.NewBus()
	var fractions []float64
	bus.Subscribe(event.TopicAssetsProgress, func(p any) {
		fractions = append(fractions, p.(Progress).Fraction)
	})
	pipe := NewPipeline(bus, dir)
	res := pipe.Load([]ManifestEntry{
		{Kind: KindTexture, Name: "a", Path: "textures/a.png"},
		{Kind: KindAudio, Name: "uiClick", Path: "audio/missing.mp3", Optional: true},
	})

	if !res.OK {
		t.Fatalf("optional failure made Load fatal: %s", res.Reason)
	}
	if pipe.Has(KindAudio, "uiClick") {
		t.Error("failed optional asset present in registry")
	}
	if pipe.Audio("uiClick") != nil {
		t.Error("Audio lookup for failed clip should be nil")
	}
	// Failures still count toward completion; a progress bar fed by these
	// events must reach the end.
	if len(fractions) != 2 || fractions[len(fractions)-1] != 1.0 {
		t.Errorf("progress fractions = %v, want final 1.0", fractions)
	}
}

func TestTextureFlipY(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "red.png")
	writeTestPNG(t, path)

	plain, err := LoadTexture("plain", path, TextureConfig{})
	if err != nil {
		t.Fatal(err)
	}
	flipped, err := LoadTexture("flipped", path, TextureConfig{FlipY: true})
	if err != nil {
		t.Fatal(err)
	}

	// Red pixel sits at (0,0) unflipped and at (0,1) flipped.
	if plain.Pixels[0] != 255 {
		t.Error("unflipped texture: expected red at row 0")
	}
	rowStride := flipped.Width * 4
	if flipped.Pixels[rowStride] != 255 {
		t.Error("flipped texture: expected red at row 1")
	}
}

func TestGetUnknownReturnsNil(t *testing.T) {
	pipe := NewPipeline(event.NewBus(), t.TempDir())
	if pipe.Get(KindModel, "nope") != nil {
		t.Error("Get on empty registry should return nil")
	}
	if pipe.Texture("nope") != nil {
		t.Error("Texture on empty registry should return nil")
	}
}
