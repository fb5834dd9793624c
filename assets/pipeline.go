package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"translink/core"
	"translink/event"
)

// Progress is the payload of assets:progress events.
type Progress struct {
	Loaded   int
	Total    int
	Fraction float64
}

// Pipeline loads the core manifest in parallel and owns every decoded
// resource until Dispose. Lookups after Init are read-only and unlocked;
// decode goroutines hand results back over a channel so bus events fire on
// the caller's goroutine.
type Pipeline struct {
	bus     *event.Bus
	baseDir string

	registry map[Kind]map[string]*Asset
}

func NewPipeline(bus *event.Bus, baseDir string) *Pipeline {
	p := &Pipeline{
		bus:      bus,
		baseDir:  baseDir,
		registry: make(map[Kind]map[string]*Asset),
	}
	for _, k := range []Kind{KindModel, KindTexture, KindHDRI, KindAudio} {
		p.registry[k] = make(map[string]*Asset)
	}
	return p
}

// Init loads the core manifest. Any mandatory asset failing to decode
// fails initialization; optional assets log and degrade.
func (p *Pipeline) Init() core.InitResult {
	return p.Load(CoreManifest())
}

type loadOutcome struct {
	entry ManifestEntry
	asset *Asset
	err   error
}

// Load decodes every entry in parallel, applying per-asset configuration
// on completion. Per-asset events publish from the calling goroutine, in
// completion order: asset:loaded and assets:progress per entry, then
// assets:initialized once all are in.
func (p *Pipeline) Load(entries []ManifestEntry) core.InitResult {
	if len(entries) == 0 {
		p.bus.Publish(event.TopicAssetsInitialized, nil)
		return core.InitOK()
	}

	results := make(chan loadOutcome, len(entries))
	var wg sync.WaitGroup
	for _, entry := range entries {
		wg.Add(1)
		go func(e ManifestEntry) {
			defer wg.Done()
			asset, err := p.decode(e)
			results <- loadOutcome{entry: e, asset: asset, err: err}
		}(entry)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	loaded := 0
	var fatal error
	for outcome := range results {
		loaded++
		if outcome.err != nil {
			if outcome.entry.Optional {
				core.Logger().Warn("assets: optional asset failed, feature degraded",
					"kind", outcome.entry.Kind.String(), "name", outcome.entry.Name, "error", outcome.err)
			} else if fatal == nil {
				fatal = fmt.Errorf("assets: core asset %s/%s: %w",
					outcome.entry.Kind, outcome.entry.Name, outcome.err)
			}
		} else {
			p.register(outcome.asset)
			p.bus.Publish(event.TopicAssetLoaded, outcome.asset)
		}
		// Progress counts settled outcomes, failures included, so the
		// fraction always reaches 1.0 when every entry is accounted for.
		p.bus.Publish(event.TopicAssetsProgress, Progress{
			Loaded:   loaded,
			Total:    len(entries),
			Fraction: float64(loaded) / float64(len(entries)),
		})
	}

	if fatal != nil {
		core.Logger().Error("assets: initialization failed", "error", fatal)
		p.bus.Publish(event.TopicAssetsError, fatal.Error())
		return core.InitFailed("core asset failed to decode", fatal)
	}
	p.bus.Publish(event.TopicAssetsInitialized, nil)
	return core.InitOK()
}

func (p *Pipeline) decode(e ManifestEntry) (*Asset, error) {
	path := filepath.Join(p.baseDir, filepath.FromSlash(e.Path))
	asset := &Asset{Kind: e.Kind, Name: e.Name, Path: e.Path, Optional: e.Optional}

	var err error
	switch e.Kind {
	case KindModel:
		asset.Model, err = LoadModel(e.Name, path)
	case KindTexture:
		asset.Texture, err = LoadTexture(e.Name, path, e.Texture)
	case KindHDRI:
		asset.HDRI, err = LoadHDRI(e.Name, path)
	case KindAudio:
		asset.Audio, err = LoadAudio(e.Name, path)
	default:
		err = fmt.Errorf("unknown asset kind %d", e.Kind)
	}
	if err != nil {
		return nil, err
	}
	return asset, nil
}

func (p *Pipeline) register(a *Asset) {
	if _, dup := p.registry[a.Kind][a.Name]; dup {
		core.Logger().Warn("assets: duplicate name overwrites earlier asset",
			"kind", a.Kind.String(), "name", a.Name)
	}
	p.registry[a.Kind][a.Name] = a
}

// Get returns the decoded asset or nil.
func (p *Pipeline) Get(kind Kind, name string) *Asset {
	return p.registry[kind][name]
}

func (p *Pipeline) Has(kind Kind, name string) bool {
	return p.registry[kind][name] != nil
}

// GetAll enumerates the loaded assets of one kind.
func (p *Pipeline) GetAll(kind Kind) []*Asset {
	out := make([]*Asset, 0, len(p.registry[kind]))
	for _, a := range p.registry[kind] {
		out = append(out, a)
	}
	return out
}

// Texture is a convenience lookup returning the decoded payload directly.
func (p *Pipeline) Texture(name string) *Texture {
	if a := p.Get(KindTexture, name); a != nil {
		return a.Texture
	}
	return nil
}

func (p *Pipeline) Model(name string) *Model {
	if a := p.Get(KindModel, name); a != nil {
		return a.Model
	}
	return nil
}

func (p *Pipeline) HDRI(name string) *HDRI {
	if a := p.Get(KindHDRI, name); a != nil {
		return a.HDRI
	}
	return nil
}

func (p *Pipeline) Audio(name string) *Audio {
	if a := p.Get(KindAudio, name); a != nil {
		return a.Audio
	}
	return nil
}

// Dispose drops every decoded resource. GPU-side texture objects are
// released by the renderer, which tracks upload IDs.
func (p *Pipeline) Dispose() {
	for k := range p.registry {
		p.registry[k] = make(map[string]*Asset)
	}
}
