package app

import (
	"log/slog"

	"translink/core"
	"translink/event"
	"translink/materials"
	"translink/scene"
	"translink/theme"
)

// Updater is the single bridge from theme records to everything a theme
// touches: the token table, scene backgrounds, and material uniforms. It
// only ever consumes theme:changed; republishing the event from here
// would loop the bus.
type Updater struct {
	bus       *event.Bus
	tokens    *TokenTable
	scenes    *scene.Controller
	materials *materials.System

	sub     *event.Subscription
	applied int
}

func NewUpdater(bus *event.Bus, tokens *TokenTable, scenes *scene.Controller, mats *materials.System) *Updater {
	u := &Updater{bus: bus, tokens: tokens, scenes: scenes, materials: mats}
	u.sub = bus.Subscribe(event.TopicThemeChanged, u.onThemeChanged)
	return u
}

func (u *Updater) onThemeChanged(payload any) {
	t, ok := payload.(*theme.Theme)
	if !ok {
		core.Logger().Warn("theme:changed carried an unexpected payload",
			slog.Any("payload", payload))
		return
	}
	u.Apply(t)
}

// Apply pushes a theme everywhere in one pass. Token writes land first so
// any widget repainting off the next frame sees the finished table, then
// scene backgrounds and uniforms update in place before that frame draws.
func (u *Updater) Apply(t *theme.Theme) {
	u.tokens.Apply(t)
	if u.scenes != nil {
		u.scenes.ApplyTheme(t)
	}
	if u.materials != nil {
		u.materials.ApplyTheme(t)
	}
	u.applied++
	core.Logger().Debug("theme applied", slog.String("theme", t.Name))
}

// AppliedCount reports how many themes have been fanned out.
func (u *Updater) AppliedCount() int { return u.applied }

// Close detaches the updater from the bus.
func (u *Updater) Close() {
	if u.sub != nil {
		u.bus.Unsubscribe(u.sub)
		u.sub = nil
	}
}
