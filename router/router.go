// Package router maps pathnames to page ids and sequences page hand-off:
// page:leave → scene transition → page:enter, one page at a time.
package router

import (
	"strings"

	"translink/core"
	"translink/event"
	"translink/scene"
)

// State is the per-page lifecycle: idle → loading → ready → leaving → idle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateLeaving
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateLeaving:
		return "leaving"
	}
	return "unknown"
}

// Resolve maps a pathname onto a page id. Unknown paths fall back to the
// homepage rather than erroring; a bad link should never strand the user.
func Resolve(path string) core.Page {
	path = strings.TrimSuffix(strings.TrimSpace(path), "/")
	switch path {
	case "", "/index.html":
		return core.PageHomepage
	case "/specs":
		return core.PageSpecs
	case "/preorder":
		return core.PagePreorder
	case "/settings":
		return core.PageSettings
	case "/fwa":
		return core.PageFWA
	}
	return core.PageHomepage
}

// Router drives the scene controller from navigation requests and owns the
// page state machine.
type Router struct {
	bus    *event.Bus
	scenes *scene.Controller

	current core.Page
	state   State
	pending core.Page
}

func New(bus *event.Bus, scenes *scene.Controller) *Router {
	r := &Router{bus: bus, scenes: scenes, state: StateIdle}
	bus.Subscribe(event.TopicSceneTransitionComplete, func(payload any) {
		page, ok := payload.(core.Page)
		if !ok || r.state != StateLeaving || page != r.pending {
			return
		}
		r.current = page
		r.state = StateReady
		r.bus.Publish(event.TopicPageEnter, page)
	})
	return r
}

// Start activates the initial page with no transition: the cold-start
// path. Publishes page:enter once the scene is up.
func (r *Router) Start(page core.Page) error {
	r.state = StateLoading
	if _, err := r.scenes.Activate(page); err != nil {
		r.state = StateIdle
		return err
	}
	r.current = page
	r.state = StateReady
	r.bus.Publish(event.TopicPageEnter, page)
	return nil
}

// Navigate resolves a pathname and heads there.
func (r *Router) Navigate(path string) {
	r.Go(Resolve(path))
}

// Go requests a page change. Requests to the current page, or while a
// hand-off is already running, are dropped; the latest completed
// transition wins. An unknown page id is a programmer error: it logs and
// substitutes the homepage so the state machine never commits to a
// departure the scene layer will refuse.
func (r *Router) Go(page core.Page) {
	if !r.scenes.Knows(page) {
		core.Logger().Error("router: unknown page, substituting homepage", "page", string(page))
		page = core.PageHomepage
	}
	if page == r.current && r.state == StateReady {
		return
	}
	if r.state == StateLeaving || r.scenes.Transitioning() {
		return
	}

	from := r.current
	r.pending = page
	r.state = StateLeaving
	r.bus.Publish(event.TopicPageLeave, from)
	r.scenes.TransitionTo(page)
}

// Current returns the presented page.
func (r *Router) Current() core.Page { return r.current }

// CurrentState returns the page state machine's position.
func (r *Router) CurrentState() State { return r.state }
