// Package input turns SDL events into game actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Action is something the player can ask for.
type Action int

const (
	ActionNone Action = iota
	ActionSteerLeft
	ActionSteerRight
	ActionCameraFirstPerson
	ActionCameraThirdPerson
	ActionCameraStatic
	ActionToggleMute
	ActionScreenshot
	ActionToggleFullscreen
	ActionQuit
	actionCount
)

func (a Action) String() string {
	switch a {
	case ActionSteerLeft:
		return "steer-left"
	case ActionSteerRight:
		return "steer-right"
	case ActionCameraFirstPerson:
		return "camera-first-person"
	case ActionCameraThirdPerson:
		return "camera-third-person"
	case ActionCameraStatic:
		return "camera-static"
	case ActionToggleMute:
		return "toggle-mute"
	case ActionScreenshot:
		return "screenshot"
	case ActionToggleFullscreen:
		return "toggle-fullscreen"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Controls is the read side of input the game needs.
type Controls interface {
	// Held reports whether the action's key is down.
	Held(a Action) bool
	// Pressed reports whether the action was triggered this frame.
	Pressed(a Action) bool
}

// Bindings maps scancodes to actions.
type Bindings map[sdl.Scancode]Action

// DefaultBindings: arrows or A/D steer, 1/2/3 pick a camera, M mutes, Escape quits.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_LEFT:   ActionSteerLeft,
		sdl.SCANCODE_A:      ActionSteerLeft,
		sdl.SCANCODE_RIGHT:  ActionSteerRight,
		sdl.SCANCODE_D:      ActionSteerRight,
		sdl.SCANCODE_1:      ActionCameraFirstPerson,
		sdl.SCANCODE_2:      ActionCameraThirdPerson,
		sdl.SCANCODE_3:      ActionCameraStatic,
		sdl.SCANCODE_M:      ActionToggleMute,
		sdl.SCANCODE_F11:    ActionToggleFullscreen,
		sdl.SCANCODE_F12:    ActionScreenshot,
		sdl.SCANCODE_ESCAPE: ActionQuit,
	}
}

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int
}

// Input tracks held and freshly pressed actions.
type Input struct {
	bindings Bindings
	events   []Event
	held     [actionCount]bool
	pressed  [actionCount]bool
	quit     bool
}

// New creates an input handler. A nil bindings map uses DefaultBindings.
func New(bindings Bindings) *Input {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Input{
		bindings: bindings,
		events:   make([]Event, 0, 16),
	}
}

// Update polls SDL and applies every event.
// Returns true if the game should quit.
func (i *Input) Update() bool {
	i.BeginFrame()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.Apply(Event{Type: EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.Apply(Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)})
			}

		case *sdl.KeyboardEvent:
			ev := Event{Key: e.Keysym.Scancode, Repeat: e.Repeat != 0}
			if e.Type == sdl.KEYDOWN {
				ev.Type = EventKeyDown
			} else {
				ev.Type = EventKeyUp
			}
			i.Apply(ev)
		}
	}

	return i.quit
}

// BeginFrame clears per-frame state. Held keys persist.
func (i *Input) BeginFrame() {
	i.events = i.events[:0]
	i.pressed = [actionCount]bool{}
}

// Apply feeds one event into the tracker.
func (i *Input) Apply(e Event) {
	i.events = append(i.events, e)

	switch e.Type {
	case EventQuit:
		i.quit = true
	case EventKeyDown:
		a := i.bindings[e.Key]
		if a == ActionNone {
			return
		}
		if !e.Repeat {
			i.pressed[a] = true
		}
		i.held[a] = true
		if a == ActionQuit {
			i.quit = true
		}
	case EventKeyUp:
		if a := i.bindings[e.Key]; a != ActionNone {
			i.held[a] = false
		}
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Resized returns the last resize of this frame, if any.
func (i *Input) Resized() (width, height int, ok bool) {
	for j := len(i.events) - 1; j >= 0; j-- {
		if e := i.events[j]; e.Type == EventWindowResize {
			return e.Width, e.Height, true
		}
	}
	return 0, 0, false
}

// Held reports whether an action's key is down.
func (i *Input) Held(a Action) bool {
	return a > ActionNone && a < actionCount && i.held[a]
}

// Pressed reports whether an action was triggered this frame.
func (i *Input) Pressed(a Action) bool {
	return a > ActionNone && a < actionCount && i.pressed[a]
}

// QuitRequested reports whether a quit was seen.
func (i *Input) QuitRequested() bool {
	return i.quit
}

// Scripted is a Controls driven by code, for headless runs and tests.
type Scripted struct {
	held    [actionCount]bool
	pressed [actionCount]bool
}

// Hold sets whether an action is held.
func (s *Scripted) Hold(a Action, down bool) {
	if a > ActionNone && a < actionCount {
		s.held[a] = down
	}
}

// Press triggers an action for the current frame.
func (s *Scripted) Press(a Action) {
	if a > ActionNone && a < actionCount {
		s.pressed[a] = true
	}
}

// EndFrame clears pressed actions.
func (s *Scripted) EndFrame() {
	s.pressed = [actionCount]bool{}
}

// Held reports whether the action is held.
func (s *Scripted) Held(a Action) bool {
	return a > ActionNone && a < actionCount && s.held[a]
}

// Pressed reports whether the action was pressed this frame.
func (s *Scripted) Pressed(a Action) bool {
	return a > ActionNone && a < actionCount && s.pressed[a]
}
