// Package input collects SDL2 events into per-frame viewer input.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Frame is the input gathered during one Poll.
type Frame struct {
	Quit bool

	// Keys pressed this frame, in arrival order. Auto-repeat is included
	// so held arrow keys keep stepping.
	Keys []sdl.Scancode

	// Mouse movement while the left button was held.
	DragX, DragY float32

	// Vertical wheel motion, positive away from the user.
	Wheel float32

	// Resized is set when the window changed size; Width and Height hold
	// the new size.
	Resized       bool
	Width, Height int
}

// Pressed reports whether key was pressed this frame.
func (f *Frame) Pressed(key sdl.Scancode) bool {
	for _, k := range f.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Input tracks button state across frames.
type Input struct {
	frame    Frame
	dragging bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		frame: Frame{Keys: make([]sdl.Scancode, 0, 8)},
	}
}

// Poll drains the SDL event queue and returns this frame's input.
// The returned Frame is reused by the next Poll.
func (i *Input) Poll() *Frame {
	f := &i.frame
	keys := f.Keys[:0]
	*f = Frame{Keys: keys}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.handle(event)
	}
	return f
}

func (i *Input) handle(event sdl.Event) {
	f := &i.frame
	switch e := event.(type) {
	case *sdl.QuitEvent:
		f.Quit = true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			f.Resized = true
			f.Width = int(e.Data1)
			f.Height = int(e.Data2)
		}

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			f.Keys = append(f.Keys, e.Keysym.Scancode)
		}

	case *sdl.MouseButtonEvent:
		if e.Button == sdl.BUTTON_LEFT {
			i.dragging = e.Type == sdl.MOUSEBUTTONDOWN
		}

	case *sdl.MouseMotionEvent:
		if i.dragging {
			f.DragX += float32(e.XRel)
			f.DragY += float32(e.YRel)
		}

	case *sdl.MouseWheelEvent:
		f.Wheel += float32(e.Y)
	}
}
