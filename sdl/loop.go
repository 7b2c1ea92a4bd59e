package sdl

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/zeromicro/go-zero/core/logx"
	"uk.ac.bris.cs/juliaset/julia"
)

// Run shows the computed field and logs every other event.
// It keeps reading events until the channel is closed, then waits for the window to be closed with q, Escape or the close button.
func Run(events <-chan julia.Event, maxIterations int) {
	var w *Window
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				if w == nil {
					return
				}
				events = nil // Only window events from now on
				continue
			}
			computed, isField := event.(julia.FieldComputed)
			if !isField {
				logx.Info(event.String())
				continue
			}
			logx.Info(computed.String())
			var err error
			w, err = open(computed.Grid, maxIterations)
			if err != nil {
				logx.Errorf("Cannot open viewer: %v", err)
			}
		case <-ticker.C:
			if w != nil && quitRequested(w) {
				w.Destroy()
				w = nil
				if events == nil {
					return
				}
			}
		}
	}
}

func open(grid *julia.Grid, maxIterations int) (*Window, error) {
	w, err := NewWindow(int32(grid.Width()), int32(grid.Height()))
	if err != nil {
		return nil, err
	}
	w.Draw(grid, maxIterations)
	if err = w.RenderFrame(); err != nil {
		w.Destroy()
		return nil, err
	}
	return w, nil
}

// quitRequested drains pending window events
func quitRequested(w *Window) bool {
	quit := false
	for event := w.PollEvent(); event != nil; event = w.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && (e.Keysym.Sym == sdl.K_q || e.Keysym.Sym == sdl.K_ESCAPE) {
				quit = true
			}
		}
	}
	return quit
}
