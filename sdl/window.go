package sdl

import (
	"runtime"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"uk.ac.bris.cs/juliaset/julia"
)

// Largest side of the window in screen pixels; bigger fields are scaled down when rendered
const maxWindowSide = 1000

func init() {
	// SDL calls must come from the main thread
	runtime.LockOSThread()
}

type Window struct {
	Width, Height int32 // Texture size, one texel per grid cell
	window        *sdl.Window
	renderer      *sdl.Renderer
	texture       *sdl.Texture
	pixels        []byte
}

// NewWindow opens a window for a width x height field
func NewWindow(width, height int32) (*Window, error) {
	err := sdl.Init(sdl.INIT_VIDEO)
	if err != nil {
		return nil, err
	}
	scale := (max(width, height) + maxWindowSide - 1) / maxWindowSide
	window, err := sdl.CreateWindow("Julia set", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		max(width/scale, 1), max(height/scale, 1), sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, err
	}
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, err
	}
	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STATIC, width, height)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return nil, err
	}
	return &Window{
		Width:    width,
		Height:   height,
		window:   window,
		renderer: renderer,
		texture:  texture,
		pixels:   make([]byte, width*height*4),
	}, nil
}

func (w *Window) Destroy() {
	w.texture.Destroy()
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
}

// Draw copies grid into the pixel buffer as grey levels, with maxIterations rendered white.
// grid must have the size the window was opened with.
func (w *Window) Draw(grid *julia.Grid, maxIterations int) {
	for j := 0; j != int(w.Height); j++ {
		for i := 0; i != int(w.Width); i++ {
			level := byte(0)
			if maxIterations > 0 {
				level = byte(min(grid.At(i, j), float64(maxIterations)) * 255 / float64(maxIterations))
			}
			w.SetPixel(i, j, level)
		}
	}
}

// SetPixel sets pixel (x, y) to a grey level
func (w *Window) SetPixel(x, y int, level byte) {
	offset := 4 * (y*int(w.Width) + x)
	// ARGB8888 is stored as B, G, R, A
	w.pixels[offset+0] = level
	w.pixels[offset+1] = level
	w.pixels[offset+2] = level
	w.pixels[offset+3] = 255
}

func (w *Window) RenderFrame() error {
	if err := w.texture.Update(nil, unsafe.Pointer(&w.pixels[0]), int(w.Width*4)); err != nil {
		return err
	}
	if err := w.renderer.Clear(); err != nil {
		return err
	}
	if err := w.renderer.Copy(w.texture, nil, nil); err != nil {
		return err
	}
	w.renderer.Present()
	return nil
}

func (w *Window) PollEvent() sdl.Event {
	return sdl.PollEvent()
}
