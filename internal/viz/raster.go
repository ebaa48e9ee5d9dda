package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"

	"github.com/san-kum/galaxysim/internal/dynamo"
)

var rasterPalette = color.Palette{color.Black, color.White}

// Raster is a dynamo.Sink that plots every particle as a single white point on
// a black square image. Frames can be written as PNG files and/or collected
// into an animated GIF; both are sampled every Every steps.
type Raster struct {
	Mapper   Mapper
	Every    int
	FrameDir string

	img    *image.Gray
	frames []*image.Paletted
	record bool
	drawn  int
}

func NewRaster(size int, radius float64) *Raster {
	return &Raster{
		Mapper: Mapper{Size: size, Radius: radius},
		Every:  1,
		img:    image.NewGray(image.Rect(0, 0, size, size)),
	}
}

// RecordGIF enables collecting frames for WriteGIF.
func (r *Raster) RecordGIF() { r.record = true }

// Image returns the most recently drawn frame.
func (r *Raster) Image() *image.Gray { return r.img }

// Drawn reports how many points of the last frame were inside the image.
func (r *Raster) Drawn() int { return r.drawn }

// Draw clears the image and plots snap.
func (r *Raster) Draw(snap dynamo.Snapshot) {
	for i := range r.img.Pix {
		r.img.Pix[i] = 0
	}
	r.drawn = 0
	for _, p := range snap.Positions {
		x, y, ok := r.Mapper.Pixel(p)
		if !ok {
			continue
		}
		r.img.SetGray(x, y, color.Gray{Y: 255})
		r.drawn++
	}
}

func (r *Raster) Consume(snap dynamo.Snapshot) error {
	every := r.Every
	if every <= 0 {
		every = 1
	}
	if snap.Step%every != 0 {
		return nil
	}

	r.Draw(snap)

	if r.FrameDir != "" {
		path := filepath.Join(r.FrameDir, fmt.Sprintf("frame_%06d.png", snap.Step))
		if err := r.WritePNG(path); err != nil {
			return err
		}
	}
	if r.record {
		r.frames = append(r.frames, r.paletted())
	}
	return nil
}

func (r *Raster) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, r.img)
}

// WriteGIF writes all recorded frames as a looping animation.
func (r *Raster) WriteGIF(path string) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

func (r *Raster) Frames() int { return len(r.frames) }

func (r *Raster) paletted() *image.Paletted {
	b := r.img.Bounds()
	p := image.NewPaletted(b, rasterPalette)
	for i, v := range r.img.Pix {
		if v != 0 {
			p.Pix[i] = 1
		}
	}
	return p
}
