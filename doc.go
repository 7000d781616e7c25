// Package ink provides 2D canvas effects for Go.
//
// # Overview
//
// ink is a canvas-and-effects layer on top of a software vector engine
// (fogleman/gg). The engine supplies path rasterization, gradients,
// patterns, and state save/restore; ink contributes the pieces the
// engine does not have:
//
//   - a fast three-pass box-blur approximation of Gaussian blur,
//     operating in place on premultiplied-RGBA or alpha-mask buffers
//   - an image blur driver producing a new blurred pixmap
//   - an adaptive path flattener (curves to polylines within tolerance)
//   - a blurred-path compositor: render a path offscreen, blur it, and
//     composite the result back onto the canvas (blur and drop-shadow
//     effects)
//   - a watercolor fill effect built from the same machinery
//   - text-to-path conversion via go-text/typesetting shaping
//
// # Quick Start
//
//	import "github.com/inklab/ink"
//
//	c, _ := ink.NewCanvas(512, 512)
//	c.Paint().Fill = ink.Solid(ink.RGB(0.2, 0.4, 0.9))
//
//	p := ink.NewPath()
//	p.Circle(256, 256, 100)
//
//	// Soft drop shadow under the shape, then the shape itself.
//	shadow := c.Paint().Clone()
//	shadow.Fill = ink.Solid(ink.RGBA2(0, 0, 0, 0.5))
//	c.SetPaint(shadow)
//	c.BlurPath(p, 6, &ink.BlurPathOptions{OffsetX: 4, OffsetY: 4})
//
//	c.Paint().Fill = ink.Solid(ink.RGB(0.2, 0.4, 0.9))
//	c.FillPath(p)
//	c.SavePNG("out.png")
//
// # Coordinate System
//
// Standard computer graphics coordinates: origin at top-left,
// X increases right, Y increases down.
//
// # Pixel Formats
//
// Pixmaps come in two formats: premultiplied RGBA (4 bytes per pixel)
// and a single alpha channel (1 byte per pixel). Blur operates directly
// on premultiplied values; blur is linear, so no un-premultiply round
// trip is needed.
//
// # Concurrency
//
// Canvas and Pixmap are not safe for concurrent use. Independent
// canvases and pixmaps may be used from different goroutines freely;
// each canvas owns its own scratch surfaces.
package ink
