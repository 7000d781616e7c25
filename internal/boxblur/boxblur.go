// Package boxblur implements an in-place approximation of Gaussian blur
// using three successive box-filter passes along each axis.
//
// Each box pass is a separable running-sum filter: the cost per pass is
// O(width*height) regardless of radius. Rows are filtered first, then
// columns, and the pair is repeated three times with box widths chosen
// so the combined variance matches the target Gaussian. Edges are
// handled by replicating the boundary pixel.
//
// Buffers hold either a single alpha channel (1 byte per pixel) or
// premultiplied RGBA (4 bytes per pixel). Channels are filtered
// independently, directly on premultiplied values; blur is linear, so
// no un-premultiply round trip is needed.
package boxblur

import (
	"math"
	"sync"
)

// BoxSizes returns three box-filter widths approximating a Gaussian of
// the given standard deviation. The widths follow the classic three-box
// formula: the ideal width is sqrt(12*sigma^2/n + 1) for n=3 passes,
// rounded to the nearest odd integers, with the split between the lower
// and upper width chosen so the combined variance matches the target.
func BoxSizes(sigma float64) [3]int {
	const n = 3.0
	wIdeal := math.Sqrt((12*sigma*sigma)/n + 1)
	wl := int(math.Floor(wIdeal))
	if wl%2 == 0 {
		wl--
	}
	if wl < 1 {
		wl = 1
	}
	wu := wl + 2

	mIdeal := (12*sigma*sigma - n*float64(wl*wl) - 4*n*float64(wl) - 3*n) / (-4*float64(wl) - 4)
	m := int(math.Round(mIdeal))

	var sizes [3]int
	for i := range sizes {
		if i < m {
			sizes[i] = wl
		} else {
			sizes[i] = wu
		}
	}
	return sizes
}

// maxChannels is the widest pixel format supported (premultiplied RGBA).
const maxChannels = 4

// Blur applies the three-pass box blur in place to pix.
//
// pix holds height rows of width pixels with the given row stride in
// bytes and channels bytes per pixel (1 or 4). Rows may carry padding
// (stride >= width*channels); padding bytes are preserved. The caller
// validates sigma; Blur is a no-op when the dimensions are not positive.
func Blur(pix []uint8, width, height, stride, channels int, sigma float64) {
	if width <= 0 || height <= 0 || channels <= 0 || channels > maxChannels {
		return
	}

	rowBytes := width * channels
	total := rowBytes * height

	// Work on tight-packed copies so passes never touch row padding.
	a := getBuffer(total)
	defer putBuffer(a)
	b := getBuffer(total)
	defer putBuffer(b)

	if stride == rowBytes {
		copy(a.data, pix[:total])
	} else {
		for y := 0; y < height; y++ {
			copy(a.data[y*rowBytes:(y+1)*rowBytes], pix[y*stride:y*stride+rowBytes])
		}
	}

	for _, size := range BoxSizes(sigma) {
		radius := size / 2
		boxBlurH(a.data, b.data, width, height, channels, radius)
		boxBlurV(b.data, a.data, width, height, channels, radius)
	}

	if stride == rowBytes {
		copy(pix[:total], a.data)
	} else {
		for y := 0; y < height; y++ {
			copy(pix[y*stride:y*stride+rowBytes], a.data[y*rowBytes:(y+1)*rowBytes])
		}
	}
}

// boxBlurH runs one horizontal box pass from src to dst.
// Both buffers are tight-packed (stride == width*channels).
func boxBlurH(src, dst []uint8, width, height, channels, radius int) {
	dia := radius*2 + 1
	rowBytes := width * channels

	for y := 0; y < height; y++ {
		srow := src[y*rowBytes : (y+1)*rowBytes]
		drow := dst[y*rowBytes : (y+1)*rowBytes]

		// Prime the sliding window over the replicated left edge.
		var sums [maxChannels]int
		for i := -radius; i <= radius; i++ {
			px := srow[clampInt(i, 0, width-1)*channels:]
			for c := 0; c < channels; c++ {
				sums[c] += int(px[c])
			}
		}

		for x := 0; x < width; x++ {
			d := drow[x*channels:]
			for c := 0; c < channels; c++ {
				d[c] = uint8((sums[c] + dia/2) / dia)
			}

			// Slide: add the entering pixel, drop the leaving one.
			next := srow[clampInt(x+radius+1, 0, width-1)*channels:]
			prev := srow[clampInt(x-radius, 0, width-1)*channels:]
			for c := 0; c < channels; c++ {
				sums[c] += int(next[c]) - int(prev[c])
			}
		}
	}
}

// boxBlurV runs one vertical box pass from src to dst.
func boxBlurV(src, dst []uint8, width, height, channels, radius int) {
	dia := radius*2 + 1
	rowBytes := width * channels

	for x := 0; x < width; x++ {
		col := x * channels

		var sums [maxChannels]int
		for i := -radius; i <= radius; i++ {
			px := src[clampInt(i, 0, height-1)*rowBytes+col:]
			for c := 0; c < channels; c++ {
				sums[c] += int(px[c])
			}
		}

		for y := 0; y < height; y++ {
			d := dst[y*rowBytes+col:]
			for c := 0; c < channels; c++ {
				d[c] = uint8((sums[c] + dia/2) / dia)
			}

			next := src[clampInt(y+radius+1, 0, height-1)*rowBytes+col:]
			prev := src[clampInt(y-radius, 0, height-1)*rowBytes+col:]
			for c := 0; c < channels; c++ {
				sums[c] += int(next[c]) - int(prev[c])
			}
		}
	}
}

// byteBuffer wraps a slice so sync.Pool stores a pointer-sized value.
type byteBuffer struct {
	data []uint8
}

// maxPooledBytes caps the size of buffers returned to the pool.
const maxPooledBytes = 64 << 20

var bufferPool = sync.Pool{
	New: func() any { return &byteBuffer{} },
}

// getBuffer retrieves a working buffer with at least n usable bytes.
// Contents are unspecified; every byte is overwritten before being read.
func getBuffer(n int) *byteBuffer {
	b := bufferPool.Get().(*byteBuffer)
	if cap(b.data) < n {
		b.data = make([]uint8, n)
	}
	b.data = b.data[:n]
	return b
}

// putBuffer returns a working buffer to the pool.
func putBuffer(b *byteBuffer) {
	if cap(b.data) > maxPooledBytes {
		return
	}
	bufferPool.Put(b)
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
