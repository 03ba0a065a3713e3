package bitmap

import "image"

// Bitmap is a decoded pixel buffer plus the facts that produced it.
type Bitmap struct {
	Image        image.Image
	Width        int
	Height       int
	NativeWidth  int
	NativeHeight int
	SampleSize   int
	Format       string
	// Placeholder marks a substitute produced after a failed load.
	Placeholder bool
}
