package bitmap

// SampleSize returns the largest power-of-two factor f such that the native
// size halved and divided by f still covers the requested size in both
// dimensions. Images that already fit inside the request use f = 1.
func SampleSize(nativeWidth, nativeHeight, reqWidth, reqHeight int) int {
	f := 1
	if reqWidth <= 0 || reqHeight <= 0 {
		return f
	}
	if nativeHeight > reqHeight || nativeWidth > reqWidth {
		halfHeight := nativeHeight / 2
		halfWidth := nativeWidth / 2
		for halfHeight/f >= reqHeight && halfWidth/f >= reqWidth {
			f *= 2
		}
	}
	return f
}

// scaledSize divides each side by f rounding up, so a sampled image never
// drops below the size the factor was chosen to cover.
func scaledSize(width, height, f int) (int, int) {
	if f <= 1 {
		return width, height
	}
	return (width + f - 1) / f, (height + f - 1) / f
}
