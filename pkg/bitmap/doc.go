// Package bitmap loads remote or local images downsampled to fit a target
// box. The retained bitmap is bounded by the target; peak memory during a
// decode is bounded by the native size, capped with WithMaxPixels.
//
// A decode first peeks at the image bounds from the stream header, picks the
// largest power-of-two sample size that still covers the target, and then
// decodes the rest of the same stream, reducing the result by that factor.
// The stream is read exactly once: the peeked header bytes are replayed into
// the full decode.
//
// Loads are cancelled through their context. Cancellation closes the open
// stream and no partial result is delivered. Slot models a single image
// binding (a view showing one source at a time) on top of Loader.
package bitmap
