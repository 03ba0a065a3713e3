package bitmap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// DefaultMaxPixels caps the native size a Decoder accepts.
const DefaultMaxPixels = 40_000_000

// Decoder turns an image stream into a Bitmap sized for a target box.
//
// The standard image decoders cannot subsample while decoding, so the full
// native image is materialized before it is scaled down by the sample size.
// Peak memory is therefore bounded by the native size, capped through
// WithMaxPixels, and not by the target box. Only the returned bitmap is
// sized to the target.
type Decoder struct {
	maxPixels int64
	scaler    draw.Scaler
	logger    *zap.Logger
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxPixels rejects sources whose native width*height exceeds n. Values
// below one disable the limit.
func WithMaxPixels(n int64) DecoderOption {
	return func(d *Decoder) {
		d.maxPixels = n
	}
}

// WithScaler selects the resampling kernel used when the sample size is
// above one.
func WithScaler(s draw.Scaler) DecoderOption {
	return func(d *Decoder) {
		if s != nil {
			d.scaler = s
		}
	}
}

// WithLogger sets a per-decoder logger. Nil uses the package logger.
func WithLogger(l *zap.Logger) DecoderOption {
	return func(d *Decoder) {
		d.logger = l
	}
}

// NewDecoder builds a Decoder with DefaultMaxPixels and bilinear scaling.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		maxPixels: DefaultMaxPixels,
		scaler:    draw.ApproxBiLinear,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode reads r once and returns a bitmap covering targetWidth x
// targetHeight. The result is never upsampled. Errors wrap ErrInvalidTarget,
// ErrTooLarge or ErrDecode; a done ctx returns ctx.Err() and no bitmap.
func (d *Decoder) Decode(ctx context.Context, r io.Reader, targetWidth, targetHeight int) (bmp *Bitmap, err error) {
	if targetWidth <= 0 || targetHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTarget, targetWidth, targetHeight)
	}
	logger := loggerOr(d.logger)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("bitmap decoder panicked", zap.Any("panic", rec))
			bmp, err = nil, fmt.Errorf("%w: %v", ErrDecode, rec)
		}
	}()

	src := ctxReader{ctx: ctx, r: r}

	var header bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(src, &header))
	if err != nil {
		return nil, d.fail(ctx, "peek bounds", err)
	}
	if d.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > d.maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, d.maxPixels)
	}

	f := SampleSize(cfg.Width, cfg.Height, targetWidth, targetHeight)
	logger.Debug("bitmap bounds peeked",
		zap.String("format", format),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("sample_size", f),
	)

	img, _, err := image.Decode(io.MultiReader(&header, src))
	if err != nil {
		return nil, d.fail(ctx, "decode", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := img
	if f > 1 {
		w, h := scaledSize(cfg.Width, cfg.Height, f)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		d.scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		out = dst
	}

	bounds := out.Bounds()
	return &Bitmap{
		Image:        out,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		NativeWidth:  cfg.Width,
		NativeHeight: cfg.Height,
		SampleSize:   f,
		Format:       format,
	}, nil
}

func (d *Decoder) fail(ctx context.Context, stage string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrDecode, stage, err)
}
