package bitmap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// DefaultMaxTargetPixels caps the target box a Loader accepts.
const DefaultMaxTargetPixels = 2048 * 2048

// Loader opens a source and decodes it for a target box.
type Loader struct {
	opener          Opener
	decoder         *Decoder
	placeholder     PlaceholderFunc
	logger          *zap.Logger
	maxTargetPixels int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDecoder replaces the default decoder.
func WithDecoder(d *Decoder) LoaderOption {
	return func(l *Loader) {
		if d != nil {
			l.decoder = d
		}
	}
}

// WithPlaceholder sets the image substituted after a failed load.
func WithPlaceholder(fn PlaceholderFunc) LoaderOption {
	return func(l *Loader) {
		if fn != nil {
			l.placeholder = fn
		}
	}
}

// WithMaxTargetPixels caps width*height of the requested box. Larger boxes
// fail with ErrInvalidTarget before anything is opened or allocated.
// Non-positive values keep the default.
func WithMaxTargetPixels(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxTargetPixels = n
		}
	}
}

// WithLoaderLogger sets a per-loader logger. Nil uses the package logger.
func WithLoaderLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader builds a Loader reading sources through opener.
func NewLoader(opener Opener, opts ...LoaderOption) *Loader {
	l := &Loader{
		opener:      opener,
		decoder:     NewDecoder(),
		placeholder: SolidPlaceholder(DefaultPlaceholderColor),

		maxTargetPixels: DefaultMaxTargetPixels,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load opens src and decodes it. Cancelling ctx closes the stream and
// returns ctx.Err() without a bitmap.
func (l *Loader) Load(ctx context.Context, src string, width, height int) (*Bitmap, error) {
	if l.opener == nil {
		return nil, fmt.Errorf("%w: no opener configured", ErrOpen)
	}
	if err := l.checkTarget(width, height); err != nil {
		return nil, err
	}

	rc, err := l.opener.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	stream := &onceCloser{ReadCloser: rc}
	stop := context.AfterFunc(ctx, func() {
		_ = stream.Close()
	})
	defer func() {
		stop()
		_ = stream.Close()
	}()

	bmp, err := l.decoder.Decode(ctx, stream, width, height)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}
	return bmp, nil
}

// LoadOrPlaceholder behaves like Load but substitutes the placeholder on
// failure. The load error is still returned alongside the placeholder so
// callers can log it. Cancellation and an invalid target yield neither.
func (l *Loader) LoadOrPlaceholder(ctx context.Context, src string, width, height int) (*Bitmap, error) {
	if err := l.checkTarget(width, height); err != nil {
		return nil, err
	}
	bmp, err := l.Load(ctx, src, width, height)
	if err == nil {
		return bmp, nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil, err
	}

	loggerOr(l.logger).Info("bitmap load failed, using placeholder",
		zap.String("src", src),
		zap.Error(err),
	)
	img := l.placeholder(width, height)
	bounds := img.Bounds()
	return &Bitmap{
		Image:       img,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		SampleSize:  1,
		Placeholder: true,
	}, err
}

func (l *Loader) checkTarget(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidTarget, width, height)
	}
	if int64(width)*int64(height) > l.maxTargetPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidTarget, width, height, l.maxTargetPixels)
	}
	return nil
}
