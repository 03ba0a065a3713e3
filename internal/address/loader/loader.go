package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-addressform/pkg/address"
)

// Loader implements address.Loader by delegating to file, fs.FS, or HTTP
// strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

var _ address.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options address.LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches the schema document for country from src.
func (l *Loader) Load(ctx context.Context, country string, src address.Source) (address.Document, error) {
	if src == nil {
		return address.Document{}, errors.New("address loader: source is nil")
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case address.SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case address.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case address.SourceKindURL:
		if !l.allowHTTP {
			return address.Document{}, errors.New("address loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = fmt.Errorf("address loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return address.Document{}, fmt.Errorf("address loader: %s (%s): %w", country, src.Location(), err)
	}

	return address.NewDocument(src, country, data)
}
