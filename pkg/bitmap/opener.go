package bitmap

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
)

// Opener yields the byte stream for a source identifier. The caller closes
// the returned stream.
type Opener interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}

// OpenerFunc adapts a function into an Opener.
type OpenerFunc func(ctx context.Context, src string) (io.ReadCloser, error)

// Open implements Opener.
func (f OpenerFunc) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	return f(ctx, src)
}

// HTTPOpener fetches http(s) URLs. The client's timeout bounds the fetch.
type HTTPOpener struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// AllowedHosts restricts fetches to these hosts. Entries starting with
	// "*." match any subdomain. Empty allows every host.
	AllowedHosts []string
	// UserAgent is sent when set.
	UserAgent string
}

// Open implements Opener.
func (o *HTTPOpener) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrOpen, src, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrSourceNotAllowed, u.Scheme)
	}
	if !hostAllowed(u.Hostname(), o.AllowedHosts) {
		return nil, fmt.Errorf("%w: host %q", ErrSourceNotAllowed, u.Hostname())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	req.Header.Set("Accept", "image/*")
	if o.UserAgent != "" {
		req.Header.Set("User-Agent", o.UserAgent)
	}

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrOpen, u.Redacted(), err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: fetch %s: unexpected status %d", ErrOpen, u.Redacted(), resp.StatusCode)
	}
	return resp.Body, nil
}

func hostAllowed(host string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, entry := range allowed {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if suffix, ok := strings.CutPrefix(entry, "*."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
			continue
		}
		if host == entry {
			return true
		}
	}
	return false
}

// FSOpener opens sources as paths inside an fs.FS.
type FSOpener struct {
	FS fs.FS
}

// Open implements Opener.
func (o FSOpener) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.FS == nil {
		return nil, fmt.Errorf("%w: no filesystem configured", ErrOpen)
	}
	name := strings.TrimPrefix(strings.TrimSpace(src), "/")
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: path %q", ErrSourceNotAllowed, src)
	}
	f, err := o.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return f, nil
}
