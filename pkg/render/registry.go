package render

import (
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"
	"sync"
)

// ErrUnknownFormat reports an output format, or an Accept header, that no
// registered renderer produces.
var ErrUnknownFormat = errors.New("render: unknown output format")

// Registry maps output formats to renderers. A renderer's format is its
// lower-cased Name; the first renderer registered is the default format.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	formats   []string
}

// NewRegistry returns a registry holding renderers in the given order.
func NewRegistry(renderers ...Renderer) (*Registry, error) {
	r := &Registry{renderers: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		if err := r.Register(renderer); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds renderer under its format. A format can only be taken once.
func (r *Registry) Register(renderer Renderer) error {
	format, err := formatOf(renderer)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[format]; exists {
		return fmt.Errorf("render: format %q already registered", format)
	}
	r.renderers[format] = renderer
	r.formats = append(r.formats, format)
	return nil
}

// Replace installs renderer for its format, keeping the format's position
// when it is already registered.
func (r *Registry) Replace(renderer Renderer) error {
	format, err := formatOf(renderer)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renderers[format]; !exists {
		r.formats = append(r.formats, format)
	}
	r.renderers[format] = renderer
	return nil
}

// Lookup returns the renderer for format. An empty format selects the
// default.
func (r *Registry) Lookup(format string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return r.defaultLocked()
	}
	if renderer, ok := r.renderers[format]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownFormat, format, strings.Join(r.formats, ", "))
}

// Negotiate picks a renderer for an Accept header. Media ranges are tried in
// the order listed; ranges with q=0 are skipped and a blank header or */*
// selects the default.
func (r *Registry) Negotiate(accept string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if strings.TrimSpace(accept) == "" {
		return r.defaultLocked()
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if q, ok := params["q"]; ok {
			if weight, err := strconv.ParseFloat(q, 64); err != nil || weight <= 0 {
				continue
			}
		}
		if mediaType == "*/*" {
			return r.defaultLocked()
		}
		for _, format := range r.formats {
			renderer := r.renderers[format]
			if matchesMediaRange(mediaType, renderer.ContentType()) {
				return renderer, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: nothing satisfies %q", ErrUnknownFormat, accept)
}

// Formats lists the registered formats in registration order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.formats...)
}

func (r *Registry) defaultLocked() (Renderer, error) {
	if len(r.formats) == 0 {
		return nil, fmt.Errorf("%w: registry is empty", ErrUnknownFormat)
	}
	return r.renderers[r.formats[0]], nil
}

func formatOf(renderer Renderer) (string, error) {
	if renderer == nil {
		return "", errors.New("render: renderer is required")
	}
	format := strings.ToLower(strings.TrimSpace(renderer.Name()))
	if format == "" {
		return "", errors.New("render: renderer name is required")
	}
	return format, nil
}

func matchesMediaRange(mediaRange, contentType string) bool {
	produced, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if prefix, ok := strings.CutSuffix(mediaRange, "/*"); ok {
		kind, _, _ := strings.Cut(produced, "/")
		return kind == prefix
	}
	return produced == mediaRange
}
