package server

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	theme "github.com/goliatone/go-theme"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/bitmap"
	"github.com/goliatone/go-addressform/pkg/connections"
	"github.com/goliatone/go-addressform/pkg/openapi"
	"github.com/goliatone/go-addressform/pkg/render"
)

const maxBodyBytes = 64 << 10

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		if r.Context().Err() != nil {
			return
		}
		code := statusFor(err)
		if code >= http.StatusInternalServerError {
			s.logger.Error("request failed",
				zap.String("request_id", RequestID(r.Context())),
				zap.Error(err),
			)
		}
		writeJSON(w, code, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(payload, '\n'))
}

func (s *Server) requestLocale(r *http.Request) string {
	if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
		return locale
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		tag, _, _ := strings.Cut(header, ",")
		tag, _, _ = strings.Cut(tag, ";")
		if tag = strings.TrimSpace(tag); tag != "" && tag != "*" {
			return tag
		}
	}
	return s.locale
}

func (s *Server) descriptors(r *http.Request) (string, []address.FieldDescriptor, error) {
	country := address.NormalizeCountry(mux.Vars(r)["country"])
	fields, err := s.repo.Fields(r.Context(), country)
	return country, fields, err
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (s *Server) countries(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{"countries": s.repo.Countries()})
	return nil
}

func (s *Server) fields(w http.ResponseWriter, r *http.Request) error {
	return s.renderAs(w, r, "json", render.RenderOptions{})
}

// renderAs renders the requested country with the renderer for format.
func (s *Server) renderAs(w http.ResponseWriter, r *http.Request, format string, opts render.RenderOptions) error {
	renderer, err := s.renderers.Lookup(format)
	if err != nil {
		return err
	}
	country, fields, err := s.descriptors(r)
	if err != nil {
		return err
	}
	return s.renderWith(w, r, renderer, render.Form{Country: country, Fields: fields}, opts)
}

func (s *Server) renderWith(w http.ResponseWriter, r *http.Request, renderer render.Renderer, form render.Form, opts render.RenderOptions) error {
	opts.Locale = s.requestLocale(r)
	opts.Translator = s.translator
	out, err := renderer.Render(r.Context(), form, opts)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Add("Vary", "Accept")
	_, _ = w.Write(out)
	return nil
}

// formRenderer honours an explicit format query parameter before the Accept
// header.
func (s *Server) formRenderer(r *http.Request) (render.Renderer, error) {
	if format := strings.TrimSpace(r.URL.Query().Get("format")); format != "" {
		return s.renderers.Lookup(format)
	}
	return s.renderers.Negotiate(r.Header.Get("Accept"))
}

func (s *Server) formTheme(r *http.Request) (*theme.RendererConfig, error) {
	query := r.URL.Query()
	name := strings.TrimSpace(query.Get("theme"))
	variant := strings.TrimSpace(query.Get("variant"))
	if s.themes == nil {
		if name != "" || variant != "" {
			return nil, statusErrorf(http.StatusBadRequest, "themes are not configured")
		}
		return nil, nil
	}
	return render.ResolveTheme(s.themes, name, variant, render.DefaultThemePartials())
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) error {
	country, fields, err := s.descriptors(r)
	if err != nil {
		return err
	}
	renderer, err := s.formRenderer(r)
	if err != nil {
		return err
	}
	themeCfg, err := s.formTheme(r)
	if err != nil {
		return err
	}

	query := r.URL.Query()
	values := address.FormValues{}
	for _, f := range fields {
		if v := query.Get(string(f.Identifier)); v != "" {
			values[f.Identifier] = v
		}
	}

	return s.renderWith(w, r, renderer, render.Form{Country: country, Fields: fields}, render.RenderOptions{
		Values: values,
		Action: query.Get("action"),
		Method: query.Get("method"),
		Theme:  themeCfg,
	})
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request) error {
	return s.renderAs(w, r, "openapi", render.RenderOptions{})
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) error {
	country, fields, err := s.descriptors(r)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return statusErrorf(http.StatusBadRequest, "read body: %v", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(body, &raw); err != nil {
		return statusErrorf(http.StatusBadRequest, "body must be a JSON object of strings: %v", err)
	}

	issues := openapi.ValidateValues(openapi.SchemaFor(country, fields), address.FormValuesFromMap(raw))
	if issues == nil {
		issues = []address.Issue{}
	}
	code := http.StatusOK
	if len(issues) > 0 {
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, map[string]any{
		"country": country,
		"valid":   len(issues) == 0,
		"issues":  issues,
	})
	return nil
}

func (s *Server) thumbnail(w http.ResponseWriter, r *http.Request) error {
	if s.images == nil {
		return statusErrorf(http.StatusNotImplemented, "image loading is not configured")
	}
	query := r.URL.Query()
	src := strings.TrimSpace(query.Get("src"))
	if src == "" {
		return statusErrorf(http.StatusBadRequest, "src is required")
	}
	maxW, err := dimension(query.Get("w"))
	if err != nil {
		return err
	}
	maxH, err := dimension(query.Get("h"))
	if err != nil {
		return err
	}
	width, height, err := bitmap.ResolveTarget(maxW, maxH)
	if err != nil {
		return err
	}

	bmp, loadErr := s.images.LoadOrPlaceholder(r.Context(), src, width, height)
	if errors.Is(loadErr, bitmap.ErrSourceNotAllowed) {
		return loadErr
	}
	if bmp == nil {
		return loadErr
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, bmp.Image); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Placeholder", strconv.FormatBool(bmp.Placeholder))
	if !bmp.Placeholder {
		w.Header().Set("X-Sample-Size", strconv.Itoa(bmp.SampleSize))
	}
	_, _ = w.Write(buf.Bytes())
	return nil
}

func dimension(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, statusErrorf(http.StatusBadRequest, "invalid dimension %q", raw)
	}
	return v, nil
}

func (s *Server) connectionsValidate(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return statusErrorf(http.StatusBadRequest, "read body: %v", err)
	}
	args, err := connections.DecodeArgs(body)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "mode": args.Mode})
	return nil
}
