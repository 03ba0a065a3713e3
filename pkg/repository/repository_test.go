package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/testsupport"
)

func identifiers(fields []address.FieldDescriptor) []address.IdentifierSpec {
	out := make([]address.IdentifierSpec, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Identifier)
	}
	return out
}

func TestRepository_FieldsEmbedded(t *testing.T) {
	repo := New()

	fields, err := repo.Fields(context.Background(), " us ")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	want := []address.IdentifierSpec{"line1", "line2", "city", "postal_code", "state"}
	if diff := cmp.Diff(want, identifiers(fields)); diff != "" {
		t.Fatalf("identifier mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_FieldsGolden(t *testing.T) {
	fields, err := New().Fields(testsupport.Context(), "GB")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}

	goldenPath := filepath.Join("testdata", "gb_fields.golden.json")
	testsupport.WriteGolden(t, goldenPath, fields)

	want := testsupport.MustLoadDescriptors(t, goldenPath)
	if diff := testsupport.CompareGolden(want, fields); diff != "" {
		t.Fatalf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_UnsupportedCountry(t *testing.T) {
	_, err := New().Fields(context.Background(), "ZZ")
	if !errors.Is(err, address.ErrUnsupportedCountry) {
		t.Fatalf("expected ErrUnsupportedCountry, got %v", err)
	}
	var schemaErr *address.SchemaError
	if !errors.As(err, &schemaErr) || schemaErr.Country != "ZZ" {
		t.Fatalf("expected schema error for ZZ, got %v", err)
	}
}

func TestRepository_Countries(t *testing.T) {
	repo := New(WithCountries("us", "ca", " "))
	if diff := cmp.Diff([]string{"CA", "US"}, repo.Countries()); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
	if repo.Supports("DE") {
		t.Fatalf("DE should not be supported")
	}
}

func TestRepository_SchemaFS(t *testing.T) {
	repo := New(
		WithCountries("XX"),
		WithSchemaFS(fstest.MapFS{
			"XX.json": {Data: []byte(`[{"type":"postalCode"},{"type":"locality","schema":{"name_type":"city"}}]`)},
		}),
	)

	_, err := repo.Fields(context.Background(), "xx")
	if !errors.Is(err, address.ErrNameTypeNotAllowed) {
		t.Fatalf("expected ErrNameTypeNotAllowed, got %v", err)
	}
	var schemaErr *address.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	if schemaErr.Country != "XX" || schemaErr.Location != "XX.json" || schemaErr.Index != 1 {
		t.Fatalf("unexpected error context: %+v", schemaErr)
	}
}

func TestRepository_SchemaDir(t *testing.T) {
	dir := t.TempDir()
	payload := []byte(`[{"type":"addressLine1"},{"type":"administrativeArea"},{"type":"postalCode"}]`)
	if err := os.WriteFile(filepath.Join(dir, "US.json"), payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fields, err := New(WithSchemaDir(dir)).Fields(context.Background(), "US")
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	want := []address.IdentifierSpec{"line1", "postal_code", "state"}
	if diff := cmp.Diff(want, identifiers(fields)); diff != "" {
		t.Fatalf("identifier mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_BaseURL(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/schemas/CA.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"type":"addressLine1"},{"type":"postalCode","schema":{"is_numeric":false}}]`))
	}))
	defer srv.Close()

	repo := New(WithBaseURL(srv.URL+"/schemas/", srv.Client(), time.Second))
	for i := 0; i < 2; i++ {
		fields, err := repo.Fields(context.Background(), "CA")
		if err != nil {
			t.Fatalf("fields: %v", err)
		}
		if fields[1].Keyboard != address.KeyboardText {
			t.Fatalf("expected text keyboard, got %s", fields[1].Keyboard)
		}
	}
	if hits != 2 {
		t.Fatalf("expected each call to reload the schema, got %d fetches", hits)
	}
}

type stubLoader struct {
	err error
}

func (s stubLoader) Load(context.Context, string, address.Source) (address.Document, error) {
	return address.Document{}, s.err
}

func TestRepository_LoaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(WithLoader(stubLoader{err: boom})).Schema(context.Background(), "US")
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestRepository_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"example.com", "ftp://example.com/schemas", "http://"} {
		t.Run(base, func(t *testing.T) {
			repo := New(WithBaseURL(base, nil, time.Second))
			if !errors.Is(repo.Err(), ErrInvalidBaseURL) {
				t.Fatalf("expected ErrInvalidBaseURL from Err, got %v", repo.Err())
			}
			fields, err := repo.Fields(context.Background(), "US")
			if fields != nil || !errors.Is(err, ErrInvalidBaseURL) {
				t.Fatalf("expected ErrInvalidBaseURL, got %v, %v", fields, err)
			}
		})
	}
}
