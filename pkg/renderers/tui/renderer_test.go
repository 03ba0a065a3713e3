package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-addressform/pkg/address"
	"github.com/goliatone/go-addressform/pkg/render"
)

type stubDriver struct {
	inputs       []string
	confirm      []bool
	prompts      []InputConfig
	infoMessages []string
	inputPos     int
	confirmPos   int
	inputErr     error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.prompts = append(s.prompts, cfg)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func testForm() render.Form {
	return render.Form{Country: "US", Fields: []address.FieldDescriptor{
		{Identifier: address.IdentifierLine1, LabelKey: "address_label_address", Required: true},
		{Identifier: address.IdentifierLine2, LabelKey: "address_label_address_line2", ShowOptionalLabel: true},
		{Identifier: address.IdentifierPostalCode, LabelKey: "address_label_zip_code", Required: true, Examples: []string{"94103"}},
	}}
}

func TestRender_CollectsInOrder(t *testing.T) {
	driver := &stubDriver{inputs: []string{" 1 Main St ", "", "94103"}}
	r := New(WithPromptDriver(driver))

	out, err := r.Render(context.Background(), testForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != `{"line1":"1 Main St","postal_code":"94103"}` {
		t.Fatalf("unexpected output %s", out)
	}

	messages := []string{driver.prompts[0].Message, driver.prompts[1].Message, driver.prompts[2].Message}
	want := []string{"Address", "Address line 2 (optional)", "ZIP code"}
	if diff := cmp.Diff(want, messages); diff != "" {
		t.Fatalf("prompt labels mismatch (-want +got):\n%s", diff)
	}
	if driver.prompts[2].Help != "e.g. 94103" {
		t.Fatalf("expected example help, got %q", driver.prompts[2].Help)
	}
	if r.ContentType() != "application/json" {
		t.Fatalf("unexpected content type %s", r.ContentType())
	}
}

func TestRender_RepromptsRequiredFields(t *testing.T) {
	driver := &stubDriver{inputs: []string{"  ", "1 Main St", "", "94103"}}
	r := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "}))

	values, err := r.Collect(context.Background(), testForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if values.Get(address.IdentifierLine1) != "1 Main St" {
		t.Fatalf("unexpected values %v", values)
	}
	found := false
	for _, msg := range driver.infoMessages {
		if msg == "! Address is required" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
}

func TestRender_PrefillIsOfferedAsDefault(t *testing.T) {
	driver := &stubDriver{inputs: []string{"1 Main St", "", "10001"}}
	r := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))

	out, err := r.Render(context.Background(), testForm(), render.RenderOptions{
		Values: address.FormValues{address.IdentifierPostalCode: "10001"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if driver.prompts[2].Default != "10001" {
		t.Fatalf("expected prefill default, got %q", driver.prompts[2].Default)
	}
	if string(out) != "line1=1+Main+St&postal_code=10001" {
		t.Fatalf("unexpected form output %s", out)
	}
}

func TestRender_ReviewRestartsWithEnteredValues(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"1 Main St", "", "94103", "2 Main St", "", "94103"},
		confirm: []bool{false, true},
	}
	r := New(WithPromptDriver(driver), WithReview(2), WithOutputFormat(OutputFormatPrettyText))

	out, err := r.Render(context.Background(), testForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if driver.prompts[3].Default != "1 Main St" {
		t.Fatalf("expected second pass to default to first answer, got %q", driver.prompts[3].Default)
	}
	if string(out) != "Address: 2 Main St\nZIP code: 94103\n" {
		t.Fatalf("unexpected summary %q", out)
	}
}

func TestRender_ReviewRejected(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"1 Main St", "", "94103"},
		confirm: []bool{false},
	}
	_, err := New(WithPromptDriver(driver), WithReview(1)).Render(context.Background(), testForm(), render.RenderOptions{})
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestRender_Aborted(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	_, err := New(WithPromptDriver(driver)).Render(context.Background(), testForm(), render.RenderOptions{})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRender_LocalizedTitle(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Calle 1", "", "28001"}}
	r := New(WithPromptDriver(driver))
	if _, err := r.Render(context.Background(), testForm(), render.RenderOptions{Locale: "es"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(driver.infoMessages) == 0 || driver.infoMessages[0] != "Dirección" {
		t.Fatalf("expected localized title, got %v", driver.infoMessages)
	}
	if !strings.HasPrefix(driver.prompts[1].Message, "Línea 2") {
		t.Fatalf("expected localized prompt, got %q", driver.prompts[1].Message)
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if !errors.Is(translateSurveyErr(terminal.InterruptErr), ErrAborted) {
		t.Fatalf("interrupt should map to ErrAborted")
	}
	other := errors.New("tty closed")
	if translateSurveyErr(other) != other {
		t.Fatalf("other errors should pass through")
	}
}
