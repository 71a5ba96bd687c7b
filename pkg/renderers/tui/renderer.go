// Package tui fills a rendered form from terminal prompts. Hidden fields are
// carried over untouched so the collected values form a submission the
// receiving side can verify.
package tui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/httpform"
)

// Renderer prompts for every visible field of a rendered form.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	plain             *bluemonday.Policy
}

// New constructs a TUI renderer with defaults (survey driver, form output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatFormURLEncoded,
		plain:        bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatFormURLEncoded, OutputFormatJSON, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatJSON:
		return "application/json"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/x-www-form-urlencoded"
	}
}

// Render prompts for the visible fields of rendered, merges the hidden fields
// and serializes the result.
func (r *Renderer) Render(ctx context.Context, rendered form.Rendered) ([]byte, error) {
	values, err := r.Collect(ctx, rendered)
	if err != nil {
		return nil, err
	}
	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
		values = transformed
	}
	return r.serialize(values)
}

// Collect prompts for the visible fields and returns the submission values.
func (r *Renderer) Collect(ctx context.Context, rendered form.Rendered) (url.Values, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	values := url.Values{}
	hidden := make(map[string]struct{}, len(rendered.HiddenFields))
	for _, field := range rendered.HiddenFields {
		hidden[field.Name] = struct{}{}
		values.Set(field.Name, field.ValueString())
	}

	for _, id := range rendered.Order {
		field := rendered.Fields[id]
		if _, ok := hidden[field.Name]; ok {
			continue
		}
		for _, message := range rendered.Messages[id] {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+message); err != nil {
				return nil, err
			}
		}
		answer, err := r.promptField(ctx, id, field)
		if err != nil {
			return nil, fmt.Errorf("tui: prompt %s: %w", id, err)
		}
		values.Set(field.Name, answer)
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, id string, field form.RenderedField) (string, error) {
	message := r.label(id, field)
	help := r.plain.Sanitize(field.Attributes["help"])
	current := field.ValueString()

	switch strings.ToLower(field.Attributes["type"]) {
	case "checkbox":
		checked, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Help:    help,
			Default: current != "" && current != "0",
		})
		if err != nil {
			return "", err
		}
		if checked {
			return "1", nil
		}
		return "0", nil
	case "textarea":
		return r.driver.TextArea(ctx, TextAreaConfig{Message: message, Help: help, Default: current})
	case "password":
		return r.driver.Password(ctx, InputConfig{Message: message, Help: help, Validator: validator(field)})
	case "select":
		options := splitOptions(field.Attributes["options"])
		if len(options) == 0 {
			break
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Help:         help,
			Options:      options,
			DefaultIndex: indexOf(options, current),
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			return "", fmt.Errorf("tui: selection %d out of range", idx)
		}
		return options[idx], nil
	}

	return r.driver.Input(ctx, InputConfig{
		Message:   message,
		Help:      help,
		Default:   current,
		Validator: validator(field),
	})
}

func (r *Renderer) label(id string, field form.RenderedField) string {
	if label := strings.TrimSpace(field.Attributes["label"]); label != "" {
		return label
	}
	return id
}

func (r *Renderer) serialize(values url.Values) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatJSON:
		return json.MarshalIndent(httpform.ParseArguments(values), "", "  ")
	case OutputFormatPrettyText:
		keys := make([]string, 0, len(values))
		for key := range values {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			fmt.Fprintf(&b, "%s: %s\n", key, strings.Join(values[key], ", "))
		}
		return []byte(b.String()), nil
	default:
		return []byte(values.Encode()), nil
	}
}

func validator(field form.RenderedField) func(string) error {
	if _, ok := field.Attributes["required"]; !ok {
		return nil
	}
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return ErrRequired
		}
		return nil
	}
}

func splitOptions(raw string) []string {
	var out []string
	for _, option := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(option); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
