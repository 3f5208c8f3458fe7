// Package render materializes the embedded configuration templates
// (nginx sites, systemd units) from a Config before tasks upload them.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"text/template"

	"github.com/spf13/afero"

	"github.com/imamik/hostforge/internal/config"
	"github.com/imamik/hostforge/internal/observability"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	// ErrTemplateNotFound is wrapped when no template has the requested name.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrRender is wrapped when a template fails to parse or execute,
	// including references to variables that are not defined.
	ErrRender = errors.New("template render failed")
)

// TemplateError reports a failed render of one template.
type TemplateError struct {
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Renderer renders named templates with the Config's variables.
type Renderer struct {
	vars      map[string]interface{}
	templates fs.FS
	fs        afero.Fs
	observer  observability.Observer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplates replaces the embedded template set. Names are paths in t.
func WithTemplates(t fs.FS) Option {
	return func(r *Renderer) { r.templates = t }
}

// WithFs sets the filesystem rendered files are written to.
func WithFs(f afero.Fs) Option {
	return func(r *Renderer) { r.fs = f }
}

// WithObserver sets the observer receiving template.rendered events.
func WithObserver(o observability.Observer) Option {
	return func(r *Renderer) { r.observer = o }
}

// New creates a Renderer whose variable namespace is cfg.Vars().
func New(cfg *config.Config, opts ...Option) (*Renderer, error) {
	vars, err := cfg.Vars()
	if err != nil {
		return nil, err
	}

	embedded, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded templates: %w", err)
	}

	r := &Renderer{
		vars:      vars,
		templates: embedded,
		fs:        afero.NewOsFs(),
		observer:  observability.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RenderToString renders name with the Config's variables overlaid by extra.
// Keys in extra win over Config keys.
func (r *Renderer) RenderToString(name string, extra map[string]interface{}) (string, error) {
	content, err := fs.ReadFile(r.templates, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &TemplateError{Name: name, Err: ErrTemplateNotFound}
		}
		return "", &TemplateError{Name: name, Err: fmt.Errorf("%w: %v", ErrRender, err)}
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return "", &TemplateError{Name: name, Err: fmt.Errorf("%w: %v", ErrRender, err)}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data(extra)); err != nil {
		return "", &TemplateError{Name: name, Err: fmt.Errorf("%w: %v", ErrRender, err)}
	}
	return buf.String(), nil
}

// RenderToFile renders name and writes it to outputPath, or to a new
// temporary file ending in "."+name when outputPath is empty. It returns the
// path written.
func (r *Renderer) RenderToFile(name, outputPath string, extra map[string]interface{}) (string, error) {
	rendered, err := r.RenderToString(name, extra)
	if err != nil {
		return "", err
	}

	if outputPath == "" {
		f, err := afero.TempFile(r.fs, "", "hostforge-*."+name)
		if err != nil {
			return "", fmt.Errorf("failed to create temp file for %s: %w", name, err)
		}
		outputPath = f.Name()
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to close temp file %s: %w", outputPath, err)
		}
	}

	if err := afero.WriteFile(r.fs, outputPath, []byte(rendered), 0644); err != nil {
		return "", fmt.Errorf("failed to write rendered %s to %s: %w", name, outputPath, err)
	}

	r.observer.Event(observability.Event{
		Type:     observability.EventTemplateRendered,
		Resource: name,
		Message:  fmt.Sprintf("rendered to %s", outputPath),
	})
	return outputPath, nil
}

// Remove deletes a file produced by RenderToFile.
func (r *Renderer) Remove(path string) error {
	return r.fs.Remove(path)
}

func (r *Renderer) data(extra map[string]interface{}) map[string]interface{} {
	data := make(map[string]interface{}, len(r.vars)+len(extra))
	for k, v := range r.vars {
		data[k] = v
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}
