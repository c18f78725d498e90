package gotemplate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-tplout/pkg/html"
	"github.com/goliatone/go-tplout/pkg/output"
	"github.com/goliatone/go-tplout/pkg/render/template"
)

// ErrNilEngine is returned when methods are called on a nil or zero Engine.
var ErrNilEngine = errors.New("gotemplate: engine is nil")

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	baseDir    string
	templates  fs.FS
	extension  string
	capacity   int
	globalData map[string]any
	logger     zerolog.Logger
}

// WithBaseDir configures the engine to load templates from a base directory
// on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS configures the engine to load templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the default template extension used by the engine.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithCapacity sets the initial accumulator capacity used by Render and
// RenderString when the expected output size is known. Zero keeps the pooled
// default accumulators.
func WithCapacity(capacity int) Option {
	return func(cfg *config) {
		if capacity > 0 {
			cfg.capacity = capacity
		}
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithLogger sets the logger used for template loading and render events.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	tplExt      string
	capacity    int
	logger      zerolog.Logger
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		extension: ".tpl",
		logger:    zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("tplout", loaders...),
		templates:   make(map[string]*pongo2.Template),
		tplExt:      cfg.extension,
		capacity:    cfg.capacity,
		logger:      cfg.logger,
	}
	registerDefaultFilters()

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	return engine, nil
}

// RenderTo executes the named template and streams its output into out.
// Sink write errors abort the render and are returned wrapped.
func (e *Engine) RenderTo(name string, data any, out output.TemplateOutput) error {
	if e == nil || e.templateSet == nil {
		return ErrNilEngine
	}
	if out == nil {
		return errors.New("gotemplate: output is nil")
	}

	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return err
	}
	return e.execute(tmpl, data, out, fmt.Sprintf("template %q", templatePath))
}

// Render executes the named template into an accumulator and returns an
// independent copy of the rendered bytes.
func (e *Engine) Render(name string, data any) ([]byte, error) {
	return e.materialize(func(out output.TemplateOutput) error {
		return e.RenderTo(name, data, out)
	})
}

// RenderString parses templateContent and renders it like Render.
func (e *Engine) RenderString(templateContent string, data any) ([]byte, error) {
	if e == nil || e.templateSet == nil {
		return nil, ErrNilEngine
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.materialize(func(out output.TemplateOutput) error {
		return e.execute(tmpl, data, out, "template string")
	})
}

// RegisterFilter registers a template filter. pongo2 filters are global, so
// registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "custom_filter", OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext seeds global data on the template set.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return ErrNilEngine
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.templateSet.Globals == nil {
		e.templateSet.Globals = make(pongo2.Context)
	}
	e.templateSet.Globals.Update(globalCtx)
	return nil
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, out output.TemplateOutput, label string) error {
	viewContext, err := convertToContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: convert data: %w", err)
	}

	sink := &sinkWriter{w: output.AsWriter(out)}

	e.mu.RLock()
	err = tmpl.ExecuteWriterUnbuffered(viewContext, sink)
	e.mu.RUnlock()

	if sink.err != nil {
		err = sink.err
	}
	if err != nil {
		e.logger.Debug().Err(err).Str("template", label).Msg("render failed")
		return fmt.Errorf("gotemplate: execute %s: %w", label, err)
	}
	return nil
}

// sinkWriter keeps the first write error, since pongo2 nodes do not check
// the result of every write. Later writes are dropped.
type sinkWriter struct {
	w   io.Writer
	err error
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}

func (e *Engine) materialize(render func(output.TemplateOutput) error) ([]byte, error) {
	if e == nil || e.templateSet == nil {
		return nil, ErrNilEngine
	}

	var acc *output.ByteArrayOutput
	if e.capacity > 0 {
		acc = output.NewByteArrayOutputSize(e.capacity)
	} else {
		acc = output.AcquireByteArrayOutput()
		defer output.ReleaseByteArrayOutput(acc)
	}

	if err := render(acc); err != nil {
		return nil, err
	}
	return acc.Bytes(), nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}

	e.logger.Debug().Str("template", path).Msg("template loaded")
	e.templates[path] = tmpl
	return tmpl, nil
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		out := make(pongo2.Context, len(v))
		for key, value := range v {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			out[key] = value
		}
		return out, nil
	default:
		m, err := jsonToMap(v)
		if err != nil {
			return nil, err
		}
		return pongo2.Context(m), nil
	}
}

func jsonToMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
	if !pongo2.FilterExists("sanitize") {
		_ = pongo2.RegisterFilter("sanitize", filterSanitize)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterSanitize cleans user markup and marks the result safe so autoescape
// leaves it alone.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(html.SanitizeMarkup(in.String(), nil)), nil
}
