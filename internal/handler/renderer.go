package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
)

// Renderer manages template parsing and rendering with isolated template sets.
// It supports three layouts:
//   - "public" layout for the blog and portfolio pages
//   - "auth" layout for the admin login page
//   - "admin" layout for the admin panel
//
// Templates are organized as:
//   - layouts/public.html, layouts/auth.html, layouts/admin.html - base layouts
//   - components/*.html - reusable components (shared across layouts)
//   - pages/public/*.html - public pages (use public layout)
//   - pages/auth/*.html - auth pages (use auth layout)
//   - pages/admin/**/*.html - admin pages (use admin layout)
type Renderer struct {
	templates map[string]*template.Template
	funcs     template.FuncMap
	logger    *slog.Logger
	isDev     bool
	mu        sync.RWMutex

	// For dev mode hot-reload
	templatesDir string
}

// RendererConfig holds configuration for the renderer.
type RendererConfig struct {
	TemplatesDir string
	Logger       *slog.Logger
	IsDev        bool

	// PreviewLength bounds the preview template helper
	PreviewLength int
}

// NewRenderer creates a new template renderer.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	r := &Renderer{
		templates:    make(map[string]*template.Template),
		funcs:        TemplateFuncs(cfg.PreviewLength),
		logger:       cfg.Logger,
		isDev:        cfg.IsDev,
		templatesDir: cfg.TemplatesDir,
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) loadTemplates() error {
	templatesDir := r.templatesDir

	// Component templates, shared across layouts, recursively from all subdirs
	var componentFiles []string
	componentsDir := filepath.Join(templatesDir, "components")
	err := filepath.WalkDir(componentsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".html") {
			componentFiles = append(componentFiles, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk components dir: %w", err)
	}

	layouts := []struct {
		name     string
		pagesDir string
		prefix   string
		nested   []string
	}{
		{"public", "public", "public/", nil},
		{"auth", "auth", "auth/", nil},
		{"admin", "admin", "admin/", []string{"blog", "portfolio", "accounts"}},
	}

	for _, layout := range layouts {
		layoutPath := filepath.Join(templatesDir, "layouts", layout.name+".html")
		baseTmpl, err := template.New(layout.name).Funcs(r.funcs).ParseFiles(layoutPath)
		if err != nil {
			return fmt.Errorf("failed to parse %s layout: %w", layout.name, err)
		}

		if len(componentFiles) > 0 {
			baseTmpl, err = baseTmpl.ParseFiles(componentFiles...)
			if err != nil {
				return fmt.Errorf("failed to parse components into %s layout: %w", layout.name, err)
			}
		}

		dirs := []string{""}
		for _, nested := range layout.nested {
			dirs = append(dirs, nested)
		}

		for _, dir := range dirs {
			pattern := filepath.Join(templatesDir, "pages", layout.pagesDir, dir, "*.html")
			pages, err := filepath.Glob(pattern)
			if err != nil {
				return fmt.Errorf("failed to glob %s pages: %w", layout.name, err)
			}

			for _, page := range pages {
				pageTmpl, err := baseTmpl.Clone()
				if err != nil {
					return fmt.Errorf("failed to clone %s template for %s: %w", layout.name, page, err)
				}

				pageTmpl, err = pageTmpl.ParseFiles(page)
				if err != nil {
					return fmt.Errorf("failed to parse page %s: %w", page, err)
				}

				// Stored as "public/index", "admin/blog/index", etc.
				pageName := filepath.Base(page)
				pageName = strings.TrimSuffix(pageName, filepath.Ext(pageName))
				key := layout.prefix + pageName
				if dir != "" {
					key = layout.prefix + dir + "/" + pageName
				}
				r.templates[key] = pageTmpl
			}
		}
	}

	r.logger.Info("templates loaded", "count", len(r.templates))
	return nil
}

// Reload reloads all templates from disk. Useful for development.
func (r *Renderer) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates = make(map[string]*template.Template)
	return r.loadTemplates()
}

// Execute returns the named template for manual execution.
func (r *Renderer) Execute(name string) (*template.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// Render renders a template to an io.Writer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	// In dev mode, reload templates on each request
	if r.isDev {
		if err := r.Reload(); err != nil {
			return fmt.Errorf("template reload failed: %w", err)
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	execName := r.getBaseTemplateName(name)

	return tmpl.ExecuteTemplate(w, execName, data)
}

// RenderHTTP renders a template directly to an http.ResponseWriter.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	if r.isDev {
		if err := r.Reload(); err != nil {
			r.logger.Error("template reload failed", "error", err)
			http.Error(w, "Template reload failed", http.StatusInternalServerError)
			return
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Error("template not found", "name", name)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	execName := r.getBaseTemplateName(name)

	// Render to buffer first to catch errors before writing headers
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		r.logger.Error("template execution failed", "name", name, "error", err)
		http.Error(w, "Template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// getBaseTemplateName determines which base template to execute.
func (r *Renderer) getBaseTemplateName(name string) string {
	switch {
	case strings.HasPrefix(name, "auth/"):
		return "auth"
	case strings.HasPrefix(name, "admin/"):
		return "admin"
	default:
		return "public"
	}
}

// ListTemplates returns a list of all loaded template names.
// Useful for debugging.
func (r *Renderer) ListTemplates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}
