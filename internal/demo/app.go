// Package demo is a small blog application that renders a post form, verifies
// submissions and re-displays the form with validation messages when the
// submitted post is invalid.
package demo

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/goliatone/go-formbind/pkg/definition"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/httpform"
	"github.com/goliatone/go-formbind/pkg/mvc"
	"github.com/goliatone/go-formbind/pkg/namespace"
	"github.com/goliatone/go-formbind/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formbind/pkg/renderers/html"
	"github.com/goliatone/go-formbind/pkg/security"
	"github.com/goliatone/go-formbind/pkg/submission"
)

//go:embed forms/*.yaml templates/*.tmpl
var assets embed.FS

// MinTitleLength is the shortest title a post accepts.
const MinTitleLength = 3

var ErrNoHasher = errors.New("demo: hash service is required")

type Options struct {
	Hasher     *security.HashService
	Namespaces *namespace.Resolver
	Logger     *slog.Logger
}

type App struct {
	def        definition.Definition
	hasher     *security.HashService
	namespaces *namespace.Resolver
	forms      *html.Renderer
	pages      *gotemplate.Engine
	store      *Store
	logger     *slog.Logger
}

func New(opts Options) (*App, error) {
	if opts.Hasher == nil {
		return nil, ErrNoHasher
	}
	if opts.Namespaces == nil {
		opts.Namespaces = namespace.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	raw, err := assets.ReadFile("forms/post.yaml")
	if err != nil {
		return nil, fmt.Errorf("demo: read form definition: %w", err)
	}
	def, err := definition.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}

	forms, err := html.New()
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	pageFS, err := fs.Sub(assets, "templates")
	if err != nil {
		return nil, fmt.Errorf("demo: page templates: %w", err)
	}
	pages, err := gotemplate.New(gotemplate.WithFS(pageFS))
	if err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}

	return &App{
		def:        def,
		hasher:     opts.Hasher,
		namespaces: opts.Namespaces,
		forms:      forms,
		pages:      pages,
		store:      NewStore(),
		logger:     opts.Logger,
	}, nil
}

// Store exposes the posts created through the app.
func (a *App) Store() *Store {
	return a.store
}

// Routes returns the app's HTTP handler.
func (a *App) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/posts/new", http.StatusFound)
	})

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", a.listPosts)
		r.Get("/new", a.newPost)
		r.Get("/{id}", a.showPost)

		r.With(httpform.Middleware(
			httpform.WithRoute(a.def.Route.WithAction("create")),
			httpform.WithVerifier(submission.NewService(a.hasher)),
			httpform.WithNamespaceResolver(a.namespaces),
			httpform.WithLogger(a.logger),
		)).Post("/", a.createPost)
	})
	return r
}

func (a *App) newPost(w http.ResponseWriter, r *http.Request) {
	req, err := httpform.FromHTTP(r, a.def.Route, a.namespace())
	if err != nil {
		httpform.WriteError(w, r, httpform.StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}
	a.renderForm(w, r, req, http.StatusOK)
}

func (a *App) createPost(w http.ResponseWriter, r *http.Request) {
	sub, ok := httpform.SubmissionFromContext(r.Context())
	if !ok {
		httpform.WriteError(w, r, httpform.StatusError{Code: http.StatusBadRequest})
		return
	}

	post, _ := sub.Arguments[a.def.Object].(map[string]any)
	title := strings.TrimSpace(stringArg(post, "title"))
	body := strings.TrimSpace(stringArg(post, "body"))

	if problems := validatePost(title, body); len(problems) > 0 {
		a.logger.Info("post rejected", "problems", len(problems))
		failed := httpform.NewRequest(a.def.Route.WithAction("create"), sub.Arguments)
		req := httpform.Resubmission(a.def.Route, sub.ReferrerArguments, failed, mvc.ResultFromPayload(problems))
		a.renderForm(w, r, req, http.StatusUnprocessableEntity)
		return
	}

	created := a.store.Create(title, body)
	a.logger.Info("post created", "id", created.ID.String())
	http.Redirect(w, r, "/posts/"+created.ID.String(), http.StatusSeeOther)
}

func (a *App) listPosts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.store.List())
}

func (a *App) showPost(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post id: " + raw})
		return
	}
	post, ok := a.store.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (a *App) renderForm(w http.ResponseWriter, r *http.Request, req mvc.Request, status int) {
	f, err := definition.Build(a.def, req,
		form.WithHashService(a.hasher),
		form.WithNamespaceResolver(a.namespaces),
		form.WithLogger(a.logger),
	)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	rendered, err := f.Render()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	markup, err := a.forms.Render(r.Context(), rendered, html.Options{
		Action: a.def.Render.Action,
		Method: a.def.Render.Method,
		ID:     a.def.Render.ID,
		Submit: a.def.Render.Submit,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	var flash string
	if status == http.StatusUnprocessableEntity {
		flash = "Please correct the highlighted fields."
	}
	page, err := a.pages.RenderTemplate("page", map[string]any{
		"title": "New post",
		"flash": flash,
		"form":  string(markup),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", a.forms.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("render post form", "path", r.URL.Path, "error", err)
	httpform.WriteError(w, r, httpform.StatusError{Code: http.StatusInternalServerError, Err: err})
}

func (a *App) namespace() string {
	return a.namespaces.PluginNamespace(a.def.Route.Extension, a.def.Route.Plugin)
}

// validatePost returns messages keyed by property path.
func validatePost(title, body string) map[string][]string {
	problems := map[string][]string{}
	switch {
	case title == "":
		problems["post.title"] = append(problems["post.title"], "Title is required")
	case utf8.RuneCountInString(title) < MinTitleLength:
		problems["post.title"] = append(problems["post.title"], fmt.Sprintf("Title must be at least %d characters", MinTitleLength))
	}
	if body == "" {
		problems["post.body"] = append(problems["post.body"], "Body is required")
	}
	return problems
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
