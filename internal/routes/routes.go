// Package routes builds localized storefront URLs with go-urlkit.
package routes

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-deepwood/internal/locales"
)

const (
	RootGroup = "storefront"

	Home     = "home"
	Products = "products"
	Product  = "product"
	Projects = "projects"
	Project  = "project"
	Contact  = "contact"

	// XDefault is the hreflang key for the unprefixed URL.
	XDefault = "x-default"
)

var ErrUnknownRoute = errors.New("routes: unknown route")

// DefaultPaths are the route templates shared by every locale.
func DefaultPaths() map[string]string {
	return map[string]string{
		Home:     "/",
		Products: "/products",
		Product:  "/products/:slug",
		Projects: "/projects",
		Project:  "/projects/:slug",
		Contact:  "/contact",
	}
}

// Config configures the router. Paths overrides templates per locale code.
type Config struct {
	BaseURL string
	Paths   map[string]map[string]string
}

// Router resolves route names to absolute URLs per locale.
type Router struct {
	manager *urlkit.RouteManager
	locales *locales.Registry
	root    *urlkit.Group
	groups  map[string]*urlkit.Group
	paths   map[string]map[string]string
}

// New registers one urlkit group per locale under a shared root group.
func New(cfg Config, registry *locales.Registry) (*Router, error) {
	if registry == nil {
		return nil, errors.New("routes: locale registry is required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	rootPaths := DefaultPaths()
	children := make([]urlkit.GroupConfig, 0, len(registry.List()))
	paths := map[string]map[string]string{"": rootPaths}
	for _, loc := range registry.List() {
		localePaths := DefaultPaths()
		maps.Copy(localePaths, cfg.Paths[loc.Code])
		paths[loc.Code] = localePaths
		children = append(children, urlkit.GroupConfig{
			Name:  loc.Code,
			Path:  "/" + loc.Code,
			Paths: localePaths,
		})
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    RootGroup,
				BaseURL: base,
				Paths:   rootPaths,
				Groups:  children,
			},
		},
	})

	root, err := lookupGroup(manager, RootGroup)
	if err != nil {
		return nil, err
	}
	r := &Router{
		manager: manager,
		locales: registry,
		root:    root,
		groups:  make(map[string]*urlkit.Group, len(children)),
		paths:   paths,
	}
	for _, child := range children {
		group, err := lookupChildGroup(root, child.Name)
		if err != nil {
			return nil, err
		}
		r.groups[child.Name] = group
	}
	return r, nil
}

// Manager exposes the underlying route manager.
func (r *Router) Manager() *urlkit.RouteManager {
	return r.manager
}

// URL builds route for locale. An empty locale builds the unprefixed URL.
func (r *Router) URL(locale, route string, params map[string]any) (string, error) {
	group := r.root
	key := ""
	if strings.TrimSpace(locale) != "" {
		loc, err := r.locales.Get(locale)
		if err != nil {
			return "", err
		}
		group = r.groups[loc.Code]
		key = loc.Code
	}
	if _, ok := r.paths[key][route]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, route)
	}

	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for name, value := range params {
		builder.WithParam(name, value)
	}
	return builder.Build()
}

func (r *Router) ProductURL(locale, slug string) (string, error) {
	return r.URL(locale, Product, map[string]any{"slug": slug})
}

func (r *Router) ProjectURL(locale, slug string) (string, error) {
	return r.URL(locale, Project, map[string]any{"slug": slug})
}

// Alternates returns the hreflang map for route: one URL per locale plus
// x-default pointing at the unprefixed URL.
func (r *Router) Alternates(route, slug string) (map[string]string, error) {
	var params map[string]any
	if slug != "" {
		params = map[string]any{"slug": slug}
	}
	out := make(map[string]string, len(r.groups)+1)
	for _, code := range r.locales.Codes() {
		url, err := r.URL(code, route, params)
		if err != nil {
			return nil, err
		}
		out[code] = url
	}
	url, err := r.URL("", route, params)
	if err != nil {
		return nil, err
	}
	out[XDefault] = url
	return out, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, errors.New("routes: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %q: %v", ErrUnknownRoute, route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}
