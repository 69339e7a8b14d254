package router

import (
	"io/fs"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/smarthome/camserve/routing"
	"github.com/smarthome/camserve/static"
	"github.com/smarthome/camserve/web"
)

// StaticPattern is the built-in route serving packaged assets.
const StaticPattern = "^/(static/.+)"

// App is a mountable web application: an ordered route table plus child apps
// mounted under path prefixes. Routes and mounts are registered at startup;
// once serving starts the tree is only read.
type App struct {
	name    string
	prefix  string
	routes  routing.RouteTable
	mounts  []*App
	headers routing.HeaderMode
	logger  logrus.FieldLogger

	onInit   []func(*App)
	initOnce sync.Once
	inited   atomic.Bool
}

type Option func(*App)

// WithStatic registers the built-in /static/<path> route served from fsys.
func WithStatic(fsys fs.FS) Option {
	return func(a *App) {
		a.Route(routing.MustRegexp(StaticPattern), static.Handler(fsys))
	}
}

// WithHeaderMode sets the mode used by routes that leave it unset.
func WithHeaderMode(mode routing.HeaderMode) Option {
	return func(a *App) {
		a.headers = mode
	}
}

// WithInit adds a hook run once when the app is initialized. Hooks may only
// register routes on the app they are given.
func WithInit(fn func(*App)) Option {
	return func(a *App) {
		a.onInit = append(a.onInit, fn)
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New creates an app whose routes default to header mode parse.
func New(name string, opts ...Option) *App {
	a := &App{
		name:    name,
		headers: routing.HeadersParse,
		logger:  logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *App) Name() string {
	return a.name
}

// Prefix is the mount prefix, empty for a root app.
func (a *App) Prefix() string {
	return a.prefix
}

// HeaderMode is the app's default header mode.
func (a *App) HeaderMode() routing.HeaderMode {
	return a.headers
}

// Route registers a route. Routes are tried in the order they are added.
func (a *App) Route(p routing.Pattern, h web.Handler, opts ...routing.Option) {
	a.routes.Add(routing.NewRoute(p, h, opts...))
}

// Handle registers h for exactly path.
func (a *App) Handle(path string, h web.Handler, opts ...routing.Option) {
	a.Route(routing.Literal(path), h, opts...)
}

// HandleFunc registers f for exactly path.
func (a *App) HandleFunc(path string, f web.HandlerFunc, opts ...routing.Option) {
	a.Route(routing.Literal(path), f, opts...)
}

// HandleRegexp registers h for paths matching expr. It panics if expr does
// not compile.
func (a *App) HandleRegexp(expr string, h web.Handler, opts ...routing.Option) {
	a.Route(routing.MustRegexp(expr), h, opts...)
}

// Routes returns the route table.
func (a *App) Routes() []*routing.Route {
	return a.routes.Routes()
}

// Mount attaches child under prefix. Mounts are kept sorted by descending
// prefix length so the longest prefix is tried first.
func (a *App) Mount(prefix string, child *App) {
	child.prefix = prefix
	a.mounts = append(a.mounts, child)
	sort.SliceStable(a.mounts, func(i, j int) bool {
		return len(a.mounts[i].prefix) > len(a.mounts[j].prefix)
	})
}

// Mounts returns the child apps, longest prefix first.
func (a *App) Mounts() []*App {
	return a.mounts
}

// Init runs the init hooks. Only the first call has any effect.
func (a *App) Init() {
	a.initOnce.Do(func() {
		for _, fn := range a.onInit {
			fn(a)
		}
		a.inited.Store(true)
		a.logger.WithFields(logrus.Fields{
			"app":    a.name,
			"prefix": a.prefix,
			"routes": a.routes.Len(),
		}).Debug("app initialized")
	})
}

func (a *App) Inited() bool {
	return a.inited.Load()
}

// InitMounts initializes every directly mounted app.
func (a *App) InitMounts() {
	for _, m := range a.mounts {
		m.Init()
	}
}

// Resolve walks the mount tree and then the route table of the app it ends
// in. That app is initialized on first use.
func (a *App) Resolve(path string) Resolution {
	app := a
	for {
		child := app.mountFor(path)
		if child == nil {
			break
		}
		path = path[len(child.prefix):]
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		app = child
	}

	app.Init()

	res := Resolution{App: app, Path: path, HeaderMode: routing.HeadersSkip}
	route, m, typ := app.routes.Resolve(path)
	if route == nil {
		return res
	}
	res.Route = route
	res.Match = m
	res.Type = typ
	res.HeaderMode = route.Options.Headers
	if res.HeaderMode == routing.HeadersDefault {
		res.HeaderMode = app.headers
	}
	return res
}

func (a *App) mountFor(path string) *App {
	for _, m := range a.mounts {
		if strings.HasPrefix(path, m.prefix) {
			return m
		}
	}
	return nil
}
