package app

import (
	"context"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/compliance-tui/internal"
	"github.com/deevus/compliance-tui/views"
	"github.com/deevus/compliance-tui/widgets"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Minimum spacing between manual refreshes.
const manualRefreshInterval = time.Second

// Params configures the root App widget.
type Params struct {
	Services    *internal.Services
	ServerName  string
	AssetGroups []string
	Logger      zerolog.Logger
}

// App is the root vxfw widget for compliance-tui.
type App struct {
	services   *internal.Services
	serverName string
	tabBar     *widgets.TabBar
	trend      *views.TrendView
	limiter    *rate.Limiter
	log        zerolog.Logger
	postEvent  func(vaxis.Event)
}

// New creates the root App widget connected to the given services.
// Without services only the quit key is handled.
func New(p Params) *App {
	a := &App{
		services:   p.Services,
		serverName: p.ServerName,
		tabBar:     widgets.NewTabBar(p.AssetGroups),
		limiter:    rate.NewLimiter(rate.Every(manualRefreshInterval), 1),
		log:        p.Logger,
	}
	a.tabBar.Title = "Asset group"

	if p.Services != nil {
		if cur, ok := p.Services.Selection.AssetGroups.Current(); ok {
			a.tabBar.SetActiveLabel(cur)
		}
		a.trend = views.NewTrendView(views.TrendViewParams{
			Service:     p.Services.Trend,
			Selection:   p.Services.Selection,
			AutoRefresh: p.Services.AutoRefresh,
			Logger:      p.Logger,
			PostEvent:   a.post,
		})
	}
	return a
}

// SetPostEvent sets the function used to post events to the vaxis event loop.
// Must be called before Start.
func (a *App) SetPostEvent(fn func(vaxis.Event)) {
	a.postEvent = fn
}

func (a *App) post(ev vaxis.Event) {
	if a.postEvent != nil {
		a.postEvent(ev)
	}
}

// IsConnected reports whether the app has services to talk to.
func (a *App) IsConnected() bool {
	return a.services != nil
}

// ActiveTab returns the current asset group tab index.
func (a *App) ActiveTab() int {
	return a.tabBar.Active()
}

// ActiveAssetGroup returns the asset group of the active tab.
func (a *App) ActiveAssetGroup() string {
	return a.tabBar.ActiveLabel()
}

// ServerName returns the connected server profile name.
func (a *App) ServerName() string {
	return a.serverName
}

// Trend returns the compliance trend view, or nil when not connected.
func (a *App) Trend() *views.TrendView {
	return a.trend
}

// Start begins loading the trend for the selected asset group.
func (a *App) Start(ctx context.Context) {
	if a.trend == nil {
		return
	}
	a.log.Info().Str("server", a.serverName).Str("asset_group", a.tabBar.ActiveLabel()).Msg("starting compliance trend")
	a.trend.Start(ctx)
}

// Stop releases the trend view's subscriptions.
func (a *App) Stop() {
	if a.trend != nil {
		a.trend.Stop()
	}
}

// Draw renders the asset group bar, the trend view and a key help line.
func (a *App) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, a)
	if ctx.Max.Height == 0 {
		return s, nil
	}
	line := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})

	// Tab bar (1 row)
	tabSurf, err := a.tabBar.Draw(line)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 0, tabSurf)

	if ctx.Max.Height < 3 {
		return s, nil
	}

	// Active view (remaining space minus the help line)
	viewCtx := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: ctx.Max.Height - 2})
	var viewSurf vxfw.Surface
	if a.trend != nil {
		viewSurf, err = a.trend.Draw(viewCtx)
	} else {
		viewSurf, err = richtext.New([]vaxis.Segment{
			{Text: " Not connected to " + a.serverName, Style: vaxis.Style{Foreground: vaxis.IndexColor(1)}},
		}).Draw(viewCtx)
	}
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, 1, viewSurf)

	helpSurf, err := richtext.New(a.helpSegments()).Draw(line)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, int(ctx.Max.Height)-1, helpSurf)

	return s, nil
}

func (a *App) helpSegments() []vaxis.Segment {
	key := vaxis.Style{Attribute: vaxis.AttrBold}
	dim := vaxis.Style{Attribute: vaxis.AttrDim}
	return []vaxis.Segment{
		{Text: " q", Style: key}, {Text: " quit  ", Style: dim},
		{Text: "r", Style: key}, {Text: " refresh  ", Style: dim},
		{Text: "tab/1-9", Style: key}, {Text: " asset group  ", Style: dim},
		{Text: a.serverName, Style: dim},
	}
}

// CaptureEvent handles global keybindings before views process them.
func (a *App) CaptureEvent(ev vaxis.Event) (vxfw.Command, error) {
	key, ok := ev.(vaxis.Key)
	if !ok {
		return nil, nil
	}
	if key.Matches('q') {
		return vxfw.QuitCmd{}, nil
	}
	if !a.IsConnected() {
		return nil, nil
	}

	prev := a.tabBar.ActiveLabel()
	switch {
	case key.Matches('r'):
		if a.limiter.Allow() {
			a.trend.Refresh()
		} else {
			a.log.Debug().Msg("manual refresh throttled")
		}
		return vxfw.ConsumeAndRedraw(), nil
	case key.Matches(vaxis.KeyTab):
		a.tabBar.Next()
	case key.Matches(vaxis.KeyTab, vaxis.ModShift):
		a.tabBar.Prev()
	case key.Keycode >= '1' && key.Keycode <= '9' && key.Modifiers == 0:
		a.tabBar.SetActive(int(key.Keycode - '1'))
	default:
		return nil, nil
	}

	if label := a.tabBar.ActiveLabel(); label != prev {
		a.services.Selection.SelectAssetGroup(label)
	}
	return vxfw.ConsumeAndRedraw(), nil
}

// HandleEvent redraws on trend events and delegates the rest to the view.
func (a *App) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	switch ev := ev.(type) {
	case views.TrendLoaded:
		if ev.State.State == views.StateError {
			a.log.Warn().Str("asset_group", ev.AssetGroup).Str("error", ev.State.Message).Msg("compliance trend failed")
		} else {
			a.log.Debug().Str("asset_group", ev.AssetGroup).Msg("compliance trend loaded")
		}
		return vxfw.RedrawCmd{}, nil
	case views.TrendUpdated:
		return vxfw.RedrawCmd{}, nil
	default:
		if a.trend != nil {
			return a.trend.HandleEvent(ev, phase)
		}
	}
	return nil, nil
}
