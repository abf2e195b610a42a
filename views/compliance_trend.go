package views

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"git.sr.ht/~rockorager/vaxis/vxfw/richtext"
	"github.com/deevus/compliance-tui/internal/autorefresh"
	"github.com/deevus/compliance-tui/internal/compliance"
	"github.com/deevus/compliance-tui/internal/errfmt"
	"github.com/deevus/compliance-tui/internal/selection"
	"github.com/deevus/compliance-tui/widgets"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// TrendViewParams holds configuration for creating a TrendView.
type TrendViewParams struct {
	Service     compliance.TrendServiceAPI
	Selection   *selection.Service
	AutoRefresh autorefresh.Provider
	Logger      zerolog.Logger
	PostEvent   func(vaxis.Event)

	// Optional hooks; tests use them to control time.
	Now         func() time.Time
	NewTicker   autorefresh.TickerFunc
	FormatError func(error) string
}

// TrendView displays the monthly compliance-percentage trend of the selected
// asset group.
type TrendView struct {
	service     compliance.TrendServiceAPI
	selection   *selection.Service
	refresh     autorefresh.Provider
	log         zerolog.Logger
	postEvent   func(vaxis.Event)
	now         func() time.Time
	newTicker   autorefresh.TickerFunc
	formatError func(error) string

	// View state (protected by mu)
	mu         sync.Mutex
	state      ViewState
	assetGroup string
	filters    selection.Filters
	series     *compliance.Series
	fromDate   string
	loadedAt   time.Time
	width      int
	measured   bool

	// In-flight fetch (protected by mu)
	baseCtx     context.Context
	generation  uint64
	cancelFetch context.CancelFunc

	// Subscriptions
	assetSub   *selection.Subscription[string]
	filterSub  *selection.Subscription[selection.Filters]
	ticker     autorefresh.Ticker
	cancelSubs context.CancelFunc
	group      *errgroup.Group
}

// NewTrendView creates a TrendView backed by the given params.
func NewTrendView(p TrendViewParams) *TrendView {
	tv := &TrendView{
		service:     p.Service,
		selection:   p.Selection,
		refresh:     p.AutoRefresh,
		log:         p.Logger.With().Str("component", "compliance_trend").Logger(),
		postEvent:   p.PostEvent,
		now:         p.Now,
		newTicker:   p.NewTicker,
		formatError: p.FormatError,
		state:       Idle(),
		filters:     selection.Filters{},
	}
	if tv.now == nil {
		tv.now = time.Now
	}
	if tv.newTicker == nil {
		tv.newTicker = autorefresh.NewTicker
	}
	if tv.formatError == nil {
		tv.formatError = errfmt.Format
	}
	if tv.refresh == nil {
		tv.refresh = autorefresh.Static{}
	}
	return tv
}

// Start subscribes to the selection streams and arms the auto-refresh ticker.
// The asset-group stream replays its current value, which triggers the first
// refresh. Auto-refresh settings are read once here and never again.
func (tv *TrendView) Start(ctx context.Context) {
	subCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(subCtx)

	tv.mu.Lock()
	tv.baseCtx = subCtx
	tv.mu.Unlock()

	tv.cancelSubs = cancel
	tv.group = g
	tv.filterSub = tv.selection.Filters.Subscribe()
	tv.assetSub = tv.selection.AssetGroups.Subscribe()

	settings := tv.refresh.Settings()
	if settings.Active() {
		tv.ticker = tv.newTicker(settings.Interval)
		tick := tv.ticker.C()
		g.Go(func() error { return tv.runTicker(gctx, tick) })
		tv.log.Info().Dur("interval", settings.Interval).Msg("auto refresh enabled")
	}

	filterSub, assetSub := tv.filterSub, tv.assetSub
	g.Go(func() error { return tv.runFilterSub(gctx, filterSub) })
	g.Go(func() error { return tv.runAssetGroupSub(gctx, assetSub) })
}

// Stop releases the subscriptions, the ticker and any in-flight fetch.
// Failures are logged and never propagated.
func (tv *TrendView) Stop() {
	defer func() {
		if r := recover(); r != nil {
			tv.log.Error().Interface("panic", r).Msg("error while releasing subscriptions")
		}
	}()

	tv.mu.Lock()
	if tv.cancelFetch != nil {
		tv.cancelFetch()
		tv.cancelFetch = nil
	}
	tv.mu.Unlock()

	if tv.cancelSubs != nil {
		tv.cancelSubs()
	}
	if tv.assetSub != nil {
		tv.assetSub.Close()
	}
	if tv.filterSub != nil {
		tv.filterSub.Close()
	}
	if tv.ticker != nil {
		tv.ticker.Stop()
	}
	if tv.group != nil {
		if err := tv.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			tv.log.Error().Err(err).Msg("error while releasing subscriptions")
		}
	}
}

func (tv *TrendView) runAssetGroupSub(ctx context.Context, sub *selection.Subscription[string]) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case name, ok := <-sub.C:
			if !ok {
				return nil
			}
			tv.mu.Lock()
			tv.assetGroup = name
			tv.mu.Unlock()
			tv.log.Debug().Str("asset_group", name).Msg("asset group changed")
			tv.Refresh()
		}
	}
}

func (tv *TrendView) runFilterSub(ctx context.Context, sub *selection.Subscription[selection.Filters]) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case filters, ok := <-sub.C:
			if !ok {
				return nil
			}
			tv.mu.Lock()
			tv.filters = filters
			tv.mu.Unlock()
			tv.notify(TrendUpdated{})
		}
	}
}

func (tv *TrendView) runTicker(ctx context.Context, tick <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			tv.Refresh()
		}
	}
}

// Refresh cancels any in-flight fetch and starts a new one for the current
// asset group. Only the newest fetch may update the view.
func (tv *TrendView) Refresh() {
	tv.mu.Lock()
	started, err := tv.startFetchLocked()
	if err != nil {
		tv.log.Error().Err(err).Msg("failed to start compliance trend fetch")
		tv.state = Failed(CodeInternalError)
	}
	tv.mu.Unlock()

	if started || err != nil {
		tv.notify(TrendUpdated{})
	}
}

func (tv *TrendView) startFetchLocked() (started bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			started = false
			err = fmt.Errorf("building trend request: %v", r)
		}
	}()

	if tv.cancelFetch != nil {
		tv.cancelFetch()
		tv.cancelFetch = nil
	}
	if tv.assetGroup == "" {
		tv.log.Warn().Msg("refresh skipped: no asset group selected")
		return false, nil
	}

	tv.generation++
	gen := tv.generation
	tv.state = Loading()

	req := compliance.NewTrendRequest(tv.assetGroup, tv.now())
	tv.fromDate = req.From

	base := tv.baseCtx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	tv.cancelFetch = cancel

	go tv.fetch(ctx, gen, req)
	return true, nil
}

func (tv *TrendView) fetch(ctx context.Context, gen uint64, req compliance.TrendRequest) {
	series, err := tv.service.Fetch(ctx, req)

	tv.mu.Lock()
	if gen != tv.generation || ctx.Err() != nil {
		tv.mu.Unlock()
		tv.log.Debug().Uint64("generation", gen).Msg("discarding superseded trend response")
		return
	}
	tv.cancelFetch()
	tv.cancelFetch = nil
	tv.applyLocked(series, err)
	loaded := TrendLoaded{AssetGroup: req.AssetGroup, State: tv.state}
	tv.mu.Unlock()

	tv.notify(loaded)
}

func (tv *TrendView) applyLocked(series []compliance.Series, err error) {
	defer func() {
		if r := recover(); r != nil {
			tv.log.Error().Interface("panic", r).Msg("failed to process trend response")
			tv.state = Failed(CodeInternalError)
		}
	}()

	if err != nil {
		tv.log.Warn().Err(err).Str("asset_group", tv.assetGroup).Msg("compliance trend request failed")
		tv.state = Failed(CodeAPIResponseError)
		return
	}
	if len(series) == 0 {
		tv.state = Failed(CodeNoDataAvailable)
		return
	}

	found, ok, err := compliance.FindSeries(series)
	if err != nil {
		tv.log.Error().Err(err).Msg("failed to process trend response")
		tv.state = Failed(CodeInternalError)
		return
	}
	if ok {
		tv.series = &found
	}
	tv.state = Loaded()
	tv.loadedAt = tv.now()
}

// Measure records the width the chart is laid out at. The first call is the
// initial measurement; a non-positive width there puts the view into the
// error state with a formatted message.
func (tv *TrendView) Measure(width int) {
	tv.mu.Lock()
	first := !tv.measured
	tv.measured = true
	if width > 0 {
		tv.width = width
		tv.mu.Unlock()
		return
	}
	if !first {
		tv.mu.Unlock()
		return
	}
	err := fmt.Errorf("cannot lay out compliance trend in %d columns", width)
	tv.state = Failed(tv.formatError(err))
	tv.mu.Unlock()

	tv.log.Error().Err(err).Msg("initial layout failed")
	tv.notify(TrendUpdated{})
}

func (tv *TrendView) notify(ev vaxis.Event) {
	if tv.postEvent != nil {
		tv.postEvent(ev)
	}
}

// State returns the current view state.
func (tv *TrendView) State() ViewState {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return tv.state
}

// Series returns the plotted series, if one has been loaded.
func (tv *TrendView) Series() (compliance.Series, bool) {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	if tv.series == nil {
		return compliance.Series{}, false
	}
	return *tv.series, true
}

// AssetGroup returns the asset group of the latest refresh trigger.
func (tv *TrendView) AssetGroup() string {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return tv.assetGroup
}

// Filters returns the cached filter context.
func (tv *TrendView) Filters() selection.Filters {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return tv.filters
}

// Width returns the last measured width.
func (tv *TrendView) Width() int {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return tv.width
}

type trendSnapshot struct {
	state      ViewState
	assetGroup string
	filters    selection.Filters
	series     *compliance.Series
	fromDate   string
	loadedAt   time.Time
}

func (tv *TrendView) snapshot() trendSnapshot {
	tv.mu.Lock()
	defer tv.mu.Unlock()
	return trendSnapshot{
		state:      tv.state,
		assetGroup: tv.assetGroup,
		filters:    tv.filters,
		series:     tv.series,
		fromDate:   tv.fromDate,
		loadedAt:   tv.loadedAt,
	}
}

// Rows reserved below the chart for recent points.
const recentRows = 6

// Draw renders the header, the latest-value gauge, the chart and a table of
// recent points. Loading and error states replace everything below the header.
func (tv *TrendView) Draw(ctx vxfw.DrawContext) (vxfw.Surface, error) {
	tv.Measure(int(ctx.Max.Width))
	snap := tv.snapshot()

	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, tv)
	if ctx.Max.Height == 0 {
		return s, nil
	}
	row := 0
	line := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1})

	// === Header row ===
	header := richtext.New(tv.headerSegments(snap))
	headerSurf, err := header.Draw(line)
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, row, headerSurf)
	row++

	remaining := int(ctx.Max.Height) - row
	if remaining <= 0 {
		return s, nil
	}
	body := ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(remaining)})

	var bodySurf vxfw.Surface
	switch {
	case snap.state.State == StateError:
		bodySurf, err = drawErrorState(body, tv, snap.state.Text())
	case snap.state.State != StateLoaded:
		bodySurf, err = drawLoadingState(body, tv)
	case snap.series == nil:
		bodySurf, err = drawMessage(body, tv, []vaxis.Segment{
			{Text: "No " + compliance.SeriesKey + " series in response", Style: vaxis.Style{Attribute: vaxis.AttrDim}},
		})
	default:
		bodySurf, err = tv.drawSeries(body, *snap.series)
	}
	if err != nil {
		return vxfw.Surface{}, err
	}
	s.AddChild(0, row, bodySurf)
	return s, nil
}

func (tv *TrendView) headerSegments(snap trendSnapshot) []vaxis.Segment {
	segments := []vaxis.Segment{
		{Text: " " + snap.assetGroup + "  ", Style: vaxis.Style{Attribute: vaxis.AttrBold}},
	}
	if snap.fromDate != "" {
		segments = append(segments, vaxis.Segment{
			Text: "since " + snap.fromDate + "  ", Style: vaxis.Style{Attribute: vaxis.AttrDim},
		})
	}
	if f := formatFilters(snap.filters); f != "" {
		segments = append(segments, vaxis.Segment{Text: f + "  "})
	}
	if !snap.loadedAt.IsZero() {
		segments = append(segments, vaxis.Segment{
			Text: "updated " + humanize.Time(snap.loadedAt), Style: vaxis.Style{Attribute: vaxis.AttrDim},
		})
	}
	return segments
}

func (tv *TrendView) drawSeries(ctx vxfw.DrawContext, series compliance.Series) (vxfw.Surface, error) {
	s := vxfw.NewSurface(ctx.Max.Width, ctx.Max.Height, tv)
	row := 0
	height := int(ctx.Max.Height)

	// === Latest value gauge ===
	if latest, ok := series.Latest(); ok {
		suffix := latest.Date
		if first := series.Values[0]; len(series.Values) > 1 {
			suffix = fmt.Sprintf("%s pts since %s", signed(latest.Value-first.Value), first.Date)
		}
		gauge := &widgets.BarGauge{
			Label:      "NOW",
			Value:      latest.Value,
			Suffix:     suffix,
			BarWidth:   30,
			HighIsGood: true,
		}
		gaugeSurf, err := gauge.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: 1}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, gaugeSurf)
		row += 2
	}

	// === Recent points table, if there is room ===
	tableRows := 0
	if height-row >= recentRows+8 {
		tableRows = recentRows
	}

	// === Chart ===
	chartHeight := height - row - tableRows
	if chartHeight > 0 {
		chart := &widgets.TrendChart{
			YLabel:     "Compliance %",
			Legend:     strings.ToLower(series.Key),
			ShowLegend: true,
			Points:     chartPoints(series),
		}
		chartSurf, err := chart.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(chartHeight)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, chartSurf)
		row += chartHeight
	}

	if tableRows > 0 {
		tbl := &widgets.Table{
			Columns: []widgets.TableColumn{
				{Width: 12},
				{Width: 10, AlignRight: true},
				{Width: 8, AlignRight: true},
			},
			Header: []string{" DATE", "COMPLIANCE", "CHANGE"},
			Rows:   tableRowsFor(series),
			Gap:    2,
			Tail:   true,
		}
		tblSurf, err := tbl.Draw(ctx.WithMax(vxfw.Size{Width: ctx.Max.Width, Height: uint16(tableRows)}))
		if err != nil {
			return vxfw.Surface{}, err
		}
		s.AddChild(0, row, tblSurf)
	}

	return s, nil
}

// HandleEvent tracks terminal resizes for the layout.
func (tv *TrendView) HandleEvent(ev vaxis.Event, phase vxfw.EventPhase) (vxfw.Command, error) {
	if ev, ok := ev.(vaxis.Resize); ok {
		tv.Measure(ev.Cols)
	}
	return nil, nil
}

func chartPoints(series compliance.Series) []widgets.ChartPoint {
	points := make([]widgets.ChartPoint, 0, len(series.Values))
	for _, v := range series.Values {
		points = append(points, widgets.ChartPoint{Label: v.Date, Value: v.Value})
	}
	return points
}

func tableRowsFor(series compliance.Series) [][]string {
	rows := make([][]string, 0, len(series.Values))
	for i, v := range series.Values {
		change := ""
		if i > 0 {
			change = signed(v.Value - series.Values[i-1].Value)
		}
		rows = append(rows, []string{
			" " + v.Date,
			humanize.FtoaWithDigits(v.Value, 2) + "%",
			change,
		})
	}
	return rows
}

// signed formats v with one decimal and an explicit sign.
func signed(v float64) string {
	s := humanize.FtoaWithDigits(v, 1)
	if v > 0 {
		return "+" + s
	}
	return s
}

// formatFilters renders filters as "k=v, k=v" sorted by key.
func formatFilters(filters selection.Filters) string {
	if len(filters) == 0 {
		return ""
	}
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+filters[k])
	}
	return strings.Join(parts, ", ")
}
