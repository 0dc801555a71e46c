package grid

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Grid is a virtualized icon/image grid: it shows an ordered list of content
// identifiers inside a scrollable viewport while only ever realizing the
// visible window of item widgets. Content pixels, metadata and favorite
// state come from the injected providers; the grid itself owns geometry,
// realization and selection.
//
// All methods must be called on the UI thread.
type Grid struct {
	widget.BaseWidget

	cfg          Config
	baseItemSize float32

	content []string
	index   map[string]int // id -> linear index, rebuilt on SetContent

	lay         layoutResult
	layoutValid bool

	scroll    *container.Scroll
	canvasBox *fyne.Container
	zoom      *zoomScrollOverlay
	pool      *itemPool
	sel       *selectionState

	meta MetadataProvider

	zoomLevel int
	tooltip   *widget.PopUp

	// Emitted on the UI thread, synchronously with the triggering input.
	OnSelected         func(id string)
	OnActivated        func(id string)
	OnSelectionChanged func(ids []string)
	OnContextMenu      func(id string, pos fyne.Position)
}

// New creates a grid wired to the given collaborators. meta and favs may be
// nil; tooltips then degrade to the raw identifier and the favorite badge
// stays hidden.
func New(cfg Config, thumbs ThumbnailProvider, meta MetadataProvider, favs FavoriteProvider) *Grid {
	g := &Grid{
		cfg:   cfg.normalized(),
		index: make(map[string]int),
		sel:   newSelectionState(),
		meta:  meta,
	}
	g.baseItemSize = g.cfg.ItemSize
	g.zoomLevel = defaultZoomLevelIndex
	g.loadZoomPref()

	g.canvasBox = container.New(&virtualLayout{g: g})
	g.scroll = container.NewVScroll(g.canvasBox)
	g.scroll.OnScrolled = func(fyne.Position) {
		g.hideTooltip()
		g.reconcile()
	}
	g.zoom = newZoomScrollOverlay(g.AdjustZoom)
	g.pool = newItemPool(g, g.canvasBox, thumbs, meta, favs)

	g.ExtendBaseWidget(g)
	return g
}

// SetContent replaces the identifier list with a snapshot of ids. Selection
// entries not present in the new list are dropped silently; the realized set
// is fully torn down and rebuilt.
func (g *Grid) SetContent(ids []string) {
	g.content = make([]string, len(ids))
	copy(g.content, ids)

	g.index = make(map[string]int, len(ids))
	for i, id := range g.content {
		g.index[id] = i
	}

	if g.sel.prune(g.index) {
		g.emitSelectionChanged()
	}

	g.pool.reset()
	g.invalidateLayout()
	g.reflow()
}

// Content returns the current identifier snapshot.
func (g *Grid) Content() []string {
	out := make([]string, len(g.content))
	copy(out, g.content)
	return out
}

// SetItemSize changes the thumbnail edge length, clamped to the configured
// bounds. Realized items are rebuilt at the new size.
func (g *Grid) SetItemSize(size float32) {
	if size < g.cfg.MinItemSize {
		size = g.cfg.MinItemSize
	}
	if size > g.cfg.MaxItemSize {
		size = g.cfg.MaxItemSize
	}
	if size == g.cfg.ItemSize {
		return
	}
	g.cfg.ItemSize = size
	g.pool.reset()
	g.invalidateLayout()
	g.reflow()
}

// ItemSize returns the current thumbnail edge length.
func (g *Grid) ItemSize() float32 {
	return g.cfg.ItemSize
}

func (g *Grid) invalidateLayout() {
	g.layoutValid = false
}

// reflow recomputes the layout for the current viewport width and brings the
// realized set back in sync. Scrolling alone never lands here; only resize,
// content or configuration changes do.
func (g *Grid) reflow() {
	width := g.scroll.Size().Width
	if width <= 0 {
		width = g.Size().Width
	}

	g.lay = computeLayout(width, g.cfg, len(g.content))
	g.layoutValid = true

	// Tell the scroll container about the new content size.
	g.canvasBox.Refresh()
	g.scroll.Refresh()

	g.reconcile()
	g.pool.syncSelection(g.sel)
}

// reconcile re-derives the visible range and synchronizes the pool to it.
// Runs only against up-to-date geometry.
func (g *Grid) reconcile() {
	if !g.layoutValid {
		return
	}
	rng := visibleIndexRange(g.scroll.Offset.Y, g.scroll.Size().Height, g.lay,
		len(g.content), g.cfg.BufferRows, g.cfg.ContentMargin)
	g.pool.reconcile(rng, g.content, g.lay, g.cfg, g.sel)
}

// Selection operations.

// SelectSingle makes id the only selected identifier and focuses it.
// Identifiers absent from the content list are ignored.
func (g *Grid) SelectSingle(id string) {
	if !g.sel.selectSingle(id, g.index) {
		return
	}
	g.pool.syncSelection(g.sel)
	if g.OnSelected != nil {
		g.OnSelected(id)
	}
	g.emitSelectionChanged()
}

// ToggleSelection adds or removes id from the selection, focusing it either
// way.
func (g *Grid) ToggleSelection(id string) {
	if !g.sel.toggle(id, g.index) {
		return
	}
	g.pool.syncSelection(g.sel)
	g.emitSelectionChanged()
}

// ExtendSelection selects the contiguous run from the last click to id.
func (g *Grid) ExtendSelection(id string) {
	if !g.sel.extendTo(id, g.content, g.index) {
		return
	}
	g.pool.syncSelection(g.sel)
	g.emitSelectionChanged()
}

// ClearSelection empties the selection and the focus.
func (g *Grid) ClearSelection() {
	if !g.sel.clear() {
		return
	}
	g.pool.syncSelection(g.sel)
	g.emitSelectionChanged()
}

// Selection returns the selected identifiers in content order.
func (g *Grid) Selection() []string {
	return g.sel.ids(g.index)
}

// Current returns the focused identifier, or "" when nothing is focused.
func (g *Grid) Current() string {
	return g.sel.current
}

// IsSelected reports whether id is in the selection.
func (g *Grid) IsSelected(id string) bool {
	return g.sel.isSelected(id)
}

// Navigate moves the focus by one directional step and scrolls the target
// row into view. Steps that resolve to the current index, and navigation on
// an empty list, are absorbed silently.
func (g *Grid) Navigate(move Move) {
	if len(g.content) == 0 {
		return
	}

	currentIndex := -1
	if g.sel.current != "" {
		currentIndex = g.index[g.sel.current]
	}

	target := 0
	if currentIndex >= 0 {
		target = navigateIndex(currentIndex, len(g.content), g.lay.columns, move)
		if target == currentIndex {
			return
		}
	}

	g.SelectSingle(g.content[target])
	g.scrollToIndex(target)
}

// ScrollTo brings the row holding id fully into the viewport. Unknown
// identifiers are ignored.
func (g *Grid) ScrollTo(id string) {
	if idx, ok := g.index[id]; ok {
		g.scrollToIndex(idx)
	}
}

func (g *Grid) scrollToIndex(index int) {
	if !g.layoutValid {
		return
	}
	offset := scrollOffsetForIndex(index, g.scroll.Offset.Y, g.scroll.Size().Height,
		g.lay, len(g.content), g.cfg.ContentMargin)
	if offset == g.scroll.Offset.Y {
		return
	}
	g.scroll.Offset.Y = offset
	g.scroll.Refresh()
	g.reconcile()
}

func (g *Grid) emitSelectionChanged() {
	if g.OnSelectionChanged != nil {
		g.OnSelectionChanged(g.sel.ids(g.index))
	}
}

// realizedCount is how many item widgets currently exist; bounded by the
// viewport, not the content size.
func (g *Grid) realizedCount() int {
	return g.pool.size()
}

// itemHost implementation.

func (g *Grid) itemPrimary(id string, mod fyne.KeyModifier) {
	g.hideTooltip()
	switch {
	case mod&fyne.KeyModifierShortcutDefault != 0:
		g.ToggleSelection(id)
	case mod&fyne.KeyModifierShift != 0:
		g.ExtendSelection(id)
	default:
		g.SelectSingle(id)
	}
}

func (g *Grid) itemActivated(id string) {
	g.hideTooltip()
	g.SelectSingle(id)
	if g.OnActivated != nil {
		g.OnActivated(id)
	}
}

func (g *Grid) itemContext(id string, absPos fyne.Position) {
	g.hideTooltip()
	if g.OnContextMenu != nil {
		g.OnContextMenu(id, absPos)
	}
}

func (g *Grid) itemHoverStart(item *gridItem) {
	g.showTooltip(item)
}

func (g *Grid) itemHoverEnd(item *gridItem) {
	g.hideTooltip()
}

// tooltipText builds the hover text from the metadata provider, degrading
// to the raw identifier without one.
func (g *Grid) tooltipText(id string) string {
	if g.meta == nil {
		return id
	}
	text := g.meta.DisplayName(id)
	if text == "" {
		text = id
	}
	for _, tag := range g.meta.Tags(id) {
		text += "\n#" + tag
	}
	return text
}

func (g *Grid) showTooltip(item *gridItem) {
	g.hideTooltip()

	cv := fyne.CurrentApp().Driver().CanvasForObject(item)
	if cv == nil {
		return
	}
	label := widget.NewLabel(g.tooltipText(item.id))
	g.tooltip = widget.NewPopUp(label, cv)
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(item)
	g.tooltip.ShowAtPosition(pos.AddXY(0, item.Size().Height))
}

func (g *Grid) hideTooltip() {
	if g.tooltip != nil {
		g.tooltip.Hide()
		g.tooltip = nil
	}
}

// Keyboard handling: the grid is focusable and maps keys onto navigation
// and selection operations.

var _ fyne.Focusable = (*Grid)(nil)

func (g *Grid) FocusGained() {}
func (g *Grid) FocusLost()   {}

func (g *Grid) TypedRune(r rune) {
	if r == ' ' && g.sel.current != "" {
		g.ToggleSelection(g.sel.current)
	}
}

func (g *Grid) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyLeft:
		g.Navigate(MoveLeft)
	case fyne.KeyRight:
		g.Navigate(MoveRight)
	case fyne.KeyUp:
		g.Navigate(MoveUp)
	case fyne.KeyDown:
		g.Navigate(MoveDown)
	case fyne.KeyPageUp:
		g.Navigate(MovePageUp)
	case fyne.KeyPageDown:
		g.Navigate(MovePageDown)
	case fyne.KeyHome:
		g.Navigate(MoveFirst)
	case fyne.KeyEnd:
		g.Navigate(MoveLast)
	case fyne.KeyReturn, fyne.KeyEnter:
		if g.sel.current != "" {
			g.itemActivated(g.sel.current)
		}
	case fyne.KeyEscape:
		g.ClearSelection()
	}
}

func (g *Grid) CreateRenderer() fyne.WidgetRenderer {
	return &gridRenderer{g: g}
}

// virtualLayout sizes the scroll content to the full grid area so the
// scroll container knows its range; the pool positions the realized items
// itself, so Layout is a no-op.
type virtualLayout struct {
	g *Grid
}

func (v *virtualLayout) Layout([]fyne.CanvasObject, fyne.Size) {}

func (v *virtualLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	if !v.g.layoutValid {
		return fyne.NewSize(0, 0)
	}
	return v.g.lay.contentSize
}

// gridRenderer hosts the scroll viewport with the zoom overlay stacked on
// top, and coalesces resize bursts before recomputing the layout.
type gridRenderer struct {
	g *Grid

	lastSize  fyne.Size
	lastFired time.Time
	timer     *time.Timer
}

const resizeDebounce = 60 * time.Millisecond

func (r *gridRenderer) Layout(size fyne.Size) {
	r.g.scroll.Resize(size)
	r.g.zoom.Resize(size)

	changed := abs32(size.Width-r.lastSize.Width) >= 0.5 || abs32(size.Height-r.lastSize.Height) >= 0.5
	if !changed {
		return
	}
	r.lastSize = size
	r.scheduleReflow()
}

// scheduleReflow defers the relayout out of the Fyne layout pass and
// coalesces bursts during continuous window resize.
func (r *gridRenderer) scheduleReflow() {
	now := time.Now()
	elapsed := now.Sub(r.lastFired)
	if elapsed >= resizeDebounce {
		r.lastFired = now
		fyne.Do(func() {
			r.g.invalidateLayout()
			r.g.reflow()
		})
		return
	}

	delay := resizeDebounce - elapsed
	if r.timer == nil {
		r.timer = time.AfterFunc(delay, func() {
			fyne.Do(func() {
				r.timer = nil
				r.lastFired = time.Now()
				r.g.invalidateLayout()
				r.g.reflow()
			})
		})
		return
	}
	r.timer.Reset(delay)
}

func (r *gridRenderer) MinSize() fyne.Size {
	edge := r.g.cfg.ItemSize + r.g.cfg.ItemPadding + 2*r.g.cfg.ContentMargin
	return fyne.NewSize(edge, edge)
}

func (r *gridRenderer) Refresh() {
	r.g.scroll.Refresh()
}

func (r *gridRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.g.scroll, r.g.zoom}
}

func (r *gridRenderer) Destroy() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.g.hideTooltip()
	r.g.pool.close()
}
