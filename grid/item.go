package grid

import (
	"image"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// hoverDelay is how long the pointer must rest on an item before the
// tooltip shows.
const hoverDelay = 600 * time.Millisecond

// itemHost is the narrow contract a realized item uses to report input back
// to the grid controller.
type itemHost interface {
	itemPrimary(id string, mod fyne.KeyModifier)
	itemActivated(id string)
	itemContext(id string, absPos fyne.Position)
	itemHoverStart(item *gridItem)
	itemHoverEnd(item *gridItem)
}

// itemVisual is the per-kind rendering strategy, resolved once when the item
// is realized: named icons draw a theme resource, paths draw a bitmap
// thumbnail behind a placeholder.
type itemVisual interface {
	object() fyne.CanvasObject
	wantsThumbnail() bool
	setBitmap(img image.Image)
}

type iconVisual struct {
	icon *widget.Icon
}

func newIconVisual(name string) *iconVisual {
	res := theme.Icon(fyne.ThemeIconName(name))
	if res == nil {
		res = theme.FileIcon()
	}
	return &iconVisual{icon: widget.NewIcon(res)}
}

func (v *iconVisual) object() fyne.CanvasObject { return v.icon }
func (v *iconVisual) wantsThumbnail() bool      { return false }
func (v *iconVisual) setBitmap(image.Image)     {}

type imageVisual struct {
	box         *fyne.Container
	placeholder *widget.Icon
	thumb       *canvas.Image
}

func newImageVisual() *imageVisual {
	v := &imageVisual{
		placeholder: widget.NewIcon(theme.FileImageIcon()),
		thumb:       canvas.NewImageFromImage(nil),
	}
	v.thumb.FillMode = canvas.ImageFillContain
	v.thumb.Hide()
	v.box = container.NewStack(v.placeholder, v.thumb)
	return v
}

func (v *imageVisual) object() fyne.CanvasObject { return v.box }
func (v *imageVisual) wantsThumbnail() bool      { return true }

func (v *imageVisual) setBitmap(img image.Image) {
	if img == nil {
		return
	}
	v.thumb.Image = img
	v.placeholder.Hide()
	v.thumb.Show()
	v.thumb.Refresh()
}

// newItemVisual resolves the rendering kind for an identifier. Anything with
// a path separator is treated as a file rendered from pixels; everything
// else resolves against the theme icon set.
func newItemVisual(id string) itemVisual {
	if pathLike(id) {
		return newImageVisual()
	}
	return newIconVisual(id)
}

// gridItem is one realized visual object. It carries no content state of its
// own beyond what the pool re-derives from the providers on realization.
type gridItem struct {
	widget.BaseWidget
	host itemHost

	id    string
	index int

	visual itemVisual
	label  *widget.Label
	bg     *canvas.Rectangle
	fav    *widget.Icon

	itemSize float32 // thumbnail edge length, from Config.ItemSize

	selected bool
	favorite bool
	hovered  bool

	lastClick  time.Time
	hoverTimer *time.Timer
}

func newGridItem(host itemHost, id string, index int, itemSize float32, name string) *gridItem {
	it := &gridItem{
		host:     host,
		id:       id,
		index:    index,
		itemSize: itemSize,
		visual:   newItemVisual(id),
		label:    widget.NewLabel(name),
		bg:       canvas.NewRectangle(theme.Color(theme.ColorNameSelection)),
		fav:      widget.NewIcon(theme.ConfirmIcon()),
	}
	it.label.Alignment = fyne.TextAlignCenter
	it.label.Truncation = fyne.TextTruncateEllipsis
	it.bg.Hide()
	it.fav.Hide()
	it.ExtendBaseWidget(it)
	return it
}

func (i *gridItem) CreateRenderer() fyne.WidgetRenderer {
	return &gridItemRenderer{item: i}
}

func (i *gridItem) setSelected(selected bool) {
	if i.selected == selected {
		return
	}
	i.selected = selected
	if selected {
		i.bg.Show()
	} else {
		i.bg.Hide()
	}
	i.Refresh()
}

func (i *gridItem) setFavorite(favorite bool) {
	if i.favorite == favorite {
		return
	}
	i.favorite = favorite
	if favorite {
		i.fav.Show()
	} else {
		i.fav.Hide()
	}
	i.Refresh()
}

// cancelTimers stops the hover token. Called by the pool right before the
// item is destroyed so nothing fires for a stale id.
func (i *gridItem) cancelTimers() {
	if i.hoverTimer != nil {
		i.hoverTimer.Stop()
		i.hoverTimer = nil
	}
}

func (i *gridItem) Tapped(e *fyne.PointEvent) {
	now := time.Now()
	if now.Sub(i.lastClick) < fyne.CurrentApp().Driver().DoubleTapDelay() {
		i.host.itemActivated(i.id)
		i.lastClick = now
		return
	}
	i.lastClick = now

	if fyne.CurrentDevice().IsMobile() {
		i.host.itemPrimary(i.id, 0)
	}
}

func (i *gridItem) SecondaryTapped(e *fyne.PointEvent) {
	i.host.itemContext(i.id, i.absolutePos(e.Position))
}

var _ desktop.Mouseable = (*gridItem)(nil)

func (i *gridItem) MouseDown(e *desktop.MouseEvent) {}

func (i *gridItem) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonSecondary {
		i.host.itemContext(i.id, i.absolutePos(e.Position))
		return
	}
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	i.host.itemPrimary(i.id, e.Modifier)
}

var _ desktop.Hoverable = (*gridItem)(nil)

func (i *gridItem) MouseIn(e *desktop.MouseEvent) {
	i.hovered = true
	if i.hoverTimer != nil {
		i.hoverTimer.Stop()
	}
	i.hoverTimer = time.AfterFunc(hoverDelay, func() {
		fyne.Do(func() {
			if i.hovered {
				i.host.itemHoverStart(i)
			}
		})
	})
}

func (i *gridItem) MouseMoved(e *desktop.MouseEvent) {}

func (i *gridItem) MouseOut() {
	i.hovered = false
	if i.hoverTimer != nil {
		i.hoverTimer.Stop()
		i.hoverTimer = nil
	}
	i.host.itemHoverEnd(i)
}

func (i *gridItem) absolutePos(rel fyne.Position) fyne.Position {
	return fyne.CurrentApp().Driver().AbsolutePositionForObject(i).Add(rel)
}

type gridItemRenderer struct {
	item *gridItem
}

func (r *gridItemRenderer) Layout(size fyne.Size) {
	r.item.bg.Resize(size)

	edge := r.item.itemSize
	visualSize := fyne.NewSquareSize(edge)
	visual := r.item.visual.object()
	visual.Resize(visualSize)
	visual.Move(fyne.NewPos((size.Width-edge)/2, theme.Padding()))

	badge := theme.IconInlineSize()
	r.item.fav.Resize(fyne.NewSquareSize(badge))
	r.item.fav.Move(fyne.NewPos(size.Width-badge-theme.Padding(), theme.Padding()))

	labelHeight := size.Height - edge - theme.Padding()*2
	if labelHeight < 0 {
		labelHeight = 0
	}
	r.item.label.Resize(fyne.NewSize(size.Width, labelHeight))
	r.item.label.Move(fyne.NewPos(0, edge+theme.Padding()))
}

func (r *gridItemRenderer) MinSize() fyne.Size {
	return fyne.NewSquareSize(r.item.itemSize)
}

func (r *gridItemRenderer) Refresh() {
	r.item.bg.Refresh()
	r.item.visual.object().Refresh()
	r.item.fav.Refresh()
	r.item.label.Refresh()
}

func (r *gridItemRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.item.bg, r.item.visual.object(), r.item.fav, r.item.label}
}

func (r *gridItemRenderer) Destroy() {
	r.item.cancelTimers()
}
