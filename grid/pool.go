package grid

import (
	"image"

	"fyne.io/fyne/v2"
)

// poolDelta reports what one reconciliation pass did. Reconciling twice with
// the same inputs yields an empty created/destroyed pair.
type poolDelta struct {
	created   []string
	destroyed []string
	unchanged []string
}

// itemPool owns the realized item widgets and keeps their membership in sync
// with the visible range. It is the only component that creates or destroys
// gridItem instances. All methods run on the UI thread.
type itemPool struct {
	host   itemHost
	canvas *fyne.Container

	thumbs ThumbnailProvider
	meta   MetadataProvider
	favs   FavoriteProvider

	items map[string]*gridItem

	thumbSize  int // edge length requested from the provider
	unbindFavs func()
}

func newItemPool(host itemHost, canvas *fyne.Container, thumbs ThumbnailProvider, meta MetadataProvider, favs FavoriteProvider) *itemPool {
	p := &itemPool{
		host:   host,
		canvas: canvas,
		thumbs: thumbs,
		meta:   meta,
		favs:   favs,
		items:  make(map[string]*gridItem),
	}
	if favs != nil {
		p.unbindFavs = favs.OnChange(p.favoriteChanged)
	}
	return p
}

// reconcile synchronizes the realized set against the visible range. Items
// whose index left the range are destroyed, newly visible ones are created
// with their visual state re-derived from the selection and the providers,
// and every survivor is repositioned against the current layout.
func (p *itemPool) reconcile(rng visibleRange, content []string, lay layoutResult, cfg Config, sel *selectionState) poolDelta {
	var delta poolDelta

	// Defensive clamp; the viewport tracker already guarantees this.
	first, last := rng.first, rng.last
	if first < 0 {
		first = 0
	}
	if last > len(content)-1 {
		last = len(content) - 1
	}

	keep := make(map[string]int)
	for i := first; i <= last; i++ {
		keep[content[i]] = i
	}

	for id, it := range p.items {
		if _, ok := keep[id]; ok {
			continue
		}
		it.cancelTimers()
		p.canvas.Remove(it)
		delete(p.items, id)
		delta.destroyed = append(delta.destroyed, id)
	}

	// Request pixels twice the cell edge for high density displays.
	p.thumbSize = int(cfg.ItemSize) * 2

	for id, index := range keep {
		if it, ok := p.items[id]; ok {
			it.index = index
			p.place(it, lay, cfg)
			delta.unchanged = append(delta.unchanged, id)
			continue
		}

		it := newGridItem(p.host, id, index, cfg.ItemSize, p.displayName(id))
		it.setSelected(sel != nil && (sel.isSelected(id) || sel.current == id))
		if p.favs != nil {
			it.setFavorite(p.favs.IsFavorite(id))
		}
		p.items[id] = it
		p.canvas.Add(it)
		p.place(it, lay, cfg)
		p.requestThumbnail(it)
		delta.created = append(delta.created, id)
	}

	return delta
}

func (p *itemPool) place(it *gridItem, lay layoutResult, cfg Config) {
	it.Resize(fyne.NewSize(lay.itemWidth, lay.itemWidth))
	it.Move(lay.cellOrigin(it.index, cfg.ContentMargin))
}

func (p *itemPool) requestThumbnail(it *gridItem) {
	if p.thumbs == nil || !it.visual.wantsThumbnail() {
		return
	}
	if img := p.thumbs.RequestThumbnail(it.id, p.thumbSize, p.thumbnailReady); img != nil {
		it.visual.setBitmap(img)
	}
}

// thumbnailReady lands on the UI thread. Bitmaps for identifiers that are no
// longer realized, or that were requested at a since-changed size, are
// dropped here rather than cached back into realized state.
func (p *itemPool) thumbnailReady(id string, size int, img image.Image) {
	it, ok := p.items[id]
	if !ok || size != p.thumbSize || img == nil {
		return
	}
	it.visual.setBitmap(img)
}

func (p *itemPool) favoriteChanged(id string, favorite bool) {
	if it, ok := p.items[id]; ok {
		it.setFavorite(favorite)
	}
}

// syncSelection re-applies selection flags to every realized item.
func (p *itemPool) syncSelection(sel *selectionState) {
	for id, it := range p.items {
		it.setSelected(sel.isSelected(id) || sel.current == id)
	}
}

// reset tears down every realized item. Used on content-list replacement:
// identity-preserving diffing across replacements is not attempted, which
// keeps stale indices impossible.
func (p *itemPool) reset() {
	for id, it := range p.items {
		it.cancelTimers()
		p.canvas.Remove(it)
		delete(p.items, id)
	}
}

func (p *itemPool) size() int {
	return len(p.items)
}

func (p *itemPool) close() {
	p.reset()
	if p.unbindFavs != nil {
		p.unbindFavs()
		p.unbindFavs = nil
	}
}

func (p *itemPool) displayName(id string) string {
	if p.meta != nil {
		if name := p.meta.DisplayName(id); name != "" {
			return name
		}
	}
	return id
}
