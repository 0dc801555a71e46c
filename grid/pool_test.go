package grid

import (
	"fmt"
	"image"
	"sort"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
)

type thumbRequest struct {
	id   string
	size int
}

// fakeThumbs records every request and hands the done callbacks back to the
// test, so asynchronous delivery can be simulated deterministically.
type fakeThumbs struct {
	requests  []thumbRequest
	done      map[string]func(id string, size int, img image.Image)
	immediate map[string]image.Image
}

func newFakeThumbs() *fakeThumbs {
	return &fakeThumbs{
		done:      make(map[string]func(id string, size int, img image.Image)),
		immediate: make(map[string]image.Image),
	}
}

func (f *fakeThumbs) RequestThumbnail(id string, size int, done func(id string, size int, img image.Image)) image.Image {
	f.requests = append(f.requests, thumbRequest{id: id, size: size})
	f.done[id] = done
	return f.immediate[id]
}

type hostCall struct {
	name string
	id   string
}

type stubHost struct {
	calls []hostCall
}

func (h *stubHost) itemPrimary(id string, mod fyne.KeyModifier) {
	h.calls = append(h.calls, hostCall{"primary", id})
}
func (h *stubHost) itemActivated(id string) {
	h.calls = append(h.calls, hostCall{"activated", id})
}
func (h *stubHost) itemContext(id string, absPos fyne.Position) {
	h.calls = append(h.calls, hostCall{"context", id})
}
func (h *stubHost) itemHoverStart(item *gridItem) {
	h.calls = append(h.calls, hostCall{"hoverStart", item.id})
}
func (h *stubHost) itemHoverEnd(item *gridItem) {
	h.calls = append(h.calls, hostCall{"hoverEnd", item.id})
}

func imageContent(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("/pics/%03d.png", i)
	}
	return out
}

func newTestPool(thumbs ThumbnailProvider, favs FavoriteProvider) (*itemPool, *fyne.Container) {
	canvas := container.NewWithoutLayout()
	return newItemPool(&stubHost{}, canvas, thumbs, PathMetadata{}, favs), canvas
}

func TestItemPool_ReconcileRealizesRange(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	thumbs := newFakeThumbs()
	pool, canvas := newTestPool(thumbs, nil)

	cfg := testConfig()
	content := imageContent(30)
	lay := computeLayout(300, cfg, len(content))

	delta := pool.reconcile(visibleRange{first: 0, last: 8}, content, lay, cfg, newSelectionState())
	if len(delta.created) != 9 || len(delta.destroyed) != 0 {
		t.Fatalf("created %d destroyed %d, want 9 created", len(delta.created), len(delta.destroyed))
	}
	if pool.size() != 9 || len(canvas.Objects) != 9 {
		t.Fatalf("pool holds %d items, canvas %d objects, want 9", pool.size(), len(canvas.Objects))
	}

	// Every realized item requested a thumbnail at twice the item size.
	if len(thumbs.requests) != 9 {
		t.Fatalf("%d thumbnail requests, want 9", len(thumbs.requests))
	}
	for _, req := range thumbs.requests {
		if req.size != int(cfg.ItemSize)*2 {
			t.Errorf("request for %s at size %d, want %d", req.id, req.size, int(cfg.ItemSize)*2)
		}
	}

	// Items sit on their layout cells.
	it := pool.items[content[4]]
	if want := lay.cellOrigin(4, cfg.ContentMargin); it.Position() != want {
		t.Errorf("item 4 at %v, want %v", it.Position(), want)
	}
	if want := fyne.NewSize(lay.itemWidth, lay.itemWidth); it.Size() != want {
		t.Errorf("item 4 sized %v, want %v", it.Size(), want)
	}
}

func TestItemPool_ReconcileIdempotent(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	pool, _ := newTestPool(newFakeThumbs(), nil)

	cfg := testConfig()
	content := imageContent(30)
	lay := computeLayout(300, cfg, len(content))
	rng := visibleRange{first: 3, last: 11}
	sel := newSelectionState()

	pool.reconcile(rng, content, lay, cfg, sel)
	delta := pool.reconcile(rng, content, lay, cfg, sel)
	if len(delta.created) != 0 || len(delta.destroyed) != 0 {
		t.Errorf("second reconcile created %d destroyed %d, want none", len(delta.created), len(delta.destroyed))
	}
	if len(delta.unchanged) != 9 {
		t.Errorf("second reconcile kept %d, want 9", len(delta.unchanged))
	}
}

func TestItemPool_ReconcileShiftsWindow(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	pool, canvas := newTestPool(newFakeThumbs(), nil)

	cfg := testConfig()
	content := imageContent(60)
	lay := computeLayout(300, cfg, len(content))
	sel := newSelectionState()

	pool.reconcile(visibleRange{first: 0, last: 8}, content, lay, cfg, sel)
	delta := pool.reconcile(visibleRange{first: 6, last: 14}, content, lay, cfg, sel)

	sort.Strings(delta.destroyed)
	sort.Strings(delta.created)
	wantGone := content[0:6]
	wantNew := content[9:15]
	if fmt.Sprint(delta.destroyed) != fmt.Sprint(wantGone) {
		t.Errorf("destroyed %v, want %v", delta.destroyed, wantGone)
	}
	if fmt.Sprint(delta.created) != fmt.Sprint(wantNew) {
		t.Errorf("created %v, want %v", delta.created, wantNew)
	}
	if pool.size() != 9 || len(canvas.Objects) != 9 {
		t.Errorf("pool holds %d items, canvas %d objects, want 9", pool.size(), len(canvas.Objects))
	}
}

func TestItemPool_ReconcileEmptyRange(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	pool, canvas := newTestPool(newFakeThumbs(), nil)

	cfg := testConfig()
	content := imageContent(30)
	lay := computeLayout(300, cfg, len(content))
	sel := newSelectionState()

	pool.reconcile(visibleRange{first: 0, last: 8}, content, lay, cfg, sel)
	delta := pool.reconcile(visibleRange{first: 0, last: -1}, content, lay, cfg, sel)
	if len(delta.destroyed) != 9 || pool.size() != 0 || len(canvas.Objects) != 0 {
		t.Errorf("empty range left %d realized, %d canvas objects", pool.size(), len(canvas.Objects))
	}
}

func TestItemPool_ImmediateThumbnail(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	thumbs := newFakeThumbs()
	content := imageContent(3)
	thumbs.immediate[content[1]] = image.NewRGBA(image.Rect(0, 0, 8, 8))
	pool, _ := newTestPool(thumbs, nil)

	cfg := testConfig()
	lay := computeLayout(300, cfg, len(content))
	pool.reconcile(visibleRange{first: 0, last: 2}, content, lay, cfg, newSelectionState())

	vis := pool.items[content[1]].visual.(*imageVisual)
	if vis.thumb.Image == nil {
		t.Error("cache hit not applied on realization")
	}
	if vis.placeholder.Visible() {
		t.Error("placeholder still visible after a cache hit")
	}
}

func TestItemPool_LateThumbnailDelivery(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	thumbs := newFakeThumbs()
	pool, _ := newTestPool(thumbs, nil)

	cfg := testConfig()
	content := imageContent(30)
	lay := computeLayout(300, cfg, len(content))
	sel := newSelectionState()

	pool.reconcile(visibleRange{first: 0, last: 8}, content, lay, cfg, sel)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	// Arrival for a still-realized id at the right size is applied.
	thumbs.done[content[2]](content[2], pool.thumbSize, img)
	vis := pool.items[content[2]].visual.(*imageVisual)
	if vis.thumb.Image == nil {
		t.Error("delivery for a realized id not applied")
	}

	// Wrong size is dropped.
	thumbs.done[content[3]](content[3], pool.thumbSize/2, img)
	if pool.items[content[3]].visual.(*imageVisual).thumb.Image != nil {
		t.Error("stale-size delivery was applied")
	}

	// Arrival after the id scrolled out of range must not resurrect it.
	doneFor0 := thumbs.done[content[0]]
	pool.reconcile(visibleRange{first: 6, last: 14}, content, lay, cfg, sel)
	doneFor0(content[0], pool.thumbSize, img)
	if _, ok := pool.items[content[0]]; ok {
		t.Error("late delivery resurrected a destroyed item")
	}
}

func TestItemPool_FavoriteFanOut(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	favs := NewFavoriteStore()
	content := imageContent(5)
	favs.SetFavorite(content[0], true)

	pool, _ := newTestPool(newFakeThumbs(), favs)

	cfg := testConfig()
	lay := computeLayout(300, cfg, len(content))
	pool.reconcile(visibleRange{first: 0, last: 4}, content, lay, cfg, newSelectionState())

	if !pool.items[content[0]].favorite {
		t.Error("pre-existing favorite not applied on realization")
	}

	favs.SetFavorite(content[2], true)
	if !pool.items[content[2]].favorite {
		t.Error("favorite change not pushed to the realized item")
	}
	favs.SetFavorite(content[2], false)
	if pool.items[content[2]].favorite {
		t.Error("favorite removal not pushed to the realized item")
	}

	// After close the pool must be deaf to further changes.
	pool.close()
	favs.SetFavorite(content[3], true) // must not panic on a torn-down pool
	if pool.size() != 0 {
		t.Errorf("pool holds %d items after close", pool.size())
	}
}

func TestItemPool_SyncSelection(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	pool, _ := newTestPool(newFakeThumbs(), nil)

	cfg := testConfig()
	content := imageContent(5)
	index := make(map[string]int, len(content))
	for i, id := range content {
		index[id] = i
	}
	lay := computeLayout(300, cfg, len(content))
	sel := newSelectionState()

	pool.reconcile(visibleRange{first: 0, last: 4}, content, lay, cfg, sel)

	sel.selectSingle(content[1], index)
	pool.syncSelection(sel)
	if !pool.items[content[1]].selected {
		t.Error("selection flag not applied")
	}

	sel.clear()
	pool.syncSelection(sel)
	if pool.items[content[1]].selected {
		t.Error("selection flag not cleared")
	}
}
