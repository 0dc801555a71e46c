package grid

import (
	"testing"
)

func TestVisibleIndexRange_TopOfList(t *testing.T) {
	cfg := testConfig()
	lay := computeLayout(300, cfg, 1000) // 3 columns, rowHeight 98

	rng := visibleIndexRange(0, 400, lay, 1000, cfg.BufferRows, cfg.ContentMargin)
	if rng.empty() {
		t.Fatal("range empty at top of a populated list")
	}
	if rng.first != 0 {
		t.Errorf("first = %d, want 0", rng.first)
	}

	// ceil(400/98)+1 buffer = 6 row span, rows 0..6 realized.
	wantLast := 7*lay.columns - 1
	if rng.last != wantLast {
		t.Errorf("last = %d, want %d", rng.last, wantLast)
	}
}

func TestVisibleIndexRange_Scrolled(t *testing.T) {
	cfg := testConfig()
	lay := computeLayout(300, cfg, 1000)

	offset := cfg.ContentMargin + 10*lay.rowHeight
	rng := visibleIndexRange(offset, 400, lay, 1000, cfg.BufferRows, cfg.ContentMargin)
	if rng.first != 10*lay.columns {
		t.Errorf("first = %d, want %d", rng.first, 10*lay.columns)
	}
	if !rng.contains(rng.first) || rng.contains(rng.first-1) {
		t.Error("contains disagrees with bounds")
	}
}

func TestVisibleIndexRange_ClampsToContent(t *testing.T) {
	cfg := testConfig()
	lay := computeLayout(300, cfg, 10)

	rng := visibleIndexRange(0, 400, lay, 10, cfg.BufferRows, cfg.ContentMargin)
	if rng.last != 9 {
		t.Errorf("last = %d, want 9 for ten items", rng.last)
	}
}

func TestVisibleIndexRange_EmptyContent(t *testing.T) {
	cfg := testConfig()
	lay := computeLayout(300, cfg, 0)

	rng := visibleIndexRange(0, 400, lay, 0, cfg.BufferRows, cfg.ContentMargin)
	if !rng.empty() {
		t.Errorf("expected empty range, got [%d, %d]", rng.first, rng.last)
	}
}

func TestVisibleIndexRange_PastEnd(t *testing.T) {
	cfg := testConfig()
	lay := computeLayout(300, cfg, 9)

	rng := visibleIndexRange(5000, 400, lay, 9, cfg.BufferRows, cfg.ContentMargin)
	if !rng.empty() {
		t.Errorf("expected empty range past the end, got [%d, %d]", rng.first, rng.last)
	}
}

func TestVisibleIndexRange_BoundedRealization(t *testing.T) {
	cfg := testConfig()

	for _, count := range []int{10, 1000, 100000} {
		lay := computeLayout(300, cfg, count)
		rowsSpan := ceil32(400/lay.rowHeight) + cfg.BufferRows
		bound := lay.columns * (rowsSpan + 2*cfg.BufferRows)

		for _, offset := range []float32{0, 500, float32(count) * 3, lay.contentSize.Height / 2} {
			rng := visibleIndexRange(offset, 400, lay, count, cfg.BufferRows, cfg.ContentMargin)
			if rng.empty() {
				continue
			}
			if got := rng.last - rng.first + 1; got > bound {
				t.Errorf("count %d offset %.0f: %d indices realized, bound %d", count, offset, got, bound)
			}
		}
	}
}

func TestScrollOffsetForIndex_AlreadyVisible(t *testing.T) {
	cfg := testConfig()
	lay := computeLayout(300, cfg, 100)

	// Row 1 sits inside a 400 unit viewport at offset 0; no movement.
	if got := scrollOffsetForIndex(4, 0, 400, lay, 100, cfg.ContentMargin); got != 0 {
		t.Errorf("offset moved to %.2f for an already visible row", got)
	}
}

func TestScrollOffsetForIndex_MinimalMove(t *testing.T) {
	cfg := testConfig()
	lay := computeLayout(300, cfg, 100)

	// Row 10 is below a 400 unit viewport at offset 0; the row bottom should
	// land exactly on the viewport bottom.
	target := 10 * lay.columns
	got := scrollOffsetForIndex(target, 0, 400, lay, 100, cfg.ContentMargin)
	rowBottom := cfg.ContentMargin + 11*lay.rowHeight
	if abs32(got-(rowBottom-400)) > 0.01 {
		t.Errorf("offset = %.2f, want %.2f", got, rowBottom-400)
	}

	// Scrolling back up to row 0 aligns the row top with the viewport top.
	got = scrollOffsetForIndex(0, got, 400, lay, 100, cfg.ContentMargin)
	if abs32(got-cfg.ContentMargin) > 0.01 {
		t.Errorf("offset = %.2f, want %.2f", got, cfg.ContentMargin)
	}
}

func TestScrollOffsetForIndex_Clamped(t *testing.T) {
	cfg := testConfig()
	lay := computeLayout(300, cfg, 9)

	// Content shorter than the viewport never scrolls.
	if got := scrollOffsetForIndex(8, 0, 1000, lay, 9, cfg.ContentMargin); got != 0 {
		t.Errorf("offset = %.2f, want 0 when content fits the viewport", got)
	}

	// Out-of-range indices leave the offset alone.
	if got := scrollOffsetForIndex(50, 123, 400, lay, 9, cfg.ContentMargin); got != 123 {
		t.Errorf("offset = %.2f, want 123 for an out-of-range index", got)
	}
}
