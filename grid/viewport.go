package grid

// visibleRange is an inclusive index window into the content list. An empty
// range has last < first.
type visibleRange struct {
	first, last int
}

func (r visibleRange) empty() bool {
	return r.last < r.first
}

func (r visibleRange) contains(index int) bool {
	return index >= r.first && index <= r.last
}

// visibleIndexRange converts the current scroll offset and viewport height
// into the window of linear indices that must be realized. The result is
// always clamped to [0, contentCount-1]; an empty content list yields an
// empty range.
func visibleIndexRange(scrollOffset, viewportHeight float32, lay layoutResult, contentCount, bufferRows int, margin float32) visibleRange {
	if contentCount == 0 || lay.columns < 1 || lay.rowHeight <= 0 {
		return visibleRange{first: 0, last: -1}
	}
	if bufferRows < 1 {
		bufferRows = 1
	}

	firstRow := floor32((scrollOffset - margin) / lay.rowHeight)
	if firstRow < 0 {
		firstRow = 0
	}
	rowsSpan := ceil32(viewportHeight/lay.rowHeight) + bufferRows
	lastRow := firstRow + rowsSpan

	first := firstRow * lay.columns
	last := (lastRow+1)*lay.columns - 1
	if last > contentCount-1 {
		last = contentCount - 1
	}
	if first > last {
		// Scrolled past the end; nothing to realize.
		return visibleRange{first: 0, last: -1}
	}
	return visibleRange{first: first, last: last}
}

// scrollOffsetForIndex returns the offset that puts the row of the given
// index fully inside the viewport, moving as little as possible. Already
// visible rows keep the current offset. The result is clamped to the valid
// scroll range.
func scrollOffsetForIndex(index int, current, viewportHeight float32, lay layoutResult, contentCount int, margin float32) float32 {
	if index < 0 || index >= contentCount || lay.columns < 1 {
		return current
	}

	row := index / lay.columns
	rowTop := margin + float32(row)*lay.rowHeight
	rowBottom := rowTop + lay.rowHeight

	offset := current
	if rowTop < current {
		offset = rowTop
	} else if rowBottom > current+viewportHeight {
		offset = rowBottom - viewportHeight
	}

	max := lay.contentSize.Height - viewportHeight
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
