package grid

import (
	"math"

	"fyne.io/fyne/v2"
)

// layoutResult is the cached outcome of one layout pass. It is recomputed
// whenever the available width, the configuration, or the content count
// changes, and never mutated in place.
type layoutResult struct {
	columns   int
	spacing   float32
	itemWidth float32 // ItemSize + ItemPadding
	rowHeight float32
	totalRows int

	contentSize fyne.Size // full scrollable area
}

// computeLayout picks the column count and inter-item spacing for the given
// width. Deterministic and side-effect free.
//
// The spacing is the largest value that still fits the chosen column count
// within the usable width. When even a single item does not fit, we stay at
// one column and let the caller clip the overflow.
func computeLayout(availableWidth float32, cfg Config, contentCount int) layoutResult {
	cfg = cfg.normalized()

	itemWidth := cfg.ItemSize + cfg.ItemPadding
	usableWidth := availableWidth - 2*cfg.ContentMargin
	if usableWidth < 0 {
		usableWidth = 0
	}

	columns := int((usableWidth + cfg.MinSpacing) / (itemWidth + cfg.MinSpacing))
	if columns < 1 {
		columns = 1
	}

	// Gaps below MinSpacing mean one column too many; drop columns until
	// the spacing recovers. The floor at one column is the termination
	// guard: widths below a single item never converge otherwise.
	// Gaps above MaxSpacing are clamped instead of dropping a column,
	// since fewer columns only widen the gaps further.
	spacing := columnSpacing(usableWidth, itemWidth, columns)
	for columns > 1 && spacing < cfg.MinSpacing {
		columns--
		spacing = columnSpacing(usableWidth, itemWidth, columns)
	}
	if spacing > cfg.MaxSpacing {
		spacing = cfg.MaxSpacing
	}
	if columns == 1 || spacing < cfg.MinSpacing {
		spacing = cfg.MinSpacing
	}

	rowHeight := itemWidth + spacing
	totalRows := 0
	if contentCount > 0 {
		totalRows = (contentCount + columns - 1) / columns
	}

	width := availableWidth
	if min := itemWidth + 2*cfg.ContentMargin; width < min {
		width = min
	}
	height := 2*cfg.ContentMargin + float32(totalRows)*rowHeight

	return layoutResult{
		columns:     columns,
		spacing:     spacing,
		itemWidth:   itemWidth,
		rowHeight:   rowHeight,
		totalRows:   totalRows,
		contentSize: fyne.NewSize(width, height),
	}
}

func columnSpacing(usableWidth, itemWidth float32, columns int) float32 {
	if columns <= 1 {
		return 0
	}
	return (usableWidth - float32(columns)*itemWidth) / float32(columns-1)
}

// cellOrigin returns the top-left corner of the cell holding the given
// linear index.
func (l layoutResult) cellOrigin(index int, margin float32) fyne.Position {
	row := index / l.columns
	col := index % l.columns
	x := margin + float32(col)*(l.itemWidth+l.spacing)
	y := margin + float32(row)*l.rowHeight
	return fyne.NewPos(x, y)
}

func ceil32(v float32) int {
	return int(math.Ceil(float64(v)))
}

func floor32(v float32) int {
	return int(math.Floor(float64(v)))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
