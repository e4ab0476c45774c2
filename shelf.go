package uvatlas

// shelfPacker places chart rectangles into the target raster using shelf
// packing. Simple and fast, and good enough for the modest chart counts
// an atlas produces.
//
// The algorithm organizes rectangles in horizontal "shelves". Each shelf
// has a fixed height (determined by the tallest item placed so far).
// New items are placed left-to-right on the current shelf until no space
// remains, then a new shelf is started below. Padding texels separate
// every pair of placed rectangles.
type shelfPacker struct {
	width   int // total width of the raster
	height  int // total height of the raster
	padding int // texels kept free to the right of and below each item
	shelves []shelf

	// usedArea tracks placed rectangle area for Utilization.
	usedArea int
}

// shelf represents a horizontal strip in the raster.
type shelf struct {
	y      int // y position of shelf top
	height int // height of the shelf (tallest item so far)
	x      int // current x position (next free slot)
}

func newShelfPacker(width, height, padding int) *shelfPacker {
	return &shelfPacker{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// place finds space for a w x h rectangle. Returns the texel position and
// true on success, or false when the raster is full.
//
// The algorithm:
//  1. Try to fit on an existing shelf with enough height
//  2. If no shelf fits, create a new shelf
//  3. If no space for a new shelf, placement fails
func (p *shelfPacker) place(w, h int) (x, y int, ok bool) {
	paddedW := w + p.padding
	paddedH := h + p.padding

	for i := range p.shelves {
		s := &p.shelves[i]

		if s.x+paddedW > p.width {
			continue
		}

		if h > s.height {
			// Item is taller than the shelf. Extending is only possible
			// on the last shelf, when there is room below.
			if i == len(p.shelves)-1 && s.y+paddedH <= p.height {
				s.height = h
				x, y = s.x, s.y
				s.x += paddedW
				p.usedArea += w * h
				return x, y, true
			}
			continue
		}

		x, y = s.x, s.y
		s.x += paddedW
		p.usedArea += w * h
		return x, y, true
	}

	// No existing shelf works; open a new one.
	newY := 0
	if len(p.shelves) > 0 {
		last := p.shelves[len(p.shelves)-1]
		newY = last.y + last.height + p.padding
	}
	if paddedW > p.width || newY+paddedH > p.height {
		return 0, 0, false
	}

	p.shelves = append(p.shelves, shelf{y: newY, height: h, x: paddedW})
	p.usedArea += w * h
	return 0, newY, true
}

// reset clears all placements, keeping capacity.
func (p *shelfPacker) reset() {
	p.shelves = p.shelves[:0]
	p.usedArea = 0
}

// utilization returns the fraction of the raster covered by placed
// rectangles, in [0, 1].
func (p *shelfPacker) utilization() float64 {
	total := p.width * p.height
	if total == 0 {
		return 0
	}
	return float64(p.usedArea) / float64(total)
}
