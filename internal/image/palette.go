package image

// PaletteEntry is one color-table entry in R, G, B order.
//
// BMP files store entries as B, G, R (plus a reserved byte for Windows
// headers); PNG PLTE chunks store R, G, B. Decoders reorder on read.
type PaletteEntry struct {
	R, G, B uint8
}

// Palette is an indexed color table.
type Palette []PaletteEntry

// At returns entry i, or opaque black when i is past the end of the table.
func (p Palette) At(i int) PaletteEntry {
	if i < 0 || i >= len(p) {
		return PaletteEntry{}
	}
	return p[i]
}
