package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	stdimage "image"
	"image/color"
	stdpng "image/png"
	"testing"

	"github.com/klauspost/compress/zlib"

	"github.com/dwclock/imgdec/internal/image"
)

func chunk(typ string, data []byte) []byte {
	out := make([]byte, 8, 12+len(data))
	binary.BigEndian.PutUint32(out, uint32(len(data)))
	copy(out[4:], typ)
	out = append(out, data...)
	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(out[4:]))
}

func ihdr(w, h, depth int, ct ColorType, interlace uint8) []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b, uint32(w))
	binary.BigEndian.PutUint32(b[4:], uint32(h))
	b[8], b[9], b[12] = uint8(depth), uint8(ct), interlace
	return chunk(chunkIHDR, b)
}

func deflate(t *testing.T, raw []byte) []byte {
	t.Helper()
	var b bytes.Buffer
	zw := zlib.NewWriter(&b)
	if _, err := zw.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func idat(t *testing.T, raw []byte) []byte {
	return chunk(chunkIDAT, deflate(t, raw))
}

// unfiltered prefixes every row with filter type None.
func unfiltered(rows ...[]byte) []byte {
	var out []byte
	for _, r := range rows {
		out = append(out, ftNone)
		out = append(out, r...)
	}
	return out
}

func pngBytes(chunks ...[]byte) []byte {
	out := []byte(Signature)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

var iend = chunk(chunkIEND, nil)

func mustDecode(t *testing.T, data []byte) *image.PixelBuffer {
	t.Helper()
	buf, err := DecodeBytes(data, nil)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	return buf
}

func TestDecode_Grayscale(t *testing.T) {
	tests := []struct {
		name  string
		width int
		depth int
		row   []byte
		want  []uint8
	}{
		{"1-bit", 2, 1, []byte{0b01000000}, []uint8{0, 255}},
		{"1-bit odd width", 9, 1, []byte{0xAA, 0x80}, []uint8{255, 0, 255, 0, 255, 0, 255, 0, 255}},
		{"2-bit", 4, 2, []byte{0b00_01_10_11}, []uint8{0, 85, 170, 255}},
		{"4-bit", 3, 4, []byte{0x0F, 0x80}, []uint8{0, 255, 136}},
		{"8-bit", 2, 8, []byte{7, 200}, []uint8{7, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pngBytes(ihdr(tt.width, 1, tt.depth, ColorGrayscale, 0), idat(t, unfiltered(tt.row)), iend)
			buf := mustDecode(t, data)
			for x, lum := range tt.want {
				r, g, b, a := buf.RGBAAt(x, 0)
				if r != lum || g != lum || b != lum || a != 255 {
					t.Errorf("pixel %d = (%d,%d,%d,%d), want gray %d", x, r, g, b, a, lum)
				}
			}
		})
	}
}

func TestDecode_PaletteIndexOutOfRange(t *testing.T) {
	plte := chunk(chunkPLTE, []byte{10, 20, 30, 40, 50, 60})
	data := pngBytes(ihdr(3, 1, 8, ColorPalette, 0), plte, idat(t, unfiltered([]byte{1, 0, 9})), iend)

	buf := mustDecode(t, data)
	want := [][4]uint8{{40, 50, 60, 255}, {10, 20, 30, 255}, {0, 0, 0, 255}}
	for x, w := range want {
		r, g, b, a := buf.RGBAAt(x, 0)
		if got := [4]uint8{r, g, b, a}; got != w {
			t.Errorf("pixel %d = %v, want %v", x, got, w)
		}
	}
}

func TestDecode_Truecolor(t *testing.T) {
	tests := []struct {
		name string
		ct   ColorType
		row  []byte
		want [4]uint8
	}{
		{"rgb", ColorTruecolor, []byte{1, 2, 3}, [4]uint8{1, 2, 3, 255}},
		{"rgba", ColorTruecolorAlpha, []byte{1, 2, 3, 4}, [4]uint8{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := pngBytes(ihdr(1, 1, 8, tt.ct, 0), idat(t, unfiltered(tt.row)), iend)
			r, g, b, a := mustDecode(t, data).RGBAAt(0, 0)
			if got := [4]uint8{r, g, b, a}; got != tt.want {
				t.Errorf("pixel = %v, want %v", got, tt.want)
			}
		})
	}
}

// filterRows applies filter ft to raw rows of bpp-byte pixels, producing
// the stream an encoder would write.
func filterRows(rows [][]byte, ft byte, bpp int) []byte {
	var out []byte
	var prev []byte
	for _, row := range rows {
		out = append(out, ft)
		for i, v := range row {
			var a, b, c uint8
			if i >= bpp {
				a = row[i-bpp]
			}
			if prev != nil {
				b = prev[i]
				if i >= bpp {
					c = prev[i-bpp]
				}
			}
			switch ft {
			case ftSub:
				v -= a
			case ftUp:
				v -= b
			case ftAverage:
				v -= uint8((int(a) + int(b)) / 2)
			case ftPaeth:
				v -= paeth(a, b, c)
			}
			out = append(out, v)
		}
		prev = row
	}
	return out
}

func TestScanlines_Filters(t *testing.T) {
	const w, h = 4, 3
	rows := make([][]byte, h)
	for y := range rows {
		rows[y] = make([]byte, w*3)
		for i := range rows[y] {
			rows[y][i] = uint8(y*97 + i*31 + i*i)
		}
	}

	for _, ft := range []byte{ftNone, ftSub, ftUp, ftAverage, ftPaeth} {
		data := pngBytes(ihdr(w, h, 8, ColorTruecolor, 0), idat(t, filterRows(rows, ft, 3)), iend)
		hdr, err := Parse(data)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Scanlines(hdr, hdr.IDAT)
		if err != nil {
			t.Fatalf("filter %d: Scanlines() error = %v", ft, err)
		}
		for y := range rows {
			if !bytes.Equal(got[y], rows[y]) {
				t.Errorf("filter %d row %d = %v, want %v", ft, y, got[y], rows[y])
			}
		}
	}
}

func TestPaeth(t *testing.T) {
	tests := []struct {
		a, b, c, want uint8
	}{
		{0, 0, 0, 0},
		{10, 20, 10, 20},
		{20, 10, 10, 20},
		{10, 10, 20, 10},
		{100, 50, 60, 100},
		{50, 100, 200, 50},
	}
	for _, tt := range tests {
		if got := paeth(tt.a, tt.b, tt.c); got != tt.want {
			t.Errorf("paeth(%d,%d,%d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	oneRow := func(n int) []byte { return unfiltered(make([]byte, n)) }
	good := pngBytes(ihdr(1, 1, 8, ColorGrayscale, 0), idat(t, oneRow(1)), iend)

	badCRC := bytes.Clone(good)
	badCRC[len(Signature)+8+13] ^= 0xFF // first byte of the IHDR CRC

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, image.ErrNotAPng},
		{"bmp signature", []byte("BM\x00\x00\x00\x00\x00\x00\x00\x00"), image.ErrNotAPng},
		{"signature only", []byte(Signature), image.ErrTruncatedInput},
		{"bad crc", badCRC, image.ErrCorruptInput},
		{"missing IEND", good[:len(good)-len(iend)], image.ErrTruncatedInput},
		{"IDAT before IHDR", pngBytes(idat(t, oneRow(1)), ihdr(1, 1, 8, ColorGrayscale, 0), iend), image.ErrCorruptInput},
		{"short IHDR", pngBytes(chunk(chunkIHDR, make([]byte, 12)), iend), image.ErrCorruptInput},
		{"zero width", pngBytes(ihdr(0, 1, 8, ColorGrayscale, 0), idat(t, oneRow(1)), iend), image.ErrInvalidDimensions},
		{"no IDAT", pngBytes(ihdr(1, 1, 8, ColorGrayscale, 0), iend), image.ErrTruncatedInput},
		{"interlaced", pngBytes(ihdr(1, 1, 8, ColorGrayscale, 1), idat(t, oneRow(1)), iend), image.ErrUnsupportedFormat},
		{"color type 5", pngBytes(ihdr(1, 1, 8, 5, 0), idat(t, oneRow(1)), iend), image.ErrUnsupportedColorType},
		{"bit depth 3", pngBytes(ihdr(1, 1, 3, ColorGrayscale, 0), idat(t, oneRow(1)), iend), image.ErrUnsupportedBitDepth},
		{"bad PLTE length", pngBytes(ihdr(1, 1, 8, ColorPalette, 0), chunk(chunkPLTE, []byte{1, 2}), idat(t, oneRow(1)), iend), image.ErrCorruptInput},
		{"grayscale+alpha", pngBytes(ihdr(1, 1, 8, ColorGrayscaleAlpha, 0), idat(t, oneRow(2)), iend), image.ErrUnsupportedFormat},
		{"palette without PLTE", pngBytes(ihdr(2, 1, 8, ColorPalette, 0), idat(t, oneRow(2)), iend), image.ErrPaletteMissing},
		{"16-bit gray", pngBytes(ihdr(1, 1, 16, ColorGrayscale, 0), idat(t, oneRow(2)), iend), image.ErrUnsupportedBitDepth},
		{"16-bit rgba", pngBytes(ihdr(1, 1, 16, ColorTruecolorAlpha, 0), idat(t, oneRow(8)), iend), image.ErrUnsupportedBitDepth},
		{"4-bit rgb", pngBytes(ihdr(1, 1, 4, ColorTruecolor, 0), idat(t, oneRow(2)), iend), image.ErrUnsupportedBitDepth},
		{"not zlib", pngBytes(ihdr(1, 1, 8, ColorGrayscale, 0), chunk(chunkIDAT, []byte{0x12, 0x34, 0x56}), iend), image.ErrCorruptInput},
		{"short image data", pngBytes(ihdr(4, 4, 8, ColorGrayscale, 0), idat(t, oneRow(4)), iend), image.ErrTruncatedInput},
		{"unknown filter", pngBytes(ihdr(1, 1, 8, ColorGrayscale, 0), idat(t, []byte{7, 0}), iend), image.ErrCorruptInput},
		{"dimensions overflow int", pngBytes(ihdr(0x7fffffff, 0x7fffffff, 8, ColorTruecolorAlpha, 0), idat(t, []byte{0, 1, 2, 3}), iend), image.ErrInvalidDimensions},
		{"dimensions above pixel limit", pngBytes(ihdr(60000, 60000, 8, ColorTruecolorAlpha, 0), idat(t, oneRow(4)), iend), image.ErrInvalidDimensions},
		{"declared rows missing", pngBytes(ihdr(16000, 16000, 8, ColorTruecolorAlpha, 0), idat(t, oneRow(64000)), iend), image.ErrTruncatedInput},
		{"wide row cut", pngBytes(ihdr(1<<20, 1, 8, ColorTruecolorAlpha, 0), idat(t, oneRow(100)), iend), image.ErrTruncatedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes(tt.data, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeBytes() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_ShortScanlines(t *testing.T) {
	h := &Header{Width: 2, Height: 2, BitDepth: 8, ColorType: ColorGrayscale, RowBytes: 2}

	if _, err := Decode(h, [][]byte{{1, 2}}, nil); !errors.Is(err, image.ErrTruncatedInput) {
		t.Errorf("one scanline: error = %v, want ErrTruncatedInput", err)
	}
	if _, err := Decode(h, [][]byte{{1, 2}, {3}}, nil); !errors.Is(err, image.ErrTruncatedInput) {
		t.Errorf("short scanline: error = %v, want ErrTruncatedInput", err)
	}
}

func TestDecode_MultipleIDAT(t *testing.T) {
	z := deflate(t, unfiltered([]byte{1, 2}, []byte{3, 4}))
	data := pngBytes(
		ihdr(2, 2, 8, ColorGrayscale, 0),
		chunk(chunkIDAT, z[:3]),
		chunk("tEXt", []byte("Comment\x00split")),
		chunk(chunkIDAT, z[3:]),
		iend,
	)
	buf := mustDecode(t, data)
	if r, _, _, _ := buf.RGBAAt(1, 1); r != 4 {
		t.Errorf("pixel (1,1) = %d, want 4", r)
	}
}

// TestDecode_MatchesStdlib compares against image/png for every layout the
// standard encoder can produce that this package supports.
func TestDecode_MatchesStdlib(t *testing.T) {
	palette := func(n int) color.Palette {
		p := make(color.Palette, n)
		for i := range p {
			p[i] = color.RGBA{uint8(i * 13), uint8(255 - i), uint8(i * 7), 255}
		}
		return p
	}
	paletted := func(n int) stdimage.Image {
		img := stdimage.NewPaletted(stdimage.Rect(0, 0, 7, 3), palette(n))
		for i := range img.Pix {
			img.Pix[i] = uint8(i % n)
		}
		return img
	}

	gray := stdimage.NewGray(stdimage.Rect(0, 0, 5, 4))
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 11)
	}
	opaque := stdimage.NewNRGBA(stdimage.Rect(0, 0, 6, 5))
	translucent := stdimage.NewNRGBA(stdimage.Rect(0, 0, 6, 5))
	for y := range 5 {
		for x := range 6 {
			opaque.SetNRGBA(x, y, color.NRGBA{uint8(x * 40), uint8(y * 50), uint8(x ^ y), 255})
			translucent.SetNRGBA(x, y, color.NRGBA{uint8(x * 40), uint8(y * 50), uint8(x ^ y), uint8(x*y*8 + 1)})
		}
	}

	tests := []struct {
		name string
		img  stdimage.Image
	}{
		{"1-bit palette", paletted(2)},
		{"2-bit palette", paletted(4)},
		{"4-bit palette", paletted(16)},
		{"8-bit palette", paletted(200)},
		{"8-bit gray", gray},
		{"rgb", opaque},
		{"rgba", translucent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			if err := stdpng.Encode(&b, tt.img); err != nil {
				t.Fatal(err)
			}
			got, err := DecodeBytes(b.Bytes(), nil)
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}

			ref, err := stdpng.Decode(bytes.NewReader(b.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			want, err := image.FromStdImage(ref)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got.Data(), want.Data()) {
				t.Errorf("pixels differ from image/png")
			}
		})
	}
}

func TestDecode_Stdlib16Bit(t *testing.T) {
	imgs := map[string]stdimage.Image{
		"gray16":  stdimage.NewGray16(stdimage.Rect(0, 0, 2, 2)),
		"nrgba64": stdimage.NewNRGBA64(stdimage.Rect(0, 0, 2, 2)),
	}
	for name, img := range imgs {
		var b bytes.Buffer
		if err := stdpng.Encode(&b, img); err != nil {
			t.Fatal(err)
		}
		if _, err := DecodeBytes(b.Bytes(), nil); !errors.Is(err, image.ErrUnsupportedBitDepth) {
			t.Errorf("%s: error = %v, want ErrUnsupportedBitDepth", name, err)
		}
	}
}

func TestDecode_PoolReuse(t *testing.T) {
	pool := image.NewPool(2)
	data := pngBytes(ihdr(2, 2, 8, ColorGrayscale, 0), idat(t, unfiltered([]byte{1, 2}, []byte{3, 4})), iend)

	first, err := DecodeBytes(data, pool)
	if err != nil {
		t.Fatal(err)
	}
	ptr := &first.Data()[0]
	pool.Put(first)

	second, err := DecodeBytes(data, pool)
	if err != nil {
		t.Fatal(err)
	}
	if &second.Data()[0] != ptr {
		t.Error("second decode did not reuse the pooled buffer")
	}
}

func TestDecodeConfig(t *testing.T) {
	data := pngBytes(ihdr(640, 480, 8, ColorTruecolor, 0), idat(t, nil), iend)
	cfg, err := DecodeConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("DecodeConfig() = %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
}

func TestColorType_String(t *testing.T) {
	if got := ColorGrayscaleAlpha.String(); got != "grayscale+alpha" {
		t.Errorf("String() = %q", got)
	}
	if got := ColorType(9).String(); got != "ColorType(9)" {
		t.Errorf("String() = %q", got)
	}
}
