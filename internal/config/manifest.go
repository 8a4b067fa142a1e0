// Package config loads the glyph manifest that maps clock characters to
// image files.
//
// A manifest is YAML:
//
//	dir: ./image
//	format: png
//	flip: false
//	glyphs:
//	  "0": {body: 0_zero.png}
//	  ":": {body: sym_colon.png, blend: sym_colon_mask.png}
//
// Files are merged over the built-in table, then "key=value" overrides are
// applied. Override keys are dotted paths such as "dir" or "glyphs.:.blend".
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"

	"github.com/dwclock/imgdec"
)

// Glyph names the image files for one character. Blend is optional.
type Glyph struct {
	Body   string `mapstructure:"body"`
	Blend  string `mapstructure:"blend"`
	Format string `mapstructure:"format"`
}

// Manifest is a decoded glyph table.
type Manifest struct {
	Dir    string           `mapstructure:"dir"`
	Format string           `mapstructure:"format"`
	Flip   bool             `mapstructure:"flip"`
	Glyphs map[string]Glyph `mapstructure:"glyphs"`
}

// defaultGlyphs is the built-in digit and colon table.
var defaultGlyphs = map[rune]string{
	'0': "0_zero.png",
	'1': "1_one.png",
	'2': "2_two.png",
	'3': "3_three.png",
	'4': "4_four.png",
	'5': "5_five.png",
	'6': "6_six.png",
	'7': "7_seven.png",
	'8': "8_eight.png",
	'9': "9_nine.png",
	':': "sym_colon.png",
}

func defaultRaw() map[string]any {
	glyphs := make(map[string]any, len(defaultGlyphs))
	for r, body := range defaultGlyphs {
		glyphs[string(r)] = map[string]any{"body": body}
	}
	return map[string]any{
		"dir":    "./image",
		"format": "png",
		"flip":   false,
		"glyphs": glyphs,
	}
}

// Default returns the built-in manifest: digits and ':' as PNGs under
// ./image, no blend images.
func Default() *Manifest {
	m, err := decode(defaultRaw())
	if err != nil {
		panic(err) // built-in table is static
	}
	return m
}

// Load reads the manifest at path (skipped when path is empty), merges it
// over Default and applies overrides of the form "key=value".
func Load(path string, overrides []string) (*Manifest, error) {
	raw := defaultRaw()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read manifest: %w", err)
		}
		var file map[string]any
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		merge(raw, normalize(file).(map[string]any))
	}

	for _, o := range overrides {
		if err := set(raw, o); err != nil {
			return nil, err
		}
	}

	return decode(raw)
}

// decode converts a raw map into a Manifest. String values are accepted
// for non-string fields so overrides like "flip=true" work.
func decode(raw map[string]any) (*Manifest, error) {
	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &m,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if _, err := imgdec.ParseFormat(m.Format); err != nil {
		return fmt.Errorf("config: format: %w", err)
	}
	for key, g := range m.Glyphs {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("config: glyph key %q is not a single character", key)
		}
		if g.Body == "" {
			return fmt.Errorf("config: glyph %q has no body", key)
		}
		if _, err := imgdec.ParseFormat(g.Format); err != nil {
			return fmt.Errorf("config: glyph %q: %w", key, err)
		}
	}
	return nil
}

// Glyph returns the files for r with paths resolved against Dir and the
// format defaulted to the manifest's.
func (m *Manifest) Glyph(r rune) (Glyph, bool) {
	g, ok := m.Glyphs[string(r)]
	if !ok {
		return Glyph{}, false
	}
	g.Body = filepath.Join(m.Dir, g.Body)
	if g.Blend != "" {
		g.Blend = filepath.Join(m.Dir, g.Blend)
	}
	if g.Format == "" {
		g.Format = m.Format
	}
	return g, true
}

// Jobs returns one decode job per character of text, in order.
func (m *Manifest) Jobs(text string) ([]imgdec.Job, error) {
	opts := &imgdec.Options{Flip: m.Flip}
	jobs := make([]imgdec.Job, 0, len(text))
	for _, r := range text {
		g, ok := m.Glyph(r)
		if !ok {
			return nil, fmt.Errorf("config: no glyph for %q", r)
		}
		format, err := imgdec.ParseFormat(g.Format)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, imgdec.Job{
			Name:      string(r),
			BodyPath:  g.Body,
			BlendPath: g.Blend,
			Format:    format,
			Options:   opts,
		})
	}
	return jobs, nil
}

// set applies one "a.b.c=value" override to raw.
func set(raw map[string]any, override string) error {
	key, value, ok := strings.Cut(override, "=")
	if !ok || key == "" {
		return fmt.Errorf("config: override %q is not key=value", override)
	}

	parts := strings.Split(key, ".")
	if rest, ok := strings.CutPrefix(key, "glyphs."); ok {
		// The glyph itself may be '.', so the field is after the last dot.
		i := strings.LastIndex(rest, ".")
		if i <= 0 || i == len(rest)-1 {
			return fmt.Errorf("config: override %q: want glyphs.<char>.<field>", override)
		}
		parts = []string{"glyphs", rest[:i], rest[i+1:]}
	}

	node := raw
	for _, p := range parts[:len(parts)-1] {
		child, ok := node[p].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[p] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = value
	return nil
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sm, ok := v.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				merge(dm, sm)
				continue
			}
		}
		dst[k] = v
	}
}

// normalize turns the map[any]any values produced by yaml.v2 into
// map[string]any so they can be merged with the defaults.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}
