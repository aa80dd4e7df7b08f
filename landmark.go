package mapgrid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// A RescueCodec decorates Taipower grid references with landmark names.
// The landmark table maps the two square letters of a reference to a
// display name; it is populated once at construction and read-only
// thereafter.
type RescueCodec struct {
	base      *TaipowerCodec
	landmarks map[string]string
}

// NewRescueCodec returns a new RescueCodec with the given landmark table.
func NewRescueCodec(landmarks map[string]string) *RescueCodec {
	return &RescueCodec{
		base:      NewTaipowerCodec(),
		landmarks: landmarks,
	}
}

// Encode returns the grid reference of point. If the reference's square
// letters match a landmark, the result embeds the landmark name:
// "name-C7336-GD-49". Otherwise it is the undecorated base reference.
func (c *RescueCodec) Encode(point Point) (string, bool) {
	mask, ok := c.base.Encode(point)
	if !ok {
		return "", false
	}
	name, found := c.landmarks[mask[6:8]]
	if !found {
		return mask, true
	}
	return name + "-" + mask[:5] + "-" + mask[6:8] + "-" + mask[8:], true
}

// EncodeAtZoom returns the decorated grid reference of point elided for
// display at the given zoom level. The landmark name appears from zoom 10
// upward.
func (c *RescueCodec) EncodeAtZoom(point Point, zoom int) (string, bool) {
	mask, ok := c.base.Encode(point)
	if !ok {
		return "", false
	}
	truncated, ok := truncateMask(mask, zoom)
	if !ok {
		return "", false
	}
	if zoom < 10 {
		return truncated, true
	}
	name, found := c.landmarks[mask[6:8]]
	if !found {
		return truncated, true
	}
	switch {
	case zoom <= 12:
		return name + "-" + mask[:5], true
	case zoom <= 15:
		return name + "-" + mask[:5] + "-" + mask[6:8], true
	default:
		return name + "-" + mask[:5] + "-" + mask[6:8] + "-" + mask[8:], true
	}
}

// Decode returns the center of the vision cell named by text. A
// decorated reference decodes from its grid-reference suffix, so a
// landmark name containing letters or digits does not leak into the
// significant characters. Base references decode unchanged.
func (c *RescueCodec) Decode(text string) (Point, error) {
	for i := len(text) - 1; i >= 0; i-- {
		if text[i] != '-' {
			continue
		}
		if point, err := c.base.Decode(text[i+1:]); err == nil {
			return point, nil
		}
	}
	return c.base.Decode(text)
}

// ParseLandmarks reads a landmark table of "code,name" lines. Codes may
// be written as the bare square letters ("GD") or in the masked long form
// used by the published tables ("XXXXX-GD"); either way the last two
// letters are the key.
func ParseLandmarks(r io.Reader) (map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	landmarks := make(map[string]string)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		code := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(record[0]), "-", ""))
		if len(code) < 2 {
			return nil, fmt.Errorf("invalid landmark code %q", record[0])
		}
		landmarks[code[len(code)-2:]] = strings.TrimSpace(record[1])
	}
	return landmarks, nil
}
