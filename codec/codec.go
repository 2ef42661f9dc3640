// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package codec reads and writes [clone.Value] graphs as JSON, YAML and
// CBOR documents.
//
// Tagged forms for the opaque kinds:
//
//   - JSON: {"$pattern": "text", "$flags": "i"} and {"$time": "RFC 3339"};
//     "$flags" may be omitted. Record keys starting with "$" are written
//     with one more "$", and one leading "$" is dropped from keys starting
//     with "$$" on decode, so no record reads back as a tagged form.
//   - YAML: !pattern "(?i)text" and !!timestamp scalars
//   - CBOR: tag 35 (regular expression) and tags 0/1 (date/time)
//
// YAML anchors and aliases decode to one shared composite, and composites
// referenced more than once are encoded with anchors. A YAML merge key
// ("<<") becomes the record's prototype. JSON and CBOR have no reference
// syntax; shared composites are written out at every position.
// No format can express cycles; encoding a cyclic value fails with
// [clone.ErrCycle].
package codec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"code.hybscloud.com/clone"
)

// ErrUnknownFormat reports a format name or file extension that is not
// recognised.
var ErrUnknownFormat = errors.New("unknown format")

// Format is a document format.
type Format uint8

const (
	JSON Format = iota + 1
	YAML
	CBOR
)

// String returns the format name. The zero Format prints as "".
func (f Format) String() string {
	switch f {
	case 0:
		return ""
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case CBOR:
		return "cbor"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

// ParseFormat parses a format name. Case is ignored; "yml" is YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	}
	return 0, fmt.Errorf("codec: %w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, fmt.Errorf("codec: %w: no extension in %q", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Ext returns the conventional file extension, including the dot.
func (f Format) Ext() string { return "." + f.String() }

// Decode parses one document.
func Decode(f Format, data []byte) (clone.Value, error) {
	var (
		v   clone.Value
		err error
	)
	switch f {
	case JSON:
		v, err = decodeJSON(data)
	case YAML:
		v, err = decodeYAML(data)
	case CBOR:
		v, err = decodeCBOR(data)
	default:
		return nil, fmt.Errorf("codec: %w: %d", ErrUnknownFormat, uint8(f))
	}
	if err != nil {
		return nil, fmt.Errorf("codec: %s: %w", f, err)
	}
	return v, nil
}

// Encode writes v as one document.
func Encode(f Format, v clone.Value) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch f {
	case JSON:
		b, err = encodeJSON(v)
	case YAML:
		b, err = encodeYAML(v)
	case CBOR:
		b, err = encodeCBOR(v)
	default:
		return nil, fmt.Errorf("codec: %w: %d", ErrUnknownFormat, uint8(f))
	}
	if err != nil {
		return nil, fmt.Errorf("codec: %s: %w", f, err)
	}
	return b, nil
}

// onPath tracks the composites on the current encoding path.
type onPath map[clone.Value]struct{}

func (p onPath) enter(v clone.Value) error {
	if _, ok := p[v]; ok {
		return fmt.Errorf("%w: %s refers to itself", clone.ErrCycle, clone.KindOf(v))
	}
	p[v] = struct{}{}
	return nil
}

func (p onPath) leave(v clone.Value) { delete(p, v) }

func unsupported(v any) error {
	return fmt.Errorf("%w: %T", clone.ErrUnsupportedKind, v)
}
