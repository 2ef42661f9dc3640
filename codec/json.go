// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"code.hybscloud.com/clone"
)

const (
	jsonPatternKey = "$pattern"
	jsonFlagsKey   = "$flags"
	jsonTimeKey    = "$time"

	// jsonEscape prefixes record keys that start with itself, so no record
	// key collides with the tagged forms.
	jsonEscape = "$"
)

// decodeJSON walks the token stream so object keys keep document order.
func decodeJSON(data []byte) (clone.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after document")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (clone.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return clone.Null{}, nil
	case bool:
		return clone.Bool(t), nil
	case string:
		return clone.String(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return clone.Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return clone.Float(f), nil
	case json.Delim:
		switch t {
		case '[':
			s := clone.NewSequence()
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				s.Append(item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return s, nil
		case '{':
			r := clone.NewRecord()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				fv, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				r.Set(key, fv)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return taggedJSON(r)
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// taggedJSON turns the tagged object forms into opaque values.
func taggedJSON(r *clone.Record) (clone.Value, error) {
	switch r.Len() {
	case 1:
		if s, ok := stringField(r, jsonTimeKey); ok {
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, err
			}
			return clone.NewTimestamp(t), nil
		}
		if s, ok := stringField(r, jsonPatternKey); ok {
			return clone.NewPattern(s, "")
		}
	case 2:
		text, ok1 := stringField(r, jsonPatternKey)
		flags, ok2 := stringField(r, jsonFlagsKey)
		if ok1 && ok2 {
			return clone.NewPattern(text, flags)
		}
	}
	return unescapeKeys(r), nil
}

// unescapeKeys drops one escape prefix from keys starting with "$$".
func unescapeKeys(r *clone.Record) *clone.Record {
	keys := r.Keys()
	if !slices.ContainsFunc(keys, isEscaped) {
		return r
	}
	out := clone.NewRecord()
	for _, k := range keys {
		v, _ := r.Get(k)
		if isEscaped(k) {
			k = k[len(jsonEscape):]
		}
		out.Set(k, v)
	}
	return out
}

func isEscaped(key string) bool {
	return strings.HasPrefix(key, jsonEscape+jsonEscape)
}

func stringField(r *clone.Record, key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(clone.String)
	return string(s), ok
}

func encodeJSON(v clone.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, onPath{}); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v clone.Value, path onPath) error {
	switch x := v.(type) {
	case nil, clone.Null:
		buf.WriteString("null")
	case clone.Bool:
		buf.WriteString(strconv.FormatBool(bool(x)))
	case clone.Int:
		buf.WriteString(strconv.FormatInt(int64(x), 10))
	case clone.Float:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: float %v", clone.ErrUnsupportedKind, f)
		}
		buf.WriteString(formatFloat(f))
	case clone.String:
		writeJSONString(buf, string(x))
	case *clone.Pattern:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		writeJSONString(buf, jsonPatternKey)
		buf.WriteByte(':')
		writeJSONString(buf, x.Text())
		if x.Flags() != "" {
			buf.WriteByte(',')
			writeJSONString(buf, jsonFlagsKey)
			buf.WriteByte(':')
			writeJSONString(buf, x.Flags())
		}
		buf.WriteByte('}')
	case *clone.Timestamp:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		writeJSONString(buf, jsonTimeKey)
		buf.WriteByte(':')
		writeJSONString(buf, x.Time().Format(time.RFC3339Nano))
		buf.WriteByte('}')
	case *clone.Sequence:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		if err := path.enter(x); err != nil {
			return err
		}
		defer path.leave(x)
		buf.WriteByte('[')
		for i := range x.Len() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, x.At(i), path); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *clone.Record:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		if err := path.enter(x); err != nil {
			return err
		}
		defer path.leave(x)
		buf.WriteByte('{')
		for i, k := range x.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			fv, _ := x.Get(k)
			if strings.HasPrefix(k, jsonEscape) {
				k = jsonEscape + k
			}
			writeJSONString(buf, k)
			buf.WriteByte(':')
			if err := writeJSON(buf, fv, path); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return unsupported(v)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	b, _ := json.Marshal(s)
	buf.Write(b)
}

// formatFloat keeps integral floats distinguishable from integers.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f == math.Trunc(f) && !bytes.ContainsAny([]byte(s), ".eE") {
		s += ".0"
	}
	return s
}
