// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/fxamacker/cbor/v2"

	"code.hybscloud.com/clone"
)

// cborTagRegexp is the IANA tag for regular expressions (RFC 7049 §2.4.4.3).
const cborTagRegexp = 35

// maxCBORNesting bounds document depth on decode.
const maxCBORNesting = 4096

var (
	cborDecMode cbor.DecMode
	cborEncMode cbor.EncMode
)

func init() {
	var err error
	cborDecMode, err = cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: maxCBORNesting,
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: failed to build cbor decoder: " + err.Error())
	}

	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	opts.TimeTag = cbor.EncTagRequired
	cborEncMode, err = opts.EncMode()
	if err != nil {
		panic("codec: failed to build cbor encoder: " + err.Error())
	}
}

func decodeCBOR(data []byte) (clone.Value, error) {
	var x any
	if err := cborDecMode.Unmarshal(data, &x); err != nil {
		return nil, err
	}
	return fromCBOR(x)
}

// fromCBOR converts decoded CBOR data items. Tag 0/1 arrive as time.Time;
// tag 35 arrives as a generic cbor.Tag.
func fromCBOR(x any) (clone.Value, error) {
	switch v := x.(type) {
	case cbor.Tag:
		if v.Number != cborTagRegexp {
			return nil, fmt.Errorf("%w: cbor tag %d", clone.ErrUnsupportedKind, v.Number)
		}
		expr, ok := v.Content.(string)
		if !ok {
			return nil, fmt.Errorf("tag %d content is %T, want text", v.Number, v.Content)
		}
		return clone.ParsePattern(expr)
	case []any:
		s := clone.NewSequence()
		for _, item := range v {
			iv, err := fromCBOR(item)
			if err != nil {
				return nil, err
			}
			s.Append(iv)
		}
		return s, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		r := clone.NewRecord()
		for _, k := range keys {
			fv, err := fromCBOR(v[k])
			if err != nil {
				return nil, err
			}
			r.Set(k, fv)
		}
		return r, nil
	default:
		return clone.FromNative(x)
	}
}

func encodeCBOR(v clone.Value) ([]byte, error) {
	x, err := toCBOR(v, onPath{})
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(x)
}

func toCBOR(v clone.Value, path onPath) (any, error) {
	switch x := v.(type) {
	case nil, clone.Null:
		return nil, nil
	case clone.Bool:
		return bool(x), nil
	case clone.Int:
		return int64(x), nil
	case clone.Float:
		return float64(x), nil
	case clone.String:
		return string(x), nil
	case *clone.Pattern:
		if x == nil {
			return nil, nil
		}
		return cbor.Tag{Number: cborTagRegexp, Content: x.Expr()}, nil
	case *clone.Timestamp:
		if x == nil {
			return nil, nil
		}
		return x.Time(), nil
	case *clone.Sequence:
		if x == nil {
			return nil, nil
		}
		if err := path.enter(x); err != nil {
			return nil, err
		}
		defer path.leave(x)
		out := make([]any, x.Len())
		for i := range out {
			c, err := toCBOR(x.At(i), path)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case *clone.Record:
		if x == nil {
			return nil, nil
		}
		if err := path.enter(x); err != nil {
			return nil, err
		}
		defer path.leave(x)
		out := make(map[string]any, x.Len())
		for _, k := range x.Keys() {
			fv, _ := x.Get(k)
			c, err := toCBOR(fv, path)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	default:
		return nil, unsupported(v)
	}
}
