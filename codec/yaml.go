// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"code.hybscloud.com/clone"
)

const (
	yamlPatternTag   = "!pattern"
	yamlTimestampTag = "!!timestamp"
	yamlMergeTag     = "!!merge"
)

func decodeYAML(data []byte) (clone.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return clone.Null{}, nil
	}
	d := &yamlDecoder{
		nodes:   make(map[*yaml.Node]clone.Value),
		pending: make(map[*yaml.Node]struct{}),
	}
	return d.decode(doc.Content[0])
}

// yamlDecoder maps each composite node to one value, so every alias of an
// anchor resolves to the same composite.
//
// A mapping is pending while its merge keys are resolved: its record cannot
// exist before its prototype does, so reaching it again from there is an
// error rather than a cycle.
type yamlDecoder struct {
	nodes   map[*yaml.Node]clone.Value
	pending map[*yaml.Node]struct{}
}

func (d *yamlDecoder) decode(n *yaml.Node) (clone.Value, error) {
	if v, ok := d.nodes[n]; ok {
		return v, nil
	}
	switch n.Kind {
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case yaml.ScalarNode:
		return decodeYAMLScalar(n)
	case yaml.SequenceNode:
		s := clone.NewSequence()
		d.nodes[n] = s
		for _, c := range n.Content {
			v, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			s.Append(v)
		}
		return s, nil
	case yaml.MappingNode:
		return d.decodeMapping(n)
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return clone.Null{}, nil
		}
		return d.decode(n.Content[0])
	}
	return nil, fmt.Errorf("line %d: unexpected node kind %d", n.Line, n.Kind)
}

func (d *yamlDecoder) decodeMapping(n *yaml.Node) (clone.Value, error) {
	if len(n.Content)%2 != 0 {
		return nil, fmt.Errorf("line %d: odd mapping content", n.Line)
	}
	if _, ok := d.pending[n]; ok {
		return nil, fmt.Errorf("line %d: merge key refers to an enclosing mapping", n.Line)
	}
	d.pending[n] = struct{}{}

	// The prototype must exist before the record is created.
	var proto *clone.Record
	for i := 0; i < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind != yaml.ScalarNode || k.ShortTag() != yamlMergeTag {
			continue
		}
		if proto != nil {
			return nil, fmt.Errorf("line %d: more than one merge key", k.Line)
		}
		pv, err := d.decode(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		p, ok := pv.(*clone.Record)
		if !ok {
			return nil, fmt.Errorf("line %d: merge value is a %s, want a mapping", k.Line, clone.KindOf(pv))
		}
		proto = p
	}

	delete(d.pending, n)
	r := clone.Extend(proto)
	d.nodes[n] = r
	for i := 0; i < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
		}
		if k.ShortTag() == yamlMergeTag {
			continue
		}
		v, err := d.decode(vn)
		if err != nil {
			return nil, err
		}
		r.Set(k.Value, v)
	}
	return r, nil
}

func decodeYAMLScalar(n *yaml.Node) (clone.Value, error) {
	if n.Tag == yamlPatternTag {
		return clone.ParsePattern(n.Value)
	}
	switch tag := n.ShortTag(); tag {
	case "!!null":
		return clone.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return clone.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return clone.Int(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return clone.Float(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return clone.Float(f), nil
	case yamlTimestampTag:
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, err
		}
		return clone.NewTimestamp(t), nil
	case "!!str":
		return clone.String(n.Value), nil
	default:
		return nil, fmt.Errorf("line %d: %w: tag %s", n.Line, clone.ErrUnsupportedKind, tag)
	}
}

func encodeYAML(v clone.Value) ([]byte, error) {
	e := &yamlEncoder{
		refs:  countRefs(v),
		nodes: make(map[clone.Value]*yaml.Node),
		path:  onPath{},
	}
	root, err := e.encode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// countRefs counts references to every composite reachable from root,
// prototypes included.
func countRefs(root clone.Value) map[clone.Value]int {
	refs := make(map[clone.Value]int)
	stack := []clone.Value{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch x := v.(type) {
		case *clone.Sequence:
			if x == nil {
				continue
			}
			refs[x]++
			if refs[x] > 1 {
				continue
			}
			stack = append(stack, x.Items()...)
		case *clone.Record:
			if x == nil {
				continue
			}
			refs[x]++
			if refs[x] > 1 {
				continue
			}
			if p := x.Proto(); p != nil {
				stack = append(stack, p)
			}
			for _, k := range x.Keys() {
				fv, _ := x.Get(k)
				stack = append(stack, fv)
			}
		}
	}
	return refs
}

type yamlEncoder struct {
	refs   map[clone.Value]int
	nodes  map[clone.Value]*yaml.Node
	path   onPath
	anchor int
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (e *yamlEncoder) encode(v clone.Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil, clone.Null:
		return scalar("!!null", "null"), nil
	case clone.Bool:
		return scalar("!!bool", strconv.FormatBool(bool(x))), nil
	case clone.Int:
		return scalar("!!int", strconv.FormatInt(int64(x), 10)), nil
	case clone.Float:
		f := float64(x)
		switch {
		case math.IsNaN(f):
			return scalar("!!float", ".nan"), nil
		case math.IsInf(f, 1):
			return scalar("!!float", ".inf"), nil
		case math.IsInf(f, -1):
			return scalar("!!float", "-.inf"), nil
		}
		return scalar("!!float", formatFloat(f)), nil
	case clone.String:
		return scalar("!!str", string(x)), nil
	case *clone.Pattern:
		if x == nil {
			return scalar("!!null", "null"), nil
		}
		n := scalar(yamlPatternTag, x.Expr())
		n.Style = yaml.SingleQuotedStyle
		return n, nil
	case *clone.Timestamp:
		if x == nil {
			return scalar("!!null", "null"), nil
		}
		return scalar(yamlTimestampTag, x.Time().Format(time.RFC3339Nano)), nil
	case *clone.Sequence:
		if x == nil {
			return scalar("!!null", "null"), nil
		}
		if n, ok, err := e.reference(x); ok || err != nil {
			return n, err
		}
		n := e.open(x, yaml.SequenceNode, "!!seq")
		defer e.path.leave(x)
		for _, item := range x.Items() {
			c, err := e.encode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case *clone.Record:
		if x == nil {
			return scalar("!!null", "null"), nil
		}
		if n, ok, err := e.reference(x); ok || err != nil {
			return n, err
		}
		n := e.open(x, yaml.MappingNode, "!!map")
		defer e.path.leave(x)
		if p := x.Proto(); p != nil {
			pn, err := e.encode(p)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, scalar(yamlMergeTag, "<<"), pn)
		}
		for _, k := range x.Keys() {
			fv, _ := x.Get(k)
			c, err := e.encode(fv)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, scalar("!!str", k), c)
		}
		return n, nil
	default:
		return nil, unsupported(v)
	}
}

// reference returns an alias when v was already emitted, and fails when v
// is still being emitted.
func (e *yamlEncoder) reference(v clone.Value) (*yaml.Node, bool, error) {
	if _, ok := e.path[v]; ok {
		return nil, false, e.path.enter(v)
	}
	if target, ok := e.nodes[v]; ok {
		return &yaml.Node{Kind: yaml.AliasNode, Alias: target, Value: target.Anchor}, true, nil
	}
	return nil, false, nil
}

// open creates the node for a composite entered for the first time,
// anchoring it when it is referenced again later.
func (e *yamlEncoder) open(v clone.Value, kind yaml.Kind, tag string) *yaml.Node {
	n := &yaml.Node{Kind: kind, Tag: tag}
	if e.refs[v] > 1 {
		e.anchor++
		n.Anchor = "n" + strconv.Itoa(e.anchor)
	}
	e.nodes[v] = n
	_ = e.path.enter(v)
	return n
}
