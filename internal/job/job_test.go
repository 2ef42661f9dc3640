// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"code.hybscloud.com/clone"
	"code.hybscloud.com/clone/codec"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const sharedYAML = `
base: &b
  x: 1
a: *b
b: *b
`

func TestProcessKeepsInputFormat(t *testing.T) {
	r := NewRunner(Options{Verify: true}, nil)
	res, err := r.Process("doc.yaml", []byte(sharedYAML))
	require.NoError(t, err)
	assert.Equal(t, codec.YAML, res.From)
	assert.Equal(t, codec.YAML, res.To)
	assert.Equal(t, 2, res.Stats.Composites)
	assert.Equal(t, 2, res.Stats.Shared)

	back, err := codec.Decode(codec.YAML, res.Output)
	require.NoError(t, err)
	rec := back.(*clone.Record)
	a, _ := rec.Get("a")
	b, _ := rec.Get("b")
	assert.Same(t, a, b)
}

func TestProcessConverts(t *testing.T) {
	r := NewRunner(Options{To: codec.JSON}, nil)
	res, err := r.Process("doc.yaml", []byte("k: [1, 2.5, x]\n"))
	require.NoError(t, err)
	assert.Equal(t, codec.JSON, res.To)
	assert.JSONEq(t, `{"k": [1, 2.5, "x"]}`, string(res.Output))
}

func TestProcessStdinDefaultsToJSON(t *testing.T) {
	r := NewRunner(Options{}, nil)
	res, err := r.Process(Stdin, []byte(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, codec.JSON, res.From)
}

func TestProcessForcedFormat(t *testing.T) {
	r := NewRunner(Options{From: codec.YAML}, nil)
	res, err := r.Process("notes.txt", []byte("a: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, codec.YAML, res.From)
}

func TestProcessErrors(t *testing.T) {
	_, err := NewRunner(Options{}, nil).Process("notes.txt", nil)
	assert.ErrorIs(t, err, codec.ErrUnknownFormat)

	_, err = NewRunner(Options{MaxNodes: 1}, nil).Process("doc.json", []byte(`{"a": {"b": {}}}`))
	assert.ErrorIs(t, err, clone.ErrLimitExceeded)

	_, err = NewRunner(Options{}, nil).Process("doc.json", []byte(`{`))
	assert.Error(t, err)
}

func TestProcessCycleFailsEncoding(t *testing.T) {
	_, err := NewRunner(Options{Verify: true}, nil).Process("doc.yaml", []byte("a: &a [*a]\n"))
	assert.ErrorIs(t, err, clone.ErrCycle)
}

func TestProcessNoOutputAcceptsCycles(t *testing.T) {
	r := NewRunner(Options{Verify: true, NoOutput: true}, nil)
	res, err := r.Process("doc.yaml", []byte("a: &a [*a]\n"))
	require.NoError(t, err)
	assert.Nil(t, res.Output)
	assert.Equal(t, 2, res.Stats.Composites)
	assert.Equal(t, 1, res.Stats.Shared)
}

func TestRunAggregatesErrors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(good, []byte(`[1, 2]`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`[1,`), 0o644))
	missing := filepath.Join(dir, "missing.yaml")

	r := NewRunner(Options{Verify: true, Jobs: 2}, nil)
	results, err := r.Run(context.Background(), []string{good, bad, missing}, ReadFile(strings.NewReader("")))
	require.Error(t, err)
	require.Len(t, results, 3)
	assert.NotNil(t, results[0])
	assert.Nil(t, results[1])
	assert.Nil(t, results[2])

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunReadsStdin(t *testing.T) {
	r := NewRunner(Options{To: codec.CBOR}, nil)
	results, err := r.Run(context.Background(), []string{Stdin}, ReadFile(strings.NewReader(`{"a": [true]}`)))
	require.NoError(t, err)
	back, err := codec.Decode(codec.CBOR, results[0].Output)
	require.NoError(t, err)
	want, err := codec.Decode(codec.JSON, []byte(`{"a": [true]}`))
	require.NoError(t, err)
	assert.True(t, clone.Equal(want, back))
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(Options{}, nil)
	_, err := r.Run(ctx, []string{"a.json", "b.json"}, func(string) ([]byte, error) {
		return []byte(`1`), nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
