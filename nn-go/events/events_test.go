package events

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"
)

func tempDir(t *testing.T) string {
	dir, err := ioutil.TempDir("", "events")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func writeFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestTableOps(t *testing.T) {
	tbl, err := FromColumns([]string{"Q2V1", "Q2V2", "evtwt"}, [][]float64{
		{0.1, -999, 0.3},
		{0.4, 0.5, 0.6},
		{1, 2, 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []float64{-999, 0.5, 2}, tbl.Row(1))

	q1, err := tbl.Column("Q2V1")
	require.NoError(t, err)
	kept := tbl.Filter(func(r int) bool { return q1[r] > 0 })
	assert.Equal(t, 2, kept.Len())
	assert.Equal(t, 3, tbl.Len(), "filter must not touch its input")

	dropped, err := kept.Select("Q2V1", "Q2V2")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q2V1", "Q2V2"}, dropped.Columns())

	withLabel, err := dropped.WithColumn("isSignal", Constant(dropped.Len(), 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"Q2V1", "Q2V2", "isSignal"}, withLabel.Columns())
	assert.Equal(t, []float64{0.3, 0.6, 1}, withLabel.Row(1))

	_, err = withLabel.WithColumn("isSignal", Constant(2, 0))
	assert.True(t, errors.IsSchema(err))

	_, err = tbl.Column("Dbkg_VBF")
	assert.True(t, errors.IsSchema(err))

	m, err := withLabel.Matrix("isSignal", "Q2V1")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0.1}, {1, 0.3}}, m)
}

func TestConcatKeepsOrder(t *testing.T) {
	sig, err := FromColumns([]string{"x", "isSignal"}, [][]float64{{1, 2}, {1, 1}})
	require.NoError(t, err)
	bkg, err := FromColumns([]string{"x", "isSignal"}, [][]float64{{3}, {0}})
	require.NoError(t, err)

	all, err := Concat(sig, bkg)
	require.NoError(t, err)
	x, _ := all.Column("x")
	label, _ := all.Column("isSignal")
	assert.Equal(t, []float64{1, 2, 3}, x)
	assert.Equal(t, []float64{1, 1, 0}, label)

	other, err := FromColumns([]string{"y"}, [][]float64{{1}})
	require.NoError(t, err)
	_, err = Concat(sig, other)
	assert.True(t, errors.IsSchema(err))
}

func TestDuplicateColumns(t *testing.T) {
	_, err := NewTable("Q2V1", "Q2V1")
	assert.True(t, errors.IsSchema(err))
}

func TestCSVReader(t *testing.T) {
	dir := tempDir(t)
	path := writeFile(t, dir, "embed.csv", "Q2V1,Q2V2,evtwt,passSelection\n0.5,0.25,1.5,true\n-999,0.1,2,false\n")

	r, err := NewReader(CSV, Options{})
	require.NoError(t, err)
	tbl, err := r.Read(path, []string{"passSelection", "Q2V1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"passSelection", "Q2V1"}, tbl.Columns())
	assert.Equal(t, [][]float64{{1, 0.5}, {0, -999}}, [][]float64{tbl.Row(0), tbl.Row(1)})

	_, err = r.Read(path, []string{"Q2V1", "numGenJets"})
	assert.True(t, errors.IsSchema(err))

	_, err = r.Read(filepath.Join(dir, "missing.csv"), []string{"Q2V1"})
	assert.True(t, errors.IsIO(err))

	bad := writeFile(t, dir, "bad.csv", "Q2V1\nabc\n")
	_, err = r.Read(bad, []string{"Q2V1"})
	assert.True(t, errors.IsIO(err))

	headerOnly := writeFile(t, dir, "empty.csv", "Q2V1,Q2V2\n")
	tbl, err = r.Read(headerOnly, []string{"Q2V1"})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
	_, err = r.Read(headerOnly, []string{"evtwt"})
	assert.True(t, errors.IsSchema(err))
}

func TestJSONLinesReader(t *testing.T) {
	dir := tempDir(t)
	path := writeFile(t, dir, "VBF125.jsonl", "{\"Q2V1\": 0.5, \"Dbkg_VBF\": 0.9}\n{\"Q2V1\": 0.7, \"Dbkg_VBF\": -999}\n")

	r, err := NewReader(JSONLines, Options{})
	require.NoError(t, err)
	tbl, err := r.Read(path, []string{"Dbkg_VBF"})
	require.NoError(t, err)
	col, err := tbl.Column("Dbkg_VBF")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.9, -999}, col)

	_, err = r.Read(path, []string{"evtwt"})
	assert.True(t, errors.IsSchema(err))

	_, err = r.Read(filepath.Join(dir, "missing.jsonl"), []string{"Q2V1"})
	assert.True(t, errors.IsIO(err))

	_, err = r.Read(filepath.Join(dir, "VBF125.h5"), []string{"Q2V1"})
	assert.True(t, errors.IsConfig(err))
}

func TestJSONLinesIgnoresUnrequestedFields(t *testing.T) {
	dir := tempDir(t)
	path := writeFile(t, dir, "embed.jsonl",
		"{\"sample\": \"DY\", \"Q2V1\": 0.2, \"passSelection\": true, \"tags\": [1, 2]}\n"+
			"{\"sample\": \"DY\", \"Q2V1\": 0.4, \"passSelection\": false, \"tags\": null}\n")

	r, err := NewReader(JSONLines, Options{})
	require.NoError(t, err)
	tbl, err := r.Read(path, []string{"Q2V1", "passSelection"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 1}, tbl.Row(0))
	assert.Equal(t, []float64{0.4, 0}, tbl.Row(1))

	_, err = r.Read(path, []string{"Q2V1", "sample"})
	assert.True(t, errors.IsSchema(err), "text fields cannot be inputs")
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewReader(Format("h5"), Options{})
	assert.True(t, errors.IsConfig(err))
}

func TestROOTReader(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "embed.root")

	f, err := groot.Create(path)
	require.NoError(t, err)
	var (
		q2v1  float64
		njets int32
		evtwt float32
	)
	w, err := rtree.NewWriter(f, "tt_tree", []rtree.WriteVar{
		{Name: "Q2V1", Value: &q2v1},
		{Name: "njets", Value: &njets},
		{Name: "evtwt", Value: &evtwt},
	})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		q2v1 = float64(i) * 0.25
		njets = int32(i)
		evtwt = 0.5
		_, err = w.Write()
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	for _, tree := range []string{"", "tt_tree"} {
		r, err := NewReader(ROOT, Options{TreeName: tree})
		require.NoError(t, err)
		tbl, err := r.Read(path, []string{"njets", "Q2V1", "evtwt"})
		require.NoError(t, err)
		require.Equal(t, 4, tbl.Len())
		assert.Equal(t, []float64{3, 0.75, 0.5}, tbl.Row(3))
	}

	r, err := NewReader(ROOT, Options{})
	require.NoError(t, err)
	_, err = r.Read(path, []string{"Dbkg_VBF"})
	assert.True(t, errors.IsSchema(err))

	_, err = r.Read(filepath.Join(dir, "missing.root"), []string{"Q2V1"})
	assert.True(t, errors.IsIO(err))

	r, err = NewReader(ROOT, Options{TreeName: "mt_tree"})
	require.NoError(t, err)
	_, err = r.Read(path, []string{"Q2V1"})
	assert.True(t, errors.IsIO(err))
}

func TestCollectorReportsShortRows(t *testing.T) {
	c, err := newCollector([]string{"Q2V1", "Q2V2"})
	require.NoError(t, err)
	c.row = []float64{0.5, 0.25}
	require.NoError(t, c.flush())

	c.row = c.row[:1]
	assert.True(t, errors.IsSchema(c.flush()))
	assert.Equal(t, 1, c.table.Len())
}
