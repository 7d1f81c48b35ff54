package events

import (
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/errors"
	"github.com/KState-HEP-HTT/NNClassifiers/nn-golib/fileutil"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
)

type rootReader struct {
	tree string
}

// Read implements Reader for ROOT files. Scalar numeric branches of any width
// are converted to float64.
func (rr rootReader) Read(path string, columns []string) (t *Table, err error) {
	local, err := fileutil.LocalPath(path)
	if err != nil {
		return nil, errors.IO(err, "locating %s", path)
	}

	f, err := groot.Open(local)
	if err != nil {
		return nil, errors.IO(err, "opening %s", path)
	}
	defer errors.Defer(&err, f.Close)

	tree, err := rr.lookupTree(f)
	if err != nil {
		return nil, errors.IO(err, "reading %s", path)
	}

	byName := make(map[string]rtree.ReadVar)
	for _, rv := range rtree.NewReadVars(tree) {
		byName[rv.Name] = rv
	}
	rvars := make([]rtree.ReadVar, len(columns))
	for i, name := range columns {
		rv, ok := byName[name]
		if !ok {
			return nil, errors.Schema(nil, "%s tree %q has no branch %q", path, tree.Name(), name)
		}
		if _, err := toFloat(rv.Value); err != nil {
			return nil, errors.Schema(err, "%s branch %q", path, name)
		}
		rvars[i] = rv
	}

	c, err := newCollector(columns)
	if err != nil {
		return nil, err
	}

	r, err := rtree.NewReader(tree, rvars)
	if err != nil {
		return nil, errors.IO(err, "reading tree %q in %s", tree.Name(), path)
	}
	defer errors.Defer(&err, r.Close)

	err = r.Read(func(ctx rtree.RCtx) error {
		for j, rv := range rvars {
			v, err := toFloat(rv.Value)
			if err != nil {
				return err
			}
			c.row[j] = v
		}
		return c.flush()
	})
	if err != nil {
		return nil, errors.IO(err, "reading tree %q in %s", tree.Name(), path)
	}
	return c.table, nil
}

func (rr rootReader) lookupTree(f *riofs.File) (rtree.Tree, error) {
	name := rr.tree
	if name == "" {
		for _, k := range f.Keys() {
			if k.ClassName() == "TTree" {
				name = k.Name()
				break
			}
		}
		if name == "" {
			return nil, errors.Errorf("no TTree found")
		}
	}

	obj, err := f.Get(name)
	if err != nil {
		return nil, err
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		return nil, errors.Errorf("object %q is a %s, not a TTree", name, obj.Class())
	}
	return tree, nil
}

func toFloat(ptr interface{}) (float64, error) {
	switch v := ptr.(type) {
	case *float64:
		return *v, nil
	case *float32:
		return float64(*v), nil
	case *int64:
		return float64(*v), nil
	case *int32:
		return float64(*v), nil
	case *int16:
		return float64(*v), nil
	case *int8:
		return float64(*v), nil
	case *uint64:
		return float64(*v), nil
	case *uint32:
		return float64(*v), nil
	case *uint16:
		return float64(*v), nil
	case *uint8:
		return float64(*v), nil
	case *bool:
		if *v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, errors.Errorf("unsupported branch type %T", ptr)
}
