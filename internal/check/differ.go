package check

import (
	"github.com/iptc-tools/pmdchecker/internal/guide"
	"github.com/iptc-tools/pmdchecker/internal/pmd"
)

// Differ walks a reference property tree against a candidate tree and emits
// a finding for every divergence. The reference drives the traversal:
// candidate-only properties are never visited.
type Differ struct {
	guide         *guide.Guide
	sink          Sink
	compareValues bool
}

// NewDiffer builds a differ. With compareValues set, scalar values that
// differ from the reference are reported in addition to missing properties.
func NewDiffer(g *guide.Guide, sink Sink, compareValues bool) *Differ {
	return &Differ{guide: g, sink: sink, compareValues: compareValues}
}

// DiffStructure checks a metadata structure at any level below the top
// level. prefix locates the structure within the document.
func (d *Differ) DiffStructure(prefix Path, ref, cand *pmd.Object) error {
	for _, key := range ref.Keys() {
		if !d.guide.IsRecognized(key, true) {
			continue
		}
		path := prefix.Child(d.guide.DisplayName(key, true))
		refVal, _ := ref.Get(key)
		candVal, ok := cand.Get(key)
		if !ok {
			if err := d.sink.Emit(Finding{Kind: KindMissing, Path: path}); err != nil {
				return err
			}
			continue
		}
		if err := d.diffNode(path, refVal, candVal); err != nil {
			return err
		}
	}
	return nil
}

// diffNode dispatches on the reference node's shape. Nested structure keys
// always resolve through the in-structure namespace.
func (d *Differ) diffNode(path Path, refVal, candVal pmd.Node) error {
	switch rv := refVal.(type) {
	case *pmd.Object:
		co, _ := candVal.(*pmd.Object)
		// A candidate of the wrong shape has none of the structure's
		// properties; walking an empty object reports them all missing.
		if co == nil {
			co = pmd.NewObject()
		}
		return d.DiffStructure(path, rv, co)
	case pmd.List:
		return d.diffList(path, rv, candVal)
	case pmd.Scalar:
		if !d.compareValues {
			return nil
		}
		if cs, ok := candVal.(pmd.Scalar); !ok || !cs.Equal(rv) {
			return d.sink.Emit(Finding{Kind: KindChanged, Path: path, Value: pmd.Format(candVal)})
		}
	}
	return nil
}

// diffList applies the representative-element policy: every reference index
// holding a structure is recursed into, scalar elements are value-compared
// when requested. Candidate lists shorter than the reference are treated as
// missing at the unmatched indices.
func (d *Differ) diffList(path Path, refList pmd.List, candVal pmd.Node) error {
	candList, _ := candVal.(pmd.List)

	for i, refElem := range refList {
		elemPath := path.At(i + 1)

		switch re := refElem.(type) {
		case pmd.Scalar:
			if !d.compareValues {
				continue
			}
			if i >= len(candList) {
				if err := d.sink.Emit(Finding{Kind: KindMissing, Path: elemPath}); err != nil {
					return err
				}
				continue
			}
			if cs, ok := candList[i].(pmd.Scalar); !ok || !cs.Equal(re) {
				if err := d.sink.Emit(Finding{Kind: KindChanged, Path: elemPath, Value: pmd.Format(candList[i])}); err != nil {
					return err
				}
			}
		case *pmd.Object:
			if i >= len(candList) {
				if err := d.sink.Emit(Finding{Kind: KindMissing, Path: elemPath}); err != nil {
					return err
				}
				continue
			}
			candElem, ok := candList[i].(*pmd.Object)
			if !ok {
				if err := d.sink.Emit(Finding{Kind: KindMissing, Path: elemPath}); err != nil {
					return err
				}
				continue
			}
			if err := d.DiffStructure(elemPath, re, candElem); err != nil {
				return err
			}
		}
	}
	return nil
}
