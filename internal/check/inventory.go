package check

import (
	"errors"
	"strings"

	"github.com/iptc-tools/pmdchecker/internal/pmd"
)

// Cell vocabulary of inventory rows.
const (
	cellFound   = "found"
	cellMissing = "MISSING"
	cellNotSpec = "not spec"
	cellUnused  = "x"
)

// ErrNoInventoryGuide is returned when inventory mode runs with a guide that
// lacks the canonical property sections.
var ErrNoInventoryGuide = errors.New("guide has no inventory property sections")

// Row is one classified property of an inventory run. One row is emitted per
// property known to the guide, regardless of divergence.
type Row struct {
	Topic     string
	SortOrder string
	NameL1    string
	NameL2    string
	NameL3    string
	IIM       string
	XMP       string
	Sync      string
	Comments  string
}

// RowSink receives inventory rows in guide order.
type RowSink interface {
	EmitRow(r Row) error
}

// Inventory walks the guide's canonical property set and emits one
// classified row per property, recursing into nested structures.
func (c *Checker) Inventory(cand *pmd.Object) error {
	top := c.guide.TopProperties()
	if top == nil {
		return ErrNoInventoryGuide
	}
	if c.rows == nil {
		return errors.New("inventory mode requires a row sink")
	}

	for _, id := range top.IDs() {
		spec, _ := top.Get(id)
		label := spec.Label
		if label == "" {
			label = "UNKNOWN-ERROR"
		}
		row := Row{
			Topic:     orDefault(spec.UGTopic, "xxx"),
			SortOrder: orDefault(spec.SortOrder, "xxx"),
			NameL1:    label,
			NameL2:    cellUnused,
			NameL3:    cellUnused,
			IIM:       cellNotSpec,
			XMP:       cellNotSpec,
			Sync:      SyncNotApplicable.String(),
		}

		var iimVal pmd.Node
		iimFound := false
		if spec.ETIIM != "" {
			if strings.Contains(spec.ETIIM, "+") {
				iimFound = compositeTagPresent(cand, spec.ETIIM)
			} else {
				iimVal, iimFound = cand.Get(spec.ETIIM)
			}
			row.IIM = presenceCell(iimFound)
		}

		var xmpVal pmd.Node
		xmpFound := false
		if spec.ETXMP != "" {
			xmpVal, xmpFound = cand.Get(spec.ETXMP)
			row.XMP = presenceCell(xmpFound)
		}

		if spec.IsPlainValue() {
			if binding, ok := c.byID[id]; ok {
				row.Sync = applyRule(binding.rule, iimVal, xmpVal, cand).String()
			} else if iimFound && xmpFound {
				row.Sync = classifyPlain(iimVal, xmpVal).String()
			}
		}

		if err := c.rows.EmitRow(row); err != nil {
			return err
		}

		if structID := spec.StructID(); structID != "" {
			err := c.inventoryStruct(2, structID, []string{label}, row.Topic, row.SortOrder, xmpVal)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// inventoryStruct emits rows for the properties of a nested structure.
// candNode is the candidate's value at the parent property: an Object for a
// singular structure, a List of Objects for a repeatable one, nil when the
// parent is absent. Only levels 2 and 3 are investigated.
func (c *Checker) inventoryStruct(level int, structID string, parents []string, topic, parentSortOrder string, candNode pmd.Node) error {
	if level < 2 || level > 3 {
		return nil
	}
	set, ok := c.guide.Struct(structID)
	if !ok {
		// The structure has no descriptor set; nothing can be validated
		// below this point.
		return nil
	}

	for _, id := range set.IDs() {
		spec, _ := set.Get(id)
		label := spec.Label
		if label == "" {
			label = "UNKNOWN-ERROR"
		}
		row := Row{
			Topic:     topic,
			SortOrder: parentSortOrder + "-" + orDefault(spec.SortOrder, "xxx"),
			IIM:       cellNotSpec,
			XMP:       cellNotSpec,
			Sync:      SyncNotApplicable.String(),
		}
		if level == 2 {
			row.NameL1, row.NameL2, row.NameL3 = parents[0], label, cellUnused
		} else {
			row.NameL1, row.NameL2, row.NameL3 = parents[0], parents[1], label
		}

		var xmpVal pmd.Node
		if spec.ETTag != "" {
			found := false
			switch cn := candNode.(type) {
			case pmd.List:
				// Repeatable structure: the property counts as present
				// when any instance carries it.
				for _, elem := range cn {
					if obj, ok := elem.(*pmd.Object); ok && obj.Has(spec.ETTag) {
						found = true
					}
				}
			case *pmd.Object:
				xmpVal, found = cn.Get(spec.ETTag)
			}
			row.XMP = presenceCell(found)
		}

		if err := c.rows.EmitRow(row); err != nil {
			return err
		}

		if nestedID := spec.StructID(); nestedID != "" {
			err := c.inventoryStruct(level+1, nestedID, append(parents, label), topic, row.SortOrder, xmpVal)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// classifyPlain is the generic scalar synchronization check used when no
// per-property rule applies.
func classifyPlain(iimVal, xmpVal pmd.Node) SyncState {
	iim, ok := iimVal.(pmd.Scalar)
	if !ok {
		return SyncNotApplicable
	}
	xmp, ok := xmpVal.(pmd.Scalar)
	if !ok {
		return SyncNotApplicable
	}
	if iim.Equal(xmp) {
		return SyncInSync
	}
	return SyncNotSync
}

func presenceCell(found bool) string {
	if found {
		return cellFound
	}
	return cellMissing
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
