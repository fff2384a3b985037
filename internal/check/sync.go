package check

import (
	"strings"

	"github.com/iptc-tools/pmdchecker/internal/pmd"
)

// SyncState is the three-way outcome of an IIM/XMP value synchronization
// check. Absence of one side is not a divergence, it makes the check
// inapplicable.
type SyncState int

const (
	SyncNotApplicable SyncState = iota
	SyncInSync
	SyncNotSync
)

func (s SyncState) String() string {
	switch s {
	case SyncInSync:
		return "in sync"
	case SyncNotSync:
		return "NOT SYNC"
	default:
		return "---"
	}
}

type syncRuleKind int

const (
	// ruleListVsSingular: the IIM side holds one representative value, the
	// XMP side a list of alternates; in sync iff the singular value equals
	// the first list element.
	ruleListVsSingular syncRuleKind = iota
	// ruleDateTimeComposite: two IIM fields, date and time, joined by a
	// single space must equal the XMP composite value.
	ruleDateTimeComposite
)

// SyncRule overrides the generic scalar comparison for one property.
type SyncRule struct {
	kind    syncRuleKind
	dateTag string
	timeTag string
}

// defaultSyncRules carries the two per-property overrides of the standard:
// creator names are a single IIM by-line but an XMP list, and the IIM
// creation date splits into separate date and time fields.
var defaultSyncRules = map[string]SyncRule{
	"creatorNames": {kind: ruleListVsSingular},
	"dateCreated": {
		kind:    ruleDateTimeComposite,
		dateTag: "IPTC:DateCreated",
		timeTag: "IPTC:TimeCreated",
	},
}

// classifyListVsSingular checks a singular value against a list of
// alternates. A bare scalar on the list side is compared directly.
func classifyListVsSingular(singular, list pmd.Node) SyncState {
	single, ok := singular.(pmd.Scalar)
	if !ok {
		return SyncNotApplicable
	}
	switch v := list.(type) {
	case pmd.List:
		if len(v) == 0 {
			return SyncNotApplicable
		}
		if first, ok := v[0].(pmd.Scalar); ok && first.Equal(single) {
			return SyncInSync
		}
		return SyncNotSync
	case pmd.Scalar:
		if v.Equal(single) {
			return SyncInSync
		}
		return SyncNotSync
	default:
		return SyncNotApplicable
	}
}

// classifyDateTimeComposite checks that date and time fields of the
// candidate, concatenated with a single space, equal the composite value.
// Missing fields count as empty strings.
func classifyDateTimeComposite(cand *pmd.Object, dateTag, timeTag string, composite pmd.Node) SyncState {
	comp, ok := composite.(pmd.Scalar)
	if !ok {
		return SyncNotApplicable
	}

	var date, timeOfDay string
	if n, ok := cand.Get(dateTag); ok {
		if s, ok := n.(pmd.Scalar); ok {
			date = s.String()
		}
	}
	if n, ok := cand.Get(timeTag); ok {
		if s, ok := n.(pmd.Scalar); ok {
			timeOfDay = s.String()
		}
	}

	if date+" "+timeOfDay == comp.String() {
		return SyncInSync
	}
	return SyncNotSync
}

// applyRule evaluates a sync rule against the candidate document. xmpVal is
// the candidate's value at the property's XMP tag, nil when absent.
func applyRule(rule SyncRule, iimVal pmd.Node, xmpVal pmd.Node, cand *pmd.Object) SyncState {
	switch rule.kind {
	case ruleListVsSingular:
		return classifyListVsSingular(iimVal, xmpVal)
	case ruleDateTimeComposite:
		return classifyDateTimeComposite(cand, rule.dateTag, rule.timeTag, xmpVal)
	default:
		return SyncNotApplicable
	}
}

// compositeTagPresent handles IIM tags declared as `TagA+TagB`: the
// composite counts as present only when every part is.
func compositeTagPresent(cand *pmd.Object, tag string) bool {
	for _, part := range strings.Split(tag, "+") {
		if !cand.Has(part) {
			return false
		}
	}
	return true
}
