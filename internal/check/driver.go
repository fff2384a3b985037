package check

import (
	"fmt"

	"github.com/iptc-tools/pmdchecker/internal/guide"
	"github.com/iptc-tools/pmdchecker/internal/pmd"
)

// commentTag carries tool-added annotations that may explain discrepancies;
// its content is always surfaced as a note.
const commentTag = "File:Comment"

// Mode selects the reporting behavior of a run.
type Mode int

const (
	// ModeDivergence emits findings only for missing or changed properties.
	ModeDivergence Mode = iota
	// ModeInventory emits a classified row for every property the guide
	// knows, whether or not it diverges.
	ModeInventory
)

// Options configures a Checker.
type Options struct {
	Mode Mode
	// CompareValues also reports scalar values differing from the
	// reference. Divergence mode only; inventory rows always classify.
	CompareValues bool
}

// ruleBinding ties a sync rule to the guide spec of its property.
type ruleBinding struct {
	id   string
	rule SyncRule
	spec guide.PropertySpec
}

// Checker is the top level driver. It is stateless between runs and safe to
// use for any number of documents sequentially.
type Checker struct {
	guide  *guide.Guide
	sink   Sink
	rows   RowSink
	opts   Options
	differ *Differ

	// byXMPTag indexes the sync rules by normalized XMP tag name, the key
	// vocabulary the divergence walk iterates in.
	byXMPTag map[string]ruleBinding
	// byID indexes the same rules by property id for the inventory walk.
	byID map[string]ruleBinding
}

// New builds a checker. rows may be nil unless inventory mode is used.
func New(g *guide.Guide, sink Sink, rows RowSink, opts Options) *Checker {
	c := &Checker{
		guide:    g,
		sink:     sink,
		rows:     rows,
		opts:     opts,
		differ:   NewDiffer(g, sink, opts.CompareValues),
		byXMPTag: make(map[string]ruleBinding),
		byID:     make(map[string]ruleBinding),
	}
	if top := g.TopProperties(); top != nil {
		for id, rule := range defaultSyncRules {
			spec, ok := top.Get(id)
			if !ok {
				continue
			}
			binding := ruleBinding{id: id, rule: rule, spec: spec}
			c.byID[id] = binding
			if spec.ETXMP != "" {
				c.byXMPTag[guide.NormalizeTag(spec.ETXMP)] = binding
			}
		}
	}
	return c
}

// Run checks one candidate document against the reference in the configured
// mode. Findings and rows are emitted in traversal order.
func (c *Checker) Run(ref, cand *pmd.Object) error {
	if c.opts.Mode == ModeInventory {
		return c.Inventory(cand)
	}
	return c.CheckTopLevel(ref, cand)
}

// CheckTopLevel runs the divergence check over the top level properties of
// the reference document.
func (c *Checker) CheckTopLevel(ref, cand *pmd.Object) error {
	if comment, ok := cand.Get(commentTag); ok {
		note := Finding{Kind: KindNote, Value: "COMMENT in the file: " + pmd.Format(comment)}
		if err := c.sink.Emit(note); err != nil {
			return err
		}
	}

	for _, key := range ref.Keys() {
		if !c.guide.IsRecognized(key, false) {
			continue
		}
		path := Path{}.Child(c.guide.DisplayName(key, false))
		refVal, _ := ref.Get(key)
		candVal, ok := cand.Get(key)
		if !ok {
			if err := c.sink.Emit(Finding{Kind: KindMissing, Path: path}); err != nil {
				return err
			}
			continue
		}

		// Designated properties replace the generic comparison with an
		// IIM/XMP synchronization check.
		if binding, ok := c.byXMPTag[guide.NormalizeTag(key)]; ok && c.opts.CompareValues {
			state := c.classify(binding, cand, candVal)
			if state == SyncNotSync {
				note := Finding{
					Kind:  KindNote,
					Path:  path,
					Value: fmt.Sprintf("IIM and XMP values NOT SYNC for <%s>", path),
				}
				if err := c.sink.Emit(note); err != nil {
					return err
				}
			}
			continue
		}

		if err := c.differ.diffNode(path, refVal, candVal); err != nil {
			return err
		}
	}
	return nil
}

// classify evaluates the sync rule bound to a property against the candidate
// document. xmpVal is the candidate value at the property's XMP tag.
func (c *Checker) classify(binding ruleBinding, cand *pmd.Object, xmpVal pmd.Node) SyncState {
	var iimVal pmd.Node
	if binding.spec.ETIIM != "" {
		iimVal, _ = cand.Get(binding.spec.ETIIM)
	}
	return applyRule(binding.rule, iimVal, xmpVal, cand)
}
