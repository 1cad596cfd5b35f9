package integration

import (
	"github.com/erp/catalogsync/internal/domain/catalog"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// syncPass is the working set of one synchronization. It is owned by a
// single goroutine and discarded when the pass ends.
type syncPass struct {
	source   *integration.SourceProduct
	currency valueobject.CurrencyCode

	archetypes []integration.Archetype

	// options caches attribute definitions with their option tables by
	// remote attribute id; a nil entry records an absent attribute
	options     map[string]*integration.SourceAttribute
	optionOrder []string
	// optionOwner maps a remote attribute id to the local attribute owning its values
	optionOwner map[string]string
	// definitions caches product attribute definitions by code
	definitions map[string]*integration.SourceAttribute
	// files memoizes materialized assets by relative path
	files map[string]*catalog.File

	staged []*stagedVariation
}

// stagedVariation is a variation built in memory before it is committed
type stagedVariation struct {
	variation *catalog.Variation
	quantity  decimal.Decimal
	created   bool
}

func newSyncPass(source *integration.SourceProduct, currency valueobject.CurrencyCode) *syncPass {
	return &syncPass{
		source:      source,
		currency:    currency,
		options:     make(map[string]*integration.SourceAttribute),
		optionOwner: make(map[string]string),
		definitions: make(map[string]*integration.SourceAttribute),
		files:       make(map[string]*catalog.File),
	}
}

// stage queues a variation; a second variation with the same SKU replaces the first
func (p *syncPass) stage(v *stagedVariation) {
	for i, existing := range p.staged {
		if existing.variation.SKU == v.variation.SKU {
			p.staged[i] = v
			return
		}
	}
	p.staged = append(p.staged, v)
}

// cacheOptions records the option table of a remote attribute
func (p *syncPass) cacheOptions(id string, attr *integration.SourceAttribute) {
	if _, seen := p.options[id]; !seen {
		p.optionOrder = append(p.optionOrder, id)
	}
	p.options[id] = attr
}

// matchOption finds the option of the remote attribute named code whose
// value equals value. Tables are searched in the order they were fetched.
func (p *syncPass) matchOption(code, value string) (owner string, opt integration.AttributeOption, ok bool) {
	for _, id := range p.optionOrder {
		attr := p.options[id]
		if attr == nil || attr.AttributeCode != code {
			continue
		}
		for _, o := range attr.Options {
			if o.IsSelectable() && o.Value.String() == value {
				return p.optionOwner[id], o, true
			}
		}
	}
	return "", integration.AttributeOption{}, false
}
