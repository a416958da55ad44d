package pipeline

import (
	"cmp"
	"slices"

	"dossier/internal/affinity"
	"dossier/internal/domain"
	"dossier/internal/evidence/registry/providers/transparency"
	"dossier/internal/evidence/registry/providers/websearch"
	"dossier/internal/judgment"
)

// maxBundleExpenses keeps the judge's input small; the largest expenses are
// kept.
const maxBundleExpenses = 20

type officerAffinity struct {
	person   domain.Person
	affinity affinity.Affinity
}

type bundleBuilder struct {
	judgment.Bundle
}

func newBundle(s domain.Subject) *bundleBuilder {
	return &bundleBuilder{Bundle: judgment.Bundle{Subject: judgment.SubjectInfo{ID: s.ID, Name: s.Name}}}
}

func (b *bundleBuilder) addEntity(e entityEvidence, officers []officerAffinity) {
	item := judgment.EntityItem{TaxID: e.taxID, LegalName: e.company.LegalName}
	for _, o := range officers {
		item.Officers = append(item.Officers, judgment.OfficerItem{Name: o.person.Name, Role: o.person.Role, Affinity: o.affinity})
	}
	b.Add(item)
	b.addSanctions(e.name(), e.sanctions)
	for _, c := range e.contracts {
		b.Add(judgment.ContractItem{EntityTaxID: e.taxID, AwardingBody: c.AwardingBody, Object: c.Object, Value: c.Value})
	}
}

func (b *bundleBuilder) addMedia(hits []websearch.Hit) {
	for _, h := range hits {
		b.Add(judgment.MediaItem{Title: h.Title, URL: h.URL, Snippet: h.Body})
	}
}

func (b *bundleBuilder) addSanctions(target string, sanctions []transparency.Sanction) {
	for _, s := range sanctions {
		b.Add(judgment.SanctionItem{Target: target, Registry: s.Registry, Reason: s.Reason})
	}
}

func (b *bundleBuilder) addGrants(grants []transparency.Grant) {
	for _, g := range grants {
		b.Add(judgment.GrantItem{ID: g.ID, Function: g.Function, Locality: g.Locality, Committed: g.Committed})
	}
}

func (b *bundleBuilder) addExpenses(expenses []transparency.Expense) {
	sorted := slices.Clone(expenses)
	slices.SortStableFunc(sorted, func(x, y transparency.Expense) int {
		return cmp.Compare(y.Value, x.Value)
	})
	if len(sorted) > maxBundleExpenses {
		sorted = sorted[:maxBundleExpenses]
	}
	for _, e := range sorted {
		b.Add(judgment.ExpenseItem{Merchant: e.Merchant, Value: e.Value})
	}
}

func flagItem(f domain.RedFlag) judgment.Item {
	return judgment.FlagItem{FlagKind: string(f.Kind), Title: f.Title, Penalty: f.Penalty}
}
