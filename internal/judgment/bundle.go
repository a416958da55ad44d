package judgment

import (
	"encoding/json"

	"dossier/internal/affinity"
)

// ItemKind tags each entry of a bundle so the judge can tell them apart.
type ItemKind string

const (
	KindEntity   ItemKind = "entity"
	KindMedia    ItemKind = "media"
	KindFlag     ItemKind = "flag"
	KindGrant    ItemKind = "grant"
	KindExpense  ItemKind = "expense"
	KindContract ItemKind = "contract"
	KindSanction ItemKind = "sanction"
)

// Item is one piece of evidence in a bundle. It marshals as a JSON object
// with a "kind" field.
type Item interface {
	Kind() ItemKind
}

// SubjectInfo identifies who the bundle is about.
type SubjectInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Bundle is the structured evidence handed to the judge.
type Bundle struct {
	Subject SubjectInfo `json:"subject"`
	Items   []Item      `json:"items"`
}

// Add appends items, skipping nils.
func (b *Bundle) Add(items ...Item) {
	for _, it := range items {
		if it != nil {
			b.Items = append(b.Items, it)
		}
	}
}

// StrongOfficers returns the officers whose affinity alone warrants a
// critical verdict.
func (b Bundle) StrongOfficers() []StrongOfficer {
	var out []StrongOfficer
	for _, it := range b.Items {
		e, ok := it.(EntityItem)
		if !ok {
			continue
		}
		for _, o := range e.Officers {
			if o.Affinity.Strong() {
				out = append(out, StrongOfficer{Entity: e, Officer: o})
			}
		}
	}
	return out
}

type StrongOfficer struct {
	Entity  EntityItem
	Officer OfficerItem
}

type OfficerItem struct {
	Name     string            `json:"name"`
	Role     string            `json:"role,omitempty"`
	Affinity affinity.Affinity `json:"affinity"`
}

type EntityItem struct {
	TaxID     string        `json:"tax_id"`
	LegalName string        `json:"legal_name,omitempty"`
	Officers  []OfficerItem `json:"officers,omitempty"`
}

func (EntityItem) Kind() ItemKind { return KindEntity }

func (e EntityItem) MarshalJSON() ([]byte, error) {
	type plain EntityItem
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		plain
	}{KindEntity, plain(e)})
}

type MediaItem struct {
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

func (MediaItem) Kind() ItemKind { return KindMedia }

func (m MediaItem) MarshalJSON() ([]byte, error) {
	type plain MediaItem
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		plain
	}{KindMedia, plain(m)})
}

// FlagItem is a red flag already raised by the rules.
type FlagItem struct {
	FlagKind string `json:"flag_kind"`
	Title    string `json:"title"`
	Penalty  int    `json:"penalty"`
}

func (FlagItem) Kind() ItemKind { return KindFlag }

func (f FlagItem) MarshalJSON() ([]byte, error) {
	type plain FlagItem
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		plain
	}{KindFlag, plain(f)})
}

type GrantItem struct {
	ID        string  `json:"id"`
	Function  string  `json:"function,omitempty"`
	Locality  string  `json:"locality,omitempty"`
	Committed float64 `json:"committed"`
}

func (GrantItem) Kind() ItemKind { return KindGrant }

func (g GrantItem) MarshalJSON() ([]byte, error) {
	type plain GrantItem
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		plain
	}{KindGrant, plain(g)})
}

type ExpenseItem struct {
	Merchant string  `json:"merchant"`
	Value    float64 `json:"value"`
}

func (ExpenseItem) Kind() ItemKind { return KindExpense }

func (e ExpenseItem) MarshalJSON() ([]byte, error) {
	type plain ExpenseItem
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		plain
	}{KindExpense, plain(e)})
}

type ContractItem struct {
	EntityTaxID  string  `json:"entity_tax_id"`
	AwardingBody string  `json:"awarding_body,omitempty"`
	Object       string  `json:"object,omitempty"`
	Value        float64 `json:"value"`
}

func (ContractItem) Kind() ItemKind { return KindContract }

func (c ContractItem) MarshalJSON() ([]byte, error) {
	type plain ContractItem
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		plain
	}{KindContract, plain(c)})
}

// SanctionItem names who is sanctioned: the subject or a linked entity.
type SanctionItem struct {
	Target   string `json:"target"`
	Registry string `json:"registry"`
	Reason   string `json:"reason,omitempty"`
}

func (SanctionItem) Kind() ItemKind { return KindSanction }

func (s SanctionItem) MarshalJSON() ([]byte, error) {
	type plain SanctionItem
	return json.Marshal(struct {
		Kind ItemKind `json:"kind"`
		plain
	}{KindSanction, plain(s)})
}
