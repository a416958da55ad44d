package scoring

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	pstrings "dossier/pkg/platform/strings"
)

// BlacklistEntry is one curated name with the reason it is listed.
type BlacklistEntry struct {
	Name   string `yaml:"name"`
	Reason string `yaml:"reason"`
	Source string `yaml:"source"`
}

// Blacklist is a curated list of names that cost points on sight.
type Blacklist struct {
	entries []BlacklistEntry
	folded  []string
}

func NewBlacklist(entries []BlacklistEntry) *Blacklist {
	b := &Blacklist{}
	for _, e := range entries {
		f := pstrings.Fold(e.Name)
		if f == "" {
			continue
		}
		b.entries = append(b.entries, e)
		b.folded = append(b.folded, f)
	}
	return b
}

// LoadBlacklist reads a YAML file of the form:
//
//	entries:
//	  - name: Some Name
//	    reason: convicted for ...
//	    source: https://...
//
// An empty path yields an empty list.
func LoadBlacklist(path string) (*Blacklist, error) {
	if strings.TrimSpace(path) == "" {
		return NewBlacklist(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blacklist: %w", err)
	}
	var doc struct {
		Entries []BlacklistEntry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse blacklist: %w", err)
	}
	return NewBlacklist(doc.Entries), nil
}

func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Match returns the first entry whose folded name appears in name as whole
// tokens. At most one entry is ever returned.
func (b *Blacklist) Match(name string) (BlacklistEntry, bool) {
	if b == nil {
		return BlacklistEntry{}, false
	}
	hay := " " + pstrings.Fold(name) + " "
	for i, f := range b.folded {
		if strings.Contains(hay, " "+f+" ") {
			return b.entries[i], true
		}
	}
	return BlacklistEntry{}, false
}
