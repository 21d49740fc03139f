// Package taxonomy holds the static category table consumed by the
// categorization engine and by callers needing human-readable labels.
//
// The table is immutable at runtime. Legacy renames are handled through a
// small alias map resolved at read time so historical records never need to
// be rewritten.
package taxonomy

import (
	"strings"

	"github.com/finchworks/ledgerline/internal/model"
)

// Table is an indexed, read-only view over the category definitions.
type Table struct {
	byID       map[string]*model.CategoryDefinition
	byName     map[string]*model.CategoryDefinition
	byDetailed map[string]*model.CategoryDefinition
	byPrimary  map[string]*model.CategoryDefinition
	aliases    map[string]string
	defs       []model.CategoryDefinition
}

// FallbackIncomeID and FallbackExpenseID are the terminal fallback entries
// for their ledger-type families.
const (
	FallbackIncomeID  = "other_income"
	FallbackExpenseID = "uncategorized"
)

var defaultTable = newTable(definitions, legacyAliases)

// Default returns the built-in category table.
func Default() *Table {
	return defaultTable
}

func newTable(defs []model.CategoryDefinition, aliases map[string]string) *Table {
	t := &Table{
		defs:       defs,
		byID:       make(map[string]*model.CategoryDefinition, len(defs)),
		byName:     make(map[string]*model.CategoryDefinition, len(defs)),
		byDetailed: make(map[string]*model.CategoryDefinition),
		byPrimary:  make(map[string]*model.CategoryDefinition),
		aliases:    aliases,
	}

	for i := range t.defs {
		def := &t.defs[i]
		t.byID[def.ID] = def
		t.byName[nameKey(def.Name, def.Subcategory)] = def
		if def.ExternalDetailed != "" {
			t.byDetailed[def.ExternalDetailed] = def
		}
		// First definition for a primary code wins; detailed lookups take
		// precedence anyway.
		if def.ExternalPrimary != "" {
			if _, ok := t.byPrimary[def.ExternalPrimary]; !ok {
				t.byPrimary[def.ExternalPrimary] = def
			}
		}
	}

	return t
}

// All returns every category definition.
func (t *Table) All() []model.CategoryDefinition {
	out := make([]model.CategoryDefinition, len(t.defs))
	copy(out, t.defs)
	return out
}

// ByID looks up a category by its identifier.
func (t *Table) ByID(id string) (*model.CategoryDefinition, bool) {
	def, ok := t.byID[id]
	return def, ok
}

// ByName looks up a category by display name and optional subcategory,
// resolving legacy aliases first.
func (t *Table) ByName(name, subcategory string) (*model.CategoryDefinition, bool) {
	key := nameKey(name, subcategory)
	if id, ok := t.aliases[key]; ok {
		def, found := t.byID[id]
		return def, found
	}
	def, ok := t.byName[key]
	return def, ok
}

// ByExternalDetailed looks up a category by an aggregator detailed code.
func (t *Table) ByExternalDetailed(code string) (*model.CategoryDefinition, bool) {
	def, ok := t.byDetailed[strings.ToUpper(strings.TrimSpace(code))]
	return def, ok
}

// ByExternalPrimary looks up a category by an aggregator primary code.
func (t *Table) ByExternalPrimary(code string) (*model.CategoryDefinition, bool) {
	def, ok := t.byPrimary[strings.ToUpper(strings.TrimSpace(code))]
	return def, ok
}

// Fallback returns the terminal fallback entry for the given ledger family.
// Income gets the designated income catch-all; everything else gets the
// uncategorized entry.
func (t *Table) Fallback(ledger model.LedgerType) (*model.CategoryDefinition, bool) {
	if ledger == model.LedgerIncome {
		def, ok := t.byID[FallbackIncomeID]
		return def, ok
	}
	def, ok := t.byID[FallbackExpenseID]
	return def, ok
}

func nameKey(name, subcategory string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if subcategory != "" {
		key += "|" + strings.ToLower(strings.TrimSpace(subcategory))
	}
	return key
}
