// Package rules applies user-defined automation rules on top of the
// categorizer's output.
//
// Rules are evaluated in descending priority order and each rule sees the
// transaction as mutated by the rules before it. That layering is
// deliberate: a high-priority rename changes what a lower-priority
// description pattern matches against.
package rules

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/finchworks/ledgerline/internal/common"
	"github.com/finchworks/ledgerline/internal/model"
	"github.com/finchworks/ledgerline/internal/service"
	"github.com/finchworks/ledgerline/internal/taxonomy"
)

// Engine evaluates automation rules against transactions.
type Engine struct {
	store  service.RuleStore
	tax    *taxonomy.Table
	logger *slog.Logger
}

// New creates a rule engine. The store is used only to persist applied-count
// increments; passing nil disables that side effect (useful for previews).
func New(store service.RuleStore, tax *taxonomy.Table) *Engine {
	return &Engine{
		store:  store,
		tax:    tax,
		logger: slog.Default().With("component", "rules"),
	}
}

// Apply evaluates the user's rules against one transaction and returns the
// mutated transaction plus a per-rule application log. It never fails: a
// malformed rule pattern counts as a non-match with the reason recorded.
func (e *Engine) Apply(txn model.Transaction, userRules []model.AutomationRule) (model.Transaction, []model.RuleApplication) {
	ordered := orderRules(userRules)
	applications := make([]model.RuleApplication, 0, len(ordered))

	for _, rule := range ordered {
		matched, reason := e.matches(&txn, &rule)

		if matched {
			e.applyActions(&txn, &rule)
		}

		applications = append(applications, model.RuleApplication{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Applied:  matched,
			Reason:   reason,
		})
	}

	return txn, applications
}

// ApplyAndRecord runs Apply and then increments the persisted applied count
// of every rule that matched.
func (e *Engine) ApplyAndRecord(ctx context.Context, txn model.Transaction, userRules []model.AutomationRule) (model.Transaction, []model.RuleApplication, error) {
	mutated, applications := e.Apply(txn, userRules)

	if e.store != nil {
		for _, app := range applications {
			if !app.Applied {
				continue
			}
			if err := e.store.IncrementRuleAppliedCount(ctx, app.RuleID); err != nil {
				return mutated, applications, fmt.Errorf("failed to record rule application: %w", err)
			}
		}
	}

	return mutated, applications, nil
}

// ApplyBatch applies the single-transaction procedure across a list,
// preserving input order. One transaction's rule failures never affect
// another's.
func (e *Engine) ApplyBatch(ctx context.Context, txns []model.Transaction, userRules []model.AutomationRule) ([]model.Transaction, [][]model.RuleApplication, error) {
	mutated := make([]model.Transaction, 0, len(txns))
	logs := make([][]model.RuleApplication, 0, len(txns))

	applied := make(map[int64]int)
	for _, txn := range txns {
		out, applications := e.Apply(txn, userRules)
		mutated = append(mutated, out)
		logs = append(logs, applications)
		for _, app := range applications {
			if app.Applied {
				applied[app.RuleID]++
			}
		}
	}

	if e.store != nil {
		for ruleID, count := range applied {
			for i := 0; i < count; i++ {
				if err := e.store.IncrementRuleAppliedCount(ctx, ruleID); err != nil {
					return mutated, logs, fmt.Errorf("failed to record rule application: %w", err)
				}
			}
		}
	}

	return mutated, logs, nil
}

// orderRules filters to active rules and sorts by descending priority.
// Equal priorities keep their original order, so evaluation is
// deterministic.
func orderRules(userRules []model.AutomationRule) []model.AutomationRule {
	ordered := make([]model.AutomationRule, 0, len(userRules))
	for _, rule := range userRules {
		if rule.IsActive {
			ordered = append(ordered, rule)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	return ordered
}

// matches evaluates every present condition against the current transaction
// state. All present conditions must pass.
func (e *Engine) matches(txn *model.Transaction, rule *model.AutomationRule) (bool, string) {
	if rule.TransactionType != "" && rule.TransactionType != model.TypeBoth {
		inferred := model.TypeExpense
		if txn.IsInflow() {
			inferred = model.TypeIncome
		}
		if rule.TransactionType != inferred {
			return false, fmt.Sprintf("transaction type %s does not match rule type %s", inferred, rule.TransactionType)
		}
	}

	amount := math.Abs(txn.RawAmount)
	if rule.AmountMin != nil && amount < *rule.AmountMin {
		return false, fmt.Sprintf("amount %.2f below minimum %.2f", amount, *rule.AmountMin)
	}
	if rule.AmountMax != nil && amount > *rule.AmountMax {
		return false, fmt.Sprintf("amount %.2f above maximum %.2f", amount, *rule.AmountMax)
	}

	if rule.MerchantPattern != "" {
		matched, err := common.MatchWildcard(rule.MerchantPattern, txn.MerchantName)
		if err != nil {
			e.logger.Warn("Malformed merchant pattern, treating as non-match",
				"rule", rule.Name, "pattern", rule.MerchantPattern, "error", err)
			return false, fmt.Sprintf("malformed merchant pattern %q", rule.MerchantPattern)
		}
		if !matched {
			return false, fmt.Sprintf("merchant %q does not match pattern %q", txn.MerchantName, rule.MerchantPattern)
		}
	}

	if rule.DescriptionPattern != "" {
		matched, err := common.MatchWildcard(rule.DescriptionPattern, txn.Name)
		if err != nil {
			e.logger.Warn("Malformed description pattern, treating as non-match",
				"rule", rule.Name, "pattern", rule.DescriptionPattern, "error", err)
			return false, fmt.Sprintf("malformed description pattern %q", rule.DescriptionPattern)
		}
		if !matched {
			return false, fmt.Sprintf("description %q does not match pattern %q", txn.Name, rule.DescriptionPattern)
		}
	}

	return true, "all conditions matched"
}

// applyActions mutates the working transaction in a fixed order: category,
// rename, tag union, ignore flags.
func (e *Engine) applyActions(txn *model.Transaction, rule *model.AutomationRule) {
	if rule.SetCategoryID != "" {
		txn.CategoryID = rule.SetCategoryID
		if def, ok := e.tax.ByID(rule.SetCategoryID); ok {
			txn.CategoryName = def.Name
			txn.Subcategory = def.Subcategory
			txn.LedgerType = def.LedgerType
			txn.BudgetType = def.BudgetType
		} else {
			e.logger.Warn("Rule assigns unknown category", "rule", rule.Name, "category_id", rule.SetCategoryID)
		}
	}

	if rule.RenameTo != "" {
		txn.Name = rule.RenameTo
	}

	if len(rule.AddTagIDs) > 0 {
		txn.Tags = unionTags(txn.Tags, rule.AddTagIDs)
	}

	if rule.IgnoreBudgeting {
		txn.IgnoreBudgeting = true
	}
	if rule.IgnoreReporting {
		txn.IgnoreReporting = true
	}
}

// unionTags merges tag sets, deduplicated, preserving first-seen order.
func unionTags(existing, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	merged := make([]string, 0, len(existing)+len(added))
	for _, tag := range existing {
		tag = strings.TrimSpace(tag)
		if tag != "" && !seen[tag] {
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	for _, tag := range added {
		tag = strings.TrimSpace(tag)
		if tag != "" && !seen[tag] {
			seen[tag] = true
			merged = append(merged, tag)
		}
	}
	return merged
}
