package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/finchworks/ledgerline/internal/model"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	return nil
}

func validateString(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

func validateTransactions(transactions []model.Transaction) error {
	for i := range transactions {
		txn := &transactions[i]
		if txn.ID == "" {
			return fmt.Errorf("transaction %d has empty ID", i)
		}
		if txn.Hash == "" {
			return fmt.Errorf("transaction %q has empty hash", txn.ID)
		}
		if txn.Date.IsZero() {
			return fmt.Errorf("transaction %q has zero date", txn.ID)
		}
	}
	return nil
}

func validateMerchant(merchant *model.Merchant) error {
	if merchant == nil {
		return fmt.Errorf("merchant cannot be nil")
	}
	if err := validateString(merchant.Name, "merchant name"); err != nil {
		return err
	}
	return validateString(merchant.CategoryID, "merchant category")
}

func validateRule(rule *model.AutomationRule) error {
	if rule == nil {
		return fmt.Errorf("rule cannot be nil")
	}
	if err := validateString(rule.Name, "rule name"); err != nil {
		return err
	}
	if err := validateString(rule.UserID, "rule user"); err != nil {
		return err
	}
	if rule.AmountMin != nil && rule.AmountMax != nil && *rule.AmountMin > *rule.AmountMax {
		return fmt.Errorf("rule %q has amount_min above amount_max", rule.Name)
	}
	return nil
}
