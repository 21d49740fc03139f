package taxonomy

import "github.com/finchworks/ledgerline/internal/model"

// definitions is the seed taxonomy. Entries are never removed; renames are
// recorded in legacyAliases instead so old transaction rows keep resolving.
var definitions = []model.CategoryDefinition{
	{
		ID:               "paycheck",
		Name:             "Income",
		Subcategory:      "Paycheck",
		LedgerType:       model.LedgerIncome,
		BudgetType:       model.BudgetFixed,
		ExternalPrimary:  "INCOME",
		ExternalDetailed: "INCOME_WAGES",
		Keywords:         []string{"payroll", "direct dep", "salary", "paycheck"},
	},
	{
		ID:               "interest_income",
		Name:             "Income",
		Subcategory:      "Interest",
		LedgerType:       model.LedgerIncome,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "INCOME",
		ExternalDetailed: "INCOME_INTEREST_EARNED",
		Keywords:         []string{"interest paid", "interest payment", "int pymt"},
	},
	{
		ID:              "other_income",
		Name:            "Income",
		Subcategory:     "Other Income",
		LedgerType:      model.LedgerIncome,
		BudgetType:      model.BudgetFlexible,
		ExternalPrimary: "INCOME",
	},
	{
		ID:               "groceries",
		Name:             "Groceries",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "FOOD_AND_DRINK",
		ExternalDetailed: "FOOD_AND_DRINK_GROCERIES",
		Keywords:         []string{"grocery", "supermarket", "market"},
	},
	{
		ID:               "food_drink",
		Name:             "Food & Drink",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "FOOD_AND_DRINK",
		ExternalDetailed: "FOOD_AND_DRINK_RESTAURANT",
		Keywords:         []string{"restaurant", "cafe", "coffee", "pizza", "grill", "bakery", "bar "},
	},
	{
		ID:               "taxi",
		Name:             "Taxi & Rideshare",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "TRANSPORTATION",
		ExternalDetailed: "TRANSPORTATION_TAXIS_AND_RIDE_SHARES",
		Keywords:         []string{"taxi", "rideshare", "ride share"},
	},
	{
		ID:               "gas",
		Name:             "Gas & Fuel",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "TRANSPORTATION",
		ExternalDetailed: "TRANSPORTATION_GAS",
		Keywords:         []string{"fuel", "gas station", "petrol"},
	},
	{
		ID:               "public_transit",
		Name:             "Public Transit",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "TRANSPORTATION",
		ExternalDetailed: "TRANSPORTATION_PUBLIC_TRANSIT",
		Keywords:         []string{"metro", "transit", "subway", "bus fare"},
	},
	{
		ID:               "travel",
		Name:             "Travel",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetNonMonthly,
		ExternalPrimary:  "TRAVEL",
		ExternalDetailed: "TRAVEL_FLIGHTS",
		Keywords:         []string{"airline", "airways", "hotel", "airbnb", "flight"},
	},
	{
		ID:               "shopping",
		Name:             "Shopping",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "GENERAL_MERCHANDISE",
		ExternalDetailed: "GENERAL_MERCHANDISE_ONLINE_MARKETPLACES",
		Keywords:         []string{"store", "retail", "mall", "outlet"},
	},
	{
		ID:               "subscriptions",
		Name:             "Subscriptions",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFixed,
		ExternalPrimary:  "ENTERTAINMENT",
		ExternalDetailed: "ENTERTAINMENT_TV_AND_MOVIES",
		Keywords:         []string{"subscription", "streaming", "monthly plan"},
	},
	{
		ID:               "entertainment",
		Name:             "Entertainment",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "ENTERTAINMENT",
		ExternalDetailed: "ENTERTAINMENT_SPORTING_EVENTS_AMUSEMENT_PARKS_AND_MUSEUMS",
		Keywords:         []string{"cinema", "theater", "tickets", "concert"},
	},
	{
		ID:               "rent",
		Name:             "Rent",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFixed,
		ExternalPrimary:  "RENT_AND_UTILITIES",
		ExternalDetailed: "RENT_AND_UTILITIES_RENT",
		Keywords:         []string{"rent payment", "property mgmt", "apartment"},
	},
	{
		ID:               "utilities",
		Name:             "Utilities",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFixed,
		ExternalPrimary:  "RENT_AND_UTILITIES",
		ExternalDetailed: "RENT_AND_UTILITIES_GAS_AND_ELECTRICITY",
		Keywords:         []string{"electric", "utility", "water bill", "power co"},
	},
	{
		ID:               "phone_internet",
		Name:             "Phone & Internet",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFixed,
		ExternalPrimary:  "RENT_AND_UTILITIES",
		ExternalDetailed: "RENT_AND_UTILITIES_INTERNET_AND_CABLE",
		Keywords:         []string{"wireless", "internet", "broadband", "mobile bill"},
	},
	{
		ID:               "insurance",
		Name:             "Insurance",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFixed,
		ExternalPrimary:  "GENERAL_SERVICES",
		ExternalDetailed: "GENERAL_SERVICES_INSURANCE",
		Keywords:         []string{"insurance", "premium"},
	},
	{
		ID:               "medical",
		Name:             "Medical",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetNonMonthly,
		ExternalPrimary:  "MEDICAL",
		ExternalDetailed: "MEDICAL_PRIMARY_CARE",
		Keywords:         []string{"pharmacy", "clinic", "dental", "medical", "hospital"},
	},
	{
		ID:               "personal_care",
		Name:             "Personal Care",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "PERSONAL_CARE",
		ExternalDetailed: "PERSONAL_CARE_HAIR_AND_BEAUTY",
		Keywords:         []string{"salon", "barber", "gym", "fitness", "spa"},
	},
	{
		ID:               "education",
		Name:             "Education",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetNonMonthly,
		ExternalPrimary:  "GENERAL_SERVICES",
		ExternalDetailed: "GENERAL_SERVICES_EDUCATION",
		Keywords:         []string{"tuition", "university", "course", "books"},
	},
	{
		ID:               "fees",
		Name:             "Bank Fees",
		LedgerType:       model.LedgerExpense,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "BANK_FEES",
		ExternalDetailed: "BANK_FEES_OVERDRAFT_FEES",
		Keywords:         []string{"service charge", "overdraft", "atm fee", "maintenance fee"},
	},
	{
		ID:               "transfer",
		Name:             "Transfer",
		LedgerType:       model.LedgerTransfer,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "TRANSFER_OUT",
		ExternalDetailed: "TRANSFER_OUT_ACCOUNT_TRANSFER",
		Keywords:         []string{"transfer", "xfer", "zelle", "venmo"},
	},
	{
		ID:               "credit_card_payment",
		Name:             "Credit Card Payment",
		LedgerType:       model.LedgerDebtPrincipal,
		BudgetType:       model.BudgetFixed,
		ExternalPrimary:  "LOAN_PAYMENTS",
		ExternalDetailed: "LOAN_PAYMENTS_CREDIT_CARD_PAYMENT",
		Keywords:         []string{"card payment", "autopay", "epay"},
	},
	{
		ID:               "loan_interest",
		Name:             "Loan Interest",
		LedgerType:       model.LedgerDebtInterest,
		BudgetType:       model.BudgetFixed,
		ExternalPrimary:  "LOAN_PAYMENTS",
		ExternalDetailed: "LOAN_PAYMENTS_MORTGAGE_PAYMENT",
		Keywords:         []string{"interest charge", "finance charge"},
	},
	{
		ID:               "refund",
		Name:             "Refunds & Adjustments",
		LedgerType:       model.LedgerAdjustment,
		BudgetType:       model.BudgetFlexible,
		ExternalPrimary:  "TRANSFER_IN",
		ExternalDetailed: "TRANSFER_IN_CASH_ADVANCES_AND_LOANS",
		Keywords:         []string{"refund", "reversal", "adjustment", "rebate"},
	},
	{
		ID:         "uncategorized",
		Name:       "Uncategorized",
		LedgerType: model.LedgerExpense,
		BudgetType: model.BudgetFlexible,
	},
}

// legacyAliases maps retired name/subcategory pairs to current category IDs.
// Keys use the same lowercase "name|subcategory" form as the name index.
var legacyAliases = map[string]string{
	"dining":               "food_drink",
	"restaurants":          "food_drink",
	"ride share":           "taxi",
	"cable & internet":     "phone_internet",
	"misc":                 "uncategorized",
	"income|interest paid": "interest_income",
}
