package taxonomy

// MerchantGroup maps a hand-curated set of merchant substrings to a category.
// Patterns are matched case-insensitively against the transaction text.
type MerchantGroup struct {
	CategoryID string
	Patterns   []string
}

// PriorityPhrase is a special-case lookup resolved before the generic
// merchant groups. Known transfer, refund, and credit-card-payment phrasing
// must win over ordinary keyword scanning.
type PriorityPhrase struct {
	CategoryID string
	Phrases    []string
}

// PriorityPhrases are checked in order, first match wins.
var PriorityPhrases = []PriorityPhrase{
	{
		CategoryID: "credit_card_payment",
		Phrases: []string{
			"payment thank you", "credit card pmt", "crd pmt", "card payment",
			"autopay payment", "e-payment", "epay",
		},
	},
	{
		CategoryID: "transfer",
		Phrases: []string{
			"online transfer", "transfer to", "transfer from", "wire transfer",
			"xfer", "zelle", "venmo",
		},
	},
	{
		CategoryID: "refund",
		Phrases: []string{
			"refund", "reversal", "return of posting", "rebate",
		},
	},
}

// MerchantGroups is the static merchant-pattern table (cascade tier 3).
var MerchantGroups = []MerchantGroup{
	{
		CategoryID: "groceries",
		Patterns: []string{
			"whole foods", "trader joe", "safeway", "kroger", "albertsons",
			"wegmans", "aldi", "costco whse", "publix", "sprouts", "heb ",
		},
	},
	{
		CategoryID: "food_drink",
		Patterns: []string{
			"starbucks", "mcdonald", "chipotle", "dunkin", "subway",
			"panera", "doordash", "grubhub", "uber eats", "taco bell",
			"wendy's", "domino's", "peet's",
		},
	},
	{
		CategoryID: "taxi",
		Patterns: []string{
			"uber trip", "uber *trip", "lyft", "curb ", "yellow cab",
		},
	},
	{
		CategoryID: "gas",
		Patterns: []string{
			"shell oil", "chevron", "exxon", "mobil", "bp#", "76 -", "arco",
			"speedway", "circle k",
		},
	},
	{
		CategoryID: "public_transit",
		Patterns: []string{
			"mta ", "bart ", "wmata", "clipper", "mbta", "nj transit",
		},
	},
	{
		CategoryID: "travel",
		Patterns: []string{
			"united airlines", "delta air", "american air", "southwest air",
			"alaska air", "jetblue", "airbnb", "marriott", "hilton", "expedia",
		},
	},
	{
		CategoryID: "shopping",
		Patterns: []string{
			"amazon", "amzn mktp", "target", "walmart", "best buy", "ebay",
			"etsy", "home depot", "lowe's", "ikea",
		},
	},
	{
		CategoryID: "subscriptions",
		Patterns: []string{
			"netflix", "spotify", "hulu", "disney plus", "hbo max", "youtube premium",
			"apple.com/bill", "audible", "paramount+",
		},
	},
	{
		CategoryID: "phone_internet",
		Patterns: []string{
			"comcast", "xfinity", "verizon", "t-mobile", "at&t", "spectrum",
		},
	},
	{
		CategoryID: "utilities",
		Patterns: []string{
			"pg&e", "pacific gas", "con edison", "national grid", "duke energy",
			"seattle city light",
		},
	},
	{
		CategoryID: "medical",
		Patterns: []string{
			"cvs/pharm", "walgreens", "rite aid", "kaiser", "labcorp", "quest diag",
		},
	},
	{
		CategoryID: "personal_care",
		Patterns: []string{
			"planet fitness", "24 hour fitness", "equinox", "great clips",
		},
	},
	{
		CategoryID: "entertainment",
		Patterns: []string{
			"amc ", "regal cinemas", "ticketmaster", "stubhub", "steamgames",
		},
	},
}

// KeywordGroup maps description keywords to a category (cascade tier 4).
type KeywordGroup struct {
	CategoryID string
	Keywords   []string
}

// KeywordGroups derives the keyword tier from the taxonomy definitions so
// the keyword list lives with its category.
func KeywordGroups() []KeywordGroup {
	var groups []KeywordGroup
	for _, def := range definitions {
		if len(def.Keywords) == 0 {
			continue
		}
		groups = append(groups, KeywordGroup{
			CategoryID: def.ID,
			Keywords:   def.Keywords,
		})
	}
	return groups
}
