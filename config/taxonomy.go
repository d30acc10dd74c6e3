package config

// CategoryOrder fixes the display order of the two-level task taxonomy.
var CategoryOrder = []string{
	"Product R&D",
	"Grant Applications",
	"Commercial Deployment",
}

// Categories maps each top-level category to its ordered subcategories.
// The taxonomy is static configuration; nothing validates it at write time,
// so tasks may carry pairs outside this table (see ClassifyTasks).
var Categories = map[string][]string{
	"Product R&D":           {"Audio Sample Collection", "Model Training", "Hardware Design", "Optimization"},
	"Grant Applications":    {"Proposal Writing", "Defense & Reporting"},
	"Commercial Deployment": {"Client Liaison", "On-site Deployment"},
}

// IsRecognized reports whether the category/subcategory pair exists in the
// taxonomy table.
func IsRecognized(category, subcategory string) bool {
	subs, ok := Categories[category]
	if !ok {
		return false
	}
	for _, s := range subs {
		if s == subcategory {
			return true
		}
	}
	return false
}
