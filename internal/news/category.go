package news

// Category is an app-level news category. Every Category has a required
// provider mapping; unknown input is rejected explicitly rather than passed
// through.
type Category string

const (
	CategoryHighlights Category = "highlights"
	CategoryTechnology Category = "technology"
	CategoryBusiness   Category = "business"
	CategoryScience    Category = "science"
	CategorySports     Category = "sports"
)

// Categories lists the selectable categories in display order.
func Categories() []Category {
	return []Category{
		CategoryHighlights,
		CategoryTechnology,
		CategoryBusiness,
		CategoryScience,
		CategorySports,
	}
}

var providerCategory = map[Category]string{
	CategoryHighlights: "general",
	CategoryTechnology: "technology",
	CategoryBusiness:   "business",
	CategoryScience:    "science",
	CategorySports:     "sports",
}

var displayName = map[Category]string{
	CategoryHighlights: "Daily Highlights",
	CategoryTechnology: "Technology",
	CategoryBusiness:   "Business",
	CategoryScience:    "Science",
	CategorySports:     "Sports",
}

func (c Category) Valid() bool {
	_, ok := providerCategory[c]
	return ok
}

// ProviderCategory returns the GNews topic for this category.
func (c Category) ProviderCategory() string {
	if p, ok := providerCategory[c]; ok {
		return p
	}
	return "general"
}

func (c Category) DisplayName() string {
	if n, ok := displayName[c]; ok {
		return n
	}
	return string(c)
}

// gnewsCategories is the provider's fixed topic set; requests are validated
// against it before any network call.
var gnewsCategories = map[string]bool{
	"general": true, "world": true, "nation": true,
	"business": true, "technology": true, "entertainment": true,
	"sports": true, "science": true, "health": true,
}
