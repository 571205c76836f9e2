package core

// CategoryConfig is the resolved display configuration for a category name.
type CategoryConfig struct {
	Color      string
	Icon       string
	ChartColor string
}

// DefaultCategory is one of the fixed small-business expense categories.
type DefaultCategory struct {
	Name  string
	Color string
	Icon  string
}

// DefaultCategories cannot be created, renamed or deleted by users. The
// order is significant: chart colors are picked by index.
var DefaultCategories = []DefaultCategory{
	{Name: "Supplies", Color: "#1A1A1A", Icon: "cart-outline"},
	{Name: "Transport", Color: "#F5C518", Icon: "car-outline"},
	{Name: "Utilities", Color: "#F5C518", Icon: "flash-outline"},
	{Name: "Rent", Color: "#0D9488", Icon: "home-outline"},
	{Name: "Salaries", Color: "#8B5CF6", Icon: "people-outline"},
	{Name: "Other", Color: "#64748B", Icon: "ellipse-outline"},
}

// Light pastel segment colors for pie/donut charts, indexed in default
// category order.
var chartCategoryColors = []string{
	"#FDE68A",
	"#BBF7D0",
	"#A5F3FC",
	"#C4B5FD",
	"#FECACA",
	"#E2E8F0",
}

// Fallback palette for user-defined category names.
var fallbackCategoryColors = []string{
	"#1A1A1A",
	"#F5C518",
	"#F5C518",
	"#0D9488",
	"#8B5CF6",
}

const fallbackCategoryIcon = "ellipse-outline"

// DefaultCategoryNames returns the names of the fixed categories in order.
func DefaultCategoryNames() []string {
	names := make([]string, len(DefaultCategories))
	for i, c := range DefaultCategories {
		names[i] = c.Name
	}
	return names
}

// GetCategoryConfig resolves color, icon and chart color for a category
// name. Default categories match case-sensitively; any other name gets a
// deterministic hash-based assignment (sum of character codes modulo
// palette length), so custom and orphaned names keep a stable appearance
// without persisting anything per category.
func GetCategoryConfig(name string) CategoryConfig {
	for i, c := range DefaultCategories {
		if c.Name == name {
			return CategoryConfig{
				Color:      c.Color,
				Icon:       c.Icon,
				ChartColor: chartCategoryColors[i%len(chartCategoryColors)],
			}
		}
	}
	hash := 0
	for _, r := range name {
		hash += int(r)
	}
	return CategoryConfig{
		Color:      fallbackCategoryColors[hash%len(fallbackCategoryColors)],
		Icon:       fallbackCategoryIcon,
		ChartColor: chartCategoryColors[hash%len(chartCategoryColors)],
	}
}
