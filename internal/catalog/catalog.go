// Package catalog holds the demo magazine catalog. The data is process
// constant; there is no store behind it.
package catalog

import "strings"

// Magazine is one issue card on the browse page.
type Magazine struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Issue    string `json:"issue"`
	Cover    string `json:"cover"`
	Progress int    `json:"progress,omitempty"` // percent read, Continue Reading only
	IsNew    bool   `json:"isNew,omitempty"`
}

// Category is a titled row of magazines.
type Category struct {
	Title     string     `json:"title"`
	Magazines []Magazine `json:"magazines"`
}

// Featured is the hero magazine shown above the rows.
type Featured struct {
	Title       string   `json:"title"`
	Issue       string   `json:"issue"`
	Description string   `json:"description"`
	Cover       string   `json:"cover"`
	Tags        []string `json:"tags"`
}

// Catalog is the full browse-page payload.
type Catalog struct {
	Featured   Featured   `json:"featured"`
	Categories []Category `json:"categories"`
}

func unsplash(id string) string {
	return "https://images.unsplash.com/" + id + "?w=400&h=600&fit=crop"
}

var defaultCatalog = Catalog{
	Featured: Featured{
		Title:       "Vanguard",
		Issue:       "The Future of Design",
		Description: "Explore groundbreaking innovations reshaping architecture, product design, and digital experiences. Featuring exclusive interviews with industry pioneers.",
		Cover:       "https://images.unsplash.com/photo-1558618666-fcd25c85cd64?w=1920&h=1080&fit=crop",
		Tags:        []string{"Design", "Innovation", "Architecture"},
	},
	Categories: []Category{
		{
			Title: "Continue Reading",
			Magazines: []Magazine{
				{ID: 1, Title: "Vanguard", Issue: "March 2026", Cover: unsplash("photo-1558618666-fcd25c85cd64"), Progress: 65},
				{ID: 2, Title: "Horizon", Issue: "Spring Edition", Cover: unsplash("photo-1506905925346-21bda4d32df4"), Progress: 30},
				{ID: 3, Title: "Chronicle", Issue: "Issue 47", Cover: unsplash("photo-1486406146926-c627a92ad1ab"), Progress: 80},
			},
		},
		{
			Title: "Trending Now",
			Magazines: []Magazine{
				{ID: 4, Title: "Prism", Issue: "Design Annual", Cover: unsplash("photo-1541701494587-cb58502866ab")},
				{ID: 5, Title: "Atlas", Issue: "World Report", Cover: unsplash("photo-1451187580459-43490279c0fa")},
				{ID: 6, Title: "Kinetic", Issue: "Sports Weekly", Cover: unsplash("photo-1461896836934-ffe607ba8211")},
				{ID: 7, Title: "Lumina", Issue: "Photography", Cover: unsplash("photo-1493863641943-9b68992a8d07")},
				{ID: 8, Title: "Cipher", Issue: "Tech Review", Cover: unsplash("photo-1518770660439-4636190af475")},
				{ID: 9, Title: "Ember", Issue: "Food & Culture", Cover: unsplash("photo-1476224203421-9ac39bcb3327")},
				{ID: 10, Title: "Solace", Issue: "Wellness", Cover: unsplash("photo-1544367567-0f2fcb009e0b")},
			},
		},
		{
			Title: "New Releases",
			Magazines: []Magazine{
				{ID: 11, Title: "Nova", Issue: "Premiere Issue", Cover: unsplash("photo-1534996858221-380b92700493"), IsNew: true},
				{ID: 12, Title: "Meridian", Issue: "Launch Edition", Cover: unsplash("photo-1507003211169-0a1dd7228f2d"), IsNew: true},
				{ID: 13, Title: "Flux", Issue: "Volume 1", Cover: unsplash("photo-1470071459604-3b5ec3a7fe05"), IsNew: true},
				{ID: 14, Title: "Echo", Issue: "First Print", Cover: unsplash("photo-1519681393784-d120267933ba"), IsNew: true},
				{ID: 15, Title: "Aura", Issue: "Debut", Cover: unsplash("photo-1504805572947-34fad45aed93"), IsNew: true},
			},
		},
		{
			Title: "Business & Finance",
			Magazines: []Magazine{
				{ID: 16, Title: "Ledger", Issue: "Q1 Outlook", Cover: unsplash("photo-1611974789855-9c2a0a7236a3")},
				{ID: 17, Title: "Capital", Issue: "Investor Guide", Cover: unsplash("photo-1590283603385-17ffb3a7f29f")},
				{ID: 18, Title: "Venture", Issue: "Startup Special", Cover: unsplash("photo-1559136555-9303baea8ebd")},
				{ID: 19, Title: "Fortune Forward", Issue: "Annual Report", Cover: unsplash("photo-1460925895917-afdab827c52f")},
				{ID: 20, Title: "Market Pulse", Issue: "Weekly Digest", Cover: unsplash("photo-1642790106117-e829e14a795f")},
			},
		},
		{
			Title: "Lifestyle & Culture",
			Magazines: []Magazine{
				{ID: 21, Title: "Wanderlust", Issue: "Summer Escapes", Cover: unsplash("photo-1476514525535-07fb3b4ae5f1")},
				{ID: 22, Title: "Palette", Issue: "Art Issue", Cover: unsplash("photo-1547826039-bfc35e0f1ea8")},
				{ID: 23, Title: "Rhythm", Issue: "Music Annual", Cover: unsplash("photo-1511671782779-c97d3d27a1d4")},
				{ID: 24, Title: "Gourmet", Issue: "Chef's Pick", Cover: unsplash("photo-1414235077428-338989a2e8c0")},
				{ID: 25, Title: "Abode", Issue: "Interior Design", Cover: unsplash("photo-1618221195710-dd6b41faaea6")},
				{ID: 26, Title: "Reverie", Issue: "Fashion Week", Cover: unsplash("photo-1558171813-4c088753af8f")},
			},
		},
		{
			Title: "Science & Technology",
			Magazines: []Magazine{
				{ID: 27, Title: "Quantum", Issue: "Future Tech", Cover: unsplash("photo-1635070041078-e363dbe005cb")},
				{ID: 28, Title: "Nucleus", Issue: "Research Digest", Cover: unsplash("photo-1507413245164-6160d8298b31")},
				{ID: 29, Title: "Circuit", Issue: "AI Special", Cover: unsplash("photo-1677442136019-21780ecad995")},
				{ID: 30, Title: "Cosmos", Issue: "Space Edition", Cover: unsplash("photo-1446776811953-b23d57bd21aa")},
				{ID: 31, Title: "Genesis", Issue: "Biotech", Cover: unsplash("photo-1532187863486-abf9dbad1b69")},
			},
		},
	},
}

// Default returns the demo catalog.
func Default() Catalog {
	return defaultCatalog
}

// Search returns magazines whose title or issue contains the query,
// case-insensitively. An empty query matches nothing.
func Search(query string) []Magazine {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []Magazine
	seen := make(map[int]struct{})
	for _, category := range defaultCatalog.Categories {
		for _, mag := range category.Magazines {
			if _, ok := seen[mag.ID]; ok {
				continue
			}
			if strings.Contains(strings.ToLower(mag.Title), query) ||
				strings.Contains(strings.ToLower(mag.Issue), query) {
				seen[mag.ID] = struct{}{}
				results = append(results, mag)
			}
		}
	}
	return results
}
