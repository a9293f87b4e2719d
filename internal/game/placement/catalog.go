package placement

import "github.com/popcity/popcity/internal/game/goal"

// Item is a decoration that can be bought and placed on the grid.
type Item struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
}

func items(category goal.Category, pairs ...string) []Item {
	out := make([]Item, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Item{ID: string(category) + ":" + pairs[i], Emoji: pairs[i+1]})
	}
	return out
}

var catalog = map[goal.Category][]Item{
	goal.CategoryHouse:     items(goal.CategoryHouse, "tree", "🌳", "car", "🚗", "fountain", "⛲", "dog", "🐶", "home", "🏡"),
	goal.CategoryVacation:  items(goal.CategoryVacation, "beach", "🏖️", "drink", "🍹", "surf", "🏄", "backpack", "🎒", "plane", "✈️"),
	goal.CategoryDebt:      items(goal.CategoryDebt, "party", "🎉", "check", "✅", "free", "🆓", "cash", "💸", "strong", "💪"),
	goal.CategoryShopping:  items(goal.CategoryShopping, "bags", "🛍️", "sneaker", "👟", "shades", "🕶️", "lipstick", "💄", "ring", "💍"),
	goal.CategoryEmergency: items(goal.CategoryEmergency, "shield", "🛡️", "ambulance", "🚑", "battery", "🔋", "flashlight", "🔦", "pantry", "🥫"),
	goal.CategoryOther:     items(goal.CategoryOther, "box", "📦", "sparkles", "✨", "gift", "🎁", "balloon", "🎈", "palette", "🎨"),
}

// Catalog returns the store items for a goal category. Unknown categories
// get the "other" set.
func Catalog(category goal.Category) []Item {
	set, ok := catalog[category]
	if !ok {
		set = catalog[goal.CategoryOther]
	}
	return append([]Item(nil), set...)
}

// LookupItem finds an item by ID across every category.
func LookupItem(id string) (Item, bool) {
	for _, set := range catalog {
		for _, it := range set {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}
