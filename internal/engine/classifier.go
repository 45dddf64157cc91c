// internal/engine/classifier.go
package engine

import "strings"

// ProductType is a coarse category inferred from the product name.
type ProductType string

const (
	ProductDrinkware ProductType = "Drinkware"
	ProductSkincare  ProductType = "Skincare"
	ProductSnack     ProductType = "Snack"
	ProductAudio     ProductType = "Audio"
	ProductApparel   ProductType = "Apparel"
	ProductHome      ProductType = "Home"
	ProductOther     ProductType = "Other"
)

// ProductTypeProfile supplies the category-derived body slots.
type ProductTypeProfile struct {
	Type       ProductType
	Persona    string
	Suggestion string
	Experience string
	Conclusion string
}

type productRule struct {
	keywords []string
	profile  ProductTypeProfile
}

// Declaration order is the tie-break when a name contains keywords of several types.
// Snack precedes Skincare so food names containing "cream" stay food. Bare "cup"
// is left out because it hits cupboard and cupcake.
var productRules = []productRule{
	{
		keywords: []string{"mug", "teacup", "coffee cup", "tumbler", "bottle", "杯"},
		profile: ProductTypeProfile{
			Type:       ProductDrinkware,
			Persona:    "a coffee-obsessed commuter",
			Suggestion: "Fill it before the morning commute and sip all the way to your desk",
			Experience: "my drink was still the right temperature hours later",
			Conclusion: "It has earned a permanent spot in my bag",
		},
	},
	{
		keywords: []string{"snack", "chips", "cookie", "candy", "jerky", "ice cream", "零食"},
		profile: ProductTypeProfile{
			Type:       ProductSnack,
			Persona:    "a certified snack hunter",
			Suggestion: "Keep a pack in your desk drawer for the 3pm slump",
			Experience: "the whole bag was gone before I noticed",
			Conclusion: "Dangerously easy to restock",
		},
	},
	{
		keywords: []string{"serum", "cream", "lotion", "mask", "essence", "精华", "面膜"},
		profile: ProductTypeProfile{
			Type:       ProductSkincare,
			Persona:    "a skincare enthusiast with sensitive skin",
			Suggestion: "Patch test first, then work it into your evening routine",
			Experience: "my skin felt calmer and more hydrated within a week",
			Conclusion: "A new staple on my bathroom shelf",
		},
	},
	{
		keywords: []string{"headphone", "earbud", "speaker", "耳机"},
		profile: ProductTypeProfile{
			Type:       ProductAudio,
			Persona:    "a daily music listener and podcast addict",
			Suggestion: "Try it on your noisiest commute to really hear the difference",
			Experience: "the sound stayed clear even at low volume",
			Conclusion: "My ears are officially spoiled",
		},
	},
	{
		keywords: []string{"shirt", "dress", "jacket", "hoodie", "sneaker", "衣"},
		profile: ProductTypeProfile{
			Type:       ProductApparel,
			Persona:    "someone who lives in comfortable outfits",
			Suggestion: "Size as usual and pair it with basics you already own",
			Experience: "it still looked sharp after a full day out",
			Conclusion: "Already thinking about a second color",
		},
	},
	{
		keywords: []string{"lamp", "pillow", "blanket", "candle", "灯"},
		profile: ProductTypeProfile{
			Type:       ProductHome,
			Persona:    "a cozy-home devotee",
			Suggestion: "Put it where you unwind in the evening",
			Experience: "my room instantly felt warmer and calmer",
			Conclusion: "Small change, big mood upgrade",
		},
	},
}

var otherProfile = ProductTypeProfile{
	Type:       ProductOther,
	Persona:    "a longtime product tester",
	Suggestion: "Give it a week in your everyday routine",
	Experience: "it fit into my day without any fuss",
	Conclusion: "An easy recommendation for anyone curious",
}

// Classify returns the profile of the first product type, in declaration order,
// that has a keyword contained in productName. Matching ignores case.
func Classify(productName string) ProductTypeProfile {
	name := strings.ToLower(productName)
	for _, rule := range productRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.profile
			}
		}
	}
	return otherProfile
}

// ProductTypes lists every known type, catch-all last.
func ProductTypes() []ProductType {
	out := make([]ProductType, 0, len(productRules)+1)
	for _, rule := range productRules {
		out = append(out, rule.profile.Type)
	}
	return append(out, ProductOther)
}
