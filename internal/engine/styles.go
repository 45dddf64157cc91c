// internal/engine/styles.go
package engine

import "strings"

// StyleKey identifies a tone/voice profile.
type StyleKey string

const (
	StylePlayful      StyleKey = "Playful"
	StyleProfessional StyleKey = "Professional"
	StyleMinimal      StyleKey = "Minimal"
	StyleHumorous     StyleKey = "Humorous"

	// DefaultStyle is used whenever a requested style is not recognised.
	DefaultStyle = StylePlayful
)

// StyleProfile is an immutable catalog entry. Accessors hand out copies.
type StyleProfile struct {
	key    StyleKey
	titles []TitleTemplate
	bodies []BodyTemplate
	tags   []string
}

func (p StyleProfile) Key() StyleKey { return p.key }

func (p StyleProfile) TitleTemplates() []TitleTemplate {
	return append([]TitleTemplate(nil), p.titles...)
}

func (p StyleProfile) BodyTemplates() []BodyTemplate {
	return append([]BodyTemplate(nil), p.bodies...)
}

func (p StyleProfile) Tags() []string {
	return append([]string(nil), p.tags...)
}

var styleOrder = []StyleKey{StylePlayful, StyleProfessional, StyleMinimal, StyleHumorous}

// Labels used by the original web form.
var styleAliases = map[string]StyleKey{
	"活泼": StylePlayful,
	"专业": StyleProfessional,
	"简约": StyleMinimal,
	"搞笑": StyleHumorous,
}

var styleRegistry = map[StyleKey]StyleProfile{
	StylePlayful: {
		key: StylePlayful,
		titles: []TitleTemplate{
			mustTitle("OMG! {product} is my new obsession ✨ {feature} is unreal"),
			mustTitle("Stop scrolling! {product} with {feature} just made my day 💖"),
			mustTitle("Tiny joy alert: {product} and its {feature} 🥳"),
			mustTitle("Why did nobody tell me about {product}?! {feature} 😍"),
			mustTitle("{product} haul: {feature} made me squeal 🎉"),
		},
		bodies: []BodyTemplate{
			mustBody("Hey besties! 💕 I finally got my hands on {product} and I can't stop smiling!\n\n" +
				"✨ {feature1}\n✨ {feature2}\n✨ {feature3}\n\n" +
				"Speaking as {expert}: {experience}. {suggestion}!\n\n{conclusion} 🥰"),
			mustBody("Okay, {product} is officially my happy place 🌈\n\n" +
				"What I love most: {feature1}. And {feature2}? Chef's kiss 💋\n" +
				"Bonus points for {feature3}!\n\n" +
				"Little tip from {expert}: {suggestion}. Honestly, {experience}.\n\n{conclusion} 💫"),
			mustBody("Unboxing {product} was pure serotonin 🎁\n\n" +
				"They promised {sellingPoint}, and it delivers!\n" +
				"💗 {feature1}\n💗 {feature2}\n💗 {feature3}\n\n" +
				"As {expert}, here's my take: {experience}. {suggestion} ✌️\n\n{conclusion}"),
		},
		tags: []string{"#DailyJoy", "#ShareTheLove"},
	},
	StyleProfessional: {
		key: StyleProfessional,
		titles: []TitleTemplate{
			mustTitle("In-depth review: {product}, and how {feature} holds up"),
			mustTitle("{product} tested for 30 days: is {feature} worth it?"),
			mustTitle("Buyer's guide: what {feature} really means for {product}"),
			mustTitle("Hands-on with {product}: {feature} under the microscope"),
			mustTitle("{product} evaluation: {feature}, measured and compared"),
		},
		bodies: []BodyTemplate{
			mustBody("Review notes: {product}\n\n" +
				"Claimed highlights: {sellingPoint}\n\n" +
				"1. {feature1}\n2. {feature2}\n3. {feature3}\n\n" +
				"Tester profile: {expert}. Findings: {experience}.\n" +
				"Recommendation: {suggestion}.\n\nVerdict: {conclusion}."),
			mustBody("After a structured test of {product}, here is the summary.\n\n" +
				"Key strength: {feature1}\nSecondary strength: {feature2}\nAlso noted: {feature3}\n\n" +
				"From the perspective of {expert}: {experience}.\n" +
				"Suggested usage: {suggestion}.\n\nBottom line: {conclusion}."),
			mustBody("Product assessment: {product}\n\n" +
				"Test focus: {feature1}, {feature2}, {feature3}.\n\n" +
				"Reviewer background: {expert}.\nObservation: {experience}.\n" +
				"Best practice: {suggestion}.\n\nConclusion: {conclusion}."),
		},
		tags: []string{"#InDepthReview", "#BuyersGuide"},
	},
	StyleMinimal: {
		key: StyleMinimal,
		titles: []TitleTemplate{
			mustTitle("{product}. {feature}."),
			mustTitle("{product}: {feature}, nothing more"),
			mustTitle("Simply {product}. {feature}."),
			mustTitle("One pick: {product} · {feature}"),
		},
		bodies: []BodyTemplate{
			mustBody("{product}.\n\n{feature1}.\n{feature2}.\n{feature3}.\n\n{suggestion}.\n{conclusion}.\n\n— {expert}"),
			mustBody("{product}: {sellingPoint}.\n\n{experience}.\n{suggestion}.\n\n{conclusion}. ({expert})"),
		},
		tags: []string{"#LessIsMore", "#SimpleLiving"},
	},
	StyleHumorous: {
		key: StyleHumorous,
		titles: []TitleTemplate{
			mustTitle("My wallet cried, but {product} with {feature} made me laugh 😂"),
			mustTitle("I bought {product} for {feature} and now my friends are jealous 🤣"),
			mustTitle("{product}: the {feature} sidekick I never knew I needed 🙃"),
			mustTitle("Breaking news: {product} and {feature} ruined every other product for me 😆"),
			mustTitle("Warning: {product} may cause excessive bragging about {feature} 🤪"),
		},
		bodies: []BodyTemplate{
			mustBody("Confession: I did not need {product}. I now cannot live without {product}. 😂\n\n" +
				"Exhibit A: {feature1}\nExhibit B: {feature2}\nExhibit C: {feature3}\n\n" +
				"I'm {expert} and even I'm surprised: {experience}. {suggestion}, trust me 🙃\n\n{conclusion} 🤷"),
			mustBody("Day 1 with {product}: skeptical. Day 3: telling strangers about {feature1}. 🤣\n\n" +
				"Also {feature2}, also {feature3}. My group chat has muted me.\n\n" +
				"Advice from {expert}: {suggestion}. Side effect: {experience}.\n\n{conclusion} 😆"),
		},
		tags: []string{"#JustForFun", "#LOL"},
	},
}

// GetStyle returns the profile for key. Unrecognised keys fall back to DefaultStyle;
// matching is case-insensitive and accepts the original form's labels.
func GetStyle(key string) StyleProfile {
	if k, ok := ResolveStyle(key); ok {
		return styleRegistry[k]
	}
	return styleRegistry[DefaultStyle]
}

// ResolveStyle normalises key to a recognised StyleKey.
func ResolveStyle(key string) (StyleKey, bool) {
	trimmed := strings.TrimSpace(key)
	if k, ok := styleAliases[trimmed]; ok {
		return k, true
	}
	for _, k := range styleOrder {
		if strings.EqualFold(trimmed, string(k)) {
			return k, true
		}
	}
	return DefaultStyle, false
}

// Styles lists the recognised style keys in declaration order.
func Styles() []StyleKey {
	return append([]StyleKey(nil), styleOrder...)
}

// highlightTag is the single style-dependent entry of the base tag list.
func highlightTag(key StyleKey) string {
	switch key {
	case StyleProfessional:
		return "#ProReview"
	case StyleHumorous:
		return "#JustForLaughs"
	default:
		return "#MustHave"
	}
}
