// internal/engine/engine_test.go
package engine

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Test Helper Functions
// ==========================

// seqRand replays a fixed sequence of draws, wrapping around.
type seqRand struct {
	seq []int
	i   int
}

func (r *seqRand) IntN(n int) int {
	if len(r.seq) == 0 {
		return 0
	}
	v := r.seq[r.i%len(r.seq)] % n
	r.i++
	return v
}

func fixedRand(seq ...int) func() Rand {
	return func() Rand { return &seqRand{seq: seq} }
}

func customStyle(t *testing.T, titles ...string) StyleProfile {
	t.Helper()
	p := StyleProfile{key: StylePlayful, tags: []string{"#a", "#b"}}
	for _, raw := range titles {
		tt, err := NewTitleTemplate(raw)
		require.NoError(t, err)
		p.titles = append(p.titles, tt)
	}
	return p
}

// ==========================
// Scenario Tests
// ==========================

func TestGenerate_ScenarioA_PlayfulThermoMug(t *testing.T) {
	for i := 0; i < 50; i++ {
		result := Generate("ThermoMug", "keeps heat 24h, one-touch lid, sleek design", "Playful")

		require.Len(t, result.Titles, 3)
		withFeature := 0
		for _, title := range result.Titles {
			assert.Contains(t, title, "ThermoMug")
			if strings.Contains(title, "keeps heat 24h") {
				withFeature++
			}
		}
		assert.Greater(t, withFeature, 0)
		require.NotEmpty(t, result.Tags)
		assert.Equal(t, "#ThermoMug", result.Tags[0])
		assert.Equal(t, StylePlayful, result.Style)
		assert.Equal(t, ProductDrinkware, result.ProductType)
	}
}

func TestGenerate_ScenarioB_NoDelimiter(t *testing.T) {
	fs := ParseFeatures("super durable")

	assert.Equal(t, "super durable", fs.Feature1)
	assert.Equal(t, "super durable", fs.Feature2)
	assert.Equal(t, "super durable", fs.Feature3)
}

func TestGenerate_ScenarioC_CatchAllProfile(t *testing.T) {
	profile := Classify("Unknown Gadget 3000")
	assert.Equal(t, ProductOther, profile.Type)

	for i := 0; i < 20; i++ {
		result := Generate("Unknown Gadget 3000", "pocket sized, long battery", "Professional")
		assert.Equal(t, StyleProfessional, result.Style)
		assert.Equal(t, ProductOther, result.ProductType)
		assert.Contains(t, result.Body, otherProfile.Persona)
		assert.Contains(t, result.Body, otherProfile.Suggestion)
	}
}

func TestGenerate_ScenarioD_UnknownStyleFallsBack(t *testing.T) {
	e := New(WithRandSource(fixedRand(0, 1, 2, 0)))

	result := e.Generate("ThermoMug", "keeps heat 24h", "NotARealStyle")

	assert.Equal(t, DefaultStyle, result.Style)
	playful := GetStyle(string(StylePlayful))
	assert.Equal(t, playful.titles[0].Render("ThermoMug", "keeps heat 24h"), result.Titles[0])
	assert.Equal(t, "#MustHave", result.Tags[3])
}

// ==========================
// Style Registry Tests
// ==========================

func TestGetStyle_RecognisedStylesHaveTemplatePools(t *testing.T) {
	for _, key := range Styles() {
		t.Run(string(key), func(t *testing.T) {
			p := GetStyle(string(key))
			assert.Equal(t, key, p.Key())
			assert.NotEmpty(t, p.TitleTemplates())
			assert.NotEmpty(t, p.BodyTemplates())
			assert.Len(t, p.Tags(), 2)
		})
	}
}

func TestGetStyle_Normalisation(t *testing.T) {
	tests := []struct {
		input    string
		expected StyleKey
	}{
		{"Playful", StylePlayful},
		{"professional", StyleProfessional},
		{"  MINIMAL ", StyleMinimal},
		{"Humorous", StyleHumorous},
		{"活泼", StylePlayful},
		{"专业", StyleProfessional},
		{"简约", StyleMinimal},
		{"搞笑", StyleHumorous},
		{"", DefaultStyle},
		{"NotARealStyle", DefaultStyle},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetStyle(tt.input).Key())
		})
	}
}

func TestGetStyle_AccessorsReturnCopies(t *testing.T) {
	p := GetStyle("Minimal")
	tags := p.Tags()
	tags[0] = "#mutated"

	assert.Equal(t, "#LessIsMore", GetStyle("Minimal").Tags()[0])
}

func TestRegistry_TemplatesReferenceExpectedSlots(t *testing.T) {
	for _, key := range Styles() {
		p := GetStyle(string(key))
		for _, tt := range p.TitleTemplates() {
			assert.ElementsMatch(t, []Slot{SlotProduct, SlotFeature}, tt.Slots(), tt.Raw())
		}
		for _, bt := range p.BodyTemplates() {
			assert.Contains(t, bt.Slots(), SlotExpert, bt.Raw())
			assert.Contains(t, bt.Slots(), SlotSuggestion, bt.Raw())
			assert.Contains(t, bt.Slots(), SlotProduct, bt.Raw())
		}
	}
}

// ==========================
// Template Tests
// ==========================

func TestNewTemplate_RejectsUnknownSlots(t *testing.T) {
	_, err := NewTitleTemplate("{product} has {feature1}")
	var slotErr *UnknownSlotError
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, "feature1", slotErr.Slot)
	assert.Equal(t, "title", slotErr.Kind)

	_, err = NewBodyTemplate("{product} {feature}")
	require.ErrorAs(t, err, &slotErr)
	assert.Equal(t, "feature", slotErr.Slot)

	assert.Panics(t, func() { mustBody("{nope}") })
}

func TestBodyTemplate_NoPlaceholdersIsUnchanged(t *testing.T) {
	raws := []string{
		"Plain copy with nothing to fill.",
		"Braces that are not slots: { product } and {} and {9lives}",
		"",
	}
	for _, raw := range raws {
		bt, err := NewBodyTemplate(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, bt.Render(BodyValues{Product: "X", Profile: otherProfile}))
	}
}

func TestBodyTemplate_SubstitutesEveryOccurrence(t *testing.T) {
	bt, err := NewBodyTemplate("{product}! {product}? {feature2}/{feature2} by {expert}, {conclusion}")
	require.NoError(t, err)

	out := bt.Render(BodyValues{
		Product:  "Lamp",
		Features: FeatureSet{Feature1: "a", Feature2: "b", Feature3: "c"},
		Profile:  ProductTypeProfile{Persona: "me", Conclusion: "done"},
	})

	assert.Equal(t, "Lamp! Lamp? b/b by me, done", out)
}

func TestTitleTemplate_InputIsNotRescanned(t *testing.T) {
	tt := mustTitle("{product} - {feature}")

	assert.Equal(t, "{feature} - x", tt.Render("{feature}", "x"))
}

// ==========================
// Classifier Tests
// ==========================

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		expected ProductType
	}{
		{"keyword inside word", "ThermoMug", ProductDrinkware},
		{"lower case", "travel tumbler", ProductDrinkware},
		{"chinese keyword", "便携式咖啡杯", ProductDrinkware},
		{"skincare", "Vitamin C Serum", ProductSkincare},
		{"snack", "Spicy Potato Chips", ProductSnack},
		{"audio", "Noise-cancelling Earbuds", ProductAudio},
		{"apparel", "Oversized Hoodie", ProductApparel},
		{"home", "Sunset Lamp", ProductHome},
		{"declaration order wins over position", "Lamp with Mug holder", ProductDrinkware},
		{"ice cream is food", "Ice Cream Cookie", ProductSnack},
		{"cream alone is skincare", "Face Cream", ProductSkincare},
		{"cup inside another word", "Oak Cupboard", ProductOther},
		{"cupcake is not drinkware", "Cupcake Mix", ProductOther},
		{"coffee cup", "Ceramic Coffee Cup", ProductDrinkware},
		{"upper case keyword", "VITAMIN SERUM", ProductSkincare},
		{"no match", "Unknown Gadget 3000", ProductOther},
		{"empty", "", ProductOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := Classify(tt.product)
			second := Classify(tt.product)
			assert.Equal(t, tt.expected, first.Type)
			assert.Equal(t, first, second)
		})
	}
}

func TestProductTypes_CatchAllLast(t *testing.T) {
	types := ProductTypes()
	require.NotEmpty(t, types)
	assert.Equal(t, ProductOther, types[len(types)-1])
}

// ==========================
// Selling-Point Parser Tests
// ==========================

func TestParseFeatures(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected FeatureSet
	}{
		{"three tokens", "a, b, c", FeatureSet{"a", "b", "c"}},
		{"more than three", "a,b,c,d", FeatureSet{"a", "b", "c"}},
		{"two tokens", "a，b", FeatureSet{"a", "b", "b"}},
		{"fullwidth and ascii mix", " a ，b , c", FeatureSet{"a", "b", "c"}},
		{"empty tokens dropped", ",, a ,, ,b", FeatureSet{"a", "b", "b"}},
		{"no delimiter", "super durable", FeatureSet{"super durable", "super durable", "super durable"}},
		{"no delimiter padded is trimmed", "  super durable  ", FeatureSet{"super durable", "super durable", "super durable"}},
		{"only delimiters keeps raw", " , ，", FeatureSet{" , ，", " , ，", " , ，"}},
		{"empty", "", FeatureSet{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFeatures(tt.input))
		})
	}
}

// ==========================
// Title Sampler Tests
// ==========================

func TestSampleTitles_AlwaysThree(t *testing.T) {
	inputs := [][2]string{
		{"ThermoMug", "keeps heat"},
		{"", ""},
		{"x", "x"},
	}
	for _, key := range Styles() {
		for _, in := range inputs {
			titles := SampleTitles(GetStyle(string(key)), in[0], in[1], newPCG())
			assert.Len(t, titles, TitleCount)
			for _, title := range titles {
				assert.NotEmpty(t, title)
			}
		}
	}
}

func TestSampleTitles_DistinctInSamplingOrder(t *testing.T) {
	style := customStyle(t, "A {product} {feature}", "B {product} {feature}", "C {product} {feature}", "D {product} {feature}")

	titles := SampleTitles(style, "p", "f", &seqRand{seq: []int{2, 2, 0, 3}})

	assert.Equal(t, [TitleCount]string{"C p f", "A p f", "D p f"}, titles)
}

func TestSampleTitles_PadsWithFirstWhenPoolTooSmall(t *testing.T) {
	style := customStyle(t, "only {product}")

	titles := SampleTitles(style, "Mug", "hot", newPCG())

	assert.Equal(t, [TitleCount]string{"only Mug", "only Mug", "only Mug"}, titles)
}

func TestSampleTitles_AttemptsCappedAtPoolSize(t *testing.T) {
	style := customStyle(t, "A {product}", "B {product}", "C {product}", "D {product}", "E {product}")
	rng := &seqRand{seq: []int{1}}

	titles := SampleTitles(style, "p", "f", rng)

	assert.Equal(t, [TitleCount]string{"B p", "B p", "B p"}, titles)
	assert.Equal(t, 5, rng.i)
}

func TestSampleTitles_DistinctnessMeasuredAfterSubstitution(t *testing.T) {
	style := customStyle(t, "{product}", "{feature}")

	titles := SampleTitles(style, "same", "same", &seqRand{seq: []int{0, 1}})

	assert.Equal(t, [TitleCount]string{"same", "same", "same"}, titles)
}

// ==========================
// Content Composer Tests
// ==========================

func TestComposeBody_FillsAllSlots(t *testing.T) {
	features := ParseFeatures("keeps heat 24h, one-touch lid, sleek design")
	profile := Classify("ThermoMug")

	for _, key := range Styles() {
		style := GetStyle(string(key))
		for i := range style.bodies {
			body := ComposeBody(style, "ThermoMug", "keeps heat 24h, one-touch lid, sleek design", features, profile, &seqRand{seq: []int{i}})
			assert.NotContains(t, body, "{", "style %s body %d", key, i)
			assert.Contains(t, body, "ThermoMug")
			assert.Contains(t, body, profile.Persona)
		}
	}
}

// ==========================
// Tag Assembler Tests
// ==========================

func TestAssembleTags(t *testing.T) {
	tests := []struct {
		name     string
		product  string
		feature  string
		style    StyleKey
		expected []string
	}{
		{
			name:     "playful",
			product:  "ThermoMug",
			feature:  "keeps heat 24h",
			style:    StylePlayful,
			expected: []string{"#ThermoMug", "#CuratedPick", "#WorthTrying", "#MustHave", "#keepsheat24h"},
		},
		{
			name:     "professional highlight",
			product:  "Serum",
			feature:  "fast absorbing",
			style:    StyleProfessional,
			expected: []string{"#Serum", "#CuratedPick", "#WorthTrying", "#ProReview", "#fastabsorbing"},
		},
		{
			name:     "humorous highlight and fullwidth space",
			product:  "Chips",
			feature:  "extra　crunchy",
			style:    StyleHumorous,
			expected: []string{"#Chips", "#CuratedPick", "#WorthTrying", "#JustForLaughs", "#extracrunchy"},
		},
		{
			name:     "unknown style uses catch-all highlight",
			product:  "",
			feature:  "",
			style:    StyleKey("nope"),
			expected: []string{"#", "#CuratedPick", "#WorthTrying", "#MustHave", "#"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := AssembleTags(tt.product, tt.feature, tt.style)
			assert.LessOrEqual(t, len(tags), MaxTags)
			assert.Equal(t, tt.expected, tags)
			assert.Equal(t, "#"+tt.product, tags[0])
		})
	}
}

// ==========================
// Output Formatter Tests
// ==========================

func TestFormat(t *testing.T) {
	out := Format([]string{"t1", "t2", "t3"}, "body <b>", []string{"#a", "#b"})

	expected := "=== Title Options ===\n1. t1\n2. t2\n3. t3\n\n=== Post Body ===\nbody <b>\n\n=== Tags ===\n#a #b"
	assert.Equal(t, expected, out)
}

func TestGenerate_TextCombinesSections(t *testing.T) {
	result := Generate("Sunset Lamp", "warm glow, app control", "Minimal")

	for _, title := range result.Titles {
		assert.Contains(t, result.Text, title)
	}
	assert.Contains(t, result.Text, result.Body)
	assert.True(t, strings.HasSuffix(result.Text, strings.Join(result.Tags, " ")))
}

func TestGenerate_EmptyInputsAreDefined(t *testing.T) {
	result := Generate("", "", "")

	assert.Len(t, result.Titles, TitleCount)
	assert.Equal(t, "#", result.Tags[0])
	assert.Equal(t, ProductOther, result.ProductType)
	assert.NotContains(t, result.Body, "{product}")
}

func TestGenerate_ConcurrentCallsShareNothing(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]GenerationResult, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Generate("ThermoMug", "keeps heat 24h, one-touch lid", "Humorous")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, StyleHumorous, r.Style)
		assert.Len(t, r.Tags, MaxTags)
	}
}
