// internal/engine/slots.go
package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Slot is a named substitution point inside a template string, written as {name}.
type Slot string

// Title slots.
const (
	SlotProduct Slot = "product"
	SlotFeature Slot = "feature"
)

// Body slots.
const (
	SlotSellingPoint Slot = "sellingPoint"
	SlotFeature1     Slot = "feature1"
	SlotFeature2     Slot = "feature2"
	SlotFeature3     Slot = "feature3"
	SlotExpert       Slot = "expert"
	SlotSuggestion   Slot = "suggestion"
	SlotExperience   Slot = "experience"
	SlotConclusion   Slot = "conclusion"
)

var (
	titleSlots = []Slot{SlotProduct, SlotFeature}
	bodySlots  = []Slot{
		SlotProduct, SlotSellingPoint,
		SlotFeature1, SlotFeature2, SlotFeature3,
		SlotExpert, SlotSuggestion, SlotExperience, SlotConclusion,
	}
)

var slotPattern = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9]*)\}`)

// UnknownSlotError is returned when a template references a slot its kind does not supply.
type UnknownSlotError struct {
	Template string
	Slot     string
	Kind     string
}

func (e *UnknownSlotError) Error() string {
	return fmt.Sprintf("%s template %q references unknown slot {%s}", e.Kind, e.Template, e.Slot)
}

// template is a parsed template string together with the slots it references.
type template struct {
	raw   string
	slots []Slot
}

func parseTemplate(kind, raw string, allowed []Slot) (template, error) {
	seen := make(map[Slot]bool)
	var used []Slot
	for _, m := range slotPattern.FindAllStringSubmatch(raw, -1) {
		s := Slot(m[1])
		if !containsSlot(allowed, s) {
			return template{}, &UnknownSlotError{Template: raw, Slot: m[1], Kind: kind}
		}
		if !seen[s] {
			seen[s] = true
			used = append(used, s)
		}
	}
	return template{raw: raw, slots: used}, nil
}

// render replaces every occurrence of every supplied slot. Substituted text is
// not rescanned, so user input that happens to look like {slot} stays literal.
func (t template) render(values map[Slot]string) string {
	if len(t.slots) == 0 {
		return t.raw
	}
	pairs := make([]string, 0, len(t.slots)*2)
	for _, s := range t.slots {
		pairs = append(pairs, "{"+string(s)+"}", values[s])
	}
	return strings.NewReplacer(pairs...).Replace(t.raw)
}

func containsSlot(set []Slot, s Slot) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

// TitleTemplate may only reference {product} and {feature}.
type TitleTemplate struct{ t template }

// NewTitleTemplate parses raw, rejecting slots outside the title slot set.
func NewTitleTemplate(raw string) (TitleTemplate, error) {
	t, err := parseTemplate("title", raw, titleSlots)
	return TitleTemplate{t: t}, err
}

func mustTitle(raw string) TitleTemplate {
	t, err := NewTitleTemplate(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// Raw returns the unparsed template text.
func (t TitleTemplate) Raw() string { return t.t.raw }

// Slots returns the distinct slots referenced, in order of first appearance.
func (t TitleTemplate) Slots() []Slot { return append([]Slot(nil), t.t.slots...) }

// Render fills the template.
func (t TitleTemplate) Render(productName, feature string) string {
	return t.t.render(map[Slot]string{
		SlotProduct: productName,
		SlotFeature: feature,
	})
}

// BodyValues carries everything a body template can reference.
type BodyValues struct {
	Product      string
	SellingPoint string
	Features     FeatureSet
	Profile      ProductTypeProfile
}

// BodyTemplate may reference any of the body slots.
type BodyTemplate struct{ t template }

// NewBodyTemplate parses raw, rejecting slots outside the body slot set.
func NewBodyTemplate(raw string) (BodyTemplate, error) {
	t, err := parseTemplate("body", raw, bodySlots)
	return BodyTemplate{t: t}, err
}

func mustBody(raw string) BodyTemplate {
	t, err := NewBodyTemplate(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func (t BodyTemplate) Raw() string { return t.t.raw }

func (t BodyTemplate) Slots() []Slot { return append([]Slot(nil), t.t.slots...) }

// Render fills every slot occurrence from v.
func (t BodyTemplate) Render(v BodyValues) string {
	return t.t.render(map[Slot]string{
		SlotProduct:      v.Product,
		SlotSellingPoint: v.SellingPoint,
		SlotFeature1:     v.Features.Feature1,
		SlotFeature2:     v.Features.Feature2,
		SlotFeature3:     v.Features.Feature3,
		SlotExpert:       v.Profile.Persona,
		SlotSuggestion:   v.Profile.Suggestion,
		SlotExperience:   v.Profile.Experience,
		SlotConclusion:   v.Profile.Conclusion,
	})
}
