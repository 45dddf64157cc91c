// Package engine is the rule-based copy generator used when no remote model is
// available. Every function in it is total: any string input yields a defined
// result, and nothing here blocks or returns an error.
package engine

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// GenerationResult is the output of one Generate call.
type GenerationResult struct {
	Titles      [TitleCount]string `json:"titles"`
	Body        string             `json:"body"`
	Tags        []string           `json:"tags"`
	Text        string             `json:"text"`
	Style       StyleKey           `json:"style"`
	ProductType ProductType        `json:"productType"`
	Features    FeatureSet         `json:"features"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandSource replaces the per-call random source factory.
func WithRandSource(fn func() Rand) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newRand = fn
		}
	}
}

// Engine holds no mutable state; one value can serve concurrent callers.
type Engine struct {
	newRand func() Rand
}

// New returns an Engine seeded from crypto/rand for every call.
func New(opts ...Option) *Engine {
	e := &Engine{newRand: newPCG}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newPCG() Rand {
	var seed [16]byte
	_, _ = cryptorand.Read(seed[:])
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}

// Generate runs the whole pipeline for one request. Callers are expected to
// reject blank productName or sellingPoint before getting here.
func (e *Engine) Generate(productName, sellingPoint, style string) GenerationResult {
	rng := e.newRand()

	profile := GetStyle(style)
	features := ParseFeatures(sellingPoint)
	productProfile := Classify(productName)

	titles := SampleTitles(profile, productName, features.Feature1, rng)
	body := ComposeBody(profile, productName, sellingPoint, features, productProfile, rng)
	tags := AssembleTags(productName, features.Feature1, profile.Key())

	return GenerationResult{
		Titles:      titles,
		Body:        body,
		Tags:        tags,
		Text:        Format(titles[:], body, tags),
		Style:       profile.Key(),
		ProductType: productProfile.Type,
		Features:    features,
	}
}

var defaultEngine = New()

// Generate runs the default engine.
func Generate(productName, sellingPoint, style string) GenerationResult {
	return defaultEngine.Generate(productName, sellingPoint, style)
}
