// internal/engine/body.go
package engine

// ComposeBody renders one uniformly drawn body template of the style.
func ComposeBody(style StyleProfile, productName, sellingPoint string, features FeatureSet, profile ProductTypeProfile, rng Rand) string {
	if len(style.bodies) == 0 {
		return ""
	}
	tmpl := style.bodies[rng.IntN(len(style.bodies))]
	return tmpl.Render(BodyValues{
		Product:      productName,
		SellingPoint: sellingPoint,
		Features:     features,
		Profile:      profile,
	})
}
