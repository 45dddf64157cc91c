// internal/engine/titles.go
package engine

// TitleCount is the fixed number of title candidates per result.
const TitleCount = 3

// Rand is the subset of *rand.Rand (math/rand/v2) the sampler needs.
type Rand interface {
	IntN(n int) int
}

// SampleTitles draws templates uniformly with replacement and keeps renderings not
// already collected. Attempts are capped at the pool size; when fewer than
// TitleCount distinct titles come out, the first one is repeated.
func SampleTitles(style StyleProfile, productName, feature1 string, rng Rand) [TitleCount]string {
	pool := style.titles
	collected := make([]string, 0, TitleCount)
	seen := make(map[string]bool, TitleCount)

	for attempts := 0; len(collected) < TitleCount && attempts < len(pool); attempts++ {
		title := pool[rng.IntN(len(pool))].Render(productName, feature1)
		if seen[title] {
			continue
		}
		seen[title] = true
		collected = append(collected, title)
	}

	var out [TitleCount]string
	if len(collected) == 0 {
		// Only reachable with an empty pool; registry profiles never have one.
		return out
	}
	for i := range out {
		if i < len(collected) {
			out[i] = collected[i]
		} else {
			out[i] = collected[0]
		}
	}
	return out
}
