package promo

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"
)

var (
	// ErrNoActiveTemplate means the population contains no active templates.
	ErrNoActiveTemplate = errors.New("no active template")
	// ErrNoSelectableTemplate means every candidate's weight rounded down to
	// zero, leaving nothing to draw from.
	ErrNoSelectableTemplate = errors.New("no selectable template")
)

// weightGranularity fixes the discretization of the weighted draw at 1/100.
const weightGranularity = 100

// Selector draws one template from a population, favouring templates that
// have been tweeted less often.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector. A nil rng gets a time-seeded source;
// tests inject a fixed seed for deterministic draws.
func NewSelector(rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng}
}

// Select picks one active template from the population.
//
// Each active template gets weight (total - tweeted) / total, where total is
// the sum of usage counts over active templates (treated as 1 when zero, so
// an unused population draws uniformly). Weights are discretized to 1/100 and
// drawn by cumulative weight, which matches replicating each candidate
// floor(100 * weight) times into a pool and picking uniformly.
func (s *Selector) Select(population Population) (*Template, error) {
	active := make([]*Template, 0, len(population))
	for _, tpl := range population {
		if tpl.Active {
			active = append(active, tpl)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoActiveTemplate
	}

	// A sole candidate whose usage equals the total would get weight 0 and
	// never be drawn, so short-circuit it.
	if len(active) == 1 {
		return active[0], nil
	}

	// Map iteration order is random; fix the draw order.
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })

	total := 0
	for _, tpl := range active {
		total += tpl.Tweeted
	}
	if total == 0 {
		total = 1
	}

	weights := make([]int, len(active))
	poolSize := 0
	for i, tpl := range active {
		w := float64(total-tpl.Tweeted) / float64(total)
		w = math.Max(0, math.Min(1, w))
		weights[i] = int(math.Floor(weightGranularity * w))
		poolSize += weights[i]
	}
	if poolSize == 0 {
		return nil, ErrNoSelectableTemplate
	}

	pick := s.rng.Intn(poolSize)
	for i, w := range weights {
		if pick < w {
			return active[i], nil
		}
		pick -= w
	}

	return nil, ErrNoSelectableTemplate
}
