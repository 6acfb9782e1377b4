package utils

import (
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique silly names. go-randomdata keeps one
// global source, so generators share it.
type RandomNameGenerator map[string]struct{}

func NewRandomNameGenerator(seed int64) RandomNameGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return make(RandomNameGenerator)
}

// RandomName works on a zero value generator too, it then keeps drawing from
// whatever source was seeded last.
func (rng *RandomNameGenerator) RandomName() string {
	if *rng == nil {
		*rng = make(map[string]struct{})
	}
	for {
		name := randomdata.SillyName()
		// avoid duplicate names
		if _, exists := (*rng)[name]; !exists {
			(*rng)[name] = struct{}{}
			return name
		}
	}
}

// Float returns a value in [min, max) from the same source as the names.
func (rng *RandomNameGenerator) Float(min, max float32) float32 {
	return float32(randomdata.Number(int(min*100), int(max*100))) / 100
}
