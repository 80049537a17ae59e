// Package market implements the post-bet price adjustment for a
// question's options. Prices are integer cents of implied probability:
// each option stays within [1, 99] and the vector sums to exactly 100.
package market

import (
	"math"

	"paperboy/internal/models"
)

const (
	// MinPrice and MaxPrice bound every option price.
	MinPrice = 1
	MaxPrice = 99

	// A bet moves the bought option by at least MinIncrease and at
	// most MaxIncrease cents, saturating at betAmount/IncreaseDivisor.
	MinIncrease     = 1
	MaxIncrease     = 5
	IncreaseDivisor = 20
)

// PriceIncrease returns the nudge applied to the bought option for a
// given wager: clamp(betAmount/20, 1, 5).
func PriceIncrease(betAmount int) int {
	return clamp(betAmount/IncreaseDivisor, MinIncrease, MaxIncrease)
}

// Rebalance applies a wager's demand to the option price vector in
// place: the bought option's price goes up by a bounded step, the
// remaining options absorb a proportional decrease, and rounding
// drift is corrected so the vector sums to 100 again.
//
// Returns false without touching anything when there are fewer than
// two options or the bought option does not exist.
func Rebalance(options []models.Option, boughtOptionName string, betAmount int) bool {
	if len(options) < 2 {
		return false
	}

	bought := findOption(options, boughtOptionName)
	if bought == nil {
		return false
	}

	increase := PriceIncrease(betAmount)
	newBoughtPrice := bought.Price + increase
	if newBoughtPrice > MaxPrice {
		newBoughtPrice = MaxPrice
	}
	// The increase actually applied may be smaller near the ceiling.
	actualIncrease := newBoughtPrice - bought.Price

	// Distribute the increase as a decrease across the other options,
	// proportional to each option's share of the non-bought price mass.
	totalOtherPrice := 100 - bought.Price
	for i := range options {
		if options[i].Name == boughtOptionName || totalOtherPrice <= 0 {
			continue
		}
		decrease := int(math.Round(float64(actualIncrease) * float64(options[i].Price) / float64(totalOtherPrice)))
		options[i].Price -= decrease
		if options[i].Price < MinPrice {
			options[i].Price = MinPrice
		}
	}

	bought.Price = newBoughtPrice

	// Rounding and floor-clamping can leave the sum off 100. Push the
	// difference onto an option whose price is strictly inside the
	// bounds so the adjustment itself cannot violate them; fall back
	// to the bought option when none qualifies.
	if difference := 100 - priceSum(options); difference != 0 {
		adjust := bought
		for i := range options {
			if options[i].Name != boughtOptionName && options[i].Price > MinPrice && options[i].Price < MaxPrice {
				adjust = &options[i]
				break
			}
		}
		adjust.Price = clamp(adjust.Price+difference, MinPrice, MaxPrice)
	}

	// Safety net: the adjustment above can itself clamp. Sweep any
	// residual remainder across the options in list order, as much as
	// each option's bounds allow. The first option absorbs leftover
	// rounding before any other.
	currentSum := priceSum(options)
	for i := 0; i < len(options) && currentSum != 100; i++ {
		adjusted := clamp(options[i].Price+(100-currentSum), MinPrice, MaxPrice)
		currentSum += adjusted - options[i].Price
		options[i].Price = adjusted
	}

	return true
}

func findOption(options []models.Option, name string) *models.Option {
	for i := range options {
		if options[i].Name == name {
			return &options[i]
		}
	}
	return nil
}

func priceSum(options []models.Option) int {
	sum := 0
	for i := range options {
		sum += options[i].Price
	}
	return sum
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
