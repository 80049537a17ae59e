package market

import (
	"math/rand"
	"testing"

	"paperboy/internal/models"
)

func opts(pairs ...interface{}) []models.Option {
	options := make([]models.Option, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		options = append(options, models.Option{
			Name:  pairs[i].(string),
			Price: pairs[i+1].(int),
		})
	}
	return options
}

func assertPrices(t *testing.T, options []models.Option, want map[string]int) {
	t.Helper()
	for _, opt := range options {
		if opt.Price != want[opt.Name] {
			t.Errorf("option %s: got price %d, want %d", opt.Name, opt.Price, want[opt.Name])
		}
	}
}

func TestPriceIncrease(t *testing.T) {
	cases := []struct {
		amount int
		want   int
	}{
		{1, 1},
		{19, 1},
		{20, 1},
		{39, 1},
		{40, 2},
		{100, 5},
		{1000, 5},
	}

	for _, tc := range cases {
		if got := PriceIncrease(tc.amount); got != tc.want {
			t.Errorf("PriceIncrease(%d) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestRebalanceTwoOptions(t *testing.T) {
	options := opts("Yes", 50, "No", 50)

	if !Rebalance(options, "Yes", 100) {
		t.Fatal("expected rebalance to apply")
	}

	assertPrices(t, options, map[string]int{"Yes": 55, "No": 45})
}

func TestRebalanceThreeOptions(t *testing.T) {
	options := opts("A", 34, "B", 33, "C", 33)

	if !Rebalance(options, "A", 40) {
		t.Fatal("expected rebalance to apply")
	}

	assertPrices(t, options, map[string]int{"A": 36, "B": 32, "C": 32})
}

func TestRebalanceSaturatesAtCeiling(t *testing.T) {
	options := opts("Yes", 97, "No", 3)

	if !Rebalance(options, "Yes", 1000) {
		t.Fatal("expected rebalance to apply")
	}

	// The nominal increase is 5 but the ceiling caps it at 2.
	if options[0].Price != 99 {
		t.Errorf("Yes price = %d, want 99", options[0].Price)
	}
	if sum := priceSum(options); sum != 100 {
		t.Errorf("price sum = %d, want 100", sum)
	}
}

func TestRebalanceRespectsFloor(t *testing.T) {
	options := opts("A", 98, "B", 1, "C", 1)

	Rebalance(options, "A", 100)

	for _, opt := range options {
		if opt.Price < MinPrice || opt.Price > MaxPrice {
			t.Errorf("option %s price %d out of [1,99]", opt.Name, opt.Price)
		}
	}
	if sum := priceSum(options); sum != 100 {
		t.Errorf("price sum = %d, want 100", sum)
	}
}

func TestRebalanceFewerThanTwoOptionsIsNoOp(t *testing.T) {
	options := opts("Only", 100)

	if Rebalance(options, "Only", 50) {
		t.Error("expected no-op for a single option")
	}
	if options[0].Price != 100 {
		t.Errorf("price changed on no-op: %d", options[0].Price)
	}
}

func TestRebalanceUnknownOptionIsNoOp(t *testing.T) {
	options := opts("Yes", 50, "No", 50)

	if Rebalance(options, "Maybe", 50) {
		t.Error("expected no-op for unknown option")
	}
	assertPrices(t, options, map[string]int{"Yes": 50, "No": 50})
}

// TestRebalanceInvariantSweep hammers the rebalancer with random
// option counts, price shapes and bet amounts: after every call the
// vector must sum to exactly 100 with every price in [1,99]. The
// final-remainder step exists because the arithmetic alone does not
// guarantee this, so the property is tested rather than assumed.
func TestRebalanceInvariantSweep(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for iter := 0; iter < 5000; iter++ {
		numOptions := 2 + rng.Intn(4)
		options := randomPriceVector(rng, numOptions)

		bought := options[rng.Intn(numOptions)].Name
		amount := 1 + rng.Intn(500)

		if !Rebalance(options, bought, amount) {
			t.Fatalf("iter %d: rebalance refused valid input", iter)
		}

		if sum := priceSum(options); sum != 100 {
			t.Fatalf("iter %d: price sum = %d after betting %d on %s (%v)", iter, sum, amount, bought, options)
		}
		for _, opt := range options {
			if opt.Price < MinPrice || opt.Price > MaxPrice {
				t.Fatalf("iter %d: option %s price %d out of [1,99]", iter, opt.Name, opt.Price)
			}
		}
	}
}

func TestRebalanceRepeatedBetsKeepInvariant(t *testing.T) {
	options := opts("Yes", 50, "No", 30, "Maybe", 20)

	for i := 0; i < 50; i++ {
		Rebalance(options, "Yes", 100)
		if sum := priceSum(options); sum != 100 {
			t.Fatalf("bet %d: price sum = %d", i, sum)
		}
	}

	// Repeated demand drives the bought option as high as the other
	// options' floors allow: 98 when both rivals sit at 1.
	if options[0].Price != 98 {
		t.Errorf("Yes price = %d after sustained betting, want 98", options[0].Price)
	}
}

// randomPriceVector builds n prices in [1,99] summing to exactly 100
func randomPriceVector(rng *rand.Rand, n int) []models.Option {
	names := []string{"A", "B", "C", "D", "E"}

	prices := make([]int, n)
	remaining := 100 - n // every option starts at 1
	for i := range prices {
		prices[i] = 1
	}
	for remaining > 0 {
		i := rng.Intn(n)
		if prices[i] < 99 {
			prices[i]++
			remaining--
		}
	}

	options := make([]models.Option, n)
	for i := range options {
		options[i] = models.Option{Name: names[i], Price: prices[i]}
	}
	return options
}
