package fees

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"testing"

	"feeScope/internal/model"
)

type fakeSnapshots struct {
	sets map[uint64]map[int64]model.PositionFees
	errs map[uint64]error
}

func (f *fakeSnapshots) FetchAll(_ context.Context, blockNumber uint64) (map[int64]model.PositionFees, error) {
	if err := f.errs[blockNumber]; err != nil {
		return nil, err
	}
	return f.sets[blockNumber], nil
}

func feesFixture(liquidity int64, scale float64, owner string) model.PositionFees {
	return model.PositionFees{
		Uncollected0:                0.1 * scale,
		Uncollected1:                0.2 * scale,
		Collected0:                  0.3 * scale,
		Collected1:                  0.4 * scale,
		Liquidity:                   big.NewInt(liquidity),
		Owner:                       owner,
		UncollectedToken1Equivalent: 0.5 * scale,
		CollectedToken1Equivalent:   0.6 * scale,
		TotalToken1Equivalent:       1.1 * scale,
	}
}

func TestComputeGrowthShrinkingLiquidity(t *testing.T) {
	fetcher := &fakeSnapshots{sets: map[uint64]map[int64]model.PositionFees{
		100: {1: feesFixture(1000, 1.0, "0xaa")},
		200: {1: feesFixture(400, 2.0, "0xaa")},
	}}

	calculator := NewCalculator(fetcher, nil)
	_, _, growth, err := calculator.ComputeGrowth(context.Background(), 100, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, ok := growth[1]
	if !ok {
		t.Fatalf("missing growth for position 1")
	}
	if g.Liquidity.Cmp(big.NewInt(-600)) != 0 {
		t.Fatalf("liquidity delta: %s", g.Liquidity)
	}

	fields := []float64{
		g.Uncollected0, g.Uncollected1, g.Collected0, g.Collected1,
		g.UncollectedToken1Equivalent, g.CollectedToken1Equivalent, g.TotalToken1Equivalent,
	}
	for i, v := range fields {
		if v != 0 {
			t.Fatalf("field %d must be zero for shrinking position, got %v", i, v)
		}
	}
	if g.Owner != "0xaa" {
		t.Fatalf("owner: %s", g.Owner)
	}
}

func TestComputeGrowthNewPosition(t *testing.T) {
	end := feesFixture(500, 3.0, "0xbb")
	end.Uncollected0 = 1.5
	end.Uncollected1 = 2.0

	fetcher := &fakeSnapshots{sets: map[uint64]map[int64]model.PositionFees{
		100: {},
		200: {42: end},
	}}

	calculator := NewCalculator(fetcher, nil)
	_, _, growth, err := calculator.ComputeGrowth(context.Background(), 100, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g, ok := growth[42]
	if !ok {
		t.Fatalf("missing growth for position 42")
	}
	if !reflect.DeepEqual(g, model.GrowthFromFees(end)) {
		t.Fatalf("new position growth must copy the end snapshot: %+v", g)
	}
}

func TestComputeGrowthElementWise(t *testing.T) {
	start := feesFixture(1000, 1.0, "0xaa")
	end := feesFixture(1500, 2.0, "0xcc")
	// One field regresses between blocks; its delta clamps to zero while the
	// others keep their positive deltas.
	end.Collected0 = 0.1

	fetcher := &fakeSnapshots{sets: map[uint64]map[int64]model.PositionFees{
		100: {1: start},
		200: {1: end},
	}}

	calculator := NewCalculator(fetcher, nil)
	_, _, growth, err := calculator.ComputeGrowth(context.Background(), 100, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	g := growth[1]
	if g.Liquidity.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("liquidity delta: %s", g.Liquidity)
	}
	if !approxEqual(g.Uncollected0, 0.1) {
		t.Fatalf("uncollected0 delta: %v", g.Uncollected0)
	}
	if !approxEqual(g.Uncollected1, 0.2) {
		t.Fatalf("uncollected1 delta: %v", g.Uncollected1)
	}
	if g.Collected0 != 0 {
		t.Fatalf("regressed field must clamp to zero, got %v", g.Collected0)
	}
	if !approxEqual(g.Collected1, 0.4) {
		t.Fatalf("collected1 delta: %v", g.Collected1)
	}
	if g.Owner != "0xcc" {
		t.Fatalf("growth must carry the end owner, got %s", g.Owner)
	}
}

func TestComputeGrowthOmitsClosedPositions(t *testing.T) {
	fetcher := &fakeSnapshots{sets: map[uint64]map[int64]model.PositionFees{
		100: {1: feesFixture(1000, 1.0, "0xaa"), 2: feesFixture(50, 1.0, "0xdd")},
		200: {1: feesFixture(1000, 1.5, "0xaa")},
	}}

	calculator := NewCalculator(fetcher, nil)
	startSet, endSet, growth, err := calculator.ComputeGrowth(context.Background(), 100, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(startSet) != 2 || len(endSet) != 1 {
		t.Fatalf("snapshot sizes: start %d end %d", len(startSet), len(endSet))
	}
	if _, ok := growth[2]; ok {
		t.Fatalf("closed position must not appear in growth set")
	}
	if len(growth) != 1 {
		t.Fatalf("expected 1 growth entry, got %d", len(growth))
	}
}

func TestComputeGrowthFetchFailure(t *testing.T) {
	fetcher := &fakeSnapshots{
		sets: map[uint64]map[int64]model.PositionFees{100: {}},
		errs: map[uint64]error{200: fmt.Errorf("%w: block 200", model.ErrDataUnavailable)},
	}

	calculator := NewCalculator(fetcher, nil)
	_, _, _, err := calculator.ComputeGrowth(context.Background(), 100, 200)
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}
