package fees

import (
	"math/big"
	"testing"
)

func TestSubIn256Plain(t *testing.T) {
	got := SubIn256(big.NewInt(10), big.NewInt(3))
	if got.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("expected 7, got %s", got)
	}
}

func TestSubIn256Wraps(t *testing.T) {
	got := SubIn256(big.NewInt(5), big.NewInt(10))
	want := new(big.Int).Sub(X256, big.NewInt(5))

	if got.Cmp(want) != 0 {
		t.Fatalf("wrap mismatch: %s != %s", got, want)
	}
	if got.Sign() < 0 {
		t.Fatalf("result must be non-negative, got %s", got)
	}
}

func TestSubIn256Zero(t *testing.T) {
	x := new(big.Int).Sub(X256, big.NewInt(1))
	if got := SubIn256(x, x); got.Sign() != 0 {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestSubIn256DoesNotMutateInputs(t *testing.T) {
	x := big.NewInt(5)
	y := big.NewInt(10)
	SubIn256(x, y)

	if x.Cmp(big.NewInt(5)) != 0 || y.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("inputs mutated: x=%s y=%s", x, y)
	}
}

func TestSubIn256LargeAccumulators(t *testing.T) {
	// A stale accumulator snapshot larger than the current value must wrap
	// the same way the on-chain counter does.
	current := new(big.Int).Lsh(big.NewInt(1), 200)
	last := new(big.Int).Sub(X256, big.NewInt(1000))

	got := SubIn256(current, last)
	want := new(big.Int).Add(current, big.NewInt(1000))

	if got.Cmp(want) != 0 {
		t.Fatalf("wrap mismatch: %s != %s", got, want)
	}
}

func TestScaleConstants(t *testing.T) {
	if X96.BitLen() != 97 {
		t.Fatalf("unexpected X96 width: %d", X96.BitLen())
	}
	if X128.BitLen() != 129 {
		t.Fatalf("unexpected X128 width: %d", X128.BitLen())
	}
	if X256.BitLen() != 257 {
		t.Fatalf("unexpected X256 width: %d", X256.BitLen())
	}

	want := new(big.Int).Div(X128, big.NewInt(100))
	if DefaultClampThreshold.Cmp(want) != 0 {
		t.Fatalf("clamp threshold mismatch: %s != %s", DefaultClampThreshold, want)
	}
}
