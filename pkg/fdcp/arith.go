package fdcp

import "math"

// arith.go: saturating 64-bit arithmetic used throughout expression and
// constraint propagation. Named after the OR-Tools originals (CapAdd,
// CapSub, CapProd) in ortools/constraint_solver/expressions.cc: an
// overflowing result clamps to math.MinInt64/math.MaxInt64 and is treated
// as "no information" rather than a runtime failure (spec.md §4.D, §7).
//
// A parallel Safe* family returns (value, ok) so that a propagator that
// must distinguish a genuine bound from an overflowed one (spec.md §9's
// "safe vs unsafe variants") can do so explicitly, without silently
// widening to 128-bit arithmetic.

const (
	// MaxInt64 and MinInt64 are the saturation ceilings/floors, and also
	// double as the "unbounded" sentinels for domain bounds.
	MaxInt64 = math.MaxInt64
	MinInt64 = math.MinInt64
)

// CapAdd returns a+b, saturating to MinInt64/MaxInt64 on overflow.
func CapAdd(a, b int64) int64 {
	if b > 0 && a > MaxInt64-b {
		return MaxInt64
	}
	if b < 0 && a < MinInt64-b {
		return MinInt64
	}
	return a + b
}

// CapSub returns a-b, saturating to MinInt64/MaxInt64 on overflow.
func CapSub(a, b int64) int64 {
	if b < 0 && a > MaxInt64+b {
		return MaxInt64
	}
	if b > 0 && a < MinInt64+b {
		return MinInt64
	}
	return a - b
}

// CapOpp returns -a, saturating MinInt64 to MaxInt64 (the one case where
// plain negation of MinInt64 would overflow).
func CapOpp(a int64) int64 {
	if a == MinInt64 {
		return MaxInt64
	}
	return -a
}

// CapProd returns a*b, saturating to MinInt64/MaxInt64 on overflow.
func CapProd(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a == MinInt64 && b == -1 {
		return MaxInt64
	}
	result := a * b
	if result/b != a {
		if (a > 0) == (b > 0) {
			return MaxInt64
		}
		return MinInt64
	}
	return result
}

// SafeAdd returns (a+b, true), or (undefined, false) if the addition would
// overflow. No propagator in this package calls SafeAdd or SafeProd; they
// all use the saturating Cap* family.
func SafeAdd(a, b int64) (int64, bool) {
	if b > 0 && a > MaxInt64-b {
		return 0, false
	}
	if b < 0 && a < MinInt64-b {
		return 0, false
	}
	return a + b, true
}

// SafeProd returns (a*b, true), or (undefined, false) on overflow.
func SafeProd(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == MinInt64 && b == -1 {
		return 0, false
	}
	result := a * b
	if result/b != a {
		return 0, false
	}
	return result, true
}

// maxI64 and minI64 are small helpers kept local to avoid importing a
// generic constraints package for two call sites.
func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
