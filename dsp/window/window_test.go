package window

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-augment/internal/testutil"
)

func TestGoldenVectors(t *testing.T) {
	hann := []float64{
		0.0, 0.1882550990706332, 0.6112604669781572, 0.9504844339512095,
		0.9504844339512095, 0.6112604669781573, 0.1882550990706333, 0.0,
	}
	hamming := []float64{
		0.08, 0.25319469114498255, 0.6423596296199047, 0.9544456792351128,
		0.9544456792351128, 0.6423596296199048, 0.25319469114498266, 0.08,
	}
	kaiser := []float64{
		0.002338830460264423, 0.1091958100155291, 0.4871186737556569, 0.9261577358777303,
		0.9261577358777303, 0.4871186737556569, 0.1091958100155291, 0.002338830460264423,
	}

	testutil.RequireSliceNearlyEqual(t, Generate(TypeHann, 8), hann, 1e-10)
	testutil.RequireSliceNearlyEqual(t, Generate(TypeHamming, 8), hamming, 1e-10)
	testutil.RequireSliceNearlyEqual(t, Generate(TypeKaiser, 8, WithBeta(8)), kaiser, 1e-10)
}

func TestPeriodicHann(t *testing.T) {
	const n = 16
	w := Generate(TypeHann, n, WithPeriodic())
	for i, v := range w {
		want := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/n)
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("index %d: %f want %f", i, v, want)
		}
	}
	if w[0] != 0 || math.Abs(w[n/2]-1) > 1e-12 {
		t.Fatalf("periodic hann endpoints: %f %f", w[0], w[n/2])
	}
}

func TestBlackmanSymmetric(t *testing.T) {
	w := Generate(TypeBlackman, 9)
	for i := range w {
		if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
			t.Fatalf("not symmetric at %d", i)
		}
	}
	if math.Abs(w[4]-1) > 1e-12 || math.Abs(w[0]) > 1e-12 {
		t.Fatalf("blackman peak %f edge %f", w[4], w[0])
	}
}

func TestGenerateEdgeCases(t *testing.T) {
	if Generate(TypeHann, 0) != nil {
		t.Fatal("n=0 should be nil")
	}
	if w := Generate(TypeHann, 1); len(w) != 1 || w[0] != 0 {
		t.Fatalf("n=1: %v", w)
	}
	testutil.RequireSliceNearlyEqual(t, Generate(TypeRectangular, 3), []float64{1, 1, 1}, 0)
	testutil.RequireSliceNearlyEqual(t, Generate(TypeKaiser, 3, WithBeta(0)), []float64{1, 1, 1}, 0)
}

func TestApply(t *testing.T) {
	buf := []float64{2, 2, 2, 2}
	Apply(TypeHann, buf, WithPeriodic())
	testutil.RequireSliceNearlyEqual(t, buf, []float64{0, 1, 2, 1}, 1e-12)
	Apply(TypeHann, nil)
}

func TestParse(t *testing.T) {
	for _, typ := range []Type{TypeRectangular, TypeHann, TypeHamming, TypeBlackman, TypeKaiser} {
		got, err := Parse(" " + typ.String() + " ")
		if err != nil || got != typ {
			t.Fatalf("Parse(%q)=%v, %v", typ.String(), got, err)
		}
	}
	if got, err := Parse("HANN"); err != nil || got != TypeHann {
		t.Fatalf("case-insensitive parse: %v %v", got, err)
	}
	if _, err := Parse("triangle"); err == nil {
		t.Fatal("expected error for unknown window")
	}
	if Type(99).String() != "window(99)" {
		t.Fatalf("String=%s", Type(99).String())
	}
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Generate(TypeKaiser, 2048)
	}
}
