package stretch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-augment/internal/testutil"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		opts       []Option
		wantErr    bool
	}{
		{name: "valid 22050", sampleRate: 22050},
		{name: "valid 48000", sampleRate: 48000},
		{name: "custom windows", sampleRate: 44100, opts: []Option{WithSequence(60), WithOverlap(12), WithSearch(10)}},
		{name: "invalid zero", sampleRate: 0, wantErr: true},
		{name: "invalid NaN", sampleRate: math.NaN(), wantErr: true},
		{name: "invalid +Inf", sampleRate: math.Inf(1), wantErr: true},
		{name: "sequence too short", sampleRate: 22050, opts: []Option{WithSequence(5)}, wantErr: true},
		{name: "overlap too long", sampleRate: 22050, opts: []Option{WithOverlap(90)}, wantErr: true},
		{name: "overlap exceeds sequence", sampleRate: 22050, opts: []Option{WithSequence(20), WithOverlap(40)}, wantErr: true},
		{name: "search NaN", sampleRate: 22050, opts: []Option{WithSearch(math.NaN())}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.sampleRate, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && s == nil {
				t.Fatal("New() returned nil without error")
			}
		})
	}
}

func TestProcessOutputLength(t *testing.T) {
	s, err := New(22050)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	in := testutil.DeterministicSine(440, 22050, 0.5, 22050)

	for _, rate := range []float64{0.5, 0.7, 0.9, 1, 1.1, 1.3, 2} {
		out, err := s.Process(in, rate)
		if err != nil {
			t.Fatalf("rate %v: Process() error = %v", rate, err)
		}
		want := int(math.Round(float64(len(in)) / rate))
		if len(out) != want {
			t.Fatalf("rate %v: len = %d, want %d", rate, len(out), want)
		}
		testutil.RequireFinite(t, out)
	}
}

func TestProcessIdentityCopies(t *testing.T) {
	in := testutil.DeterministicNoise(3, 1, 512)
	out, err := Stretch(in, 1)
	if err != nil {
		t.Fatalf("Stretch() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
	out[0] = 42
	if in[0] == 42 {
		t.Fatal("identity stretch aliases its input")
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	in := testutil.DeterministicNoise(5, 1, 4096)
	orig := append([]float64(nil), in...)
	if _, err := Stretch(in, 1.25); err != nil {
		t.Fatalf("Stretch() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, in, orig, 0)
}

func TestProcessPreservesLevel(t *testing.T) {
	in := testutil.DeterministicSine(220, 22050, 0.5, 44100)
	for _, rate := range []float64{0.8, 1.25} {
		out, err := Stretch(in, rate)
		if err != nil {
			t.Fatalf("Stretch() error = %v", err)
		}
		inRMS := testutil.RMS(in)
		outRMS := testutil.RMS(out)
		if math.Abs(outRMS-inRMS)/inRMS > 0.25 {
			t.Fatalf("rate %v: rms %v deviates from %v", rate, outRMS, inRMS)
		}
	}
}

func TestProcessRejectsBadRate(t *testing.T) {
	s, err := New(22050)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, rate := range []float64{0, -1, 0.01, 50, math.NaN(), math.Inf(1)} {
		if _, err := s.Process([]float64{1, 2, 3}, rate); err == nil {
			t.Fatalf("Process(rate=%v) expected error", rate)
		}
	}
}

func TestProcessEmpty(t *testing.T) {
	out, err := Stretch(nil, 1.5)
	if err != nil {
		t.Fatalf("Stretch() error = %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("len = %d, want 0", len(out))
	}
}

func TestOutputLen(t *testing.T) {
	if got := OutputLen(1000, 1.3); got != 769 {
		t.Fatalf("OutputLen(1000, 1.3) = %d, want 769", got)
	}
	if got := OutputLen(1, 10); got != 1 {
		t.Fatalf("OutputLen(1, 10) = %d, want 1", got)
	}
	if got := OutputLen(0, 1); got != 0 {
		t.Fatalf("OutputLen(0, 1) = %d, want 0", got)
	}
}

func BenchmarkStretch(b *testing.B) {
	s, err := New(22050)
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	in := testutil.DeterministicSine(440, 22050, 0.5, 22050)
	b.ResetTimer()
	for range b.N {
		if _, err := s.Process(in, 1.1); err != nil {
			b.Fatal(err)
		}
	}
}
