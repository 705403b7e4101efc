package mel

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-augment/dsp/window"
	"github.com/cwbudde/algo-augment/internal/testutil"
	algofft "github.com/cwbudde/algo-fft"
	"gonum.org/v1/gonum/mat"
)

func TestHzMelRoundTrip(t *testing.T) {
	for _, hz := range []float64{0, 50, 200, 999, 1000, 1500, 4000, 11025} {
		got := MelToHz(HzToMel(hz))
		if math.Abs(got-hz) > 1e-9*math.Max(1, hz) {
			t.Fatalf("round trip %f -> %f", hz, got)
		}
	}
}

func TestHzToMelKnownValues(t *testing.T) {
	tests := []struct {
		hz, mel float64
	}{
		{0, 0},
		{200, 3},
		{1000, 15},
	}
	for _, tt := range tests {
		if got := HzToMel(tt.hz); math.Abs(got-tt.mel) > 1e-12 {
			t.Fatalf("HzToMel(%f)=%f want %f", tt.hz, got, tt.mel)
		}
	}
}

func TestFrequenciesEndpointsAndMonotonic(t *testing.T) {
	f := Frequencies(10, 0, 11025)
	if f[0] != 0 || math.Abs(f[9]-11025) > 1e-6 {
		t.Fatalf("endpoints: %f %f", f[0], f[9])
	}
	for i := 1; i < len(f); i++ {
		if f[i] <= f[i-1] {
			t.Fatalf("not increasing at %d", i)
		}
	}
	if len(Frequencies(0, 0, 1)) != 0 {
		t.Fatal("n=0 should be empty")
	}
}

func TestFilterBankShapeAndArea(t *testing.T) {
	const (
		mels = 40
		fft  = 2048
		sr   = 22050.0
	)
	bank, err := FilterBank(mels, fft, sr, 0, sr/2)
	if err != nil {
		t.Fatalf("FilterBank: %v", err)
	}
	r, c := bank.Dims()
	if r != mels || c != fft/2+1 {
		t.Fatalf("dims %dx%d", r, c)
	}
	if mat.Min(bank) < 0 {
		t.Fatal("negative weight")
	}
	for m := 0; m < mels; m++ {
		if mat.Sum(bank.RowView(m)) == 0 {
			t.Fatalf("band %d empty", m)
		}
	}
}

func TestFilterBankValidation(t *testing.T) {
	tests := []struct {
		name           string
		mels, fft      int
		sr, fMin, fMax float64
	}{
		{"zero mels", 0, 2048, 22050, 0, 11025},
		{"tiny fft", 10, 1, 22050, 0, 11025},
		{"bad rate", 10, 2048, 0, 0, 11025},
		{"above nyquist", 10, 2048, 22050, 0, 12000},
		{"inverted", 10, 2048, 22050, 5000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FilterBank(tt.mels, tt.fft, tt.sr, tt.fMin, tt.fMax); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestReflectAt(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	// Reflected extension: ... 3 2 | 1 2 3 4 | 3 2 1 2 ...
	tests := []struct {
		idx  int
		want float64
	}{
		{-3, 4}, {-2, 3}, {-1, 2}, {0, 1}, {3, 4}, {4, 3}, {5, 2}, {6, 1}, {7, 2},
	}
	for _, tt := range tests {
		if got := reflectAt(x, tt.idx); got != tt.want {
			t.Fatalf("reflectAt(%d)=%f want %f", tt.idx, got, tt.want)
		}
	}
	if reflectAt([]float64{7}, -5) != 7 {
		t.Fatal("single sample reflect")
	}
}

func TestSpectrogramShape(t *testing.T) {
	sample := testutil.DeterministicSine(440, 22050, 0.5, 10000)
	spec, err := Spectrogram(sample, WithMels(64))
	if err != nil {
		t.Fatalf("Spectrogram: %v", err)
	}
	r, c := spec.Dims()
	if r != 64 || c != 1+10000/1024 {
		t.Fatalf("dims %dx%d", r, c)
	}
	if mat.Min(spec) < 0 {
		t.Fatal("negative power")
	}
}

func TestSpectrogramPeakBand(t *testing.T) {
	const sr = 22050.0
	e, err := NewExtractor(WithSampleRate(sr), WithMels(128))
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	sample := testutil.DeterministicSine(1000, sr, 0.8, 8192)
	spec, err := e.Extract(sample)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	col := mat.Col(nil, 4, spec)
	peak := 0
	for i, v := range col {
		if v > col[peak] {
			peak = i
		}
	}
	centres := Frequencies(e.NumMels()+2, 0, sr/2)[1 : e.NumMels()+1]
	if math.Abs(centres[peak]-1000) > 120 {
		t.Fatalf("peak band centred at %f Hz, want near 1000", centres[peak])
	}
}

func TestSpectrogramWindowLeakage(t *testing.T) {
	sample := testutil.DeterministicSine(1000, 22050, 0.8, 8192)
	hann, err := Spectrogram(sample, WithMels(64))
	if err != nil {
		t.Fatal(err)
	}
	rect, err := Spectrogram(sample, WithMels(64), WithWindow(window.TypeRectangular))
	if err != nil {
		t.Fatal(err)
	}
	// Far from the tone, a rectangular window leaks far more energy.
	if rect.At(60, 4) <= hann.At(60, 4) {
		t.Fatalf("rectangular %g <= hann %g in high band", rect.At(60, 4), hann.At(60, 4))
	}
}

func TestExtractReportsFFTError(t *testing.T) {
	e, err := NewExtractor(WithFFTSize(256), WithHopLength(128), WithMels(16))
	if err != nil {
		t.Fatal(err)
	}
	e.spec = e.spec[:len(e.spec)-1]
	if _, err := e.Extract(testutil.Ones(1024)); !errors.Is(err, algofft.ErrLengthMismatch) {
		t.Fatalf("err=%v want algofft.ErrLengthMismatch", err)
	}
}

func TestSpectrogramEmpty(t *testing.T) {
	if _, err := Spectrogram(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestExtractorAccessors(t *testing.T) {
	e, err := NewExtractor(WithHopLength(512), WithFFTSize(1024), WithMels(32))
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	if e.HopLength() != 512 || e.FFTSize() != 1024 || e.NumMels() != 32 {
		t.Fatalf("accessors: %d %d %d", e.HopLength(), e.FFTSize(), e.NumMels())
	}
	if e.Frames(132096) != 259 {
		t.Fatalf("frames=%d", e.Frames(132096))
	}
}

func TestPowerToDB(t *testing.T) {
	power := mat.NewDense(2, 2, []float64{1, 0.1, 0, 1e-12})
	db, err := PowerToDB(power, DefaultAmin, DefaultTopDB)
	if err != nil {
		t.Fatalf("PowerToDB: %v", err)
	}
	want := []float64{0, -10, -80, -80}
	testutil.RequireSliceNearlyEqual(t, db.RawMatrix().Data, want, 1e-9)

	if power.At(1, 0) != 0 {
		t.Fatal("input mutated")
	}
}

func TestPowerToDBNoClamp(t *testing.T) {
	power := mat.NewDense(1, 2, []float64{1, 1e-10})
	db, err := PowerToDB(power, DefaultAmin, 0)
	if err != nil {
		t.Fatalf("PowerToDB: %v", err)
	}
	if math.Abs(db.At(0, 1)+100) > 1e-9 {
		t.Fatalf("got %f want -100", db.At(0, 1))
	}
}

func TestPowerToDBValidation(t *testing.T) {
	power := mat.NewDense(1, 1, []float64{1})
	if _, err := PowerToDB(power, 0, 80); err == nil {
		t.Fatal("expected amin error")
	}
	if _, err := PowerToDB(power, 1e-10, -1); err == nil {
		t.Fatal("expected topDB error")
	}
}

func BenchmarkExtract(b *testing.B) {
	e, err := NewExtractor(WithMels(512))
	if err != nil {
		b.Fatal(err)
	}
	sample := testutil.DeterministicNoise(1, 0.5, 22050*3)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Extract(sample); err != nil {
			b.Fatal(err)
		}
	}
}
