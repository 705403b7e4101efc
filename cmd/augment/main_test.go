package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-augment/internal/testutil"
	"github.com/cwbudde/algo-augment/internal/wavio"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-seed", "9", "-constantq", "a.wav", "b.wav"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if !opts.seedSet || opts.seed != 9 || !opts.constantQ || opts.in != "a.wav" || opts.out != "b.wav" {
		t.Fatalf("opts %+v", opts)
	}

	opts, err = parseFlags([]string{"a.wav", "b.wav"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.seedSet || opts.logLevel != "info" {
		t.Fatalf("opts %+v", opts)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	if _, err := parseFlags([]string{"only-one.wav"}); err == nil {
		t.Fatal("expected argument count error")
	}
	if _, err := parseFlags([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("err=%v want flag.ErrHelp", err)
	}
}

func TestNewLogger(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "WARN", "error"} {
		if _, err := newLogger(&bytes.Buffer{}, lvl); err != nil {
			t.Fatalf("%s: %v", lvl, err)
		}
	}
	if _, err := newLogger(&bytes.Buffer{}, "loud"); err == nil {
		t.Fatal("expected invalid level error")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := loadConfig(options{seed: 5, seedSet: true, constantQ: true})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 5 || len(cfg.Transforms) != 3 {
		t.Fatalf("cfg %+v", cfg)
	}
	if cfg.ConstantQ == nil || cfg.ConstantQ.Height != 128 || cfg.ConstantQ.Width != 128 {
		t.Fatalf("constant_q %+v", cfg.ConstantQ)
	}
}

func TestRunWritesAugmentedFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	cfgPath := filepath.Join(dir, "pipeline.yaml")

	if err := wavio.WriteFile(in, testutil.DeterministicSine(220, 22050, 0.5, 8000), 22050); err != nil {
		t.Fatal(err)
	}
	cfg := "seed: 3\ntransforms:\n  - {type: random_crop, length: 6000}\n  - {type: mask, mask_rate: 0.5}\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run(options{configPath: cfgPath, in: in, out: out}, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	clip, err := wavio.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(clip.Samples) != 6000 || clip.SampleRate != 22050 {
		t.Fatalf("output %d samples at %d Hz", len(clip.Samples), clip.SampleRate)
	}
	zeros := 0
	for _, v := range clip.Samples {
		if v == 0 {
			zeros++
		}
	}
	if zeros < 3000 {
		t.Fatalf("mask zeroed %d samples, want >= 3000", zeros)
	}
	if stdout.Len() != 0 {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
}

func TestRunConstantQSummary(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	audio := testutil.DeterministicChirp(100, 6000, 22050, 0.5, 140000)
	if err := wavio.WriteFile(in, audio, 22050); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := run(options{constantQ: true, seed: 2, seedSet: true, in: in, out: out}, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := stdout.String()
	if !strings.HasPrefix(got, "shape: (4, 128, 128)\n") {
		t.Fatalf("summary %q", got)
	}
	if strings.Count(got, "\n") != 7 {
		t.Fatalf("want shape line, 2 header lines and 4 channel rows:\n%s", got)
	}
}

func TestRunResamplesToPipelineRate(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wav")
	out := filepath.Join(dir, "out.wav")
	cfgPath := filepath.Join(dir, "pipeline.yaml")

	if err := wavio.WriteFile(in, testutil.DeterministicSine(440, 44100, 0.5, 8820), 44100); err != nil {
		t.Fatal(err)
	}
	cfg := "sample_rate: 22050\ntransforms:\n  - {type: crop, length: 100000}\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(options{configPath: cfgPath, in: in, out: out}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	clip, err := wavio.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(clip.Samples) != 4410 || clip.SampleRate != 22050 {
		t.Fatalf("output %d samples at %d Hz", len(clip.Samples), clip.SampleRate)
	}
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := run(options{in: filepath.Join(dir, "nope.wav"), out: filepath.Join(dir, "out.wav")}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected error")
	}
}
