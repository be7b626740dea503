package entities

import (
	"errors"
	"math"
	"testing"

	"github.com/Tagaingne/dream-synthesizer/domain"
)

const sumTolerance = 1e-6

func TestNormalizeSumsToOne(t *testing.T) {
	cases := []EmotionScores{
		{"joy": 0.5, "fear": 0.5},
		{"joy": -2.0, "fear": 0.0, "anger": 3.5},
		{"calm": 123.0},
		{"a": -0.001, "b": -0.002, "c": -0.003},
	}

	for _, raw := range cases {
		dist, err := raw.Normalize()
		if err != nil {
			t.Fatalf("Normalize(%v) returned error: %v", raw, err)
		}
		if diff := math.Abs(dist.Sum() - 1.0); diff > sumTolerance {
			t.Errorf("Normalize(%v) sums to %f, want 1.0 within %g", raw, dist.Sum(), sumTolerance)
		}
	}
}

func TestNormalizePositivity(t *testing.T) {
	raw := EmotionScores{"joy": -5.0, "fear": 0.0, "sadness": 2.0}
	dist, err := raw.Normalize()
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	for label, v := range dist {
		if v <= 0 {
			t.Errorf("Expected strictly positive weight for %s, got %f", label, v)
		}
		if v > 1 {
			t.Errorf("Expected weight <= 1 for %s, got %f", label, v)
		}
	}
}

func TestNormalizeMonotonicity(t *testing.T) {
	raw := EmotionScores{"joy": 0.7, "fear": 0.2, "sadness": -0.4}
	dist, err := raw.Normalize()
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if dist["joy"] <= dist["fear"] {
		t.Errorf("Expected joy > fear, got joy=%f fear=%f", dist["joy"], dist["fear"])
	}
	if dist["fear"] <= dist["sadness"] {
		t.Errorf("Expected fear > sadness, got fear=%f sadness=%f", dist["fear"], dist["sadness"])
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	_, err := EmotionScores{}.Normalize()
	if err == nil {
		t.Fatal("Expected error for empty score mapping")
	}
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeSharpensDominantEmotion(t *testing.T) {
	raw := EmotionScores{
		"joy":      0.8,
		"fear":     0.1,
		"sadness":  0.05,
		"anger":    0.03,
		"surprise": 0.02,
	}

	dist, err := raw.Normalize()
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if len(dist) != 5 {
		t.Fatalf("Expected all 5 labels to remain, got %d", len(dist))
	}
	if dist["joy"] <= 0.9 {
		t.Errorf("Expected joy to dominate with weight > 0.9, got %f", dist["joy"])
	}
	if diff := math.Abs(dist.Sum() - 1.0); diff > sumTolerance {
		t.Errorf("Distribution sums to %f, want 1.0 within %g", dist.Sum(), sumTolerance)
	}
	if dist.Dominant() != "joy" {
		t.Errorf("Expected dominant label joy, got %s", dist.Dominant())
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := EmotionScores{"joy": 0.8, "fear": 0.2}
	if _, err := raw.Normalize(); err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if raw["joy"] != 0.8 || raw["fear"] != 0.2 {
		t.Errorf("Normalize mutated its input: %v", raw)
	}
}
