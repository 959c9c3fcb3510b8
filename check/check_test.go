package check

import (
	"errors"
	"testing"
)

func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Status
	}{
		{100, StatusHealthy},
		{71, StatusHealthy},
		{70, StatusWarning},
		{51, StatusWarning},
		{50, StatusCritical},
		{10, StatusCritical},
		{0, StatusCritical},
	}

	for _, tt := range tests {
		if got := StatusForScore(tt.score); got != tt.want {
			t.Errorf("StatusForScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-10, 0},
		{0, 0},
		{55.5, 55.5},
		{100, 100},
		{150, 100},
	}

	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestScore(t *testing.T) {
	out := Score(85)

	if out.Score != 85 {
		t.Errorf("Score = %v, want 85", out.Score)
	}
	if out.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", out.Status)
	}
}

func TestScore_ClampsInput(t *testing.T) {
	out := Score(120)
	if out.Score != 100 {
		t.Errorf("Score = %v, want 100", out.Score)
	}
}

func TestNormalize_Error(t *testing.T) {
	out := Normalize("db", Outcome{Score: 90}, errors.New("connection refused"))

	if out.Score != 0 {
		t.Errorf("Score = %v, want 0", out.Score)
	}
	if out.Status != StatusError {
		t.Errorf("Status = %v, want error", out.Status)
	}
	if out.Details != "connection refused" {
		t.Errorf("Details = %q, want error message", out.Details)
	}
	if out.Name != "db" {
		t.Errorf("Name = %q, want db", out.Name)
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	out := Normalize("mem", Outcome{Score: 60}, nil)

	if out.Status != StatusWarning {
		t.Errorf("Status = %v, want warning (derived from score)", out.Status)
	}
	if out.Name != "mem" {
		t.Errorf("Name = %q, want mem", out.Name)
	}
}

func TestNormalize_KeepsExplicitStatus(t *testing.T) {
	out := Normalize("mem", Outcome{Score: 60, Status: StatusHealthy}, nil)

	if out.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy (explicit wins)", out.Status)
	}
}

func TestNormalize_ClampsScore(t *testing.T) {
	out := Normalize("mem", Outcome{Score: -5}, nil)
	if out.Score != 0 {
		t.Errorf("Score = %v, want 0", out.Score)
	}
}
