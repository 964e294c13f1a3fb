package logging

import "testing"

func TestNewProgressSampler(t *testing.T) {
	tests := []struct {
		name       string
		bucketSize float64
		wantSize   float64
	}{
		{"default bucket size for zero", 0, 10},
		{"default bucket size for negative", -1, 10},
		{"custom bucket size", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewProgressSampler(tt.bucketSize)
			if s.bucketSize != tt.wantSize {
				t.Errorf("bucketSize = %v, want %v", s.bucketSize, tt.wantSize)
			}
			if s.lastBucket != -1 {
				t.Errorf("lastBucket = %d, want -1", s.lastBucket)
			}
		})
	}
}

func TestProgressSampler_NilSampler(t *testing.T) {
	var s *ProgressSampler
	if !s.ShouldLog(1, 10) {
		t.Error("ShouldLog on nil sampler should always return true")
	}
	s.Reset()
}

func TestProgressSampler_BucketCrossings(t *testing.T) {
	s := NewProgressSampler(25)
	var logged []int
	for completed := 1; completed <= 20; completed++ {
		if s.ShouldLog(completed, 20) {
			logged = append(logged, completed)
		}
	}
	want := []int{1, 5, 10, 15, 20}
	if len(logged) != len(want) {
		t.Fatalf("logged = %v, want %v", logged, want)
	}
	for i := range want {
		if logged[i] != want[i] {
			t.Fatalf("logged = %v, want %v", logged, want)
		}
	}
}

func TestProgressSampler_Reset(t *testing.T) {
	s := NewProgressSampler(50)
	if !s.ShouldLog(1, 2) {
		t.Fatal("first progress should log")
	}
	if !s.ShouldLog(2, 2) {
		t.Fatal("final progress should log")
	}
	s.Reset()
	if !s.ShouldLog(1, 4) {
		t.Fatal("expected log after reset")
	}
}

func TestProgressSampler_ZeroTotal(t *testing.T) {
	s := NewProgressSampler(10)
	if !s.ShouldLog(0, 0) {
		t.Fatal("zero total should always log")
	}
}
