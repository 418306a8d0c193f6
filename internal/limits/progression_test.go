package limits

import "testing"

func TestProgression_Monotonic(t *testing.T) {
	for i := 0; i < len(Progression)-1; i++ {
		if Progression[i] > Progression[i+1] {
			t.Errorf("Progression[%d] = %d > Progression[%d] = %d", i, Progression[i], i+1, Progression[i+1])
		}
	}
}

func TestProgression_Bounds(t *testing.T) {
	if Progression[0] != DefaultMonthlyLimit {
		t.Errorf("Progression[0] = %d, want %d", Progression[0], DefaultMonthlyLimit)
	}
	if Progression[len(Progression)-1] != SubscriptionLimit {
		t.Errorf("last step = %d, want %d", Progression[len(Progression)-1], SubscriptionLimit)
	}
}

func TestNextLimit(t *testing.T) {
	tests := []struct {
		name       string
		topUpCount int
		want       int
		wantOK     bool
	}{
		{name: "first top-up", topUpCount: 0, want: 150, wantOK: true},
		{name: "second top-up", topUpCount: 1, want: 250, wantOK: true},
		{name: "last step", topUpCount: 4, want: 500, wantOK: true},
		{name: "staircase exhausted", topUpCount: 5, want: 0, wantOK: false},
		{name: "beyond staircase", topUpCount: 42, want: 0, wantOK: false},
		{name: "negative clamps to start", topUpCount: -1, want: 150, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextLimit(tt.topUpCount)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("NextLimit(%d) = (%d, %v), want (%d, %v)", tt.topUpCount, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLimitFor(t *testing.T) {
	tests := []struct {
		topUpCount int
		want       int
	}{
		{0, 50},
		{1, 150},
		{5, 500},
		{99, 500},
		{-3, 50},
	}

	for _, tt := range tests {
		if got := LimitFor(tt.topUpCount); got != tt.want {
			t.Errorf("LimitFor(%d) = %d, want %d", tt.topUpCount, got, tt.want)
		}
	}
}
