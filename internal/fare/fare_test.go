package fare

import "testing"

func TestBaseRate(t *testing.T) {
	cases := []struct {
		luggage string
		want    float64
	}{
		{"HEAVY", 50},
		{"heavy", 50},
		{"MEDIUM", 30},
		{"LIGHT", 20},
		{"", 20},
		{"oversize", 20}, // unknown classes charge as light
	}
	for _, c := range cases {
		if got := BaseRate(c.luggage); got != c.want {
			t.Errorf("BaseRate(%q) = %v, want %v", c.luggage, got, c.want)
		}
	}
}

func TestCalculate(t *testing.T) {
	cases := []struct {
		name    string
		weight  float64
		luggage string
		want    float64
	}{
		{"light floor", 1, "LIGHT", 20},
		{"light above floor", 10, "LIGHT", 50},
		{"medium floor", 5, "MEDIUM", 30},
		{"medium above floor", 25, "MEDIUM", 125},
		{"heavy floor", 8, "HEAVY", 50},
		{"heavy above floor", 20, "HEAVY", 100},
		{"exact floor boundary", 6, "MEDIUM", 30},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Calculate(c.weight, c.luggage); got != c.want {
				t.Errorf("Calculate(%v, %q) = %v, want %v", c.weight, c.luggage, got, c.want)
			}
		})
	}
}

// The fare must never drop below the class floor, whatever the weight.
func TestCalculateFloorHolds(t *testing.T) {
	for _, luggage := range []string{"LIGHT", "MEDIUM", "HEAVY"} {
		for w := 0.5; w <= 40; w += 0.5 {
			if got, floor := Calculate(w, luggage), BaseRate(luggage); got < floor {
				t.Fatalf("Calculate(%v, %q) = %v below floor %v", w, luggage, got, floor)
			}
		}
	}
}
