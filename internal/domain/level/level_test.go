package level

import "testing"

func TestCalculate(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-10, 1},
		{0, 1},
		{49, 1},
		{50, 2},
		{100, 3},
		{299, 5},
		{300, 6},
		{749, 9},
		{750, 10},
		{1749, 14},
		{1750, 15},
		{100000, 15},
	}

	for _, tt := range tests {
		if got := Calculate(tt.xp); got != tt.want {
			t.Fatalf("Calculate(%d): want=%d got=%d", tt.xp, tt.want, got)
		}
	}
}

func TestCalculateMonotonic(t *testing.T) {
	prev := Calculate(0)
	for xp := 1; xp <= 2500; xp++ {
		got := Calculate(xp)
		if got < prev {
			t.Fatalf("level decreased at xp=%d: %d -> %d", xp, prev, got)
		}
		if xp >= 1750 && got != Max {
			t.Fatalf("xp=%d: want saturation at %d got=%d", xp, Max, got)
		}
		prev = got
	}
}

func TestXPForLevelRoundTrip(t *testing.T) {
	for xp := 0; xp <= 3000; xp += 7 {
		if got := XPForLevel(Calculate(xp)); got > xp {
			t.Fatalf("XPForLevel(Calculate(%d)) = %d, exceeds xp", xp, got)
		}
	}
}

func TestXPForLevelClamps(t *testing.T) {
	if got := XPForLevel(0); got != 0 {
		t.Fatalf("level 0: want=0 got=%d", got)
	}
	if got := XPForLevel(99); got != 1750 {
		t.Fatalf("level 99: want=1750 got=%d", got)
	}
	if got := XPForNextLevel(Max); got != 1750 {
		t.Fatalf("next after max: want=1750 got=%d", got)
	}
}

func TestCalculateProgress(t *testing.T) {
	t.Run("zero xp", func(t *testing.T) {
		p := CalculateProgress(0, 1)
		if p.Percent != 0 {
			t.Fatalf("want=0 got=%d", p.Percent)
		}
		if p.Needed != 50 {
			t.Fatalf("needed: want=50 got=%d", p.Needed)
		}
	})

	t.Run("mid band", func(t *testing.T) {
		p := CalculateProgress(350, Calculate(350))
		if p.InLevel != 50 || p.Needed != 100 || p.Percent != 50 {
			t.Fatalf("want={50 100 50} got=%+v", p)
		}
	})

	t.Run("max level", func(t *testing.T) {
		p := CalculateProgress(5000, Max)
		if p.Percent != 100 {
			t.Fatalf("want=100 got=%d", p.Percent)
		}
	})

	t.Run("bounded for every pair", func(t *testing.T) {
		for lvl := 1; lvl <= Max; lvl++ {
			for xp := -100; xp <= 2500; xp += 25 {
				p := CalculateProgress(xp, lvl)
				if p.Percent < 0 || p.Percent > 100 {
					t.Fatalf("xp=%d lvl=%d: percent out of range %d", xp, lvl, p.Percent)
				}
			}
		}
	})
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		lvl  int
		want string
	}{
		{"beginner", 1, "Budget Beginner"},
		{"beginner upper", 2, "Budget Beginner"},
		{"star", 3, "Savings Star"},
		{"star upper", 5, "Savings Star"},
		{"explorer", 10, "Investment Explorer"},
		{"master", 11, "Financial Master"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.lvl); got != tt.want {
				t.Fatalf("want=%q got=%q", tt.want, got)
			}
		})
	}

	if got := Title(Calculate(100)); got != "Savings Star" {
		t.Fatalf("title at 100 xp: want=%q got=%q", "Savings Star", got)
	}
}
