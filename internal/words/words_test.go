package words

import "testing"

func TestConvertFixedPhrases(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "ZERO LKR ONLY"},
		{1, "ONE LKR ONLY"},
		{19, "NINETEEN LKR ONLY"},
		{20, "TWENTY LKR ONLY"},
		{21, "TWENTY ONE LKR ONLY"},
		{100, "ONE HUNDRED LKR ONLY"},
		{105, "ONE HUNDRED AND FIVE LKR ONLY"},
		{1500, "ONE THOUSAND FIVE HUNDRED LKR ONLY"},
		{100000, "ONE LAKH LKR ONLY"},
		{10000000, "ONE CRORE LKR ONLY"},
		{7500, "SEVEN THOUSAND FIVE HUNDRED LKR ONLY"},
		{123456, "ONE LAKH TWENTY THREE THOUSAND FOUR HUNDRED AND FIFTY SIX LKR ONLY"},
		{25000000, "TWO CRORE FIFTY LAKH LKR ONLY"},
	}
	for _, c := range cases {
		if got := Convert(c.in); got != c.want {
			t.Errorf("Convert(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestConvertCents(t *testing.T) {
	if got, want := Convert(12.50), "TWELVE LKR AND FIFTY CENTS ONLY"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got, want := Convert(0.05), "ZERO LKR AND FIVE CENTS ONLY"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	// cents render only when non-zero
	if got, want := Convert(42.004), "FORTY TWO LKR ONLY"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestConvertAndPlacement(t *testing.T) {
	// "and" only before a sub-hundred remainder that follows a higher group
	if got, want := Convert(1005), "ONE THOUSAND AND FIVE LKR ONLY"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got, want := Convert(45), "FORTY FIVE LKR ONLY"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
