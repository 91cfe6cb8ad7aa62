package recon

import "testing"

func TestRatio_Identity(t *testing.T) {
	for _, s := range []string{"a", "SALARY CREDIT", "UPI/P2P/1234"} {
		if got := Ratio(s, s); got != 1.0 {
			t.Errorf("Ratio(%q, %q): got %v, want 1.0", s, s, got)
		}
	}
}

func TestRatio_Symmetry(t *testing.T) {
	cases := [][2]string{
		{"SALARY CREDIT", "SALARY CR"},
		{"UPI PAYMENT TO STORE", "PAYMENT UPI STORE"},
		{"abc", "xyz"},
	}
	for _, c := range cases {
		if ab, ba := Ratio(c[0], c[1]), Ratio(c[1], c[0]); ab != ba {
			t.Errorf("Ratio(%q,%q)=%v != Ratio(%q,%q)=%v", c[0], c[1], ab, c[1], c[0], ba)
		}
	}
}

func TestRatio_Dissimilar(t *testing.T) {
	if got := Ratio("abc", "xyz"); got != 0.0 {
		t.Errorf("Ratio: got %v, want 0.0", got)
	}
}

func TestRatio_Partial(t *testing.T) {
	// Matching blocks "abcd" within total length 10: 2*4/10.
	if got := Ratio("abcd", "abcdef"); got != 0.8 {
		t.Errorf("Ratio: got %v, want 0.8", got)
	}
}

func TestRatio_Empty(t *testing.T) {
	if got := Ratio("", ""); got != 1.0 {
		t.Errorf("Ratio of two empty strings: got %v, want 1.0", got)
	}
	if got := Ratio("a", ""); got != 0.0 {
		t.Errorf("Ratio against empty string: got %v, want 0.0", got)
	}
}
