package simhash

import (
	"testing"
)

func TestFingerprint_IdenticalTexts(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	if Fingerprint(text) != Fingerprint(text) {
		t.Error("identical texts produced different fingerprints")
	}
}

func TestFingerprint_CaseAndPunctuation(t *testing.T) {
	fp1 := Fingerprint("Welcome to our store!")
	fp2 := Fingerprint("welcome to our STORE")
	if fp1 != fp2 {
		t.Errorf("case/punctuation changed fingerprint: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_DifferentTexts(t *testing.T) {
	fp1 := Fingerprint("the quick brown fox jumps over the lazy dog")
	fp2 := Fingerprint("completely unrelated content about quantum physics and mathematics")

	if dist := Distance(fp1, fp2); dist < 5 {
		t.Errorf("very different texts have too small distance: %d", dist)
	}
}

func TestFingerprint_Empty(t *testing.T) {
	for _, in := range []string{"", "   \t\n  ", "-- !! ..."} {
		if fp := Fingerprint(in); fp != 0 {
			t.Errorf("Fingerprint(%q) = %064b, want 0", in, fp)
		}
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b uint64
		want int
	}{
		{"identical", 0xFF, 0xFF, 0},
		{"all different", 0, ^uint64(0), 64},
		{"one bit", 0, 1, 1},
		{"two bits", 0, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); got != tt.want {
				t.Errorf("Distance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIndex_Add(t *testing.T) {
	x := NewIndex(0)

	if !x.Add("Free shipping on all orders") {
		t.Error("first block should be new")
	}
	if x.Add("free shipping on all orders.") {
		t.Error("same words should be a duplicate")
	}
	if !x.Add("Contact our support team today") {
		t.Error("different block should be new")
	}
	if x.Add("   ") {
		t.Error("blank block should not be recorded")
	}
	if x.Len() != 2 {
		t.Errorf("Len = %d, want 2", x.Len())
	}
}
