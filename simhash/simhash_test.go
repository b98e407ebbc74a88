package simhash

import (
	"testing"
)

func TestFingerprint_IdenticalTexts(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	fp1 := Fingerprint(text)
	fp2 := Fingerprint(text)

	if fp1 != fp2 {
		t.Errorf("identical texts produced different fingerprints: %064b vs %064b", fp1, fp2)
	}
}

func TestFingerprint_SimilarTexts(t *testing.T) {
	text1 := "the quick brown fox jumps over the lazy dog"
	text2 := "the quick brown fox leaps over the lazy dog"

	fp1 := Fingerprint(text1)
	fp2 := Fingerprint(text2)

	dist := Distance(fp1, fp2)
	if dist > 10 {
		t.Errorf("similar texts have too large distance: %d (fingerprints: %064b, %064b)", dist, fp1, fp2)
	}
}

func TestFingerprint_DifferentTexts(t *testing.T) {
	text1 := "the quick brown fox jumps over the lazy dog"
	text2 := "completely unrelated content about quantum physics and mathematics"

	fp1 := Fingerprint(text1)
	fp2 := Fingerprint(text2)

	dist := Distance(fp1, fp2)
	if dist < 5 {
		t.Errorf("very different texts have too small distance: %d", dist)
	}
}

func TestFingerprint_EmptyInput(t *testing.T) {
	fp := Fingerprint("")
	if fp != 0 {
		t.Errorf("empty input should produce fingerprint 0, got: %064b", fp)
	}
}

func TestFingerprint_SingleWord(t *testing.T) {
	fp := Fingerprint("hello")
	if fp == 0 {
		t.Error("single word should produce a non-zero fingerprint")
	}

	// Same single word should be deterministic.
	fp2 := Fingerprint("hello")
	if fp != fp2 {
		t.Errorf("same single word produced different fingerprints: %d vs %d", fp, fp2)
	}
}

func TestFingerprint_WhitespaceOnly(t *testing.T) {
	fp := Fingerprint("   \t\n  ")
	if fp != 0 {
		t.Errorf("whitespace-only input should produce fingerprint 0, got: %064b", fp)
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
		{"zero zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Distance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilar(t *testing.T) {
	fp1 := Fingerprint("the quick brown fox")
	fp2 := Fingerprint("the quick brown fox")

	if !Similar(fp1, fp2, 0) {
		t.Error("identical fingerprints should be similar at threshold 0")
	}

	fp3 := Fingerprint("a completely different text about nothing related")
	dist := Distance(fp1, fp3)

	if Similar(fp1, fp3, dist-1) {
		t.Errorf("different texts should not be similar at threshold %d (distance is %d)", dist-1, dist)
	}
	if !Similar(fp1, fp3, dist) {
		t.Errorf("should be similar at threshold equal to distance (%d)", dist)
	}
}

func TestFingerprint_CaseInsensitive(t *testing.T) {
	if Fingerprint("Learning MongoDB") != Fingerprint("learning mongodb") {
		t.Error("fingerprint should ignore case")
	}
}

func TestFingerprintPage_SameTextDifferentMarkup(t *testing.T) {
	html1 := `<html><head><title>Page 1</title></head><body><ol><li><h2>Learn MongoDB</h2><p>Official tutorial</p></li></ol></body></html>`
	html2 := `<html><head><title>Page 2</title><script>var x = 1;</script></head><body><div><h3>Learn MongoDB</h3><span>Official tutorial</span></div></body></html>`

	fp1 := FingerprintPage(html1)
	fp2 := FingerprintPage(html2)

	if fp1 != fp2 {
		t.Errorf("same visible text should produce same fingerprint, distance: %d", Distance(fp1, fp2))
	}
}

func TestFingerprintPage_DifferentResults(t *testing.T) {
	html1 := `<ol><li>Learn MongoDB in ten minutes with the official tutorial</li><li>MongoDB University free courses</li></ol>`
	html2 := `<ol><li>Stack Overflow questions tagged python asyncio</li><li>Event loops explained with examples</li></ol>`

	dist := Distance(FingerprintPage(html1), FingerprintPage(html2))
	if dist <= 3 {
		t.Errorf("different result pages should not look near-identical, got distance %d", dist)
	}
}

func TestFingerprintPage_EmptyHTML(t *testing.T) {
	if fp := FingerprintPage(""); fp != 0 {
		t.Errorf("empty HTML should produce fingerprint 0, got: %064b", fp)
	}
}

func TestFingerprintPage_MarkupOnly(t *testing.T) {
	if fp := FingerprintPage(`<div><br/><script>console.log("hidden")</script></div>`); fp != 0 {
		t.Errorf("markup without visible text should produce fingerprint 0, got: %064b", fp)
	}
}

func TestFingerprintPage_SingleWord(t *testing.T) {
	if fp := FingerprintPage("<p>hello</p>"); fp == 0 {
		t.Error("single visible word should produce non-zero fingerprint")
	}
}

func TestExtractWords(t *testing.T) {
	htmlStr := `<html><head><title>Test</title><style>p{}</style></head><body><div><p>Hello  World</p><script>x()</script></div></body></html>`
	words := extractWords(htmlStr)

	expected := []string{"hello", "world"}
	if len(words) != len(expected) {
		t.Fatalf("expected %d words, got %d: %v", len(expected), len(words), words)
	}

	for i, w := range words {
		if w != expected[i] {
			t.Errorf("word[%d] = %q, want %q", i, w, expected[i])
		}
	}
}

func TestSequence(t *testing.T) {
	var s Sequence

	a := Fingerprint("first page of results")
	b := Fingerprint("second page of results")
	if _, ok := s.Observe(a); ok {
		t.Error("first observation should not report a previous fingerprint")
	}
	if prev, ok := s.Observe(a); !ok || prev != a || !Similar(prev, a, 0) {
		t.Errorf("repeated fingerprint: got prev %x ok=%v, want %x true", prev, ok, a)
	}
	if prev, ok := s.Observe(b); !ok || prev != a {
		t.Errorf("got prev %x ok=%v, want %x true", prev, ok, a)
	}
	if _, ok := s.Observe(0); ok {
		t.Error("zero fingerprint should not report a previous fingerprint")
	}
	if _, ok := s.Observe(a); ok {
		t.Error("observation after a zero fingerprint should not report a previous fingerprint")
	}
}

func TestMakeShingles(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}

	shingles := makeShingles(tokens, 3)
	expected := []string{"a_b_c", "b_c_d"}

	if len(shingles) != len(expected) {
		t.Fatalf("expected %d shingles, got %d: %v", len(expected), len(shingles), shingles)
	}

	for i, s := range shingles {
		if s != expected[i] {
			t.Errorf("shingle[%d] = %q, want %q", i, s, expected[i])
		}
	}
}

func TestMakeShingles_TooFewTokens(t *testing.T) {
	shingles := makeShingles([]string{"a", "b"}, 3)
	if shingles != nil {
		t.Errorf("expected nil for fewer tokens than n, got: %v", shingles)
	}
}
