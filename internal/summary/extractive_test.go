package summary

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract_EmptyText(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 5, 100} {
		if got := Extract("", n); got != "" {
			t.Errorf("Extract(%q, %d) = %q, want empty", "", n, got)
		}
	}
}

func TestExtract_NonPositiveBudget(t *testing.T) {
	text := "First sentence. Second sentence."
	if got := Extract(text, 0); got != "" {
		t.Errorf("expected empty summary for budget 0, got %q", got)
	}
	if got := Extract(text, -3); got != "" {
		t.Errorf("expected empty summary for negative budget, got %q", got)
	}
}

func TestExtract_WhitespaceOnly(t *testing.T) {
	if got := Extract("   \n\t  ", 5); got != "" {
		t.Errorf("expected empty summary for whitespace-only text, got %q", got)
	}
}

func TestExtract_BudgetCoversAllSentences(t *testing.T) {
	text := "The cat sat. The dog ran! Did everyone see that? Nobody moved."
	want := "The cat sat. The dog ran! Did everyone see that? Nobody moved."

	for _, n := range []int{4, 5, 100} {
		if got := Extract(text, n); got != want {
			t.Errorf("Extract(budget=%d) = %q, want all sentences in order %q", n, got, want)
		}
	}
}

func TestExtract_NoTerminatorIsOneSentence(t *testing.T) {
	text := "a stream of words without any terminator"
	if got := Extract(text, 3); got != text {
		t.Errorf("expected whole text back as single sentence, got %q", got)
	}
}

func TestExtract_CollapsesWhitespace(t *testing.T) {
	text := "The   cat\n\nsat on  the mat.   The dog\tran."
	want := "The cat sat on the mat. The dog ran."
	if got := Extract(text, 5); got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtract_SelectedSentencesKeepDocumentOrder(t *testing.T) {
	// The last sentence scores highest; it must still appear after the
	// earlier selected sentence in the output.
	text := "The cat sat on the mat. The dog ran in the park. Cats and dogs are great pets. The weather was nice today. Everyone enjoyed the sunny afternoon."

	got := Extract(text, 2)
	want := "Cats and dogs are great pets. Everyone enjoyed the sunny afternoon."
	if got != want {
		t.Errorf("Extract = %q, want %q", got, want)
	}
}

func TestExtract_StopwordsDoNotScore(t *testing.T) {
	// Middle sentence is all stopwords; it scores 0 and loses to both
	// content-bearing sentences.
	text := "Quantum computing lecture covered qubits. It is and was for this. Quantum qubits excited the students."

	got := Extract(text, 2)
	if strings.Contains(got, "It is and was for this.") {
		t.Errorf("stopword-only sentence was selected: %q", got)
	}
	for _, want := range []string{"Quantum computing lecture covered qubits.", "Quantum qubits excited the students."} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in summary %q", want, got)
		}
	}
}

func TestExtract_TieBreakPrefersEarlierSentence(t *testing.T) {
	// Identical sentences score identically; the stable sort must keep the
	// first one when the budget only allows one.
	text := "Alpha beta gamma. Alpha beta gamma."
	got := Extract(text, 1)
	if got != "Alpha beta gamma." {
		t.Errorf("Extract = %q, want first of the tied sentences", got)
	}
}

func TestExtract_CaseFoldingNoStemming(t *testing.T) {
	// "Cat" and "cat" fold together; "cat" and "cats" do not.
	text := "Cat cat cat likes food. Cats enjoy games."
	freq := make(map[string]int)
	for _, tok := range tokenize(text) {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		freq[tok]++
	}
	if freq["cat"] != 3 {
		t.Errorf("expected cat:3, got %d", freq["cat"])
	}
	if freq["cats"] != 1 {
		t.Errorf("expected cats:1, got %d", freq["cats"])
	}
}

func TestExtract_ShortSentenceDivisorFloor(t *testing.T) {
	// "Go rocks." has 2 tokens but is divided by 5, so it can't beat a dense
	// 5-token sentence with the same token frequencies.
	text := "Go rocks. Go go go rocks rocks."
	got := Extract(text, 1)
	if got != "Go go go rocks rocks." {
		t.Errorf("Extract = %q, want the denser sentence", got)
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"One. Two! Three?", []string{"One.", " Two!", " Three?"}},
		{"No terminator here", []string{"No terminator here"}},
		{"Trailing. tail", []string{"Trailing.", " tail"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := splitSentences(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitSentences(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Don't panic - it's 42!")
	want := []string{"don't", "panic", "it's", "42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize = %v, want %v", got, want)
	}
}
