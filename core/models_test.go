package core

import (
	"testing"
)

func TestEncounter_Drugs(t *testing.T) {
	enc := Encounter{
		Id: "100",
		Orders: []Order{
			{Drug: "a"},
			{Drug: "b"},
			{Drug: "c"},
		},
	}

	got := enc.Drugs()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Drugs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Drugs()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEncounter_Examples(t *testing.T) {
	enc := Encounter{
		Id: "100",
		Orders: []Order{
			{Drug: "a", Department: "icu"},
			{Drug: "b", Department: "icu", ActiveMeds: []string{"a"}},
			{Drug: "c", Department: "ward", ActiveMeds: []string{"a", "b"}},
		},
	}

	examples := enc.Examples()
	if len(examples) != 3 {
		t.Fatalf("Examples() returned %d examples, want 3", len(examples))
	}

	tests := []struct {
		name    string
		idx     int
		target  string
		seqLen  int
		depa    string
		actives int
	}{
		{"first order has empty history", 0, "a", 0, "icu", 0},
		{"second order sees first", 1, "b", 1, "icu", 1},
		{"third order sees two", 2, "c", 2, "ward", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := examples[tt.idx]
			if ex.Encounter != "100" {
				t.Errorf("Encounter = %v, want 100", ex.Encounter)
			}
			if ex.Target != tt.target {
				t.Errorf("Target = %v, want %v", ex.Target, tt.target)
			}
			if len(ex.Sequence) != tt.seqLen {
				t.Errorf("len(Sequence) = %d, want %d", len(ex.Sequence), tt.seqLen)
			}
			if ex.Department != tt.depa {
				t.Errorf("Department = %v, want %v", ex.Department, tt.depa)
			}
			if len(ex.ActiveMeds) != tt.actives {
				t.Errorf("len(ActiveMeds) = %d, want %d", len(ex.ActiveMeds), tt.actives)
			}
		})
	}
}

func TestEncounter_ExamplesDoNotAlias(t *testing.T) {
	enc := Encounter{Id: "1", Orders: []Order{{Drug: "a"}, {Drug: "b"}, {Drug: "c"}}}
	examples := enc.Examples()

	examples[2].Sequence[0] = "mutated"
	if examples[1].Sequence[0] != "a" {
		t.Errorf("example sequences share backing storage")
	}
}

func TestHyperparameters_Remaining(t *testing.T) {
	hp := Hyperparameters{Epochs: 5, BatchSize: 32, SequenceLength: 10, EmbeddingDim: 8}

	tests := []struct {
		done int
		want int
	}{
		{0, 5},
		{3, 2},
		{5, 0},
		{7, 0},
	}

	for _, tt := range tests {
		if got := hp.Remaining(tt.done); got != tt.want {
			t.Errorf("Remaining(%d) = %d, want %d", tt.done, got, tt.want)
		}
	}
}

func TestEncounterMUS_Skip(t *testing.T) {
	enc := Encounter{Id: "7", Orders: []Order{
		{Drug: "insulin glargine", Department: "icu", ActiveMeds: []string{"heparin"}},
		{Drug: "heparin", Department: "ward"},
	}}
	bs := make([]byte, EncounterMUS.Size(enc)+1)
	n := EncounterMUS.Marshal(enc, bs)

	skipped, err := EncounterMUS.Skip(bs)
	if err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if skipped != n || n != len(bs)-1 {
		t.Errorf("Skip consumed %d bytes, Marshal wrote %d", skipped, n)
	}

	got, _, err := EncounterMUS.Unmarshal(bs[:n])
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Orders[0].Drug != "insulin glargine" || got.Orders[0].ActiveMeds[0] != "heparin" {
		t.Errorf("Unmarshal = %+v", got)
	}
}
