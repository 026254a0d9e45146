package deck

import (
	"encoding/json"
	"testing"
)

func TestCardValue(t *testing.T) {
	tests := []struct {
		card Card
		want int
	}{
		{NewCard(Hearts, Two), 2},
		{NewCard(Spades, Nine), 9},
		{NewCard(Clubs, Ten), 10},
		{NewCard(Diamonds, Jack), 10},
		{NewCard(Hearts, Queen), 10},
		{NewCard(Spades, King), 10},
		{NewCard(Clubs, Ace), 11},
	}

	for _, tt := range tests {
		if got := tt.card.Value(); got != tt.want {
			t.Errorf("%s.Value() = %d, want %d", tt.card, got, tt.want)
		}
	}
}

func TestCardString(t *testing.T) {
	card := NewCard(Spades, Ace)
	if card.String() != "A♠" {
		t.Errorf("Expected A♠, got %s", card.String())
	}

	card = NewCard(Hearts, Ten)
	if card.String() != "T♥" {
		t.Errorf("Expected T♥, got %s", card.String())
	}
}

func TestCardJSON(t *testing.T) {
	card := NewCard(Hearts, Ace)
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"suit":"hearts","value":"ace"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, string(data))
	}

	var decoded Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != card {
		t.Errorf("Round trip mismatch: got %v, want %v", decoded, card)
	}
}

func TestCardJSONNumericRank(t *testing.T) {
	card := NewCard(Clubs, Ten)
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"suit":"clubs","value":"10"}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, string(data))
	}
}

func TestRankFromNameRejectsGarbage(t *testing.T) {
	if _, err := RankFromName("eleven"); err == nil {
		t.Error("Expected error for unknown rank")
	}
	if _, err := SuitFromName("stars"); err == nil {
		t.Error("Expected error for unknown suit")
	}
}
