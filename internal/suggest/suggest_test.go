package suggest

import (
	"reflect"
	"testing"

	"mealtab/internal/core"
)

func txs(merchants ...string) []core.Transaction {
	out := make([]core.Transaction, len(merchants))
	for i, m := range merchants {
		out[i] = core.Transaction{Merchant: m, Amount: core.Money{Cents: 100}}
	}
	return out
}

func TestSuggest(t *testing.T) {
	history := txs("Chipotle", "Subway", "Chip Shop")

	tests := []struct {
		name    string
		history []core.Transaction
		partial string
		want    []string
	}{
		{
			name:    "case-insensitive substring in first-appearance order",
			history: history,
			partial: "chip",
			want:    []string{"Chipotle", "Chip Shop"},
		},
		{
			name:    "substring not prefix-only",
			history: history,
			partial: "way",
			want:    []string{"Subway"},
		},
		{
			name:    "empty partial hides suggestions",
			history: history,
			partial: "",
			want:    nil,
		},
		{
			name:    "whitespace partial hides suggestions",
			history: history,
			partial: "   ",
			want:    nil,
		},
		{
			name:    "no matches",
			history: history,
			partial: "pizza",
			want:    nil,
		},
		{
			name:    "duplicates collapsed to first appearance",
			history: txs("Chipotle", "Subway", "Chipotle", "Chipotle"),
			partial: "chip",
			want:    []string{"Chipotle"},
		},
		{
			name:    "empty history",
			history: nil,
			partial: "chip",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.history, tt.partial)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.partial, got, tt.want)
			}
		})
	}
}

func TestMerchantsPreservesCasing(t *testing.T) {
	history := txs("chipotle", "CHIPOTLE", "Chipotle")
	got := Merchants(history)
	want := []string{"chipotle", "CHIPOTLE", "Chipotle"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merchants() = %v, want case-sensitive distinct %v", got, want)
	}
}
