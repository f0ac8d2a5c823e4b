package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{name: "euro comma decimal", text: "€129,00", want: 129.00, wantOK: true},
		{name: "dot decimal", text: "199.50", want: 199.50, wantOK: true},
		{name: "euro with thousands dot", text: "€1.299,00", want: 1299.00, wantOK: true},
		{name: "dollar with thousands comma", text: "$1,299.50", want: 1299.50, wantOK: true},
		{name: "pound", text: "£45.00", want: 45.00, wantOK: true},
		{name: "symbol after amount", text: "129,00 €", want: 129.00, wantOK: true},
		{name: "plain integer", text: "89", want: 89, wantOK: true},
		{name: "empty", text: "", want: 0, wantOK: false},
		{name: "whitespace only", text: "   ", want: 0, wantOK: false},
		{name: "non-numeric", text: "call for price", want: 0, wantOK: false},
		{name: "negative", text: "-10.00", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}
}
