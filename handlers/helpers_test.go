package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{raw: "42", want: float64(42)},
		{raw: " 21.5 ", want: 21.5},
		{raw: "true", want: true},
		{raw: `"quoted"`, want: "quoted"},
		{raw: "on", want: "on"},
		{raw: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.raw), tt.raw)
	}
}

func TestRedirector(t *testing.T) {
	var nav redirector
	nav.Navigate("/a")
	nav.Navigate("/b")
	assert.Equal(t, "/b", nav.target)
}
