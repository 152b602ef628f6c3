package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lowercase", raw: "abc", want: "ABC"},
		{name: "padded", raw: " abc ", want: "ABC"},
		{name: "mixed case", raw: "Abc", want: "ABC"},
		{name: "already canonical", raw: "ABC", want: "ABC"},
		{name: "empty", raw: "", want: ""},
		{name: "only spaces", raw: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalize_EquivalentForms(t *testing.T) {
	assert.Equal(t, Normalize(" abc "), Normalize("ABC"))
	assert.Equal(t, Normalize("ABC"), Normalize("Abc"))
}
