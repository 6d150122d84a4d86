package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"+8801712345678", []string{"+8801712345678", "01712345678"}},
		{"01712345678", []string{"01712345678", "+8801712345678"}},
		{"  01712345678 ", []string{"01712345678", "+8801712345678"}},
		{"admin", []string{"admin"}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Candidates(tc.in), tc.in)
	}
}
