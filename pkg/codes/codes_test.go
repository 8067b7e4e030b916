package codes_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/traslados-api/pkg/codes"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"bod-01":          "BOD-01",
		"  BOD-01 ":       "BOD-01",
		"Bód-01":          "BOD-01",
		"cañería   pvc":   "CANERIA PVC",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, codes.Normalize(in), "entrada %q", in)
	}
}
