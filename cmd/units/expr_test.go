package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"units"
)

func testGraph() *units.ConversionGraph {
	g := units.NewConversionGraph()
	g.Load([]units.Rule{
		{From: "km", Rate: 1000, To: "m"},
		{From: "m", Rate: 100, To: "cm"},
		{From: "liter", Rate: 1000, To: "ml"},
	})
	return g
}

func TestEvaluate(t *testing.T) {
	g := testGraph()
	tests := []struct {
		lhs, op, rhs string
		want         string
	}{
		{"2[km]", "+", "500[m]", "2.5[km]"},
		{"500[m]", "+", "2[km]", "2500[m]"},
		{"1[km]", "-", "250[m]", "0.75[km]"},
		{"2[km]", "==", "2000[m]", "true"},
		{"2[km]", "!=", "2000[m]", "false"},
		{"1[m]", "<", "101[cm]", "true"},
		{"1[m]", "<=", "100[cm]", "true"},
		{"1[m]", ">", "100[cm]", "false"},
		{"1[m]", ">=", "100.00001[cm]", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.lhs+tt.op+tt.rhs, func(t *testing.T) {
			got, err := evaluate(g, tt.lhs, tt.op, tt.rhs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	g := testGraph()

	_, err := evaluate(g, "1[km]", "-", "1[liter]")
	assert.ErrorIs(t, err, units.ErrIncompatibleUnits)

	_, err = evaluate(g, "1[km]", "<", "1[ml]")
	assert.ErrorIs(t, err, units.ErrIncompatibleUnits)

	_, err = evaluate(g, "1[parsec]", "+", "1[km]")
	assert.ErrorIs(t, err, units.ErrInvalidUnit)

	_, err = evaluate(g, "1[km]", "+", "x[m]")
	assert.ErrorIs(t, err, units.ErrMalformedQuantity)

	_, err = evaluate(g, "1[km]", "*", "1[m]")
	assert.EqualError(t, err, `unknown operator "*"`)
}
