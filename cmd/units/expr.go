package main

import (
	"fmt"
	"strconv"

	"units"
)

// evaluate applies a binary operator to two quantities written in text form.
func evaluate(g *units.ConversionGraph, lhs, op, rhs string) (string, error) {
	a, err := units.Parse(g, lhs)
	if err != nil {
		return "", err
	}
	b, err := units.Parse(g, rhs)
	if err != nil {
		return "", err
	}

	var cmp func(units.Quantity) (bool, error)
	switch op {
	case "+":
		r, err := a.Add(b)
		if err != nil {
			return "", err
		}
		return r.String(), nil
	case "-":
		r, err := a.Sub(b)
		if err != nil {
			return "", err
		}
		return r.String(), nil
	case "==":
		cmp = a.Equal
	case "!=":
		cmp = a.NotEqual
	case "<":
		cmp = a.Less
	case "<=":
		cmp = a.LessEqual
	case ">":
		cmp = a.Greater
	case ">=":
		cmp = a.GreaterEqual
	default:
		return "", fmt.Errorf("unknown operator %q", op)
	}

	ok, err := cmp(b)
	if err != nil {
		return "", err
	}
	return strconv.FormatBool(ok), nil
}
