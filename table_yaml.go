package units

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlTable struct {
	Conversions []yamlConversion `yaml:"conversions"`
}

type yamlConversion struct {
	From string  `yaml:"from"`
	Rate float64 `yaml:"rate"`
	To   string  `yaml:"to"`
}

// ReadYAMLTable parses a table of the form
//
//	conversions:
//	  - {from: km, rate: 1000, to: m}
func ReadYAMLTable(r io.Reader) ([]Rule, error) {
	var t yamlTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}

	rules := make([]Rule, 0, len(t.Conversions))
	for i, c := range t.Conversions {
		if c.From == "" || c.To == "" {
			return nil, fmt.Errorf("%w: conversion %d is missing a unit", ErrMalformedTable, i+1)
		}
		rules = append(rules, Rule{From: c.From, Rate: c.Rate, To: c.To})
	}
	return rules, nil
}
