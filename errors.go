package units

import "errors"

var (
	// ErrInvalidUnit is returned when a unit is not registered in the graph.
	ErrInvalidUnit = errors.New("unit does not appear in conversion table")

	// ErrIncompatibleUnits is returned when no conversion path connects two units.
	ErrIncompatibleUnits = errors.New("units do not match")

	// ErrMalformedQuantity is returned by Parse for text that is not amount[unit].
	ErrMalformedQuantity = errors.New("malformed quantity")

	// ErrMalformedTable is returned when a conversion table record cannot be parsed.
	ErrMalformedTable = errors.New("malformed conversion table")

	// ErrNoTable is returned by a Store that holds no table revision yet.
	ErrNoTable = errors.New("no conversion table stored")
)
