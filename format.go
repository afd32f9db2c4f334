package units

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders q as amount[unit], e.g. 5[km]. The output is accepted by Parse.
func (q Quantity) String() string {
	return strconv.FormatFloat(q.amount, 'g', -1, 64) + "[" + q.unit + "]"
}

// Parse reads a quantity written as "5[km]", "5 [ km ]", "5[km" or "5 km".
// The unit must be registered in g.
func Parse(g *ConversionGraph, s string) (Quantity, error) {
	s = strings.TrimSpace(s)

	var num, unit string
	if i := strings.IndexByte(s, '['); i >= 0 {
		num, unit = s[:i], s[i+1:]
		if j := strings.IndexByte(unit, ']'); j >= 0 {
			if strings.TrimSpace(unit[j+1:]) != "" {
				return Quantity{}, fmt.Errorf("%w: trailing input in %q", ErrMalformedQuantity, s)
			}
			unit = unit[:j]
		}
	} else {
		fields := strings.Fields(s)
		if len(fields) != 2 {
			return Quantity{}, fmt.Errorf("%w: %q", ErrMalformedQuantity, s)
		}
		num, unit = fields[0], strings.TrimSuffix(fields[1], "]")
	}

	num = strings.TrimSpace(num)
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return Quantity{}, fmt.Errorf("%w: missing unit in %q", ErrMalformedQuantity, s)
	}
	amount, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: bad amount %q", ErrMalformedQuantity, num)
	}
	return New(g, amount, unit)
}
