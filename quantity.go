package units

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by every comparison between quantities.
const Epsilon = 1e-4

// Quantity is an amount expressed in a unit of a ConversionGraph.
// Binary operations return a new Quantity in the left operand's unit.
type Quantity struct {
	amount float64
	unit   string
	graph  *ConversionGraph
}

// New returns amount[unit], failing with ErrInvalidUnit when g does not know unit.
func New(g *ConversionGraph, amount float64, unit string) (Quantity, error) {
	if g == nil || !g.Exists(unit) {
		return Quantity{}, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
	return Quantity{amount: amount, unit: unit, graph: g}, nil
}

// MustNew is like New but panics on error.
func MustNew(g *ConversionGraph, amount float64, unit string) Quantity {
	q, err := New(g, amount, unit)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Amount() float64 { return q.amount }

func (q Quantity) Unit() string { return q.unit }

func (q Quantity) Graph() *ConversionGraph { return q.graph }

// convert returns other's amount expressed in q's unit.
func (q Quantity) convert(other Quantity) (float64, error) {
	if q.graph == nil {
		return 0, fmt.Errorf("%w: %q has no conversion table", ErrInvalidUnit, q.unit)
	}
	factor, ok := q.graph.FindConversionFactor(other.unit, q.unit)
	if !ok {
		return 0, fmt.Errorf("%w: %s and %s", ErrIncompatibleUnits, other.unit, q.unit)
	}
	return factor * other.amount, nil
}

func (q Quantity) Add(other Quantity) (Quantity, error) {
	converted, err := q.convert(other)
	if err != nil {
		return Quantity{}, err
	}
	return q.withAmount(q.amount + converted), nil
}

func (q Quantity) Sub(other Quantity) (Quantity, error) {
	converted, err := q.convert(other)
	if err != nil {
		return Quantity{}, err
	}
	return q.withAmount(q.amount - converted), nil
}

// Plus is unary plus.
func (q Quantity) Plus() Quantity { return q }

// Neg is unary minus.
func (q Quantity) Neg() Quantity { return q.withAmount(-q.amount) }

// AddAssign sets q to q+other. q is left untouched on error.
func (q *Quantity) AddAssign(other Quantity) error {
	r, err := q.Add(other)
	if err != nil {
		return err
	}
	*q = r
	return nil
}

// SubAssign sets q to q-other. q is left untouched on error.
func (q *Quantity) SubAssign(other Quantity) error {
	r, err := q.Sub(other)
	if err != nil {
		return err
	}
	*q = r
	return nil
}

// Compare returns -1, 0 or +1 depending on whether q is less than, equal
// to or greater than other. Differences within Epsilon count as equal.
func (q Quantity) Compare(other Quantity) (int, error) {
	d, err := q.Sub(other)
	if err != nil {
		return 0, err
	}
	switch {
	case math.Abs(d.amount) <= Epsilon:
		return 0, nil
	case d.amount < 0:
		return -1, nil
	default:
		return 1, nil
	}
}

func (q Quantity) Equal(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c == 0, err
}

func (q Quantity) NotEqual(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c != 0, err
}

func (q Quantity) Less(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c < 0, err
}

func (q Quantity) LessEqual(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c <= 0, err
}

func (q Quantity) Greater(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c > 0, err
}

func (q Quantity) GreaterEqual(other Quantity) (bool, error) {
	c, err := q.Compare(other)
	return err == nil && c >= 0, err
}

// Inc adds one of q's own unit to q and returns q (prefix ++).
func (q *Quantity) Inc() *Quantity {
	q.amount++
	return q
}

// Dec subtracts one of q's own unit from q and returns q (prefix --).
func (q *Quantity) Dec() *Quantity {
	q.amount--
	return q
}

// PostInc returns a copy of q, then increments q (postfix ++).
func (q *Quantity) PostInc() Quantity {
	prev := *q
	q.amount++
	return prev
}

// PostDec returns a copy of q, then decrements q (postfix --).
func (q *Quantity) PostDec() Quantity {
	prev := *q
	q.amount--
	return prev
}

// Scale returns q * k.
func (q Quantity) Scale(k float64) Quantity {
	return q.withAmount(q.amount * k)
}

// ScaleBy returns k * q.
func ScaleBy(k float64, q Quantity) Quantity {
	return q.Scale(k)
}

// In expresses q in unit.
func (q Quantity) In(unit string) (Quantity, error) {
	target, err := New(q.graph, 0, unit)
	if err != nil {
		return Quantity{}, err
	}
	return target.Add(q)
}

func (q Quantity) withAmount(amount float64) Quantity {
	return Quantity{amount: amount, unit: q.unit, graph: q.graph}
}
