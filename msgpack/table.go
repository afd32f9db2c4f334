package unitsmsgpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"units"
)

type UnitConversion struct {
	FromUnit string  `msgpack:"from_unit,omitempty"`
	ToUnit   string  `msgpack:"to_unit,omitempty"`
	Factor   float64 `msgpack:"factor,omitempty"`
}

// Table is the wire form of a conversion table. Conversions keep their
// order, which decides the paths a graph built from them finds first.
type Table struct {
	Revision    string           `msgpack:"revision,omitempty"`
	DatetimeMs  int64            `msgpack:"date,omitempty"`
	Conversions []UnitConversion `msgpack:"conversions,omitempty"`
}

func NewTable(revision string, rules []units.Rule) Table {
	convs := make([]UnitConversion, 0, len(rules))
	for _, r := range rules {
		convs = append(convs, UnitConversion{FromUnit: r.From, ToUnit: r.To, Factor: r.Rate})
	}
	return Table{
		Revision:    revision,
		DatetimeMs:  time.Now().UnixMilli(),
		Conversions: convs,
	}
}

func (t *Table) Rules() []units.Rule {
	rules := make([]units.Rule, 0, len(t.Conversions))
	for _, c := range t.Conversions {
		rules = append(rules, units.Rule{From: c.FromUnit, Rate: c.Factor, To: c.ToUnit})
	}
	return rules
}

func MarshalTable(revision string, rules []units.Rule) ([]byte, error) {
	t := NewTable(revision, rules)
	return msgpack.Marshal(&t)
}

func UnmarshalTable(data []byte) (string, []units.Rule, error) {
	var t Table
	if err := msgpack.Unmarshal(data, &t); err != nil {
		return "", nil, err
	}
	return t.Revision, t.Rules(), nil
}

// TableBuffer decodes a stream of concatenated tables that may arrive in
// arbitrary chunks.
type TableBuffer struct {
	buf []byte
}

// Feed appends data and returns every table that is now complete. Bytes of
// a trailing partial table are kept for the next call. On a decode error the
// buffered bytes are dropped so the next call starts a fresh stream.
func (tb *TableBuffer) Feed(data []byte) ([]*Table, error) {
	tb.buf = append(tb.buf, data...)

	var results []*Table
	for len(tb.buf) > 0 {
		r := bytes.NewReader(tb.buf)
		dec := msgpack.NewDecoder(r)
		t := new(Table)
		if err := dec.Decode(t); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				// not enough data yet
				break
			}
			tb.buf = nil
			return results, err
		}
		tb.buf = tb.buf[len(tb.buf)-r.Len():]
		results = append(results, t)
	}
	return results, nil
}

// Pending reports how many undecoded bytes are buffered.
func (tb *TableBuffer) Pending() int {
	return len(tb.buf)
}

// ReadTables decodes every table in a stream of concatenated msgpack tables
// and returns their rules in stream order.
func ReadTables(r io.Reader) ([]units.Rule, error) {
	var (
		tb    TableBuffer
		rules []units.Rule
		chunk = make([]byte, 4096)
	)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			tables, ferr := tb.Feed(chunk[:n])
			if ferr != nil {
				return nil, fmt.Errorf("%w: %v", units.ErrMalformedTable, ferr)
			}
			for _, t := range tables {
				rules = append(rules, t.Rules()...)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if tb.Pending() > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", units.ErrMalformedTable, tb.Pending())
	}
	return rules, nil
}

// LoadTableFile reads a msgpack table file written by MarshalTable.
func LoadTableFile(path string) ([]units.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rules, err := ReadTables(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}
