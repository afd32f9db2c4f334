package units

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// ReadTable parses a text conversion table made of records
//
//	1 km = 1000 m
//
// separated by any whitespace. Text after '#' up to the end of a line is ignored.
// Every record must start with the count 1.
func ReadTable(r io.Reader) ([]Rule, error) {
	var tokens []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	var rules []Rule
	for n := 0; len(tokens) > 0; n++ {
		if len(tokens) < 5 {
			return nil, fmt.Errorf("%w: record %d is truncated", ErrMalformedTable, n+1)
		}
		rule, err := parseRecord(tokens[:5])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedTable, n+1, err)
		}
		rules = append(rules, rule)
		tokens = tokens[5:]
	}
	return rules, nil
}

func parseRecord(fields []string) (Rule, error) {
	count, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Rule{}, fmt.Errorf("bad count %q", fields[0])
	}
	if count != 1 {
		return Rule{}, fmt.Errorf("count must be 1, got %q", fields[0])
	}
	if fields[2] != "=" {
		return Rule{}, fmt.Errorf("expected '=' after %q, got %q", fields[1], fields[2])
	}
	rate, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return Rule{}, fmt.Errorf("bad rate %q", fields[3])
	}
	return Rule{From: fields[1], Rate: rate, To: fields[4]}, nil
}

// LoadTableFile reads a conversion table from path. Files ending in .yaml or
// .yml are read as YAML, anything else as a text table.
func LoadTableFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rules []Rule
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		rules, err = ReadYAMLTable(f)
	default:
		rules, err = ReadTable(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	glog.V(2).Infof("loaded %d conversions from %s", len(rules), path)
	return rules, nil
}
