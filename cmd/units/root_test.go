package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"units"
	unitsmsgpack "units/msgpack"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("UNITS_TABLE", "")
	t.Setenv("UNITS_DB", "")

	cmd := newRootCommand(Default())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testTables(t *testing.T) (string, string) {
	dir := t.TempDir()
	txt := writeFile(t, dir, "length.txt", "1 km = 1000 m\n1 m = 100 cm\n")
	yml := writeFile(t, dir, "volume.yaml", "conversions:\n  - {from: liter, rate: 1000, to: ml}\n")
	return txt, yml
}

func TestEvalCommand(t *testing.T) {
	txt, yml := testTables(t)

	out, err := run(t, "--table", txt, "--table", yml, "eval", "2[km]", "+", "500[m]")
	require.NoError(t, err)
	assert.Equal(t, "2.5[km]\n", out)

	out, err = run(t, "-t", txt, "eval", "2[km]", "==", "2000[m]")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, err = run(t, "-t", txt, "-t", yml, "eval", "1[km]", "-", "1[liter]")
	assert.ErrorIs(t, err, units.ErrIncompatibleUnits)
}

func TestNoTableSource(t *testing.T) {
	_, err := run(t, "units")
	assert.ErrorIs(t, err, errNoSource)
}

func TestConvertAndPathCommands(t *testing.T) {
	txt, _ := testTables(t)

	out, err := run(t, "-t", txt, "convert", "2.5[km]", "cm")
	require.NoError(t, err)
	assert.Equal(t, "250000[cm]\n", out)

	out, err = run(t, "-t", txt, "path", "km", "cm")
	require.NoError(t, err)
	assert.Equal(t, "km -> m -> cm (x100000)\n", out)

	_, err = run(t, "-t", txt, "path", "km", "parsec")
	assert.ErrorIs(t, err, units.ErrInvalidUnit)
}

func TestUnitsAndDumpCommands(t *testing.T) {
	txt, yml := testTables(t)

	out, err := run(t, "-t", txt, "-t", yml, "units")
	require.NoError(t, err)
	assert.Equal(t, "cm\nkm\nliter\nm\nml\n", out)

	out, err = run(t, "-t", txt, "dump")
	require.NoError(t, err)
	assert.Contains(t, out, `"km"`)
	assert.Contains(t, out, "Rate: (float64) 1000")
}

func TestImportExportRevisions(t *testing.T) {
	txt, yml := testTables(t)
	db := filepath.Join(t.TempDir(), "units.db")

	_, err := run(t, "import", txt)
	assert.Error(t, err)

	out, err := run(t, "--db", db, "import", txt, yml)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.Len(t, fields, 3)
	assert.Equal(t, "3", fields[1])
	revID := fields[0]

	out, err = run(t, "--db", db, "eval", "1[liter]", "==", "1000[ml]")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = run(t, "--db", db, "revisions")
	require.NoError(t, err)
	assert.Contains(t, out, revID)
	assert.Contains(t, out, txt+","+yml)

	export := filepath.Join(t.TempDir(), "table.msgpack")
	_, err = run(t, "--db", db, "--revision", revID, "export", export)
	require.NoError(t, err)

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	rev, rules, err := unitsmsgpack.UnmarshalTable(data)
	require.NoError(t, err)
	assert.Equal(t, revID, rev)
	assert.Equal(t, []units.Rule{
		{From: "km", Rate: 1000, To: "m"},
		{From: "m", Rate: 100, To: "cm"},
		{From: "liter", Rate: 1000, To: "ml"},
	}, rules)
}

func TestReadTablesKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		files = append(files, writeFile(t, dir, name, "1 "+strings.TrimSuffix(name, ".txt")+" = 2 x\n"))
	}

	rules, err := readTables(files)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, "a", rules[0].From)
	assert.Equal(t, "b", rules[1].From)
	assert.Equal(t, "c", rules[2].From)

	_, err = readTables(append(files, filepath.Join(dir, "missing.txt")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportedTableReadsBack(t *testing.T) {
	txt, yml := testTables(t)
	dir := t.TempDir()
	export := filepath.Join(dir, "table.msgpack")

	_, err := run(t, "-t", txt, "-t", yml, "export", export)
	require.NoError(t, err)

	out, err := run(t, "-t", export, "eval", "1[liter]", "==", "1000[ml]")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = run(t, "-t", export, "eval", "2[km]", "+", "500[m]")
	require.NoError(t, err)
	assert.Equal(t, "2.5[km]\n", out)

	first, err := os.ReadFile(export)
	require.NoError(t, err)
	extra, err := unitsmsgpack.MarshalTable("extra", []units.Rule{{From: "ft", Rate: 12, To: "in"}})
	require.NoError(t, err)
	stream := writeFile(t, dir, "stream.mpk", string(append(first, extra...)))

	out, err = run(t, "-t", stream, "units")
	require.NoError(t, err)
	assert.Equal(t, "cm\nft\nin\nkm\nliter\nm\nml\n", out)

	bad := writeFile(t, dir, "bad.msgpack", string(first[:len(first)-1]))
	_, err = run(t, "-t", bad, "units")
	assert.ErrorIs(t, err, units.ErrMalformedTable)
}
