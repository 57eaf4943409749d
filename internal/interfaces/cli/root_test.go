package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMDF = `MOL:1:C1  1  C  CG1  0 0 0 0 0 0 0 MOL:1:C2/1
MOL:1:C2  2  C  CG1  0 0 0 0 0 0 0 MOL:1:C1/1 MOL:1:C3/1
MOL:1:C3  3  C  CG1  0 0 0 0 0 0 0 MOL:1:C2/1 MOL:1:C4/1
MOL:1:C4  4  C  CG1  0 0 0 0 0 0 0 MOL:1:C3/1
`

const testParams = `ATOMS
MASS  1 C 12.011

BONDS
C C  222.50  1.5300

ANGLES
C C C  58.35  113.60
`

func writeTestInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	mdfPath := filepath.Join(dir, "mol.mdf")
	prmPath := filepath.Join(dir, "params.prm")
	require.NoError(t, os.WriteFile(mdfPath, []byte(testMDF), 0o644))
	require.NoError(t, os.WriteFile(prmPath, []byte(testParams), 0o644))
	return mdfPath, prmPath
}

// runCommand executes the root command with args and captured output.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "moltopo", cmd.Use)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	for _, want := range []string{"check", "topology", "params", "watch"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCommand_Version(t *testing.T) {
	stdout, _, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "moltopo")
}

func TestGetCLIContext_Missing(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	_, err := GetCLIContext(cmd)
	assert.Error(t, err)
}

func TestCheckCommand_CSVToStdout(t *testing.T) {
	mdfPath, prmPath := writeTestInputs(t)

	stdout, _, err := runCommand(t, "check", mdfPath, prmPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, "parameter_type,parameters,found,line_number", lines[0])
	// 1 atom + 3 bonds + 2 angles + 1 dihedral.
	assert.Len(t, lines, 8)
	assert.Contains(t, stdout, "bond,C-C,true,5")
	assert.Contains(t, stdout, "dihedral,C-C-C-C,false,")
}

func TestCheckCommand_JSONToFile(t *testing.T) {
	mdfPath, prmPath := writeTestInputs(t)
	outPath := filepath.Join(t.TempDir(), "out.json")

	_, _, err := runCommand(t, "check", mdfPath, prmPath, "--format", "json", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"parameter_type": "bond"`)
}

func TestCheckCommand_SQLiteRequiresPath(t *testing.T) {
	mdfPath, prmPath := writeTestInputs(t)

	_, _, err := runCommand(t, "check", mdfPath, prmPath, "--format", "sqlite")
	assert.Error(t, err)
}

func TestCheckCommand_SQLiteSink(t *testing.T) {
	mdfPath, prmPath := writeTestInputs(t)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, _, err := runCommand(t, "check", mdfPath, prmPath, "--format", "sqlite", "-o", dbPath)
	require.NoError(t, err)

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestCheckCommand_MissingInput(t *testing.T) {
	_, prmPath := writeTestInputs(t)

	_, _, err := runCommand(t, "check", "does-not-exist.mdf", prmPath)
	assert.Error(t, err)
}

func TestCheckCommand_WrongArgCount(t *testing.T) {
	_, _, err := runCommand(t, "check", "only-one-arg")
	assert.Error(t, err)
}

func TestTopologyCommand_CSV(t *testing.T) {
	mdfPath, _ := writeTestInputs(t)

	stdout, _, err := runCommand(t, "topology", mdfPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, "record_type,parameters,count,atom_identifiers", lines[0])
	assert.Contains(t, stdout, "bond,C-C,3,")
	assert.Contains(t, stdout, "dihedral,C-C-C-C,1,")
}

func TestTopologyCommand_JSON(t *testing.T) {
	mdfPath, _ := writeTestInputs(t)

	stdout, _, err := runCommand(t, "topology", mdfPath, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"record_type": "angle"`)
}

func TestTopologyCommand_Separate(t *testing.T) {
	mdfPath, _ := writeTestInputs(t)
	dir := t.TempDir()
	base := filepath.Join(dir, "top.csv")

	_, _, err := runCommand(t, "topology", mdfPath, "--separate", "-o", base)
	require.NoError(t, err)

	for kind, fragment := range map[string]string{
		"atoms":     "atom,C,4,",
		"bonds":     "bond,C-C,3,",
		"angles":    "angle,C-C-C,2,",
		"dihedrals": "dihedral,C-C-C-C,1,",
	} {
		data, err := os.ReadFile(filepath.Join(dir, "top_"+kind+".csv"))
		require.NoError(t, err, kind)
		assert.Contains(t, string(data), fragment, kind)
	}
}

func TestTopologyCommand_SeparateRequiresOutput(t *testing.T) {
	mdfPath, _ := writeTestInputs(t)

	_, _, err := runCommand(t, "topology", mdfPath, "--separate")
	assert.Error(t, err)
}

func TestTopologyCommand_UnsupportedFormat(t *testing.T) {
	mdfPath, _ := writeTestInputs(t)

	_, _, err := runCommand(t, "topology", mdfPath, "--format", "xml")
	assert.Error(t, err)
}

func TestParamsCommand_Table(t *testing.T) {
	_, prmPath := writeTestInputs(t)

	stdout, _, err := runCommand(t, "params", prmPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "bond")
	assert.Contains(t, stdout, "1")
}

func TestParamsCommand_JSON(t *testing.T) {
	_, prmPath := writeTestInputs(t)

	stdout, _, err := runCommand(t, "params", prmPath, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"category": "angle"`)
	assert.Contains(t, stdout, `"records": 1`)
}

func TestCheckCommand_ConfigFile(t *testing.T) {
	mdfPath, prmPath := writeTestInputs(t)

	cfgPath := filepath.Join(t.TempDir(), "moltopo.yaml")
	cfg := "output:\n  format: json\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	stdout, _, err := runCommand(t, "--config", cfgPath, "check", mdfPath, prmPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(stdout), "["), "expected JSON output, got: %s", stdout)
}

func TestCheckCommand_VerboseWritesToStderr(t *testing.T) {
	mdfPath, prmPath := writeTestInputs(t)

	stdout, stderr, err := runCommand(t, "check", mdfPath, prmPath, "--verbose", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Starting parameter check")
	assert.Contains(t, stdout, "parameter_type")
}
