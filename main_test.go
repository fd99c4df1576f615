package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
)

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	configPath, inputPath, taxonomyPath, jsonOutput, showUnified, exportOutput = "", "", "", false, false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_Teams(t *testing.T) {
	out, err := runCLI(t, "", "teams", "--json")
	require.NoError(t, err)

	var teams []string
	require.NoError(t, json.Unmarshal([]byte(out), &teams))
	assert.Equal(t, []string{"Customer Success", "Data", "Finance", "Marketing", "Product", "Sales"}, teams)

	out, err = runCLI(t, "", "teams", "Sales")
	require.NoError(t, err)
	assert.Contains(t, out, "Qualified Lead")
}

func TestCLI_TeamsFromInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.csv")
	require.NoError(t, os.WriteFile(path, []byte("Team,Metric_Name,Definition\nOps,Uptime,Minutes available\n"), 0o600))

	out, err := runCLI(t, "", "teams", "--json", "--input", path)
	require.NoError(t, err)
	assert.JSONEq(t, `["Ops"]`, out)
}

func TestCLI_Translate(t *testing.T) {
	out, err := runCLI(t, "", "translate", "Marketing", "Engagement Rate", "Sales", "--json")
	require.NoError(t, err)

	var result models.TranslationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Available)

	_, err = runCLI(t, "", "translate", "Marketing")
	assert.Error(t, err)
}

func TestCLI_ValidateFromStdin(t *testing.T) {
	out, err := runCLI(t, "Our 30-day and 14-day windows differ.", "validate", "--json")
	require.NoError(t, err)

	var report models.ValidationReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "Detected 1 potential KPI misalignment issue.", report.Summary)

	_, err = runCLI(t, "   ", "validate")
	assert.Error(t, err)
}

func TestCLI_ExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpi_glossary.json")

	_, err := runCLI(t, "", "export", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var export models.GlossaryExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Len(t, export.Metrics, 6)
}
