package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"maturity-quiz-service/internal/domain"
	"maturity-quiz-service/internal/scoring"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreJSON(t *testing.T) {
	out, err := runCLI(t, "score", "--answers", "3,3,1,0,2,2,0,0,3,2,1,2", "--format", "json")
	require.NoError(t, err)

	var results domain.QuizResults
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, 53, results.OverallScore)
	assert.Equal(t, domain.MaturityIntermediate, results.MaturityLevel)
	assert.Equal(t, domain.ModuleSecurity, results.PrimaryPriority)
}

func TestScoreText(t *testing.T) {
	out, err := runCLI(t, "score", "--answers", "3,3,1,0,2,2,0,0,3,2,1,2", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Overall 53% | Intermediate")
	assert.Contains(t, out, "Primary priority: security")
	assert.Contains(t, out, "Team size: 11-50")
}

func TestScoreWithBankFile(t *testing.T) {
	def := scoring.BuiltinBank()
	def.ID = "from-file"
	data, err := yaml.Marshal(def)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := runCLI(t, "score", "--bank-file", path, "--format", "json")
	require.NoError(t, err)
	var results domain.QuizResults
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, "from-file", results.BankID)
	assert.Equal(t, domain.MaturityBeginner, results.MaturityLevel)
}

func TestScoreErrors(t *testing.T) {
	_, err := runCLI(t, "score", "--answers", "1,x")
	assert.Error(t, err)

	_, err = runCLI(t, "score", "--format", "xml")
	assert.Error(t, err)

	_, err = runCLI(t, "score", "--bank", "unknown")
	assert.True(t, errors.Is(err, domain.ErrBankNotFound), "got %v", err)
}

func TestValidateBuiltin(t *testing.T) {
	out, err := runCLI(t, "validate")
	require.NoError(t, err)
	assert.Equal(t, "built-in: ok\n", out)
}

func TestValidateReportsIssues(t *testing.T) {
	def := scoring.BuiltinBank()
	def.Thresholds.Advanced = 95
	def.Questions = def.Questions[:11]
	data, err := yaml.Marshal(def)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	out, err := runCLI(t, "validate", "-f", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidBank))
	assert.Contains(t, out, "broken.yaml: ")
	assert.Contains(t, out, "issue(s)")
	assert.True(t, strings.Count(out, "  - ") >= 2, out)
}

func TestParseAnswerList(t *testing.T) {
	got, err := parseAnswerList(" 1, ,2,-1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, -1, 2, -1}, got)

	got, err = parseAnswerList("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	logger, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, strings.Repeat(".", barWidth), bar(0))
	assert.Equal(t, strings.Repeat("#", barWidth), bar(100))
	assert.Equal(t, strings.Repeat("#", 10)+strings.Repeat(".", 10), bar(50))
}
