package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"internscout/internal/config"
	"internscout/internal/discover"
	"internscout/internal/domain"
	"internscout/internal/poll"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "internscout version: unknown\n", out)
}

func TestInitWritesStarterRulesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "rules.yaml")

	out, err := execute(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote starter rules")

	rules, err := config.Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, rules.Keywords)

	out, err = execute(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestRunFailsFastWithoutCredentials(t *testing.T) {
	keyring.MockInit()
	t.Setenv("SHEET_ENDPOINT", "")
	t.Setenv("SERP_API_KEY", "")
	state := filepath.Join(t.TempDir(), "state")

	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--state-dir", state)
	require.ErrorIs(t, err, config.ErrMissingSetting)
	assert.Contains(t, err.Error(), "SHEET_ENDPOINT")
	assert.Contains(t, err.Error(), "SERP_API_KEY")

	_, statErr := os.Stat(state)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSecretSetReadsStdin(t *testing.T) {
	keyring.MockInit()
	rootCmd.SetIn(bytes.NewBufferString("https://script.example/exec\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, err := execute(t, "secret", "set", "SHEET_ENDPOINT")
	require.NoError(t, err)
	assert.Contains(t, out, "stored SHEET_ENDPOINT")

	v, err := keyring.Get("internscout", "SHEET_ENDPOINT")
	require.NoError(t, err)
	assert.Equal(t, "https://script.example/exec", v)

	_, err = execute(t, "secret", "delete", "SHEET_ENDPOINT")
	require.NoError(t, err)
}

func TestValidateWritesOnlyTheReportToStdout(t *testing.T) {
	keyring.MockInit()

	serp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic_results":[]}`))
	}))
	defer serp.Close()

	t.Setenv("SHEET_ENDPOINT", "")
	t.Setenv("SERP_API_KEY", "test-key")
	t.Setenv("SERP_API_ENDPOINT", serp.URL)

	builtin := discover.BuiltinURLs
	discover.BuiltinURLs = nil
	t.Cleanup(func() { discover.BuiltinURLs = builtin })

	dir := t.TempDir()
	rulesPath := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(rulesPath, config.DefaultRules(), 0o644))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = stdout })

	read := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(r)
		read <- b
	}()

	rootCmd.SetOut(nil)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"validate", "--config", rulesPath, "--state-dir", filepath.Join(dir, "state")})
	execErr := rootCmd.Execute()

	os.Stdout = stdout
	require.NoError(t, w.Close())
	out := <-read
	require.NoError(t, execErr)

	var report struct {
		Summary  poll.Summary     `json:"summary"`
		Postings []domain.Posting `json:"postings"`
	}
	dec := json.NewDecoder(bytes.NewReader(out))
	require.NoError(t, dec.Decode(&report), string(out))
	assert.Equal(t, io.EOF, dec.Decode(&struct{}{}), "stdout holds more than the report")
	assert.NotNil(t, report.Postings)
	assert.Zero(t, report.Summary.URLsDiscovered)
}
