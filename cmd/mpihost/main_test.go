package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exitModule's _start calls proc_exit(code).
func exitModule(code byte) []byte {
	return []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x08, 0x02,
		0x60, 0x01, 0x7f, 0x00,
		0x60, 0x00, 0x00,
		0x02, 0x24, 0x01,
		0x16, 'w', 'a', 's', 'i', '_', 's', 'n', 'a', 'p', 's', 'h', 'o', 't', '_', 'p', 'r', 'e', 'v', 'i', 'e', 'w', '1',
		0x09, 'p', 'r', 'o', 'c', '_', 'e', 'x', 'i', 't',
		0x00, 0x00,
		0x03, 0x02, 0x01, 0x01,
		0x05, 0x03, 0x01, 0x00, 0x01,
		0x07, 0x13, 0x02,
		0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
		0x06, '_', 's', 't', 'a', 'r', 't', 0x00, 0x01,
		0x0a, 0x08, 0x01,
		0x06, 0x00, 0x41, code, 0x10, 0x00, 0x0b,
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	f, err := parseFlags([]string{
		"--callback", "http://ctl:8080/api/jobs/1/callback",
		"--dir", "/data",
		"--dir", "/scratch",
		"--timings",
		"app.wasm", "--size", "10", "-v",
	}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "http://ctl:8080/api/jobs/1/callback", f.callback)
	assert.Equal(t, []string{"/data", "/scratch"}, f.dirs)
	assert.True(t, f.timings)
	assert.Equal(t, "app.wasm", f.module)
	assert.Equal(t, []string{"--size", "10", "-v"}, f.args)
}

func TestParseFlags_MissingModule(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"--timings"}, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "Usage: mpihost")
}

func TestHostConfig_FlagOverrides(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := hostConfig(&flags{runtime: "local", cacheDir: "/tmp/cache"})
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Runtime)
	assert.Equal(t, "/tmp/cache", cfg.CacheDir)

	_, err = hostConfig(&flags{runtime: "bogus"})
	assert.Error(t, err)
}

func TestRun_ReportsToCallback(t *testing.T) {
	t.Chdir(t.TempDir())

	var (
		mu     sync.Mutex
		states []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			State string `json:"state"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		states = append(states, body.State)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "ok.wasm")
	require.NoError(t, os.WriteFile(path, exitModule(0), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--runtime", "local", "--callback", srv.URL, path}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"RUNNING", "COMPLETED"}, states)
}

func TestRun_ExitCode(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "fail.wasm")
	require.NoError(t, os.WriteFile(path, exitModule(7), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--runtime", "local", path}, &stdout, &stderr)
	assert.Equal(t, 7, code)
}

func TestRun_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run(context.Background(), nil, &stdout, &stderr))
	assert.Equal(t, 1, run(context.Background(), []string{"--runtime", "local", "missing.wasm"}, &stdout, &stderr))
}
