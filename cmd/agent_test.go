package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerwwx/mem-cleaner/internal/config"
	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/notification"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
)

// fakeProcRoot lays out a proc tree whose only entry is the test process
// itself, so liveness checks pass.
func fakeProcRoot(t *testing.T, cmdline string, score int) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, strconv.Itoa(os.Getpid()))
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cmdline"), []byte(cmdline+"\x00"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "oom_score_adj"), []byte(strconv.Itoa(score)+"\n"), 0644))
	return root
}

func testConfig(t *testing.T, procRoot, extra string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`monitoring:
  proc_root: %s
  owner_floor: 0
power:
  idle_check: false
%s`, procRoot, extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	return cfg
}

func TestAgentDryRunPass(t *testing.T) {
	cfg := testConfig(t, fakeProcRoot(t, "com.test:worker", 900), "")
	a := newAgent(cfg, safety.ModeDryRun)
	defer a.Close()

	a.mon.Update()
	records := a.mon.Records()
	require.Len(t, records, 1)
	assert.Equal(t, monitor.StateReclaimable, records[0].State)

	killed := a.mon.Suppress()
	assert.Equal(t, []string{"com.test:worker"}, monitor.Names(killed))
	assert.Len(t, a.mon.Records(), 1, "dry run keeps the record")
}

func TestAgentWhitelistedWorker(t *testing.T) {
	cfg := testConfig(t, fakeProcRoot(t, "com.test:worker", 900), "whitelist: com.test:*\n")
	a := newAgent(cfg, safety.ModeDryRun)
	defer a.Close()

	a.mon.Update()
	records := a.mon.Records()
	require.Len(t, records, 1)
	assert.Equal(t, monitor.StateInert, records[0].State)
	assert.Empty(t, a.mon.Suppress())
}

func TestAgentWhitelistSwap(t *testing.T) {
	cfg := testConfig(t, fakeProcRoot(t, "com.test:worker", 900), "")
	a := newAgent(cfg, safety.ModeDryRun)
	defer a.Close()

	a.store.Swap(safety.NewWhitelist(safety.ParseRules("com.test:worker")))
	a.mon.Update()
	assert.Equal(t, monitor.StateInert, a.mon.Records()[0].State)
}

func TestModeFor(t *testing.T) {
	cfg := testConfig(t, t.TempDir(), "")
	assert.Equal(t, safety.ModeEnforce, modeFor(cfg, false))
	assert.Equal(t, safety.ModeDryRun, modeFor(cfg, true))

	dry := testConfig(t, t.TempDir(), "safety:\n  mode: dry-run\n")
	assert.Equal(t, safety.ModeDryRun, modeFor(dry, false))
}

func newTestReporter(t *testing.T, dryRun bool) (*reporter, *bytes.Buffer, string) {
	t.Helper()
	notifier, err := notification.NewNotifier("", false, false)
	require.NoError(t, err)
	var out bytes.Buffer
	notifier.SetOutput(&out)

	auditor, err := notification.NewAuditor("")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cleanup.log")
	return &reporter{
		notifier: notifier,
		auditor:  auditor,
		cleanup:  notification.NewCleanupLog(path),
		dryRun:   dryRun,
	}, &out, path
}

func TestReporterWritesCleanupLog(t *testing.T) {
	rep, out, path := newTestReporter(t, false)

	rep.ReportKilled([]monitor.Record{{PID: 7, Name: "com.a:push", Score: 900}})

	assert.Contains(t, out.String(), "Terminated com.a:push")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Killed: com.a:push")
}

func TestReporterDryRunSkipsCleanupLog(t *testing.T) {
	rep, out, path := newTestReporter(t, true)

	rep.ReportKilled([]monitor.Record{{PID: 7, Name: "com.a:push", Score: 900}})

	assert.Contains(t, out.String(), "Would terminate com.a:push")
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestReporterIgnoresEmptyList(t *testing.T) {
	rep, out, path := newTestReporter(t, false)

	rep.ReportKilled(nil)

	assert.Empty(t, out.String())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteStartupReportsFailure(t *testing.T) {
	notifier, err := notification.NewNotifier("", false, false)
	require.NoError(t, err)
	var out bytes.Buffer
	notifier.SetOutput(&out)

	cleanup := notification.NewCleanupLog(filepath.Join(t.TempDir(), "missing", "cleanup.log"))
	writeStartup(cleanup, notifier)
	assert.Contains(t, out.String(), "Writing cleanup log")

	out.Reset()
	path := filepath.Join(t.TempDir(), "cleanup.log")
	writeStartup(notification.NewCleanupLog(path), notifier)
	assert.Empty(t, out.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== Started: ")
}
