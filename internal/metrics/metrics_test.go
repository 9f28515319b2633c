package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCommand(t *testing.T) {
	before := testutil.ToFloat64(commandsTotal.WithLabelValues("dir", OutcomeOK))
	RecordCommand("dir", OutcomeOK, 150*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(commandsTotal.WithLabelValues("dir", OutcomeOK)))
}

func TestRecordWorkspace(t *testing.T) {
	before := testutil.ToFloat64(workspacesTotal.WithLabelValues("create", "failed"))
	RecordWorkspace("create", false)
	assert.Equal(t, before+1, testutil.ToFloat64(workspacesTotal.WithLabelValues("create", "failed")))
}

func TestWriteTextfile(t *testing.T) {
	RecordCommand("history", OutcomeExitCode, time.Second)

	path := filepath.Join(t.TempDir(), "tfsclient.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tfsclient_commands_total{command="history",outcome="exit_code"}`)
}
