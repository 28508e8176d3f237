package stats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	ok := chainRequests.WithLabelValues("koios", "tip", "ok")
	failed := chainRequests.WithLabelValues("koios", "tip", "error")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveRequest("koios", "tip", time.Now(), nil)
	ObserveRequest("koios", "tip", time.Now(), nil)
	ObserveRequest("koios", "tip", time.Now(), errors.New("boom"))

	require.Equal(t, okBefore+2, testutil.ToFloat64(ok))
	require.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
}

func TestDumpPrometheusDefaults(t *testing.T) {
	ObserveRequest("koios", "submittx", time.Now(), nil)

	path := filepath.Join(t.TempDir(), "stats")
	require.NoError(t, DumpPrometheusDefaults(path))

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(buf), "seedelf_chain_requests_total"))
}
