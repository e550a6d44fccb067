package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCall(t *testing.T) {
	before := testutil.ToFloat64(RTECalls.WithLabelValues("2004", "SetValue", "404"))
	ObserveCall("2004", "SetValue", "404")
	require.Equal(t, before+1, testutil.ToFloat64(RTECalls.WithLabelValues("2004", "SetValue", "404")))
}

func TestObserveLMSRequest(t *testing.T) {
	ok := testutil.ToFloat64(LMSRequests.WithLabelValues("commit", "success"))
	failed := testutil.ToFloat64(LMSRequests.WithLabelValues("commit", "failure"))

	ObserveLMSRequest("commit", true, 10*time.Millisecond)
	ObserveLMSRequest("commit", false, time.Second)

	require.Equal(t, ok+1, testutil.ToFloat64(LMSRequests.WithLabelValues("commit", "success")))
	require.Equal(t, failed+1, testutil.ToFloat64(LMSRequests.WithLabelValues("commit", "failure")))
}
