package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordUpdate(t *testing.T) {
	before := testutil.ToFloat64(updatesTotal.WithLabelValues("photo"))
	RecordUpdate("photo")
	RecordUpdate("photo")
	assert.Equal(t, before+2, testutil.ToFloat64(updatesTotal.WithLabelValues("photo")))
}

func TestRecordTransition(t *testing.T) {
	tests := []struct {
		step   string
		result string
	}{
		{"AWAITING_SIGNAL", "rejected"},
		{"AWAITING_PHOTOS", "completed"},
		{"AWAITING_LOCATION", "reprompt"},
	}
	for _, tt := range tests {
		t.Run(tt.step+"/"+tt.result, func(t *testing.T) {
			RecordTransition(tt.step, tt.result)
			assert.Greater(t, testutil.ToFloat64(transitionsTotal.WithLabelValues(tt.step, tt.result)), 0.0)
		})
	}
}

func TestSetActiveSessions(t *testing.T) {
	SetActiveSessions(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(sessionsActive))
	SetActiveSessions(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(sessionsActive))
}

func TestRecordReportAndDispatchFailure(t *testing.T) {
	RecordReport("mail_failed")
	RecordDispatchFailure("send_text")
	assert.Greater(t, testutil.ToFloat64(reportsTotal.WithLabelValues("mail_failed")), 0.0)
	assert.Greater(t, testutil.ToFloat64(dispatchFailuresTotal.WithLabelValues("send_text")), 0.0)
}
