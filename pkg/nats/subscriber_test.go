package nats

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	ts := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	header := nats.Header{}
	header.Set(occurredAtHeader, ts.Format(time.RFC3339Nano))

	evt, err := DecodeEvent("events.SURVEY_REPORTED", header, []byte(`{"report_id":"abc","status":"sent"}`))

	require.NoError(t, err)
	assert.Equal(t, "SURVEY_REPORTED", evt.EventType())
	assert.Equal(t, "sent", evt.Payload()["status"])
	assert.True(t, ts.Equal(evt.Timestamp()))
}

func TestDecodeEventWithoutHeader(t *testing.T) {
	evt, err := DecodeEvent("events.SURVEY_ABORTED", nats.Header{}, []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, "SURVEY_ABORTED", evt.EventType())
	assert.WithinDuration(t, time.Now(), evt.Timestamp(), time.Second)
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	_, err := DecodeEvent("events.X", nats.Header{}, []byte(`not json`))
	assert.Error(t, err)
}
