package tracker

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf)

	obs.OnCallComplete(CallEvent{Operation: "log_time", Method: "POST", Path: "/rest/api/3/issue/IMG-1/worklog", Status: 201, LatencyMs: 40, Success: true})
	obs.OnCallComplete(CallEvent{Operation: "search", Method: "GET", Path: "/rest/api/3/search/jql", Status: 503, ErrorCode: "NETWORK"})

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=tracker_call op=log_time")
	assert.Contains(t, out, "latency_ms=40")
	assert.Contains(t, out, "level=ERROR msg=tracker_call op=search")
	assert.Contains(t, out, "error_code=NETWORK")
}
