package tool

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagepilot/internal/adapter/browser"
)

func TestRunNetworkMonitorGetRequests(t *testing.T) {
	d := &fakeDriver{netlog: []browser.NetworkRequest{
		{Method: "GET", URL: "https://example.com/api/items"},
		{Method: "POST", URL: "https://example.com/api/cart"},
	}}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "network_monitor",
		json.RawMessage(`{"action": "get_requests"}`))
	require.False(t, res.IsError(), res.Text)

	var reqs []browser.NetworkRequest
	require.NoError(t, json.Unmarshal(res.Payload, &reqs))
	require.Len(t, reqs, 2)
	assert.Equal(t, "POST", reqs[1].Method)

	// The buffer drains on read.
	res = exec.Run(context.Background(), "network_monitor",
		json.RawMessage(`{"action": "get_requests"}`))
	require.False(t, res.IsError(), res.Text)
	assert.Contains(t, res.Text, "No network requests captured")
}

func TestRunNetworkMonitorClear(t *testing.T) {
	d := &fakeDriver{netlog: []browser.NetworkRequest{{Method: "GET", URL: "https://example.com"}}}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "network_monitor",
		json.RawMessage(`{"action": "clear"}`))
	require.False(t, res.IsError(), res.Text)

	assert.Contains(t, res.Text, "Network log cleared")
	assert.Empty(t, d.netlog)
}

func TestRunNetworkMonitorSetOffline(t *testing.T) {
	d := &fakeDriver{}
	exec := newTestExecutor(t, d, Options{})

	res := exec.Run(context.Background(), "network_monitor",
		json.RawMessage(`{"action": "set_offline", "offline": true}`))
	require.False(t, res.IsError(), res.Text)
	assert.Contains(t, res.Text, "Network set to offline mode")
	assert.True(t, d.offline)

	res = exec.Run(context.Background(), "network_monitor",
		json.RawMessage(`{"action": "set_offline"}`))
	require.False(t, res.IsError(), res.Text)
	assert.Contains(t, res.Text, "Network set to online mode")
	assert.False(t, d.offline)
}

func TestRunNetworkMonitorInvalidAction(t *testing.T) {
	exec := newTestExecutor(t, &fakeDriver{}, Options{})

	res := exec.Run(context.Background(), "network_monitor",
		json.RawMessage(`{"action": "sniff"}`))
	require.True(t, res.IsError())
	assert.Contains(t, res.Text, "network_monitor failed:")
}
