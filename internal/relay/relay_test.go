package relay

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatterbox-dev/chatterbox/internal/domain"
	"github.com/chatterbox-dev/chatterbox/internal/sse"
)

func encodeEvent(t *testing.T, instance string, to domain.UserId, payload string) []byte {
	t.Helper()
	data, err := json.Marshal(event{Instance: instance, ToUserId: to, Payload: json.RawMessage(payload)})
	require.NoError(t, err)
	return data
}

// tryReceive drains at most one pending event; dispatch pushes synchronously,
// so an empty channel afterwards means nothing was forwarded.
func tryReceive(client *sse.Client) ([]byte, bool) {
	select {
	case payload := <-client.Events():
		return payload, true
	default:
		return nil, false
	}
}

func TestDispatchForwardsForeignEvents(t *testing.T) {
	registry := sse.NewRegistry()
	client := sse.NewClient("user_2")
	registry.Register(client)

	r := &Relay{registry: registry, instanceID: "instance_a"}
	r.dispatch(encodeEvent(t, "instance_b", "user_2", `{"text":"hi"}`))

	payload, ok := tryReceive(client)
	require.True(t, ok, "foreign event must reach the local channel")
	assert.JSONEq(t, `{"text":"hi"}`, string(payload))
}

func TestDispatchSkipsOwnEvents(t *testing.T) {
	registry := sse.NewRegistry()
	client := sse.NewClient("user_2")
	registry.Register(client)

	r := &Relay{registry: registry, instanceID: "instance_a"}
	r.dispatch(encodeEvent(t, "instance_a", "user_2", `{"text":"hi"}`))

	_, ok := tryReceive(client)
	assert.False(t, ok, "own publication already pushed on the sending path")
}

func TestDispatchIgnoresMalformedEvents(t *testing.T) {
	registry := sse.NewRegistry()
	client := sse.NewClient("user_2")
	registry.Register(client)

	r := &Relay{registry: registry, instanceID: "instance_a"}
	r.dispatch([]byte("not json"))

	_, ok := tryReceive(client)
	assert.False(t, ok)
}

func TestDispatchWithoutOpenChannel(t *testing.T) {
	r := &Relay{registry: sse.NewRegistry(), instanceID: "instance_a"}

	// Nothing registered for the recipient: the event is dropped quietly.
	r.dispatch(encodeEvent(t, "instance_b", "user_9", `{"text":"hi"}`))
}
