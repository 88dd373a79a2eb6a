package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axmq/wire/encoding"
)

func u32ptr(v uint32) *uint32 { return &v }
func strptr(v string) *string { return &v }

// clientPackets are valid outbound packets for a client in both versions
// unless noted.
func clientPackets() []encoding.Packet {
	return []encoding.Packet{
		&encoding.ConnectPacket{ClientID: "enc-test", KeepAlive: 60, CleanStart: true},
		&encoding.PublishPacket{
			TopicName: "metrics/host/load",
			QoS:       encoding.QoS1,
			PacketID:  99,
			Payload:   []byte("0.25 0.50 0.75 load averages and some more payload bytes"),
		},
		&encoding.PublishPacket{TopicName: "empty", QoS: encoding.QoS0},
		&encoding.PubackPacket{PacketID: 99, ReasonCode: encoding.ReasonSuccess},
		&encoding.SubscribePacket{
			PacketID: 3,
			Subscriptions: []encoding.Subscription{
				{TopicFilter: "a/#", QoS: encoding.QoS1},
			},
		},
		&encoding.UnsubscribePacket{PacketID: 4, TopicFilters: []string{"a/#"}},
		&encoding.PingreqPacket{},
		&encoding.DisconnectPacket{},
	}
}

func TestEncoderSingleWindow(t *testing.T) {
	for _, version := range []encoding.ProtocolVersion{encoding.ProtocolVersion311, encoding.ProtocolVersion50} {
		for _, p := range clientPackets() {
			e := NewEncoder(version, encoding.RoleClient)
			require.NoError(t, e.Init(p))

			buf := make([]byte, 4096)
			n, done, err := e.Service(buf)
			require.NoError(t, err)
			assert.True(t, done)

			expected, err := encoding.EncodePacket(version, p)
			require.NoError(t, err)
			assert.Equal(t, expected, buf[:n])
		}
	}
}

func TestEncoderChunkedIndependence(t *testing.T) {
	windowSizes := []int{4, 5, 7, 11, 16, 64}

	for _, version := range []encoding.ProtocolVersion{encoding.ProtocolVersion311, encoding.ProtocolVersion50} {
		for _, p := range clientPackets() {
			expected, err := encoding.EncodePacket(version, p)
			require.NoError(t, err)

			for _, size := range windowSizes {
				e := NewEncoder(version, encoding.RoleClient)
				require.NoError(t, e.Init(p))

				var out []byte
				window := make([]byte, size)
				for {
					n, done, err := e.Service(window)
					require.NoError(t, err)
					out = append(out, window[:n]...)
					if done {
						break
					}
				}

				assert.Equal(t, expected, out,
					"version %s window %d", version, size)
				assert.False(t, e.Encoding())
			}
		}
	}
}

func TestEncoderSuspendsOnSmallVLIWindow(t *testing.T) {
	e := NewEncoder(encoding.ProtocolVersion50, encoding.RoleClient)
	p := &encoding.PublishPacket{
		TopicName: "topic",
		QoS:       encoding.QoS0,
		Payload:   []byte("data"),
	}
	require.NoError(t, e.Init(p))

	// First byte fits, then the remaining-length VLI needs 4 bytes of
	// headroom and suspends
	window := make([]byte, 3)
	n, done, err := e.Service(window)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, n)
	assert.True(t, e.Encoding())
}

func TestEncoderInitErrors(t *testing.T) {
	t.Run("busy", func(t *testing.T) {
		e := NewEncoder(encoding.ProtocolVersion50, encoding.RoleClient)
		require.NoError(t, e.Init(&encoding.PingreqPacket{}))

		err := e.Init(&encoding.PingreqPacket{})
		assert.ErrorIs(t, err, ErrEncoderBusy)
	})

	t.Run("role_never_emits", func(t *testing.T) {
		e := NewEncoder(encoding.ProtocolVersion50, encoding.RoleClient)
		err := e.Init(&encoding.ConnackPacket{})
		assert.ErrorIs(t, err, encoding.ErrUnsupportedPacketType)
		assert.False(t, e.Encoding())
	})

	t.Run("zero_packet_id", func(t *testing.T) {
		e := NewEncoder(encoding.ProtocolVersion50, encoding.RoleClient)
		err := e.Init(&encoding.PublishPacket{TopicName: "t", QoS: encoding.QoS1})
		assert.ErrorIs(t, err, encoding.ErrInvalidPacketIDZero)
		assert.False(t, e.Encoding())
	})

	t.Run("reusable_after_error", func(t *testing.T) {
		e := NewEncoder(encoding.ProtocolVersion50, encoding.RoleClient)
		require.Error(t, e.Init(&encoding.ConnackPacket{}))
		require.NoError(t, e.Init(&encoding.PingreqPacket{}))
	})
}

func TestEncoderServiceIdle(t *testing.T) {
	e := NewEncoder(encoding.ProtocolVersion311, encoding.RoleClient)

	buf := make([]byte, 16)
	n, done, err := e.Service(buf)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 0, n)
}

func TestEncoderSequentialPackets(t *testing.T) {
	e := NewEncoder(encoding.ProtocolVersion50, encoding.RoleClient)
	var out []byte
	window := make([]byte, 8)

	for _, p := range clientPackets() {
		require.NoError(t, e.Init(p))
		for {
			n, done, err := e.Service(window)
			require.NoError(t, err)
			out = append(out, window[:n]...)
			if done {
				break
			}
		}
	}

	var expected []byte
	for _, p := range clientPackets() {
		encoded, err := encoding.EncodePacket(encoding.ProtocolVersion50, p)
		require.NoError(t, err)
		expected = append(expected, encoded...)
	}

	assert.Equal(t, expected, out)
}
