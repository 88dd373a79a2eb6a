package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertySectionLengthConsistency(t *testing.T) {
	// For a 5.0 PUBLISH carrying every publish property, the declared
	// property section length must equal the bytes that follow within the
	// section.
	// Re-decoding through the normal path already proves structure; here we
	// additionally check the emitted sizes against the sizing functions.
	p := &PublishPacket{
		TopicName:               "t",
		QoS:                     QoS0,
		PayloadFormat:           byteptr(1),
		MessageExpiryInterval:   u32ptr(10),
		TopicAlias:              u16ptr(2),
		ResponseTopic:           strptr("r"),
		CorrelationData:         []byte{0x01, 0x02},
		SubscriptionIdentifiers: []uint32{1, 128, 16384},
		ContentType:             strptr("x"),
		UserProperties:          []UserProperty{{Name: "a", Value: "b"}},
	}

	var l StepList
	appendPublishProperties(&l, p)

	require.Equal(t, StepVLI, l.Steps[0].Kind)
	declared := l.Steps[0].Value
	assert.Equal(t, publishPropertiesLength(p), declared)

	var rest StepList
	rest.Steps = l.Steps[1:]
	assert.Equal(t, int(declared), rest.EncodedLength())
}

func TestDecodePropertiesAnyOrder(t *testing.T) {
	// The decoder accepts properties in any order; build a CONNACK property
	// section by hand with entries reversed from the canonical encode order.
	section := []byte{
		byte(PropUserProperty), 0x00, 0x01, 'k', 0x00, 0x01, 'v',
		byte(PropServerKeepAlive), 0x00, 0x1E,
		byte(PropSessionExpiryInterval), 0x00, 0x00, 0x0E, 0x10,
	}
	data := append([]byte{byte(len(section))}, section...)

	p := &ConnackPacket{}
	n, err := decodeConnackProperties(p, data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	require.NotNil(t, p.ServerKeepAlive)
	assert.Equal(t, uint16(30), *p.ServerKeepAlive)
	require.NotNil(t, p.SessionExpiryInterval)
	assert.Equal(t, uint32(3600), *p.SessionExpiryInterval)
	assert.Equal(t, []UserProperty{{Name: "k", Value: "v"}}, p.UserProperties)
}

func TestDecodePropertiesNotPermitted(t *testing.T) {
	// Topic alias is a PUBLISH property; it must be rejected inside CONNECT
	data := []byte{0x03, byte(PropTopicAlias), 0x00, 0x01}

	p := &ConnectPacket{}
	_, err := decodeConnectProperties(p, data)
	assert.ErrorIs(t, err, ErrInvalidPropertyID)

	// Unassigned property code
	data = []byte{0x02, 0x7F, 0x00}
	_, err = decodeConnectProperties(&ConnectPacket{}, data)
	assert.ErrorIs(t, err, ErrInvalidPropertyID)
}

func TestDecodePropertiesOverflow(t *testing.T) {
	// Declared section length 2 but the four-byte-int value needs 4 bytes
	data := []byte{0x02, byte(PropSessionExpiryInterval), 0x00, 0x00, 0x00, 0x01}

	_, err := decodeConnectProperties(&ConnectPacket{}, data)
	assert.ErrorIs(t, err, ErrInvalidPropertyLength)
}

func TestDecodePropertiesSectionExceedsPayload(t *testing.T) {
	// Declared length runs past the available bytes
	data := []byte{0x0A, byte(PropReceiveMaximum), 0x00, 0x05}

	_, err := decodeConnectProperties(&ConnectPacket{}, data)
	assert.ErrorIs(t, err, ErrInvalidPropertyLength)
}

func TestUserPropertyOrderPreserved(t *testing.T) {
	ups := []UserProperty{
		{Name: "z", Value: "1"},
		{Name: "a", Value: "2"},
		{Name: "z", Value: "3"},
	}

	var l StepList
	appendAckProperties(&l, nil, ups)

	encoded := renderSteps(t, &l)

	var reasonString *string
	var decoded []UserProperty
	n, err := decodeAckProperties(&reasonString, &decoded, encoded)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	assert.Nil(t, reasonString)
	assert.Equal(t, ups, decoded)
}

func TestSubscriptionIdentifiersRepeat(t *testing.T) {
	p := &PublishPacket{
		TopicName:               "t",
		QoS:                     QoS0,
		SubscriptionIdentifiers: []uint32{47, 47, 1},
	}

	encoded, err := EncodePacket(ProtocolVersion50, p)
	require.NoError(t, err)

	decoded, err := parsePacketBytes(t, ProtocolVersion50, encoded)
	require.NoError(t, err)
	assert.Equal(t, []uint32{47, 47, 1}, decoded.(*PublishPacket).SubscriptionIdentifiers)
}

// renderSteps flattens a step list into bytes for tests that poke at property
// sections directly.
func renderSteps(t *testing.T, l *StepList) []byte {
	t.Helper()

	buf := make([]byte, l.EncodedLength())
	offset := 0
	for _, st := range l.Steps {
		switch st.Kind {
		case StepU8:
			buf[offset] = byte(st.Value)
			offset++
		case StepU16:
			buf[offset] = byte(st.Value >> 8)
			buf[offset+1] = byte(st.Value)
			offset += 2
		case StepU32:
			buf[offset] = byte(st.Value >> 24)
			buf[offset+1] = byte(st.Value >> 16)
			buf[offset+2] = byte(st.Value >> 8)
			buf[offset+3] = byte(st.Value)
			offset += 4
		case StepVLI:
			n, err := EncodeVariableByteIntegerTo(buf, offset, st.Value)
			require.NoError(t, err)
			offset += n
		case StepBytes:
			offset += copy(buf[offset:], st.Data)
		}
	}
	return buf
}
