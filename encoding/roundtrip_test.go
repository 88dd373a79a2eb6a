package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parsePacketBytes splits a complete encoded packet into first byte and
// payload, checking the remaining-length VLI along the way, and runs the
// per-packet decoder on it.
func parsePacketBytes(t *testing.T, version ProtocolVersion, raw []byte) (Packet, error) {
	t.Helper()
	require.GreaterOrEqual(t, len(raw), 2)

	remaining, n, err := DecodeVariableByteIntegerFromBytes(raw[1:])
	require.NoError(t, err)
	require.Equal(t, len(raw)-1-n, int(remaining))

	return DecodePacket(version, raw[0], raw[1+n:])
}

type packetFixture struct {
	name   string
	packet Packet
}

// roundTripPackets returns one well-formed fixture per packet variant plus
// variants exercising optional fields, valid for the given version.
func roundTripPackets(version ProtocolVersion) []packetFixture {
	fixtures := []packetFixture{
		{
			name: "connect_minimal",
			packet: &ConnectPacket{
				ClientID:   "client-1",
				KeepAlive:  60,
				CleanStart: true,
			},
		},
		{
			name: "connect_credentials_and_will",
			packet: &ConnectPacket{
				ClientID:  "client-2",
				KeepAlive: 120,
				Username:  strptr("user"),
				Password:  []byte("pass"),
				Will: &Will{
					Topic:   "state/client-2",
					Payload: []byte("gone"),
					QoS:     QoS1,
					Retain:  true,
				},
			},
		},
		{
			name: "publish_qos0",
			packet: &PublishPacket{
				TopicName: "metrics/load",
				QoS:       QoS0,
				Payload:   []byte{0x01, 0x02, 0x03},
			},
		},
		{
			name: "publish_qos2_flags",
			packet: &PublishPacket{
				TopicName: "alerts",
				QoS:       QoS2,
				PacketID:  777,
				DUP:       true,
				Retain:    true,
				Payload:   []byte("fire"),
			},
		},
		{
			name:   "publish_empty_payload",
			packet: &PublishPacket{TopicName: "empty", QoS: QoS0},
		},
		{
			name:   "puback_success",
			packet: &PubackPacket{PacketID: 5, ReasonCode: ReasonSuccess},
		},
		{
			name: "connack_session_present",
			packet: &ConnackPacket{
				SessionPresent: true,
				ReasonCode:     ReasonSuccess,
			},
		},
		{
			name:   "pingreq",
			packet: &PingreqPacket{},
		},
		{
			name:   "pingresp",
			packet: &PingrespPacket{},
		},
		{
			name:   "disconnect_normal",
			packet: &DisconnectPacket{ReasonCode: ReasonNormalDisconnection},
		},
		{
			name: "subscribe_two_filters",
			packet: &SubscribePacket{
				PacketID: 11,
				Subscriptions: []Subscription{
					{TopicFilter: "a/#", QoS: QoS1},
					{TopicFilter: "b/+/c", QoS: QoS0},
				},
			},
		},
		{
			name: "suback",
			packet: &SubackPacket{
				PacketID:    11,
				ReasonCodes: []ReasonCode{ReasonGrantedQoS1, ReasonGrantedQoS0},
			},
		},
		{
			name: "unsubscribe",
			packet: &UnsubscribePacket{
				PacketID:     12,
				TopicFilters: []string{"a/#", "b/+/c"},
			},
		},
	}

	if version == ProtocolVersion311 {
		return append(fixtures, packetFixture{
			name:   "unsuback",
			packet: &UnsubackPacket{PacketID: 12},
		})
	}

	// 5.0-only shapes
	return append(fixtures,
		packetFixture{
			name: "unsuback",
			packet: &UnsubackPacket{
				PacketID:    12,
				ReasonCodes: []ReasonCode{ReasonSuccess, ReasonNoSubscriptionExisted},
			},
		},
		packetFixture{
			name: "connect_full_properties",
			packet: &ConnectPacket{
				ClientID:                   "client-3",
				KeepAlive:                  30,
				CleanStart:                 true,
				SessionExpiryInterval:      u32ptr(3600),
				ReceiveMaximum:             u16ptr(50),
				MaximumPacketSize:          u32ptr(1 << 20),
				TopicAliasMaximum:          u16ptr(16),
				RequestResponseInformation: byteptr(1),
				RequestProblemInformation:  byteptr(0),
				AuthenticationMethod:       strptr("SCRAM-SHA-1"),
				AuthenticationData:         []byte{0x0A, 0x0B},
				UserProperties: []UserProperty{
					{Name: "region", Value: "eu-west"},
					{Name: "region", Value: "us-east"},
				},
				Will: &Will{
					Topic:                 "will/full",
					Payload:               []byte("bye"),
					QoS:                   QoS2,
					DelayInterval:         u32ptr(5),
					PayloadFormat:         byteptr(1),
					MessageExpiryInterval: u32ptr(300),
					ContentType:           strptr("text/plain"),
					ResponseTopic:         strptr("resp/will"),
					CorrelationData:       []byte{0xCA, 0xFE},
					UserProperties:        []UserProperty{{Name: "w", Value: "p"}},
				},
			},
		},
		packetFixture{
			name: "connack_full_properties",
			packet: &ConnackPacket{
				SessionPresent:                   true,
				ReasonCode:                       ReasonSuccess,
				SessionExpiryInterval:            u32ptr(7200),
				ReceiveMaximum:                   u16ptr(100),
				MaximumQoS:                       byteptr(1),
				RetainAvailable:                  byteptr(0),
				MaximumPacketSize:                u32ptr(1 << 18),
				AssignedClientIdentifier:         strptr("assigned-9"),
				TopicAliasMaximum:                u16ptr(8),
				ReasonString:                     strptr("welcome"),
				WildcardSubscriptionsAvailable:   byteptr(1),
				SubscriptionIdentifiersAvailable: byteptr(1),
				SharedSubscriptionsAvailable:     byteptr(0),
				ServerKeepAlive:                  u16ptr(45),
				ResponseInformation:              strptr("resp/info"),
				ServerReference:                  strptr("other.host"),
				UserProperties:                   []UserProperty{{Name: "srv", Value: "a"}},
			},
		},
		packetFixture{
			name: "publish_full_properties",
			packet: &PublishPacket{
				TopicName:               "telemetry",
				QoS:                     QoS1,
				PacketID:                4242,
				Payload:                 []byte("{}"),
				PayloadFormat:           byteptr(1),
				MessageExpiryInterval:   u32ptr(60),
				TopicAlias:              u16ptr(3),
				ResponseTopic:           strptr("telemetry/ack"),
				CorrelationData:         []byte{0x01},
				SubscriptionIdentifiers: []uint32{1, 268435455},
				ContentType:             strptr("application/json"),
				UserProperties:          []UserProperty{{Name: "trace", Value: "abc"}},
			},
		},
		packetFixture{
			name: "puback_reason_and_properties",
			packet: &PubackPacket{
				PacketID:       6,
				ReasonCode:     ReasonQuotaExceeded,
				ReasonString:   strptr("over quota"),
				UserProperties: []UserProperty{{Name: "k", Value: "v"}},
			},
		},
		packetFixture{
			name: "subscribe_options_and_identifier",
			packet: &SubscribePacket{
				PacketID:               21,
				SubscriptionIdentifier: u32ptr(47),
				UserProperties:         []UserProperty{{Name: "s", Value: "1"}},
				Subscriptions: []Subscription{
					{TopicFilter: "up", QoS: QoS1},
					{
						TopicFilter:       "down",
						QoS:               QoS2,
						NoLocal:           true,
						RetainAsPublished: true,
						RetainHandling:    2,
					},
				},
			},
		},
		packetFixture{
			name: "suback_reason_string",
			packet: &SubackPacket{
				PacketID:       21,
				ReasonCodes:    []ReasonCode{ReasonGrantedQoS2},
				ReasonString:   strptr("granted"),
				UserProperties: []UserProperty{{Name: "s", Value: "2"}},
			},
		},
		packetFixture{
			name: "unsubscribe_user_properties",
			packet: &UnsubscribePacket{
				PacketID:       22,
				TopicFilters:   []string{"up"},
				UserProperties: []UserProperty{{Name: "u", Value: "3"}},
			},
		},
		packetFixture{
			name: "disconnect_full",
			packet: &DisconnectPacket{
				ReasonCode:            ReasonServerShuttingDown,
				SessionExpiryInterval: u32ptr(0),
				ReasonString:          strptr("maintenance"),
				ServerReference:       strptr("backup.host"),
				UserProperties:        []UserProperty{{Name: "d", Value: "4"}},
			},
		},
		packetFixture{
			name:   "disconnect_reason_only",
			packet: &DisconnectPacket{ReasonCode: ReasonKeepAliveTimeout},
		},
		packetFixture{
			name: "puback_reason_only",
			packet: &PubackPacket{
				PacketID:   8,
				ReasonCode: ReasonNoMatchingSubscribers,
			},
		},
	)
}

func TestPacketRoundTrip(t *testing.T) {
	for _, version := range []ProtocolVersion{ProtocolVersion311, ProtocolVersion50} {
		for _, fixture := range roundTripPackets(version) {
			t.Run(version.String()+"/"+fixture.name, func(t *testing.T) {
				encoded, err := EncodePacket(version, fixture.packet)
				require.NoError(t, err)

				decoded, err := parsePacketBytes(t, version, encoded)
				require.NoError(t, err)
				assert.Equal(t, fixture.packet, decoded)
			})
		}
	}
}
