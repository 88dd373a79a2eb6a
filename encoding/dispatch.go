package encoding

// Role labels which end of the connection this codec instance speaks for. It
// fixes the set of packet types encoded versus decoded: the client emits
// CONNECT, SUBSCRIBE, UNSUBSCRIBE, PUBLISH, PUBACK, DISCONNECT and PINGREQ
// and receives CONNACK, SUBACK, UNSUBACK, PUBLISH, PUBACK, PINGRESP and
// DISCONNECT; the server is the mirror image. PUBLISH and PUBACK flow in both
// directions with the same codec.
type Role byte

const (
	RoleClient Role = iota
	RoleServer
)

var clientEncodes = map[PacketType]bool{
	CONNECT:     true,
	PUBLISH:     true,
	PUBACK:      true,
	SUBSCRIBE:   true,
	UNSUBSCRIBE: true,
	PINGREQ:     true,
	DISCONNECT:  true,
}

var clientDecodes = map[PacketType]bool{
	CONNACK:    true,
	PUBLISH:    true,
	PUBACK:     true,
	SUBACK:     true,
	UNSUBACK:   true,
	PINGRESP:   true,
	DISCONNECT: true,
}

// Encodes reports whether the role is permitted to emit the packet type
func (r Role) Encodes(t PacketType) bool {
	if r == RoleClient {
		return clientEncodes[t]
	}
	return clientDecodes[t]
}

// Decodes reports whether the role is permitted to receive the packet type
func (r Role) Decodes(t PacketType) bool {
	if r == RoleClient {
		return clientDecodes[t]
	}
	return clientEncodes[t]
}

// String returns human-readable role name
func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "UNKNOWN"
	}
}

// AppendPacketSteps appends the packet's full encoding plan to l for the
// given protocol version. Failures are caller bugs (invalid QoS, zero packet
// identifier at QoS > 0, oversized remaining length) and surface
// synchronously.
func AppendPacketSteps(version ProtocolVersion, p Packet, l *StepList) error {
	switch version {
	case ProtocolVersion311:
		switch p := p.(type) {
		case *ConnectPacket:
			return appendConnectSteps311(l, p)
		case *ConnackPacket:
			return appendConnackSteps311(l, p)
		case *PublishPacket:
			return appendPublishSteps311(l, p)
		case *PubackPacket:
			return appendPubackSteps311(l, p)
		case *SubscribePacket:
			return appendSubscribeSteps311(l, p)
		case *SubackPacket:
			return appendSubackSteps311(l, p)
		case *UnsubscribePacket:
			return appendUnsubscribeSteps311(l, p)
		case *UnsubackPacket:
			return appendUnsubackSteps311(l, p)
		case *PingreqPacket:
			return appendPingreqSteps(l)
		case *PingrespPacket:
			return appendPingrespSteps(l)
		case *DisconnectPacket:
			return appendDisconnectSteps311(l, p)
		default:
			return ErrUnsupportedPacketType
		}
	case ProtocolVersion50:
		switch p := p.(type) {
		case *ConnectPacket:
			return appendConnectSteps50(l, p)
		case *ConnackPacket:
			return appendConnackSteps50(l, p)
		case *PublishPacket:
			return appendPublishSteps50(l, p)
		case *PubackPacket:
			return appendPubackSteps50(l, p)
		case *SubscribePacket:
			return appendSubscribeSteps50(l, p)
		case *SubackPacket:
			return appendSubackSteps50(l, p)
		case *UnsubscribePacket:
			return appendUnsubscribeSteps50(l, p)
		case *UnsubackPacket:
			return appendUnsubackSteps50(l, p)
		case *PingreqPacket:
			return appendPingreqSteps(l)
		case *PingrespPacket:
			return appendPingrespSteps(l)
		case *DisconnectPacket:
			return appendDisconnectSteps50(l, p)
		default:
			return ErrUnsupportedPacketType
		}
	default:
		return ErrInvalidProtocolVersion
	}
}

// DecodePacket parses one complete packet from its fixed-header first byte
// and the exact payload slice the remaining-length VLI declared.
func DecodePacket(version ProtocolVersion, firstByte byte, payload []byte) (Packet, error) {
	ptype := PacketType(firstByte >> 4)
	flags := firstByte & 0x0F

	if ptype == PUBLISH {
		if !QoS((flags & 0x06) >> 1).IsValid() {
			return nil, ErrInvalidQoS
		}
	} else if err := validateFlags(ptype, flags); err != nil {
		return nil, err
	}

	switch version {
	case ProtocolVersion311:
		switch ptype {
		case CONNECT:
			return decodeConnect311(payload)
		case CONNACK:
			return decodeConnack311(payload)
		case PUBLISH:
			return decodePublish311(flags, payload)
		case PUBACK:
			return decodePuback311(payload)
		case SUBSCRIBE:
			return decodeSubscribe311(payload)
		case SUBACK:
			return decodeSuback311(payload)
		case UNSUBSCRIBE:
			return decodeUnsubscribe311(payload)
		case UNSUBACK:
			return decodeUnsuback311(payload)
		case PINGREQ:
			return decodePingreq(payload)
		case PINGRESP:
			return decodePingresp(payload)
		case DISCONNECT:
			return decodeDisconnect311(payload)
		default:
			return nil, ErrUnsupportedPacketType
		}
	case ProtocolVersion50:
		switch ptype {
		case CONNECT:
			return decodeConnect50(payload)
		case CONNACK:
			return decodeConnack50(payload)
		case PUBLISH:
			return decodePublish50(flags, payload)
		case PUBACK:
			return decodePuback50(payload)
		case SUBSCRIBE:
			return decodeSubscribe50(payload)
		case SUBACK:
			return decodeSuback50(payload)
		case UNSUBSCRIBE:
			return decodeUnsubscribe50(payload)
		case UNSUBACK:
			return decodeUnsuback50(payload)
		case PINGREQ:
			return decodePingreq(payload)
		case PINGRESP:
			return decodePingresp(payload)
		case DISCONNECT:
			return decodeDisconnect50(payload)
		default:
			return nil, ErrUnsupportedPacketType
		}
	default:
		return nil, ErrInvalidProtocolVersion
	}
}

// EncodePacket is the single-shot form: it renders the packet's complete byte
// sequence into a freshly allocated buffer.
func EncodePacket(version ProtocolVersion, p Packet) ([]byte, error) {
	var l StepList
	if err := AppendPacketSteps(version, p, &l); err != nil {
		return nil, err
	}

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
			if err != nil {
				return nil, err
			}
			offset += n
		case StepBytes:
			offset += copy(buf[offset:], st.Data)
		}
	}
	return buf, nil
}
