package encoding

import "errors"

// MQTT 5.0 per-packet decoders. Each function receives the exact payload
// slice whose length the fixed-header remaining-length VLI declared; every
// embedded length must sum to it and no trailing bytes may remain. The
// returned packet owns all of its byte buffers.

// truncated remaps a short read inside a complete payload slice: the payload
// is known to be whole, so running out of bytes means the declared lengths
// are inconsistent with the remaining length.
func truncated(err error) error {
	if errors.Is(err, ErrUnexpectedEOF) {
		return ErrPayloadLengthMismatch
	}
	return err
}

func decodeConnect50(payload []byte) (*ConnectPacket, error) {
	offset := 0

	name, n, err := readUTF8StringFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset += n
	if name != protocolName {
		return nil, ErrInvalidProtocolName
	}

	version, n, err := readByteFromBytes(payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n
	if ProtocolVersion(version) != ProtocolVersion50 {
		return nil, ErrInvalidProtocolVersion
	}

	flags, n, err := readByteFromBytes(payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	// Reserved bit (bit 0) must be 0
	if (flags & 0x01) != 0 {
		return nil, ErrMalformedPacket
	}

	willFlag := (flags & 0x04) != 0
	willQoS := QoS((flags & 0x18) >> 3)
	willRetain := (flags & 0x20) != 0
	if !willQoS.IsValid() {
		return nil, ErrMalformedPacket
	}
	if !willFlag && (willQoS != QoS0 || willRetain) {
		return nil, ErrMalformedPacket
	}

	p := &ConnectPacket{CleanStart: (flags & 0x02) != 0}

	keepAlive, n, err := readTwoByteIntFromBytes(payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n
	p.KeepAlive = keepAlive

	n, err = decodeConnectProperties(p, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	clientID, n, err := readUTF8StringFromBytes(payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n
	p.ClientID = clientID

	if willFlag {
		will := &Will{QoS: willQoS, Retain: willRetain}

		n, err = decodeWillProperties(will, payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n

		will.Topic, n, err = readUTF8StringFromBytes(payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n

		will.Payload, n, err = readBinaryDataFromBytes(payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n

		p.Will = will
	}

	if (flags & 0x80) != 0 {
		username, n, err := readUTF8StringFromBytes(payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n
		p.Username = &username
	}

	if (flags & 0x40) != 0 {
		p.Password, n, err = readBinaryDataFromBytes(payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n
	}

	if offset != len(payload) {
		return nil, ErrPayloadLengthMismatch
	}
	return p, nil
}

func decodeConnack50(payload []byte) (*ConnackPacket, error) {
	offset := 0

	ackFlags, n, err := readByteFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	// Reserved bits (bits 7-1) must be 0
	if (ackFlags & 0xFE) != 0 {
		return nil, ErrMalformedPacket
	}

	p := &ConnackPacket{SessionPresent: (ackFlags & 0x01) != 0}

	reasonCode, n, err := readByteFromBytes(payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n
	p.ReasonCode = ReasonCode(reasonCode)

	n, err = decodeConnackProperties(p, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	if offset != len(payload) {
		return nil, ErrPayloadLengthMismatch
	}
	return p, nil
}

func decodePublish50(flags byte, payload []byte) (*PublishPacket, error) {
	p := &PublishPacket{
		DUP:    (flags & 0x08) != 0,
		QoS:    QoS((flags & 0x06) >> 1),
		Retain: (flags & 0x01) != 0,
	}

	offset := 0

	topicName, n, err := readUTF8StringFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset += n
	p.TopicName = topicName

	if p.QoS > QoS0 {
		packetID, n, err := readTwoByteIntFromBytes(payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n
		if packetID == 0 {
			return nil, ErrInvalidPacketIDZero
		}
		p.PacketID = packetID
	}

	n, err = decodePublishProperties(p, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	if offset < len(payload) {
		p.Payload = make([]byte, len(payload)-offset)
		copy(p.Payload, payload[offset:])
	}
	return p, nil
}

func decodePuback50(payload []byte) (*PubackPacket, error) {
	p := &PubackPacket{}

	packetID, n, err := readTwoByteIntFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.PacketID = packetID

	// Two-byte form: reason code and properties elided, reason is Success
	if len(payload) == 2 {
		p.ReasonCode = ReasonSuccess
		return p, nil
	}

	reasonCode, n, err := readByteFromBytes(payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n
	p.ReasonCode = ReasonCode(reasonCode)

	// Three-byte form: property section elided
	if len(payload) == 3 {
		return p, nil
	}

	n, err = decodeAckProperties(&p.ReasonString, &p.UserProperties, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	if offset != len(payload) {
		return nil, ErrPayloadLengthMismatch
	}
	return p, nil
}

func decodeSubscribe50(payload []byte) (*SubscribePacket, error) {
	p := &SubscribePacket{}

	packetID, n, err := readTwoByteIntFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.PacketID = packetID

	n, err = decodeSubscribeProperties(p, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	for offset < len(payload) {
		topicFilter, n, err := readUTF8StringFromBytes(payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n

		options, n, err := readByteFromBytes(payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n

		// Reserved bits (bits 7, 6) must be 0 and retain handling 3 is invalid
		if (options & 0xC0) != 0 {
			return nil, ErrMalformedPacket
		}
		retainHandling := (options & 0x30) >> 4
		if retainHandling > 2 {
			return nil, ErrMalformedPacket
		}
		qos := QoS(options & 0x03)
		if !qos.IsValid() {
			return nil, ErrMalformedPacket
		}

		p.Subscriptions = append(p.Subscriptions, Subscription{
			TopicFilter:       topicFilter,
			QoS:               qos,
			NoLocal:           (options & 0x04) != 0,
			RetainAsPublished: (options & 0x08) != 0,
			RetainHandling:    retainHandling,
		})
	}

	return p, nil
}

func decodeSuback50(payload []byte) (*SubackPacket, error) {
	p := &SubackPacket{}

	packetID, n, err := readTwoByteIntFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.PacketID = packetID

	n, err = decodeAckProperties(&p.ReasonString, &p.UserProperties, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	p.ReasonCodes = make([]ReasonCode, 0, len(payload)-offset)
	for ; offset < len(payload); offset++ {
		p.ReasonCodes = append(p.ReasonCodes, ReasonCode(payload[offset]))
	}

	return p, nil
}

func decodeUnsubscribe50(payload []byte) (*UnsubscribePacket, error) {
	p := &UnsubscribePacket{}

	packetID, n, err := readTwoByteIntFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.PacketID = packetID

	n, err = decodeUnsubscribeProperties(p, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	for offset < len(payload) {
		topicFilter, n, err := readUTF8StringFromBytes(payload[offset:])
		if err != nil {
			return nil, truncated(err)
		}
		offset += n
		p.TopicFilters = append(p.TopicFilters, topicFilter)
	}

	return p, nil
}

func decodeUnsuback50(payload []byte) (*UnsubackPacket, error) {
	p := &UnsubackPacket{}

	packetID, n, err := readTwoByteIntFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.PacketID = packetID

	n, err = decodeAckProperties(&p.ReasonString, &p.UserProperties, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	p.ReasonCodes = make([]ReasonCode, 0, len(payload)-offset)
	for ; offset < len(payload); offset++ {
		p.ReasonCodes = append(p.ReasonCodes, ReasonCode(payload[offset]))
	}

	return p, nil
}

func decodePingreq(payload []byte) (*PingreqPacket, error) {
	if len(payload) != 0 {
		return nil, ErrPayloadLengthMismatch
	}
	return &PingreqPacket{}, nil
}

func decodePingresp(payload []byte) (*PingrespPacket, error) {
	if len(payload) != 0 {
		return nil, ErrPayloadLengthMismatch
	}
	return &PingrespPacket{}, nil
}

func decodeDisconnect50(payload []byte) (*DisconnectPacket, error) {
	p := &DisconnectPacket{}

	// Empty form: normal disconnection
	if len(payload) == 0 {
		p.ReasonCode = ReasonNormalDisconnection
		return p, nil
	}

	reasonCode, n, err := readByteFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.ReasonCode = ReasonCode(reasonCode)

	// One-byte form: property section elided
	if len(payload) == 1 {
		return p, nil
	}

	n, err = decodeDisconnectProperties(p, payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n

	if offset != len(payload) {
		return nil, ErrPayloadLengthMismatch
	}
	return p, nil
}
