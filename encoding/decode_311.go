package encoding

// MQTT 3.1.1 per-packet decoders. Property-bearing fields on the packet
// structs stay nil; the will retain bit from the connect flags is preserved
// in the decoded will.

func decodeConnect311(payload []byte) (*ConnectPacket, error) {
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
	if ProtocolVersion(version) != ProtocolVersion311 {
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

	clientID, n, err := readUTF8StringFromBytes(payload[offset:])
	if err != nil {
		return nil, truncated(err)
	}
	offset += n
	p.ClientID = clientID

	if willFlag {
		will := &Will{QoS: willQoS, Retain: willRetain}

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

func decodeConnack311(payload []byte) (*ConnackPacket, error) {
	if len(payload) != 2 {
		return nil, ErrPayloadLengthMismatch
	}

	// Reserved bits (bits 7-1) must be 0
	if (payload[0] & 0xFE) != 0 {
		return nil, ErrMalformedPacket
	}

	return &ConnackPacket{
		SessionPresent: (payload[0] & 0x01) != 0,
		ReasonCode:     ReasonCode(payload[1]),
	}, nil
}

func decodePublish311(flags byte, payload []byte) (*PublishPacket, error) {
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

	if offset < len(payload) {
		p.Payload = make([]byte, len(payload)-offset)
		copy(p.Payload, payload[offset:])
	}
	return p, nil
}

func decodePuback311(payload []byte) (*PubackPacket, error) {
	if len(payload) != 2 {
		return nil, ErrPayloadLengthMismatch
	}
	return &PubackPacket{
		PacketID:   uint16(payload[0])<<8 | uint16(payload[1]),
		ReasonCode: ReasonSuccess,
	}, nil
}

func decodeSubscribe311(payload []byte) (*SubscribePacket, error) {
	p := &SubscribePacket{}

	packetID, n, err := readTwoByteIntFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.PacketID = packetID

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

		// Only the QoS bits exist in 3.1.1; the rest are reserved
		if (options & 0xFC) != 0 {
			return nil, ErrMalformedPacket
		}
		qos := QoS(options & 0x03)
		if !qos.IsValid() {
			return nil, ErrMalformedPacket
		}

		p.Subscriptions = append(p.Subscriptions, Subscription{
			TopicFilter: topicFilter,
			QoS:         qos,
		})
	}

	return p, nil
}

func decodeSuback311(payload []byte) (*SubackPacket, error) {
	p := &SubackPacket{}

	packetID, n, err := readTwoByteIntFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.PacketID = packetID

	p.ReasonCodes = make([]ReasonCode, 0, len(payload)-offset)
	for ; offset < len(payload); offset++ {
		p.ReasonCodes = append(p.ReasonCodes, ReasonCode(payload[offset]))
	}

	return p, nil
}

func decodeUnsubscribe311(payload []byte) (*UnsubscribePacket, error) {
	p := &UnsubscribePacket{}

	packetID, n, err := readTwoByteIntFromBytes(payload)
	if err != nil {
		return nil, truncated(err)
	}
	offset := n
	p.PacketID = packetID

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

func decodeUnsuback311(payload []byte) (*UnsubackPacket, error) {
	if len(payload) != 2 {
		return nil, ErrPayloadLengthMismatch
	}
	return &UnsubackPacket{
		PacketID: uint16(payload[0])<<8 | uint16(payload[1]),
	}, nil
}

func decodeDisconnect311(payload []byte) (*DisconnectPacket, error) {
	if len(payload) != 0 {
		return nil, ErrPayloadLengthMismatch
	}
	return &DisconnectPacket{ReasonCode: ReasonNormalDisconnection}, nil
}
