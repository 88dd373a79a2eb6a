package encoding

// MQTT 3.1.1 per-packet encoders. The 3.1.1 wire has no property sections and
// no reason codes outside CONNACK/SUBACK; 5.0-only fields on the packet
// structs are ignored here.

func appendConnectSteps311(l *StepList, p *ConnectPacket) error {
	if p.Will != nil && !p.Will.QoS.IsValid() {
		return ErrInvalidQoS
	}

	remaining := sizeUTF8String(protocolName) + 1 + 1 + 2
	remaining += sizeUTF8String(p.ClientID)
	if p.Will != nil {
		remaining += sizeUTF8String(p.Will.Topic)
		remaining += sizeBinaryData(p.Will.Payload)
	}
	if p.Username != nil {
		remaining += sizeUTF8String(*p.Username)
	}
	if p.Password != nil {
		remaining += sizeBinaryData(p.Password)
	}
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(CONNECT) << 4)
	l.vli(remaining)
	l.str(protocolName)
	l.u8(byte(ProtocolVersion311))
	l.u8(connectFlags(p))
	l.u16(p.KeepAlive)
	l.str(p.ClientID)
	if p.Will != nil {
		l.str(p.Will.Topic)
		l.bin(p.Will.Payload)
	}
	if p.Username != nil {
		l.str(*p.Username)
	}
	if p.Password != nil {
		l.bin(p.Password)
	}
	return nil
}

func appendConnackSteps311(l *StepList, p *ConnackPacket) error {
	l.u8(byte(CONNACK) << 4)
	l.vli(2)

	var ackFlags byte
	if p.SessionPresent {
		ackFlags |= 0x01
	}
	l.u8(ackFlags)
	l.u8(byte(p.ReasonCode))
	return nil
}

func appendPublishSteps311(l *StepList, p *PublishPacket) error {
	if !p.QoS.IsValid() {
		return ErrInvalidQoS
	}
	if p.QoS > QoS0 && p.PacketID == 0 {
		return ErrInvalidPacketIDZero
	}

	remaining := sizeUTF8String(p.TopicName) + uint32(len(p.Payload))
	if p.QoS > QoS0 {
		remaining += 2
	}
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(PUBLISH)<<4 | publishFlags(p.DUP, p.QoS, p.Retain))
	l.vli(remaining)
	l.str(p.TopicName)
	if p.QoS > QoS0 {
		l.u16(p.PacketID)
	}
	l.bytes(p.Payload)
	return nil
}

func appendPubackSteps311(l *StepList, p *PubackPacket) error {
	l.u8(byte(PUBACK) << 4)
	l.vli(2)
	l.u16(p.PacketID)
	return nil
}

func appendSubscribeSteps311(l *StepList, p *SubscribePacket) error {
	remaining := uint32(2)
	for i := range p.Subscriptions {
		if !p.Subscriptions[i].QoS.IsValid() {
			return ErrInvalidQoS
		}
		remaining += sizeUTF8String(p.Subscriptions[i].TopicFilter) + 1
	}
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(SUBSCRIBE)<<4 | 0x02)
	l.vli(remaining)
	l.u16(p.PacketID)
	for i := range p.Subscriptions {
		l.str(p.Subscriptions[i].TopicFilter)
		l.u8(byte(p.Subscriptions[i].QoS))
	}
	return nil
}

func appendSubackSteps311(l *StepList, p *SubackPacket) error {
	remaining := 2 + uint32(len(p.ReasonCodes))
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(SUBACK) << 4)
	l.vli(remaining)
	l.u16(p.PacketID)
	for _, rc := range p.ReasonCodes {
		l.u8(byte(rc))
	}
	return nil
}

func appendUnsubscribeSteps311(l *StepList, p *UnsubscribePacket) error {
	remaining := uint32(2)
	for _, filter := range p.TopicFilters {
		remaining += sizeUTF8String(filter)
	}
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(UNSUBSCRIBE)<<4 | 0x02)
	l.vli(remaining)
	l.u16(p.PacketID)
	for _, filter := range p.TopicFilters {
		l.str(filter)
	}
	return nil
}

func appendUnsubackSteps311(l *StepList, p *UnsubackPacket) error {
	l.u8(byte(UNSUBACK) << 4)
	l.vli(2)
	l.u16(p.PacketID)
	return nil
}

func appendDisconnectSteps311(l *StepList, p *DisconnectPacket) error {
	l.u8(byte(DISCONNECT) << 4)
	l.vli(0)
	return nil
}
