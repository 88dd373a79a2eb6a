package encoding

// MQTT 5.0 per-packet encoders. Each function validates the caller-supplied
// packet, precomputes the property section and remaining lengths, and appends
// the complete ordered step list: fixed-header first byte, remaining-length
// VLI, variable header, property section, payload.

// connectFlags packs the CONNECT flags byte. The presence bits mirror exactly
// which optional fields the payload emitters encode.
func connectFlags(p *ConnectPacket) byte {
	var flags byte
	if p.CleanStart {
		flags |= 0x02
	}
	if p.Will != nil {
		flags |= 0x04
		flags |= byte(p.Will.QoS) << 3
		if p.Will.Retain {
			flags |= 0x20
		}
	}
	if p.Password != nil {
		flags |= 0x40
	}
	if p.Username != nil {
		flags |= 0x80
	}
	return flags
}

func checkRemainingLength(remaining uint32) error {
	if remaining > MaxVariableByteInteger {
		return ErrVariableByteIntegerTooLarge
	}
	return nil
}

func appendConnectSteps50(l *StepList, p *ConnectPacket) error {
	if p.Will != nil && !p.Will.QoS.IsValid() {
		return ErrInvalidQoS
	}

	propLen := connectPropertiesLength(p)

	// Variable header: protocol name, version, connect flags, keep alive,
	// properties
	remaining := sizeUTF8String(protocolName) + 1 + 1 + 2
	remaining += uint32(SizeVariableByteInteger(propLen)) + propLen

	// Payload
	remaining += sizeUTF8String(p.ClientID)
	if p.Will != nil {
		willPropLen := willPropertiesLength(p.Will)
		remaining += uint32(SizeVariableByteInteger(willPropLen)) + willPropLen
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
	l.u8(byte(ProtocolVersion50))
	l.u8(connectFlags(p))
	l.u16(p.KeepAlive)
	appendConnectProperties(l, p)
	l.str(p.ClientID)
	if p.Will != nil {
		appendWillProperties(l, p.Will)
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

func appendConnackSteps50(l *StepList, p *ConnackPacket) error {
	propLen := connackPropertiesLength(p)
	remaining := 2 + uint32(SizeVariableByteInteger(propLen)) + propLen
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(CONNACK) << 4)
	l.vli(remaining)

	var ackFlags byte
	if p.SessionPresent {
		ackFlags |= 0x01
	}
	l.u8(ackFlags)
	l.u8(byte(p.ReasonCode))
	appendConnackProperties(l, p)
	return nil
}

func appendPublishSteps50(l *StepList, p *PublishPacket) error {
	if !p.QoS.IsValid() {
		return ErrInvalidQoS
	}
	if p.QoS > QoS0 && p.PacketID == 0 {
		return ErrInvalidPacketIDZero
	}

	propLen := publishPropertiesLength(p)
	remaining := sizeUTF8String(p.TopicName)
	if p.QoS > QoS0 {
		remaining += 2
	}
	remaining += uint32(SizeVariableByteInteger(propLen)) + propLen
	remaining += uint32(len(p.Payload))
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(PUBLISH)<<4 | publishFlags(p.DUP, p.QoS, p.Retain))
	l.vli(remaining)
	l.str(p.TopicName)
	if p.QoS > QoS0 {
		l.u16(p.PacketID)
	}
	appendPublishProperties(l, p)
	l.bytes(p.Payload)
	return nil
}

func appendPubackSteps50(l *StepList, p *PubackPacket) error {
	propLen := ackPropertiesLength(p.ReasonString, p.UserProperties)

	// With no properties the trailing bytes are elided: success drops the
	// reason code too (two-byte form), any other reason keeps just the code
	if propLen == 0 {
		l.u8(byte(PUBACK) << 4)
		if p.ReasonCode == ReasonSuccess {
			l.vli(2)
			l.u16(p.PacketID)
		} else {
			l.vli(3)
			l.u16(p.PacketID)
			l.u8(byte(p.ReasonCode))
		}
		return nil
	}

	remaining := 3 + uint32(SizeVariableByteInteger(propLen)) + propLen
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(PUBACK) << 4)
	l.vli(remaining)
	l.u16(p.PacketID)
	l.u8(byte(p.ReasonCode))
	appendAckProperties(l, p.ReasonString, p.UserProperties)
	return nil
}

// subscriptionOptions packs the 5.0 subscription option byte: QoS in bits
// 1-0, No Local in bit 2, Retain As Published in bit 3, Retain Handling in
// bits 5-4.
func subscriptionOptions(s *Subscription) byte {
	options := byte(s.QoS) & 0x03
	if s.NoLocal {
		options |= 0x04
	}
	if s.RetainAsPublished {
		options |= 0x08
	}
	options |= (s.RetainHandling & 0x03) << 4
	return options
}

func appendSubscribeSteps50(l *StepList, p *SubscribePacket) error {
	propLen := subscribePropertiesLength(p)
	remaining := 2 + uint32(SizeVariableByteInteger(propLen)) + propLen
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
	appendSubscribeProperties(l, p)
	for i := range p.Subscriptions {
		l.str(p.Subscriptions[i].TopicFilter)
		l.u8(subscriptionOptions(&p.Subscriptions[i]))
	}
	return nil
}

func appendSubackSteps50(l *StepList, p *SubackPacket) error {
	propLen := ackPropertiesLength(p.ReasonString, p.UserProperties)
	remaining := 2 + uint32(SizeVariableByteInteger(propLen)) + propLen + uint32(len(p.ReasonCodes))
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(SUBACK) << 4)
	l.vli(remaining)
	l.u16(p.PacketID)
	appendAckProperties(l, p.ReasonString, p.UserProperties)
	for _, rc := range p.ReasonCodes {
		l.u8(byte(rc))
	}
	return nil
}

func appendUnsubscribeSteps50(l *StepList, p *UnsubscribePacket) error {
	propLen := unsubscribePropertiesLength(p)
	remaining := 2 + uint32(SizeVariableByteInteger(propLen)) + propLen
	for _, filter := range p.TopicFilters {
		remaining += sizeUTF8String(filter)
	}
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(UNSUBSCRIBE)<<4 | 0x02)
	l.vli(remaining)
	l.u16(p.PacketID)
	appendUnsubscribeProperties(l, p)
	for _, filter := range p.TopicFilters {
		l.str(filter)
	}
	return nil
}

func appendUnsubackSteps50(l *StepList, p *UnsubackPacket) error {
	propLen := ackPropertiesLength(p.ReasonString, p.UserProperties)
	remaining := 2 + uint32(SizeVariableByteInteger(propLen)) + propLen + uint32(len(p.ReasonCodes))
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(UNSUBACK) << 4)
	l.vli(remaining)
	l.u16(p.PacketID)
	appendAckProperties(l, p.ReasonString, p.UserProperties)
	for _, rc := range p.ReasonCodes {
		l.u8(byte(rc))
	}
	return nil
}

func appendPingreqSteps(l *StepList) error {
	l.u8(byte(PINGREQ) << 4)
	l.vli(0)
	return nil
}

func appendPingrespSteps(l *StepList) error {
	l.u8(byte(PINGRESP) << 4)
	l.vli(0)
	return nil
}

func appendDisconnectSteps50(l *StepList, p *DisconnectPacket) error {
	propLen := disconnectPropertiesLength(p)

	// With no properties the property section is elided; a normal
	// disconnection additionally drops the reason code (empty form)
	if propLen == 0 {
		l.u8(byte(DISCONNECT) << 4)
		if p.ReasonCode == ReasonNormalDisconnection {
			l.vli(0)
		} else {
			l.vli(1)
			l.u8(byte(p.ReasonCode))
		}
		return nil
	}

	remaining := 1 + uint32(SizeVariableByteInteger(propLen)) + propLen
	if err := checkRemainingLength(remaining); err != nil {
		return err
	}

	l.u8(byte(DISCONNECT) << 4)
	l.vli(remaining)
	l.u8(byte(p.ReasonCode))
	appendDisconnectProperties(l, p)
	return nil
}
