package encoding

import "errors"

// PropertyID represents MQTT 5.0 property identifiers
type PropertyID byte

const (
	PropPayloadFormatIndicator          PropertyID = 0x01
	PropMessageExpiryInterval           PropertyID = 0x02
	PropContentType                     PropertyID = 0x03
	PropResponseTopic                   PropertyID = 0x08
	PropCorrelationData                 PropertyID = 0x09
	PropSubscriptionIdentifier          PropertyID = 0x0B
	PropSessionExpiryInterval           PropertyID = 0x11
	PropAssignedClientIdentifier        PropertyID = 0x12
	PropServerKeepAlive                 PropertyID = 0x13
	PropAuthenticationMethod            PropertyID = 0x15
	PropAuthenticationData              PropertyID = 0x16
	PropRequestProblemInformation       PropertyID = 0x17
	PropWillDelayInterval               PropertyID = 0x18
	PropRequestResponseInformation      PropertyID = 0x19
	PropResponseInformation             PropertyID = 0x1A
	PropServerReference                 PropertyID = 0x1C
	PropReasonString                    PropertyID = 0x1F
	PropReceiveMaximum                  PropertyID = 0x21
	PropTopicAliasMaximum               PropertyID = 0x22
	PropTopicAlias                      PropertyID = 0x23
	PropMaximumQoS                      PropertyID = 0x24
	PropRetainAvailable                 PropertyID = 0x25
	PropUserProperty                    PropertyID = 0x26
	PropMaximumPacketSize               PropertyID = 0x27
	PropWildcardSubscriptionAvailable   PropertyID = 0x28
	PropSubscriptionIdentifierAvailable PropertyID = 0x29
	PropSharedSubscriptionAvailable     PropertyID = 0x2A
)

// Each packet type that carries a property section has a sizing function, a
// step emitter, and a decoder below. The emitter's order is the canonical
// encode order; the decoders accept entries in any order. A code outside the
// set permitted for the packet type fails with ErrInvalidPropertyID, and a
// value running past the declared section length fails with
// ErrInvalidPropertyLength. Decoders return the final offset, i.e. the VLI
// length prefix plus the declared section length.

func userPropertiesLength(ups []UserProperty) uint32 {
	var n uint32
	for _, up := range ups {
		n += 1 + sizeUTF8String(up.Name) + sizeUTF8String(up.Value)
	}
	return n
}

func appendUserProperties(l *StepList, ups []UserProperty) {
	for _, up := range ups {
		l.u8(byte(PropUserProperty))
		l.str(up.Name)
		l.str(up.Value)
	}
}

// boundedRead remaps a short read inside a property section to the section
// overflow error: the declared section length, not the packet end, is the
// bound that was violated.
func boundedRead(err error) error {
	if errors.Is(err, ErrUnexpectedEOF) {
		return ErrInvalidPropertyLength
	}
	return err
}

func readUserProperty(data []byte) (UserProperty, int, error) {
	name, n, err := readUTF8StringFromBytes(data)
	if err != nil {
		return UserProperty{}, 0, err
	}
	value, m, err := readUTF8StringFromBytes(data[n:])
	if err != nil {
		return UserProperty{}, 0, err
	}
	return UserProperty{Name: name, Value: value}, n + m, nil
}

// readPropertyHeader reads the section length VLI and bounds-checks it
// against the payload remainder. It returns the offset of the first entry and
// the offset one past the last.
func readPropertyHeader(data []byte) (offset, end int, err error) {
	propLen, n, err := DecodeVariableByteIntegerFromBytes(data)
	if err != nil {
		return 0, 0, err
	}
	end = n + int(propLen)
	if end > len(data) {
		return 0, 0, ErrInvalidPropertyLength
	}
	return n, end, nil
}

// CONNECT properties

func connectPropertiesLength(p *ConnectPacket) uint32 {
	var n uint32
	if p.SessionExpiryInterval != nil {
		n += 5
	}
	if p.ReceiveMaximum != nil {
		n += 3
	}
	if p.MaximumPacketSize != nil {
		n += 5
	}
	if p.TopicAliasMaximum != nil {
		n += 3
	}
	if p.RequestResponseInformation != nil {
		n += 2
	}
	if p.RequestProblemInformation != nil {
		n += 2
	}
	if p.AuthenticationMethod != nil {
		n += 1 + sizeUTF8String(*p.AuthenticationMethod)
	}
	if p.AuthenticationData != nil {
		n += 1 + sizeBinaryData(p.AuthenticationData)
	}
	n += userPropertiesLength(p.UserProperties)
	return n
}

func appendConnectProperties(l *StepList, p *ConnectPacket) {
	l.vli(connectPropertiesLength(p))
	if p.SessionExpiryInterval != nil {
		l.u8(byte(PropSessionExpiryInterval))
		l.u32(*p.SessionExpiryInterval)
	}
	if p.ReceiveMaximum != nil {
		l.u8(byte(PropReceiveMaximum))
		l.u16(*p.ReceiveMaximum)
	}
	if p.MaximumPacketSize != nil {
		l.u8(byte(PropMaximumPacketSize))
		l.u32(*p.MaximumPacketSize)
	}
	if p.TopicAliasMaximum != nil {
		l.u8(byte(PropTopicAliasMaximum))
		l.u16(*p.TopicAliasMaximum)
	}
	if p.RequestResponseInformation != nil {
		l.u8(byte(PropRequestResponseInformation))
		l.u8(*p.RequestResponseInformation)
	}
	if p.RequestProblemInformation != nil {
		l.u8(byte(PropRequestProblemInformation))
		l.u8(*p.RequestProblemInformation)
	}
	if p.AuthenticationMethod != nil {
		l.u8(byte(PropAuthenticationMethod))
		l.str(*p.AuthenticationMethod)
	}
	if p.AuthenticationData != nil {
		l.u8(byte(PropAuthenticationData))
		l.bin(p.AuthenticationData)
	}
	appendUserProperties(l, p.UserProperties)
}

func decodeConnectProperties(p *ConnectPacket, data []byte) (int, error) {
	offset, end, err := readPropertyHeader(data)
	if err != nil {
		return 0, err
	}

	for offset < end {
		id := PropertyID(data[offset])
		offset++

		var consumed int
		var err error
		section := data[offset:end]

		switch id {
		case PropSessionExpiryInterval:
			var v uint32
			v, consumed, err = readFourByteIntFromBytes(section)
			p.SessionExpiryInterval = &v
		case PropReceiveMaximum:
			var v uint16
			v, consumed, err = readTwoByteIntFromBytes(section)
			p.ReceiveMaximum = &v
		case PropMaximumPacketSize:
			var v uint32
			v, consumed, err = readFourByteIntFromBytes(section)
			p.MaximumPacketSize = &v
		case PropTopicAliasMaximum:
			var v uint16
			v, consumed, err = readTwoByteIntFromBytes(section)
			p.TopicAliasMaximum = &v
		case PropRequestResponseInformation:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			p.RequestResponseInformation = &v
		case PropRequestProblemInformation:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			p.RequestProblemInformation = &v
		case PropAuthenticationMethod:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.AuthenticationMethod = &v
		case PropAuthenticationData:
			p.AuthenticationData, consumed, err = readBinaryDataFromBytes(section)
		case PropUserProperty:
			var up UserProperty
			up, consumed, err = readUserProperty(section)
			p.UserProperties = append(p.UserProperties, up)
		default:
			return 0, ErrInvalidPropertyID
		}

		if err != nil {
			return 0, boundedRead(err)
		}
		offset += consumed
	}

	if offset != end {
		return 0, ErrPropertyLengthMismatch
	}
	return end, nil
}

// Will properties

func willPropertiesLength(w *Will) uint32 {
	var n uint32
	if w.DelayInterval != nil {
		n += 5
	}
	if w.PayloadFormat != nil {
		n += 2
	}
	if w.MessageExpiryInterval != nil {
		n += 5
	}
	if w.ContentType != nil {
		n += 1 + sizeUTF8String(*w.ContentType)
	}
	if w.ResponseTopic != nil {
		n += 1 + sizeUTF8String(*w.ResponseTopic)
	}
	if w.CorrelationData != nil {
		n += 1 + sizeBinaryData(w.CorrelationData)
	}
	n += userPropertiesLength(w.UserProperties)
	return n
}

func appendWillProperties(l *StepList, w *Will) {
	l.vli(willPropertiesLength(w))
	if w.DelayInterval != nil {
		l.u8(byte(PropWillDelayInterval))
		l.u32(*w.DelayInterval)
	}
	if w.PayloadFormat != nil {
		l.u8(byte(PropPayloadFormatIndicator))
		l.u8(*w.PayloadFormat)
	}
	if w.MessageExpiryInterval != nil {
		l.u8(byte(PropMessageExpiryInterval))
		l.u32(*w.MessageExpiryInterval)
	}
	if w.ContentType != nil {
		l.u8(byte(PropContentType))
		l.str(*w.ContentType)
	}
	if w.ResponseTopic != nil {
		l.u8(byte(PropResponseTopic))
		l.str(*w.ResponseTopic)
	}
	if w.CorrelationData != nil {
		l.u8(byte(PropCorrelationData))
		l.bin(w.CorrelationData)
	}
	appendUserProperties(l, w.UserProperties)
}

func decodeWillProperties(w *Will, data []byte) (int, error) {
	offset, end, err := readPropertyHeader(data)
	if err != nil {
		return 0, err
	}

	for offset < end {
		id := PropertyID(data[offset])
		offset++

		var consumed int
		var err error
		section := data[offset:end]

		switch id {
		case PropWillDelayInterval:
			var v uint32
			v, consumed, err = readFourByteIntFromBytes(section)
			w.DelayInterval = &v
		case PropPayloadFormatIndicator:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			w.PayloadFormat = &v
		case PropMessageExpiryInterval:
			var v uint32
			v, consumed, err = readFourByteIntFromBytes(section)
			w.MessageExpiryInterval = &v
		case PropContentType:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			w.ContentType = &v
		case PropResponseTopic:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			w.ResponseTopic = &v
		case PropCorrelationData:
			w.CorrelationData, consumed, err = readBinaryDataFromBytes(section)
		case PropUserProperty:
			var up UserProperty
			up, consumed, err = readUserProperty(section)
			w.UserProperties = append(w.UserProperties, up)
		default:
			return 0, ErrInvalidPropertyID
		}

		if err != nil {
			return 0, boundedRead(err)
		}
		offset += consumed
	}

	if offset != end {
		return 0, ErrPropertyLengthMismatch
	}
	return end, nil
}

// CONNACK properties

func connackPropertiesLength(p *ConnackPacket) uint32 {
	var n uint32
	if p.SessionExpiryInterval != nil {
		n += 5
	}
	if p.ReceiveMaximum != nil {
		n += 3
	}
	if p.MaximumQoS != nil {
		n += 2
	}
	if p.RetainAvailable != nil {
		n += 2
	}
	if p.MaximumPacketSize != nil {
		n += 5
	}
	if p.AssignedClientIdentifier != nil {
		n += 1 + sizeUTF8String(*p.AssignedClientIdentifier)
	}
	if p.TopicAliasMaximum != nil {
		n += 3
	}
	if p.ReasonString != nil {
		n += 1 + sizeUTF8String(*p.ReasonString)
	}
	if p.WildcardSubscriptionsAvailable != nil {
		n += 2
	}
	if p.SubscriptionIdentifiersAvailable != nil {
		n += 2
	}
	if p.SharedSubscriptionsAvailable != nil {
		n += 2
	}
	if p.ServerKeepAlive != nil {
		n += 3
	}
	if p.ResponseInformation != nil {
		n += 1 + sizeUTF8String(*p.ResponseInformation)
	}
	if p.ServerReference != nil {
		n += 1 + sizeUTF8String(*p.ServerReference)
	}
	if p.AuthenticationMethod != nil {
		n += 1 + sizeUTF8String(*p.AuthenticationMethod)
	}
	if p.AuthenticationData != nil {
		n += 1 + sizeBinaryData(p.AuthenticationData)
	}
	n += userPropertiesLength(p.UserProperties)
	return n
}

func appendConnackProperties(l *StepList, p *ConnackPacket) {
	l.vli(connackPropertiesLength(p))
	if p.SessionExpiryInterval != nil {
		l.u8(byte(PropSessionExpiryInterval))
		l.u32(*p.SessionExpiryInterval)
	}
	if p.ReceiveMaximum != nil {
		l.u8(byte(PropReceiveMaximum))
		l.u16(*p.ReceiveMaximum)
	}
	if p.MaximumQoS != nil {
		l.u8(byte(PropMaximumQoS))
		l.u8(*p.MaximumQoS)
	}
	if p.RetainAvailable != nil {
		l.u8(byte(PropRetainAvailable))
		l.u8(*p.RetainAvailable)
	}
	if p.MaximumPacketSize != nil {
		l.u8(byte(PropMaximumPacketSize))
		l.u32(*p.MaximumPacketSize)
	}
	if p.AssignedClientIdentifier != nil {
		l.u8(byte(PropAssignedClientIdentifier))
		l.str(*p.AssignedClientIdentifier)
	}
	if p.TopicAliasMaximum != nil {
		l.u8(byte(PropTopicAliasMaximum))
		l.u16(*p.TopicAliasMaximum)
	}
	if p.ReasonString != nil {
		l.u8(byte(PropReasonString))
		l.str(*p.ReasonString)
	}
	if p.WildcardSubscriptionsAvailable != nil {
		l.u8(byte(PropWildcardSubscriptionAvailable))
		l.u8(*p.WildcardSubscriptionsAvailable)
	}
	if p.SubscriptionIdentifiersAvailable != nil {
		l.u8(byte(PropSubscriptionIdentifierAvailable))
		l.u8(*p.SubscriptionIdentifiersAvailable)
	}
	if p.SharedSubscriptionsAvailable != nil {
		l.u8(byte(PropSharedSubscriptionAvailable))
		l.u8(*p.SharedSubscriptionsAvailable)
	}
	if p.ServerKeepAlive != nil {
		l.u8(byte(PropServerKeepAlive))
		l.u16(*p.ServerKeepAlive)
	}
	if p.ResponseInformation != nil {
		l.u8(byte(PropResponseInformation))
		l.str(*p.ResponseInformation)
	}
	if p.ServerReference != nil {
		l.u8(byte(PropServerReference))
		l.str(*p.ServerReference)
	}
	if p.AuthenticationMethod != nil {
		l.u8(byte(PropAuthenticationMethod))
		l.str(*p.AuthenticationMethod)
	}
	if p.AuthenticationData != nil {
		l.u8(byte(PropAuthenticationData))
		l.bin(p.AuthenticationData)
	}
	appendUserProperties(l, p.UserProperties)
}

func decodeConnackProperties(p *ConnackPacket, data []byte) (int, error) {
	offset, end, err := readPropertyHeader(data)
	if err != nil {
		return 0, err
	}

	for offset < end {
		id := PropertyID(data[offset])
		offset++

		var consumed int
		var err error
		section := data[offset:end]

		switch id {
		case PropSessionExpiryInterval:
			var v uint32
			v, consumed, err = readFourByteIntFromBytes(section)
			p.SessionExpiryInterval = &v
		case PropReceiveMaximum:
			var v uint16
			v, consumed, err = readTwoByteIntFromBytes(section)
			p.ReceiveMaximum = &v
		case PropMaximumQoS:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			p.MaximumQoS = &v
		case PropRetainAvailable:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			p.RetainAvailable = &v
		case PropMaximumPacketSize:
			var v uint32
			v, consumed, err = readFourByteIntFromBytes(section)
			p.MaximumPacketSize = &v
		case PropAssignedClientIdentifier:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.AssignedClientIdentifier = &v
		case PropTopicAliasMaximum:
			var v uint16
			v, consumed, err = readTwoByteIntFromBytes(section)
			p.TopicAliasMaximum = &v
		case PropReasonString:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.ReasonString = &v
		case PropWildcardSubscriptionAvailable:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			p.WildcardSubscriptionsAvailable = &v
		case PropSubscriptionIdentifierAvailable:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			p.SubscriptionIdentifiersAvailable = &v
		case PropSharedSubscriptionAvailable:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			p.SharedSubscriptionsAvailable = &v
		case PropServerKeepAlive:
			var v uint16
			v, consumed, err = readTwoByteIntFromBytes(section)
			p.ServerKeepAlive = &v
		case PropResponseInformation:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.ResponseInformation = &v
		case PropServerReference:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.ServerReference = &v
		case PropAuthenticationMethod:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.AuthenticationMethod = &v
		case PropAuthenticationData:
			p.AuthenticationData, consumed, err = readBinaryDataFromBytes(section)
		case PropUserProperty:
			var up UserProperty
			up, consumed, err = readUserProperty(section)
			p.UserProperties = append(p.UserProperties, up)
		default:
			return 0, ErrInvalidPropertyID
		}

		if err != nil {
			return 0, boundedRead(err)
		}
		offset += consumed
	}

	if offset != end {
		return 0, ErrPropertyLengthMismatch
	}
	return end, nil
}

// PUBLISH properties

func publishPropertiesLength(p *PublishPacket) uint32 {
	var n uint32
	if p.PayloadFormat != nil {
		n += 2
	}
	if p.MessageExpiryInterval != nil {
		n += 5
	}
	if p.TopicAlias != nil {
		n += 3
	}
	if p.ResponseTopic != nil {
		n += 1 + sizeUTF8String(*p.ResponseTopic)
	}
	if p.CorrelationData != nil {
		n += 1 + sizeBinaryData(p.CorrelationData)
	}
	for _, id := range p.SubscriptionIdentifiers {
		n += 1 + uint32(SizeVariableByteInteger(id))
	}
	if p.ContentType != nil {
		n += 1 + sizeUTF8String(*p.ContentType)
	}
	n += userPropertiesLength(p.UserProperties)
	return n
}

func appendPublishProperties(l *StepList, p *PublishPacket) {
	l.vli(publishPropertiesLength(p))
	if p.PayloadFormat != nil {
		l.u8(byte(PropPayloadFormatIndicator))
		l.u8(*p.PayloadFormat)
	}
	if p.MessageExpiryInterval != nil {
		l.u8(byte(PropMessageExpiryInterval))
		l.u32(*p.MessageExpiryInterval)
	}
	if p.TopicAlias != nil {
		l.u8(byte(PropTopicAlias))
		l.u16(*p.TopicAlias)
	}
	if p.ResponseTopic != nil {
		l.u8(byte(PropResponseTopic))
		l.str(*p.ResponseTopic)
	}
	if p.CorrelationData != nil {
		l.u8(byte(PropCorrelationData))
		l.bin(p.CorrelationData)
	}
	for _, id := range p.SubscriptionIdentifiers {
		l.u8(byte(PropSubscriptionIdentifier))
		l.vli(id)
	}
	if p.ContentType != nil {
		l.u8(byte(PropContentType))
		l.str(*p.ContentType)
	}
	appendUserProperties(l, p.UserProperties)
}

func decodePublishProperties(p *PublishPacket, data []byte) (int, error) {
	offset, end, err := readPropertyHeader(data)
	if err != nil {
		return 0, err
	}

	for offset < end {
		id := PropertyID(data[offset])
		offset++

		var consumed int
		var err error
		section := data[offset:end]

		switch id {
		case PropPayloadFormatIndicator:
			var v byte
			v, consumed, err = readByteFromBytes(section)
			p.PayloadFormat = &v
		case PropMessageExpiryInterval:
			var v uint32
			v, consumed, err = readFourByteIntFromBytes(section)
			p.MessageExpiryInterval = &v
		case PropTopicAlias:
			var v uint16
			v, consumed, err = readTwoByteIntFromBytes(section)
			p.TopicAlias = &v
		case PropResponseTopic:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.ResponseTopic = &v
		case PropCorrelationData:
			p.CorrelationData, consumed, err = readBinaryDataFromBytes(section)
		case PropSubscriptionIdentifier:
			var v uint32
			v, consumed, err = DecodeVariableByteIntegerFromBytes(section)
			p.SubscriptionIdentifiers = append(p.SubscriptionIdentifiers, v)
		case PropContentType:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.ContentType = &v
		case PropUserProperty:
			var up UserProperty
			up, consumed, err = readUserProperty(section)
			p.UserProperties = append(p.UserProperties, up)
		default:
			return 0, ErrInvalidPropertyID
		}

		if err != nil {
			return 0, boundedRead(err)
		}
		offset += consumed
	}

	if offset != end {
		return 0, ErrPropertyLengthMismatch
	}
	return end, nil
}

// Acknowledgement properties: PUBACK, SUBACK and UNSUBACK all carry exactly a
// reason string plus user properties.

func ackPropertiesLength(reasonString *string, ups []UserProperty) uint32 {
	var n uint32
	if reasonString != nil {
		n += 1 + sizeUTF8String(*reasonString)
	}
	n += userPropertiesLength(ups)
	return n
}

func appendAckProperties(l *StepList, reasonString *string, ups []UserProperty) {
	l.vli(ackPropertiesLength(reasonString, ups))
	if reasonString != nil {
		l.u8(byte(PropReasonString))
		l.str(*reasonString)
	}
	appendUserProperties(l, ups)
}

func decodeAckProperties(reasonString **string, ups *[]UserProperty, data []byte) (int, error) {
	offset, end, err := readPropertyHeader(data)
	if err != nil {
		return 0, err
	}

	for offset < end {
		id := PropertyID(data[offset])
		offset++

		var consumed int
		var err error
		section := data[offset:end]

		switch id {
		case PropReasonString:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			*reasonString = &v
		case PropUserProperty:
			var up UserProperty
			up, consumed, err = readUserProperty(section)
			*ups = append(*ups, up)
		default:
			return 0, ErrInvalidPropertyID
		}

		if err != nil {
			return 0, boundedRead(err)
		}
		offset += consumed
	}

	if offset != end {
		return 0, ErrPropertyLengthMismatch
	}
	return end, nil
}

// SUBSCRIBE properties

func subscribePropertiesLength(p *SubscribePacket) uint32 {
	var n uint32
	if p.SubscriptionIdentifier != nil {
		n += 1 + uint32(SizeVariableByteInteger(*p.SubscriptionIdentifier))
	}
	n += userPropertiesLength(p.UserProperties)
	return n
}

func appendSubscribeProperties(l *StepList, p *SubscribePacket) {
	l.vli(subscribePropertiesLength(p))
	if p.SubscriptionIdentifier != nil {
		l.u8(byte(PropSubscriptionIdentifier))
		l.vli(*p.SubscriptionIdentifier)
	}
	appendUserProperties(l, p.UserProperties)
}

func decodeSubscribeProperties(p *SubscribePacket, data []byte) (int, error) {
	offset, end, err := readPropertyHeader(data)
	if err != nil {
		return 0, err
	}

	for offset < end {
		id := PropertyID(data[offset])
		offset++

		var consumed int
		var err error
		section := data[offset:end]

		switch id {
		case PropSubscriptionIdentifier:
			var v uint32
			v, consumed, err = DecodeVariableByteIntegerFromBytes(section)
			p.SubscriptionIdentifier = &v
		case PropUserProperty:
			var up UserProperty
			up, consumed, err = readUserProperty(section)
			p.UserProperties = append(p.UserProperties, up)
		default:
			return 0, ErrInvalidPropertyID
		}

		if err != nil {
			return 0, boundedRead(err)
		}
		offset += consumed
	}

	if offset != end {
		return 0, ErrPropertyLengthMismatch
	}
	return end, nil
}

// UNSUBSCRIBE properties

func unsubscribePropertiesLength(p *UnsubscribePacket) uint32 {
	return userPropertiesLength(p.UserProperties)
}

func appendUnsubscribeProperties(l *StepList, p *UnsubscribePacket) {
	l.vli(unsubscribePropertiesLength(p))
	appendUserProperties(l, p.UserProperties)
}

func decodeUnsubscribeProperties(p *UnsubscribePacket, data []byte) (int, error) {
	offset, end, err := readPropertyHeader(data)
	if err != nil {
		return 0, err
	}

	for offset < end {
		id := PropertyID(data[offset])
		offset++

		var consumed int
		var err error
		section := data[offset:end]

		switch id {
		case PropUserProperty:
			var up UserProperty
			up, consumed, err = readUserProperty(section)
			p.UserProperties = append(p.UserProperties, up)
		default:
			return 0, ErrInvalidPropertyID
		}

		if err != nil {
			return 0, boundedRead(err)
		}
		offset += consumed
	}

	if offset != end {
		return 0, ErrPropertyLengthMismatch
	}
	return end, nil
}

// DISCONNECT properties

func disconnectPropertiesLength(p *DisconnectPacket) uint32 {
	var n uint32
	if p.SessionExpiryInterval != nil {
		n += 5
	}
	if p.ReasonString != nil {
		n += 1 + sizeUTF8String(*p.ReasonString)
	}
	if p.ServerReference != nil {
		n += 1 + sizeUTF8String(*p.ServerReference)
	}
	n += userPropertiesLength(p.UserProperties)
	return n
}

func appendDisconnectProperties(l *StepList, p *DisconnectPacket) {
	l.vli(disconnectPropertiesLength(p))
	if p.SessionExpiryInterval != nil {
		l.u8(byte(PropSessionExpiryInterval))
		l.u32(*p.SessionExpiryInterval)
	}
	if p.ReasonString != nil {
		l.u8(byte(PropReasonString))
		l.str(*p.ReasonString)
	}
	if p.ServerReference != nil {
		l.u8(byte(PropServerReference))
		l.str(*p.ServerReference)
	}
	appendUserProperties(l, p.UserProperties)
}

func decodeDisconnectProperties(p *DisconnectPacket, data []byte) (int, error) {
	offset, end, err := readPropertyHeader(data)
	if err != nil {
		return 0, err
	}

	for offset < end {
		id := PropertyID(data[offset])
		offset++

		var consumed int
		var err error
		section := data[offset:end]

		switch id {
		case PropSessionExpiryInterval:
			var v uint32
			v, consumed, err = readFourByteIntFromBytes(section)
			p.SessionExpiryInterval = &v
		case PropReasonString:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.ReasonString = &v
		case PropServerReference:
			var v string
			v, consumed, err = readUTF8StringFromBytes(section)
			p.ServerReference = &v
		case PropUserProperty:
			var up UserProperty
			up, consumed, err = readUserProperty(section)
			p.UserProperties = append(p.UserProperties, up)
		default:
			return 0, ErrInvalidPropertyID
		}

		if err != nil {
			return 0, boundedRead(err)
		}
		offset += consumed
	}

	if offset != end {
		return 0, ErrPropertyLengthMismatch
	}
	return end, nil
}
