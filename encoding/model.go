package encoding

// Packet is the tagged union of all control packet variants this module
// encodes and decodes. A packet value is created by the caller (outbound) or
// by the streaming decoder (inbound) and may be freely copied.
//
// The same variants serve MQTT 3.1.1 and MQTT 5.0. Fields that only exist on
// the 5.0 wire are pointers (or nil-able slices); presence is tested with
// != nil, never against the field's value. The 3.1.1 encoders ignore those
// fields and the 3.1.1 decoders leave them nil.
type Packet interface {
	Type() PacketType
}

// UserProperty is a single name/value pair from a 5.0 user property entry.
// It is the only property that may repeat within one section; source order is
// preserved in both directions.
type UserProperty struct {
	Name  string
	Value string
}

// Will is the message the server publishes on the client's behalf after an
// abnormal disconnect, configured inside CONNECT. The property fields below
// QoS/Retain form the 5.0 will property section.
type Will struct {
	Topic   string
	Payload []byte
	QoS     QoS
	Retain  bool

	DelayInterval         *uint32
	PayloadFormat         *byte
	MessageExpiryInterval *uint32
	ContentType           *string
	ResponseTopic         *string
	CorrelationData       []byte
	UserProperties        []UserProperty
}

// ConnectPacket opens a connection. CleanStart doubles as the 3.1.1 clean
// session flag.
type ConnectPacket struct {
	ClientID   string
	KeepAlive  uint16
	CleanStart bool
	Will       *Will
	Username   *string
	Password   []byte

	SessionExpiryInterval      *uint32
	ReceiveMaximum             *uint16
	MaximumPacketSize          *uint32
	TopicAliasMaximum          *uint16
	RequestResponseInformation *byte
	RequestProblemInformation  *byte
	AuthenticationMethod       *string
	AuthenticationData         []byte
	UserProperties             []UserProperty
}

// ConnackPacket acknowledges a CONNECT. In 3.1.1 ReasonCode carries the
// return code and every property field stays nil.
type ConnackPacket struct {
	SessionPresent bool
	ReasonCode     ReasonCode

	SessionExpiryInterval            *uint32
	ReceiveMaximum                   *uint16
	MaximumQoS                       *byte
	RetainAvailable                  *byte
	MaximumPacketSize                *uint32
	AssignedClientIdentifier         *string
	TopicAliasMaximum                *uint16
	ReasonString                     *string
	WildcardSubscriptionsAvailable   *byte
	SubscriptionIdentifiersAvailable *byte
	SharedSubscriptionsAvailable     *byte
	ServerKeepAlive                  *uint16
	ResponseInformation              *string
	ServerReference                  *string
	AuthenticationMethod             *string
	AuthenticationData               []byte
	UserProperties                   []UserProperty
}

// PublishPacket is an application message in either direction. PacketID must
// be non-zero when QoS > 0 and is absent from the wire at QoS 0.
type PublishPacket struct {
	TopicName string
	PacketID  uint16
	QoS       QoS
	DUP       bool
	Retain    bool
	Payload   []byte

	PayloadFormat           *byte
	MessageExpiryInterval   *uint32
	TopicAlias              *uint16
	ResponseTopic           *string
	CorrelationData         []byte
	SubscriptionIdentifiers []uint32
	ContentType             *string
	UserProperties          []UserProperty
}

// PubackPacket acknowledges a QoS 1 PUBLISH. On the 5.0 wire the reason code
// and property section are elided when the reason is Success and no
// properties are present.
type PubackPacket struct {
	PacketID   uint16
	ReasonCode ReasonCode

	ReasonString   *string
	UserProperties []UserProperty
}

// Subscription is one topic filter plus its option flags. The option flags
// beyond QoS only exist on the 5.0 wire.
type Subscription struct {
	TopicFilter       string
	QoS               QoS
	NoLocal           bool
	RetainAsPublished bool
	RetainHandling    byte
}

// SubscribePacket requests one or more subscriptions
type SubscribePacket struct {
	PacketID      uint16
	Subscriptions []Subscription

	SubscriptionIdentifier *uint32
	UserProperties         []UserProperty
}

// SubackPacket carries one reason code per requested subscription, in order
type SubackPacket struct {
	PacketID    uint16
	ReasonCodes []ReasonCode

	ReasonString   *string
	UserProperties []UserProperty
}

// UnsubscribePacket removes one or more subscriptions
type UnsubscribePacket struct {
	PacketID     uint16
	TopicFilters []string

	UserProperties []UserProperty
}

// UnsubackPacket acknowledges an UNSUBSCRIBE. 3.1.1 carries no reason codes;
// its decoder leaves ReasonCodes nil.
type UnsubackPacket struct {
	PacketID    uint16
	ReasonCodes []ReasonCode

	ReasonString   *string
	UserProperties []UserProperty
}

// PingreqPacket has no fields
type PingreqPacket struct{}

// PingrespPacket has no fields
type PingrespPacket struct{}

// DisconnectPacket closes the connection. On the 5.0 wire the reason code and
// property section are elided when the reason is NormalDisconnection and no
// properties are present; 3.1.1 always encodes the two-byte form.
type DisconnectPacket struct {
	ReasonCode ReasonCode

	SessionExpiryInterval *uint32
	ReasonString          *string
	ServerReference       *string
	UserProperties        []UserProperty
}

func (p *ConnectPacket) Type() PacketType     { return CONNECT }
func (p *ConnackPacket) Type() PacketType     { return CONNACK }
func (p *PublishPacket) Type() PacketType     { return PUBLISH }
func (p *PubackPacket) Type() PacketType      { return PUBACK }
func (p *SubscribePacket) Type() PacketType   { return SUBSCRIBE }
func (p *SubackPacket) Type() PacketType      { return SUBACK }
func (p *UnsubscribePacket) Type() PacketType { return UNSUBSCRIBE }
func (p *UnsubackPacket) Type() PacketType    { return UNSUBACK }
func (p *PingreqPacket) Type() PacketType     { return PINGREQ }
func (p *PingrespPacket) Type() PacketType    { return PINGRESP }
func (p *DisconnectPacket) Type() PacketType  { return DISCONNECT }
