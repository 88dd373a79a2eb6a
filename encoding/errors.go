package encoding

import "errors"

var (
	// ErrVariableByteIntegerTooLarge indicates the value exceeds the maximum encodable value (268,435,455)
	ErrVariableByteIntegerTooLarge = errors.New("variable byte integer value exceeds maximum (268,435,455)")

	// ErrMalformedVariableByteInteger indicates invalid variable byte integer encoding
	ErrMalformedVariableByteInteger = errors.New("malformed variable byte integer")

	// ErrUnexpectedEOF indicates unexpected end of input while reading
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrBufferTooSmall indicates the buffer is too small for the operation
	ErrBufferTooSmall = errors.New("buffer too small")

	ErrInvalidType         = errors.New("invalid packet type")
	ErrInvalidFlags        = errors.New("invalid flags for packet type")
	ErrInvalidQoS          = errors.New("invalid QoS level")
	ErrInvalidReservedType = errors.New("reserved packet type (0) not allowed")

	// Property-related errors
	ErrInvalidPropertyID      = errors.New("property not permitted for this packet type")
	ErrInvalidPropertyLength  = errors.New("property value exceeds declared property section length")
	ErrPropertyLengthMismatch = errors.New("property entries do not sum to declared property section length")

	// Packet-related errors
	ErrInvalidProtocolName    = errors.New("invalid protocol name")
	ErrInvalidProtocolVersion = errors.New("protocol version does not match configured mode")
	ErrInvalidPacketIDZero    = errors.New("packet identifier cannot be 0 for QoS > 0")
	ErrPayloadLengthMismatch  = errors.New("declared lengths do not match payload length")
	ErrMalformedPacket        = errors.New("malformed packet")
	ErrUnsupportedPacketType  = errors.New("packet type not supported for configured mode and role")

	// UTF-8 validation errors
	ErrInvalidUTF8           = errors.New("invalid UTF-8 encoding")
	ErrNullCharacter         = errors.New("null character (U+0000) not allowed in UTF-8 string")
	ErrSurrogateCodePoint    = errors.New("UTF-16 surrogate code points (U+D800 to U+DFFF) not allowed")
	ErrNonCharacterCodePoint = errors.New("non-character code points not allowed")
)
