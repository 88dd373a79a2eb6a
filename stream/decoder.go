package stream

import (
	"github.com/axmq/wire/encoding"
)

type decoderState uint8

const (
	stateFirstByte decoderState = iota
	stateRemainingLength
	statePayload
)

// Decoder consumes arbitrary fragments of the inbound byte stream and emits
// each completely decoded packet exactly once, in wire order. Partial state
// (fixed-header first byte, in-progress remaining-length accumulator, partial
// payload) persists across calls. All protocol errors are fatal: the first
// one poisons the decoder permanently and every later call reports it again.
type Decoder struct {
	version encoding.ProtocolVersion
	role    encoding.Role

	state      decoderState
	firstByte  byte
	remaining  uint32
	multiplier uint32
	vliBytes   int
	need       int
	payload    []byte
	err        error
}

// NewDecoder returns a decoder for one direction of one connection
func NewDecoder(version encoding.ProtocolVersion, role encoding.Role) *Decoder {
	return &Decoder{version: version, role: role, state: stateFirstByte}
}

func (d *Decoder) poison(err error) error {
	d.err = err
	return err
}

// Decode appends fragment to the decoder's unconsumed input and drives the
// state machine as far as the data permits. Packets decoded before a protocol
// error are still returned alongside it.
func (d *Decoder) Decode(fragment []byte) ([]encoding.Packet, error) {
	if d.err != nil {
		return nil, d.err
	}

	var packets []encoding.Packet
	for {
		switch d.state {
		case stateFirstByte:
			if len(fragment) == 0 {
				return packets, nil
			}
			b := fragment[0]
			fragment = fragment[1:]

			ptype := encoding.PacketType(b >> 4)
			if ptype == encoding.Reserved {
				return packets, d.poison(encoding.ErrInvalidReservedType)
			}
			if !d.role.Decodes(ptype) {
				return packets, d.poison(encoding.ErrUnsupportedPacketType)
			}

			d.firstByte = b
			d.remaining = 0
			d.multiplier = 1
			d.vliBytes = 0
			d.state = stateRemainingLength

		case stateRemainingLength:
			if len(fragment) == 0 {
				return packets, nil
			}
			b := fragment[0]
			fragment = fragment[1:]

			d.remaining += uint32(b&0x7F) * d.multiplier
			d.vliBytes++

			if (b & 0x80) == 0 {
				d.need = int(d.remaining)
				d.payload = nil
				d.state = statePayload
			} else if d.vliBytes == encoding.MaxVariableByteIntegerBytes {
				return packets, d.poison(encoding.ErrMalformedVariableByteInteger)
			} else {
				d.multiplier *= 128
			}

		case statePayload:
			// Grow with arriving data rather than pre-sizing to the
			// declared length; a hostile peer only costs what it sends
			if missing := d.need - len(d.payload); missing > 0 {
				take := min(missing, len(fragment))
				d.payload = append(d.payload, fragment[:take]...)
				fragment = fragment[take:]
			}
			if len(d.payload) < d.need {
				return packets, nil
			}

			pkt, err := encoding.DecodePacket(d.version, d.firstByte, d.payload)
			if err != nil {
				return packets, d.poison(err)
			}
			packets = append(packets, pkt)

			d.payload = nil
			d.state = stateFirstByte
		}
	}
}
