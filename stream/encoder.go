package stream

import (
	"github.com/axmq/wire/encoding"
)

// Encoder drives a packet's encoding-step list against caller-supplied write
// windows. It is single-threaded and cooperative: when a window fills
// mid-packet Service returns with done=false and the caller comes back with a
// fresh window. Byte buffers referenced by the packet are borrowed and must
// not be mutated by the caller until Service reports done.
//
// States are Idle (no step list) and Encoding; Init moves Idle→Encoding and
// the final Service call moves back.
type Encoder struct {
	version encoding.ProtocolVersion
	role    encoding.Role
	list    encoding.StepList
	current int
}

// NewEncoder returns an idle encoder for one direction of one connection
func NewEncoder(version encoding.ProtocolVersion, role encoding.Role) *Encoder {
	return &Encoder{version: version, role: role}
}

// Encoding reports whether a packet is in progress
func (e *Encoder) Encoding() bool {
	return e.current < len(e.list.Steps)
}

// Init computes the encoding plan for p. It requires the encoder to be idle.
// All failures are caller bugs (packet type the role never emits, invalid
// QoS, zero packet identifier at QoS > 0, oversized remaining length) and are
// reported synchronously.
func (e *Encoder) Init(p encoding.Packet) error {
	if e.Encoding() {
		return ErrEncoderBusy
	}
	if !e.role.Encodes(p.Type()) {
		return encoding.ErrUnsupportedPacketType
	}

	e.list.Steps = e.list.Steps[:0]
	e.current = 0
	if err := encoding.AppendPacketSteps(e.version, p, &e.list); err != nil {
		e.list.Steps = e.list.Steps[:0]
		return err
	}
	return nil
}

// Service writes as many pending steps as fit into buf. It returns the number
// of bytes written and done=true once the packet is complete; done=false
// means further calls with fresh windows are required. The total written
// across calls always equals the packet's encoded length. Servicing an idle
// encoder completes immediately without consuming the window.
func (e *Encoder) Service(buf []byte) (int, bool, error) {
	n := 0
	for e.current < len(e.list.Steps) {
		st := &e.list.Steps[e.current]
		switch st.Kind {
		case encoding.StepU8:
			if len(buf)-n < 1 {
				return n, false, nil
			}
			buf[n] = byte(st.Value)
			n++
		case encoding.StepU16:
			if len(buf)-n < 2 {
				return n, false, nil
			}
			buf[n] = byte(st.Value >> 8)
			buf[n+1] = byte(st.Value)
			n += 2
		case encoding.StepU32:
			if len(buf)-n < 4 {
				return n, false, nil
			}
			buf[n] = byte(st.Value >> 24)
			buf[n+1] = byte(st.Value >> 16)
			buf[n+2] = byte(st.Value >> 8)
			buf[n+3] = byte(st.Value)
			n += 4
		case encoding.StepVLI:
			// Suspend conservatively rather than measure: a VLI is at
			// most 4 bytes
			if len(buf)-n < encoding.MaxVariableByteIntegerBytes {
				return n, false, nil
			}
			written, err := encoding.EncodeVariableByteIntegerTo(buf, n, st.Value)
			if err != nil {
				return n, false, err
			}
			n += written
		case encoding.StepBytes:
			c := copy(buf[n:], st.Data)
			n += c
			if c < len(st.Data) {
				// Clip the remainder in place and resume here next call
				st.Data = st.Data[c:]
				return n, false, nil
			}
		}
		e.current++
	}

	e.list.Steps = e.list.Steps[:0]
	e.current = 0
	return n, true, nil
}
