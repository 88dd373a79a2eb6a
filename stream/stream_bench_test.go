package stream

import (
	"testing"

	"github.com/axmq/wire/encoding"
)

func BenchmarkEncoderService(b *testing.B) {
	p := &encoding.PublishPacket{
		TopicName: "bench/topic",
		QoS:       encoding.QoS1,
		PacketID:  1,
		Payload:   make([]byte, 1024),
	}
	e := NewEncoder(encoding.ProtocolVersion50, encoding.RoleClient)
	window := make([]byte, 256)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.Init(p); err != nil {
			b.Fatal(err)
		}
		for {
			_, done, err := e.Service(window)
			if err != nil {
				b.Fatal(err)
			}
			if done {
				break
			}
		}
	}
}

func BenchmarkDecoderFragments(b *testing.B) {
	p := &encoding.PublishPacket{
		TopicName: "bench/topic",
		QoS:       encoding.QoS1,
		PacketID:  1,
		Payload:   make([]byte, 1024),
	}
	wire, err := encoding.EncodePacket(encoding.ProtocolVersion50, p)
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d := NewDecoder(encoding.ProtocolVersion50, encoding.RoleClient)
		for start := 0; start < len(wire); start += 128 {
			end := min(start+128, len(wire))
			if _, err := d.Decode(wire[start:end]); err != nil {
				b.Fatal(err)
			}
		}
	}
}
