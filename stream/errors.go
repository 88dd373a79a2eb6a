package stream

import "errors"

var (
	// ErrEncoderBusy indicates Init was called while a packet is still being serviced
	ErrEncoderBusy = errors.New("encoder already has a packet in progress")
)
