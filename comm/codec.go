package comm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame layout of the Banner TL50 serial protocol:
// https://info.bannerengineering.com/cs/groups/public/documents/literature/218025.pdf
const (
	EnableFrameSize     = 8
	IndicationFrameSize = 38

	audibleOffset  = 35
	checksumOffset = 36
)

var (
	enableFrame      = [EnableFrameSize]byte{0xf4, 0x41, 0xc7, 0x01, 0x00, 0x01, 0x01, 0xfe}
	indicationHeader = [5]byte{0xf4, 0x41, 0xc1, 0x1f, 0x00}

	ErrBadLength   = errors.New("bad frame length")
	ErrBadHeader   = errors.New("bad frame header")
	ErrBadChecksum = errors.New("bad frame checksum")
)

// EncodeCommand returns the complete frame for cmd. Every call returns a new
// slice that the caller owns.
func EncodeCommand(cmd Command) []byte {
	switch cmd.command {
	case setIndication:
		return encodeIndication(cmd.indication)
	default:
		frame := enableFrame
		return frame[:]
	}
}

func encodeIndication(ind Indication) []byte {
	buf := make([]byte, IndicationFrameSize)
	copy(buf, indicationHeader[:])

	buf[5] = uint8(ind.Color1)&0xf |
		(uint8(ind.Intensity1)&0x7)<<4
	buf[6] = uint8(ind.Animation)&0x7 |
		(uint8(ind.Speed)&0x3)<<3 |
		(uint8(ind.Pattern)&0x7)<<5
	buf[7] = uint8(ind.Color2)&0xf |
		(uint8(ind.Intensity2)&0x7)<<4 |
		(uint8(ind.Rotation)&0x1)<<7

	// bytes 8..34 are reserved and stay zero; the audible code is written
	// without a mask, exactly as the device documentation shows it.
	buf[audibleOffset] = uint8(ind.Audible)

	binary.LittleEndian.PutUint16(buf[checksumOffset:], Checksum(buf[:checksumOffset]))
	return buf
}

// Checksum is the 16-bit one's complement of the byte sum of data.
func Checksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum ^ 0xffff
}

// VerifyFrame checks that frame is a well-formed enable or indication frame.
func VerifyFrame(frame []byte) error {
	switch len(frame) {
	case EnableFrameSize:
		if !bytes.Equal(frame, enableFrame[:]) {
			return ErrBadHeader
		}
		return nil
	case IndicationFrameSize:
	default:
		return fmt.Errorf("%w: %d", ErrBadLength, len(frame))
	}
	if !bytes.Equal(frame[:len(indicationHeader)], indicationHeader[:]) {
		return ErrBadHeader
	}
	want := Checksum(frame[:checksumOffset])
	if got := binary.LittleEndian.Uint16(frame[checksumOffset:]); got != want {
		return fmt.Errorf("%w: got 0x%04x, want 0x%04x", ErrBadChecksum, got, want)
	}
	return nil
}
