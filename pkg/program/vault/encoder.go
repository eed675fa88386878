package vault

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// payloadEncoder writes fixed-width little-endian fields at explicit offsets
// into a pre-sized, zero-initialized buffer. The on-chain program reads
// instruction data as a packed C struct, so every field lives at a fixed
// offset and unused trailing bytes must stay zero.
//
// Writes past the buffer bound return EncodeError instead of growing or
// truncating: a wrong offset means the wire layout is wrong and the
// instruction must not be built.
type payloadEncoder struct {
	buf []byte
}

// EncodeError reports a field write that does not fit the payload layout.
type EncodeError struct {
	Field  string
	Offset int
	Width  int
	Size   int
}

func (e EncodeError) Error() string {
	return fmt.Sprintf("encode %s: write of %d bytes at offset %d exceeds %d-byte payload", e.Field, e.Width, e.Offset, e.Size)
}

func newPayloadEncoder(size int) *payloadEncoder {
	return &payloadEncoder{buf: make([]byte, size)}
}

func (e *payloadEncoder) check(field string, offset, width int) error {
	if offset < 0 || offset+width > len(e.buf) {
		return EncodeError{Field: field, Offset: offset, Width: width, Size: len(e.buf)}
	}
	return nil
}

func (e *payloadEncoder) writeUint8(field string, offset int, v uint8) error {
	if err := e.check(field, offset, 1); err != nil {
		return err
	}
	e.buf[offset] = v
	return nil
}

func (e *payloadEncoder) writeUint16(field string, offset int, v uint16) error {
	if err := e.check(field, offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(e.buf[offset:], v)
	return nil
}

func (e *payloadEncoder) writeUint64(field string, offset int, v uint64) error {
	if err := e.check(field, offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(e.buf[offset:], v)
	return nil
}

func (e *payloadEncoder) writePublicKey(field string, offset int, pk solana.PublicKey) error {
	if err := e.check(field, offset, solana.PublicKeyLength); err != nil {
		return err
	}
	copy(e.buf[offset:], pk[:])
	return nil
}

// bytes returns the completed payload. The encoder keeps no reference, so
// the caller owns the buffer exclusively.
func (e *payloadEncoder) bytes() []byte {
	out := e.buf
	e.buf = nil
	return out
}
