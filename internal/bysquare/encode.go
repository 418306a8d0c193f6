package bysquare

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/ulikunitz/xz/lzma"
)

// PAY by square uses the base32hex alphabet without padding
var encoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// Encode turns a payment into a BySquare string ready for QR rendering.
// The transformation is pure and deterministic; the same payment always
// yields the same string.
func Encode(p Payment) (string, error) {
	data := []byte(serialize(p))

	// CRC32 (IEEE) of the serialized data, little endian, prepended
	body := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint32(body[:4], crc32.ChecksumIEEE(data))
	copy(body[4:], data)

	compressed, err := compress(body)
	if err != nil {
		return "", fmt.Errorf("bysquare: compress: %w", err)
	}

	// 2 header bytes (type, version, document type, reserved nibbles)
	// followed by the uncompressed payload length, little endian
	out := make([]byte, 4, 4+len(compressed))
	out[0] = bySquareType<<4 | version
	out[1] = documentType<<4 | reserved
	binary.LittleEndian.PutUint16(out[2:4], uint16(len(body)))
	out = append(out, compressed...)

	return encoding.EncodeToString(out), nil
}

// compress produces a raw LZMA1 stream with the fixed BySquare
// parameters. The lzma package always writes the 13-byte classic header
// (properties, dictionary size, uncompressed size) which the wire format
// omits, so it is stripped here and rebuilt by the decoder.
func compress(body []byte) ([]byte, error) {
	var buf bytes.Buffer

	cfg := lzma.WriterConfig{
		Properties:   &lzma.Properties{LC: lzmaLC, LP: lzmaLP, PB: lzmaPB},
		DictCap:      lzmaDictCap,
		Size:         int64(len(body)),
		SizeInHeader: true,
	}
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	stream := buf.Bytes()
	if len(stream) < lzmaHeaderLen {
		return nil, fmt.Errorf("short lzma stream: %d bytes", len(stream))
	}
	return stream[lzmaHeaderLen:], nil
}
