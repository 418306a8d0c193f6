package bysquare

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"strings"
	"time"

	"github.com/ulikunitz/xz/lzma"
)

// lzmaHeaderLen is the length of the classic LZMA header: 1 properties
// byte, 4 bytes dictionary size, 8 bytes uncompressed size
const lzmaHeaderLen = 13

// Decode parses a BySquare string back into a payment. It exists for
// verification and tests; banking apps are the usual consumer of the
// encoded form.
func Decode(s string) (Payment, error) {
	raw, err := encoding.DecodeString(strings.ToUpper(s))
	if err != nil {
		return Payment{}, fmt.Errorf("bysquare: base32hex: %w", err)
	}
	if len(raw) < 5 {
		return Payment{}, fmt.Errorf("bysquare: truncated input: %d bytes", len(raw))
	}

	if typ := raw[0] >> 4; typ != bySquareType {
		return Payment{}, fmt.Errorf("bysquare: unsupported document type %d", typ)
	}
	if v := raw[0] & 0x0f; v != version {
		return Payment{}, fmt.Errorf("bysquare: unsupported version %d", v)
	}

	size := binary.LittleEndian.Uint16(raw[2:4])
	body, err := decompress(raw[4:], int64(size))
	if err != nil {
		return Payment{}, fmt.Errorf("bysquare: decompress: %w", err)
	}
	if len(body) < 4 {
		return Payment{}, fmt.Errorf("bysquare: truncated payload: %d bytes", len(body))
	}

	want := binary.LittleEndian.Uint32(body[:4])
	data := body[4:]
	if got := crc32.ChecksumIEEE(data); got != want {
		return Payment{}, fmt.Errorf("bysquare: checksum mismatch: got %08x want %08x", got, want)
	}

	return deserialize(string(data))
}

// decompress rebuilds the classic LZMA header the encoder stripped and
// inflates the raw stream
func decompress(stream []byte, size int64) ([]byte, error) {
	hdr := make([]byte, lzmaHeaderLen)
	hdr[0] = byte((lzmaPB*5+lzmaLP)*9 + lzmaLC)
	binary.LittleEndian.PutUint32(hdr[1:5], lzmaDictCap)
	binary.LittleEndian.PutUint64(hdr[5:13], uint64(size))

	r, err := lzma.NewReader(io.MultiReader(bytes.NewReader(hdr), bytes.NewReader(stream)))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// deserialize parses the tab-separated PAY field list produced by
// serialize. Missing trailing fields are tolerated.
func deserialize(data string) (Payment, error) {
	fields := strings.Split(data, "\t")
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	if n := get(1); n != "" && n != "1" {
		return Payment{}, fmt.Errorf("unsupported payment count %q", n)
	}

	amount, err := parseAmount(get(3))
	if err != nil {
		return Payment{}, err
	}
	if cur := get(4); cur != "" && cur != currencyEUR {
		return Payment{}, fmt.Errorf("unsupported currency %q", cur)
	}

	var due time.Time
	if d := get(5); d != "" {
		due, err = time.Parse(dueDateFmt, d)
		if err != nil {
			return Payment{}, fmt.Errorf("invalid due date %q: %w", d, err)
		}
	}

	return Payment{
		AmountCents:     amount,
		DueDate:         due,
		VariableSymbol:  get(6),
		ConstantSymbol:  get(7),
		SpecificSymbol:  get(8),
		Note:            get(10),
		IBAN:            get(12),
		BeneficiaryName: get(16),
	}, nil
}
