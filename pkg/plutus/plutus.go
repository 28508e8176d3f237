// Package plutus encodes the small subset of Plutus data used by the wallet
// contracts: constructors and bounded bytestrings.
package plutus

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

const (
	// chunkSize is the longest bytestring the ledger accepts in a single
	// Plutus data chunk.
	chunkSize = 64

	smallConstrTag  = 121
	largeConstrTag  = 1280
	anyConstrTag    = 102
	maxSmallConstr  = 6
	maxLargeConstr  = 127
	indefArrayStart = 0x9f
	indefBytesStart = 0x5f
	breakByte       = 0xff
	emptyArray      = 0x80
)

var (
	// ErrNotConstr is returned when decoding data that is not a constructor.
	ErrNotConstr = errors.New("plutus data is not a constructor")
	// ErrWrongArity is returned when a constructor has an unexpected number
	// of fields.
	ErrWrongArity = errors.New("constructor has unexpected number of fields")
)

var encMode cbor.EncMode

func init() {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	encMode = em
}

// Bytes encodes b as a Plutus bytestring. Values longer than 64 bytes are
// split into an indefinite-length sequence of 64 byte chunks.
func Bytes(b []byte) cbor.RawMessage {
	if len(b) <= chunkSize {
		buf, _ := encMode.Marshal(b)
		return buf
	}
	out := []byte{indefBytesStart}
	for i := 0; i < len(b); i += chunkSize {
		end := i + chunkSize
		if end > len(b) {
			end = len(b)
		}
		chunk, _ := encMode.Marshal(b[i:end])
		out = append(out, chunk...)
	}
	return append(out, breakByte)
}

// Constr encodes the constructor with the given index. Non empty field lists
// use indefinite-length arrays, as the on-chain validators expect.
func Constr(index uint64, fields ...cbor.RawMessage) (cbor.RawMessage, error) {
	list := encodeFields(fields)

	switch {
	case index <= maxSmallConstr:
		return encMode.Marshal(cbor.RawTag{Number: smallConstrTag + index, Content: list})
	case index <= maxLargeConstr:
		return encMode.Marshal(cbor.RawTag{
			Number: largeConstrTag + index - maxSmallConstr - 1, Content: list,
		})
	default:
		idx, err := encMode.Marshal(index)
		if err != nil {
			return nil, err
		}
		content := append([]byte{0x82}, idx...)
		content = append(content, list...)
		return encMode.Marshal(cbor.RawTag{Number: anyConstrTag, Content: content})
	}
}

// DecodeConstr returns the index and raw fields of an encoded constructor.
func DecodeConstr(data []byte) (uint64, []cbor.RawMessage, error) {
	var tag cbor.RawTag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return 0, nil, fmt.Errorf("%w: %s", ErrNotConstr, err)
	}

	var (
		index   uint64
		content = []byte(tag.Content)
	)
	switch {
	case tag.Number >= smallConstrTag && tag.Number <= smallConstrTag+maxSmallConstr:
		index = tag.Number - smallConstrTag
	case tag.Number >= largeConstrTag &&
		tag.Number <= largeConstrTag+maxLargeConstr-maxSmallConstr-1:
		index = tag.Number - largeConstrTag + maxSmallConstr + 1
	case tag.Number == anyConstrTag:
		var pair []cbor.RawMessage
		if err := cbor.Unmarshal(content, &pair); err != nil || len(pair) != 2 {
			return 0, nil, ErrNotConstr
		}
		if err := cbor.Unmarshal(pair[0], &index); err != nil {
			return 0, nil, ErrNotConstr
		}
		content = pair[1]
	default:
		return 0, nil, fmt.Errorf("%w: unexpected tag %d", ErrNotConstr, tag.Number)
	}

	var fields []cbor.RawMessage
	if err := cbor.Unmarshal(content, &fields); err != nil {
		return 0, nil, fmt.Errorf("%w: %s", ErrNotConstr, err)
	}
	return index, fields, nil
}

// DecodeBytes decodes a bytestring, chunked or not.
func DecodeBytes(data []byte) ([]byte, error) {
	var b []byte
	if err := cbor.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeBytesConstr decodes a constructor made only of n bytestrings.
func DecodeBytesConstr(data []byte, n int) (uint64, [][]byte, error) {
	index, fields, err := DecodeConstr(data)
	if err != nil {
		return 0, nil, err
	}
	if len(fields) != n {
		return 0, nil, ErrWrongArity
	}

	out := make([][]byte, 0, n)
	for _, f := range fields {
		b, err := DecodeBytes(f)
		if err != nil {
			return 0, nil, err
		}
		out = append(out, b)
	}
	return index, out, nil
}

func encodeFields(fields []cbor.RawMessage) cbor.RawMessage {
	if len(fields) == 0 {
		return cbor.RawMessage{emptyArray}
	}
	out := []byte{indefArrayStart}
	for _, f := range fields {
		out = append(out, f...)
	}
	return append(out, breakByte)
}
