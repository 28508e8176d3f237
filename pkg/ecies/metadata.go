package ecies

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const (
	// MetadataLabel is the transaction metadata label carrying ciphertexts.
	MetadataLabel uint64 = 44203

	// metadata text values are capped at 64 bytes by the ledger.
	metadataChunk = 64
)

// ErrInvalidMetadata is returned when a metadatum is not a ciphertext.
var ErrInvalidMetadata = errors.New("metadatum is not an ecies ciphertext")

type metadatum struct {
	Element interface{} `cbor:"element"`
	Cypher  interface{} `cbor:"cypher"`
}

// Metadata returns the CBOR encoded transaction metadata
// {44203: {"element": R, "cypher": C}}, splitting long strings into arrays
// of 64 character chunks.
func (c Ciphertext) Metadata() ([]byte, error) {
	md := map[uint64]metadatum{
		MetadataLabel: {
			Element: chunked(c.Element),
			Cypher:  chunked(c.Cypher),
		},
	}
	return cbor.Marshal(md)
}

// FromMetadata decodes the CBOR form produced by Metadata.
func FromMetadata(data []byte) (*Ciphertext, error) {
	var md map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMetadata, err)
	}
	raw, ok := md[MetadataLabel]
	if !ok {
		return nil, fmt.Errorf("%w: missing label %d", ErrInvalidMetadata, MetadataLabel)
	}

	var m map[string]interface{}
	if err := cbor.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMetadata, err)
	}
	return fromFields(m["element"], m["cypher"])
}

// FromMetadatum decodes the JSON rendering of the label's value, as served
// by chain indexers.
func FromMetadatum(value json.RawMessage) (*Ciphertext, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(value, &m); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMetadata, err)
	}
	return fromFields(m["element"], m["cypher"])
}

func fromFields(element, cypher interface{}) (*Ciphertext, error) {
	e, err := joinChunks(element)
	if err != nil {
		return nil, err
	}
	c, err := joinChunks(cypher)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{Element: e, Cypher: c}, nil
}

func chunked(s string) interface{} {
	if len(s) <= metadataChunk {
		return s
	}
	parts := make([]string, 0, (len(s)+metadataChunk-1)/metadataChunk)
	for i := 0; i < len(s); i += metadataChunk {
		end := i + metadataChunk
		if end > len(s) {
			end = len(s)
		}
		parts = append(parts, s[i:end])
	}
	return parts
}

func joinChunks(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []interface{}:
		var sb strings.Builder
		for _, p := range val {
			s, ok := p.(string)
			if !ok {
				return "", ErrInvalidMetadata
			}
			sb.WriteString(s)
		}
		return sb.String(), nil
	default:
		return "", ErrInvalidMetadata
	}
}
