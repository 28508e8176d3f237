package register

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/seedelf-network/seedelf-wallet/pkg/plutus"
)

// ToPlutusData encodes the register as the inline datum expected by the
// wallet contract: Constr 0 [generator, public_value].
func (r Register) ToPlutusData() ([]byte, error) {
	g, err := decodeField(r.Generator)
	if err != nil {
		return nil, err
	}
	u, err := decodeField(r.PublicValue)
	if err != nil {
		return nil, err
	}
	return plutus.Constr(0, plutus.Bytes(g), plutus.Bytes(u))
}

// FromPlutusData decodes a register from its inline datum bytes.
func FromPlutusData(data []byte) (Register, error) {
	index, fields, err := plutus.DecodeBytesConstr(data, 2)
	if err != nil {
		return Register{}, fmt.Errorf("%w: %s", ErrInvalidDatum, err)
	}
	if index != 0 {
		return Register{}, fmt.Errorf("%w: constructor %d", ErrInvalidDatum, index)
	}
	return New(hex.EncodeToString(fields[0]), hex.EncodeToString(fields[1])), nil
}

type datumJSON struct {
	Constructor *int `json:"constructor"`
	Fields      []struct {
		Bytes *string `json:"bytes"`
	} `json:"fields"`
}

// FromDatumJSON extracts a register from the detailed schema JSON form of an
// inline datum, as returned by chain indexers.
func FromDatumJSON(value json.RawMessage) (Register, error) {
	var d datumJSON
	if err := json.Unmarshal(value, &d); err != nil {
		return Register{}, fmt.Errorf("%w: %s", ErrInvalidDatum, err)
	}
	if d.Constructor != nil && *d.Constructor != 0 {
		return Register{}, fmt.Errorf("%w: constructor %d", ErrInvalidDatum, *d.Constructor)
	}
	if len(d.Fields) < 2 || d.Fields[0].Bytes == nil || d.Fields[1].Bytes == nil {
		return Register{}, fmt.Errorf("%w: missing fields", ErrInvalidDatum)
	}
	return New(*d.Fields[0].Bytes, *d.Fields[1].Bytes), nil
}

func decodeField(s string) ([]byte, error) {
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHex, err)
	}
	if len(buf) != PointSize {
		return nil, fmt.Errorf(
			"%w: got %d bytes, expected %d", ErrInvalidLength, len(buf), PointSize,
		)
	}
	return buf, nil
}
