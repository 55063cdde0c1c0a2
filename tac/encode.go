package tac

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-json"
)

// Program is the unit handed off to the backend: the completed three-address
// code of a single module.
type Program struct {
	Module string `json:"module" cbor:"1,keyasint"`
	Codes  []Code `json:"codes" cbor:"2,keyasint"`
}

// cborEncMode produces deterministic encodings so that identical analyses
// yield byte-identical hand-off files.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("tac: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncodeCBOR serializes a program to canonical CBOR bytes.
func (p *Program) EncodeCBOR() ([]byte, error) {
	return cborEncMode.Marshal(p)
}

// DecodeCBOR deserializes a program from CBOR bytes.
func DecodeCBOR(data []byte) (*Program, error) {
	var p Program
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("tac: decode program: %w", err)
	}
	return &p, nil
}

// EncodeJSON serializes a program to indented JSON.
func (p *Program) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// DecodeJSON deserializes a program from JSON bytes.
func DecodeJSON(data []byte) (*Program, error) {
	var p Program
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("tac: decode program: %w", err)
	}
	return &p, nil
}
