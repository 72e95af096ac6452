package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/DanielDiaz18/hashdb/ledger"
)

// Codec turns the serialized records of a chain into bytes and back.
type Codec interface {
	Name() string
	Encode(records []ledger.Record) ([]byte, error)
	Decode(data []byte) ([]ledger.Record, error)
}

var (
	// JSON is the human readable exchange format: an indented array of records.
	JSON Codec = jsonCodec{}
	// MsgPack is a compact binary snapshot format with the same field names.
	MsgPack Codec = msgpackCodec{}
)

// CodecFor picks a codec from the file extension: .msgpack and .mp select
// MsgPack, anything else JSON.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return MsgPack
	default:
		return JSON
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Encode(records []ledger.Record) ([]byte, error) {
	if records == nil {
		records = []ledger.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Decode(data []byte) ([]ledger.Record, error) {
	var records []ledger.Record
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrMalformedChain, err)
	}
	return records, nil
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Encode(records []ledger.Record) ([]byte, error) {
	if records == nil {
		records = []ledger.Record{}
	}
	return msgpack.Marshal(records)
}

func (msgpackCodec) Decode(data []byte) ([]ledger.Record, error) {
	var records []ledger.Record
	if len(data) == 0 {
		return records, nil
	}
	if err := msgpack.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrMalformedChain, err)
	}
	return records, nil
}
