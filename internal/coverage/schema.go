package coverage

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

const (
	// SchemaKey is the record field carrying the producer fingerprint.
	SchemaKey = "_coverageSchema"
	// HashKey is the record field carrying the content hash.
	HashKey = "hash"

	schemaName = "goistanbul@1"
)

// SchemaValue fingerprints the record layout produced by this package.
// Records with another value come from an incompatible producer.
var SchemaValue = strconv.FormatUint(xxhash.Sum64String(schemaName), 10)

func hashBytes(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 10)
}

func (fc *FileCoverage) encodeUnhashed() (*objectWriter, []byte, error) {
	w := newObjectWriter()
	fc.writeFields(w)
	w.field(SchemaKey, SchemaValue)

	body, err := w.snapshot()
	if err != nil {
		return nil, nil, err
	}

	return w, body, nil
}

// ContentHash returns the hash of fc serialized with its schema but without
// the hash field. It changes whenever a declaration or a counter changes.
func ContentHash(fc *FileCoverage) (string, error) {
	_, body, err := fc.encodeUnhashed()
	if err != nil {
		return "", err
	}

	return hashBytes(body), nil
}

// EncodeRecord serializes fc with its schema fingerprint and content hash.
func EncodeRecord(fc *FileCoverage) ([]byte, string, error) {
	w, body, err := fc.encodeUnhashed()
	if err != nil {
		return nil, "", errors.Wrapf(err, "encode %s", fc.Path)
	}

	hash := hashBytes(body)
	w.field(HashKey, hash)

	out, err := w.snapshot()
	if err != nil {
		return nil, "", errors.Wrapf(err, "encode %s", fc.Path)
	}

	return out, hash, nil
}

// DecodeRecord parses one serialized record and returns it with the hash it
// carried. A record without a schema field is accepted; one with a foreign
// schema yields ErrSchemaMismatch.
func DecodeRecord(data []byte) (*FileCoverage, string, error) {
	fc := &FileCoverage{}

	w, err := fc.decode(data)
	if err != nil {
		return nil, "", err
	}

	if w.Schema != nil && *w.Schema != SchemaValue {
		return nil, "", errors.Wrapf(ErrSchemaMismatch, "%s: schema %s", w.Path, *w.Schema)
	}

	return fc, w.Hash, nil
}

// MarshalJSON encodes the map as coverage-final.json: an object keyed by path,
// in insertion order, each record carrying schema and hash.
func (cm *CoverageMap) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()

	for _, path := range cm.order {
		raw, _, err := EncodeRecord(cm.files[path])
		if err != nil {
			return nil, err
		}

		w.rawField(path, raw)
	}

	return w.snapshot()
}

// UnmarshalJSON implements json.Unmarshaler. Unlike DecodeCoverageMap it
// fails on the first foreign record.
func (cm *CoverageMap) UnmarshalJSON(data []byte) error {
	decoded, discarded, err := DecodeCoverageMap(data)
	if err != nil {
		return err
	}

	if len(discarded) > 0 {
		return errors.Wrapf(ErrSchemaMismatch, "%d foreign records, first %s", len(discarded), discarded[0])
	}

	*cm = *decoded

	return nil
}

// DecodeCoverageMap parses a coverage-final.json document, keeping the file
// order of the document. Records produced under a foreign schema are left
// out and their paths returned so the caller can report them.
func DecodeCoverageMap(data []byte) (*CoverageMap, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrap(err, "decode coverage map"), ErrMalformedCoverage)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.Wrap(ErrMalformedCoverage, "coverage map is not an object")
	}

	cm := NewCoverageMap()

	var discarded []string

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, errors.Mark(errors.Wrap(err, "decode coverage map"), ErrMalformedCoverage)
		}

		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, errors.Mark(errors.Wrapf(err, "decode %s", key), ErrMalformedCoverage)
		}

		fc, _, err := DecodeRecord(raw)
		if errors.Is(err, ErrSchemaMismatch) {
			discarded = append(discarded, key)
			continue
		}

		if err != nil {
			return nil, nil, err
		}

		if fc.Path == "" {
			fc.Path = key
		}

		if err := cm.AddCoverageForFile(fc); err != nil {
			return nil, nil, err
		}
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, nil, errors.Wrap(ErrMalformedCoverage, "coverage map is not closed")
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, errors.Wrap(ErrMalformedCoverage, "data after the coverage map")
	}

	return cm, discarded, nil
}
