package glb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/mogaika/layer_browser/config"
	"github.com/mogaika/layer_browser/extract"
	"github.com/mogaika/layer_browser/utils"
)

const (
	GLB_MAGIC  = 0x46546C67 // "glTF"
	CHUNK_JSON = 0x4E4F534A // "JSON"

	headerSize      = 12
	chunkHeaderSize = 8
)

var (
	ErrNotGLB      = errors.New("Not a valid GLB file")
	ErrNoJSONChunk = errors.New("No JSON chunk found in GLB file")
)

// StructuralError marks a read that would run past the end of the
// buffer: a truncated header, a truncated chunk header, or a chunk
// whose declared length overruns the file.
type StructuralError struct {
	Offset int
	Need   int
	Have   int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("Buffer too short: need %d bytes at offset %d, have %d", e.Need, e.Offset, e.Have)
}

// PayloadDecodeError wraps a JSON chunk that is not valid UTF-8 or not
// valid json. The underlying error text is kept as-is.
type PayloadDecodeError struct {
	Err error
}

func (e *PayloadDecodeError) Error() string { return e.Err.Error() }

func (e *PayloadDecodeError) Unwrap() error { return e.Err }

// Name is a pointer so a missing key can be told apart from an
// explicit empty string.
type material struct {
	Name *string `json:"name"`
}

type metadata struct {
	Materials []material `json:"materials"`
}

// ExtractMaterialNames reads the GLB container header, walks the chunk
// table to the first JSON chunk and returns the material names from it
// in array order, duplicates kept. Materials without a name key get
// Unnamed_<index> synthesized from their zero-based position.
//
// Only the magic is validated; the version and declared total length
// fields are skipped without checks.
func ExtractMaterialNames(data []byte) ([]string, error) {
	if len(data) < headerSize {
		return nil, &StructuralError{Offset: 0, Need: headerSize, Have: len(data)}
	}

	if binary.LittleEndian.Uint32(data[0:4]) != GLB_MAGIC {
		return nil, ErrNotGLB
	}
	_ = binary.LittleEndian.Uint32(data[4:8])  // version
	_ = binary.LittleEndian.Uint32(data[8:12]) // declared total length

	payload, err := findJSONChunk(data)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(payload) {
		return nil, &PayloadDecodeError{Err: errors.New("JSON chunk is not valid UTF-8")}
	}
	var meta metadata
	if err := json.Unmarshal(payload, &meta); err != nil {
		return nil, &PayloadDecodeError{Err: err}
	}

	if config.Debug() {
		utils.LogDump(meta)
	}

	names := make([]string, 0, len(meta.Materials))
	for i, m := range meta.Materials {
		if m.Name != nil {
			names = append(names, *m.Name)
		} else {
			names = append(names, fmt.Sprintf("Unnamed_%d", i))
		}
	}

	return names, nil
}

// findJSONChunk walks the chunk table starting right after the header.
// Chunks are 4 bytes little-endian length, 4 bytes little-endian type,
// then payload. The first JSON chunk wins; later ones are never looked
// at.
func findJSONChunk(data []byte) ([]byte, error) {
	offset := headerSize
	for offset < len(data) {
		if offset+chunkHeaderSize > len(data) {
			return nil, &StructuralError{Offset: offset, Need: chunkHeaderSize, Have: len(data) - offset}
		}

		chunkLength := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
		chunkType := binary.LittleEndian.Uint32(data[offset+4 : offset+8])

		if chunkType == CHUNK_JSON {
			end := offset + chunkHeaderSize + chunkLength
			if end > len(data) {
				return nil, &StructuralError{Offset: offset, Need: chunkHeaderSize + chunkLength, Have: len(data) - offset}
			}
			return data[offset+chunkHeaderSize : end], nil
		}

		offset += chunkHeaderSize + chunkLength
	}
	return nil, ErrNoJSONChunk
}

func init() {
	extract.SetHandler(".GLB", "GLB", func(name string, data []byte) ([]string, error) {
		return ExtractMaterialNames(data)
	})
}
