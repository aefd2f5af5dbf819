package glb_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/mogaika/layer_browser/extract/glb"
)

const chunkBIN = 0x004E4942

func chunk(ctype uint32, payload []byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	binary.Write(&buf, binary.LittleEndian, ctype)
	buf.Write(payload)
	return buf.Bytes()
}

func glbFile(chunks ...[]byte) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(glb.GLB_MAGIC))
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	total := 12
	for _, c := range chunks {
		total += len(c)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(total))
	for _, c := range chunks {
		buf.Write(c)
	}
	return buf.Bytes()
}

func TestMaterialNamesInOrder(t *testing.T) {
	data := glbFile(chunk(glb.CHUNK_JSON, []byte(`{"materials":[{"name":"A"},{"name":"B"},{"name":"C"}]}`)))
	names, err := glb.ExtractMaterialNames(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"A", "B", "C"}) {
		t.Errorf("Got %v", names)
	}
}

func TestUnnamedSynthesisAndEmptyName(t *testing.T) {
	data := glbFile(chunk(glb.CHUNK_JSON, []byte(`{"materials":[{"name":"Red"},{},{"name":""}]}`)))
	names, err := glb.ExtractMaterialNames(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"Red", "Unnamed_1", ""}) {
		t.Errorf("Got %v", names)
	}
}

func TestNoMaterialsKey(t *testing.T) {
	data := glbFile(chunk(glb.CHUNK_JSON, []byte(`{"asset":{"version":"2.0"}}`)))
	names, err := glb.ExtractMaterialNames(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Errorf("Got %v", names)
	}
}

func TestBadMagic(t *testing.T) {
	data := glbFile(chunk(glb.CHUNK_JSON, []byte(`{"materials":[{"name":"A"}]}`)))
	data[0] = 'x'
	if _, err := glb.ExtractMaterialNames(data); err != glb.ErrNotGLB {
		t.Errorf("Got error %v", err)
	} else if err.Error() != "Not a valid GLB file" {
		t.Errorf("Got message %q", err.Error())
	}
}

func TestHeaderOnly(t *testing.T) {
	if _, err := glb.ExtractMaterialNames(glbFile()); err != glb.ErrNoJSONChunk {
		t.Errorf("Got error %v", err)
	} else if err.Error() != "No JSON chunk found in GLB file" {
		t.Errorf("Got message %q", err.Error())
	}
}

func TestTooShortForHeader(t *testing.T) {
	var serr *glb.StructuralError
	if _, err := glb.ExtractMaterialNames([]byte("glTF")); !errors.As(err, &serr) {
		t.Errorf("Got error %v", err)
	}
}

func TestSkipsNonJSONChunk(t *testing.T) {
	data := glbFile(
		chunk(chunkBIN, []byte{0xde, 0xad, 0xbe, 0xef}),
		chunk(glb.CHUNK_JSON, []byte(`{"materials":[{"name":"AfterBin"}]}`)))
	names, err := glb.ExtractMaterialNames(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"AfterBin"}) {
		t.Errorf("Got %v", names)
	}
}

func TestFirstJSONChunkWins(t *testing.T) {
	data := glbFile(
		chunk(glb.CHUNK_JSON, []byte(`{"materials":[{"name":"first"}]}`)),
		chunk(glb.CHUNK_JSON, []byte(`{"materials":[{"name":"second"}]}`)))
	names, err := glb.ExtractMaterialNames(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"first"}) {
		t.Errorf("Got %v", names)
	}
}

func TestJSONChunkOverrunsBuffer(t *testing.T) {
	data := glbFile(chunk(glb.CHUNK_JSON, []byte(`{"materials":[]}`)))
	// Declare more payload than the buffer holds.
	binary.LittleEndian.PutUint32(data[12:16], 1024)
	var serr *glb.StructuralError
	if _, err := glb.ExtractMaterialNames(data); !errors.As(err, &serr) {
		t.Errorf("Got error %v", err)
	}
}

func TestTruncatedChunkHeader(t *testing.T) {
	data := append(glbFile(), 0x01, 0x00, 0x00, 0x00)
	var serr *glb.StructuralError
	if _, err := glb.ExtractMaterialNames(data); !errors.As(err, &serr) {
		t.Errorf("Got error %v", err)
	}
}

func TestSkippedChunkPastEndIsMissingChunk(t *testing.T) {
	data := glbFile(chunk(chunkBIN, []byte{1, 2, 3, 4}))
	binary.LittleEndian.PutUint32(data[12:16], 4096)
	if _, err := glb.ExtractMaterialNames(data); err != glb.ErrNoJSONChunk {
		t.Errorf("Got error %v", err)
	}
}

func TestInvalidJSONPayload(t *testing.T) {
	data := glbFile(chunk(glb.CHUNK_JSON, []byte(`{"materials":[`)))
	var derr *glb.PayloadDecodeError
	_, err := glb.ExtractMaterialNames(data)
	if !errors.As(err, &derr) {
		t.Fatalf("Got error %v", err)
	}
	// The underlying parser message must survive as-is.
	if err.Error() != derr.Err.Error() {
		t.Errorf("Got message %q, underlying %q", err.Error(), derr.Err.Error())
	}
}

func TestInvalidUTF8Payload(t *testing.T) {
	data := glbFile(chunk(glb.CHUNK_JSON, []byte{0xff, 0xfe, 0xfd}))
	var derr *glb.PayloadDecodeError
	if _, err := glb.ExtractMaterialNames(data); !errors.As(err, &derr) {
		t.Errorf("Got error %v", err)
	}
}

// Buffers produced by the qmuntal/gltf binary encoder must parse the
// same as our hand-built ones, padding included.
func TestEncoderRoundTrip(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Materials = append(doc.Materials,
		&gltf.Material{Name: "Red"},
		&gltf.Material{Name: "Blue"})

	var buf bytes.Buffer
	encoder := gltf.NewEncoder(&buf)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		t.Fatal(err)
	}

	names, err := glb.ExtractMaterialNames(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"Red", "Blue"}) {
		t.Errorf("Got %v", names)
	}
}
