package formats

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// EncodeGLB serializes a document and its binary chunk into a GLB container.
// The first buffer of doc is expected to reference bin (empty URI).
func EncodeGLB(doc *GLTF, bin []byte) ([]byte, error) {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding glTF JSON: %w", err)
	}
	for len(jsonData)%4 != 0 {
		jsonData = append(jsonData, ' ')
	}
	binData := append([]byte(nil), bin...)
	for len(binData)%4 != 0 {
		binData = append(binData, 0)
	}

	total := 12 + 8 + len(jsonData)
	if len(binData) > 0 {
		total += 8 + len(binData)
	}

	var buf bytes.Buffer
	buf.Grow(total)
	write := func(v uint32) {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}

	write(glbMagic)
	write(glbVersion)
	write(uint32(total))

	write(uint32(len(jsonData)))
	write(glbChunkJSON)
	buf.Write(jsonData)

	if len(binData) > 0 {
		write(uint32(len(binData)))
		write(glbChunkBIN)
		buf.Write(binData)
	}

	return buf.Bytes(), nil
}
