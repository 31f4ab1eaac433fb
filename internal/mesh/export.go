package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/voxmesh/internal/voxel"
)

// Export format errors.
var (
	ErrInvalidMagic       = errors.New("invalid mesh export magic: expected 'VXMS'")
	ErrUnsupportedVersion = errors.New("unsupported mesh export version")
	ErrTruncated          = errors.New("truncated mesh export")
	ErrTooLarge           = errors.New("mesh export exceeds size limit")
)

// MaxImportSize bounds the decompressed size Import accepts.
var MaxImportSize int64 = 1 << 30

// importWindow caps the decoder window. Export writes 8MB windows.
const importWindow = 64 << 20

const (
	exportMagic   = "VXMS"
	exportVersion = uint16(1)
)

// Sizes of the fixed records, as encoded.
const (
	vertexRecordSize = 40
	groupRecordSize  = 10
)

// meshHeader precedes each mesh in an export.
type meshHeader struct {
	Coord       [3]int32
	Origin      mgl32.Vec3
	WorldSpace  uint8
	VertexCount uint32
	IndexCount  uint32
	GroupCount  uint32
	Bounds      Bounds
}

// Export writes meshes as a zstd-compressed little-endian stream:
//
//	"VXMS" | version u16 | mesh count u32
//	per mesh: header | vertices | indices u32 | groups
func Export(w io.Writer, meshes []*Mesh) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := writeMeshes(bw, meshes); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func writeMeshes(w io.Writer, meshes []*Mesh) error {
	if _, err := io.WriteString(w, exportMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, exportVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(meshes))); err != nil {
		return err
	}

	for i, m := range meshes {
		hdr := meshHeader{
			Coord:       [3]int32{int32(m.Coord.X), int32(m.Coord.Y), int32(m.Coord.Z)},
			Origin:      m.Origin,
			VertexCount: uint32(len(m.Vertices)),
			IndexCount:  uint32(len(m.Indices)),
			GroupCount:  uint32(len(m.Groups)),
			Bounds:      m.Bounds,
		}
		if m.WorldSpace {
			hdr.WorldSpace = 1
		}
		if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
			return fmt.Errorf("writing mesh %d header: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, m.Vertices); err != nil {
			return fmt.Errorf("writing mesh %d vertices: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, m.Indices); err != nil {
			return fmt.Errorf("writing mesh %d indices: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, m.Groups); err != nil {
			return fmt.Errorf("writing mesh %d groups: %w", i, err)
		}
	}
	return nil
}

// Import reads meshes written by Export. Streams that decompress to more than
// MaxImportSize bytes fail with ErrTooLarge.
func Import(r io.Reader) ([]*Mesh, error) {
	limit := MaxImportSize
	dec, err := zstd.NewReader(r, zstd.WithDecoderMaxWindow(importWindow))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	data, err := io.ReadAll(io.LimitReader(dec, limit+1))
	if err != nil {
		return nil, fmt.Errorf("decompressing mesh export: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return ParseExport(data)
}

// ParseExport parses an uncompressed export stream.
func ParseExport(data []byte) ([]*Mesh, error) {
	if len(data) < 10 {
		return nil, ErrTruncated
	}
	if string(data[0:4]) != exportMagic {
		return nil, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if version != exportVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	count := binary.LittleEndian.Uint32(data[6:10])

	r := bytes.NewReader(data[10:])
	headerSize := binary.Size(meshHeader{})
	if int64(count)*int64(headerSize) > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d meshes declared", ErrTruncated, count)
	}

	meshes := make([]*Mesh, 0, count)
	for i := uint32(0); i < count; i++ {
		m, err := readMesh(r)
		if err != nil {
			return nil, fmt.Errorf("reading mesh %d: %w", i, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func readMesh(r *bytes.Reader) (*Mesh, error) {
	var hdr meshHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncated)
	}

	need := int64(hdr.VertexCount)*vertexRecordSize +
		int64(hdr.IndexCount)*4 +
		int64(hdr.GroupCount)*groupRecordSize
	if need > int64(r.Len()) {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, need, r.Len())
	}

	m := &Mesh{
		Coord:      voxel.ChunkCoord{X: int(hdr.Coord[0]), Y: int(hdr.Coord[1]), Z: int(hdr.Coord[2])},
		Origin:     hdr.Origin,
		WorldSpace: hdr.WorldSpace != 0,
		Vertices:   make([]Vertex, hdr.VertexCount),
		Indices:    make([]uint32, hdr.IndexCount),
		Groups:     make([]MaterialGroup, hdr.GroupCount),
		Bounds:     hdr.Bounds,
	}
	if err := binary.Read(r, binary.LittleEndian, m.Vertices); err != nil {
		return nil, fmt.Errorf("%w: reading vertices", ErrTruncated)
	}
	if err := binary.Read(r, binary.LittleEndian, m.Indices); err != nil {
		return nil, fmt.Errorf("%w: reading indices", ErrTruncated)
	}
	if err := binary.Read(r, binary.LittleEndian, m.Groups); err != nil {
		return nil, fmt.Errorf("%w: reading groups", ErrTruncated)
	}
	return m, nil
}

// WriteFile exports meshes to path.
func WriteFile(path string, meshes []*Mesh) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Export(f, meshes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile imports meshes from path.
func ReadFile(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Import(f)
}
