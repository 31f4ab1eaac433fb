// Package material defines the voxel material table: names, transparency and
// the texture drawn on each face.
package material

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/voxmesh/internal/logger"
	"github.com/Faultbox/voxmesh/internal/voxel"
)

// Material errors.
var (
	ErrDuplicateMaterial = errors.New("duplicate material")
	ErrReservedID        = errors.New("material id is reserved")
	ErrUnknownFace       = errors.New("unknown face")
	ErrMissingFace       = errors.New("missing face texture")
)

// NoTexture is returned for faces of materials without textures.
const NoTexture = ^uint32(0)

// Material describes one voxel type.
type Material struct {
	ID     voxel.Voxel
	Name   string
	Opaque bool
	// Textures holds the texture id per face, indexed by voxel.Direction.
	// Nil for untextured materials.
	Textures *[6]uint32
}

// Transparent reports whether faces behind this material stay visible.
func (m Material) Transparent() bool {
	return !m.Opaque
}

// Registry maps voxel values to materials. A Registry is immutable after
// construction and safe for concurrent use.
type Registry struct {
	byID     []Material
	defined  []bool
	byName   map[string]voxel.Voxel
	textures []string
}

// New builds a registry from definitions. Definitions without an explicit id
// take the id after the previous one, starting at 1.
func New(defs []Definition) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]voxel.Voxel, len(defs)),
	}
	texIDs := make(map[string]uint32)

	next := 1
	for _, def := range defs {
		id := next
		if def.ID != nil {
			id = *def.ID
		}
		if id == 0 || def.Name == "air" {
			return nil, fmt.Errorf("%w: %q (id %d)", ErrReservedID, def.Name, id)
		}
		if id < 0 || id > int(^voxel.Voxel(0)) {
			return nil, fmt.Errorf("material %q: id %d out of range", def.Name, id)
		}
		if def.Name == "" {
			return nil, fmt.Errorf("material id %d: missing name", id)
		}
		if _, ok := r.byName[def.Name]; ok {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateMaterial, def.Name)
		}
		if id < len(r.defined) && r.defined[id] {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateMaterial, id)
		}

		m := Material{
			ID:     voxel.Voxel(id),
			Name:   def.Name,
			Opaque: def.Opaque == nil || *def.Opaque,
		}

		if def.Texture == nil {
			if m.Opaque {
				logger.Warn("material without texture defined as opaque", zap.String("material", def.Name))
				m.Opaque = false
			}
		} else {
			faces, err := def.Texture.faces()
			if err != nil {
				return nil, fmt.Errorf("material %q: %w", def.Name, err)
			}
			var tex [6]uint32
			for d, name := range faces {
				tid, ok := texIDs[name]
				if !ok {
					tid = uint32(len(r.textures))
					texIDs[name] = tid
					r.textures = append(r.textures, name)
				}
				tex[d] = tid
			}
			m.Textures = &tex
		}

		r.put(m)
		next = id + 1
	}

	for _, m := range r.Materials() {
		logger.Debug("material registered",
			zap.Uint16("id", uint16(m.ID)),
			zap.String("name", m.Name),
			zap.Bool("opaque", m.Opaque))
	}
	return r, nil
}

func (r *Registry) put(m Material) {
	for len(r.byID) <= int(m.ID) {
		r.byID = append(r.byID, Material{})
		r.defined = append(r.defined, false)
	}
	r.byID[m.ID] = m
	r.defined[m.ID] = true
	r.byName[m.Name] = m.ID
}

// Parse reads a YAML list of material definitions.
func Parse(data []byte) (*Registry, error) {
	var defs []Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing materials: %w", err)
	}
	return New(defs)
}

// Load reads material definitions from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading materials: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Get returns the material with the given id.
func (r *Registry) Get(v voxel.Voxel) (Material, bool) {
	if int(v) >= len(r.defined) || !r.defined[v] {
		return Material{}, false
	}
	return r.byID[v], true
}

// Lookup returns the material with the given name.
func (r *Registry) Lookup(name string) (Material, bool) {
	id, ok := r.byName[name]
	if !ok {
		return Material{}, false
	}
	return r.byID[id], true
}

// MustLookup returns the id of a named material and panics if it is not defined.
func (r *Registry) MustLookup(name string) voxel.Voxel {
	m, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("material %q not defined", name))
	}
	return m.ID
}

// IsTransparent reports whether faces behind v are visible. Air is
// transparent; ids missing from the registry are treated as opaque.
func (r *Registry) IsTransparent(v voxel.Voxel) bool {
	if v == voxel.Air {
		return true
	}
	if int(v) >= len(r.defined) || !r.defined[v] {
		return false
	}
	return !r.byID[v].Opaque
}

// Texture returns the texture id drawn on face d of v, or NoTexture.
func (r *Registry) Texture(v voxel.Voxel, d voxel.Direction) uint32 {
	if int(v) >= len(r.defined) || !r.defined[v] {
		return NoTexture
	}
	tex := r.byID[v].Textures
	if tex == nil || int(d) >= len(tex) {
		return NoTexture
	}
	return tex[d]
}

// Materials returns every defined material ordered by id.
func (r *Registry) Materials() []Material {
	out := make([]Material, 0, len(r.byName))
	for id, ok := range r.defined {
		if ok {
			out = append(out, r.byID[id])
		}
	}
	return out
}

// Textures returns the texture names in id order.
func (r *Registry) Textures() []string {
	return append([]string(nil), r.textures...)
}

// Len returns the number of defined materials, air excluded.
func (r *Registry) Len() int {
	return len(r.byName)
}
