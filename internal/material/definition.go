package material

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/voxmesh/internal/voxel"
)

// Definition is one entry of a material file.
//
//	- name: grass
//	  texture:
//	    default: dirt
//	    top: grass_top
//	- name: glass
//	  texture: glass
//	  opaque: false
type Definition struct {
	ID      *int        `yaml:"id,omitempty"`
	Name    string      `yaml:"name"`
	Opaque  *bool       `yaml:"opaque,omitempty"`
	Texture *TextureDef `yaml:"texture,omitempty"`
}

// TextureDef is either a single texture for every face or a map of face
// names to textures.
type TextureDef struct {
	Single string
	Faces  map[string]string
}

// UnmarshalYAML accepts a scalar or a mapping.
func (t *TextureDef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&t.Single)
	case yaml.MappingNode:
		return value.Decode(&t.Faces)
	default:
		return fmt.Errorf("line %d: texture must be a name or a map of faces", value.Line)
	}
}

// MarshalYAML writes the short form when every face shares one texture.
func (t TextureDef) MarshalYAML() (interface{}, error) {
	if t.Single != "" {
		return t.Single, nil
	}
	return t.Faces, nil
}

// faceKeys lists, per direction, the keys consulted in order.
var faceKeys = [6][]string{
	voxel.Left:  {"left", "side", "default"},
	voxel.Right: {"right", "side", "default"},
	voxel.Down:  {"down", "bottom", "default"},
	voxel.Up:    {"up", "top", "default"},
	voxel.Front: {"front", "side", "default"},
	voxel.Back:  {"back", "side", "default"},
}

var knownFaces = map[string]bool{
	"default": true, "side": true,
	"left": true, "right": true,
	"down": true, "bottom": true,
	"up": true, "top": true,
	"front": true, "back": true,
}

// faces resolves the texture name of each face, indexed by voxel.Direction.
func (t *TextureDef) faces() ([6]string, error) {
	var out [6]string
	if t.Single != "" {
		for d := range out {
			out[d] = t.Single
		}
		return out, nil
	}

	keys := make([]string, 0, len(t.Faces))
	for k := range t.Faces {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !knownFaces[k] {
			return out, fmt.Errorf("%w: %q", ErrUnknownFace, k)
		}
	}

	for _, d := range voxel.Directions {
		for _, k := range faceKeys[d] {
			if name, ok := t.Faces[k]; ok && name != "" {
				out[d] = name
				break
			}
		}
		if out[d] == "" {
			return out, fmt.Errorf("%w: %s and no default", ErrMissingFace, d)
		}
	}
	return out, nil
}
