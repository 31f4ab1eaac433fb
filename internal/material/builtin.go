package material

// builtinMaterials is used when no material file is configured.
const builtinMaterials = `
- name: stone
  texture: stone
- name: dirt
  texture: dirt
- name: grass
  texture:
    default: dirt
    side: grass_side
    top: grass_top
- name: sand
  texture: sand
- name: log
  texture:
    side: log_side
    top: log_top
    bottom: log_top
- name: leaves
  texture: leaves
  opaque: false
- name: glass
  texture: glass
  opaque: false
- name: water
  texture: water
  opaque: false
`

// Default returns the built-in material table.
func Default() *Registry {
	r, err := Parse([]byte(builtinMaterials))
	if err != nil {
		panic("material: invalid built-in table: " + err.Error())
	}
	return r
}
