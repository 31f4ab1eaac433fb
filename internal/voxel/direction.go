package voxel

// Axis indices into a coordinate triple.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// Direction is one of the six axis-aligned face directions.
type Direction uint8

// Directions, in meshing order. Even values face the negative side of their axis.
const (
	Left  Direction = iota // -X
	Right                  // +X
	Down                   // -Y
	Up                     // +Y
	Front                  // -Z
	Back                   // +Z
)

// Directions lists every direction in meshing order.
var Directions = [6]Direction{Left, Right, Down, Up, Front, Back}

var directionNames = [6]string{"left", "right", "down", "up", "front", "back"}

// Axis returns the axis the direction is parallel to.
func (d Direction) Axis() int {
	return int(d >> 1)
}

// Positive reports whether the direction points along +axis.
func (d Direction) Positive() bool {
	return d&1 == 1
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Sign returns +1 or -1.
func (d Direction) Sign() int {
	if d.Positive() {
		return 1
	}
	return -1
}

// Offset returns the unit step in this direction.
func (d Direction) Offset() [3]int {
	var o [3]int
	o[d.Axis()] = d.Sign()
	return o
}

// Tangents returns the two axes spanning a face perpendicular to d.
// They are ordered so that u x v points along +axis.
func (d Direction) Tangents() (u, v int) {
	a := d.Axis()
	return (a + 1) % 3, (a + 2) % 3
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "invalid"
}
