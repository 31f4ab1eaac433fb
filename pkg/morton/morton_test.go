package morton

import (
	"errors"
	"testing"
)

func TestEncode3KnownValues(t *testing.T) {
	tests := []struct {
		x, y, z uint32
		want    uint64
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{0, 1, 0, 2},
		{0, 0, 1, 4},
		{7, 7, 7, 511},
		{3, 5, 6, 427},
		{789, 456, 123, 190471269},
	}

	for _, tt := range tests {
		got := Encode3(tt.x, tt.y, tt.z)
		if got != tt.want {
			t.Errorf("Encode3(%d, %d, %d) = %d, want %d", tt.x, tt.y, tt.z, got, tt.want)
		}
		x, y, z := Decode3(tt.want)
		if x != tt.x || y != tt.y || z != tt.z {
			t.Errorf("Decode3(%d) = (%d, %d, %d), want (%d, %d, %d)", tt.want, x, y, z, tt.x, tt.y, tt.z)
		}
	}
}

func TestEncode2KnownValues(t *testing.T) {
	if got := Encode2(456, 123); got != 96970 {
		t.Errorf("Encode2(456, 123) = %d, want 96970", got)
	}
	if got := Encode2(5, 3); got != 27 {
		t.Errorf("Encode2(5, 3) = %d, want 27", got)
	}
	x, y := Decode2(96970)
	if x != 456 || y != 123 {
		t.Errorf("Decode2(96970) = (%d, %d), want (456, 123)", x, y)
	}
}

func TestEncode3MaxCoordinate(t *testing.T) {
	const max = MaxSize - 1
	code := Encode3(max, max, max)
	x, y, z := Decode3(code)
	if x != max || y != max || z != max {
		t.Errorf("round trip of max coordinate gave (%d, %d, %d)", x, y, z)
	}
}

func TestNewCodecRejectsInvalidSizes(t *testing.T) {
	for _, size := range []int{0, -4, 3, 12, 100, MaxSize * 2} {
		if _, err := NewCodec(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewCodec(%d): expected ErrInvalidSize, got %v", size, err)
		}
	}
	for _, size := range []int{1, 2, 16, 32, 256} {
		if _, err := NewCodec(size); err != nil {
			t.Errorf("NewCodec(%d): unexpected error %v", size, err)
		}
	}
}

func TestCodecBijection(t *testing.T) {
	for _, size := range []int{1, 2, 4, 8, 16} {
		c, err := NewCodec(size)
		if err != nil {
			t.Fatalf("NewCodec(%d) failed: %v", size, err)
		}

		seen := make([]bool, c.Len())
		for z := 0; z < size; z++ {
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					i, err := c.Encode(x, y, z)
					if err != nil {
						t.Fatalf("size %d: Encode(%d, %d, %d) failed: %v", size, x, y, z, err)
					}
					if i < 0 || i >= c.Len() {
						t.Fatalf("size %d: index %d outside [0, %d)", size, i, c.Len())
					}
					if seen[i] {
						t.Fatalf("size %d: index %d produced twice", size, i)
					}
					seen[i] = true

					dx, dy, dz, err := c.Decode(i)
					if err != nil {
						t.Fatalf("size %d: Decode(%d) failed: %v", size, i, err)
					}
					if dx != x || dy != y || dz != z {
						t.Fatalf("size %d: Decode(Encode(%d, %d, %d)) = (%d, %d, %d)", size, x, y, z, dx, dy, dz)
					}
				}
			}
		}

		for i := 0; i < c.Len(); i++ {
			x, y, z, err := c.Decode(i)
			if err != nil {
				t.Fatalf("size %d: Decode(%d) failed: %v", size, i, err)
			}
			j, err := c.Encode(x, y, z)
			if err != nil || j != i {
				t.Fatalf("size %d: Encode(Decode(%d)) = %d, %v", size, i, j, err)
			}
		}
	}
}

func TestCodecOutOfRange(t *testing.T) {
	c, err := NewCodec(8)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}

	coords := [][3]int{{-1, 0, 0}, {0, 8, 0}, {0, 0, 9}, {8, 8, 8}}
	for _, p := range coords {
		if _, err := c.Encode(p[0], p[1], p[2]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Encode(%v): expected ErrOutOfRange, got %v", p, err)
		}
	}

	for _, i := range []int{-1, 512, 4096} {
		if _, _, _, err := c.Decode(i); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Decode(%d): expected ErrOutOfRange, got %v", i, err)
		}
	}
}

func TestCodecLocality(t *testing.T) {
	c, _ := NewCodec(16)

	// The eight cells of every aligned 2x2x2 block occupy one run of eight indices.
	base := c.Index(4, 6, 2)
	for dz := 0; dz < 2; dz++ {
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				i := c.Index(4+dx, 6+dy, 2+dz)
				if i < base || i >= base+8 {
					t.Errorf("cell (%d, %d, %d) at index %d, outside block starting at %d", 4+dx, 6+dy, 2+dz, i, base)
				}
			}
		}
	}
}

func BenchmarkEncode3(b *testing.B) {
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink += Encode3(uint32(i)&31, uint32(i>>5)&31, uint32(i>>10)&31)
	}
	_ = sink
}

func BenchmarkDecode3(b *testing.B) {
	var sink uint32
	for i := 0; i < b.N; i++ {
		x, y, z := Decode3(uint64(i) & 0x7fff)
		sink += x + y + z
	}
	_ = sink
}
