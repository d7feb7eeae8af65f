package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPacking(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0x78)

	assert.Equal(t, Color(0x78123456), c)
	assert.Equal(t, uint8(0x12), c.R())
	assert.Equal(t, uint8(0x34), c.G())
	assert.Equal(t, uint8(0x56), c.B())
	assert.Equal(t, uint8(0x78), c.A())
}

func TestQtCompatibleValues(t *testing.T) {
	// QColor(Qt.white).rgba() and QColor(Qt.lightGray).rgba().
	assert.Equal(t, Color(4294967295), White)
	assert.Equal(t, Color(4290822336), LightGray)
}

func TestHexAndString(t *testing.T) {
	assert.Equal(t, "#323296", DarkBlue.Hex())
	assert.Equal(t, "#00000080", RGBA(0, 0, 0, 0x80).Hex())
	assert.Equal(t, "darkgreen", DarkGreen.String())
	assert.Equal(t, "#e4d000", RGB(228, 208, 0).String())
}

func TestEdgePalette(t *testing.T) {
	for key, want := range map[rune]Color{'1': White, '2': DarkBlue, '3': DarkGreen} {
		got, ok := EdgeColor(key)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, key := range []rune{'0', '4', '9', 'a'} {
		_, ok := EdgeColor(key)
		assert.False(t, ok, "key %q", key)
	}
}

func TestNodePalette(t *testing.T) {
	assert.Len(t, Node, 10)
	for key := '0'; key <= '9'; key++ {
		_, ok := NodeColor(key)
		assert.True(t, ok, "key %q", key)
	}
	c, _ := NodeColor('7')
	assert.Equal(t, RGB(0, 139, 139), c)
	_, ok := NodeColor('x')
	assert.False(t, ok)
}
