package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestBit(t *testing.T) {
	assert.True(t, TestBit(0, 1))
	assert.False(t, TestBit(1, 1))
	assert.True(t, TestBit(3, 0x08))
	assert.False(t, TestBit(3, 0x07))
}

func TestSetClearBit(t *testing.T) {
	var x uint64
	x = SetBit(2, x)
	assert.Equal(t, uint64(0x04), x)
	x = SetBit(0, x)
	assert.Equal(t, uint64(0x05), x)
	x = ClearBit(2, x)
	assert.Equal(t, uint64(0x01), x)
}
