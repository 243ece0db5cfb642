package utils

import (
	"crypto/rand"
	"encoding/binary"
)

// RandomSeed возвращает случайное зерно генерации, когда в конфиге оно не задано.
// Ноль не выдается: им в конфиге обозначается "случайно".
func RandomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("failed to read random seed: " + err.Error())
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed
}
