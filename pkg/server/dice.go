package server

import (
	"crypto/rand"
	"encoding/binary"

	"codeberg.org/tslocum/bgmatch"
	"golang.org/x/crypto/sha3"
)

// entropySum is the number of hash bytes summed for each die.
const entropySum = 30

var _ bgmatch.DiceSource = &entropyDice{}

// entropyDice derives die faces from the seats and save counter of a match
// mixed with the server secret. The seed advances with every face.
type entropyDice struct {
	white   bgmatch.Identity
	black   bgmatch.Identity
	id      uint64
	counter uint32
	seed    uint32
	secret  []byte
	faces   []int8 // Generated faces, in order.
}

func (d *entropyDice) Generate() int8 {
	h := sha3.NewShake256()
	h.Write(d.white[:])
	h.Write(d.black[:])

	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], d.id)
	binary.BigEndian.PutUint32(buf[8:12], d.counter)
	binary.BigEndian.PutUint32(buf[12:16], d.seed)
	h.Write(buf[:])
	h.Write(d.secret)
	d.seed++

	var out [entropySum]byte
	h.Read(out[:])

	var sum int
	for _, b := range out {
		sum += int(b)
	}
	face := int8(sum%6 + 1)
	d.faces = append(d.faces, face)
	return face
}

func newEntropySecret() []byte {
	secret := make([]byte, 32)
	_, err := rand.Read(secret)
	if err != nil {
		panic(err)
	}
	return secret
}

func shakeSum(buf []byte, size int) []byte {
	h := make([]byte, size)
	sha3.ShakeSum256(h, buf)
	return h
}

// DiceStatistics returns how often each face was produced by count dice
// derived with a random secret.
func DiceStatistics(count int) [6]int {
	d := &entropyDice{
		id:     uint64(RandInt(1 << 30)),
		secret: newEntropySecret(),
	}
	var faces [6]int
	for i := 0; i < count; i++ {
		faces[d.Generate()-1]++
	}
	return faces
}
