package bgmatch

import (
	"encoding/hex"
	"fmt"
)

// Identity is the key a host associates with a participant. The engine only
// compares identities.
type Identity [32]byte

func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(text []byte) error {
	if hex.DecodedLen(len(text)) != len(id) {
		return fmt.Errorf("invalid identity length %d", len(text))
	}
	_, err := hex.Decode(id[:], text)
	return err
}

// Player describes a seated participant for clients.
type Player struct {
	Color    Color
	Identity Identity
	Name     string
	Rating   int
	Pips     int
	Borne    int8
}
