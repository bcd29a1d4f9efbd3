package uuid

import (
	"encoding/base64"
	"fmt"

	guuid "github.com/satori/go.uuid"
)

type UIDb64 string

// UID is the binary (16 byte) form of a UUID. Used as the run id.
type UID []byte

func MakeUID() (UID, error) {
	u := guuid.NewV4()
	uuibin, err := u.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return uuibin, nil
}

// Base64 converts UID binary to base64 string
func (u UID) Base64() UIDb64 {
	return UIDb64(base64.StdEncoding.EncodeToString(u))
}

// DecodeBase64 converts 24 byte base64 encoded string to binary (UID)
func DecodeBase64(ub64 UIDb64) (UID, error) {
	dst := make([]byte, base64.StdEncoding.DecodedLen(len(ub64)))
	n, err := base64.StdEncoding.Decode(dst, []byte(ub64))
	if err != nil {
		return nil, fmt.Errorf("UID decode error: %w", err)
	}
	return dst[:n], nil
}

// String - from UID binary to long string ie.format "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
func (u UID) String() string {
	uuid, err := guuid.FromBytes(u)
	if err != nil {
		return fmt.Sprintf("%x", []byte(u))
	}
	return uuid.String()
}

// FromString converts a UID in long string or base64 format to binary
func FromString(u string) (UID, error) {

	if len(u) == 24 {
		return DecodeBase64(UIDb64(u))
	}

	uuid, err := guuid.FromString(u)
	if err != nil {
		return nil, err
	}
	return uuid.MarshalBinary()
}
