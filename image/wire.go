package image

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Canonical mode keeps the encoding deterministic: the same image always
// serializes to the same bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("image: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Encode serializes an image to CBOR bytes.
func Encode(img *Image) ([]byte, error) {
	return cborEncMode.Marshal(img)
}

// Decode deserializes an image from CBOR bytes, rejecting images written
// by a different format version.
func Decode(data []byte) (*Image, error) {
	var img Image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("image: unmarshal: %w", err)
	}
	if img.Version != FormatVersion {
		return nil, fmt.Errorf("image: format version %d, want %d", img.Version, FormatVersion)
	}
	return &img, nil
}
