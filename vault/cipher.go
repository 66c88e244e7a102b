package vault

import (
	"github.com/nexakey/nexakey/crypto"
	"github.com/nexakey/nexakey/internal/util"
)

// EncryptItemData serializes and encrypts an item payload into a transportable
// blob. The key is passed explicitly; this function holds no state.
func EncryptItemData(data ItemData, key []byte) (string, error) {
	plaintext, err := MarshalItemData(data)
	if err != nil {
		return "", err
	}
	defer util.WipeBytes(plaintext)
	return crypto.EncryptBlob(plaintext, key)
}

// DecryptItemData decrypts and deserializes an item blob. A wrong key or a
// corrupted blob fails with crypto.ErrDecryptionFailed; a blob that decrypts
// but does not parse fails with ErrMalformedItem.
func DecryptItemData(blob string, key []byte) (ItemData, error) {
	plaintext, err := crypto.DecryptBlob(blob, key)
	if err != nil {
		return nil, err
	}
	defer util.WipeBytes(plaintext)
	return UnmarshalItemData(plaintext)
}
