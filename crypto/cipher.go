package crypto

import (
	"fmt"

	icrypto "github.com/nexakey/nexakey/internal/crypto"
	"github.com/nexakey/nexakey/internal/util"
)

// blobVersion identifies the blob layout: version byte || nonce || ciphertext.
const blobVersion = 1

// EncryptBlob encrypts a vault item payload with AES-256-GCM under a fresh
// random nonce and returns a transportable base64 blob. The blob is
// self-contained: DecryptBlob needs only the blob and the key. Encryption
// never fails for a valid 32-byte key.
func EncryptBlob(plaintext, key []byte) (string, error) {
	sealed, err := util.SealAESGCM(plaintext, key, icrypto.AADVaultItem(blobVersion))
	if err != nil {
		return "", fmt.Errorf("encrypting blob: %w", err)
	}

	out := make([]byte, 0, 1+len(sealed))
	out = append(out, byte(blobVersion))
	out = append(out, sealed...)
	return util.Base64Encode(out), nil
}

// DecryptBlob decrypts a blob produced by EncryptBlob. A wrong key, a
// tampered or truncated blob, bad encoding and an unknown version all fail
// with ErrDecryptionFailed; the causes are intentionally indistinguishable
// and no partial plaintext is ever returned. The blob is neither mutated nor
// reported anywhere; the caller decides what to do with a failing item.
func DecryptBlob(blob string, key []byte) ([]byte, error) {
	raw, err := util.Base64Decode(blob)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	if len(raw) < 1+util.GCMNonceSize {
		return nil, ErrDecryptionFailed
	}
	if raw[0] != blobVersion {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := util.OpenAESGCM(raw[1:], key, icrypto.AADVaultItem(blobVersion))
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
