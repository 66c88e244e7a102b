// Package icrypto builds the additional-authenticated-data context tag that
// domain-separates the module's AES-GCM use. The tag is a constant: decrypt
// must stay self-contained given only the blob and the key, so no per-item
// identifiers are mixed in.
package icrypto

import "encoding/binary"

const contextItem = "nexakey:item"

// AADVaultItem is the context tag bound to every vault item blob. A ciphertext
// produced for any other purpose will not open under this tag even with the
// right key.
func AADVaultItem(ver int) []byte {
	res := appendLenPrefix(nil, []byte(contextItem))
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(ver))
	return append(res, b...)
}

func appendLenPrefix(b, data []byte) []byte {
	l := make([]byte, 4)
	binary.BigEndian.PutUint32(l, uint32(len(data)))
	b = append(b, l...)
	return append(b, data...)
}
