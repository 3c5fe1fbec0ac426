package krypto

import "crypto/cipher"

// encryptBlocks applies b to every block of src independently (ECB).
// len(src) must be a multiple of b.BlockSize() and dst at least as long.
func encryptBlocks(b cipher.Block, dst, src []byte) {
	bs := b.BlockSize()
	for i := 0; i+bs <= len(src); i += bs {
		b.Encrypt(dst[i:i+bs], src[i:i+bs])
	}
}

func decryptBlocks(b cipher.Block, dst, src []byte) {
	bs := b.BlockSize()
	for i := 0; i+bs <= len(src); i += bs {
		b.Decrypt(dst[i:i+bs], src[i:i+bs])
	}
}
