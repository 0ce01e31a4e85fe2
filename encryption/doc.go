// Package encryption seals values stored outside the process, such as cached
// account snapshots, with an authenticated cipher.
//
// Keys are passphrases hashed with SHA-256 to the 256-bit key both
// algorithms need.
//
//	c, err := encryption.New(passphrase, encryption.WithAlgorithm(encryption.AlgorithmChaCha20))
//	sealed, err := c.Seal(plaintext, []byte("cache-key"))
//	plaintext, err := c.Open(sealed, []byte("cache-key"))
package encryption
