// Package vault holds the credential domain: the Credential type, the
// storage and prompt ports it consumes, the bootstrap protocol that turns
// a master passphrase into working key material, and the repository that
// encrypts every field before it reaches storage.
//
// A vault is bootstrapped once. The first run generates a random secret,
// encrypts it under the normalized passphrase and stores it as the record
// named "secret_key". Every later run decrypts that record with the
// passphrase the operator types; a failure there is an authentication
// failure and no credential operation proceeds.
//
// Encryption is deterministic because records are looked up by the
// ciphertext of their name. There is no integrity tag.
package vault
