// Package bootstrapping implements ciphertext refreshing for the encryption
// over ideal cosets, by evaluating the decryption of a ciphertext inside the
// encryption itself. The decryption is first squashed into a sparse subset
// sum of public fractions of the modulus, published as a [RecryptionKey]
// together with encryptions of the subset selectors, and then evaluated as a
// shallow binary circuit on the selector encryptions. The refreshed
// ciphertext carries the noise of that circuit, independent of the noise of
// the input, so a worn ciphertext can be traded for one that supports
// further operations.
package bootstrapping
