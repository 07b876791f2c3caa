/*
Package dissertation implements a somewhat homomorphic public-key encryption
scheme over the ideal coset problem in pure Go. Ciphertexts are single
integers supporting exact addition and multiplication of encrypted bits, and
the encrypted decryption circuit of the icp/bootstrapping package turns the
scheme into a fully homomorphic one on shallow circuits.
*/
package dissertation
