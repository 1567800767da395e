// Package wbaes implements the Baek-Cheon-Hong "White-Box AES
// Implementation Revisited" construction (JCN 2016): two parallel AES-128
// encryptions re-expressed as a network of lookup tables on a 256-bit wide
// state, with the round key embedded in the tables and intermediate values
// concealed by per-round sparse affine encodings and random mask gadgets.
//
// A Generator turns an AES-128 key and a random source into an Instance; a
// Cipher evaluates an Instance against 32-byte wide-state blocks. Neither
// the generator nor the evaluator attempts side-channel hardening: reading
// an instance's tables recovers the key.
package wbaes
