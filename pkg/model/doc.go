// Package model defines the fixed-schema records produced by datagen and their
// binary encodings.
//
// Every record computes its exact encoded size, allocates a codec.Buffer of
// that size, writes its fields in declared order and returns the full buffer.
// Multi-byte integers are little-endian and every string is length-prefixed:
//
//	User      [len][first_name][len][last_name][len][email]
//	Card      [type(1)][exp_month(1)][exp_year(1)][cvv(4)][len][pan]
//	Merchant  [len][name][mcc(4)][category(1)]
//
// Encoding never mutates the record and is deterministic, so records may be
// serialized from many goroutines at once.
package model
