// Package queue implements the serving-order engine: a dense 1..N position
// ordering over the barber roster, the status transition rules that derive
// busy timestamps and repositioning, and the manual reorder operation. All
// mutations run inside single transactions so the position invariant holds
// after every commit.
package queue
