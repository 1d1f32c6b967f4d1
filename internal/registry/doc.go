// Package registry maps subroutine names to callable diagram bodies.
//
// The registry is populated once while a program is built and is read-only
// afterwards. Validate performs the parity check between the subroutines a
// diagram calls and the ones it actually defines.
package registry
