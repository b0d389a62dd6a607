package wzcrypto

import "math/bits"

// shandaRounds is the fixed round count of the Shanda byte-permutation
// cipher (spec §4.1 "Shanda cipher").
const shandaRounds = 3

func shandaRoundEvenEncrypt(b, state, ln byte) (byte, byte) {
	b = bits.RotateLeft8(b, 3)
	b += ln
	nextState := b
	b ^= state
	b = bits.RotateLeft8(b, -int(ln))
	b = ^b
	b += 0x48
	return b, nextState ^ state
}

func shandaRoundEvenDecrypt(b, state, ln byte) (byte, byte) {
	b -= 0x48
	b = ^b
	b = bits.RotateLeft8(b, int(ln))
	nextState := b
	b ^= state
	b -= ln
	b = bits.RotateLeft8(b, -3)
	return b, nextState
}

func shandaRoundOddEncrypt(b, state, ln byte) (byte, byte) {
	b = bits.RotateLeft8(b, 4)
	b += ln
	nextState := b
	b ^= state
	b ^= 0x13
	b = bits.RotateLeft8(b, -3)
	return b, nextState ^ state
}

func shandaRoundOddDecrypt(b, state, ln byte) (byte, byte) {
	b = bits.RotateLeft8(b, 3)
	b ^= 0x13
	nextState := b
	b ^= state
	b -= ln
	b = bits.RotateLeft8(b, -4)
	return b, nextState
}

type shandaRoundFn func(b, state, ln byte) (byte, byte)

// doEvenRound iterates forward over data, threading the running state and
// the wrapping countdown length through each byte.
func doEvenRound(data []byte, apply shandaRoundFn) {
	var state byte
	ln := byte(len(data))
	for i := range data {
		b, next := apply(data[i], state, ln)
		data[i] = b
		state = next
		ln--
	}
}

// doOddRound iterates over the REVERSED data, threading state the same way.
func doOddRound(data []byte, apply shandaRoundFn) {
	var state byte
	ln := byte(len(data))
	for i := len(data) - 1; i >= 0; i-- {
		b, next := apply(data[i], state, ln)
		data[i] = b
		state = next
		ln--
	}
}

// ShandaEncrypt applies the 3-round Shanda permutation cipher to data in
// place: each round runs an even (forward) pass then an odd (reverse) pass.
func ShandaEncrypt(data []byte) {
	for i := 0; i < shandaRounds; i++ {
		doEvenRound(data, shandaRoundEvenEncrypt)
		doOddRound(data, shandaRoundOddEncrypt)
	}
}

// ShandaDecrypt applies the inverse of ShandaEncrypt: each round undoes the
// odd pass then the even pass, and rounds run in reverse order.
func ShandaDecrypt(data []byte) {
	for i := 0; i < shandaRounds; i++ {
		doOddRound(data, shandaRoundOddDecrypt)
		doEvenRound(data, shandaRoundEvenDecrypt)
	}
}
