package ledger

import (
	"math"
	"math/bits"
)

// Aritmética saturada sobre uint64. Valores monetários e contadores de
// consumo nunca podem dar a volta: estouro trava em MaxUint64 e subtração
// abaixo de zero trava em 0.

// SatAdd soma a e b travando em MaxUint64.
func SatAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// SatSub subtrai b de a travando em 0.
func SatSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// SatMul multiplica a por b travando em MaxUint64.
func SatMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}
