package utils

import (
	"fmt"
	"math/rand"
	"time"
)

const tokenAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Transaction id prefixes per intake flow.
const (
	MobileTxPrefix = "OSTECH"
	CardTxPrefix   = "CARD"
)

// NewTransactionID builds a human-traceable correlation token:
// PREFIX-<unix millis>-<9 random base36 chars>.
func NewTransactionID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), randomToken(9))
}

func randomToken(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}
