package orders

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

const (
	orderNumberPrefix   = "ORD"
	orderNumberTokenLen = 8
	orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{8}-[A-Z0-9]{8}$`)

// NewOrderNumber builds ORD-<YYYYMMDD>-<8 uppercase alphanumerics> for the UTC date of now.
func NewOrderNumber(now time.Time) (string, error) {
	token := make([]byte, orderNumberTokenLen)
	max := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range token {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate order number: %w", err)
		}
		token[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, now.UTC().Format("20060102"), token), nil
}

// IsOrderNumber reports whether value has the order number shape.
func IsOrderNumber(value string) bool {
	return orderNumberPattern.MatchString(value)
}
