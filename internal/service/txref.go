package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// DefaultTxRefPrefix is used when no prefix is configured.
const DefaultTxRefPrefix = "JHYTERMAX"

// NewTxRef returns a transaction reference of the form
// <PREFIX>-<order id>-<8 uppercase hex>.
func NewTxRef(prefix string, orderID int64) string {
	if prefix == "" {
		prefix = DefaultTxRefPrefix
	}
	return fmt.Sprintf("%s-%d-%s", prefix, orderID, randomHex8())
}

// NewOrderRef returns an order reference of the form ORD-<8 uppercase hex>.
func NewOrderRef() string {
	return "ORD-" + randomHex8()
}

func randomHex8() string {
	id := uuid.New()
	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
