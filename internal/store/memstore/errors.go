package memstore

import "errors"

var errShortIDExhausted = errors.New("failed to allocate a unique short id")
