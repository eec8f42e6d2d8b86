package keys

import (
	"strconv"
	"strings"
)

// Codec builds and parses opaque composite keys of the form
// "<prefix><marker><suffix>". Keys address user-scoped sub-resources without
// exposing a bare surrogate id; the marker differs per resource kind so a key
// minted for one kind does not accidentally decode under another.
type Codec struct {
	marker string
}

// One codec per addressable resource kind. Account and Category keys encode
// (userID, resourceID); Transaction keys encode (accountID, transactionID).
var (
	Account     = Codec{marker: "-UA-"}
	Transaction = Codec{marker: "-UT-"}
	Category    = Codec{marker: "-UC-"}
)

// Encode renders both ids joined by the codec marker. The result round-trips
// exactly through DecodePrefix/DecodeSuffix; no other guarantee is made.
func (c Codec) Encode(prefix, suffix int64) string {
	return strconv.FormatInt(prefix, 10) + c.marker + strconv.FormatInt(suffix, 10)
}

// DecodePrefix extracts the first id from a key. Malformed keys report ok ==
// false, never an error: callers treat a bad key exactly like a missing
// resource.
func (c Codec) DecodePrefix(key string) (int64, bool) {
	return c.part(key, 0)
}

// DecodeSuffix extracts the second id from a key.
func (c Codec) DecodeSuffix(key string) (int64, bool) {
	return c.part(key, 1)
}

func (c Codec) part(key string, index int) (int64, bool) {
	parts := strings.Split(key, c.marker)
	if len(parts) != 2 {
		return 0, false
	}
	// ParseInt rejects fractional and exponent forms: only exact 64-bit
	// signed integers are valid segments.
	n, err := strconv.ParseInt(parts[index], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
