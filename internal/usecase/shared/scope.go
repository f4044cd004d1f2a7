// Package shared holds types used by both command and query sides.
package shared

import (
	"github.com/google/uuid"
)

// CartScope identifies whose cart a request operates on: a signed-in
// customer or an anonymous browser session. Exactly one of the two should
// be set; CustomerID wins when both are.
type CartScope struct {
	CustomerID *uuid.UUID
	SessionID  string
}

func (s CartScope) SignedIn() bool {
	return s.CustomerID != nil
}

func (s CartScope) IsZero() bool {
	return s.CustomerID == nil && s.SessionID == ""
}

// StorageKey derives the keyed storage slot for this scope. The prefix is
// store-configurable so multiple storefronts can share one database.
func (s CartScope) StorageKey(prefix string) string {
	if s.CustomerID != nil {
		return prefix + ":cust:" + s.CustomerID.String()
	}
	return prefix + ":sess:" + s.SessionID
}
