// Package requestid issues correlation IDs for incoming HTTP requests.
package requestid

import "github.com/google/uuid"

// New returns a fresh request ID.
func New() string {
	return uuid.NewString()
}
