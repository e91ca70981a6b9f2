package syncsdk

import (
	"github.com/google/uuid"
	"github.com/transync/transync/internal/filesync"
)

// HeaderAuthorizer sends the project key in a header and tags every request with an id.
type HeaderAuthorizer struct {
	apiKey string
}

func NewHeaderAuthorizer(apiKey string) *HeaderAuthorizer {
	return &HeaderAuthorizer{apiKey: apiKey}
}

func (a *HeaderAuthorizer) Authorize(r *filesync.Request) {
	r.SetHeader(HeaderAPIKey, a.apiKey)
	r.SetHeader(HeaderRequestID, uuid.NewString())
}

var _ filesync.Authorizer = (*HeaderAuthorizer)(nil)
