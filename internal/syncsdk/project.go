package syncsdk

import (
	"context"
	"errors"

	"github.com/imroc/req/v3"
	"github.com/transync/transync/internal/filesync"
)

const (
	v1Project = "/api/projects/{projectKey}"
)

// ProjectAPI reads project metadata.
type ProjectAPI struct {
	client *req.Client
	auth   filesync.Authorizer
}

func newProjectAPI(client *req.Client, auth filesync.Authorizer) *ProjectAPI {
	return &ProjectAPI{
		client: client,
		auth:   auth,
	}
}

// Get returns the project with its locales and files.
func (p *ProjectAPI) Get(ctx context.Context, projectKey string) (*Project, error) {
	if projectKey == "" {
		return nil, ErrNoProjectKey
	}

	headers := &filesync.Request{}
	p.auth.Authorize(headers)

	var env projectEnvelope
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeaders(headers.Header).
		SetPathParam("projectKey", projectKey).
		SetSuccessResult(&env).
		Get(v1Project)

	if err := handleAPIError(resp, err, "project get"); err != nil {
		return nil, err
	}

	if env.Project == nil {
		return nil, errors.New("sdk: project get: empty response")
	}

	return env.Project, nil
}
