package syncsdk

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

var (
	ErrNoServerURL      = errors.New("sdk: server url missing")
	ErrNoProjectKey     = errors.New("sdk: project key missing")
	ErrProjectNotFound  = errors.New("sdk: project not found")
	ErrInvalidProjectID = errors.New("sdk: invalid project key")
)

// APIError is the json error body returned by the api.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: %s", e.Message)
	}
	return fmt.Sprintf("api error: %s - %s", e.Code, e.Message)
}

// handleAPIError turns a failed request or an error status into an error.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("http request error: %s: %w", operation, requestErr)
	}

	if !resp.IsErrorState() {
		return nil
	}

	switch resp.GetStatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", operation, ErrProjectNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w", operation, ErrInvalidProjectID)
	}

	// error bodies are not always json, so they are decoded here rather than by req
	if apiErr := decodeAPIError(resp.Bytes()); apiErr != nil {
		return fmt.Errorf("%s: %w", operation, apiErr)
	}

	return fmt.Errorf("%s: unexpected status %s", operation, resp.Status)
}

func decodeAPIError(body []byte) *APIError {
	if len(body) == 0 {
		return nil
	}
	var apiErr APIError
	if err := jsonUnmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
		return nil
	}
	return &apiErr
}
