package syncsdk

import (
	"fmt"
	"net/http"

	"github.com/fatih/color"
	"github.com/transync/transync/internal/filesync"
)

var (
	statusOK   = color.New(color.FgHiGreen).SprintFunc()
	statusFail = color.New(color.FgHiRed, color.Bold).SprintFunc()
)

// StatusFormatter renders a response as "<code> <text>", appending the api's
// error message for failed requests.
type StatusFormatter struct{}

func (StatusFormatter) Format(resp *filesync.Response) string {
	line := fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	if resp.StatusCode < http.StatusBadRequest {
		return statusOK(line)
	}

	if apiErr := decodeAPIError(resp.Body); apiErr != nil {
		line += ": " + apiErr.Message
	}
	return statusFail(line)
}

var _ filesync.ResponseFormatter = StatusFormatter{}
