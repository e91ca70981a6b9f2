package syncsdk

import (
	"bytes"
	"context"
	"io"

	"github.com/imroc/req/v3"
	"github.com/transync/transync/internal/filesync"
	"github.com/transync/transync/internal/utils"
)

// Do implements filesync.Transport. Any status code is a completed round trip;
// only failures to send the request or read the body are errors.
func (c *Client) Do(ctx context.Context, r *filesync.Request) (*filesync.Response, error) {
	request := c.client.R().SetContext(ctx)

	for k, v := range r.Header {
		request.SetHeader(k, v)
	}

	if len(r.Form) > 0 {
		request.SetFormData(r.Form)
	}

	if r.File != nil {
		content := r.File.Content
		request.SetFileUpload(req.FileUpload{
			ParamName: r.File.FieldName,
			FileName:  r.File.FileName,
			GetFileContent: func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(content)), nil
			},
			FileSize:    int64(len(content)),
			ContentType: utils.DetectContentType(r.File.FileName, content),
		})
	}

	resp, err := request.Send(r.Method, r.Path)
	if err != nil {
		return nil, transportError(err)
	}

	body, err := resp.ToBytes()
	if err != nil {
		return nil, transportError(err)
	}

	return &filesync.Response{
		StatusCode: resp.GetStatusCode(),
		Status:     resp.Status,
		Body:       body,
	}, nil
}

func transportError(err error) error {
	return &filesync.TransportError{Kind: filesync.ClassifyError(err), Err: err}
}

var _ filesync.Transport = (*Client)(nil)
