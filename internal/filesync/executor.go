package filesync

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
)

const (
	// MaxAttempts is the number of tries a request gets before a timeout is final.
	MaxAttempts = 3
	// RetryWait is the pause between two attempts after a timeout.
	RetryWait = 5 * time.Second
)

type attemptOutcome int

const (
	outcomeSuccess attemptOutcome = iota
	outcomeRetryable
	outcomeFatal
)

// Executor runs single file operations against the remote api. It holds no per-file
// state and is safe for concurrent use as long as its Transport is.
type Executor struct {
	transport Transport
	auth      Authorizer
	formatter ResponseFormatter
	fs        afero.Fs
	clock     clockwork.Clock
}

type ExecutorOption func(*Executor)

func WithAuthorizer(auth Authorizer) ExecutorOption {
	return func(e *Executor) {
		e.auth = auth
	}
}

func WithFormatter(f ResponseFormatter) ExecutorOption {
	return func(e *Executor) {
		e.formatter = f
	}
}

// WithFs replaces the filesystem, afero.NewOsFs by default.
func WithFs(fs afero.Fs) ExecutorOption {
	return func(e *Executor) {
		e.fs = fs
	}
}

// WithClock replaces the clock used for the retry wait.
func WithClock(c clockwork.Clock) ExecutorOption {
	return func(e *Executor) {
		e.clock = c
	}
}

func NewExecutor(transport Transport, opts ...ExecutorOption) *Executor {
	e := &Executor{
		transport: transport,
		auth:      noopAuthorizer{},
		formatter: statusTextFormatter{},
		fs:        afero.NewOsFs(),
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fs returns the filesystem the executor reads from and writes to.
func (e *Executor) Fs() afero.Fs {
	return e.fs
}

// Fetch downloads the remote version of d unless the checksums already match.
func (e *Executor) Fetch(ctx context.Context, d FileDescriptor, force bool) *Result {
	return e.Run(ctx, Operation{Kind: OpFetch, Descriptor: d, Force: force})
}

// Upload sends the local version of d unless the checksums already match.
func (e *Executor) Upload(ctx context.Context, d FileDescriptor, force bool, params map[string]string) *Result {
	return e.Run(ctx, Operation{Kind: OpUpload, Descriptor: d, Force: force, Params: params})
}

// Create registers the local file of d as a new master file.
func (e *Executor) Create(ctx context.Context, d FileDescriptor, params map[string]string) *Result {
	return e.Run(ctx, Operation{Kind: OpCreate, Descriptor: d, Params: params})
}

// Delete removes the master file of d from the project.
func (e *Executor) Delete(ctx context.Context, d FileDescriptor) *Result {
	return e.Run(ctx, Operation{Kind: OpDelete, Descriptor: d})
}

// Run executes op. It never returns nil.
func (e *Executor) Run(ctx context.Context, op Operation) *Result {
	d := op.Descriptor
	state := Inspect(e.fs, d, op.Force)

	res := &Result{
		Op:         op.Kind,
		Descriptor: d,
		Checksums:  DisplayPair(state.LocalChecksum, d.RemoteChecksum),
	}

	if op.gated() && state.Decision == DecisionSkip {
		res.OK = true
		res.Skipped = true
		res.Status = "Skipped"
		slog.Debug("sync", "op", op.Kind, "status", "Skipped", "path", d.LocalPath, "checksums", res.Checksums)
		return res
	}

	if err := e.checkPreconditions(op, state); err != nil {
		return e.fail(res, err)
	}

	req, err := e.buildRequest(op)
	if err != nil {
		return e.fail(res, err)
	}
	e.auth.Authorize(req)

	resp, attempts, err := e.roundTrip(ctx, op, req)
	res.Attempts = attempts
	if err != nil {
		return e.fail(res, err)
	}

	res.OK = true
	res.StatusCode = resp.StatusCode
	res.Status = e.formatter.Format(resp)

	switch op.Kind {
	case OpFetch:
		if resp.StatusCode != http.StatusOK {
			break
		}
		if err := e.persist(d.LocalPath, resp.Body); err != nil {
			return e.fail(res, fmt.Errorf("write %s: %w", d.LocalPath, err))
		}
		res.Bytes = int64(len(resp.Body))
		res.Descriptor = d.WithRemoteChecksum(ChecksumBytes(resp.Body)).WithFresh(true)
	case OpUpload:
		if req.File != nil {
			res.Bytes = int64(len(req.File.Content))
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			res.Descriptor = d.WithRemoteChecksum(state.LocalChecksum).WithFresh(true)
		}
	case OpCreate:
		if req.File != nil {
			res.Bytes = int64(len(req.File.Content))
		}
	}

	slog.Info("sync", "op", op.Kind, "status", res.Status, "path", d.LocalPath, "attempts", attempts, "size", humanize.Bytes(uint64(res.Bytes)))
	return res
}

func (e *Executor) checkPreconditions(op Operation, state State) error {
	d := op.Descriptor

	switch op.Kind {
	case OpFetch:
		if d.ID == "" {
			return ErrNoFileID
		}
	case OpUpload:
		if !state.Exists {
			return ErrLocalFileMissing
		}
		if d.ID == "" {
			return ErrNoFileID
		}
	case OpCreate:
		if !state.Exists {
			return ErrLocalFileMissing
		}
	case OpDelete:
		if !d.IsMaster() {
			return ErrNotMasterFile
		}
		if !state.Exists {
			return ErrLocalFileMissing
		}
		if d.ID == "" {
			return ErrNoFileID
		}
	default:
		return fmt.Errorf("filesync: unknown operation %q", op.Kind)
	}
	return nil
}

func (e *Executor) buildRequest(op Operation) (*Request, error) {
	d := op.Descriptor

	switch op.Kind {
	case OpFetch:
		return &Request{Method: http.MethodGet, Path: FileLocaleURL(d)}, nil
	case OpDelete:
		return &Request{Method: http.MethodDelete, Path: FileURL(d)}, nil
	}

	content, err := afero.ReadFile(e.fs, d.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.LocalPath, err)
	}

	form := make(map[string]string, len(op.Params))
	for k, v := range op.Params {
		form[k] = v
	}

	req := &Request{
		Form: form,
		File: &FilePart{
			FieldName: "file",
			FileName:  filepath.Base(d.LocalPath),
			Content:   content,
		},
	}

	if op.Kind == OpUpload {
		req.Method = http.MethodPut
		req.Path = FileLocaleURL(d)
	} else {
		req.Method = http.MethodPost
		req.Path = FilesURL(d.ProjectKey)
	}
	return req, nil
}

// roundTrip sends req until it completes, fails for good, or runs out of attempts.
func (e *Executor) roundTrip(ctx context.Context, op Operation, req *Request) (*Response, int, error) {
	for attempt := 1; ; attempt++ {
		resp, outcome, err := e.attempt(ctx, req)
		switch outcome {
		case outcomeSuccess:
			return resp, attempt, nil
		case outcomeFatal:
			return nil, attempt, err
		}

		if attempt >= MaxAttempts {
			return nil, attempt, fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
		}

		slog.Warn("sync", "op", op.Kind, "status", "Timeout", "path", op.Descriptor.LocalPath, "attempt", attempt, "retryIn", RetryWait)
		if err := e.wait(ctx); err != nil {
			return nil, attempt, err
		}
	}
}

func (e *Executor) attempt(ctx context.Context, req *Request) (*Response, attemptOutcome, error) {
	resp, err := e.transport.Do(ctx, req)
	if err != nil {
		if ClassifyError(err) == ErrorKindTimeout && ctx.Err() == nil {
			return nil, outcomeRetryable, err
		}
		return nil, outcomeFatal, err
	}
	if resp == nil {
		return nil, outcomeFatal, fmt.Errorf("filesync: %s %s: empty response", req.Method, req.Path)
	}
	return resp, outcomeSuccess, nil
}

// wait suspends for RetryWait. Other operations keep running meanwhile.
func (e *Executor) wait(ctx context.Context) error {
	timer := e.clock.NewTimer(RetryWait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}

// persist replaces path with body through a temp file in the same directory, so
// a failed write never leaves a truncated file behind.
func (e *Executor) persist(path string, body []byte) error {
	dir := filepath.Dir(path)
	if err := e.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(e.fs, dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			tmp.Close()
			e.fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(body); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := e.fs.Chmod(tmpPath, fileMode(e.fs, path)); err != nil {
		return err
	}
	if err := e.fs.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}

// fileMode is the mode of the existing file at path, or 0644 for a new one.
func fileMode(fs afero.Fs, path string) os.FileMode {
	if info, err := fs.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return 0o644
}

func (e *Executor) fail(res *Result, err error) *Result {
	res.OK = false
	res.Err = err
	res.Status = "Error: " + err.Error()
	slog.Error("sync", "op", res.Op, "status", "Failed", "path", res.Descriptor.LocalPath, "attempts", res.Attempts, "error", err)
	return res
}

type statusTextFormatter struct{}

func (statusTextFormatter) Format(resp *Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
