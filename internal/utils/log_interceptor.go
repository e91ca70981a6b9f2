// Package utils holds small helpers shared by the transync packages.
package utils

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"time"
)

// LogInterceptor prefixes every complete line written to it with a sequence
// number and a timestamp before passing it on. Partial lines are held back
// until their newline arrives or Close is called.
type LogInterceptor struct {
	mu     sync.Mutex
	target io.Writer
	seq    uint64
	buf    bytes.Buffer
	now    func() time.Time
}

func NewLogInterceptor(target io.Writer) *LogInterceptor {
	return &LogInterceptor{
		target: target,
		now:    time.Now,
	}
}

func (i *LogInterceptor) writeLine(line []byte) error {
	i.seq++

	var out bytes.Buffer
	out.WriteString(slog.Uint64("line", i.seq).String())
	out.WriteByte(' ')
	out.WriteString(slog.String("time", i.now().Format(time.RFC3339)).String())
	out.WriteByte(' ')
	out.Write(bytes.TrimRight(line, "\r"))
	out.WriteByte('\n')

	_, err := i.target.Write(out.Bytes())
	return err
}

// Write implements io.Writer. It always reports len(p) on success.
func (i *LogInterceptor) Write(p []byte) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.buf.Write(p)
	for {
		idx := bytes.IndexByte(i.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := i.buf.Next(idx + 1)
		if err := i.writeLine(line[:idx]); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Close flushes a trailing partial line.
func (i *LogInterceptor) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.buf.Len() == 0 {
		return nil
	}
	rest := bytes.Clone(i.buf.Bytes())
	i.buf.Reset()
	return i.writeLine(rest)
}
