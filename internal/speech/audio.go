package speech

import (
	"context"
	"io"
)

// ReaderProvider adapts an io.Reader to AudioProvider. The capture
// collaborator pipes raw PCM into the daemon (stdin, a named pipe); this
// chunks it into frames for the recognition stream.
type ReaderProvider struct {
	r         io.Reader
	frameSize int
}

// NewReaderProvider wraps r, returning frames of at most frameSize bytes.
func NewReaderProvider(r io.Reader, frameSize int) *ReaderProvider {
	return &ReaderProvider{r: r, frameSize: frameSize}
}

// Read returns the next audio frame, or the reader's error (io.EOF when
// capture ends).
func (p *ReaderProvider) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, p.frameSize)
	n, err := p.r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}
