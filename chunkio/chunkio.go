// Package chunkio slices an arbitrarily large byte stream into bounded,
// fixed-size chunks without buffering the whole payload in memory.
//
// Usage:
//
//	chunked := chunkio.NewReader(src, chunkSize)
//	for chunked.Next() {
//		// read the current chunk as a regular io.Reader; it ends with
//		// io.EOF after at most chunkSize bytes
//	}
//	// the source is closed by the Reader itself once it is drained
package chunkio

import "io"

// Reader exposes one bounded chunk of the underlying source per Next
// activation. Close on the Reader is a no-op: the source is only ever closed
// internally, once it has been read to exhaustion, so consumers that treat
// each chunk as its own closeable resource cannot sever the source early.
type Reader struct {
	src       io.Reader
	chunkSize int64
	remaining int64
	peek      byte
	hasPeek   bool
	srcEOF    bool
	closed    bool
	err       error
}

// NewReader creates a Reader that serves the source in chunks of chunkSize
// bytes. The final chunk is shorter when the source length is not an exact
// multiple of chunkSize.
func NewReader(src io.Reader, chunkSize int64) *Reader {
	if chunkSize <= 0 {
		panic("chunkio: chunk size must be positive")
	}
	return &Reader{src: src, chunkSize: chunkSize}
}

// Next activates the next chunk and reports whether there is one. It returns
// false permanently once the source is exhausted; at that point the source
// has already been closed. One byte of lookahead is used, so a source whose
// length is an exact multiple of the chunk size never yields a trailing
// empty chunk.
func (r *Reader) Next() bool {
	if r.closed {
		return false
	}
	if r.err != nil {
		// Surface the pending read error through the next chunk.
		r.remaining = r.chunkSize
		return true
	}
	r.fill()
	if !r.hasPeek && r.err == nil {
		r.closeSource()
		return false
	}
	r.remaining = r.chunkSize
	return true
}

// Read serves at most the remaining bytes of the current chunk. It returns
// io.EOF at the end of a chunk (call Next to continue) and, idempotently,
// after the source has been exhausted; no reads reach a closed source.
func (r *Reader) Read(p []byte) (int, error) {
	if r.closed || r.remaining <= 0 {
		return 0, io.EOF
	}
	if r.err != nil && !r.hasPeek {
		// Surface the source error once, then behave as exhausted.
		err := r.err
		r.closeSource()
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	n := 0
	if r.hasPeek {
		p[0] = r.peek
		r.hasPeek = false
		r.remaining--
		n = 1
		if r.remaining == 0 || r.err != nil {
			return n, nil
		}
		if r.srcEOF {
			r.closeSource()
			return n, nil
		}
		p = p[1:]
	}
	if r.srcEOF {
		r.closeSource()
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}

	max := int64(len(p))
	if max > r.remaining {
		max = r.remaining
	}
	m, err := r.src.Read(p[:max])
	r.remaining -= int64(m)
	n += m
	switch {
	case err == io.EOF:
		r.closeSource()
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	case err != nil:
		r.err = err
		if n > 0 {
			return n, nil
		}
		return 0, err
	}
	return n, nil
}

// Close is a no-op. The underlying source is closed internally when it is
// drained.
func (r *Reader) Close() error {
	return nil
}

// fill reads one byte ahead so exhaustion is detected on chunk boundaries.
func (r *Reader) fill() {
	if r.hasPeek || r.srcEOF || r.err != nil {
		return
	}
	var buf [1]byte
	for {
		n, err := r.src.Read(buf[:])
		if n > 0 {
			r.peek = buf[0]
			r.hasPeek = true
			if err == io.EOF {
				r.srcEOF = true
			} else if err != nil {
				r.err = err
			}
			return
		}
		if err == io.EOF {
			r.srcEOF = true
			return
		}
		if err != nil {
			r.err = err
			return
		}
	}
}

func (r *Reader) closeSource() {
	if r.closed {
		return
	}
	r.closed = true
	if c, ok := r.src.(io.Closer); ok {
		// A close failure must not mask the end-of-stream condition.
		_ = c.Close()
	}
}
