package output

import (
	"io"
	"sync"
)

// DefaultCapacity is the initial buffer size of NewByteArrayOutput. Small and
// medium renders complete without reallocating.
const DefaultCapacity = 8192

// ByteArrayOutput accumulates UTF-8 encoded content in memory.
//
// The buffer grows by doubling, so appending N bytes in total costs O(N)
// copies. A ByteArrayOutput must not be used from multiple goroutines; give
// each render its own instance (see AcquireByteArrayOutput).
type ByteArrayOutput struct {
	buf   []byte
	count int
}

var (
	_ TemplateOutput  = (*ByteArrayOutput)(nil)
	_ io.Writer       = (*ByteArrayOutput)(nil)
	_ io.StringWriter = (*ByteArrayOutput)(nil)
	_ io.WriterTo     = (*ByteArrayOutput)(nil)
)

// NewByteArrayOutput returns an empty accumulator with DefaultCapacity.
func NewByteArrayOutput() *ByteArrayOutput {
	return NewByteArrayOutputSize(DefaultCapacity)
}

// NewByteArrayOutputSize returns an empty accumulator able to hold capacity
// bytes before growing. Negative values are treated as zero.
func NewByteArrayOutputSize(capacity int) *ByteArrayOutput {
	if capacity < 0 {
		capacity = 0
	}
	return &ByteArrayOutput{buf: make([]byte, capacity)}
}

// WriteContent appends the UTF-8 bytes of value. Go strings already hold
// UTF-8, so no transcoding happens and invalid sequences are copied as is.
func (o *ByteArrayOutput) WriteContent(value string) error {
	o.appendString(value)
	return nil
}

// WriteBinaryContent appends value verbatim. Use it for fragments encoded
// ahead of time; the result is identical to WriteContent with the same text.
func (o *ByteArrayOutput) WriteBinaryContent(value []byte) error {
	o.appendBytes(value)
	return nil
}

// Write implements io.Writer. It never fails.
func (o *ByteArrayOutput) Write(p []byte) (int, error) {
	o.appendBytes(p)
	return len(p), nil
}

// WriteString implements io.StringWriter. It never fails.
func (o *ByteArrayOutput) WriteString(s string) (int, error) {
	o.appendString(s)
	return len(s), nil
}

func (o *ByteArrayOutput) appendString(s string) {
	n := len(s)
	if n == 0 {
		return
	}
	o.grow(o.count + n)
	copy(o.buf[o.count:], s)
	o.count += n
}

func (o *ByteArrayOutput) appendBytes(p []byte) {
	n := len(p)
	if n == 0 {
		return
	}
	o.grow(o.count + n)
	copy(o.buf[o.count:], p)
	o.count += n
}

// grow makes room for at least min bytes. When min exceeds the current
// capacity the buffer is replaced by one of max(min, 2*capacity) bytes and
// the valid prefix is copied over.
func (o *ByteArrayOutput) grow(min int) {
	if min <= len(o.buf) {
		return
	}
	newCap := 2 * len(o.buf)
	if newCap < min {
		newCap = min
	}
	buf := make([]byte, newCap)
	copy(buf, o.buf[:o.count])
	o.buf = buf
}

// Bytes returns a copy of the bytes written so far. The accumulator stays
// usable and later writes do not affect the returned slice.
func (o *ByteArrayOutput) Bytes() []byte {
	out := make([]byte, o.count)
	copy(out, o.buf[:o.count])
	return out
}

// String returns the content written so far as a string.
func (o *ByteArrayOutput) String() string {
	return string(o.buf[:o.count])
}

// WriteTo writes the accumulated bytes to w without copying them first.
func (o *ByteArrayOutput) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(o.buf[:o.count])
	return int64(n), err
}

// Len reports the number of valid bytes.
func (o *ByteArrayOutput) Len() int {
	return o.count
}

// Cap reports the current buffer capacity.
func (o *ByteArrayOutput) Cap() int {
	return len(o.buf)
}

// Reset discards the content but keeps the buffer for reuse.
func (o *ByteArrayOutput) Reset() {
	o.count = 0
}

// AcquireByteArrayOutput returns an empty accumulator from the pool.
//
// Return it with ReleaseByteArrayOutput once the materialized result has been
// taken, in order to reduce memory allocations.
func AcquireByteArrayOutput() *ByteArrayOutput {
	v := byteArrayOutputPool.Get()
	if v == nil {
		return NewByteArrayOutput()
	}
	return v.(*ByteArrayOutput)
}

// ReleaseByteArrayOutput resets o and returns it to the pool.
//
// Do not access a released accumulator, otherwise data races may occur.
func ReleaseByteArrayOutput(o *ByteArrayOutput) {
	if o == nil {
		return
	}
	o.Reset()
	byteArrayOutputPool.Put(o)
}

var byteArrayOutputPool sync.Pool
