package dbuf

import (
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// Provides a doublebuffer implementation for CW Log Events. Not concurrently safe - the calling function provides the required serialisation

type logEventBuf struct {
	buf []types.InputLogEvent
	idx int
}

// doublebuffer
type EvDBuf struct {
	w   uint // write buffer index
	buf [2]*logEventBuf
}

// Swap makes the write buffer the read buffer and clears the new write buffer.
func (eb *EvDBuf) Swap() {
	eb.w = eb.ridx()
	eb.buf[eb.w].idx = 0
}

// Write appends to the write buffer and returns the number of events it now holds.
func (eb *EvDBuf) Write(e *types.InputLogEvent) int {
	b := eb.buf[eb.w]
	b.buf[b.idx] = *e
	b.idx++
	return b.idx
}

// Read returns read buffer
func (eb *EvDBuf) Read() []types.InputLogEvent {
	d := eb.buf[eb.ridx()]
	return d.buf[:d.idx]
}

func (eb *EvDBuf) WriteBuf() int {
	return eb.buf[eb.w].idx
}

// ridx - read buffer index (opposite of write buffer index)
func (eb *EvDBuf) ridx() uint {
	return 1 - eb.w
}

func New(size int) *EvDBuf {

	bufA := make([]types.InputLogEvent, size)
	bufB := make([]types.InputLogEvent, size)

	return &EvDBuf{buf: [2]*logEventBuf{{buf: bufA}, {buf: bufB}}}
}
