package handler

import (
	"bytes"
	"sync"
)

// responseBufferSize fits the typical encoded game state without a regrow
const responseBufferSize = 512

// bufferPool recycles encode buffers across requests
var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, responseBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}
