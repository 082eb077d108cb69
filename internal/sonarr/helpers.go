package sonarr

import (
	"bytes"
	"io"
)

func limitReader(r io.Reader) io.Reader {
	return io.LimitReader(r, 4096)
}

func newBodyReader(body []byte) io.Reader {
	return bytes.NewReader(body)
}
