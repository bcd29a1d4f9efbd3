package reader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	param "github.com/fbprep/param"
	slog "github.com/fbprep/syslog"

	"github.com/klauspost/compress/gzip"
)

const logid = "RDFreader"

func syslog(s string) {
	slog.Log(logid, s)
}

var gzipMagic = []byte{0x1f, 0x8b}

// Reader is a lazy forward-only sequence of dump lines. Each line is returned as read,
// including its trailing newline (the last line may have none).
type Reader struct {
	br   *bufio.Reader
	gz   *gzip.Reader
	f    io.Closer // file opened by Open, if any
	line int
	gzip bool
}

// Open opens the dump at path. Gzip content is detected from its magic bytes,
// anything else is read as plain text.
func Open(path string) (*Reader, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}
	r, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.f = f
	syslog(fmt.Sprintf("opened %s (gzip: %v)", path, r.gzip))

	return r, nil
}

// New wraps r, decompressing it if it is a gzip stream.
func New(r io.Reader) (*Reader, error) {

	rdr := &Reader{}
	br := bufio.NewReaderSize(r, param.ReadBufSize)

	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read dump: %w", err)
	}
	if bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("gzip header: %w", err)
		}
		rdr.gz = gz
		rdr.gzip = true
		br = bufio.NewReaderSize(gz, param.ReadBufSize)
	}
	rdr.br = br

	return rdr, nil
}

// Next returns the next line. io.EOF is returned once every line has been read.
func (r *Reader) Next() (string, error) {

	s, err := r.br.ReadString('\n')
	if len(s) > 0 {
		r.line++
		if err == io.EOF {
			// final line without newline
			return s, nil
		}
	}
	if err != nil {
		if err == io.EOF {
			return "", io.EOF
		}
		return "", fmt.Errorf("read line %d: %w", r.line+1, err)
	}
	return s, nil
}

// Line returns the number of the line last returned by Next.
func (r *Reader) Line() int {
	return r.line
}

// Gzip reports whether the input is gzip compressed.
func (r *Reader) Gzip() bool {
	return r.gzip
}

func (r *Reader) Close() error {

	var err error
	if r.gz != nil {
		err = r.gz.Close()
	}
	if r.f != nil {
		if cerr := r.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
