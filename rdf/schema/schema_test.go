package schema

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type failSink struct{ n int }

func (f *failSink) Add(string) error {
	f.n++
	return errors.New("sink down")
}

func TestSetDedup(t *testing.T) {

	var buf bytes.Buffer
	fs := NewFileSink(&buf)
	s := NewSet(fs)

	for _, p := range []string{"<p1>", "<p2>", "<p1>", "<p3>", "<p2>"} {
		if _, err := s.Observe(p); err != nil {
			t.Fatal(err)
		}
	}
	if err := fs.Close(); err != nil {
		t.Fatal(err)
	}

	want := "<p1>:\tstring\t@lang\t.\n<p2>:\tstring\t@lang\t.\n<p3>:\tstring\t@lang\t.\n"
	if buf.String() != want {
		t.Errorf("expected %q got %q", want, buf.String())
	}
	if p := s.Predicates(); len(p) != 3 || p[0] != "<p1>" || p[2] != "<p3>" {
		t.Errorf("unexpected predicates %v", p)
	}
	if added, _ := s.Observe("<p3>"); added {
		t.Errorf("<p3> reported as new")
	}
}

func TestSetSinkError(t *testing.T) {

	fail := &failSink{}
	s := NewSet(fail)

	if _, err := s.Observe("<p1>"); err == nil {
		t.Errorf("expected sink error")
	}
	// not retried
	if _, err := s.Observe("<p1>"); err != nil || fail.n != 1 {
		t.Errorf("expected one sink call got %d (%v)", fail.n, err)
	}
}

func TestOpenFileAppends(t *testing.T) {

	path := filepath.Join(t.TempDir(), "output", "freebase.schema")

	for i := 0; i < 2; i++ {
		fs, err := OpenFile(path)
		if err != nil {
			t.Fatal(err)
		}
		s := NewSet(fs)
		s.Observe("<p>")
		s.Observe("<p>")
		if err := fs.Close(); err != nil {
			t.Fatal(err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// no dedup across runs
	if want := Line("<p>") + Line("<p>"); string(b) != want {
		t.Errorf("expected %q got %q", want, b)
	}
}
