package es

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fbprep/rdf/schema"
)

var _ schema.Sink = (*Mirror)(nil)

type fakeES struct {
	sync.Mutex
	bodies []string
	fail   bool
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/":
		io.WriteString(w, `{"version":{"number":"7.6.0"}}`)
	case strings.HasPrefix(r.URL.Path, "/fbprep-schema/_doc/"):
		if f.fail {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"error":"down"}`)
			return
		}
		b, _ := io.ReadAll(r.Body)
		f.Lock()
		f.bodies = append(f.bodies, string(b))
		f.Unlock()
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created","_version":1}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestMirror(t *testing.T) {

	f := &fakeES{}
	srv := httptest.NewServer(f)
	defer srv.Close()

	m, err := Connect(context.Background(), srv.URL, "FBprep-Schema")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Add("<http://rdf.freebase.com/ns/type.object.name>"); err != nil {
		t.Fatal(err)
	}
	if m.Docs() != 1 || len(f.bodies) != 1 {
		t.Fatalf("expected one indexed document got %d", m.Docs())
	}
	if !strings.Contains(f.bodies[0], `"predicate":"<http://rdf.freebase.com/ns/type.object.name>"`) {
		t.Errorf("unexpected document %s", f.bodies[0])
	}
	if strings.Contains(f.bodies[0], `\u003c`) {
		t.Errorf("IRI brackets escaped in document %s", f.bodies[0])
	}
}

func TestMirrorErrorNotReturned(t *testing.T) {

	f := &fakeES{fail: true}
	srv := httptest.NewServer(f)
	defer srv.Close()

	m, err := Connect(context.Background(), srv.URL, "fbprep-schema")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Add("<p>"); err != nil {
		t.Errorf("expected nil error got %s", err)
	}
	if m.Docs() != 0 {
		t.Errorf("expected no indexed documents")
	}
}

func TestDocumentID(t *testing.T) {
	if got := DocumentID("<http://rdf.freebase.com/ns/a.b>"); got != "http:%2F%2Frdf.freebase.com%2Fns%2Fa.b" {
		t.Errorf("unexpected id %s", got)
	}
}
