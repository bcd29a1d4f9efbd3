package errlog

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestErrlogService(t *testing.T) {

	var wpStart, wgEnd sync.WaitGroup

	ctx, cancel := context.WithCancel(context.Background())

	wpStart.Add(1)
	wgEnd.Add(1)
	go PowerOn(ctx, &wpStart, &wgEnd)
	wpStart.Wait()

	Add("registry: ", errors.New("put item failed"))
	Add("es", errors.New("index unavailable"), errors.New("index still unavailable"))

	if n := Errors(); n != 3 {
		t.Errorf("expected 3 errors got %d", n)
	}

	var b bytes.Buffer
	PrintErrors(&b)
	out := b.String()
	t.Log(out)
	if !strings.Contains(out, "ERRORS : 3") {
		t.Errorf("expected error count in report")
	}
	if !strings.Contains(out, "registry put item failed") {
		t.Errorf("expected trimmed logid in report, got %q", out)
	}

	cancel()
	wgEnd.Wait()

	// service stopped: errors go to the system log only
	Add("es", errors.New("after shutdown"))
	if n := Errors(); n != 0 {
		t.Errorf("expected 0 errors from stopped service got %d", n)
	}
}
