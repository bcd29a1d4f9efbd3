package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	elog "github.com/fbprep/errlog"
)

func TestErrorsReportedAfterCancel(t *testing.T) {

	stop := startServices()

	// a signal cancels the transform context only
	ctx, cancel := context.WithCancel(context.Background())
	elog.Add("registry", errors.New("put item failed"))
	cancel()
	<-ctx.Done()

	var b bytes.Buffer
	elog.PrintErrors(&b)
	out := b.String()
	t.Log(out)
	if !strings.Contains(out, "ERRORS : 1") {
		t.Errorf("expected error count in report, got %q", out)
	}
	if !strings.Contains(out, "registry put item failed") {
		t.Errorf("expected registry error in report, got %q", out)
	}

	stop()
	if n := elog.Errors(); n != 0 {
		t.Errorf("expected stopped error service got %d errors", n)
	}
}
