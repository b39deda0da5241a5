package cli

import (
	"bytes"
	"testing"
)

func TestPrinter(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.Info("plain")
	p.Infof("seed %d", 42)
	p.Warnf("reloading %s", "typegen.yaml")

	wantOut := "plain\nseed 42\n"
	if out.String() != wantOut {
		t.Errorf("stdout: got %q, want %q", out.String(), wantOut)
	}
	wantErr := "warning: reloading typegen.yaml\n"
	if errOut.String() != wantErr {
		t.Errorf("stderr: got %q, want %q", errOut.String(), wantErr)
	}
}
