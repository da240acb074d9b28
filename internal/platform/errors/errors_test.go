package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeMalformedLine, "missing separator", map[string]string{"line": "3"})
	if !stderrors.Is(err, New(CodeMalformedLine, "")) {
		t.Fatal("expected errors.Is to match on code")
	}
	if stderrors.Is(err, New(CodeUnknownDirective, "")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	err := Wrap(CodeIO, "open descriptor", fs.ErrNotExist)
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if err.Error() != "open descriptor: "+fs.ErrNotExist.Error() {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCodeOfWalksChain(t *testing.T) {
	inner := New(CodeEmptyPathToken, "empty path")
	outer := fmt.Errorf("load: %w", inner)
	if got := CodeOf(outer); got != CodeEmptyPathToken {
		t.Fatalf("expected %s, got %s", CodeEmptyPathToken, got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("expected unknown code, got %s", got)
	}
}

func TestMetadataOf(t *testing.T) {
	err := fmt.Errorf("load: %w", WrapWithMetadata(CodeIO, "read", map[string]string{"path": "/a"}, fs.ErrPermission))
	if got := MetadataOf(err)["path"]; got != "/a" {
		t.Fatalf("expected path metadata, got %q", got)
	}
	if MetadataOf(fmt.Errorf("plain")) != nil {
		t.Fatal("expected nil metadata for non-domain error")
	}
}

func TestExitCode(t *testing.T) {
	if CodeIO.ExitCode() != 1 {
		t.Fatal("expected io errors to exit with 1")
	}
	if CodeUnknownDirective.ExitCode() != 2 {
		t.Fatal("expected parse errors to exit with 2")
	}
}
