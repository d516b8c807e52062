package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsThroughChains(t *testing.T) {
	t.Parallel()

	base := New(CodeNotFound, "missing thing")
	wrapped := fmt.Errorf("outer: %w", base)

	typed := As(wrapped)
	if typed == nil || typed.Code() != CodeNotFound {
		t.Fatalf("expected typed error through the chain, got %v", typed)
	}

	if As(stdErrors.New("plain")) != nil {
		t.Fatal("plain errors should not convert")
	}
	if As(nil) != nil {
		t.Fatal("nil should not convert")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("db down")
	err := Wrap(CodeDependency, cause, "load product")
	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped cause should survive errors.Is")
	}
	if err.Error() != "DEPENDENCY_ERROR: load product" {
		t.Fatalf("unexpected message %q", err.Error())
	}

	// nil cause degrades to New
	if Wrap(CodeInternal, nil, "x").Unwrap() != nil {
		t.Fatal("nil cause should leave no chain")
	}
}

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	if meta := MetadataFor(CodeValidation); meta.HTTPStatus != http.StatusBadRequest || !meta.DetailsAllowed {
		t.Fatalf("unexpected validation metadata %+v", meta)
	}
	if meta := MetadataFor(CodeForbidden); meta.DetailsAllowed {
		t.Fatal("forbidden responses must not leak details")
	}
	if meta := MetadataFor(Code("MYSTERY")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes fall back to internal, got %+v", meta)
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodeValidation, "bad input").WithDetails(map[string]string{"field": "label"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["field"] != "label" {
		t.Fatalf("details lost: %#v", err.Details())
	}
}
