package validation

import (
	"errors"
	"testing"
)

func TestErrorsKeepFirstMessage(t *testing.T) {
	errs := Errors{}
	if errs.Err() != nil {
		t.Fatalf("expected nil error for empty set")
	}

	errs.Add("body", "body is required")
	errs.Add("body", "ignored")
	errs.Add("attachments", "too many files")

	err := errs.Err()
	var target Errors
	if !errors.As(err, &target) {
		t.Fatalf("expected validation.Errors, got %T", err)
	}
	if target["body"] != "body is required" {
		t.Fatalf("expected first message kept, got %q", target["body"])
	}
	if got := err.Error(); got != "validation failed: attachments: too many files; body: body is required" {
		t.Fatalf("unexpected message %q", got)
	}
}
