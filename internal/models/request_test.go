package models

import (
	"testing"
)

func expectErrCode(t *testing.T, err error, code string) *ErrorResponse {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %s but got nil", code)
	}
	resp, ok := err.(*ErrorResponse)
	if !ok {
		t.Fatalf("expected ErrorResponse, got %T", err)
	}
	if resp.Code != code {
		t.Fatalf("expected error code %s, got %s", code, resp.Code)
	}
	return resp
}

func TestErrorResponse_Error(t *testing.T) {
	err := &ErrorResponse{Message: "failed"}
	if err.Error() != "failed" {
		t.Fatalf("expected message to be returned, got %s", err.Error())
	}
}

func TestProfileRequestValidate(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		req := &ProfileRequest{Name: "  Jane Doe ", Email: "jane@example.com", Phone: "+1 (555) 123-4567"}
		if err := req.Validate(); err != nil {
			t.Fatalf("expected valid profile, got %v", err)
		}
		if req.Name != "Jane Doe" {
			t.Fatalf("expected name to be trimmed, got %q", req.Name)
		}
	})

	t.Run("malformed email", func(t *testing.T) {
		req := &ProfileRequest{Name: "Jane Doe", Email: "not-an-email", Phone: "5551234567"}
		resp := expectErrCode(t, req.Validate(), "invalid_profile")
		reason, ok := resp.DetailFor("email")
		if !ok || reason != "Please enter a valid email address" {
			t.Fatalf("expected email-specific error, got %+v", resp.Details)
		}
		if len(resp.Details) != 1 {
			t.Fatalf("expected only the email field to fail, got %+v", resp.Details)
		}
	})

	t.Run("short name", func(t *testing.T) {
		req := &ProfileRequest{Name: "J", Email: "j@example.com", Phone: "5551234567"}
		resp := expectErrCode(t, req.Validate(), "invalid_profile")
		if reason, _ := resp.DetailFor("name"); reason != "Name must be at least 2 characters" {
			t.Fatalf("unexpected name reason %q", reason)
		}
	})

	t.Run("all fields missing", func(t *testing.T) {
		resp := expectErrCode(t, (&ProfileRequest{}).Validate(), "invalid_profile")
		if len(resp.Details) != 3 {
			t.Fatalf("expected three field errors, got %+v", resp.Details)
		}
		if reason, _ := resp.DetailFor("phone"); reason != "Phone number is required" {
			t.Fatalf("unexpected phone reason %q", reason)
		}
	})
}

func TestValidPhone(t *testing.T) {
	cases := map[string]bool{
		"5551234567":         true,
		"+44 20 7946 0958":   true,
		"(555) 123-4567":     true,
		"0123456":            false,
		"phone":              false,
		"+12345678901234567": false,
	}
	for in, want := range cases {
		if got := ValidPhone(in); got != want {
			t.Fatalf("ValidPhone(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestAnswerRequestValidate(t *testing.T) {
	if err := (&AnswerRequest{}).Validate(); err != nil {
		t.Fatalf("empty answer should be accepted, got %v", err)
	}
	long := make([]byte, 20001)
	for i := range long {
		long[i] = 'a'
	}
	expectErrCode(t, (&AnswerRequest{Answer: string(long)}).Validate(), "answer_too_long")
}
