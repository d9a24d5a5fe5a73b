package godbc

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
	}{
		{"connection", &ConnectionError{URL: "postgres://u@h/db", Cause: cause}},
		{"syntax", &SyntaxError{SQL: "SELEC 1", Cause: cause}},
		{"parameter", &ParameterError{Want: -1, Got: -1, Cause: cause}},
		{"driver", &DriverError{Driver: "mem", Cause: cause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, cause) {
				t.Fatalf("%v does not unwrap to its cause", tt.err)
			}
			if tt.err.Error() == "" {
				t.Fatal("empty error message")
			}
		})
	}
}

func TestParameterErrorCountMessage(t *testing.T) {
	err := &ParameterError{Want: 2, Got: 3}
	want := "parameter error: statement takes 2 parameters, got 3"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	inner := &SyntaxError{SQL: "SELEC", Cause: errors.New("near SELEC")}
	wrapped := fmt.Errorf("execute: %w", inner)

	var syntaxErr *SyntaxError
	if !errors.As(wrapped, &syntaxErr) {
		t.Fatal("errors.As failed through wrapping")
	}
	if syntaxErr.SQL != "SELEC" {
		t.Fatalf("SQL = %q", syntaxErr.SQL)
	}
}
