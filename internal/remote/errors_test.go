package remote

import (
	"errors"
	"fmt"
	"testing"
)

func TestConnectionError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &ConnectionError{Err: cause}

	if err.Error() != "SFTP connection failed: dial tcp: connection refused" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected Unwrap to expose the cause")
	}
	if !IsConnectionError(err) {
		t.Error("Expected IsConnectionError true for ConnectionError")
	}
	if !IsConnectionError(fmt.Errorf("connect: %w", err)) {
		t.Error("Expected IsConnectionError true for wrapped ConnectionError")
	}
	if IsConnectionError(cause) {
		t.Error("Expected IsConnectionError false for plain error")
	}
}

func TestListError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &ListError{Path: "/roms/gba", Err: cause}

	if err.Error() != "cannot access /roms/gba: permission denied" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !IsListError(err) || IsListError(cause) {
		t.Error("IsListError misclassified")
	}
}
