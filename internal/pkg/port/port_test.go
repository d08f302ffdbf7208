package port

import (
	"net"
	"testing"
)

func TestFindAvailablePortSkipsBusy(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()
	taken := busy.Addr().(*net.TCPAddr).Port

	got, err := FindAvailablePort("127.0.0.1", taken)
	if err != nil {
		t.Fatalf("FindAvailablePort() error = %v", err)
	}
	if got <= taken || got >= taken+maxAttempts {
		t.Errorf("FindAvailablePort(%d) = %d, want a later free port", taken, got)
	}
}

func TestFindAvailablePortRange(t *testing.T) {
	for _, p := range []int{-1, 70000} {
		if _, err := FindAvailablePort("127.0.0.1", p); err == nil {
			t.Errorf("FindAvailablePort(%d) accepted an invalid port", p)
		}
	}
}
