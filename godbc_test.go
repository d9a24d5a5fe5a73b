package godbc

import (
	"context"
	"errors"
	"testing"
)

// fakeDriver records the URL it was asked to connect to.
type fakeDriver struct {
	lastURL string
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) Connect(_ context.Context, url string) (Connection, error) {
	d.lastURL = url
	return nil, errors.New("fake driver cannot connect")
}

func TestOpenDispatchesByScheme(t *testing.T) {
	d := &fakeDriver{}
	Register("fake", d)

	_, err := Open(context.Background(), "fake://user@host:1234/db")
	if err == nil {
		t.Fatal("expected the fake driver's error")
	}
	if d.lastURL != "fake://user@host:1234/db" {
		t.Fatalf("driver got url %q", d.lastURL)
	}
}

func TestOpenUnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "nosuch://host/db")
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("err = %v, want *ConnectionError", err)
	}
}

func TestOpenMalformedURL(t *testing.T) {
	for _, raw := range []string{"://nope", "no-scheme-at-all", "%zz"} {
		_, err := Open(context.Background(), raw)
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			t.Errorf("Open(%q) = %v, want *ConnectionError", raw, err)
		}
	}
}

func TestDriversSorted(t *testing.T) {
	Register("zfake", &fakeDriver{})
	Register("afake", &fakeDriver{})

	list := Drivers()
	for i := 1; i < len(list); i++ {
		if list[i-1] > list[i] {
			t.Fatalf("Drivers() not sorted: %v", list)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate Register should panic")
		}
	}()
	Register("dup", &fakeDriver{})
	Register("dup", &fakeDriver{})
}
