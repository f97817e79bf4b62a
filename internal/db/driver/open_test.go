package driver

import (
	"context"
	"testing"
)

func TestOpen_PebbleInMemory(t *testing.T) {
	s, err := Open(Config{Driver: Pebble, InMemory: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get = %q, %v", got, err)
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown driver", Config{Driver: "sqlite"}},
		{"redis without addrs", Config{Driver: Redis}},
		{"valkey without addrs", Config{Driver: Valkey}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Open(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
