package main

import (
	"os"
	"testing"
)

func TestEnvString(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		set      bool
		def      string
		expected string
	}{
		{name: "set", key: "DISTSPELL_TEST_TRANSPORT", value: "http", set: true, def: "local", expected: "http"},
		{name: "unset", key: "DISTSPELL_TEST_TRANSPORT_UNSET", set: false, def: "local", expected: "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				os.Setenv(tt.key, tt.value)
				defer os.Unsetenv(tt.key)
			}
			if got := envString(tt.key, tt.def); got != tt.expected {
				t.Errorf("envString(%q, %q) = %q, want %q", tt.key, tt.def, got, tt.expected)
			}
		})
	}
}

func TestEnvIntDefault(t *testing.T) {
	os.Unsetenv("DISTSPELL_TEST_WORLD_SIZE")
	if got := envInt("DISTSPELL_TEST_WORLD_SIZE", 4); got != 4 {
		t.Errorf("envInt default = %d, want 4", got)
	}
}

func TestEnvIntSet(t *testing.T) {
	os.Setenv("DISTSPELL_TEST_WORLD_SIZE", "8")
	defer os.Unsetenv("DISTSPELL_TEST_WORLD_SIZE")
	if got := envInt("DISTSPELL_TEST_WORLD_SIZE", 4); got != 8 {
		t.Errorf("envInt = %d, want 8", got)
	}
}

func TestBuildGroupsLocal(t *testing.T) {
	groups, closeFn, err := buildGroups(3, "local")
	if err != nil {
		t.Fatalf("buildGroups: %v", err)
	}
	defer closeFn()
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	for r, g := range groups {
		if g.Rank() != r {
			t.Errorf("groups[%d].Rank() = %d", r, g.Rank())
		}
		if g.World() != 3 {
			t.Errorf("groups[%d].World() = %d, want 3", r, g.World())
		}
	}
}

func TestBuildGroupsUnknownTransport(t *testing.T) {
	_, _, err := buildGroups(2, "carrier-pigeon")
	if err == nil {
		t.Fatal("expected an error for an unknown transport")
	}
}
