//go:build !integration

package metrics

import "testing"

func TestMustRegister(t *testing.T) {
	t.Run("should tolerate repeated registration", func(t *testing.T) {
		MustRegister()
		MustRegister()
	})

	t.Run("should accept increments after registration", func(t *testing.T) {
		IncUpdate("command")
		IncSudoCommand("send", "OK ")
		IncDelivery("relay", "")
	})
}

func TestNorm(t *testing.T) {
	cases := map[string]string{
		"OK ":       "ok",
		"Broadcast": "broadcast",
		"":          "unknown",
		"  ":        "unknown",
	}
	for in, want := range cases {
		if got := norm(in); got != want {
			t.Fatalf("norm(%q) = %q, want %q", in, got, want)
		}
	}
}
