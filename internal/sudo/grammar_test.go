//go:build !integration

package sudo_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"telegram-broadcast-bot/internal/sudo"
)

func parseOK(t *testing.T, line string) sudo.Request {
	t.Helper()
	req, err := sudo.Parse(strings.Fields(line))
	if err != nil {
		t.Fatalf("parse %q: %v", line, err)
	}
	return req
}

func parseUsage(t *testing.T, line string) *sudo.UsageError {
	t.Helper()
	_, err := sudo.Parse(strings.Fields(line))
	var usageErr *sudo.UsageError
	if !errors.As(err, &usageErr) {
		t.Fatalf("parse %q: want usage error, got %v", line, err)
	}
	return usageErr
}

func TestParse_Commands(t *testing.T) {
	cases := []struct {
		line string
		want sudo.Request
	}{
		{"break -a", sudo.Break{}},
		{"break --all", sudo.Break{}},
		{"add --admin 123", sudo.AddAdmin{AdminID: 123}},
		{"remove --admin 123", sudo.RemoveAdmin{AdminID: 123}},
		{"getusers", sudo.GetUsers{}},
		{"getusers -a", sudo.GetUsers{}},
		{"getusers -b", sudo.GetUsers{BannedOnly: true}},
		{"getusers --banned -l es", sudo.GetUsers{BannedOnly: true, Lang: "es"}},
		{"getusers --lang ta", sudo.GetUsers{Lang: "ta"}},
		{"ban 42", sudo.Ban{UserID: 42}},
		{"unban 42", sudo.Unban{UserID: 42}},
		{"mkgrp -n vips", sudo.MakeGroup{Name: "vips"}},
		{"mkgrp --name vips", sudo.MakeGroup{Name: "vips"}},
		{"rmgrp -n vips", sudo.RemoveGroup{Name: "vips"}},
		{"setgrp 42 vips", sudo.SetGroup{UserID: 42, Group: "vips"}},
		{"send -s", sudo.Send{Stop: true}},
		{"send --stop -g ignored", sudo.Send{Stop: true}},
		{"send -g all", sudo.Send{Group: "all"}},
		{"send -g vips -m hello there folks", sudo.Send{Group: "vips", Message: "hello there folks"}},
		{"send --group all --message one two", sudo.Send{Group: "all", Message: "one two"}},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got := parseOK(t, tc.line)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestParse_MessageSwallowsRemainder(t *testing.T) {
	// everything after -m is message text, flags included
	req := parseOK(t, "send -g all -m price drops -g tomorrow")
	send, ok := req.(sudo.Send)
	if !ok {
		t.Fatalf("want Send, got %#v", req)
	}
	if send.Message != "price drops -g tomorrow" {
		t.Fatalf("want raw remainder, got %q", send.Message)
	}
}

func TestParse_Usage(t *testing.T) {
	lines := []string{
		"break",
		"break -a extra",
		"add",
		"add --admin",
		"add --admin notanumber",
		"remove --admin -5",
		"getusers -l",
		"getusers stray",
		"ban",
		"ban 1 2",
		"unban zero",
		"mkgrp",
		"mkgrp -x vips",
		"rmgrp --name",
		"setgrp 42",
		"setgrp 42 vips extra",
		"send",
		"send -m hello",
		"send -g",
		"send -g vips oops",
		"send -s oops",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			usageErr := parseUsage(t, line)
			if !strings.HasPrefix(usageErr.Usage, "Usage:") {
				t.Fatalf("usage text must carry the hint, got %q", usageErr.Usage)
			}
		})
	}
}

func TestParse_Unknown(t *testing.T) {
	if _, err := sudo.Parse([]string{"frobnicate"}); !errors.Is(err, sudo.ErrUnknownCommand) {
		t.Fatalf("want ErrUnknownCommand, got %v", err)
	}
	if _, err := sudo.Parse(nil); !errors.Is(err, sudo.ErrUnknownCommand) {
		t.Fatalf("empty input: want ErrUnknownCommand, got %v", err)
	}
}
