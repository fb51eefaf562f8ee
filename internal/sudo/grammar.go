// Package sudo parses the /sudo administrative command line into typed
// requests. Parsing is pure: it never touches storage, so the router can
// validate syntax before doing any work.
package sudo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Request is a closed set of parsed sudo sub-commands.
type Request interface{ isRequest() }

type Break struct{}

type AddAdmin struct{ AdminID int64 }

type RemoveAdmin struct{ AdminID int64 }

// GetUsers lists users, optionally narrowed to banned users or one language.
type GetUsers struct {
	BannedOnly bool
	Lang       string
}

type Ban struct{ UserID int64 }

type Unban struct{ UserID int64 }

type MakeGroup struct{ Name string }

type RemoveGroup struct{ Name string }

type SetGroup struct {
	UserID int64
	Group  string
}

// Send is either a relay stop, a relay activation (no message) or a
// one-shot fan-out (message present).
type Send struct {
	Stop    bool
	Group   string
	Message string
}

func (Break) isRequest()       {}
func (AddAdmin) isRequest()    {}
func (RemoveAdmin) isRequest() {}
func (GetUsers) isRequest()    {}
func (Ban) isRequest()         {}
func (Unban) isRequest()       {}
func (MakeGroup) isRequest()   {}
func (RemoveGroup) isRequest() {}
func (SetGroup) isRequest()    {}
func (Send) isRequest()        {}

// ErrUnknownCommand is returned for an unrecognized sub-command name.
var ErrUnknownCommand = errors.New("unknown sudo command")

// UsageError carries the sub-command specific usage hint shown to the admin.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string { return e.Usage }

const (
	usageBreak    = "Usage: /sudo break -a|--all"
	usageAdd      = "Usage: /sudo add --admin <user_id>"
	usageRemove   = "Usage: /sudo remove --admin <user_id>"
	usageGetUsers = "Usage: /sudo getusers [-a] [-b|--banned] [-l|--lang <code>]"
	usageBan      = "Usage: /sudo ban <user_id>"
	usageUnban    = "Usage: /sudo unban <user_id>"
	usageMkGrp    = "Usage: /sudo mkgrp -n|--name <group_name>"
	usageRmGrp    = "Usage: /sudo rmgrp -n|--name <group_name>"
	usageSetGrp   = "Usage: /sudo setgrp <user_id> <group_name>"
	usageSend     = "Usage: /sudo send -g|--group <group|all> [-m|--message <text...>] | -s|--stop"
)

// flagSpec declares one flag of a sub-command. Remainder flags swallow every
// following token as a single joined value.
type flagSpec struct {
	name      string
	aliases   []string
	takesArg  bool
	remainder bool
}

// parsedFlags maps canonical flag name to its value ("" for boolean flags).
type parsedFlags struct {
	set        map[string]string
	positional []string
}

func (p *parsedFlags) has(name string) bool {
	_, ok := p.set[name]
	return ok
}

func (p *parsedFlags) value(name string) string { return p.set[name] }

func scan(tokens []string, specs []flagSpec, usage string) (*parsedFlags, error) {
	byAlias := make(map[string]*flagSpec, len(specs)*2)
	for i := range specs {
		byAlias[specs[i].name] = &specs[i]
		for _, a := range specs[i].aliases {
			byAlias[a] = &specs[i]
		}
	}

	out := &parsedFlags{set: make(map[string]string)}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") || tok == "-" || tok == "--" {
			out.positional = append(out.positional, tok)
			continue
		}
		spec, ok := byAlias[tok]
		if !ok {
			return nil, &UsageError{Usage: usage}
		}
		switch {
		case spec.remainder:
			if i+1 >= len(tokens) {
				return nil, &UsageError{Usage: usage}
			}
			out.set[spec.name] = strings.Join(tokens[i+1:], " ")
			i = len(tokens)
		case spec.takesArg:
			if i+1 >= len(tokens) {
				return nil, &UsageError{Usage: usage}
			}
			out.set[spec.name] = tokens[i+1]
			i++
		default:
			out.set[spec.name] = ""
		}
	}
	return out, nil
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil && id > 0
}

// Parse turns the token list after "/sudo" into a typed request.
// An empty token list is the caller's cue to print the help listing and is
// reported as ErrUnknownCommand with an empty name.
func Parse(tokens []string) (Request, error) {
	if len(tokens) == 0 {
		return nil, ErrUnknownCommand
	}
	name, rest := tokens[0], tokens[1:]

	switch name {
	case "break":
		return parseBreak(rest)
	case "add":
		return parseAdd(rest)
	case "remove":
		return parseRemove(rest)
	case "getusers":
		return parseGetUsers(rest)
	case "ban":
		return parseBanish(rest, usageBan, true)
	case "unban":
		return parseBanish(rest, usageUnban, false)
	case "mkgrp":
		return parseGroupName(rest, usageMkGrp, true)
	case "rmgrp":
		return parseGroupName(rest, usageRmGrp, false)
	case "setgrp":
		return parseSetGrp(rest)
	case "send":
		return parseSend(rest)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
}

func parseBreak(tokens []string) (Request, error) {
	flags, err := scan(tokens, []flagSpec{
		{name: "all", aliases: []string{"-a", "--all"}},
	}, usageBreak)
	if err != nil {
		return nil, err
	}
	if !flags.has("all") || len(flags.positional) > 0 {
		return nil, &UsageError{Usage: usageBreak}
	}
	return Break{}, nil
}

func parseAdd(tokens []string) (Request, error) {
	flags, err := scan(tokens, []flagSpec{
		{name: "admin", aliases: []string{"--admin"}, takesArg: true},
	}, usageAdd)
	if err != nil {
		return nil, err
	}
	id, ok := parseID(flags.value("admin"))
	if !flags.has("admin") || !ok {
		return nil, &UsageError{Usage: usageAdd}
	}
	return AddAdmin{AdminID: id}, nil
}

func parseRemove(tokens []string) (Request, error) {
	flags, err := scan(tokens, []flagSpec{
		{name: "admin", aliases: []string{"--admin"}, takesArg: true},
	}, usageRemove)
	if err != nil {
		return nil, err
	}
	id, ok := parseID(flags.value("admin"))
	if !flags.has("admin") || !ok {
		return nil, &UsageError{Usage: usageRemove}
	}
	return RemoveAdmin{AdminID: id}, nil
}

func parseGetUsers(tokens []string) (Request, error) {
	flags, err := scan(tokens, []flagSpec{
		{name: "all", aliases: []string{"-a"}},
		{name: "banned", aliases: []string{"-b", "--banned"}},
		{name: "lang", aliases: []string{"-l", "--lang"}, takesArg: true},
	}, usageGetUsers)
	if err != nil {
		return nil, err
	}
	if len(flags.positional) > 0 {
		return nil, &UsageError{Usage: usageGetUsers}
	}
	req := GetUsers{BannedOnly: flags.has("banned"), Lang: flags.value("lang")}
	if flags.has("lang") && req.Lang == "" {
		return nil, &UsageError{Usage: usageGetUsers}
	}
	return req, nil
}

func parseBanish(tokens []string, usage string, ban bool) (Request, error) {
	flags, err := scan(tokens, nil, usage)
	if err != nil {
		return nil, err
	}
	if len(flags.positional) != 1 {
		return nil, &UsageError{Usage: usage}
	}
	id, ok := parseID(flags.positional[0])
	if !ok {
		return nil, &UsageError{Usage: usage}
	}
	if ban {
		return Ban{UserID: id}, nil
	}
	return Unban{UserID: id}, nil
}

func parseGroupName(tokens []string, usage string, create bool) (Request, error) {
	flags, err := scan(tokens, []flagSpec{
		{name: "name", aliases: []string{"-n", "--name"}, takesArg: true},
	}, usage)
	if err != nil {
		return nil, err
	}
	name := flags.value("name")
	if !flags.has("name") || name == "" {
		return nil, &UsageError{Usage: usage}
	}
	if create {
		return MakeGroup{Name: name}, nil
	}
	return RemoveGroup{Name: name}, nil
}

func parseSetGrp(tokens []string) (Request, error) {
	flags, err := scan(tokens, nil, usageSetGrp)
	if err != nil {
		return nil, err
	}
	if len(flags.positional) != 2 {
		return nil, &UsageError{Usage: usageSetGrp}
	}
	id, ok := parseID(flags.positional[0])
	if !ok {
		return nil, &UsageError{Usage: usageSetGrp}
	}
	return SetGroup{UserID: id, Group: flags.positional[1]}, nil
}

func parseSend(tokens []string) (Request, error) {
	flags, err := scan(tokens, []flagSpec{
		{name: "stop", aliases: []string{"-s", "--stop"}},
		{name: "group", aliases: []string{"-g", "--group"}, takesArg: true},
		{name: "message", aliases: []string{"-m", "--message"}, takesArg: true, remainder: true},
	}, usageSend)
	if err != nil {
		return nil, err
	}
	if len(flags.positional) > 0 {
		return nil, &UsageError{Usage: usageSend}
	}
	// stop wins over everything else on the line
	if flags.has("stop") {
		return Send{Stop: true}, nil
	}
	group := flags.value("group")
	if !flags.has("group") || group == "" {
		return nil, &UsageError{Usage: usageSend}
	}
	return Send{Group: group, Message: flags.value("message")}, nil
}
