package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/obsion/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeArchive  Type = "archive"
	TypeDelete   Type = "delete"
	TypeShow     Type = "show"
	TypeRSVP     Type = "rsvp"
	TypeInvite   Type = "invite"
	TypeLogin    Type = "login"
	TypeRegister Type = "register"
	TypeLogout   Type = "logout"
	TypeSet      Type = "set"
)

type Kind string

const (
	KindNote  Kind = "note"
	KindTodo  Kind = "todo"
	KindEvent Kind = "event"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs creates a note, todo or event. Body is everything after a
// standalone "--" and becomes note content or todo/event description.
type AddArgs struct {
	Kind     Kind
	Title    string
	Body     string
	Tags     []string
	Priority model.Priority
	Due      *time.Time
	At       *time.Time
	Until    *time.Time
	Repeat   model.Frequency
	Remind   time.Duration
}

type TargetArgs struct {
	ID string
}

type DeleteArgs struct {
	Kind Kind
	ID   string
}

type ShowArgs struct {
	Subject string
	Tag     string
	Query   string
	Filter  string
	Sort    string
	Day     *time.Time
}

type RSVPArgs struct {
	EventID string
	Email   string
	Status  model.AttendeeStatus
}

type InviteArgs struct {
	EventID string
	Email   string
}

type LoginArgs struct {
	Email    string
	Password string
}

type RegisterArgs struct {
	Email    string
	Password string
	Name     string
}

type SetArgs struct {
	Field string
	Value string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Target   *TargetArgs
	Delete   *DeleteArgs
	Show     *ShowArgs
	RSVP     *RSVPArgs
	Invite   *InviteArgs
	Login    *LoginArgs
	Register *RegisterArgs
	Set      *SetArgs
}

var showSubjects = map[string]bool{
	"dashboard": true,
	"notes":     true,
	"todos":     true,
	"events":    true,
	"settings":  true,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone, TypeArchive:
		if len(args) != 1 {
			return Command{}, invalid("%s requires a todo id", head)
		}
		return Command{Type: Type(head), Raw: input, Target: &TargetArgs{ID: args[0]}}, nil
	case TypeDelete:
		return parseDelete(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeRSVP:
		return parseRSVP(input, args)
	case TypeInvite:
		if len(args) != 2 {
			return Command{}, invalid("invite requires an event id and an email")
		}
		return Command{Type: TypeInvite, Raw: input, Invite: &InviteArgs{EventID: args[0], Email: args[1]}}, nil
	case TypeLogin:
		if len(args) != 2 {
			return Command{}, invalid("login requires an email and a password")
		}
		return Command{Type: TypeLogin, Raw: input, Login: &LoginArgs{Email: args[0], Password: args[1]}}, nil
	case TypeRegister:
		if len(args) < 3 {
			return Command{}, invalid("register requires an email, a password and a name")
		}
		return Command{Type: TypeRegister, Raw: input, Register: &RegisterArgs{
			Email:    args[0],
			Password: args[1],
			Name:     strings.Join(args[2:], " "),
		}}, nil
	case TypeLogout:
		return Command{Type: TypeLogout, Raw: input}, nil
	case TypeSet:
		return parseSet(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindNote, KindTodo, KindEvent:
		return k, true
	default:
		return "", false
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("add requires note, todo or event")
	}
	kind, ok := parseKind(args[0])
	if !ok {
		return Command{}, invalid("cannot add %q", args[0])
	}

	out := AddArgs{Kind: kind}
	var title []string
	rest := args[1:]
	for i, arg := range rest {
		if arg == "--" {
			out.Body = strings.Join(rest[i+1:], " ")
			break
		}
		key, value, isOpt := splitOption(arg)
		if !isOpt {
			title = append(title, arg)
			continue
		}
		if err := out.setOption(key, value); err != nil {
			return Command{}, err
		}
	}
	out.Title = strings.Join(title, " ")
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	if kind == KindEvent && out.At == nil {
		return Command{}, invalid("add event requires at:<time>")
	}
	if out.Until != nil && out.At != nil && out.Until.Before(*out.At) {
		return Command{}, invalid("until must not precede at")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func (a *AddArgs) setOption(key, value string) error {
	switch key {
	case "tag":
		a.Tags = append(a.Tags, value)
	case "priority":
		p := model.Priority(strings.ToUpper(value))
		if !p.IsValid() {
			return invalid("unknown priority %q", value)
		}
		a.Priority = p
	case "due":
		t, err := ParseTime(value)
		if err != nil {
			return err
		}
		a.Due = &t
	case "at":
		t, err := ParseTime(value)
		if err != nil {
			return err
		}
		a.At = &t
	case "until":
		t, err := ParseTime(value)
		if err != nil {
			return err
		}
		a.Until = &t
	case "repeat":
		f := model.Frequency(strings.ToUpper(value))
		if !f.IsValid() {
			return invalid("unknown repeat %q", value)
		}
		a.Repeat = f
	case "remind":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return invalid("bad remind duration %q", value)
		}
		a.Remind = d
	default:
		return invalid("unknown option %s:", key)
	}
	return nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("delete requires a kind and an id")
	}
	kind, ok := parseKind(args[0])
	if !ok {
		return Command{}, invalid("cannot delete %q", args[0])
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Kind: kind, ID: args[1]}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("show requires a subject")
	}
	subject := strings.ToLower(args[0])
	if !showSubjects[subject] {
		return Command{}, invalid("cannot show %q", args[0])
	}
	out := ShowArgs{Subject: subject}
	for _, arg := range args[1:] {
		key, value, isOpt := splitOption(arg)
		if !isOpt {
			return Command{}, invalid("unexpected argument %q", arg)
		}
		switch key {
		case "tag":
			out.Tag = value
		case "q":
			out.Query = value
		case "filter":
			out.Filter = strings.ToLower(value)
		case "sort":
			out.Sort = strings.ToLower(value)
		case "day":
			t, err := ParseTime(value)
			if err != nil {
				return Command{}, err
			}
			out.Day = &t
		default:
			return Command{}, invalid("unknown option %s:", key)
		}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &out}, nil
}

func parseRSVP(raw string, args []string) (Command, error) {
	if len(args) != 3 {
		return Command{}, invalid("rsvp requires an event id, an email and a status")
	}
	status := model.AttendeeStatus(strings.ToUpper(args[2]))
	if !status.IsValid() {
		return Command{}, invalid("unknown rsvp status %q", args[2])
	}
	return Command{Type: TypeRSVP, Raw: raw, RSVP: &RSVPArgs{EventID: args[0], Email: args[1], Status: status}}, nil
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, invalid("set requires a field and a value")
	}
	field := strings.ToLower(args[0])
	switch field {
	case "theme", "language", "notifications":
	default:
		return Command{}, invalid("cannot set %q", args[0])
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{Field: field, Value: args[1]}}, nil
}

// splitOption recognises key:value tokens. URLs and times like 10:30 are not
// options because their key is not a lower-case word.
func splitOption(arg string) (string, string, bool) {
	key, value, ok := strings.Cut(arg, ":")
	if !ok || key == "" || value == "" {
		return "", "", false
	}
	for _, r := range key {
		if r < 'a' || r > 'z' {
			return "", "", false
		}
	}
	return key, value, true
}

var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime reads a local date or date-time in the forms YYYY-MM-DD and
// YYYY-MM-DDTHH:MM.
func ParseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid("bad time %q, want YYYY-MM-DD or YYYY-MM-DDTHH:MM", value)
}
