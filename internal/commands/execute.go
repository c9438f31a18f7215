package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add      func(AddArgs) (Result, error)
	Done     func(TargetArgs) (Result, error)
	Archive  func(TargetArgs) (Result, error)
	Delete   func(DeleteArgs) (Result, error)
	Show     func(ShowArgs) (Result, error)
	RSVP     func(RSVPArgs) (Result, error)
	Invite   func(InviteArgs) (Result, error)
	Login    func(LoginArgs) (Result, error)
	Register func(RegisterArgs) (Result, error)
	Logout   func() (Result, error)
	Set      func(SetArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return missing(cmd.Type)
		}
		return handlers.Done(*cmd.Target)
	case TypeArchive:
		if handlers.Archive == nil {
			return missing(cmd.Type)
		}
		return handlers.Archive(*cmd.Target)
	case TypeDelete:
		if handlers.Delete == nil {
			return missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Delete)
	case TypeShow:
		if handlers.Show == nil {
			return missing(cmd.Type)
		}
		return handlers.Show(*cmd.Show)
	case TypeRSVP:
		if handlers.RSVP == nil {
			return missing(cmd.Type)
		}
		return handlers.RSVP(*cmd.RSVP)
	case TypeInvite:
		if handlers.Invite == nil {
			return missing(cmd.Type)
		}
		return handlers.Invite(*cmd.Invite)
	case TypeLogin:
		if handlers.Login == nil {
			return missing(cmd.Type)
		}
		return handlers.Login(*cmd.Login)
	case TypeRegister:
		if handlers.Register == nil {
			return missing(cmd.Type)
		}
		return handlers.Register(*cmd.Register)
	case TypeLogout:
		if handlers.Logout == nil {
			return missing(cmd.Type)
		}
		return handlers.Logout()
	case TypeSet:
		if handlers.Set == nil {
			return missing(cmd.Type)
		}
		return handlers.Set(*cmd.Set)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) (Result, error) {
	return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
