package authstate

import "github.com/dmitrijs2005/profiledash/internal/account"

// Event is the outcome of one step of an account operation.
type Event interface {
	isEvent()
}

type (
	LoginStarted struct{}

	LoginSucceeded struct {
		Epoch   uint64
		Account account.Summary
		Token   string
	}

	LoginFailed struct {
		Epoch   uint64
		Message string
	}

	LoggedOut struct{}

	ProfileRequested struct {
		Epoch uint64
		Seq   uint64
	}

	// ProfileLoaded carries the result of a fetch; ProfileUpdated the result
	// of an edit, which also renames the account summary.
	ProfileLoaded struct {
		Epoch   uint64
		Seq     uint64
		Profile account.Profile
	}

	ProfileUpdated struct {
		Epoch   uint64
		Seq     uint64
		Profile account.Profile
	}

	ProfileFailed struct {
		Epoch   uint64
		Seq     uint64
		Message string
	}

	// ProfileRejected reports a profile operation refused before it was
	// issued, such as one attempted while anonymous.
	ProfileRejected struct {
		Message string
	}

	ErrorCleared struct{}
)

func (LoginStarted) isEvent()     {}
func (LoginSucceeded) isEvent()   {}
func (LoginFailed) isEvent()      {}
func (LoggedOut) isEvent()        {}
func (ProfileRequested) isEvent() {}
func (ProfileLoaded) isEvent()    {}
func (ProfileUpdated) isEvent()   {}
func (ProfileFailed) isEvent()    {}
func (ProfileRejected) isEvent()  {}
func (ErrorCleared) isEvent()     {}

// fromOtherSession reports whether e was issued in an epoch other than the
// current one.
func fromOtherSession(s State, e Event) bool {
	switch e := e.(type) {
	case LoginSucceeded:
		return e.Epoch != s.Epoch
	case LoginFailed:
		return e.Epoch != s.Epoch
	case ProfileRequested:
		return e.Epoch != s.Epoch
	case ProfileLoaded:
		return e.Epoch != s.Epoch
	case ProfileUpdated:
		return e.Epoch != s.Epoch
	case ProfileFailed:
		return e.Epoch != s.Epoch
	default:
		return false
	}
}

// Reduce returns the state that follows s after e. It never modifies s.
func Reduce(s State, e Event) State {
	if fromOtherSession(s, e) {
		return s
	}

	switch e := e.(type) {
	case LoginStarted:
		s.LoginInFlight = true
		s.LastError = ""

	case LoginSucceeded:
		acc := e.Account
		s.Account = &acc
		s.Token = e.Token
		s.IsAuthenticated = e.Token != ""
		s.Profile = nil
		s.LoginInFlight = false
		s.LastError = ""
		s = newEpoch(s)

	case LoginFailed:
		s.LoginInFlight = false
		s.LastError = e.Message

	case LoggedOut:
		s.Account = nil
		s.Profile = nil
		s.Token = ""
		s.IsAuthenticated = false
		s.LoginInFlight = false
		s.LastError = ""
		s = newEpoch(s)

	case ProfileRequested:
		s.seq = e.Seq
		s.pending++
		s.ProfileInFlight = true
		s.LastError = ""

	case ProfileLoaded:
		s = resolveProfileOp(s)
		if e.Seq >= s.seq {
			p := e.Profile
			s.Profile = &p
			s.LastError = ""
		}

	case ProfileUpdated:
		s = resolveProfileOp(s)
		if e.Seq >= s.seq {
			p := e.Profile
			s.Profile = &p
			if s.Account != nil {
				acc := *s.Account
				acc.Name = p.Name
				s.Account = &acc
			}
			s.LastError = ""
		}

	case ProfileFailed:
		s = resolveProfileOp(s)
		if e.Seq >= s.seq {
			s.LastError = e.Message
		}

	case ProfileRejected:
		s.LastError = e.Message

	case ErrorCleared:
		s.LastError = ""
	}

	return s
}

func newEpoch(s State) State {
	s.Epoch++
	s.seq = 0
	s.pending = 0
	s.ProfileInFlight = false
	return s
}

func resolveProfileOp(s State) State {
	if s.pending > 0 {
		s.pending--
	}
	s.ProfileInFlight = s.pending > 0
	return s
}
