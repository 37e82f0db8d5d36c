// Package validate checks the login and profile forms. The client runs it
// before calling the account service and the server runs it again on
// every profile update.
package validate

import (
	"errors"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	PasswordMinLen = 6
	BioMaxLen      = 500
	FullNameMaxLen = 100
)

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ProfileForm struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Bio      string `json:"bio" validate:"max=500"`
	Avatar   string `json:"avatar" validate:"omitempty,avatar"`
}

// Errors maps a form field (by its json name) to a human message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, e[f])
	}
	return strings.Join(msgs, "; ")
}

var messages = map[string]string{
	"email.required":    "Email is required",
	"email.email":       "Invalid email address",
	"password.required": "Password is required",
	"password.min":      "Password must be at least 6 characters",
	"fullName.required": "Full name is required",
	"fullName.max":      "Full name must be at most 100 characters",
	"bio.max":           "Bio must be at most 500 characters",
	"avatar.avatar":     "Avatar must be an http(s) URL or an image data URI",
}

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		if err := v.RegisterValidation("avatar", validAvatar); err != nil {
			panic(err)
		}
	})
	return v
}

// IsAvatar reports whether s is an http(s) URL or a base64 image data URI.
func IsAvatar(s string) bool {
	if rest, ok := strings.CutPrefix(s, "data:image/"); ok {
		_, data, found := strings.Cut(rest, ";base64,")
		return found && data != ""
	}
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validAvatar(fl validator.FieldLevel) bool {
	return IsAvatar(fl.Field().String())
}

func check(form any) Errors {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"": err.Error()}
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			out[fe.Field()] = msg
			continue
		}
		out[fe.Field()] = fe.Error()
	}
	return out
}

// Login validates the login form. It returns nil when the form is valid.
func Login(f LoginForm) Errors {
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}

// Profile validates the profile edit form. It returns nil when the form is
// valid.
func Profile(f ProfileForm) Errors {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	return check(f)
}
