package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dpsmushkipur/bine/internal/client/client"
	"github.com/dpsmushkipur/bine/internal/client/mutation"
	"github.com/dpsmushkipur/bine/internal/client/repositories/responses"
	"github.com/dpsmushkipur/bine/internal/logging"
)

var (
	ErrForbidden             = errors.New("not allowed for this role")
	ErrInvalidInput          = errors.New("invalid input")
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
)

// Deps are shared by all screen services.
type Deps struct {
	Client    client.Client
	Responses responses.Repository
	Guard     *mutation.Guard
	Logger    logging.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Guard == nil {
		d.Guard = mutation.NewGuard()
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// check validates in and turns validator output into one ErrInvalidInput.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(fes))
	for _, fe := range fes {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	f := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "datetime":
		return f + " must be a date (YYYY-MM-DD)"
	case "gt":
		return f + " must be greater than " + fe.Param()
	case "oneof":
		return f + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "max":
		return f + " is too long"
	}
	return f + " is invalid"
}
