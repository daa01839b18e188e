package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/netforge/infra/lib/netmath"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance with the AWS-specific tag
// validators registered: `cidrv4` (canonical IPv4 CIDR), `cidrv6` (canonical
// IPv6 CIDR of /64 or shorter) and `arn`.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		must(validate.RegisterValidation("cidrv4", func(fl validator.FieldLevel) bool {
			_, err := netmath.ParseBlock(fl.Field().String())
			return err == nil
		}))
		must(validate.RegisterValidation("cidrv6", func(fl validator.FieldLevel) bool {
			_, err := netmath.ParseBlock6(fl.Field().String())
			return err == nil
		}))
		must(validate.RegisterValidation("arn", func(fl validator.FieldLevel) bool {
			return IsARN(fl.Field().String())
		}))
	})
	return validate
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct runs the shared validator over a props struct.
func Struct(v any) error {
	return Validator().Struct(v)
}

// Option is a named, possibly-unset property used by the exclusivity checks.
type Option struct {
	Name string
	Set  bool
}

// Opt is a convenience constructor for Option.
func Opt(name string, set bool) Option {
	return Option{Name: name, Set: set}
}

// ExactlyOneOf errors unless exactly one of the options is set.
func ExactlyOneOf(subject string, opts ...Option) error {
	set := lo.Filter(opts, func(o Option, _ int) bool { return o.Set })
	switch len(set) {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("%s: one of %s is required", subject, optionNames(opts))
	default:
		return fmt.Errorf("%s: %s are mutually exclusive", subject, optionNames(set))
	}
}

// AtMostOneOf errors when two or more of the options are set together.
func AtMostOneOf(subject string, opts ...Option) error {
	set := lo.Filter(opts, func(o Option, _ int) bool { return o.Set })
	if len(set) > 1 {
		return fmt.Errorf("%s: %s are mutually exclusive", subject, optionNames(set))
	}
	return nil
}

func optionNames(opts []Option) string {
	names := lo.Map(opts, func(o Option, _ int) string { return o.Name })
	return strings.Join(names, ", ")
}
