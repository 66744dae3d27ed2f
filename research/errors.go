package research

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jemygraw/deepresearch/config"
)

// CheckCredentials prints the credential status. It returns the *config.MissingCredentialsError
// when a required key is missing, before anything contacts a provider.
func CheckCredentials(cfg *config.Config, out io.Writer) error {
	err := cfg.ValidateCredentials()
	var missing *config.MissingCredentialsError
	if errors.As(err, &missing) {
		fmt.Fprintln(out, "ERROR: The following API keys are missing or invalid in your .env file:")
		for _, name := range missing.Names {
			fmt.Fprintf(out, "  - %s\n", name)
		}
		fmt.Fprintln(out, "\nPlease set valid API keys in your .env file and run the script again.")
		fmt.Fprintln(out, "Required keys: "+strings.Join(missing.Required, ", "))
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "✅ All environment variables set successfully!")
	return nil
}

// ReportError prints err with its kind, an authentication hint when the message suggests a
// bad key, and the chain of wrapped errors.
func ReportError(out io.Writer, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	fmt.Fprintf(out, "\nERROR: %s: %s\n", errorKind(err), msg)
	fmt.Fprintf(out, "Message: %s\n", msg)

	if IsAuthError(err) {
		fmt.Fprintln(out, "\nAuthentication error detected. Please check that your API keys are valid.")
		fmt.Fprintln(out, "Make sure your .env file contains valid keys for all required services.")
	}

	fmt.Fprintln(out, "\nDetailed error information:")
	for i, e := range chain(err) {
		fmt.Fprintf(out, "%s%T: %v\n", strings.Repeat("  ", i+1), e, e)
	}
}

// IsAuthError reports whether the error text points at a credential problem.
func IsAuthError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "authentication_error") || strings.Contains(s, "api key")
}

// errorKind names the type of the innermost error.
func errorKind(err error) string {
	errs := chain(err)
	return fmt.Sprintf("%T", errs[len(errs)-1])
}

// chain lists err and every error it wraps, depth first.
func chain(err error) []error {
	var out []error
	for err != nil {
		out = append(out, err)
		switch x := err.(type) {
		case interface{ Unwrap() []error }:
			errs := x.Unwrap()
			if len(errs) == 0 {
				return out
			}
			err = errs[0]
		default:
			err = errors.Unwrap(err)
		}
	}
	return out
}
