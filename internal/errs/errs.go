package errs

import (
	"errors"
	"fmt"
	"log/slog"

	"labqms/internal/domain/quality"
)

// Wrap adds context and preserves the error chain (errors.Is/As works).
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf adds formatted context and preserves the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	// Append the original err as the last arg for %w.
	args = append(args, err)
	return fmt.Errorf(format+": %w", args...)
}

// Kind classifies an error by the domain fault in its chain. Transport layers
// map kinds to response codes; "internal" is everything unclassified.
func Kind(err error) string {
	if err == nil {
		return ""
	}

	var validation quality.ValidationError
	var notFound quality.NotFoundError
	var transition quality.StateTransitionError
	var sequence quality.SequenceError
	var notImplemented quality.NotImplementedError

	switch {
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &transition):
		return "state_transition"
	case errors.As(err, &sequence):
		return "sequence"
	case errors.As(err, &notImplemented):
		return "not_implemented"
	}
	return "internal"
}

// LogValue makes slog encode the error as structured fields.
// Usage: slog.Any("err", errs.Loggable(err))
type loggable struct{ err error }

func Loggable(err error) slog.LogValuer { return loggable{err: err} }

func (l loggable) LogValue() slog.Value {
	if l.err == nil {
		return slog.GroupValue()
	}

	return slog.GroupValue(
		slog.String("message", l.err.Error()),
		slog.String("kind", Kind(l.err)),
		slog.Any("chain", ErrorChainStrings(l.err)),
	)
}

// ErrorChainStrings returns the unwrap chain as strings (outer -> inner).
func ErrorChainStrings(err error) []string {
	if err == nil {
		return nil
	}

	out := make([]string, 0, 8)
	for e := err; e != nil; e = errors.Unwrap(e) {
		out = append(out, e.Error())
	}
	return out
}
