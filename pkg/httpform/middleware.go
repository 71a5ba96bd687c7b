package httpform

import (
	"context"
	"errors"
	"net/http"

	"github.com/goliatone/go-formbind/pkg/submission"
)

// HTTPError is an error that carries the status code to respond with.
type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// ErrNoVerifier is returned when the middleware is built without a verifier.
var ErrNoVerifier = errors.New("httpform: submission verifier is required")

type submissionKey struct{}

// WithSubmission stores a verified submission in ctx.
func WithSubmission(ctx context.Context, sub *submission.Submission) context.Context {
	return context.WithValue(ctx, submissionKey{}, sub)
}

// SubmissionFromContext returns the submission verified by Middleware.
func SubmissionFromContext(ctx context.Context) (*submission.Submission, bool) {
	sub, ok := ctx.Value(submissionKey{}).(*submission.Submission)
	return sub, ok && sub != nil
}

// Middleware verifies the referrer and trusted properties fields of
// submissions before they reach next. Requests with other methods pass
// through untouched.
func Middleware(fns ...OptionFn) func(http.Handler) http.Handler {
	opts := NewOptions(fns...)
	return MiddlewareWithOptions(opts)
}

// MiddlewareWithOptions is Middleware for a pre-built Options value.
func MiddlewareWithOptions(opts Options) func(http.Handler) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.verifies(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			if opts.Verifier == nil {
				opts.ErrorHandler(w, r, StatusError{Code: http.StatusInternalServerError, Err: ErrNoVerifier})
				return
			}

			args, err := AllArguments(r)
			if err != nil {
				opts.ErrorHandler(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
				return
			}

			namespace := opts.namespace()
			sub, err := opts.Verifier.Verify(args, namespace)
			if err != nil {
				opts.Logger.Warn("form submission rejected",
					"path", r.URL.Path,
					"namespace", namespace,
					"error", err,
				)
				opts.ErrorHandler(w, r, StatusError{Code: http.StatusBadRequest, Err: err})
				return
			}

			opts.Logger.Debug("form submission verified",
				"path", r.URL.Path,
				"referrer", sub.Referrer.Controller+"::"+sub.Referrer.Action,
			)
			next.ServeHTTP(w, r.WithContext(WithSubmission(r.Context(), sub)))
		})
	}
}

// WriteError responds with the status carried by err, 400 otherwise.
func WriteError(w http.ResponseWriter, _ *http.Request, err error) {
	if w == nil {
		return
	}
	code := http.StatusBadRequest
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}
