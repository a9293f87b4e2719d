package errors

import (
	"context"
	stderrors "errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/popcity/popcity/internal/platform/errors/i18n"
)

// Domain is the error domain for PopCity errors.
const Domain = "github.com/popcity/popcity"

// Kind classifies where an error came from.
type Kind string

const (
	// KindValidation marks errors caught before any gateway call.
	KindValidation Kind = "validation"
	// KindTransport marks errors where the gateway produced no response.
	KindTransport Kind = "transport"
	// KindApplication marks explicit rejections returned by the gateway.
	KindApplication Kind = "application"
)

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Kind     Kind              // Empty means KindValidation
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a validation error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates a validation error with metadata for i18n templating.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Transport creates a transport error wrapping cause.
func Transport(message string, cause error) *Error {
	return &Error{Code: CodeGatewayUnavailable, Kind: KindTransport, Message: message, Cause: cause}
}

// KindOf classifies err. Errors that are not *Error are treated as transport
// failures when they come from context cancellation and as application
// failures otherwise.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		if domainErr.Kind == "" {
			return KindValidation
		}
		return domainErr.Kind
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return KindTransport
	}
	if st, ok := status.FromError(err); ok && isTransportCode(st.Code()) {
		return KindTransport
	}
	return KindApplication
}

// CodeOf returns the domain code carried by err, or CodeUnknown.
func CodeOf(err error) Code {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeUnknown
}

// NoChange reports whether err guarantees that no state was changed, locally
// or remotely, so the operation is safe to retry. Every engine operation is
// all-or-nothing, so this holds for every non-nil error they return.
func NoChange(err error) bool {
	return err != nil
}

// UserMessage renders err as a displayable message in the requested locale.
func UserMessage(err error, locale string) string {
	if err == nil {
		return ""
	}
	cat := i18n.GetCatalog(locale)
	var domainErr *Error
	if !stderrors.As(err, &domainErr) {
		if KindOf(err) == KindTransport {
			return cat.Format(string(CodeGatewayUnavailable), nil)
		}
		return cat.Format(string(CodeUnknown), nil)
	}
	if cat.Has(string(domainErr.Code)) {
		return cat.Format(string(domainErr.Code), domainErr.Metadata)
	}
	if domainErr.Message != "" {
		return domainErr.Message
	}
	return cat.Format(string(CodeUnknown), nil)
}

// ToGRPCStatus converts the error to a gRPC status with errdetails.
// The status message contains the internal message for logging.
// The LocalizedMessage contains the user-facing translated message.
func (e *Error) ToGRPCStatus(locale string, userMessage string) error {
	grpcCode := e.Code.GRPCCode()
	st := status.New(grpcCode, e.Message)

	st, err := st.WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  locale,
			Message: userMessage,
		},
	)
	if err != nil {
		return status.New(grpcCode, e.Message).Err()
	}
	return st.Err()
}

// GRPCStatus converts any error returned by a server handler into a status
// error localized for locale. Errors that already carry a status pass through.
func GRPCStatus(err error, locale string) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		cat := i18n.GetCatalog(locale)
		return domainErr.ToGRPCStatus(cat.Locale(), UserMessage(domainErr, locale))
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if stderrors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// FromGRPC converts an error returned by a gRPC call into a domain error.
// Unavailable, deadline and cancellation codes become transport errors; every
// other status becomes an application error whose code comes from the
// attached ErrorInfo reason.
func FromGRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return Transport(err.Error(), err)
		}
		return &Error{Code: CodeUnknown, Kind: KindApplication, Message: err.Error(), Cause: err}
	}
	if isTransportCode(st.Code()) {
		return Transport(st.Message(), err)
	}
	out := &Error{Code: CodeUnknown, Kind: KindApplication, Message: st.Message(), Cause: err}
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			if d.GetReason() != "" {
				out.Code = Code(d.GetReason())
			}
			out.Metadata = d.GetMetadata()
		case *errdetails.LocalizedMessage:
			if out.Message == "" {
				out.Message = d.GetMessage()
			}
		}
	}
	if out.Code == CodeUnknown {
		if mapped, ok := fallbackCodes[st.Code()]; ok {
			out.Code = mapped
		}
	}
	return out
}

var fallbackCodes = map[codes.Code]Code{
	codes.NotFound:        CodeNotFound,
	codes.AlreadyExists:   CodeAlreadyExists,
	codes.Unauthenticated: CodeCallerMissing,
}

func isTransportCode(c codes.Code) bool {
	switch c {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return true
	default:
		return false
	}
}
