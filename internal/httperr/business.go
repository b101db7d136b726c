package httperr

import "errors"

// Kind classifies a BusinessError so the HTTP layer can pick a status code
// without knowing every individual code.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	}
	return "unknown"
}

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidDate         = "INVALID_DATE"
	CodeInvalidTime         = "INVALID_TIME"
	CodeInvalidDuration     = "INVALID_DURATION"
	CodeInvalidStatus       = "INVALID_STATUS"
	CodeInvalidTransition   = "INVALID_STATUS_TRANSITION"
	CodeScheduleConflict    = "SCHEDULE_CONFLICT"
	CodeServiceNotFound     = "SERVICE_NOT_FOUND"
	CodeClientNotFound      = "CLIENT_NOT_FOUND"
	CodeProfessionalMissing = "PROFESSIONAL_NOT_FOUND"
	CodeAppointmentNotFound = "APPOINTMENT_NOT_FOUND"
	CodeNotFound            = "NOT_FOUND"
	CodeUnavailable         = "PERSISTENCE_UNAVAILABLE"
	CodeInUse               = "RESOURCE_IN_USE"
)

const MsgScheduleConflict = "Time slot conflicts with existing appointment"

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

// ErrBusiness keeps the short form used for plain rule violations.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrValidation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func ErrConflict(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func ErrUnavailable(err error) error {
	return BusinessError{
		Kind:    KindUnavailable,
		Code:    CodeUnavailable,
		Message: "Storage temporarily unavailable",
		Err:     err,
	}
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return BusinessError{}, false
}

func IsBusiness(err error, code string) bool {
	be, ok := AsBusiness(err)
	return ok && be.Code == code
}

func IsKind(err error, kind Kind) bool {
	be, ok := AsBusiness(err)
	return ok && be.Kind == kind
}
