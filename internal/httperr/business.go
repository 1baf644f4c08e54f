package httperr

import "errors"

// Códigos canônicos do núcleo de agendamento. Handlers e usecases
// sempre comparam por código, nunca por mensagem.
const (
	CodeSlotConflict          = "slot_conflict"
	CodeInvalidTransition     = "invalid_transition"
	CodeProviderIncapable     = "provider_incapable"
	CodeDataSourceUnavailable = "datasource_unavailable"
	CodeNotFound              = "not_found"
	CodeInvalidSlotMinutes    = "invalid_slot_minutes"
	CodeTooSoon               = "too_soon"
	CodeOutsideWorkingHours   = "outside_working_hours"
	CodeCancellationCutoff    = "cancellation_cutoff"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Retryable marca um erro de infraestrutura no caminho de escrita:
// o caller pode repetir a mesma chamada com segurança.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string {
	return CodeDataSourceUnavailable + ": " + e.Err.Error()
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return RetryableError{Err: err}
}

func IsRetryable(err error) bool {
	var re RetryableError
	return errors.As(err, &re)
}
