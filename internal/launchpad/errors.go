package launchpad

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ValidationError        ErrorKind = "validation"
	PreconditionError      ErrorKind = "precondition"
	NetworkError           ErrorKind = "network"
	PartialCompletionError ErrorKind = "partial_completion"

	// InternalError 本地打包、序列化或状态机失败，没有发生网络往返
	InternalError ErrorKind = "internal"
)

var (
	ErrEmptyField         = errors.New("required field is empty")
	ErrInvalidSupply      = errors.New("initial supply must be a non-negative integer")
	ErrWalletNotConnected = errors.New("wallet not connected or signTransaction not available")
	ErrWalletCannotSign   = errors.New("wallet cannot sign transactions")
	ErrLaunchInFlight     = errors.New("launch already in progress")
	ErrNothingToResume    = errors.New("launch has nothing to resume")
	ErrPendingUnsettled   = errors.New("previous submission may still land")
)

// PipelineError 记录失败类别和失败时所处的状态
type PipelineError struct {
	Kind  ErrorKind
	Stage State
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s error at %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// KindOf 非 PipelineError 统一视为网络错误
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return NetworkError
}
