package core

import (
	"errors"
	"fmt"
)

// Stages reported by DeliveryError
const (
	StageControl = "control"
	StageFiles   = "files"
	StageCompose = "compose"
	StageDeliver = "deliver"
)

// ErrJobNotFound is returned when the queue has no entry for NZBPP_NZBID
var ErrJobNotFound = errors.New("download not found in queue")

// DeliveryError wraps any failure while gathering data, composing or
// sending the message
type DeliveryError struct {
	Stage string
	Err   error
}

func (e *DeliveryError) Error() string {
	return e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func deliveryError(stage string, format string, args ...interface{}) *DeliveryError {
	return &DeliveryError{Stage: stage, Err: fmt.Errorf(format, args...)}
}
