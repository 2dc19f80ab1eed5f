package service

import "errors"

var (
	ErrBuildFailed     = errors.New("failed to build research index")
	ErrGenerationAbort = errors.New("generation aborted by caller")
)
