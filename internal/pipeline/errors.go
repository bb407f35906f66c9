package pipeline

import (
	"errors"
	"fmt"
)

// Stage names the step of a run that failed.
type Stage string

const (
	StageDecode    Stage = "decode"
	StageAnalyse   Stage = "analyse"
	StageImage     Stage = "image"
	StageEffects   Stage = "effects"
	StageEncode    Stage = "encode"
	StageRender    Stage = "render"
	StageThumbnail Stage = "thumbnail"
)

// StageError attributes a failure to a pipeline stage. The cause stays
// reachable through errors.Is and errors.As.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func wrap(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the stage err is attributed to, or "" if none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
