package logger

// TransientError is a failed flush cycle after which the worker keeps
// running. The snapshots of that cycle are lost.
type TransientError struct {
	Op  string
	Err error
}

func (e TransientError) Error() string {
	return "logger: " + e.Op + ": " + e.Err.Error()
}

func (e TransientError) Unwrap() error {
	return e.Err
}

// PermanentError stops the worker. No further lines are written by the
// logger that reported it.
type PermanentError struct {
	Op  string
	Err error
}

func (e PermanentError) Error() string {
	return "logger: " + e.Op + ": " + e.Err.Error()
}

func (e PermanentError) Unwrap() error {
	return e.Err
}
