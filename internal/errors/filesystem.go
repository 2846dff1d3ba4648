//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// FilesystemError reports a local path drushgen could not create or write.
type FilesystemError struct {
	Base

	Path string
}

// NewNotDirectoryError reports a path that should be a directory but is
// something else.
func NewNotDirectoryError(path string) *FilesystemError {
	return &FilesystemError{
		Base: Base{
			Code:    CodeNotDirectory,
			Message: path + " is not a directory",
			Hint:    "Move the file out of the way, or point the configuration at another directory.",
		},
		Path: path,
	}
}

// NewWriteError wraps a failed mkdir, write or chmod on path.
func NewWriteError(path, message string, cause error) *FilesystemError {
	return &FilesystemError{
		Base: Base{Code: CodeWriteFailed, Message: message, Cause: cause},
		Path: path,
	}
}

func (e *FilesystemError) details() []detail {
	return []detail{{label: "Path", value: e.Path, tone: toneResource}}
}
