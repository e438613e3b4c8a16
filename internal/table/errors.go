package table

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNoData means the data file exists but holds no lines.
	ErrNoData = errors.New("no data loaded")

	// ErrUnsupportedFormat means the file extension is not a known layout.
	ErrUnsupportedFormat = errors.New("unsupported data file format")
)

// LoadError is an IO failure while opening or reading a data file.
type LoadError struct {
	Op   string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// UserMessage is the single line shown when the drill cannot start.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// MapError converts a load failure into a user-facing message.
// fileName is substituted into the suggested action.
func MapError(err error, fileName string) UserMessage {
	switch {
	case err == nil:
		return UserMessage{}
	case errors.Is(err, ErrNoData), errors.Is(err, fs.ErrNotExist):
		return UserMessage{
			Message: "No data loaded",
			Action:  fmt.Sprintf("Make sure %s is in the same folder as the executable", fileName),
			Code:    "DATA001",
		}
	case errors.Is(err, fs.ErrPermission):
		return UserMessage{
			Message: "Data file could not be opened",
			Action:  fmt.Sprintf("Check the read permissions on %s", fileName),
			Code:    "DATA002",
		}
	case errors.Is(err, ErrUnsupportedFormat):
		return UserMessage{
			Message: "Data file format is not supported",
			Action:  "Use a .csv or .xlsx file, optionally compressed with .gz, .zst or .xz",
			Code:    "DATA003",
		}
	default:
		return UserMessage{
			Message: "Data file could not be read",
			Action:  fmt.Sprintf("Check that %s is a valid comma-separated file", fileName),
			Code:    "DATA004",
		}
	}
}

// Text renders the message as "Message. Action." without the code.
func (m UserMessage) Text() string {
	if m.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s. %s.", m.Message, m.Action)
}

// FormatUserError renders MapError as "Message. Action. (Code: XXX)".
func FormatUserError(err error, fileName string) string {
	msg := MapError(err, fileName)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s)", msg.Text(), msg.Code)
}
