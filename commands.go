package tumbler

// Command is a side effect requested by a primitive during input handling.
// Commands are executed by the Application event loop.
type Command any

// BatchCommand groups multiple commands into a single command.
type BatchCommand []Command

// AppendCommand appends next to current and returns a merged command value.
// Nested batches are flattened.
func AppendCommand(current Command, next Command) Command {
	if next == nil {
		return current
	}
	if current == nil {
		return next
	}

	var batch BatchCommand
	for _, c := range []Command{current, next} {
		if b, ok := c.(BatchCommand); ok {
			batch = append(batch, b...)
		} else {
			batch = append(batch, c)
		}
	}
	return batch
}

// SetFocusCommand moves the keyboard focus to Target.
type SetFocusCommand struct {
	Target Primitive
}

// RedrawCommand requests a redraw at the end of the current event.
type RedrawCommand struct{}

// QuitCommand requests stopping the application event loop.
type QuitCommand struct{}

// SetTitleCommand requests updating the terminal title.
type SetTitleCommand string

// AnimateCommand wakes the frame clock. The application keeps ticking its
// animator for as long as the animator reports activity.
type AnimateCommand struct{}
