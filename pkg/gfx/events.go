package gfx

type Event interface{}

// Key labels follow the DOM KeyboardEvent.key names on every platform.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEscape     = "Escape"
)

type Expose struct{}
type KeyPress struct {
	Code  uint64
	Label string
}
type KeyRelease struct {
	Code  uint64
	Label string
}

// SideCountChange is emitted when the side-count control commits a value.
type SideCountChange struct {
	Value int
}

type CreateNotify struct{}
type DestroyNotify struct{}
type UnexpectedEvent struct{}

// TimeoutEvent is returned by a backend when no event arrived in time.
type TimeoutEvent struct{}
