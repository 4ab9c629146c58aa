// Package view holds presentation state shared by the web pages and the
// terminal browser: the overlay dialogs and the title animation. It also
// splits search results into level sections.
package view

// Target is the element a click landed on.
type Target int

const (
	// TargetBackdrop is the dimmed area around the dialog.
	TargetBackdrop Target = iota
	// TargetContent is anything inside the dialog box.
	TargetContent
	// TargetCloseButton is the dialog's close control.
	TargetCloseButton
)

func (t Target) String() string {
	switch t {
	case TargetBackdrop:
		return "backdrop"
	case TargetContent:
		return "content"
	case TargetCloseButton:
		return "close"
	default:
		return "unknown"
	}
}

// Kind identifies one of the catalog dialogs.
type Kind int

const (
	KindExecution Kind = iota
	KindLevel
	KindCurve
)

func (k Kind) String() string {
	switch k {
	case KindExecution:
		return "execution"
	case KindLevel:
		return "level"
	case KindCurve:
		return "curve"
	default:
		return "unknown"
	}
}

// Dialog is a single overlay. It keeps no state between openings: each
// Open replaces the payload entirely.
type Dialog[T any] struct {
	kind    Kind
	open    bool
	payload T
}

// NewDialog creates a closed dialog.
func NewDialog[T any](kind Kind) *Dialog[T] {
	return &Dialog[T]{kind: kind}
}

// Kind returns which dialog this is.
func (d *Dialog[T]) Kind() Kind {
	return d.kind
}

// Open shows the dialog with payload.
func (d *Dialog[T]) Open(payload T) {
	d.payload = payload
	d.open = true
}

// Close hides the dialog and drops its payload.
func (d *Dialog[T]) Close() {
	var zero T
	d.payload = zero
	d.open = false
}

// IsOpen reports whether the dialog is visible.
func (d *Dialog[T]) IsOpen() bool {
	return d.open
}

// Payload returns the current payload and whether the dialog is open.
func (d *Dialog[T]) Payload() (T, bool) {
	return d.payload, d.open
}

// Click handles a click while the dialog is open and reports whether it
// closed the dialog. Only the backdrop itself and the close button close;
// clicks inside the content never do.
func (d *Dialog[T]) Click(target Target) bool {
	if !d.open {
		return false
	}
	switch target {
	case TargetBackdrop, TargetCloseButton:
		d.Close()
		return true
	default:
		return false
	}
}

// Overlay is implemented by every Dialog instantiation.
type Overlay interface {
	IsOpen() bool
	Close()
}

// Dialogs tracks which overlays are open so the page behind them can be
// kept from scrolling.
type Dialogs struct {
	members []Overlay
}

// NewDialogs groups dialogs for scroll locking.
func NewDialogs(dialogs ...Overlay) *Dialogs {
	return &Dialogs{members: dialogs}
}

// ScrollLocked reports whether any dialog is open.
func (ds *Dialogs) ScrollLocked() bool {
	for _, d := range ds.members {
		if d.IsOpen() {
			return true
		}
	}
	return false
}

// CloseAll closes every dialog.
func (ds *Dialogs) CloseAll() {
	for _, d := range ds.members {
		d.Close()
	}
}
