package disposable

// Disposable is a handle that undoes a prior registration when disposed.
type Disposable interface {
	Dispose()
}

type disposableFunc struct {
	dispose func()
	done    bool
}

// NewDisposable wraps a cleanup function. Dispose runs it at most once.
func NewDisposable(dispose func()) Disposable {
	return &disposableFunc{dispose: dispose}
}

func (d *disposableFunc) Dispose() {
	if d.done {
		return
	}
	d.done = true
	d.dispose()
}
