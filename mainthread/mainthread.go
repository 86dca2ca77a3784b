// Package mainthread models the host application's main thread. Network SDK callbacks may arrive
// on any goroutine; everything that touches a mediator listener is posted through an Executor.
package mainthread

import "sync"

// Executor runs posted functions. Implementations must run functions in the order they were
// posted.
type Executor interface {
	// Post schedules fn. It returns false if fn will never run.
	Post(fn func()) bool
}

// Immediate runs every posted function on the caller's goroutine before Post returns.
type Immediate struct{}

func (Immediate) Post(fn func()) bool {
	fn()
	return true
}

// Loop is a single goroutine draining an unbounded FIFO queue of functions.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	stopped bool
}

// NewLoop starts a Loop. Call Stop to release its goroutine.
func NewLoop() *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

// Post appends fn to the queue. It never blocks.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}
	l.queue = append(l.queue, fn)

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Stop prevents further posts, discards anything not yet started and waits for the running
// function, if any, to return. Calling Stop from a posted function deadlocks.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.done
		return
	}
	l.stopped = true
	l.queue = nil
	close(l.wake)
	l.mu.Unlock()

	<-l.done
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for range l.wake {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			fn()
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}
