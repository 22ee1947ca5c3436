// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package waitq

// A Waiter has the following lifecycle states:
//
// 1. The zero value of Waiter is a waiter that will never be signaled.
// [Waiter.Done] returns a nil channel, and [Waiter.Close] will panic.
//
// 2. [Queue.Add] returns a waiter with an empty notification channel of buffer
// length one that has been added to the queue.
//
// 3a. [Queue.Notify] has removed the waiter from the queue and sent a message,
// filling the buffer.
//
// 4aa. The message is received by a select on [Waiter.Done], emptying the
// buffer.
//
// 5aa. [Waiter.Close] sends a message on its own notification channel,
// re-filling the buffer. This is an end state.
//
// 4ab. [Waiter.Close] attempts to send a message on its own notification
// channel but cannot because the buffer is full. It therefore passes the
// notification on to the next waiter in the queue. This is an end state.
//
// 3b. [Waiter.Close] has sent a message on its own notification channel,
// filling the buffer, and removed the waiter from the queue. This is an end
// state.
//
// Close holds the queue lock for its whole duration, so Notify never observes
// a waiter in state 3b.
//
// Waiter variables may be safely copied and are designed to be passed by value.
type Waiter struct {
	q          *Queue
	notifyChan chan struct{}
}

func (w Waiter) Done() <-chan struct{} {
	return w.notifyChan
}

// Close must be called exactly once by the owner of a waiter, whether or not
// it received from Done. A notification received from Done that has been
// acted upon must be followed by Close as well; Close then simply marks the
// waiter dead.
func (w Waiter) Close() {
	w.q.mu.Lock()
	defer w.q.mu.Unlock()
	select {
	case w.notifyChan <- struct{}{}:
		// Filled notifyChan so that a stray Notify could never succeed, and
		// dropped the waiter so that abandoned waits don't accumulate.
		w.q.remove(w)
	default:
		// notifyChan was full, meaning that this waiter was notified but didn't
		// receive it. Pass the notification to another.
		w.q.notifyLocked()
	}
}
