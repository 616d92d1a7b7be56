// Package dispatcher runs the request loop that answers ask-password files.
//
// A Dispatcher owns three pieces of process-lifetime state: the set of
// request names already handled whose files still exist, a bounded cache of
// recently answered messages, and the FIFO of watcher events not yet
// processed. One goroutine drives it; nothing here is safe for concurrent use.
//
// Two orderings matter. A request is marked handled before any I/O so that
// duplicate availability events can never produce a second reply. And right
// before the reply is sent the queue and the watcher are scanned again for a
// deletion of the same file, so a request withdrawn while the secret was
// being fetched is not answered.
package dispatcher
