package port

import "github.com/rl1809/storekeeper/internal/core/domain"

// ChangeSink receives committed changes while the store's writer lock is held.
// Publish must not block on I/O.
type ChangeSink interface {
	Publish(change domain.Change)
}
