package run

import "backend-runhub/internal/shared/geo"

// Source is an abstract position stream (a device GPS feed in production,
// a scripted fake in tests). The tracker service subscribes while a session
// is running and unsubscribes on pause and stop, so suspended sessions
// consume no updates.
type Source interface {
	Subscribe(fn func(geo.Position)) Subscription
}

type Subscription interface {
	Unsubscribe()
}
