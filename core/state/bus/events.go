package bus

import (
	eventsdb "github.com/HelioTeam/helio-go-node/core/events"
)

type Events interface {
	AddEvent(event eventsdb.Event)
}
