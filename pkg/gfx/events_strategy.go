package gfx

// EventsConsumerStrategy decides how many queued events the window loop
// handles before it checks whether a frame is due.
type EventsConsumerStrategy interface {
	Consume(poll func(timeoutMs int) (Event, bool), handle func(Event), timeoutMs int) int
}

// DrainMaxStrategy handles at most Max events per loop iteration; Max <= 0
// drains the queue completely.
type DrainMaxStrategy struct {
	Max int
}

func (s DrainMaxStrategy) Consume(poll func(timeoutMs int) (Event, bool), handle func(Event), timeoutMs int) int {
	event, ok := poll(timeoutMs)
	if !ok {
		return 0
	}
	handle(event)
	count := 1
	for s.Max <= 0 || count < s.Max {
		event, ok = poll(0)
		if !ok {
			break
		}
		handle(event)
		count++
	}
	return count
}

func DrainAll() EventsConsumerStrategy {
	return DrainMaxStrategy{}
}

func DrainMax(max int) EventsConsumerStrategy {
	if max <= 0 {
		max = 1
	}
	return DrainMaxStrategy{Max: max}
}
