package notification

import (
	"fadebot/model"
	"fadebot/reference"
)

// Multi fans every event out to all of its notifiers.
type Multi []reference.Notifier

func NewMulti(notifiers ...reference.Notifier) Multi {
	multi := make(Multi, 0, len(notifiers))
	for _, notifier := range notifiers {
		if notifier != nil {
			multi = append(multi, notifier)
		}
	}
	return multi
}

func (m Multi) Notify(text string) {
	for _, notifier := range m {
		notifier.Notify(text)
	}
}

func (m Multi) OnOpportunity(opportunity model.Opportunity) {
	for _, notifier := range m {
		notifier.OnOpportunity(opportunity)
	}
}

func (m Multi) OnError(err error) {
	for _, notifier := range m {
		notifier.OnError(err)
	}
}
