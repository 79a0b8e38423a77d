//go:generate go run github.com/vektra/mockery/v2 --all --with-expecter --output=../mocks

package reference

import (
	"fadebot/model"
)

type Notifier interface {
	Notify(string)
	OnOpportunity(opportunity model.Opportunity)
	OnError(err error)
}
