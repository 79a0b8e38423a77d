package reference

type Telegram interface {
	Notifier
	Start()
	Stop()
}
