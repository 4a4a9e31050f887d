package bus

// Bus wires cross-store calls so the stores don't import each other.
type Bus struct {
	checker  Checker
	accounts Accounts
	events   Events
	app      App
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) SetChecker(checker Checker) {
	b.checker = checker
}

func (b *Bus) Checker() Checker {
	return b.checker
}

func (b *Bus) SetAccounts(accounts Accounts) {
	b.accounts = accounts
}

func (b *Bus) Accounts() Accounts {
	return b.accounts
}

func (b *Bus) SetEvents(events Events) {
	b.events = events
}

func (b *Bus) Events() Events {
	return b.events
}

func (b *Bus) SetApp(app App) {
	b.app = app
}

func (b *Bus) App() App {
	return b.app
}
