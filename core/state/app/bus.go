package app

import (
	"math/big"
)

type Bus struct {
	app *App
}

func NewBus(app *App) *Bus {
	return &Bus{app: app}
}

func (b *Bus) AddTotalMinted(amount *big.Int) {
	b.app.AddTotalMinted(amount)
}
