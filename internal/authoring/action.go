package authoring

import (
	"errors"
	"sync"
)

var (
	// ErrDisabled: контрол выключен (например, не заполнены обязательные поля). Запрос не отправляется.
	ErrDisabled = errors.New("действие недоступно")
	// ErrBusy: предыдущий запрос того же контрола ещё выполняется.
	ErrBusy = errors.New("запрос уже выполняется")
)

// action: флаг "в полёте" одного контрола: idle → submitting → idle.
// У каждого контрола свой action, между контролами блокировок нет.
type action struct {
	mu       sync.Mutex
	inFlight bool
}

// begin переводит в submitting. false, если запрос уже идёт.
func (a *action) begin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inFlight {
		return false
	}
	a.inFlight = true
	return true
}

func (a *action) end() {
	a.mu.Lock()
	a.inFlight = false
	a.mu.Unlock()
}

func (a *action) loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight
}
