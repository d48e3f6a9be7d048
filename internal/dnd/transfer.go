package dnd

import "sync"

// Formats written to the transfer by BeginDrag.
const (
	FormatText     = "text/plain"
	FormatCardID   = "cardId"
	FormatColumnID = "columnId"

	textMarker = "dragging"
	effectMove = "move"
)

// Transfer is the platform's drag-data channel.
type Transfer interface {
	SetData(format, value string)
	GetData(format string) string
	SetEffectAllowed(effect string)
	SetDropEffect(effect string)
}

// Proxy is the transient visual shown under the pointer while dragging.
type Proxy interface {
	Discard()
}

// ProxyFactory creates drag proxies for a card.
type ProxyFactory interface {
	CreateProxy(cardID int) (Proxy, error)
}

// MapTransfer is an in-memory Transfer. It is what the HTTP drag endpoints
// exchange with clients.
type MapTransfer struct {
	mu            sync.Mutex
	Data          map[string]string `json:"data"`
	EffectAllowed string            `json:"effectAllowed,omitempty"`
	DropEffect    string            `json:"dropEffect,omitempty"`
}

// NewMapTransfer returns a transfer pre-filled with data.
func NewMapTransfer(data map[string]string) *MapTransfer {
	t := &MapTransfer{Data: make(map[string]string, len(data))}
	for k, v := range data {
		t.Data[k] = v
	}
	return t
}

func (t *MapTransfer) SetData(format, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Data == nil {
		t.Data = make(map[string]string)
	}
	t.Data[format] = value
}

func (t *MapTransfer) GetData(format string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Data[format]
}

func (t *MapTransfer) SetEffectAllowed(effect string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.EffectAllowed = effect
}

func (t *MapTransfer) SetDropEffect(effect string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.DropEffect = effect
}

// NopProxies creates proxies that draw nothing. Used where there is no screen.
type NopProxies struct{}

func (NopProxies) CreateProxy(int) (Proxy, error) {
	return nopProxy{}, nil
}

type nopProxy struct{}

func (nopProxy) Discard() {}
