package util

import (
	"sync/atomic"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type MessageRemover interface {
	RemoveMessage(channelID snowflake.ID, messageID snowflake.ID) (discord.Message, bool)
}

type messageKey struct {
	channelID snowflake.ID
	messageID snowflake.ID
}

// MessageWindow bounds the disgo message cache. Installed as the message cache policy it
// sees every message the cache stores, and removes messages from the cache again once they
// are pushed out of the window or expire.
type MessageWindow struct {
	lru     *expirable.LRU[messageKey, struct{}]
	remover atomic.Pointer[MessageRemover]
}

func NewMessageWindow(size int, ttl time.Duration) *MessageWindow {
	w := &MessageWindow{}
	w.lru = expirable.NewLRU[messageKey, struct{}](size, w.evict, ttl)
	return w
}

// Attach sets the cache evicted messages are removed from.
func (w *MessageWindow) Attach(remover MessageRemover) {
	w.remover.Store(&remover)
}

// Keep is the cache policy. Bot messages are never stored.
func (w *MessageWindow) Keep(message discord.Message) bool {
	if message.Author.Bot {
		return false
	}
	w.lru.Add(messageKey{channelID: message.ChannelID, messageID: message.ID}, struct{}{})
	return true
}

func (w *MessageWindow) Len() int {
	return w.lru.Len()
}

func (w *MessageWindow) evict(key messageKey, _ struct{}) {
	remover := w.remover.Load()
	if remover == nil {
		return
	}
	// evictions happen inside Keep, which the cache calls while storing a message
	go (*remover).RemoveMessage(key.channelID, key.messageID)
}
