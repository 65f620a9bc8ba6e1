package store

import (
	"strings"
	"time"
)

type Channel string

const (
	ChannelPhone    Channel = "phone"
	ChannelSMS      Channel = "sms"
	ChannelWebVoice Channel = "web_voice"
	ChannelWebChat  Channel = "web_chat"
)

// ParseChannel accepts the wire names; anything else is web chat.
func ParseChannel(s string) Channel {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelPhone, ChannelSMS, ChannelWebVoice, ChannelWebChat:
		return c
	default:
		return ChannelWebChat
	}
}

// Voice reports whether replies are spoken on this channel.
func (c Channel) Voice() bool {
	return c == ChannelPhone || c == ChannelWebVoice
}

// TTLs maps a channel to its idle session timeout.
type TTLs map[Channel]time.Duration

func DefaultTTLs() TTLs {
	return TTLs{
		ChannelPhone:    300 * time.Second,
		ChannelWebVoice: 300 * time.Second,
		ChannelWebChat:  30 * time.Minute,
		ChannelSMS:      24 * time.Hour,
	}
}

// For returns the timeout for c, falling back to the web chat value.
func (t TTLs) For(c Channel) time.Duration {
	if d, ok := t[c]; ok && d > 0 {
		return d
	}
	if d, ok := t[ChannelWebChat]; ok && d > 0 {
		return d
	}
	return 30 * time.Minute
}
