package notice

import "time"

// Kinds
const (
	KindSuccess = "success"
	KindDanger  = "danger"
)

// DefaultTTL is how long a banner stays visible before the browser removes it.
const DefaultTTL = 5 * time.Second

// Notice is a transient banner shown after a command. One slot per session.
type Notice struct {
	Kind    string
	Message string
	TTL     time.Duration
}

// Success returns a success notice with the default lifetime.
func Success(msg string) Notice {
	return Notice{Kind: KindSuccess, Message: msg, TTL: DefaultTTL}
}

// Danger returns an error notice with the default lifetime.
func Danger(msg string) Notice {
	return Notice{Kind: KindDanger, Message: msg, TTL: DefaultTTL}
}

// IsZero reports whether the slot is empty.
func (n Notice) IsZero() bool {
	return n.Message == ""
}

// ExpireMs returns the lifetime in milliseconds for the data-expire-ms attribute.
func (n Notice) ExpireMs() int64 {
	if n.TTL <= 0 {
		return DefaultTTL.Milliseconds()
	}
	return n.TTL.Milliseconds()
}
