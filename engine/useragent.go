package engine

import "sync/atomic"

// DefaultUserAgents is a set of current desktop browser User-Agents.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36 Edg/131.0.0.0",
}

// UserAgents hands out User-Agent strings round-robin.
// It is safe for concurrent use.
type UserAgents struct {
	list []string
	next atomic.Uint64
}

// NewUserAgents copies uas into a rotation. An empty list falls back to
// DefaultUserAgents.
func NewUserAgents(uas []string) *UserAgents {
	if len(uas) == 0 {
		uas = DefaultUserAgents
	}
	return &UserAgents{list: append([]string(nil), uas...)}
}

// Next returns the next User-Agent in the rotation.
func (u *UserAgents) Next() string {
	idx := u.next.Add(1) - 1
	return u.list[idx%uint64(len(u.list))]
}
