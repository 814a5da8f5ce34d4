package httpx

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Proxies are the fronting proxies whose X-Forwarded-For and X-Real-IP
// headers are believed. The zero value trusts nobody, so the client IP is
// the TCP peer.
type Proxies struct {
	prefixes []netip.Prefix
}

// ParseProxies reads addresses ("10.0.0.7") and CIDR ranges ("10.0.0.0/8").
func ParseProxies(entries []string) (Proxies, error) {
	var p Proxies
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			prefix, err := netip.ParsePrefix(e)
			if err != nil {
				return Proxies{}, fmt.Errorf("httpx: trusted proxy %q: %w", e, err)
			}
			p.prefixes = append(p.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(e)
		if err != nil {
			return Proxies{}, fmt.Errorf("httpx: trusted proxy %q: %w", e, err)
		}
		addr = addr.Unmap()
		p.prefixes = append(p.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return p, nil
}

func (p Proxies) trusts(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range p.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the caller's address. Forwarding headers are only read
// when the peer is a trusted proxy, and then the rightmost hop that is not
// itself a trusted proxy wins; anything left of it is client supplied.
// The result feeds device ban checks, so it must not be spoofable.
func (p Proxies) ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	peer, err := netip.ParseAddr(host)
	if err != nil {
		return host
	}
	peer = peer.Unmap()
	if !p.trusts(peer) {
		return peer.String()
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			hop = hop.Unmap()
			if !p.trusts(hop) {
				return hop.String()
			}
			peer = hop
		}
		return peer.String()
	}

	if xri, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xri.Unmap().String()
	}
	return peer.String()
}

// UserOrIP charges authenticated requests to the user and the rest to the IP.
func (p Proxies) UserOrIP(r *http.Request) string {
	if id := UserIDFromContext(r.Context()); id != "" {
		return "user:" + id
	}
	return "ip:" + p.ClientIP(r)
}

// ClientIP is the TCP peer address; forwarding headers are ignored.
func ClientIP(r *http.Request) string { return Proxies{}.ClientIP(r) }

// UserOrIP is Proxies.UserOrIP with no trusted proxies.
func UserOrIP(r *http.Request) string { return Proxies{}.UserOrIP(r) }
