package util

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedRealIP : замена middleware.RealIP, которая верит заголовкам только от доверенных прокси.
// Прокси задаются адресами или подсетями CIDR. От остальных пиров RemoteAddr не меняется
func TrustedRealIP(trustedProxies []string) (func(http.Handler) http.Handler, error) {
	prefixes, err := parseTrustedProxies(trustedProxies)
	if err != nil {
		return nil, err
	}

	trusted := func(addr netip.Addr) bool {
		addr = addr.Unmap()
		for _, prefix := range prefixes {
			if prefix.Contains(addr) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			peer, err := netip.ParseAddr(ClientIP(r))
			if err == nil && trusted(peer) {
				if ip, ok := forwardedClientIP(r, trusted); ok {
					r.RemoteAddr = ip
				}
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// forwardedClientIP : X-Forwarded-For читается справа налево до первого недоверенного адреса,
// левые элементы мог подставить сам клиент
func forwardedClientIP(r *http.Request, trusted func(netip.Addr) bool) (string, bool) {
	if forwarded := r.Header.Values("X-Forwarded-For"); len(forwarded) > 0 {
		hops := strings.Split(strings.Join(forwarded, ","), ",")
		var leftmost string
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				break
			}
			addr = addr.Unmap()
			if !trusted(addr) {
				return addr.String(), true
			}
			leftmost = addr.String()
		}
		if leftmost != "" {
			return leftmost, true
		}
		return "", false
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		addr, err := netip.ParseAddr(realIP)
		if err == nil {
			return addr.Unmap().String(), true
		}
	}
	return "", false
}

func parseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)
			if err != nil {
				return nil, fmt.Errorf("неверная подсеть доверенного прокси %q: %w", value, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, fmt.Errorf("неверный адрес доверенного прокси %q: %w", value, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
