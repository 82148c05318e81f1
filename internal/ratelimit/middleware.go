package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/Werneck0live/cadastro-colaboradores/internal/utils"
)

// Proxies é a lista de proxies confiáveis (IPs ou CIDRs). O X-Forwarded-For
// só é lido quando a conexão vem de um deles. nil = nenhum proxy confiável.
type Proxies struct {
	nets []netip.Prefix
}

func ParseProxies(list []string) (*Proxies, error) {
	p := &Proxies{}
	for _, raw := range list {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			pfx, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			p.nets = append(p.nets, pfx.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		p.nets = append(p.nets, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return p, nil
}

func (p *Proxies) trusted(ip string) bool {
	if p == nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, n := range p.nets {
		if n.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP devolve o IP do par TCP. Se o par for um proxy confiável, percorre o
// X-Forwarded-For da direita para a esquerda e usa o primeiro IP não confiável.
func (p *Proxies) ClientIP(r *http.Request) string {
	peer := remoteHost(r)
	if !p.trusted(peer) {
		return peer
	}
	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if _, err := netip.ParseAddr(hop); err != nil {
			break
		}
		if !p.trusted(hop) {
			return hop
		}
		peer = hop
	}
	return peer
}

// ClientIP sem proxies confiáveis: sempre o par TCP.
func ClientIP(r *http.Request) string {
	return (*Proxies)(nil).ClientIP(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware responde 429 quando o IP esgotou os tokens. Só POST é limitado.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || s.Allow(s.proxies.ClientIP(r)) {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Retry-After", "1")
		utils.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
			"success": false,
			"error":   "Muitas tentativas. Aguarde e tente novamente.",
		})
	})
}
