package server

import (
	"io"
	"net/http"
	"net/url"
	"time"
)

// decoyProxy forwards every request it gets to the decoy site and writes back the response.
type decoyProxy struct {
	target *url.URL
	client *http.Client
}

func newDecoyProxy(target *url.URL, timeout time.Duration) *decoyProxy {
	return &decoyProxy{
		target: target,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (dp *decoyProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := r.Clone(r.Context())
	req.RequestURI = ""
	req.URL.Scheme = dp.target.Scheme
	req.URL.Host = dp.target.Host
	req.Host = dp.target.Host

	resp, err := dp.client.Do(req)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("decoy unreachable"))
		return
	}
	defer resp.Body.Close()
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
