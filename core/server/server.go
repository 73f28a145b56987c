package server

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/dj311/rc4-key-recovery-attacks/core/internal/protocol"
)

// ValidationFailedMessage is the only body sent back for a rejected request.
const ValidationFailedMessage = protocol.ValidationFailedMessage

type Server interface {
	Serve() error
	Close() error
	Addr() net.Addr
}

func NewServer(config *Config) (Server, error) {
	if err := config.fill(); err != nil {
		return nil, err
	}
	listener := config.Listener
	if listener == nil {
		l, err := net.Listen("tcp", config.Addr)
		if err != nil {
			return nil, err
		}
		listener = l
	}
	if config.TLSConfig.enabled() {
		listener = tls.NewListener(listener, &tls.Config{
			Certificates:   config.TLSConfig.Certificates,
			GetCertificate: config.TLSConfig.GetCertificate,
			NextProtos:     []string{"h2", "http/1.1"},
		})
	}
	handler, err := NewHandler(config)
	if err != nil {
		return nil, err
	}
	hs := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
		IdleTimeout:       config.IdleTimeout,
	}
	return &serverImpl{
		listener: listener,
		hs:       hs,
	}, nil
}

type serverImpl struct {
	listener net.Listener
	hs       *http.Server
}

func (s *serverImpl) Serve() error {
	err := s.hs.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *serverImpl) Close() error {
	return s.hs.Close()
}

func (s *serverImpl) Addr() net.Addr {
	return s.listener.Addr()
}

// NewHandler returns the oracle's HTTP handler. Requests outside the oracle
// endpoint go to the decoy site if one is configured, or get a 404.
func NewHandler(config *Config) (http.Handler, error) {
	if err := config.fill(); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle(protocol.EncryptPattern, &encryptHandler{config: config})
	if config.decoyURL != nil {
		mux.Handle("/", newDecoyProxy(config.decoyURL, config.DecoyTimeout))
	} else {
		mux.Handle("/", http.NotFoundHandler())
	}
	return mux, nil
}

type encryptHandler struct {
	config *Config
}

func (h *encryptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	nonce, counter := r.PathValue(protocol.PathValueNonce), r.PathValue(protocol.PathValueCounter)
	el := h.config.EventLogger
	if el != nil {
		el.EncryptRequest(r.RemoteAddr, nonce, counter)
	}
	ciphertext, err := h.config.Engine.Oracle(nonce, counter, r.PathValue(protocol.PathValuePlaintext))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err != nil {
		if el != nil {
			el.EncryptError(r.RemoteAddr, err)
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, ValidationFailedMessage)
		return
	}
	_, _ = io.WriteString(w, ciphertext)
}
