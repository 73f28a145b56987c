package cmd

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	coreErrs "github.com/dj311/rc4-key-recovery-attacks/core/errors"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	old := logger
	logger = zap.New(core)
	t.Cleanup(func() { logger = old })
	return logs
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"console", "json", "JSON"} {
		l, err := newLogger("debug", format)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
	_, err := newLogger("verbose", "console")
	assert.Error(t, err)
	_, err = newLogger("info", "xml")
	assert.Error(t, err)
}

func TestSizeConfigEngine(t *testing.T) {
	_, err := (&sizeConfig{}).Engine()
	var ce configError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "key", ce.Field)

	_, err = (&sizeConfig{Key: "short", KeySize: 13}).Engine()
	var cce coreErrs.ConfigError
	assert.ErrorAs(t, err, &cce)

	e, err := (&sizeConfig{Key: "short", KeySize: 13, LooseKeySize: true}).Engine()
	require.NoError(t, err)
	assert.Equal(t, 13, e.Sizes().KeySize)

	e, err = (&sizeConfig{Key: "TOPSECRETINFO", KeySize: 13, CounterSize: 3, NonceSize: 16, BlockSize: 16}).Engine()
	require.NoError(t, err)
	assert.Equal(t, 16, e.Sizes().BlockSize)
}

func TestServerConfig(t *testing.T) {
	e, err := (&sizeConfig{Key: "TOPSECRETINFO"}).Engine()
	require.NoError(t, err)

	c := &serverConfig{Hostname: "localhost", Port: 5000, Decoy: "http://example.com"}
	sc, err := c.Config(e)
	require.NoError(t, err)
	assert.Equal(t, "localhost:5000", sc.Addr)
	assert.Equal(t, "http://example.com", sc.DecoyURL)
	assert.Empty(t, sc.TLSConfig.Certificates)
	assert.IsType(t, &serverLogger{}, sc.EventLogger)

	c = &serverConfig{Hostname: "::1", Port: 8888}
	sc, err = c.Config(e)
	require.NoError(t, err)
	assert.Equal(t, "[::1]:8888", sc.Addr)
}

func TestServerConfigErrors(t *testing.T) {
	e, err := (&sizeConfig{Key: "TOPSECRETINFO"}).Engine()
	require.NoError(t, err)

	tests := []struct {
		name   string
		config serverConfig
		field  string
	}{
		{"port", serverConfig{Port: 70000}, "port"},
		{"cert without key", serverConfig{TLS: serverConfigTLS{Cert: "cert.pem"}}, "tls"},
		{"missing files", serverConfig{TLS: serverConfigTLS{Cert: "nope.pem", Key: "nope.key"}}, "tls"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.config.Config(e)
			var ce configError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func writeTestCert(t *testing.T) (certFile, keyFile string) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &priv.PublicKey, priv)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(priv)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certFile, keyFile
}

func TestServerConfigTLS(t *testing.T) {
	e, err := (&sizeConfig{Key: "TOPSECRETINFO"}).Engine()
	require.NoError(t, err)
	certFile, keyFile := writeTestCert(t)

	c := &serverConfig{Hostname: "localhost", Port: 5443, TLS: serverConfigTLS{Cert: certFile, Key: keyFile}}
	sc, err := c.Config(e)
	require.NoError(t, err)
	assert.Len(t, sc.TLSConfig.Certificates, 1)
}

func TestServerLogger(t *testing.T) {
	logs := observeLogs(t)
	l := &serverLogger{}

	l.EncryptRequest("127.0.0.1:1234", "00ff", "7")
	l.EncryptError("127.0.0.1:1234", errors.New("invalid nonce: wrong length"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "00ff", entries[0].ContextMap()["nonce"])
	assert.Equal(t, "7", entries[0].ContextMap()["counter"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "invalid nonce: wrong length", entries[1].ContextMap()["error"])
}

func TestBlockConfigDecode(t *testing.T) {
	nonce, plaintext, err := (&blockConfig{Nonce: "00ff", Plaintext: "abcd"}).Decode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, nonce)
	assert.Equal(t, []byte{0xab, 0xcd}, plaintext)

	for _, bc := range []blockConfig{
		{Nonce: "zz", Plaintext: "00"},
		{Nonce: "00", Plaintext: "0"},
		{Nonce: "00"},
	} {
		_, _, err := bc.Decode()
		var ce configError
		assert.ErrorAs(t, err, &ce)
	}
}

func TestClientConfig(t *testing.T) {
	c := (&clientConfig{Server: "http://localhost:5000", Timeout: time.Second}).Config()
	assert.Equal(t, "http://localhost:5000", c.ServerURL)
	assert.Equal(t, time.Second, c.Timeout)
}
