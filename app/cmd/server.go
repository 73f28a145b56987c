package cmd

import (
	"crypto/tls"
	"errors"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dj311/rc4-key-recovery-attacks/app/internal/utils"
	"github.com/dj311/rc4-key-recovery-attacks/core/oracle"
	"github.com/dj311/rc4-key-recovery-attacks/core/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the encryption oracle",
	Long: `Run the encryption oracle.

The oracle answers GET /rc4-ctr/encrypt/<nonce>/<counter>/<plaintext>, where
nonce and plaintext are hex strings and counter is a non-negative integer,
with the hex encoded ciphertext block.`,
	Example: `  RC4_KEY=TOPSECRETINFO rc4ctr server --port 8888 --debug
  RC4_KEY=TOPSECRETINFO rc4ctr server --block-size 16`,
	Run: runServer,
}

const (
	sizeKeySizeFlag     = "key-size"
	sizeCounterSizeFlag = "counter-size"
	sizeNonceSizeFlag   = "nonce-size"
	sizeBlockSizeFlag   = "block-size"
	sizeLooseKeyFlag    = "loose-key-size"

	serverHostnameFlag = "hostname"
	serverPortFlag     = "port"
	serverDebugFlag    = "debug"
	serverDecoyFlag    = "decoy"
	serverCertFlag     = "cert"
	serverKeyFlag      = "key"
)

var sizeFlagKeys = map[string]string{
	sizeKeySizeFlag:     "key_size",
	sizeCounterSizeFlag: "counter_size",
	sizeNonceSizeFlag:   "nonce_size",
	sizeBlockSizeFlag:   "block_size",
	sizeLooseKeyFlag:    "loose_key_size",
}

var serverFlagKeys = map[string]string{
	serverHostnameFlag: "hostname",
	serverPortFlag:     "port",
	serverDebugFlag:    "debug",
	serverDecoyFlag:    "decoy",
	serverCertFlag:     "tls.cert",
	serverKeyFlag:      "tls.key",
}

func init() {
	addSizeFlags(serverCmd)
	serverCmd.Flags().String(serverHostnameFlag, "localhost", "address to listen on")
	serverCmd.Flags().Int(serverPortFlag, 5000, "port to listen on")
	serverCmd.Flags().Bool(serverDebugFlag, false, "debug mode, logs every request")
	serverCmd.Flags().String(serverDecoyFlag, "", "site to proxy non-oracle requests to")
	serverCmd.Flags().String(serverCertFlag, "", "TLS certificate file")
	serverCmd.Flags().String(serverKeyFlag, "", "TLS key file")
	rootCmd.AddCommand(serverCmd)
}

func addSizeFlags(cmd *cobra.Command) {
	cmd.Flags().Int(sizeKeySizeFlag, oracle.DefaultKeySize, "size of the long-term key in bytes")
	cmd.Flags().Int(sizeCounterSizeFlag, oracle.DefaultCounterSize, "size of the block counter in bytes")
	cmd.Flags().Int(sizeNonceSizeFlag, oracle.DefaultNonceSize, "size of the per-session nonce in bytes")
	cmd.Flags().Int(sizeBlockSizeFlag, oracle.DefaultBlockSize, "size of each block in bytes")
	cmd.Flags().Bool(sizeLooseKeyFlag, false, "allow a key whose length differs from --key-size")
}

type sizeConfig struct {
	Key          string `mapstructure:"key"`
	KeySize      int    `mapstructure:"key_size"`
	CounterSize  int    `mapstructure:"counter_size"`
	NonceSize    int    `mapstructure:"nonce_size"`
	BlockSize    int    `mapstructure:"block_size"`
	LooseKeySize bool   `mapstructure:"loose_key_size"`
}

func (c *sizeConfig) Engine() (*oracle.Engine, error) {
	if c.Key == "" {
		return nil, configError{Field: "key", Err: errors.New(appKeyEnv + " must be set")}
	}
	return oracle.NewEngine(&oracle.Config{
		KeySize:      c.KeySize,
		CounterSize:  c.CounterSize,
		NonceSize:    c.NonceSize,
		BlockSize:    c.BlockSize,
		Key:          []byte(c.Key),
		LooseKeySize: c.LooseKeySize,
	})
}

type serverConfigTLS struct {
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type serverConfig struct {
	Oracle   sizeConfig      `mapstructure:",squash"`
	Hostname string          `mapstructure:"hostname"`
	Port     int             `mapstructure:"port"`
	Debug    bool            `mapstructure:"debug"`
	Decoy    string          `mapstructure:"decoy"`
	TLS      serverConfigTLS `mapstructure:"tls"`
}

func (c *serverConfig) fillAddr(srvConfig *server.Config) error {
	if c.Port < 0 || c.Port > 65535 {
		return configError{Field: "port", Err: errors.New("out of range")}
	}
	srvConfig.Addr = net.JoinHostPort(c.Hostname, strconv.Itoa(c.Port))
	return nil
}

func (c *serverConfig) fillTLSConfig(srvConfig *server.Config) error {
	if c.TLS.Cert == "" && c.TLS.Key == "" {
		return nil
	}
	if c.TLS.Cert == "" || c.TLS.Key == "" {
		return configError{Field: "tls", Err: errors.New("cert and key must be set together")}
	}
	cert, err := tls.LoadX509KeyPair(c.TLS.Cert, c.TLS.Key)
	if err != nil {
		return configError{Field: "tls", Err: err}
	}
	srvConfig.TLSConfig.Certificates = []tls.Certificate{cert}
	return nil
}

func (c *serverConfig) fillDecoy(srvConfig *server.Config) error {
	srvConfig.DecoyURL = c.Decoy
	return nil
}

func (c *serverConfig) fillEventLogger(srvConfig *server.Config) error {
	srvConfig.EventLogger = &serverLogger{}
	return nil
}

func (c *serverConfig) Config(engine *oracle.Engine) (*server.Config, error) {
	srvConfig := &server.Config{Engine: engine}
	fillers := []func(*server.Config) error{
		c.fillAddr,
		c.fillTLSConfig,
		c.fillDecoy,
		c.fillEventLogger,
	}
	for _, f := range fillers {
		if err := f(srvConfig); err != nil {
			return nil, err
		}
	}
	return srvConfig, nil
}

func runServer(cmd *cobra.Command, args []string) {
	logger.Info("server mode")

	bindFlags(cmd, sizeFlagKeys)
	bindFlags(cmd, serverFlagKeys)

	var config serverConfig
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("failed to parse server config", zap.Error(err))
	}
	if config.Debug {
		atomicLevel.SetLevel(zap.DebugLevel)
	}

	engine, err := config.Oracle.Engine()
	if err != nil {
		logger.Fatal("failed to load oracle config", zap.Error(err))
	}
	srvConfig, err := config.Config(engine)
	if err != nil {
		logger.Fatal("failed to load server config", zap.Error(err))
	}
	s, err := server.NewServer(srvConfig)
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}

	sizes := engine.Sizes()
	logger.Info("server up and running",
		zap.String("addr", s.Addr().String()),
		zap.Bool("tls", len(srvConfig.TLSConfig.Certificates) > 0),
		zap.String("keyFingerprint", utils.KeyFingerprint([]byte(config.Oracle.Key))),
		zap.Int("keySize", sizes.KeySize),
		zap.Int("counterSize", sizes.CounterSize),
		zap.Int("nonceSize", sizes.NonceSize),
		zap.Int("blockSize", sizes.BlockSize))

	serveErrChan := make(chan error, 1)
	go func() {
		serveErrChan <- s.Serve()
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	select {
	case <-signalChan:
		logger.Info("received signal, shutting down gracefully")
		_ = s.Close()
	case err := <-serveErrChan:
		if err != nil {
			logger.Fatal("failed to serve", zap.Error(err))
		}
	}
}

type serverLogger struct{}

func (l *serverLogger) EncryptRequest(addr, nonce, counter string) {
	logger.Debug("encrypt request", zap.String("addr", addr), zap.String("nonce", nonce), zap.String("counter", counter))
}

func (l *serverLogger) EncryptError(addr string, err error) {
	logger.Warn("failed to validate inputs", zap.String("addr", addr), zap.Error(err))
}
