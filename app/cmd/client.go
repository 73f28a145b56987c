package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dj311/rc4-key-recovery-attacks/core/client"
)

var clientCmd = &cobra.Command{
	Use:     "client",
	Short:   "Query a running oracle for one block",
	Example: `  rc4ctr client --server http://localhost:5000 --nonce 710790b2e53bbe3f4da853d64fb513b9 --counter 0 --plaintext 00...00`,
	Run:     runClient,
}

const (
	clientServerFlag    = "server"
	clientTimeoutFlag   = "timeout"
	blockNonceFlag      = "nonce"
	blockCounterFlag    = "counter"
	blockPlaintextFlag  = "plaintext"
	defaultClientServer = "http://localhost:5000"
)

var clientFlagKeys = map[string]string{
	clientServerFlag:   "client.server",
	clientTimeoutFlag:  "client.timeout",
	blockNonceFlag:     "block.nonce",
	blockCounterFlag:   "block.counter",
	blockPlaintextFlag: "block.plaintext",
}

func init() {
	clientCmd.Flags().String(clientServerFlag, defaultClientServer, "oracle base URL")
	clientCmd.Flags().Duration(clientTimeoutFlag, 10*time.Second, "request timeout")
	clientCmd.Flags().String(blockNonceFlag, "", "nonce, hex")
	clientCmd.Flags().Uint64(blockCounterFlag, 0, "block counter")
	clientCmd.Flags().String(blockPlaintextFlag, "", "plaintext block, hex")
	rootCmd.AddCommand(clientCmd)
}

type clientConfig struct {
	Server  string        `mapstructure:"server"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (c *clientConfig) Config() *client.Config {
	return &client.Config{
		ServerURL: c.Server,
		Timeout:   c.Timeout,
	}
}

type blockConfig struct {
	Nonce     string `mapstructure:"nonce"`
	Counter   uint64 `mapstructure:"counter"`
	Plaintext string `mapstructure:"plaintext"`
}

func (c *blockConfig) Decode() (nonce, plaintext []byte, err error) {
	nonce, err = hex.DecodeString(c.Nonce)
	if err != nil {
		return nil, nil, configError{Field: "nonce", Err: err}
	}
	plaintext, err = hex.DecodeString(c.Plaintext)
	if err != nil {
		return nil, nil, configError{Field: "plaintext", Err: err}
	}
	if len(plaintext) == 0 {
		return nil, nil, configError{Field: "plaintext", Err: errors.New("must be set")}
	}
	return nonce, plaintext, nil
}

func runClient(cmd *cobra.Command, args []string) {
	bindFlags(cmd, clientFlagKeys)

	var config struct {
		Client clientConfig `mapstructure:"client"`
		Block  blockConfig  `mapstructure:"block"`
	}
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("failed to parse client config", zap.Error(err))
	}
	cc, bc := config.Client, config.Block
	nonce, plaintext, err := bc.Decode()
	if err != nil {
		logger.Fatal("invalid block", zap.Error(err))
	}

	c, err := client.NewClient(cc.Config())
	if err != nil {
		logger.Fatal("failed to initialize client", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Debug("sending request", zap.String("url", c.EncryptURL(nonce, bc.Counter, plaintext)))
	ciphertext, err := c.Encrypt(ctx, nonce, bc.Counter, plaintext)
	if err != nil {
		logger.Fatal("oracle request failed", zap.Error(err))
	}
	fmt.Println(hex.EncodeToString(ciphertext))
}
