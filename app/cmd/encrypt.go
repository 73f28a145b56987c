package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt <nonce> <counter> <plaintext>",
	Short: "Encrypt one block locally with RC4_KEY",
	Long: `Encrypt one block locally, exactly as the oracle would.

The arguments use the same encoding as the oracle route: hex nonce, decimal
counter and hex plaintext.`,
	Args: cobra.ExactArgs(3),
	Run:  runEncrypt,
}

func init() {
	addSizeFlags(encryptCmd)
	rootCmd.AddCommand(encryptCmd)
}

func runEncrypt(cmd *cobra.Command, args []string) {
	bindFlags(cmd, sizeFlagKeys)

	var config sizeConfig
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("failed to parse config", zap.Error(err))
	}
	engine, err := config.Engine()
	if err != nil {
		logger.Fatal("failed to load oracle config", zap.Error(err))
	}
	ciphertext, err := engine.Oracle(args[0], args[1], args[2])
	if err != nil {
		logger.Fatal("failed to validate inputs", zap.Error(err))
	}
	fmt.Println(ciphertext)
}
