package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	appShortDesc = "RC4-CTR encryption oracle"
	appAboutLong = `An HTTP encryption oracle for a made-up "RC4-CTR" scheme.

Each block is encrypted with RC4 keyed by nonce || counter || key, where the
counter is little-endian and key is the server's long-term secret taken from
the RC4_KEY environment variable. The scheme is deliberately vulnerable to
related-key attacks on RC4 and exists to be attacked.`

	appKeyEnv    = "RC4_KEY"
	appEnvPrefix = "RC4CTR"
)

var logger *zap.Logger

var (
	cfgFile   string
	logLevel  string
	logFormat string

	// atomicLevel lets commands raise verbosity after the logger is built.
	atomicLevel = zap.NewAtomicLevel()
)

var rootCmd = &cobra.Command{
	Use:   "rc4ctr",
	Short: appShortDesc,
	Long:  appAboutLong,
}

var logLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

var logFormatMap = map[string]zapcore.EncoderConfig{
	"console": {
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	},
	"json": {
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.EpochMillisTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	initFlags()
	cobra.MousetrapHelpText = ""
	cobra.OnInitialize(initLogger, initConfig)
}

func initFlags() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "console", "log format (console, json)")
}

func initConfig() {
	viper.SetEnvPrefix(appEnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	// The long-term key keeps its historical, unprefixed name.
	if err := viper.BindEnv("key", appKeyEnv); err != nil {
		logger.Fatal("failed to bind environment", zap.Error(err))
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logger.Fatal("failed to read config file", zap.String("file", cfgFile), zap.Error(err))
		}
		logger.Debug("using config file", zap.String("file", viper.ConfigFileUsed()))
	}
}

func initLogger() {
	var err error
	logger, err = newLogger(logLevel, logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level, format string) (*zap.Logger, error) {
	l, ok := logLevelMap[strings.ToLower(level)]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}
	enc, ok := logFormatMap[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
	atomicLevel.SetLevel(l)
	c := zap.Config{
		Level:             atomicLevel,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          strings.ToLower(format),
		EncoderConfig:     enc,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	return c.Build()
}

// bindFlags binds the command's flags to viper keys. Binding happens when the
// command runs so that commands sharing a key do not override each other.
func bindFlags(cmd *cobra.Command, keys map[string]string) {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			logger.Fatal("failed to bind flag", zap.String("flag", flag), zap.Error(err))
		}
	}
}

type configError struct {
	Field string
	Err   error
}

func (e configError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Err)
}

func (e configError) Unwrap() error {
	return e.Err
}
