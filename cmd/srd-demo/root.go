package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"
)

var logLevel slog.LevelVar

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "srd-demo",
	Short: "Demonstrates the Secure Remote Delegation handshake",
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().Bool("debug", false, "print debug-level protocol logs")
	rootCmd.PersistentFlags().Uint16("key-size", 256, "DH key size in bits: 256, 512, or 1024")
	rootCmd.PersistentFlags().StringSlice("ciphers", []string{"aes256cbc", "xchacha20"}, "accepted cipher suites")
	rootCmd.PersistentFlags().Bool("require-cbt", false, "reject handshakes lacking channel binding")
	rootCmd.PersistentFlags().String("cbt", "", "hex-encoded channel-binding value to advertise (demo/testing only)")

	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(delegateCmd)
}

func applyDebugFlag(cmd *cobra.Command) {
	if viper.GetBool("debug") {
		logLevel.Set(slog.LevelDebug)
	}
	_ = cmd
}
