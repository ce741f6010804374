package main

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cvsouth/srd-go/config"
	"github.com/cvsouth/srd-go/cryptoimpl"
	"github.com/cvsouth/srd-go/handshake"
	"github.com/cvsouth/srd-go/transport"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an SRD responder on a loopback address",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:4433", "loopback address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	applyDebugFlag(cmd)
	_ = viper.BindPFlags(cmd.Flags())

	policy, err := config.PolicyFromViper(viper.GetViper())
	if err != nil {
		return err
	}
	providers := cryptoimpl.Default()
	logger := slog.Default()

	srv := &transport.Server{
		Addr: viper.GetString("addr"),
		NewSession: func(conn net.Conn) (*handshake.Session, error) {
			return handshake.NewResponder(policy, providers, logger)
		},
		OnOutcome: func(conn net.Conn, sess *handshake.Session, outcome handshake.Outcome, err error) {
			if err != nil {
				logger.Error("srd-demo: handshake failed", "remote", conn.RemoteAddr(), "err", err)
				return
			}
			if !outcome.OK {
				logger.Warn("srd-demo: handshake rejected", "remote", conn.RemoteAddr(), "status", outcome.Status)
				return
			}
			username, _, ok := sess.Credentials()
			if ok {
				fmt.Printf("delegated credential received from %s: username=%q\n", conn.RemoteAddr(), username)
			}
		},
		Logger: logger,
	}

	fmt.Printf("srd-demo: responder listening on %s\n", srv.Addr)
	return srv.ListenAndServe()
}
