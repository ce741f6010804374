package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cvsouth/srd-go/config"
	"github.com/cvsouth/srd-go/cryptoimpl"
	"github.com/cvsouth/srd-go/handshake"
	"github.com/cvsouth/srd-go/transport"
)

var delegateCmd = &cobra.Command{
	Use:   "delegate",
	Short: "Connect to an SRD responder and delegate a credential",
	RunE:  runDelegate,
}

func init() {
	delegateCmd.Flags().String("addr", "127.0.0.1:4433", "responder address to dial")
	delegateCmd.Flags().String("username", "", "username to delegate")
	delegateCmd.Flags().String("password", "", "password to delegate")
	_ = delegateCmd.MarkFlagRequired("username")
	_ = delegateCmd.MarkFlagRequired("password")
}

func runDelegate(cmd *cobra.Command, args []string) error {
	applyDebugFlag(cmd)
	_ = viper.BindPFlags(cmd.Flags())

	policy, err := config.PolicyFromViper(viper.GetViper())
	if err != nil {
		return err
	}

	sess, err := handshake.NewInitiator(policy, cryptoimpl.Default(), nil)
	if err != nil {
		return fmt.Errorf("srd-demo: building initiator session: %w", err)
	}
	if err := sess.SetCredentials(viper.GetString("username"), viper.GetString("password")); err != nil {
		return err
	}

	conn, err := net.Dial("tcp", viper.GetString("addr"))
	if err != nil {
		return fmt.Errorf("srd-demo: dialing %s: %w", viper.GetString("addr"), err)
	}
	defer conn.Close()

	outcome, err := transport.RunInitiator(conn, sess)
	if err != nil {
		return fmt.Errorf("srd-demo: handshake: %w", err)
	}
	if !outcome.OK {
		return fmt.Errorf("srd-demo: responder rejected the delegation, status=%d", outcome.Status)
	}
	fmt.Println("srd-demo: credential delegated successfully")
	return nil
}
