// Command srd-demo exercises the SRD handshake end to end: "srd-demo
// serve" runs a responder listening on loopback, and "srd-demo delegate"
// runs an initiator that connects to it, negotiates a cipher suite, and
// delegates a credential.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
