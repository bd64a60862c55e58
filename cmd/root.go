// Package cmd contains a CLI to inspect and validate SEV-SNP attestation reports.
package cmd

import (
	"io"
	"os"

	"github.com/google/logger"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/prototext"
)

// RootCmd is the entrypoint for snpreport.
var RootCmd = &cobra.Command{
	Use: "snpreport",
	Long: `Command line tool for AMD SEV-SNP attestation reports

Decodes attestation reports, checks that the reported and committed TCB agree,
and verifies the report signature against a VCEK certificate. The VCEK
certificate chain itself is not validated.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logFile := io.Discard
		if verbose && !quiet {
			logFile = os.Stderr
		}
		log = logger.Init("snpreport", false, false, logFile)
	},
}

var (
	quiet   bool
	verbose bool
	log     *logger.Logger
)

var marshalOptions = prototext.MarshalOptions{Multiline: true, EmitUnknown: true}

func init() {
	RootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false,
		"print nothing if command is successful")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false,
		"log progress information to stderr")
	hideHelp(RootCmd)
}

// Handle to output debug information. Discarded with --quiet.
func debugOutput() io.Writer {
	if quiet {
		return io.Discard
	}
	return os.Stderr
}
