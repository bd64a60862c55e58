package cmd

import (
	"fmt"

	"github.com/google/go-snp-tools/report"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/proto"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Decode an attestation report",
	Long: `Decode an attestation report

Reads a raw SEV-SNP attestation report (or an HCL report with --hcl) and writes
it as a go-sev-guest Report proto. Nothing is verified.

The proto conversion is stricter than validate: go-sev-guest rejects reports
whose reserved ranges are not zero, while validate only checks that the signed
bytes are authentic.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readReport()
		if err != nil {
			return err
		}
		r, err := report.Decode(raw)
		if err != nil {
			return err
		}
		if !report.IsTCBConsistent(r) {
			fmt.Fprintf(debugOutput(), "warning: reported TCB (%v) differs from committed TCB (%v)\n",
				r.ReportedTCB, r.CommittedTCB)
		}
		pb, err := r.Proto()
		if err != nil {
			return fmt.Errorf("go-sev-guest rejected the report (validate may still accept it): %w", err)
		}

		var out []byte
		switch format {
		case formatBinarypb:
			out, err = proto.Marshal(pb)
		default:
			out, err = marshalOptions.Marshal(pb)
		}
		if err != nil {
			return err
		}
		if _, err := dataOutput().Write(out); err != nil {
			return fmt.Errorf("cannot output report: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(parseCmd)
	addInputFlag(parseCmd)
	addOutputFlag(parseCmd)
	addFormatFlag(parseCmd)
	addHCLFlag(parseCmd, "input is an HCL report wrapping the SNP report")
}
