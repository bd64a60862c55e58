package cmd

import (
	"errors"
	"fmt"

	"github.com/google/go-snp-tools/report"
	"github.com/google/go-snp-tools/vcek"
	"github.com/google/go-snp-tools/verify"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an attestation report against a VCEK",
	Long: `Validate an attestation report against a VCEK

Reads a raw SEV-SNP attestation report (or an HCL report with --hcl), checks
that its reported TCB matches its committed TCB, and verifies its ECDSA P-384
signature with the public key of the --vcek certificate.

The VCEK certificate is trusted as given: its chain to the AMD root is not
checked, and neither are REPORT_DATA freshness or the launch measurement.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if vcekPath == "" {
			return errors.New("--vcek must be specified")
		}
		cert, err := vcek.ParseFile(vcekPath)
		if err != nil {
			return err
		}
		raw, err := readReport()
		if err != nil {
			return err
		}
		r, err := report.Decode(raw)
		if err != nil {
			return &verify.ValidationError{Kind: verify.ErrDecode, Err: err}
		}
		log.Infof("report version %d, VMPL %d, reported TCB %v", r.Version, r.VMPL, r.ReportedTCB)
		if r.SignatureAlgo != report.SignEcdsaP384Sha384 {
			log.Warningf("report SIGNATURE_ALGO is %d, want %d", r.SignatureAlgo, report.SignEcdsaP384Sha384)
		}
		if exts, err := cert.Extensions(); err != nil {
			log.Infof("VCEK has no AMD extensions: %v", err)
		} else if exts.TCB != r.ReportedTCB {
			log.Warningf("VCEK TCB (%v) differs from reported TCB (%v)", exts.TCB, r.ReportedTCB)
		}

		if err := verify.Validate(r, cert, nil); err != nil {
			return err
		}
		fmt.Fprintln(debugOutput(), "attestation report is valid")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
	addInputFlag(validateCmd)
	addVCEKFlag(validateCmd)
	addHCLFlag(validateCmd, "input is an HCL report wrapping the SNP report")
}
