package cmd

import (
	"fmt"

	"github.com/google/go-snp-tools/vtpm"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the attestation report from the vTPM",
	Long: `Read the attestation report from the vTPM

On VMs whose vTPM is provided by a paravisor, the SEV-SNP attestation report is
stored inside an HCL report at NV index 0x01400001. This command reads that
index with owner authorization and writes the raw SNP report.

--hcl writes the complete HCL report instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rwc, err := openTpm()
		if err != nil {
			return err
		}
		defer rwc.Close()

		data, err := vtpm.ReadHCLReport(rwc)
		if err != nil {
			return err
		}
		log.Infof("read %d byte HCL report from NV index 0x%x", len(data), uint32(vtpm.ReportIndex))
		if !hcl {
			if data, err = vtpm.ExtractReport(data); err != nil {
				return err
			}
		}
		if _, err := dataOutput().Write(data); err != nil {
			return fmt.Errorf("cannot output report: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(readCmd)
	addOutputFlag(readCmd)
	addHCLFlag(readCmd, "write the whole HCL report instead of the SNP report it contains")
}
