package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-snp-tools/vtpm"
	"github.com/spf13/cobra"
)

var (
	output   string
	input    string
	vcekPath string
	format   = formatTextproto
	hcl      bool
)

const (
	formatTextproto = "textproto"
	formatBinarypb  = "binarypb"
)

var formats = []string{formatTextproto, formatBinarypb}

type formatFlag struct {
	value *string
}

func (f *formatFlag) Set(val string) error {
	for _, allowed := range formats {
		if val == allowed {
			*f.value = val
			return nil
		}
	}
	return fmt.Errorf("format should be one of %s", strings.Join(formats, ", "))
}

func (f *formatFlag) Type() string {
	return "format"
}

func (f *formatFlag) String() string {
	return *f.value
}

// Disable the "help" subcommand (and just use the -h/--help flags).
// This should be called on all commands with subcommands.
// See https://github.com/spf13/cobra/issues/587 for why this is needed.
func hideHelp(cmd *cobra.Command) {
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

// Lets this command specify an output file, for use with dataOutput().
func addOutputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&output, "output", "",
		"output file (defaults to stdout)")
}

// Lets this command specify an input file, for use with dataInput().
func addInputFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&input, "input", "",
		"input file (defaults to stdin)")
}

// Lets this command specify the encoding of the report proto it writes.
func addFormatFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Var(&formatFlag{&format}, "format",
		"encoding of the output report <"+strings.Join(formats, "|")+">")
}

func addVCEKFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&vcekPath, "vcek", "",
		"VCEK certificate (PEM or DER) whose key signed the report")
}

// Lets this command work on HCL reports, which wrap the SNP report on vTPM-backed VMs.
func addHCLFlag(cmd *cobra.Command, usage string) {
	cmd.PersistentFlags().BoolVar(&hcl, "hcl", false, usage)
}

// alwaysError implements io.ReadWriter by always returning an error
type alwaysError struct {
	error
}

func (ae alwaysError) Write([]byte) (int, error) {
	return 0, ae.error
}

func (ae alwaysError) Read(_ []byte) (n int, err error) {
	return 0, ae.error
}

// Handle to output data file. If there is an issue opening the file, the Writer
// returned will return the error upon any call to Write()
func dataOutput() io.Writer {
	if output == "" {
		return os.Stdout
	}

	file, err := os.Create(output)
	if err != nil {
		return alwaysError{err}
	}
	return file
}

// Handle to input data file. If there is an issue opening the file, the Reader
// returned will return the error upon any call to Read()
func dataInput() io.Reader {
	if input == "" {
		return os.Stdin
	}

	file, err := os.Open(input)
	if err != nil {
		return alwaysError{err}
	}
	return file
}

// readReport reads the raw SNP report from dataInput(), unwrapping it from an HCL report
// if --hcl is set.
func readReport() ([]byte, error) {
	data, err := io.ReadAll(dataInput())
	if err != nil {
		return nil, err
	}
	if !hcl {
		return data, nil
	}
	log.Infof("extracting SNP report from %d byte HCL report", len(data))
	return vtpm.ExtractReport(data)
}
