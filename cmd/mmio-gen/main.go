// Command mmio-gen generates typed register access code for package mmio
// from a YAML register schema or a CMSIS-SVD device file.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"omibyte.io/mmio/cmd/mmio-gen/generator"
	"omibyte.io/mmio/cmd/mmio-gen/schema"
	"omibyte.io/mmio/cmd/mmio-gen/svd"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

var errInputType = errors.New("unsupported input file type")

type options struct {
	input              string
	output             string
	pkg                string
	aliases            bool
	assumeReservedZero bool
	only               []string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("mmio-gen: ")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "mmio-gen",
		Short:        "Generate typed MMIO register access code",
		Long:         "Generate Go register and field types for package mmio from a YAML register schema or an SVD device file.",
		SilenceUsage: true,
	}
	root.AddCommand(newGenerateCmd(), newValidateCmd(), newVersionCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate register code",
		Long:  "Generate one <peripheral>_gen.go file per peripheral of the input into the output directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == "" {
				return errors.New("no output directory specified (--out)")
			}

			d, err := load(cmd, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generating package %s from %s\n", d.Package, opts.input)
			paths, err := generator.Write(d, opts.output, opts.only)
			for _, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "  generated %s\n", path)
			}
			if err != nil {
				if errors.Is(err, generator.ErrFormat) {
					log.Printf("unformatted output kept next to the target file as .broken")
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done.")
			return nil
		},
	}

	addInputFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output directory")
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "generate only these peripherals")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a register description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := load(cmd, opts)
			if err != nil {
				return err
			}

			var registers, fields int
			for _, p := range d.Peripherals {
				registers += len(p.Registers)
				for _, r := range p.Registers {
					fields += len(r.Fields)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d peripherals, %d registers, %d fields\n",
				opts.input, len(d.Peripherals), registers, fields)
			return nil
		},
	}

	addInputFlags(cmd, &opts)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mmio-gen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mmio-gen", version)
		},
	}
}

func addInputFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "input file (.yaml, .yml or .svd)")
	cmd.Flags().StringVarP(&opts.pkg, "package", "p", "", "package name of the generated code")
	cmd.Flags().BoolVar(&opts.aliases, "aliases", false, "registers have atomic XOR/SET/CLR alias windows")
	cmd.Flags().BoolVar(&opts.assumeReservedZero, "assume-reserved-zero", true, "reserved register bits always read as zero")
	if err := cmd.MarkFlagRequired("in"); err != nil {
		panic(err)
	}
}

// load reads the input description. Flags given on the command line override
// the settings of a YAML schema.
func load(cmd *cobra.Command, opts options) (*schema.Device, error) {
	var d *schema.Device
	var err error

	switch ext := strings.ToLower(filepath.Ext(opts.input)); ext {
	case ".yaml", ".yml":
		if d, err = schema.Load(opts.input); err != nil {
			return nil, err
		}
		if cmd.Flags().Changed("package") {
			d.Package = opts.pkg
		}
		if cmd.Flags().Changed("aliases") {
			d.Aliases = opts.aliases
		}
		if cmd.Flags().Changed("assume-reserved-zero") {
			d.AssumeReservedZero = &opts.assumeReservedZero
		}
	case ".svd", ".xml":
		dev, err := svd.Load(opts.input)
		if err != nil {
			return nil, err
		}
		log.Printf("%s: device %s, cpu %s %s", opts.input, dev.Name, dev.CPU.Name, dev.CPU.Revision)
		d, err = svd.Convert(dev, svd.Options{
			Package:            opts.pkg,
			Aliases:            opts.aliases,
			AssumeReservedZero: opts.assumeReservedZero,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opts.input, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", errInputType, ext)
	}

	// Overrides must still describe a valid device.
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", opts.input, err)
	}
	return d, nil
}
