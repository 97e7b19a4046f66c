package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/perclft/qbench/pkg/circuit"
	"github.com/perclft/qbench/pkg/supermarq"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// loadCircuit reads an OpenQASM 2.0 file or a JSON circuit description,
// picked by extension.
func loadCircuit(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading circuit")
	}
	var c *circuit.Circuit
	if strings.EqualFold(filepath.Ext(path), ".json") {
		c, err = circuit.ParseJSON(data)
	} else {
		c, err = circuit.ParseQASM(string(data))
	}
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if c.Name == "" {
		c.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return c, nil
}

type featureReport struct {
	File     string             `json:"file"`
	Qubits   int                `json:"num_qubits"`
	Depth    int                `json:"depth"`
	Gates    int                `json:"num_gates"`
	Nonlocal int                `json:"num_nonlocal_gates"`
	Features supermarq.Features `json:"features"`
}

func report(path string, c *circuit.Circuit) (featureReport, error) {
	f, err := supermarq.Calculate(c)
	if err != nil {
		return featureReport{}, errors.Wrap(err, path)
	}
	return featureReport{
		File:     path,
		Qubits:   c.NumQubits(),
		Depth:    c.Depth(func(in circuit.Instruction) bool { return !in.IsDirective() }),
		Gates:    c.Size(),
		Nonlocal: c.NumNonlocalGates(),
		Features: f,
	}, nil
}

func newFeaturesCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "features [flags] file...",
		Short: "compute the SupermarqFeatures of circuit files.",
		Long:  `Compute the SupermarqFeatures of OpenQASM 2.0 (.qasm) or JSON (.json) circuit files.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reports []featureReport
			for _, path := range args {
				c, err := loadCircuit(path)
				if err != nil {
					return err
				}
				r, err := report(path, c)
				if err != nil {
					return err
				}
				reports = append(reports, r)
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			}
			tw := newTable(w)
			headerColor.Fprintln(tw, "FILE\tQUBITS\tDEPTH\tGATES\tNONLOCAL\tPC\tCD\tER\tPAR\tLIVE")
			for _, r := range reports {
				row(tw, append([]any{r.File, r.Qubits, r.Depth, r.Gates, r.Nonlocal}, featureCols(r.Features)...)...)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
