package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/internal/render"
	"github.com/andrewtarzia/stk/pkg/errors"
	"github.com/andrewtarzia/stk/pkg/types/chem"
)

func newRenderCmd() *cobra.Command {
	var (
		inPath  string
		outPath string
		width   int
		height  int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a molecule JSON file as a PNG depiction",
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := os.ReadFile(inPath)
			if err != nil {
				return errors.Wrap(err, errors.CodeMoleculeParse, "failed to read molecule file").
					WithDetail(inPath)
			}
			var rec chem.MoleculeRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return errors.Wrap(err, errors.CodeMoleculeParse, "failed to decode molecule JSON").
					WithDetail(inPath)
			}
			m, err := molecule.FromRecord(rec)
			if err != nil {
				return err
			}

			opts := render.DefaultOptions()
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}
			return render.PNG(m, outPath, opts)
		},
	}

	cmd.Flags().StringVarP(&inPath, "in", "i", "", "molecule JSON file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "molecule.png", "output PNG path")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")

	cmd.MarkFlagRequired("in")
	return cmd
}
