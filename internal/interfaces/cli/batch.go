package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrewtarzia/stk/internal/application/assembly"
	"github.com/andrewtarzia/stk/internal/domain/fg"
	"github.com/andrewtarzia/stk/internal/domain/molecule"
	"github.com/andrewtarzia/stk/internal/infrastructure/monitoring/logging"
	"github.com/andrewtarzia/stk/internal/infrastructure/monitoring/prometheus"
	"github.com/andrewtarzia/stk/pkg/errors"
)

// batchEntry is one build in a manifest file.
type batchEntry struct {
	Topology string  `json:"topology"`
	Core     string  `json:"core"`
	Linker   string  `json:"linker"`
	Seed     int64   `json:"seed"`
	Scale    float64 `json:"scale"`
}

func newBatchCmd() *cobra.Command {
	var (
		manifestPath string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run many independent builds from a JSON manifest",
		Long:  "Reads a JSON array of build entries and runs them with bounded\nconcurrency. One failed build is reported in its row and never aborts\nthe others.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(manifestPath)
			if err != nil {
				return errors.Wrap(err, errors.CodeInvalidParam, "failed to read manifest").
					WithDetail(manifestPath)
			}
			var entries []batchEntry
			if err := json.Unmarshal(data, &entries); err != nil {
				return errors.Wrap(err, errors.CodeInvalidParam, "failed to decode manifest").
					WithDetail(manifestPath)
			}
			if len(entries) == 0 {
				return errors.InvalidParam("manifest contains no builds")
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return errors.Wrap(err, errors.CodeInvalidParam, "failed to create output directory").
						WithDetail(outDir)
				}
			}

			registry := fg.DefaultRegistry()
			metrics := prometheus.NewBuildMetrics()
			if cfg.Metrics.Enabled {
				mux := http.NewServeMux()
				mux.Handle(cfg.Metrics.Path, metrics.Handler())
				go func() {
					if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
						log.Warn("metrics endpoint stopped", logging.Err(err))
					}
				}()
			}

			svc, cleanup, err := newAssemblyService(cmd.Context(), registry, metrics)
			if err != nil {
				return err
			}
			defer cleanup()

			reqs := make([]assembly.BuildRequest, len(entries))
			for i, e := range entries {
				core, err := molecule.LoadBuildingBlock(e.Core, registry)
				if err != nil {
					return err
				}
				linker, err := molecule.LoadBuildingBlock(e.Linker, registry)
				if err != nil {
					return err
				}
				reqs[i] = assembly.BuildRequest{
					Topology: e.Topology,
					Core:     core,
					Linker:   linker,
					Scale:    e.Scale,
					Seed:     e.Seed,
				}
			}

			outcomes := svc.BuildBatch(cmd.Context(), reqs)

			failed := 0
			rows := [][2]string{{"#", "Result"}}
			for i, o := range outcomes {
				if o.Err != nil {
					failed++
					rows = append(rows, [2]string{strconv.Itoa(i), "FAILED: " + o.Err.Error()})
					continue
				}
				rows = append(rows, [2]string{strconv.Itoa(i),
					fmt.Sprintf("%s bonds=%d key=%s", o.Molecule.Topology, o.Molecule.BondsMade, o.Molecule.IdentityKey)})

				if outDir != "" {
					pristine, err := molecule.FromRecord(o.Molecule.Pristine)
					if err != nil {
						return err
					}
					name := fmt.Sprintf("%03d_%s.xyz", i, o.Molecule.Topology)
					if err := pristine.SaveXYZ(filepath.Join(outDir, name)); err != nil {
						return err
					}
				}
			}
			printTable(rows)

			if failed > 0 {
				return errors.Newf(errors.CodeInternal, "%d of %d builds failed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "JSON manifest of builds")
	cmd.Flags().StringVarP(&outDir, "out-dir", "d", "", "directory for per-build XYZ output")

	cmd.MarkFlagRequired("manifest")
	return cmd
}
