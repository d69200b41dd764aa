package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/bed"
	"github.com/inodb/panelbed/internal/duckdb"
	"github.com/inodb/panelbed/internal/panelapp"
	"github.com/inodb/panelbed/internal/variantvalidator"
)

type generateBedOptions struct {
	panelID     string
	version     string
	build       string
	status      string
	padding     int
	patientID   string
	patientName string
	dob         string
}

func newGenerateBedCmd() *cobra.Command {
	var opts generateBedOptions

	cmd := &cobra.Command{
		Use:   "generate-bed",
		Short: "Generate BED files for a panel",
		Long: `Fetch a panel's gene list, resolve each gene to its MANE Select
transcript, and write a padded BED file plus a merged companion with
overlapping regions collapsed.

Patient details are optional; when all three patient flags are given the
run is recorded in the local database.`,
		Example: `  panelbed generate-bed --panel_id R207 --panel_version 4.0 --genome_build GRCh38
  panelbed generate-bed -p R59 -v 1.6 -g GRCh37 --padding 25
  panelbed generate-bed -p R207 -v 4.0 -g GRCh38 \
      --patient_id 1234567890 --patient_name "Jane Doe" --dob 15-05-1985`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("padding") {
				opts.padding = viper.GetInt("padding")
			}
			if !cmd.Flags().Changed("confidence_status") {
				opts.status = viper.GetString("confidence")
			}
			return runGenerateBed(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.panelID, "panel_id", "p", "", "Panel ID, e.g. R207 (required)")
	cmd.Flags().StringVarP(&opts.version, "panel_version", "v", "", "Panel version, e.g. 4.0 (required)")
	cmd.Flags().StringVarP(&opts.build, "genome_build", "g", "", "Genome build: GRCh37 or GRCh38 (required)")
	cmd.Flags().IntVar(&opts.padding, "padding", bed.DefaultPadding, "Bases added to both sides of every exon")
	cmd.Flags().StringVar(&opts.status, "confidence_status", string(panelapp.TierGreen), "Minimum gene confidence: green, amber, red, or all")
	cmd.Flags().StringVar(&opts.patientID, "patient_id", "", "Patient NHS number (10 digits)")
	cmd.Flags().StringVar(&opts.patientName, "patient_name", "", "Patient full name")
	cmd.Flags().StringVar(&opts.dob, "dob", "", "Patient date of birth, DD-MM-YYYY")
	_ = cmd.MarkFlagRequired("panel_id")
	_ = cmd.MarkFlagRequired("panel_version")
	_ = cmd.MarkFlagRequired("genome_build")

	return cmd
}

func runGenerateBed(opts generateBedOptions) error {
	code, err := panelapp.NormalizePanelCode(opts.panelID)
	if err != nil {
		return err
	}
	if err := variantvalidator.ValidateBuild(opts.build); err != nil {
		return err
	}
	floor, err := panelapp.ParseTier(opts.status)
	if err != nil {
		return err
	}
	if opts.padding < 0 {
		return &usageError{fmt.Errorf("padding: must not be negative, got %d", opts.padding)}
	}
	patient, withPatient, err := patientFromFlags(opts.patientID, opts.patientName, opts.dob)
	if err != nil {
		return err
	}

	// Refuse to redo a finished run before touching the network.
	writer := bed.NewWriter(viper.GetString("bed_dir"))
	if err := writer.CheckNotExists(code, opts.version, opts.build); err != nil {
		return fmt.Errorf("%w (delete it to regenerate)", err)
	}

	paClient := newPanelAppClient()
	panel, err := paClient.GetPanel(code)
	if err != nil {
		return err
	}
	target := panel
	if opts.version != panel.Version {
		target, err = paClient.GetPanelVersion(panel.PK, opts.version)
		if err != nil {
			return err
		}
	}

	genes := target.GenesAtFloor(floor)
	if len(genes) == 0 {
		return fmt.Errorf("no genes on panel %s v%s at confidence %s", code, opts.version, floor)
	}
	logger.Info("building BED artifacts",
		zap.String("panel_id", code),
		zap.String("version", opts.version),
		zap.String("genome_build", opts.build),
		zap.Int("genes", len(genes)),
		zap.Int("padding", opts.padding))

	resolver := bed.NewResolver(newVariantValidatorClient())
	resolver.SetPadding(int64(opts.padding))
	resolver.SetWorkers(viper.GetInt("workers"))
	resolver.SetLogger(logger)

	bedPath, mergedPath, err := bed.Build(writer, resolver, bed.BuildRequest{
		PanelID:    code,
		Version:    opts.version,
		Build:      opts.build,
		Confidence: string(floor),
		Genes:      genes,
	})
	if err != nil {
		return err
	}

	fmt.Printf("BED file saved to: %s\n", bedPath)
	fmt.Printf("Merged BED file saved to: %s\n", mergedPath)

	if withPatient {
		recordID, err := recordAnalysis(patient, bedPath, mergedPath, code, opts.version, target, genes)
		if err != nil {
			return fmt.Errorf("recording analysis: %w", err)
		}
		fmt.Printf("Analysis recorded with ID %d\n", recordID)
	}
	return nil
}

// patientFromFlags validates the optional patient trio. The flags are
// all-or-none: naming a patient without an NHS number or date of birth
// would store a record that can never be matched back.
func patientFromFlags(id, name, dob string) (duckdb.Patient, bool, error) {
	if id == "" && name == "" && dob == "" {
		return duckdb.Patient{}, false, nil
	}
	if id == "" || name == "" || dob == "" {
		return duckdb.Patient{}, false, &usageError{fmt.Errorf("patient details need --patient_id, --patient_name, and --dob together")}
	}
	parsed, err := duckdb.ParseDOB(dob)
	if err != nil {
		return duckdb.Patient{}, false, err
	}
	patient := duckdb.Patient{NHSNumber: id, Name: name, DOB: parsed}
	if err := patient.Validate(); err != nil {
		return duckdb.Patient{}, false, err
	}
	return patient, true, nil
}

func recordAnalysis(patient duckdb.Patient, bedPath, mergedPath, code, version string, panel *panelapp.Panel, genes []string) (int64, error) {
	store, err := openStore()
	if err != nil {
		return 0, err
	}
	defer store.Close()

	info, err := duckdb.StatArtifact(bedPath)
	if err != nil {
		return 0, err
	}

	return store.AddRecord(duckdb.AnalysisRecord{
		Patient:       patient,
		AnalysisDate:  time.Now(),
		BedFilePath:   bedPath,
		MergedBedPath: mergedPath,
		FileSize:      info.Size,
		Panel: duckdb.PanelData{
			PanelID:      code,
			PanelName:    panel.Name,
			PanelVersion: version,
			PanelPK:      panel.PK,
			Genes:        genes,
		},
	})
}
