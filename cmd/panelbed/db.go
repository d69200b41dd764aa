package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/panelbed/internal/duckdb"
	"github.com/inodb/panelbed/internal/panelapp"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the local analysis database",
		Long: `Manage the DuckDB database that records which BED files were generated
for which patients.`,
	}
	cmd.AddCommand(newDBSetupCmd(), newDBAddRecordCmd(), newDBQueryCmd())
	return cmd
}

func newDBSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "setup",
		Short:   "Create the database and its tables",
		Example: `  panelbed db setup`,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Printf("Database initialised: %s\n", store.Path())
			return nil
		},
	}
}

type dbAddRecordOptions struct {
	patientID     string
	patientName   string
	dob           string
	bedFile       string
	mergedBedFile string
	panelID       string
	panelName     string
	panelVersion  string
	panelPK       int
	genes         []string
}

func newDBAddRecordCmd() *cobra.Command {
	var opts dbAddRecordOptions

	cmd := &cobra.Command{
		Use:   "add-record",
		Short: "Record an existing BED file against a patient",
		Long: `Record a previously generated BED file against a patient. generate-bed
does this automatically when patient details are supplied; add-record
covers files generated without them.`,
		Example: `  panelbed db add-record --patient_id 1234567890 --patient_name "Jane Doe" --dob 15-05-1985 \
      --bed_file bed_files/R207_v4.0_GRCh38.bed --panel_id R207 --panel_version 4.0`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBAddRecord(opts)
		},
	}

	cmd.Flags().StringVar(&opts.patientID, "patient_id", "", "Patient NHS number (10 digits, required)")
	cmd.Flags().StringVar(&opts.patientName, "patient_name", "", "Patient full name (required)")
	cmd.Flags().StringVar(&opts.dob, "dob", "", "Patient date of birth, DD-MM-YYYY (required)")
	cmd.Flags().StringVar(&opts.bedFile, "bed_file", "", "Path to the BED file to record (required)")
	cmd.Flags().StringVar(&opts.mergedBedFile, "merged_bed_file", "", "Path to the merged BED file")
	cmd.Flags().StringVarP(&opts.panelID, "panel_id", "p", "", "Panel ID, e.g. R207 (required)")
	cmd.Flags().StringVar(&opts.panelName, "panel_name", "", "Panel clinical indication")
	cmd.Flags().StringVarP(&opts.panelVersion, "panel_version", "v", "", "Panel version, e.g. 4.0")
	cmd.Flags().IntVar(&opts.panelPK, "panel_pk", 0, "PanelApp numeric panel id")
	cmd.Flags().StringSliceVar(&opts.genes, "genes", nil, "Comma-separated gene list")
	_ = cmd.MarkFlagRequired("patient_id")
	_ = cmd.MarkFlagRequired("patient_name")
	_ = cmd.MarkFlagRequired("dob")
	_ = cmd.MarkFlagRequired("bed_file")
	_ = cmd.MarkFlagRequired("panel_id")

	return cmd
}

func runDBAddRecord(opts dbAddRecordOptions) error {
	dob, err := duckdb.ParseDOB(opts.dob)
	if err != nil {
		return err
	}
	patient := duckdb.Patient{NHSNumber: opts.patientID, Name: opts.patientName, DOB: dob}
	if err := patient.Validate(); err != nil {
		return err
	}
	code, err := panelapp.NormalizePanelCode(opts.panelID)
	if err != nil {
		return err
	}

	info, err := duckdb.StatArtifact(opts.bedFile)
	if err != nil {
		return fmt.Errorf("bed_file: %w", err)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.AddRecord(duckdb.AnalysisRecord{
		Patient:       patient,
		AnalysisDate:  time.Now(),
		BedFilePath:   opts.bedFile,
		MergedBedPath: opts.mergedBedFile,
		FileSize:      info.Size,
		Panel: duckdb.PanelData{
			PanelID:      code,
			PanelName:    opts.panelName,
			PanelVersion: opts.panelVersion,
			PanelPK:      opts.panelPK,
			Genes:        opts.genes,
		},
	})
	if err != nil {
		return err
	}
	logger.Debug("record added", zap.Int64("id", id), zap.String("panel_id", code))

	fmt.Printf("Record %d added for patient %s\n", id, patient.Name)
	return nil
}

func newDBQueryCmd() *cobra.Command {
	var patientName string

	cmd := &cobra.Command{
		Use:     "query",
		Short:   "Show every analysis recorded for a patient",
		Example: `  panelbed db query --patient "Jane Doe"`,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBQuery(patientName)
		},
	}

	cmd.Flags().StringVar(&patientName, "patient", "", "Patient name to look up (required)")
	_ = cmd.MarkFlagRequired("patient")

	return cmd
}

func runDBQuery(patientName string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.QueryPatient(patientName)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No records found for patient: %s\n", patientName)
		return nil
	}

	for _, rec := range records {
		panelData, err := json.Marshal(rec.Panel)
		if err != nil {
			return fmt.Errorf("encoding panel data: %w", err)
		}
		fmt.Printf("Patient Name: %s\n", rec.Patient.Name)
		fmt.Printf("Patient ID: %s\n", rec.Patient.NHSNumber)
		fmt.Printf("Date of Birth: %s\n", rec.Patient.DOB.Format(duckdb.DOBLayout))
		fmt.Printf("Analysis Date: %s\n", rec.AnalysisDate.Format("2006-01-02"))
		fmt.Printf("BED File Path: %s\n", rec.BedFilePath)
		fmt.Printf("Panel Data: %s\n", panelData)
		fmt.Println(strings.Repeat("-", 40))
	}
	return nil
}
