package duckdb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Patient identifies one patient by NHS number.
type Patient struct {
	NHSNumber string    // exactly 10 digits
	Name      string    // letters and spaces only
	DOB       time.Time // date of birth, date precision
}

var (
	nhsNumberPattern   = regexp.MustCompile(`^\d{10}$`)
	patientNamePattern = regexp.MustCompile(`^[A-Za-z ]+$`)
)

// Validate rejects malformed patient details before anything is written.
func (p Patient) Validate() error {
	if !nhsNumberPattern.MatchString(p.NHSNumber) {
		return fmt.Errorf("patient_id: %q must be exactly 10 digits", p.NHSNumber)
	}
	if !patientNamePattern.MatchString(p.Name) {
		return fmt.Errorf("patient_name: %q must contain only letters and spaces", p.Name)
	}
	if p.DOB.IsZero() {
		return fmt.Errorf("dob: date of birth is required")
	}
	return nil
}

// DOBLayout is the date-of-birth format accepted on the command line.
const DOBLayout = "02-01-2006"

// ParseDOB parses a DD-MM-YYYY date of birth.
func ParseDOB(s string) (time.Time, error) {
	t, err := time.Parse(DOBLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("dob: %q is not a valid date of birth (expected DD-MM-YYYY)", s)
	}
	return t, nil
}

// PanelData is the panel snapshot stored alongside a generated artifact.
// It is persisted as a JSON document in the panel_info table.
type PanelData struct {
	PanelID      string   `json:"panel_id"`
	PanelName    string   `json:"panel_name"`
	PanelVersion string   `json:"panel_version"`
	PanelPK      int      `json:"panel_pk"`
	Genes        []string `json:"genes"`
}

// AnalysisRecord ties a patient to a generated artifact and the panel
// snapshot it was built from.
type AnalysisRecord struct {
	Patient       Patient
	AnalysisDate  time.Time // defaults to today when zero
	BedFilePath   string
	MergedBedPath string // optional
	FileSize      int64
	Panel         PanelData
}

// AddRecord upserts the patient and inserts the artifact row plus the panel
// snapshot in one transaction, returning the bed_files row id.
func (s *Store) AddRecord(rec AnalysisRecord) (int64, error) {
	if err := rec.Patient.Validate(); err != nil {
		return 0, err
	}
	if rec.BedFilePath == "" {
		return 0, fmt.Errorf("bed_file: path is required")
	}
	if rec.AnalysisDate.IsZero() {
		rec.AnalysisDate = time.Now()
	}

	panelJSON, err := json.Marshal(rec.Panel)
	if err != nil {
		return 0, fmt.Errorf("encode panel data: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO patients (nhs_number, patient_name, dob)
		VALUES (?, ?, ?)
		ON CONFLICT (nhs_number) DO UPDATE SET patient_name = excluded.patient_name, dob = excluded.dob`,
		rec.Patient.NHSNumber, rec.Patient.Name, rec.Patient.DOB); err != nil {
		return 0, fmt.Errorf("upsert patient: %w", err)
	}

	var bedFileID int64
	if err := tx.QueryRow(`INSERT INTO bed_files (analysis_date, bed_file_path, merged_bed_path, file_size, patient_id)
		VALUES (?, ?, ?, ?, ?) RETURNING id`,
		rec.AnalysisDate, rec.BedFilePath, nullString(rec.MergedBedPath), rec.FileSize, rec.Patient.NHSNumber).Scan(&bedFileID); err != nil {
		return 0, fmt.Errorf("insert bed file record: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO panel_info (bed_file_id, panel_data) VALUES (?, ?)`,
		bedFileID, string(panelJSON)); err != nil {
		return 0, fmt.Errorf("insert panel info: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit record: %w", err)
	}
	return bedFileID, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// PatientRecord is one stored analysis joined across the three tables.
type PatientRecord struct {
	Patient       Patient
	AnalysisDate  time.Time
	BedFilePath   string
	MergedBedPath string
	Panel         PanelData
}

// QueryPatient returns every stored analysis for an exact patient name, in
// insertion order.
func (s *Store) QueryPatient(name string) ([]PatientRecord, error) {
	rows, err := s.db.Query(`SELECT
		p.nhs_number, p.patient_name, p.dob,
		b.analysis_date, b.bed_file_path, b.merged_bed_path,
		i.panel_data
		FROM patients p
		JOIN bed_files b ON b.patient_id = p.nhs_number
		JOIN panel_info i ON i.bed_file_id = b.id
		WHERE p.patient_name = ?
		ORDER BY b.id`, name)
	if err != nil {
		return nil, fmt.Errorf("query patient: %w", err)
	}
	defer rows.Close()

	var records []PatientRecord
	for rows.Next() {
		var rec PatientRecord
		var merged sql.NullString
		var panelJSON string
		if err := rows.Scan(
			&rec.Patient.NHSNumber, &rec.Patient.Name, &rec.Patient.DOB,
			&rec.AnalysisDate, &rec.BedFilePath, &merged,
			&panelJSON,
		); err != nil {
			return nil, fmt.Errorf("scan patient record: %w", err)
		}
		rec.MergedBedPath = merged.String
		if err := json.Unmarshal([]byte(panelJSON), &rec.Panel); err != nil {
			return nil, fmt.Errorf("decode panel data: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patient records: %w", err)
	}
	return records, nil
}
