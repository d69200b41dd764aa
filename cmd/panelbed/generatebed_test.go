package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientFromFlagsAllOrNone(t *testing.T) {
	patient, ok, err := patientFromFlags("", "", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, patient.NHSNumber)

	patient, ok, err = patientFromFlags("1234567890", "Jane Doe", "15-05-1985")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1234567890", patient.NHSNumber)
	assert.Equal(t, "Jane Doe", patient.Name)
	assert.Equal(t, time.Date(1985, 5, 15, 0, 0, 0, 0, time.UTC), patient.DOB)

	// A partial trio is a usage mistake, not a validation failure.
	_, _, err = patientFromFlags("1234567890", "", "15-05-1985")
	require.Error(t, err)
	var usage *usageError
	assert.True(t, errors.As(err, &usage))
}

func TestPatientFromFlagsValidates(t *testing.T) {
	_, _, err := patientFromFlags("12345", "Jane Doe", "15-05-1985")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patient_id")

	_, _, err = patientFromFlags("1234567890", "Jane D03", "15-05-1985")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patient_name")

	_, _, err = patientFromFlags("1234567890", "Jane Doe", "1985-05-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dob")
}
