package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuccess(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "menage.db")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{"-name", "Renaud", "-email", "renaud@budget.app", "-password", "secret", "-db", dbPath}
	err := run(args, stdin, stdout, stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "User Renaud created successfully")
}

func TestRunDuplicateEmail(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "menage.db")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	args := []string{"-name", "Renaud", "-email", "renaud@budget.app", "-password", "secret", "-db", dbPath}
	require.NoError(t, run(args, stdin, stdout, stderr))

	stdout.Reset()
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRunMissingFlags(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := new(bytes.Buffer)

	err := run([]string{"-password", "secret"}, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: name, email")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRunInteractivePassword(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "menage.db")
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := bytes.NewBufferString("typed-secret\n")

	args := []string{"-name", "Copine", "-email", "copine@budget.app", "-db", dbPath}
	err := run(args, stdin, stdout, stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "User Copine created successfully")
}

func TestRunEmptyPassword(t *testing.T) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	stdin := bytes.NewBufferString("\n")

	args := []string{"-name", "Copine", "-email", "copine@budget.app", "-db", filepath.Join(t.TempDir(), "x.db")}
	err := run(args, stdin, stdout, stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}
