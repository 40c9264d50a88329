package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"hash-password", "-password", "sbi123", "-cost", "4"}, &out))

	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("sbi123")))
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"drop-everything"}},
		{"hash without password", []string{"hash-password"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, run(tc.args, &bytes.Buffer{}))
		})
	}
}

func TestParseSeedBank(t *testing.T) {
	f, err := parseSeedBank([]string{"-name", "SBI", "-manager", "Ankit", "-password", "sbi123"})
	require.NoError(t, err)
	assert.Equal(t, "ankit@sbi.local", f.email)
	assert.True(t, strings.HasPrefix(f.phone, "mgr-sbi-"), f.phone)

	g, err := parseSeedBank([]string{"-name", "sbi", "-manager", "Ankit", "-password", "sbi123"})
	require.NoError(t, err)
	assert.NotEqual(t, f.phone, g.phone)

	f, err = parseSeedBank([]string{"-name", "PNB", "-manager", "Sunil", "-password", "x", "-email", "sunil@pnb.in", "-phone", "900"})
	require.NoError(t, err)
	assert.Equal(t, "sunil@pnb.in", f.email)
	assert.Equal(t, "900", f.phone)

	_, err = parseSeedBank([]string{"-name", "SBI"})
	assert.Error(t, err)
}
