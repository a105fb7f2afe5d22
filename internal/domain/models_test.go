package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCVRecord_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		record *CVRecord
		want   bool
	}{
		{name: "zero value", record: &CVRecord{}, want: true},
		{name: "whitespace name", record: &CVRecord{Name: "   "}, want: true},
		{name: "name set", record: &CVRecord{Name: "Ada Lovelace"}, want: false},
		{name: "skills only", record: &CVRecord{Skills: []string{"Go"}}, want: false},
		{name: "experience only", record: &CVRecord{Experience: []Experience{{Company: "Acme"}}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.IsEmpty())
		})
	}
}

func TestArchiveEntry_HasDataDescriptor(t *testing.T) {
	assert.False(t, (&ArchiveEntry{Flags: 0x0}).HasDataDescriptor())
	assert.True(t, (&ArchiveEntry{Flags: 0x8}).HasDataDescriptor())
	assert.True(t, (&ArchiveEntry{Flags: 0x808}).HasDataDescriptor())
}

func TestUpload_CleanupRunsInReverse(t *testing.T) {
	var order []int
	u := &Upload{}
	u.AddCleanup(func() error { order = append(order, 1); return nil })
	u.AddCleanup(func() error { order = append(order, 2); return errors.New("second") })
	u.AddCleanup(func() error { order = append(order, 3); return errors.New("third") })

	err := u.Cleanup()
	assert.EqualError(t, err, "third")
	assert.Equal(t, []int{3, 2, 1}, order)

	// second call is a no-op
	assert.NoError(t, u.Cleanup())
}

func TestParseLogLevelModels(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("nonsense"))
}
