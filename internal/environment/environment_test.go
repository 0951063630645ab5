package environment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/expand"
)

func TestGetCompWords(t *testing.T) {
	env := expand.ListEnviron("COMP_WORDS=diskutil eject /dev/disk2")
	assert.Equal(t, "diskutil eject /dev/disk2", GetCompWords(env))

	assert.Equal(t, "", GetCompWords(expand.ListEnviron()))
}

func TestGetCompCword(t *testing.T) {
	tests := []struct {
		name    string
		env     []string
		want    int
		wantErr bool
	}{
		{"valid", []string{"COMP_CWORD=2"}, 2, false},
		{"surrounding space", []string{"COMP_CWORD= 3 "}, 3, false},
		{"unset", nil, 0, true},
		{"not a number", []string{"COMP_CWORD=two"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetCompCword(expand.ListEnviron(tt.env...))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasCompletionRequest(t *testing.T) {
	assert.True(t, HasCompletionRequest(expand.ListEnviron("COMP_CWORD=1")))
	assert.False(t, HasCompletionRequest(expand.ListEnviron("COMP_WORDS=diskutil")))
}

func TestGetBool(t *testing.T) {
	for _, raw := range []string{"1", "true", "YES", "on"} {
		v, ok, err := GetBool(expand.ListEnviron(Debug+"="+raw), Debug)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, v, raw)
	}

	for _, raw := range []string{"0", "false", "No", "off"} {
		v, ok, err := GetBool(expand.ListEnviron(Debug+"="+raw), Debug)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.False(t, v, raw)
	}

	_, ok, err := GetBool(expand.ListEnviron(), Debug)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = GetBool(expand.ListEnviron(Debug+"=maybe"), Debug)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestGetDuration(t *testing.T) {
	d, ok, err := GetDuration(expand.ListEnviron(Timeout+"=250ms"), Timeout)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 250*time.Millisecond, d)

	_, ok, err = GetDuration(expand.ListEnviron(Timeout+"=soon"), Timeout)
	assert.Error(t, err)
	assert.False(t, ok)
}
