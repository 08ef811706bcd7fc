package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate("test")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{"client", "req", "x"} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			nanoidPart, ok := strings.CutPrefix(id, prefix+"-")
			require.True(t, ok)
			assert.Len(t, nanoidPart, nanoidLength)

			for _, c := range nanoidPart {
				assert.True(t, isURLSafe(c), "Character %c should be URL-safe", c)
			}
		})
	}
}

func TestNewClientID(t *testing.T) {
	id, err := NewClientID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, ClientPrefix+"-"))
	assert.True(t, IsClientID(id))
}

func TestIsClientID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "valid", in: "client-V1StGXR8_Z5jdHi6B-myT", want: true},
		{name: "empty", in: "", want: false},
		{name: "wrong prefix", in: "user-V1StGXR8_Z5jdHi6B-myT", want: false},
		{name: "too short", in: "client-V1StGXR8", want: false},
		{name: "too long", in: "client-V1StGXR8_Z5jdHi6B-myTT", want: false},
		{name: "unsafe characters", in: "client-V1StGXR8_Z5jdHi6B<myT", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientID(tt.in))
		})
	}
}

func TestNewViewID(t *testing.T) {
	id, err := NewViewID()
	require.NoError(t, err)

	assert.True(t, IsViewID(id))
	assert.False(t, IsClientID(id), "view ids are not client ids")
}

func TestIsViewID(t *testing.T) {
	assert.True(t, IsViewID("view-V1StGXR8_Z5jdHi6B-myT"))
	assert.False(t, IsViewID("client-V1StGXR8_Z5jdHi6B-myT"))
	assert.False(t, IsViewID("view-short"))
	assert.False(t, IsViewID(""))
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate("bench")
	}
}
