package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeckKey(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		wantCommander string
		wantOwner     string
		wantErr       bool
	}{
		{name: "simple", key: "Atraxa, Praetors' Voice (DrSull)", wantCommander: "Atraxa, Praetors' Voice", wantOwner: "DrSull"},
		{name: "owner with space", key: "Krenko, Mob Boss (bonaparte jones)", wantCommander: "Krenko, Mob Boss", wantOwner: "bonaparte jones"},
		{name: "partners", key: "Thrasios / Tymna (ostertoaster10)", wantCommander: "Thrasios / Tymna", wantOwner: "ostertoaster10"},
		{name: "parentheses in commander", key: "Who (Doctor) (Spenda4life)", wantCommander: "Who (Doctor)", wantOwner: "Spenda4life"},
		{name: "no owner", key: "Atraxa", wantErr: true},
		{name: "empty owner", key: "Atraxa ()", wantErr: true},
		{name: "no commander", key: "(bob)", wantErr: true},
		{name: "blank commander", key: "  (bob)", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commander, owner, err := ParseDeckKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCommander, commander)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.key, DeckKey(commander, owner))
		})
	}
}
