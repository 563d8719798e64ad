package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_Keys(t *testing.T) {
	tests := []struct {
		name         string
		id           Identity
		wantLedger   string
		wantFavorite string
		wantString   string
	}{
		{
			name:         "member",
			id:           MemberIdentity(7, "alice"),
			wantLedger:   "unlocked_alice",
			wantFavorite: "member:7",
			wantString:   "member:7",
		},
		{
			name:         "guest",
			id:           GuestIdentity("device-1"),
			wantLedger:   "unlocked_guest:device-1",
			wantFavorite: "guest:device-1",
			wantString:   "guest:device-1",
		},
		{
			name:         "owner has no ledger",
			id:           OwnerIdentity("Admin Premium"),
			wantLedger:   "",
			wantFavorite: "owner",
			wantString:   "owner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantLedger, tt.id.LedgerKey())
			assert.Equal(t, tt.wantFavorite, tt.id.FavoritesKey())
			assert.Equal(t, tt.wantString, tt.id.String())
		})
	}
}
